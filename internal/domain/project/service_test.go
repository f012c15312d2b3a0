package project_test

import (
	"context"
	"testing"

	"github.com/rpggio/medchron/internal/domain/project"
	"github.com/rpggio/medchron/internal/repository"
	"github.com/rpggio/medchron/internal/repository/mocks"
	"github.com/stretchr/testify/require"
)

func TestProjectService_GetNotFound(t *testing.T) {
	ctx := context.Background()

	repo := &mocks.ProjectRepository{}
	repo.On("Get", ctx, "proj-9").Return((*project.Project)(nil), repository.ErrNotFound)

	svc := project.NewService(repo, nil)
	_, err := svc.Get(ctx, "proj-9")
	require.ErrorIs(t, err, project.ErrProjectNotFound)
}

func TestProjectService_LoadProjectsRejectsCorruptStatus(t *testing.T) {
	ctx := context.Background()

	repo := &mocks.ProjectRepository{}
	repo.On("List", ctx).Return([]project.Project{
		{ID: "proj-1", Name: "Baker v. Ridgeview Apartments", Status: project.InProgress(8, 4)},
	}, nil)

	svc := project.NewService(repo, nil)
	_, err := svc.LoadProjects(ctx)
	require.ErrorIs(t, err, project.ErrInvalidStatus)
}

func TestProjectService_LoadProjects(t *testing.T) {
	ctx := context.Background()

	repo := &mocks.ProjectRepository{}
	repo.On("List", ctx).Return([]project.Project{
		{ID: "proj-1", Name: "Baker v. Ridgeview Apartments", Status: project.Completed()},
		{ID: "proj-2", Name: "Ramos v. Northgate Superstore", Status: project.NotInitiated()},
	}, nil)

	svc := project.NewService(repo, nil)
	projects, err := svc.LoadProjects(ctx)
	require.NoError(t, err)
	require.Len(t, projects, 2)
	repo.AssertExpectations(t)
}
