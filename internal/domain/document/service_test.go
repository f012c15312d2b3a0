package document_test

import (
	"context"
	"testing"

	"github.com/rpggio/medchron/internal/domain/activity"
	"github.com/rpggio/medchron/internal/domain/document"
	"github.com/rpggio/medchron/internal/domain/project"
	"github.com/rpggio/medchron/internal/repository"
	"github.com/rpggio/medchron/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type runCall struct {
	id    string
	total int
	by    project.User
}

type fakeRunner struct {
	known map[string]bool
	calls []runCall
}

func (f *fakeRunner) Run(id string, total int, by project.User) bool {
	if !f.known[id] {
		return false
	}
	f.calls = append(f.calls, runCall{id: id, total: total, by: by})
	return true
}

var operator = project.User{ID: "current", Name: "Current User"}

func TestDocumentService_LoadsOnceAndKeepsEdits(t *testing.T) {
	ctx := context.Background()

	source := &mocks.DocumentRepository{}
	source.On("LoadDocumentTree", ctx, "proj-1").Return(sampleTree(), nil).Once()

	svc := document.NewService(source, &fakeRunner{}, nil, nil)

	tree, err := svc.ToggleFolder(ctx, "proj-1", "folder-0")
	require.NoError(t, err)
	require.False(t, tree[0].Included)

	tree, err = svc.Tree(ctx, "proj-1")
	require.NoError(t, err)
	require.False(t, tree[0].Included)
	source.AssertExpectations(t)
}

func TestDocumentService_ReturnedTreeIsACopy(t *testing.T) {
	ctx := context.Background()

	source := &mocks.DocumentRepository{}
	source.On("LoadDocumentTree", ctx, "proj-1").Return(sampleTree(), nil).Once()

	svc := document.NewService(source, &fakeRunner{}, nil, nil)
	tree, err := svc.Tree(ctx, "proj-1")
	require.NoError(t, err)
	tree[1].Children[2].Included = true

	again, err := svc.Tree(ctx, "proj-1")
	require.NoError(t, err)
	require.False(t, again[1].Children[2].Included)
}

func TestDocumentService_UnknownIDs(t *testing.T) {
	ctx := context.Background()

	source := &mocks.DocumentRepository{}
	source.On("LoadDocumentTree", ctx, "proj-1").Return(sampleTree(), nil)
	source.On("LoadDocumentTree", ctx, "proj-404").Return(nil, repository.ErrNotFound)

	svc := document.NewService(source, &fakeRunner{}, nil, nil)

	_, err := svc.ToggleDocument(ctx, "proj-1", "doc-7", "folder-0")
	require.ErrorIs(t, err, document.ErrDocumentNotFound)

	_, err = svc.ExcludeAll(ctx, "proj-1", "folder-9")
	require.ErrorIs(t, err, document.ErrDocumentNotFound)

	_, err = svc.Tree(ctx, "proj-404")
	require.ErrorIs(t, err, project.ErrProjectNotFound)
}

func TestDocumentService_RunRequiresIncludedDocuments(t *testing.T) {
	ctx := context.Background()

	source := &mocks.DocumentRepository{}
	source.On("LoadDocumentTree", ctx, "proj-1").Return(sampleTree(), nil)
	runner := &fakeRunner{known: map[string]bool{"proj-1": true}}

	svc := document.NewService(source, runner, nil, nil)
	_, err := svc.ExcludeAll(ctx, "proj-1", "folder-0")
	require.NoError(t, err)
	_, err = svc.ExcludeAll(ctx, "proj-1", "folder-5")
	require.NoError(t, err)

	_, err = svc.Run(ctx, "proj-1", operator)
	require.ErrorIs(t, err, document.ErrNoDocumentsIncluded)
	require.Empty(t, runner.calls)

	_, ok := svc.LastRun("proj-1")
	require.False(t, ok)
}

func TestDocumentService_RunRecordsSnapshot(t *testing.T) {
	ctx := context.Background()

	source := &mocks.DocumentRepository{}
	source.On("LoadDocumentTree", ctx, "proj-1").Return(sampleTree(), nil)
	runner := &fakeRunner{known: map[string]bool{"proj-1": true}}

	activityRepo := &mocks.ActivityRepository{}
	activityRepo.On("Log", ctx, mock.MatchedBy(func(e *activity.Entry) bool {
		return e.Type == activity.TypeRunStarted && e.ProjectID == "proj-1"
	})).Return(nil).Once()
	activitySvc := activity.NewService(activityRepo, nil)

	svc := document.NewService(source, runner, activitySvc, nil)
	snap, err := svc.Run(ctx, "proj-1", operator)
	require.NoError(t, err)
	require.NotEmpty(t, snap.ID)
	require.Equal(t, 3, snap.Total)
	require.Equal(t, []string{"doc-0-1", "doc-5-0", "doc-5-1"}, snap.IncludedDocIDs)
	require.Equal(t, []string{"doc-0-0", "doc-5-2"}, snap.ExcludedDocIDs)
	require.Equal(t, "Current User", snap.InitiatedBy)
	require.Equal(t, []runCall{{id: "proj-1", total: 3, by: operator}}, runner.calls)

	last, ok := svc.LastRun("proj-1")
	require.True(t, ok)
	require.Equal(t, snap.ID, last.ID)
	activityRepo.AssertExpectations(t)
}

func TestDocumentService_RunUnknownProject(t *testing.T) {
	ctx := context.Background()

	source := &mocks.DocumentRepository{}
	source.On("LoadDocumentTree", ctx, "proj-2").Return(sampleTree(), nil)

	svc := document.NewService(source, &fakeRunner{}, nil, nil)
	_, err := svc.Run(ctx, "proj-2", operator)
	require.ErrorIs(t, err, project.ErrProjectNotFound)
}

func TestDocumentService_ResetReloads(t *testing.T) {
	ctx := context.Background()

	source := &mocks.DocumentRepository{}
	source.On("LoadDocumentTree", ctx, "proj-1").Return(sampleTree(), nil).Twice()

	svc := document.NewService(source, &fakeRunner{}, nil, nil)
	_, err := svc.ExcludeAll(ctx, "proj-1", "folder-5")
	require.NoError(t, err)

	tree, err := svc.Reset(ctx, "proj-1")
	require.NoError(t, err)
	require.Equal(t, sampleTree(), tree)
	source.AssertExpectations(t)
}
