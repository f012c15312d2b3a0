package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/rpggio/medchron/internal/domain/project"
	"github.com/rpggio/medchron/internal/domain/session"
	"github.com/rpggio/medchron/internal/repository"
	"github.com/rpggio/medchron/internal/view"
	"github.com/stretchr/testify/require"
)

func TestSessionRepository_CreateGetUpdate(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewSessionRepository(db)

	now := time.Now().UTC()
	sess := &session.Session{ID: "s1", CreatedAt: now, LastActivity: now}
	require.NoError(t, repo.Create(ctx, sess))

	loaded, err := repo.Get(ctx, "s1")
	require.NoError(t, err)
	require.Empty(t, loaded.Selected)
	require.Empty(t, loaded.Visible)

	loaded.Selected = []string{"proj-1", "proj-4"}
	loaded.Visible = []string{"proj-1", "proj-2"}
	loaded.View = view.Config{
		Search:    "mall",
		Statuses:  []project.StatusKind{project.KindReview},
		SortBy:    view.SortByName,
		Direction: view.Desc,
		Page:      2,
		PageSize:  25,
	}
	loaded.LastActivity = now.Add(time.Minute)
	require.NoError(t, repo.Update(ctx, loaded))

	again, err := repo.Get(ctx, "s1")
	require.NoError(t, err)
	require.Equal(t, loaded.Selected, again.Selected)
	require.Equal(t, loaded.Visible, again.Visible)
	require.Equal(t, loaded.View, again.View)
	require.True(t, again.LastActivity.Equal(loaded.LastActivity))
}

func TestSessionRepository_Errors(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewSessionRepository(db)

	_, err := repo.Get(ctx, "missing")
	require.ErrorIs(t, err, repository.ErrNotFound)

	require.ErrorIs(t, repo.Update(ctx, &session.Session{ID: "missing"}), repository.ErrNotFound)

	require.NoError(t, repo.Create(ctx, &session.Session{ID: "s1"}))
	require.ErrorIs(t, repo.Create(ctx, &session.Session{ID: "s1"}), repository.ErrConflict)
}
