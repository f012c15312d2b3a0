package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/rpggio/medchron/internal/domain/activity"
	"github.com/stretchr/testify/require"
)

func TestActivityRepository_LogList(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	repo := NewActivityRepository(db)
	entry1 := &activity.Entry{
		ProjectID: "proj-1",
		Type:      activity.TypeProjectsInitiated,
		Summary:   "initiated 1 project",
		Details:   `{"ids":["proj-1"]}`,
		CreatedAt: seededAt,
	}
	entry2 := &activity.Entry{
		ProjectID: "proj-1",
		Type:      activity.TypeStatusChanged,
		Summary:   "pending -> in_progress",
		CreatedAt: seededAt.Add(time.Second),
	}

	require.NoError(t, repo.Log(ctx, entry1))
	require.NoError(t, repo.Log(ctx, entry2))
	require.NotZero(t, entry1.ID)

	entries, err := repo.List(ctx, activity.ListOptions{ProjectID: "proj-1"})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, entry2.Type, entries[0].Type)
	require.Equal(t, entry1.Type, entries[1].Type)
	require.Equal(t, entry1.Details, entries[1].Details)
	require.Empty(t, entries[0].Details)
}

func TestActivityRepository_Filters(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewActivityRepository(db)

	require.NoError(t, repo.Log(ctx, &activity.Entry{Type: activity.TypeProjectsRefreshed, Summary: "loaded 56 projects"}))
	require.NoError(t, repo.Log(ctx, &activity.Entry{ProjectID: "proj-2", Type: activity.TypeRunStarted, Summary: "started run over 4 documents"}))
	require.NoError(t, repo.Log(ctx, &activity.Entry{ProjectID: "proj-2", Type: activity.TypeDocumentsUpdated, Summary: "excluded folder folder-1"}))

	runStarted := activity.TypeRunStarted
	entries, err := repo.List(ctx, activity.ListOptions{ProjectID: "proj-2", Type: &runStarted})
	require.NoError(t, err)
	require.Len(t, entries, 1)

	entries, err = repo.List(ctx, activity.ListOptions{})
	require.NoError(t, err)
	require.Len(t, entries, 3)
	require.Empty(t, entries[2].ProjectID)

	entries, err = repo.List(ctx, activity.ListOptions{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, activity.TypeRunStarted, entries[0].Type)
}
