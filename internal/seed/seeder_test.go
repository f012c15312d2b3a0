package seed_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rpggio/medchron/internal/domain/document"
	"github.com/rpggio/medchron/internal/domain/project"
	"github.com/rpggio/medchron/internal/seed"
	"github.com/rpggio/medchron/internal/sqlite"
	"github.com/stretchr/testify/require"
)

type failingStore struct{}

func (failingStore) ReplaceAll(context.Context, []project.Project, map[string][]document.Candidate) error {
	return errors.New("disk full")
}

func TestSeeder_ReseedWritesCatalog(t *testing.T) {
	ctx := context.Background()
	db, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.RunMigrations())

	projects := sqlite.NewProjectRepository(db)
	seeder := seed.NewSeeder(projects, newGenerator(5), 12, nil)
	require.NoError(t, seeder.Reseed(ctx))

	list, err := projects.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 12)

	tree, err := sqlite.NewDocumentRepository(db).LoadDocumentTree(ctx, list[0].ID)
	require.NoError(t, err)
	require.Len(t, tree, 11)

	require.NoError(t, seeder.Reseed(ctx))
	list, err = projects.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 12)
}

func TestSeeder_ReseedError(t *testing.T) {
	seeder := seed.NewSeeder(failingStore{}, newGenerator(6), 0, nil)
	require.ErrorContains(t, seeder.Reseed(context.Background()), "disk full")
}
