package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

// NewTestDB creates a new in-memory SQLite database for testing
func NewTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := New(":memory:")
	require.NoError(t, err, "failed to create test database")

	err = db.RunMigrations()
	require.NoError(t, err, "failed to run migrations")

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// TestMigrations verifies that migrations run successfully
func TestMigrations(t *testing.T) {
	db := NewTestDB(t)

	tables := []string{
		"projects",
		"documents",
		"sessions",
		"activity_log",
	}

	for _, table := range tables {
		var count int
		err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&count)
		require.NoError(t, err, "failed to query table %s", table)
		require.Equal(t, 1, count, "table %s not found", table)
	}
}

// TestForeignKeys verifies that foreign key constraints are enabled
func TestForeignKeys(t *testing.T) {
	db := NewTestDB(t)

	var enabled int
	err := db.QueryRow("PRAGMA foreign_keys").Scan(&enabled)
	require.NoError(t, err)
	require.Equal(t, 1, enabled, "foreign keys not enabled")
}

// TestProjectsTable verifies the status constraints on the projects table
func TestProjectsTable(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	_, err := db.ExecContext(ctx,
		`INSERT INTO projects (id, position, name, status_kind, processed, total) VALUES (?, ?, ?, ?, ?, ?)`,
		"proj-1", 0, "Baker v. Ridgeview Apartments", "in_progress", 3, 20)
	require.NoError(t, err)

	_, err = db.ExecContext(ctx,
		`INSERT INTO projects (id, position, name, status_kind) VALUES (?, ?, ?, ?)`,
		"proj-2", 1, "Ramos v. Northgate Superstore", "archived")
	require.Error(t, err, "should fail with unknown status kind")

	_, err = db.ExecContext(ctx,
		`INSERT INTO projects (id, position, name, status_kind, processed, total) VALUES (?, ?, ?, ?, ?, ?)`,
		"proj-3", 2, "Parker v. Sunrise Daycare Center", "in_progress", 9, 4)
	require.Error(t, err, "should fail with processed beyond total")
}

// TestDocumentsTable verifies documents cascade with their project
func TestDocumentsTable(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	_, err := db.ExecContext(ctx,
		`INSERT INTO projects (id, position, name, status_kind) VALUES (?, ?, ?, ?)`,
		"proj-1", 0, "Baker v. Ridgeview Apartments", "not_initiated")
	require.NoError(t, err)

	_, err = db.ExecContext(ctx,
		`INSERT INTO documents (project_id, id, position, name, path, included, is_folder) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		"proj-1", "folder-0", 0, "Discovery", "/Discovery", true, true)
	require.NoError(t, err)

	_, err = db.ExecContext(ctx,
		`INSERT INTO documents (project_id, id, position, name, path, included, is_folder) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		"proj-404", "folder-0", 0, "Discovery", "/Discovery", true, true)
	require.Error(t, err, "should fail with unknown project")

	_, err = db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, "proj-1")
	require.NoError(t, err)

	var count int
	require.NoError(t, db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents`).Scan(&count))
	require.Zero(t, count)
}
