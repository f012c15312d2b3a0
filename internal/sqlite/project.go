package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rpggio/medchron/internal/domain/document"
	"github.com/rpggio/medchron/internal/domain/project"
	"github.com/rpggio/medchron/internal/repository"
)

// ProjectRepository stores the seeded case catalog.
type ProjectRepository struct {
	db *DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// ReplaceAll swaps the whole catalog, projects and document trees, in one
// transaction. Trees for projects not in projects are rejected.
func (r *ProjectRepository) ReplaceAll(ctx context.Context, projects []project.Project, trees map[string][]document.Candidate) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM documents`); err != nil {
		return fmt.Errorf("failed to clear documents: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM projects`); err != nil {
		return fmt.Errorf("failed to clear projects: %w", err)
	}

	insertProject, err := tx.PrepareContext(ctx, `
		INSERT INTO projects (
			id, position, name, status_kind, pending_count, processed, total,
			initiated_by_id, initiated_by_name, initiated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare project insert: %w", err)
	}
	defer insertProject.Close()

	for i, p := range projects {
		var byID, byName sql.NullString
		if p.InitiatedBy != nil {
			byID = sql.NullString{String: p.InitiatedBy.ID, Valid: true}
			byName = sql.NullString{String: p.InitiatedBy.Name, Valid: true}
		}
		var at sql.NullTime
		if p.InitiatedAt != nil {
			at = sql.NullTime{Time: *p.InitiatedAt, Valid: true}
		}
		if _, err := insertProject.ExecContext(ctx,
			p.ID,
			i,
			p.Name,
			p.Status.Kind,
			p.Status.PendingCount,
			p.Status.Processed,
			p.Status.Total,
			byID,
			byName,
			at,
		); err != nil {
			return writeError("insert project "+p.ID, err)
		}
	}

	for projectID, tree := range trees {
		if err := insertTree(ctx, tx, projectID, tree); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit catalog: %w", err)
	}
	return nil
}

// List returns every project in catalog order.
func (r *ProjectRepository) List(ctx context.Context) ([]project.Project, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT
			id, name, status_kind, pending_count, processed, total,
			initiated_by_id, initiated_by_name, initiated_at
		FROM projects
		ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	projects := []project.Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating projects: %w", err)
	}

	return projects, nil
}

// Get retrieves a project by ID
func (r *ProjectRepository) Get(ctx context.Context, id string) (*project.Project, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT
			id, name, status_kind, pending_count, processed, total,
			initiated_by_id, initiated_by_name, initiated_at
		FROM projects
		WHERE id = ?
	`, id)

	p, err := scanProject(row)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProject(s scanner) (*project.Project, error) {
	var (
		p      project.Project
		kind   string
		byID   sql.NullString
		byName sql.NullString
		at     sql.NullTime
	)
	err := s.Scan(
		&p.ID,
		&p.Name,
		&kind,
		&p.Status.PendingCount,
		&p.Status.Processed,
		&p.Status.Total,
		&byID,
		&byName,
		&at,
	)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan project: %w", err)
	}

	p.Status.Kind, err = project.ParseKind(kind)
	if err != nil {
		return nil, fmt.Errorf("project %s: %w", p.ID, err)
	}
	if byID.Valid {
		p.InitiatedBy = &project.User{ID: byID.String, Name: byName.String}
	}
	if at.Valid {
		t := at.Time
		p.InitiatedAt = &t
	}
	return &p, nil
}
