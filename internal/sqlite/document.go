package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rpggio/medchron/internal/domain/document"
	"github.com/rpggio/medchron/internal/repository"
)

// DocumentRepository reads the seeded document trees.
type DocumentRepository struct {
	db *DB
}

// NewDocumentRepository creates a new DocumentRepository
func NewDocumentRepository(db *DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

// LoadDocumentTree returns the folders of a project with their documents,
// in seeded order.
func (r *DocumentRepository) LoadDocumentTree(ctx context.Context, projectID string) ([]document.Candidate, error) {
	var exists int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM projects WHERE id = ?`, projectID).Scan(&exists)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to check project: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT
			id, parent_id, name, path, type, uploaded_by, uploaded_at,
			included, is_folder
		FROM documents
		WHERE project_id = ?
		ORDER BY parent_id IS NOT NULL, position
	`, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load documents: %w", err)
	}
	defer rows.Close()

	tree := []document.Candidate{}
	folders := map[string]int{}
	for rows.Next() {
		var (
			c          document.Candidate
			parentID   sql.NullString
			docType    sql.NullString
			uploadedBy sql.NullString
			uploadedAt sql.NullTime
		)
		if err := rows.Scan(
			&c.ID,
			&parentID,
			&c.Name,
			&c.Path,
			&docType,
			&uploadedBy,
			&uploadedAt,
			&c.Included,
			&c.IsFolder,
		); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		c.Type = docType.String
		c.UploadedBy = uploadedBy.String
		if uploadedAt.Valid {
			t := uploadedAt.Time
			c.UploadedAt = &t
		}

		if !parentID.Valid {
			folders[c.ID] = len(tree)
			tree = append(tree, c)
			continue
		}
		i, ok := folders[parentID.String]
		if !ok {
			return nil, fmt.Errorf("document %s: unknown folder %s", c.ID, parentID.String)
		}
		tree[i].Children = append(tree[i].Children, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating documents: %w", err)
	}

	return tree, nil
}

func insertTree(ctx context.Context, tx *sql.Tx, projectID string, tree []document.Candidate) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO documents (
			project_id, id, parent_id, position, name, path, type,
			uploaded_by, uploaded_at, included, is_folder
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare document insert: %w", err)
	}
	defer stmt.Close()

	insert := func(c document.Candidate, parentID sql.NullString, position int) error {
		var at sql.NullTime
		if c.UploadedAt != nil {
			at = sql.NullTime{Time: *c.UploadedAt, Valid: true}
		}
		_, err := stmt.ExecContext(ctx,
			projectID,
			c.ID,
			parentID,
			position,
			c.Name,
			c.Path,
			nullString(c.Type),
			nullString(c.UploadedBy),
			at,
			c.Included,
			c.IsFolder,
		)
		if err != nil {
			return writeError("insert document "+c.ID, err)
		}
		return nil
	}

	for i, folder := range tree {
		if err := insert(folder, sql.NullString{}, i); err != nil {
			return err
		}
		parent := sql.NullString{String: folder.ID, Valid: true}
		for j, doc := range folder.Children {
			if err := insert(doc, parent, j); err != nil {
				return err
			}
		}
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
