package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/rpggio/medchron/internal/domain/session"
	"github.com/rpggio/medchron/internal/repository"
)

// SessionRepository implements session.Repository for SQLite
type SessionRepository struct {
	db *DB
}

// NewSessionRepository creates a new SessionRepository
func NewSessionRepository(db *DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create creates a new session
func (r *SessionRepository) Create(ctx context.Context, sess *session.Session) error {
	selected, view, visible, err := encodeSession(sess)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO sessions (id, selected, view, visible, created_at, last_activity)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err = r.db.ExecContext(ctx, query,
		sess.ID,
		selected,
		view,
		visible,
		sess.CreatedAt,
		sess.LastActivity,
	)
	if err != nil {
		return writeError("create session", err)
	}

	return nil
}

// Get retrieves a session by ID
func (r *SessionRepository) Get(ctx context.Context, id string) (*session.Session, error) {
	query := `
		SELECT id, selected, view, visible, created_at, last_activity
		FROM sessions
		WHERE id = ?
	`

	var (
		sess                    session.Session
		selected, view, visible string
	)
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&sess.ID,
		&selected,
		&view,
		&visible,
		&sess.CreatedAt,
		&sess.LastActivity,
	)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	if err := json.Unmarshal([]byte(selected), &sess.Selected); err != nil {
		return nil, fmt.Errorf("failed to decode selection: %w", err)
	}
	if err := json.Unmarshal([]byte(view), &sess.View); err != nil {
		return nil, fmt.Errorf("failed to decode view: %w", err)
	}
	if err := json.Unmarshal([]byte(visible), &sess.Visible); err != nil {
		return nil, fmt.Errorf("failed to decode visible rows: %w", err)
	}

	return &sess, nil
}

// Update updates a session
func (r *SessionRepository) Update(ctx context.Context, sess *session.Session) error {
	selected, view, visible, err := encodeSession(sess)
	if err != nil {
		return err
	}

	query := `
		UPDATE sessions
		SET selected = ?, view = ?, visible = ?, last_activity = ?
		WHERE id = ?
	`
	result, err := r.db.ExecContext(ctx, query,
		selected,
		view,
		visible,
		sess.LastActivity,
		sess.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

func encodeSession(sess *session.Session) (selected, view, visible string, err error) {
	ids := sess.Selected
	if ids == nil {
		ids = []string{}
	}
	rows := sess.Visible
	if rows == nil {
		rows = []string{}
	}

	raw, err := json.Marshal(ids)
	if err != nil {
		return "", "", "", fmt.Errorf("failed to encode selection: %w", err)
	}
	selected = string(raw)

	if raw, err = json.Marshal(sess.View); err != nil {
		return "", "", "", fmt.Errorf("failed to encode view: %w", err)
	}
	view = string(raw)

	if raw, err = json.Marshal(rows); err != nil {
		return "", "", "", fmt.Errorf("failed to encode visible rows: %w", err)
	}
	visible = string(raw)

	return selected, view, visible, nil
}
