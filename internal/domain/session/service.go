package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/medchron/internal/repository"
	"github.com/rpggio/medchron/internal/view"
)

// Service handles per-client selection and view state.
type Service struct {
	sessions Repository
	logger   *slog.Logger

	// mu serializes read-modify-write cycles on sessions.
	mu sync.Mutex
}

// NewService creates a new session service.
func NewService(sessions Repository, logger *slog.Logger) *Service {
	return &Service{sessions: sessions, logger: logger}
}

// Get returns the session, creating it on first use. An empty id creates a
// fresh session.
func (s *Service) Get(ctx context.Context, sessionID string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ensureSession(ctx, sessionID)
}

// RecordView stores the config and visible ids of the page last shown.
func (s *Service) RecordView(ctx context.Context, sessionID string, cfg view.Config, visible []string) (*Session, error) {
	return s.update(ctx, sessionID, func(sess *Session) error {
		sess.View = cfg
		sess.Visible = append([]string{}, visible...)
		return nil
	})
}

// Toggle flips one project's selection.
func (s *Service) Toggle(ctx context.Context, sessionID, projectID string) (*Session, error) {
	if projectID == "" {
		return nil, fmt.Errorf("%w: project id required", ErrInvalidInput)
	}
	return s.update(ctx, sessionID, func(sess *Session) error {
		sel := sess.Selection()
		sel.Toggle(projectID)
		sess.setSelection(sel)
		return nil
	})
}

// SelectAllOnPage applies the header checkbox to visible, or to the ids of
// the last recorded page when visible is nil.
func (s *Service) SelectAllOnPage(ctx context.Context, sessionID string, visible []string) (*Session, error) {
	return s.update(ctx, sessionID, func(sess *Session) error {
		if visible == nil {
			visible = sess.Visible
		}
		sel := sess.Selection()
		sel.SelectAllOnPage(visible)
		sess.setSelection(sel)
		return nil
	})
}

// Clear empties the selection.
func (s *Service) Clear(ctx context.Context, sessionID string) (*Session, error) {
	return s.update(ctx, sessionID, func(sess *Session) error {
		sess.Selected = []string{}
		return nil
	})
}

// TakeSelection returns the selected ids and clears the selection.
func (s *Service) TakeSelection(ctx context.Context, sessionID string) ([]string, error) {
	var ids []string
	_, err := s.update(ctx, sessionID, func(sess *Session) error {
		ids = sess.Selection().IDs()
		sess.Selected = []string{}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (s *Service) update(ctx context.Context, sessionID string, fn func(*Session) error) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.ensureSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := fn(sess); err != nil {
		return nil, err
	}
	sess.LastActivity = time.Now().UTC()
	if err := s.sessions.Update(ctx, sess); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("updating session: %w", err)
	}
	return sess, nil
}

func (s *Service) ensureSession(ctx context.Context, sessionID string) (*Session, error) {
	if sessionID != "" {
		sess, err := s.sessions.Get(ctx, sessionID)
		if err == nil {
			return sess, nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("loading session: %w", err)
		}
	} else {
		sessionID = uuid.NewString()
	}

	now := time.Now().UTC()
	sess := &Session{
		ID:           sessionID,
		Selected:     []string{},
		Visible:      []string{},
		CreatedAt:    now,
		LastActivity: now,
	}
	if err := s.sessions.Create(ctx, sess); err != nil {
		return nil, fmt.Errorf("creating session: %w", err)
	}
	if s.logger != nil {
		s.logger.Debug("session created", "session_id", sessionID)
	}
	return sess, nil
}
