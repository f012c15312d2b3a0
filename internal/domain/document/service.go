package document

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/medchron/internal/domain/activity"
	"github.com/rpggio/medchron/internal/domain/project"
	"github.com/rpggio/medchron/internal/repository"
)

// Service holds the working inclusion tree of every opened project and
// starts runs from them.
type Service struct {
	source   Source
	runner   Runner
	activity ActivityLogger
	logger   *slog.Logger
	now      func() time.Time

	mu    sync.Mutex
	trees map[string][]Candidate
	runs  map[string]RunSnapshot
}

// NewService creates a new document service. activityLog may be nil.
func NewService(source Source, runner Runner, activityLog ActivityLogger, logger *slog.Logger) *Service {
	return &Service{
		source:   source,
		runner:   runner,
		activity: activityLog,
		logger:   logger,
		now:      time.Now,
		trees:    make(map[string][]Candidate),
		runs:     make(map[string]RunSnapshot),
	}
}

// Tree returns the working tree, loading it on first access.
func (s *Service) Tree(ctx context.Context, projectID string) ([]Candidate, error) {
	tree, err := s.working(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return Clone(tree), nil
}

// ToggleFolder flips a folder and cascades the new value to its children.
func (s *Service) ToggleFolder(ctx context.Context, projectID, folderID string) ([]Candidate, error) {
	return s.edit(ctx, projectID, folderID, "", "toggled folder", func(tree []Candidate) []Candidate {
		return ToggleFolder(tree, folderID)
	})
}

// ToggleDocument flips one document of parentID, or a whole folder when
// parentID is empty.
func (s *Service) ToggleDocument(ctx context.Context, projectID, docID, parentID string) ([]Candidate, error) {
	return s.edit(ctx, projectID, docID, parentID, "toggled document", func(tree []Candidate) []Candidate {
		return ToggleDocument(tree, docID, parentID)
	})
}

// ExcludeAll excludes a folder and all of its documents.
func (s *Service) ExcludeAll(ctx context.Context, projectID, folderID string) ([]Candidate, error) {
	return s.edit(ctx, projectID, folderID, "", "excluded folder", func(tree []Candidate) []Candidate {
		return ExcludeAll(tree, folderID)
	})
}

// Reset discards edits and reloads the tree from the source.
func (s *Service) Reset(ctx context.Context, projectID string) ([]Candidate, error) {
	tree, err := s.load(ctx, projectID)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.trees[projectID] = tree
	s.mu.Unlock()
	s.log(ctx, projectID, activity.TypeDocumentsUpdated, "reset document selection", nil)
	return Clone(tree), nil
}

// Run starts a run over the included documents of projectID.
func (s *Service) Run(ctx context.Context, projectID string, by project.User) (*RunSnapshot, error) {
	tree, err := s.working(ctx, projectID)
	if err != nil {
		return nil, err
	}
	total := IncludedCount(tree)
	if total == 0 {
		return nil, ErrNoDocumentsIncluded
	}
	if !s.runner.Run(projectID, total, by) {
		return nil, project.ErrProjectNotFound
	}

	included, excluded := Partition(tree)
	snap := RunSnapshot{
		ID:             uuid.NewString(),
		ProjectID:      projectID,
		IncludedDocIDs: included,
		ExcludedDocIDs: excluded,
		InitiatedBy:    by.Name,
		InitiatedAt:    s.now().UTC(),
		Total:          total,
	}
	s.mu.Lock()
	s.runs[projectID] = snap
	s.mu.Unlock()

	if s.logger != nil {
		s.logger.Info("run started", "project_id", projectID, "run_id", snap.ID, "documents", total)
	}
	s.log(ctx, projectID, activity.TypeRunStarted, fmt.Sprintf("started run over %d documents", total), snap)
	return &snap, nil
}

// LastRun returns the snapshot of the most recent run started for projectID.
func (s *Service) LastRun(projectID string) (RunSnapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, ok := s.runs[projectID]
	return snap, ok
}

// Forget drops every working tree so the next access reloads from the
// source. It is called after the catalog is reseeded.
func (s *Service) Forget() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trees = make(map[string][]Candidate)
}

func (s *Service) edit(ctx context.Context, projectID, id, parentID, summary string, fn func([]Candidate) []Candidate) ([]Candidate, error) {
	if _, err := s.working(ctx, projectID); err != nil {
		return nil, err
	}

	s.mu.Lock()
	tree := s.trees[projectID]
	if _, ok := Find(tree, id, parentID); !ok {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrDocumentNotFound, id)
	}
	tree = fn(tree)
	s.trees[projectID] = tree
	out := Clone(tree)
	s.mu.Unlock()

	s.log(ctx, projectID, activity.TypeDocumentsUpdated, summary+" "+id, map[string]int{"included": IncludedCount(out)})
	return out, nil
}

func (s *Service) working(ctx context.Context, projectID string) ([]Candidate, error) {
	s.mu.Lock()
	tree, ok := s.trees[projectID]
	s.mu.Unlock()
	if ok {
		return tree, nil
	}

	loaded, err := s.load(ctx, projectID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if tree, ok := s.trees[projectID]; ok {
		return tree, nil
	}
	s.trees[projectID] = loaded
	return loaded, nil
}

func (s *Service) load(ctx context.Context, projectID string) ([]Candidate, error) {
	tree, err := s.source.LoadDocumentTree(ctx, projectID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, project.ErrProjectNotFound
		}
		return nil, fmt.Errorf("loading document tree: %w", err)
	}
	return tree, nil
}

func (s *Service) log(ctx context.Context, projectID string, typ activity.Type, summary string, details any) {
	if s.activity == nil {
		return
	}
	entry := &activity.Entry{
		ProjectID: projectID,
		Type:      typ,
		Summary:   summary,
	}
	if details != nil {
		if raw, err := json.Marshal(details); err == nil {
			entry.Details = string(raw)
		}
	}
	if err := s.activity.LogActivity(ctx, entry); err != nil && s.logger != nil {
		s.logger.Warn("failed to log activity", "project_id", projectID, "type", typ, "error", err)
	}
}
