package project

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rpggio/medchron/internal/repository"
)

// Service reads projects from the seeded catalog.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService creates a new project service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// LoadProjects returns the full catalog in its stored order.
func (s *Service) LoadProjects(ctx context.Context) ([]Project, error) {
	projects, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	for _, p := range projects {
		if err := p.Status.Validate(); err != nil {
			return nil, fmt.Errorf("project %s: %w", p.ID, err)
		}
	}
	if s.logger != nil {
		s.logger.Debug("loaded projects", "count", len(projects))
	}
	return projects, nil
}

// Get fetches a catalog project by ID.
func (s *Service) Get(ctx context.Context, id string) (*Project, error) {
	proj, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("getting project: %w", err)
	}
	return proj, nil
}
