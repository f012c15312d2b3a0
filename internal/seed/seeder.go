package seed

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/rpggio/medchron/internal/domain/document"
	"github.com/rpggio/medchron/internal/domain/project"
)

// Store replaces the whole catalog atomically.
type Store interface {
	ReplaceAll(ctx context.Context, projects []project.Project, trees map[string][]document.Candidate) error
}

// Seeder regenerates the catalog on demand.
type Seeder struct {
	store  Store
	gen    *Generator
	count  int
	logger *slog.Logger

	// mu guards gen, whose source is not safe for concurrent use.
	mu sync.Mutex
}

// NewSeeder creates a seeder writing count projects per reseed.
func NewSeeder(store Store, gen *Generator, count int, logger *slog.Logger) *Seeder {
	if count <= 0 {
		count = DefaultProjectCount
	}
	return &Seeder{store: store, gen: gen, count: count, logger: logger}
}

// Reseed generates a fresh catalog and writes it to the store.
func (s *Seeder) Reseed(ctx context.Context) error {
	s.mu.Lock()
	projects := s.gen.Projects(s.count)
	trees := make(map[string][]document.Candidate, len(projects))
	for _, p := range projects {
		trees[p.ID] = s.gen.Documents()
	}
	s.mu.Unlock()

	if err := s.store.ReplaceAll(ctx, projects, trees); err != nil {
		return fmt.Errorf("writing catalog: %w", err)
	}
	if s.logger != nil {
		s.logger.Info("catalog reseeded", "projects", len(projects))
	}
	return nil
}
