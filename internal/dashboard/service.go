// Package dashboard ties the catalog, the status engine and the activity
// log together behind the operations the dashboard exposes.
package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/rpggio/medchron/internal/domain/activity"
	"github.com/rpggio/medchron/internal/domain/project"
	"github.com/rpggio/medchron/internal/engine"
	"github.com/rpggio/medchron/internal/view"
	"golang.org/x/text/language"
	"golang.org/x/time/rate"
)

// Options configures a Service.
type Options struct {
	// Locale selects the collation used to sort names.
	Locale language.Tag
	// RefreshMinInterval throttles Refresh; zero disables throttling.
	RefreshMinInterval time.Duration
	// Operator is recorded as the initiator of runs.
	Operator project.User
}

// Service serves projections over the engine's collection.
type Service struct {
	loader   ProjectLoader
	reseeder Reseeder
	engine   *engine.Engine
	trees    TreeCache
	activity ActivityLogger
	opts     Options
	limiter  *rate.Limiter
	logger   *slog.Logger
}

// NewService creates a dashboard service. reseeder, trees and activityLog
// may be nil.
func NewService(
	loader ProjectLoader,
	reseeder Reseeder,
	eng *engine.Engine,
	trees TreeCache,
	activityLog ActivityLogger,
	opts Options,
	logger *slog.Logger,
) *Service {
	if opts.Locale == language.Und {
		opts.Locale = language.English
	}
	s := &Service{
		loader:   loader,
		reseeder: reseeder,
		engine:   eng,
		trees:    trees,
		activity: activityLog,
		opts:     opts,
		logger:   logger,
	}
	if opts.RefreshMinInterval > 0 {
		s.limiter = rate.NewLimiter(rate.Every(opts.RefreshMinInterval), 1)
	}
	return s
}

// Operator returns the user runs are initiated as.
func (s *Service) Operator() project.User {
	return s.opts.Operator
}

// Load installs the current catalog without reseeding or throttling.
func (s *Service) Load(ctx context.Context) (int, error) {
	projects, err := s.loader.LoadProjects(ctx)
	if err != nil {
		return 0, fmt.Errorf("loading projects: %w", err)
	}
	s.engine.Replace(projects)
	if s.trees != nil {
		s.trees.Forget()
	}
	return len(projects), nil
}

// Refresh regenerates the catalog and replaces the collection wholesale,
// cancelling every active run.
func (s *Service) Refresh(ctx context.Context) (int, error) {
	if s.limiter != nil && !s.limiter.Allow() {
		return 0, ErrRefreshThrottled
	}
	return s.refresh(ctx)
}

func (s *Service) refresh(ctx context.Context) (int, error) {
	if s.reseeder != nil {
		if err := s.reseeder.Reseed(ctx); err != nil {
			return 0, fmt.Errorf("reseeding: %w", err)
		}
	}
	n, err := s.Load(ctx)
	if err != nil {
		return 0, err
	}
	if s.logger != nil {
		s.logger.Info("projects refreshed", "count", n)
	}
	s.log(ctx, &activity.Entry{
		Type:    activity.TypeProjectsRefreshed,
		Summary: fmt.Sprintf("loaded %d projects", n),
	}, nil)
	return n, nil
}

// List projects the current collection through cfg.
func (s *Service) List(cfg view.Config) (view.Page, error) {
	return view.ProjectIn(s.opts.Locale, s.engine.Snapshot(), cfg)
}

// Summary counts the current collection per status kind.
func (s *Service) Summary() view.Summary {
	return view.Summarize(s.engine.Snapshot())
}

// Get returns one project.
func (s *Service) Get(id string) (project.Project, error) {
	p, ok := s.engine.Get(id)
	if !ok {
		return project.Project{}, fmt.Errorf("%w: %s", project.ErrProjectNotFound, id)
	}
	return p, nil
}

// Initiate starts bulk runs for ids as the operator and returns the ids
// that exist.
func (s *Service) Initiate(ctx context.Context, ids []string) []string {
	initiated := s.engine.Initiate(ids, s.opts.Operator)
	if len(initiated) == 0 {
		return initiated
	}
	if s.logger != nil {
		s.logger.Info("projects initiated", "count", len(initiated), "by", s.opts.Operator.Name)
	}
	s.log(ctx, &activity.Entry{
		Type:    activity.TypeProjectsInitiated,
		Summary: fmt.Sprintf("%s initiated %d projects", s.opts.Operator.Name, len(initiated)),
	}, map[string][]string{"ids": initiated})
	return initiated
}

// SetStatus overwrites one project's status.
func (s *Service) SetStatus(id string, status project.Status) (project.Project, error) {
	if _, ok := s.engine.Get(id); !ok {
		return project.Project{}, fmt.Errorf("%w: %s", project.ErrProjectNotFound, id)
	}
	if err := s.engine.SetStatus(id, status); err != nil {
		return project.Project{}, err
	}
	return s.Get(id)
}

// Forward records status-kind changes from the engine in the activity log
// until ctx is done or the engine closes.
func (s *Service) Forward(ctx context.Context) error {
	updates, unsubscribe := s.engine.Subscribe()
	defer unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return nil
		case u, ok := <-updates:
			if !ok {
				return nil
			}
			s.forward(ctx, u)
		}
	}
}

func (s *Service) forward(ctx context.Context, u engine.Update) {
	switch u.Reason {
	case engine.ReasonStarted, engine.ReasonCompleted, engine.ReasonManual:
	default:
		return
	}
	if u.Previous.Kind == u.Project.Status.Kind {
		return
	}
	s.log(ctx, &activity.Entry{
		ProjectID: u.Project.ID,
		Type:      activity.TypeStatusChanged,
		Summary:   fmt.Sprintf("%s -> %s", u.Previous.Kind, u.Project.Status.Kind),
	}, map[string]any{"reason": u.Reason, "status": u.Project.Status})
}

// AutoRefresh refreshes every interval until ctx is done. Failures are
// logged and do not stop the loop.
func (s *Service) AutoRefresh(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return nil
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := s.refresh(ctx); err != nil && s.logger != nil {
				s.logger.Warn("auto refresh failed", "error", err)
			}
		}
	}
}

func (s *Service) log(ctx context.Context, entry *activity.Entry, details any) {
	if s.activity == nil {
		return
	}
	if details != nil {
		if raw, err := json.Marshal(details); err == nil {
			entry.Details = string(raw)
		}
	}
	if err := s.activity.LogActivity(ctx, entry); err != nil && s.logger != nil {
		s.logger.Warn("failed to log activity", "type", entry.Type, "error", err)
	}
}
