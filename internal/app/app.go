// Package app wires storage, the status engine and the services into one
// running dashboard.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rpggio/medchron/internal/config"
	"github.com/rpggio/medchron/internal/dashboard"
	"github.com/rpggio/medchron/internal/domain/activity"
	"github.com/rpggio/medchron/internal/domain/document"
	"github.com/rpggio/medchron/internal/domain/project"
	"github.com/rpggio/medchron/internal/domain/session"
	"github.com/rpggio/medchron/internal/engine"
	"github.com/rpggio/medchron/internal/mcp"
	"github.com/rpggio/medchron/internal/metrics"
	"github.com/rpggio/medchron/internal/seed"
	"github.com/rpggio/medchron/internal/sqlite"
	"github.com/rpggio/medchron/internal/transport"
	"golang.org/x/sync/errgroup"
)

// Version is reported to MCP clients.
var Version = "0.1.0"

// App is a fully wired dashboard.
type App struct {
	Config config.Config
	Logger *slog.Logger

	DB        *sqlite.DB
	Engine    *engine.Engine
	Seeder    *seed.Seeder
	Dashboard *dashboard.Service
	Documents *document.Service
	Sessions  *session.Service
	Activity  *activity.Service
	// Metrics is nil when metrics are disabled.
	Metrics *metrics.Metrics

	Handler   *mcp.Handler
	MCPServer *sdkmcp.Server
}

// New opens the database, seeds the catalog and loads it into a fresh
// engine. logger may be nil.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if err := ensureDBDir(cfg.DB.Path); err != nil {
		return nil, fmt.Errorf("prepare database path: %w", err)
	}
	db, err := sqlite.New(cfg.DB.Path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.RunMigrations(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	a := &App{Config: cfg, Logger: logger, DB: db}

	var observer engine.Observer
	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		a.Metrics = metrics.New(reg)
		observer = a.Metrics.Observer()
	}

	seedA, seedB := cfg.Simulation.Seed, cfg.Simulation.Seed^0x6d656463
	if cfg.Simulation.Seed == 0 {
		seedA, seedB = uint64(time.Now().UnixNano()), rand.Uint64()
	}

	a.Engine = engine.New(engine.Options{
		PendingDelay:      cfg.Simulation.PendingDelay,
		PendingStagger:    cfg.Simulation.PendingStagger,
		TickInterval:      cfg.Simulation.TickInterval,
		TotalMin:          cfg.Simulation.TotalMin,
		TotalMax:          cfg.Simulation.TotalMax,
		BulkMaxStep:       cfg.Simulation.BulkMaxStep,
		RunMaxStep:        cfg.Simulation.RunMaxStep,
		StrictTransitions: cfg.Simulation.StrictTransitions,
		SubscriberBuffer:  engine.DefaultOptions().SubscriberBuffer,
		Rand:              rand.New(rand.NewPCG(seedA, seedB)),
		Observer:          observer,
		Logger:            logger,
	})

	projectRepo := sqlite.NewProjectRepository(db)
	documentRepo := sqlite.NewDocumentRepository(db)
	sessionRepo := sqlite.NewSessionRepository(db)
	activityRepo := sqlite.NewActivityRepository(db)

	gen := seed.NewGenerator(rand.New(rand.NewPCG(seedB, seedA)), time.Now)
	a.Seeder = seed.NewSeeder(projectRepo, gen, cfg.Dashboard.ProjectCount, logger)

	a.Activity = activity.NewService(activityRepo, logger)
	a.Sessions = session.NewService(sessionRepo, logger)
	a.Documents = document.NewService(documentRepo, a.Engine, a.Activity, logger)
	a.Dashboard = dashboard.NewService(
		project.NewService(projectRepo, logger),
		a.Seeder,
		a.Engine,
		a.Documents,
		a.Activity,
		dashboard.Options{
			Locale:             cfg.LocaleTag(),
			RefreshMinInterval: cfg.Dashboard.RefreshMinInterval,
			Operator:           project.User{ID: cfg.Operator.ID, Name: cfg.Operator.Name},
		},
		logger,
	)

	var toolObserver mcp.ToolObserver
	if a.Metrics != nil {
		toolObserver = a.Metrics
	}
	a.Handler = mcp.NewHandler(mcp.Services{
		Dashboard: a.Dashboard,
		Documents: a.Documents,
		Sessions:  a.Sessions,
		Activity:  a.Activity,
	}, toolObserver)
	a.MCPServer = mcp.NewServer(mcp.Config{
		Handler: a.Handler,
		Version: Version,
		Logger:  logger,
	})

	if err := a.Seeder.Reseed(ctx); err != nil {
		a.Close()
		return nil, err
	}
	n, err := a.Dashboard.Load(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}
	logger.Info("catalog loaded", "projects", n, "db", cfg.DB.Path)
	return a, nil
}

// HTTPHandler serves /mcp, /rpc, /health and, when enabled, /metrics.
func (a *App) HTTPHandler() http.Handler {
	mcpHandler := sdkmcp.NewStreamableHTTPHandler(
		func(*http.Request) *sdkmcp.Server { return a.MCPServer },
		&sdkmcp.StreamableHTTPOptions{
			SessionTimeout: 30 * time.Minute,
		},
	)
	opts := transport.Options{
		MCP:    mcpHandler,
		Logger: a.Logger,
	}
	if a.Metrics != nil {
		opts.Metrics = a.Metrics.Handler()
		opts.Middleware = append(opts.Middleware, a.Metrics.Middleware)
	}
	return transport.NewServer(a.Handler, opts)
}

// RunBackground forwards engine updates to the activity log and, when
// configured, refreshes the catalog periodically. It blocks until ctx is
// done.
func (a *App) RunBackground(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return a.Dashboard.Forward(ctx) })
	g.Go(func() error { return a.Dashboard.AutoRefresh(ctx, a.Config.Dashboard.AutoRefresh) })
	return g.Wait()
}

// Close stops every run and closes the database.
func (a *App) Close() error {
	a.Engine.Close()
	return a.DB.Close()
}

// ensureDBDir creates the parent directory of a file-backed database.
func ensureDBDir(path string) error {
	if path == "" || path == ":memory:" || strings.HasPrefix(path, "file:") {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
