// Package testserver runs the full dashboard behind an httptest server with
// a fast, seeded simulation.
package testserver

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rpggio/medchron/internal/app"
	"github.com/rpggio/medchron/internal/config"
	"github.com/stretchr/testify/require"
)

type TestServer struct {
	Server *httptest.Server
	App    *app.App
}

// Config returns settings that finish a bulk run in well under a second.
func Config() config.Config {
	cfg := config.Default()
	cfg.DB.Path = ":memory:"
	cfg.Simulation.PendingDelay = 10 * time.Millisecond
	cfg.Simulation.PendingStagger = 5 * time.Millisecond
	cfg.Simulation.TickInterval = 5 * time.Millisecond
	cfg.Simulation.TotalMin = 2
	cfg.Simulation.TotalMax = 6
	cfg.Simulation.Seed = 7
	cfg.Dashboard.ProjectCount = 24
	cfg.Dashboard.RefreshMinInterval = 0
	return cfg
}

// New starts a server. Each mutate func adjusts Config before wiring.
func New(t *testing.T, mutate ...func(*config.Config)) *TestServer {
	t.Helper()

	cfg := Config()
	for _, fn := range mutate {
		fn(&cfg)
	}

	ctx, cancel := context.WithCancel(context.Background())
	a, err := app.New(ctx, cfg, nil)
	if err != nil {
		cancel()
		require.NoError(t, err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = a.RunBackground(ctx)
	}()

	server := httptest.NewServer(a.HTTPHandler())
	t.Cleanup(func() {
		server.Close()
		cancel()
		<-done
		_ = a.Close()
	})

	return &TestServer{Server: server, App: a}
}
