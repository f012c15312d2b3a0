package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("MEDCHRON_CONFIG_PATH", "")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
	require.Equal(t, ":memory:", cfg.DB.Path)
	require.Equal(t, 2*time.Second, cfg.Simulation.PendingDelay)
	require.Equal(t, 20, cfg.Simulation.TotalMin)
	require.Equal(t, 49, cfg.Simulation.TotalMax)
	require.False(t, cfg.Simulation.StrictTransitions)
	require.Zero(t, cfg.Dashboard.AutoRefresh)
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "medchron.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9090
transport:
  mode: stdio
simulation:
  pending_delay: 10ms
  tick_interval: 5ms
  strict_transitions: true
dashboard:
  project_count: 12
  locale: fr
operator:
  name: Jordan Reyes
`), 0o644))

	t.Setenv("MEDCHRON_CONFIG_PATH", path)
	t.Setenv("MEDCHRON_SERVER_PORT", "9191")
	t.Setenv("MEDCHRON_TICK_INTERVAL", "20ms")
	t.Setenv("MEDCHRON_METRICS_ENABLED", "false")
	t.Setenv("MEDCHRON_SEED", "42")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 9191, cfg.Server.Port)
	require.Equal(t, "stdio", cfg.Transport.Mode)
	require.Equal(t, 10*time.Millisecond, cfg.Simulation.PendingDelay)
	require.Equal(t, 20*time.Millisecond, cfg.Simulation.TickInterval)
	require.True(t, cfg.Simulation.StrictTransitions)
	require.Equal(t, uint64(42), cfg.Simulation.Seed)
	require.Equal(t, 12, cfg.Dashboard.ProjectCount)
	require.Equal(t, "Jordan Reyes", cfg.Operator.Name)
	require.False(t, cfg.Metrics.Enabled)
	require.Equal(t, "fr", cfg.LocaleTag().String())
}

func TestLoad_InvalidEnv(t *testing.T) {
	t.Setenv("MEDCHRON_CONFIG_PATH", "")
	t.Setenv("MEDCHRON_SERVER_PORT", "eighty")

	_, err := Load()
	require.ErrorContains(t, err, "MEDCHRON_SERVER_PORT")
}

func TestLoad_MissingFile(t *testing.T) {
	t.Setenv("MEDCHRON_CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))

	_, err := Load()
	require.ErrorContains(t, err, "read config file")
}

func TestValidate(t *testing.T) {
	cases := map[string]func(*Config){
		"mode":       func(c *Config) { c.Transport.Mode = "carrier-pigeon" },
		"port":       func(c *Config) { c.Server.Port = 0 },
		"level":      func(c *Config) { c.Log.Level = "loud" },
		"tick":       func(c *Config) { c.Simulation.TickInterval = 0 },
		"totals":     func(c *Config) { c.Simulation.TotalMax = 5 },
		"step":       func(c *Config) { c.Simulation.RunMaxStep = 0 },
		"page size":  func(c *Config) { c.Dashboard.PageSize = 0 },
		"locale":     func(c *Config) { c.Dashboard.Locale = "not a locale!" },
		"operator":   func(c *Config) { c.Operator.Name = "" },
		"neg delay":  func(c *Config) { c.Simulation.PendingDelay = -time.Second },
		"neg reload": func(c *Config) { c.Dashboard.AutoRefresh = -time.Second },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := Default()
			mutate(&cfg)
			require.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}

	stdio := Default()
	stdio.Transport.Mode = "stdio"
	stdio.Server.Port = 0
	require.NoError(t, stdio.Validate())
}

func TestLoadFrom_ExplicitPathWinsOverEnvPath(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, "env.yaml")
	flagPath := filepath.Join(dir, "flag.yaml")
	require.NoError(t, os.WriteFile(envPath, []byte("dashboard:\n  page_size: 7\n"), 0o644))
	require.NoError(t, os.WriteFile(flagPath, []byte("dashboard:\n  page_size: 25\n"), 0o644))
	t.Setenv("MEDCHRON_CONFIG_PATH", envPath)

	cfg, err := LoadFrom(flagPath)
	require.NoError(t, err)
	require.Equal(t, 25, cfg.Dashboard.PageSize)
}
