package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig indicates values that cannot run together.
var ErrInvalidConfig = errors.New("invalid config")

// Config defines server configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Transport  TransportConfig  `yaml:"transport"`
	DB         DBConfig         `yaml:"db"`
	Log        LogConfig        `yaml:"log"`
	Simulation SimulationConfig `yaml:"simulation"`
	Dashboard  DashboardConfig  `yaml:"dashboard"`
	Operator   OperatorConfig   `yaml:"operator"`
	Metrics    MetricsConfig    `yaml:"metrics"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type TransportConfig struct {
	// Mode is "stdio" or "http".
	Mode string `yaml:"mode"`
}

type DBConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	// Path, when set, sends logs to a size-capped file.
	Path string `yaml:"path"`
}

// SimulationConfig sets the run timeline of the status engine.
type SimulationConfig struct {
	PendingDelay      time.Duration `yaml:"pending_delay"`
	PendingStagger    time.Duration `yaml:"pending_stagger"`
	TickInterval      time.Duration `yaml:"tick_interval"`
	TotalMin          int           `yaml:"total_min"`
	TotalMax          int           `yaml:"total_max"`
	BulkMaxStep       int           `yaml:"bulk_max_step"`
	RunMaxStep        int           `yaml:"run_max_step"`
	StrictTransitions bool          `yaml:"strict_transitions"`
	// Seed fixes the random source; zero seeds from the clock.
	Seed uint64 `yaml:"seed"`
}

type DashboardConfig struct {
	ProjectCount int `yaml:"project_count"`
	PageSize     int `yaml:"page_size"`
	// AutoRefresh reseeds the catalog on this interval; zero disables it.
	AutoRefresh        time.Duration `yaml:"auto_refresh"`
	RefreshMinInterval time.Duration `yaml:"refresh_min_interval"`
	Locale             string        `yaml:"locale"`
}

type OperatorConfig struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Transport: TransportConfig{
			Mode: "http",
		},
		DB: DBConfig{
			Path: ":memory:",
		},
		Log: LogConfig{
			Level: "info",
		},
		Simulation: SimulationConfig{
			PendingDelay:   2 * time.Second,
			PendingStagger: 2 * time.Second,
			TickInterval:   time.Second,
			TotalMin:       20,
			TotalMax:       49,
			BulkMaxStep:    5,
			RunMaxStep:     3,
		},
		Dashboard: DashboardConfig{
			ProjectCount:       56,
			PageSize:           10,
			RefreshMinInterval: time.Second,
			Locale:             "en",
		},
		Operator: OperatorConfig{
			ID:   "current",
			Name: "Current User",
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

// Load reads configuration from the YAML file named by MEDCHRON_CONFIG_PATH,
// if any, and environment variables.
func Load() (Config, error) {
	return LoadFrom(os.Getenv("MEDCHRON_CONFIG_PATH"))
}

// LoadFrom is Load with an explicit file path. An empty path skips the file.
func LoadFrom(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	str := func(name string, dst *string) {
		if v := os.Getenv(name); v != "" {
			*dst = v
		}
	}
	str("MEDCHRON_SERVER_HOST", &cfg.Server.Host)
	str("MEDCHRON_TRANSPORT", &cfg.Transport.Mode)
	str("MEDCHRON_DB_PATH", &cfg.DB.Path)
	str("MEDCHRON_LOG_LEVEL", &cfg.Log.Level)
	str("MEDCHRON_LOG_PATH", &cfg.Log.Path)
	str("MEDCHRON_LOCALE", &cfg.Dashboard.Locale)
	str("MEDCHRON_OPERATOR_ID", &cfg.Operator.ID)
	str("MEDCHRON_OPERATOR_NAME", &cfg.Operator.Name)

	ints := []struct {
		name string
		dst  *int
	}{
		{"MEDCHRON_SERVER_PORT", &cfg.Server.Port},
		{"MEDCHRON_TOTAL_MIN", &cfg.Simulation.TotalMin},
		{"MEDCHRON_TOTAL_MAX", &cfg.Simulation.TotalMax},
		{"MEDCHRON_PROJECT_COUNT", &cfg.Dashboard.ProjectCount},
		{"MEDCHRON_PAGE_SIZE", &cfg.Dashboard.PageSize},
	}
	for _, e := range ints {
		v := os.Getenv(e.name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", e.name, err)
		}
		*e.dst = n
	}

	durations := []struct {
		name string
		dst  *time.Duration
	}{
		{"MEDCHRON_PENDING_DELAY", &cfg.Simulation.PendingDelay},
		{"MEDCHRON_PENDING_STAGGER", &cfg.Simulation.PendingStagger},
		{"MEDCHRON_TICK_INTERVAL", &cfg.Simulation.TickInterval},
		{"MEDCHRON_AUTO_REFRESH", &cfg.Dashboard.AutoRefresh},
		{"MEDCHRON_REFRESH_MIN_INTERVAL", &cfg.Dashboard.RefreshMinInterval},
	}
	for _, e := range durations {
		v := os.Getenv(e.name)
		if v == "" {
			continue
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", e.name, err)
		}
		*e.dst = d
	}

	bools := []struct {
		name string
		dst  *bool
	}{
		{"MEDCHRON_STRICT_TRANSITIONS", &cfg.Simulation.StrictTransitions},
		{"MEDCHRON_METRICS_ENABLED", &cfg.Metrics.Enabled},
	}
	for _, e := range bools {
		v := os.Getenv(e.name)
		if v == "" {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", e.name, err)
		}
		*e.dst = b
	}

	if v := os.Getenv("MEDCHRON_SEED"); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid MEDCHRON_SEED: %w", err)
		}
		cfg.Simulation.Seed = seed
	}
	return nil
}

// Validate rejects values the server cannot run with.
func (c Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...))
		}
	}

	check(c.Transport.Mode == "stdio" || c.Transport.Mode == "http", "transport.mode %q must be stdio or http", c.Transport.Mode)
	if c.Transport.Mode == "http" {
		check(c.Server.Port > 0 && c.Server.Port < 65536, "server.port %d out of range", c.Server.Port)
	}
	check(c.DB.Path != "", "db.path is required")
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		check(false, "log.level %q must be debug, info, warn or error", c.Log.Level)
	}

	s := c.Simulation
	check(s.PendingDelay >= 0, "simulation.pending_delay must not be negative")
	check(s.PendingStagger >= 0, "simulation.pending_stagger must not be negative")
	check(s.TickInterval > 0, "simulation.tick_interval must be positive")
	check(s.TotalMin >= 0, "simulation.total_min must not be negative")
	check(s.TotalMax >= s.TotalMin, "simulation.total_max %d below total_min %d", s.TotalMax, s.TotalMin)
	check(s.BulkMaxStep >= 1, "simulation.bulk_max_step must be at least 1")
	check(s.RunMaxStep >= 1, "simulation.run_max_step must be at least 1")

	d := c.Dashboard
	check(d.ProjectCount >= 1, "dashboard.project_count must be at least 1")
	check(d.PageSize >= 1, "dashboard.page_size must be at least 1")
	check(d.AutoRefresh >= 0, "dashboard.auto_refresh must not be negative")
	check(d.RefreshMinInterval >= 0, "dashboard.refresh_min_interval must not be negative")
	if _, err := language.Parse(d.Locale); err != nil {
		check(false, "dashboard.locale %q: %v", d.Locale, err)
	}

	check(c.Operator.Name != "", "operator.name is required")
	return errors.Join(errs...)
}

// LocaleTag returns the parsed dashboard locale, English when unparsable.
func (c Config) LocaleTag() language.Tag {
	tag, err := language.Parse(c.Dashboard.Locale)
	if err != nil {
		return language.English
	}
	return tag
}
