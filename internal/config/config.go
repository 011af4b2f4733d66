package config

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"

	"studio/internal/domain/schedule"
)

// Config holds every tunable of the studio, read from STUDIO_* variables.
type Config struct {
	DBPath    string `env:"STUDIO_DB_PATH,    default=studio.db"`
	Env       string `env:"STUDIO_ENV,        default=development"`
	LogLevel  string `env:"STUDIO_LOG_LEVEL,  default=warn"`
	LogPretty bool   `env:"STUDIO_LOG_PRETTY, default=true"`

	Studio StudioConfig
}

// StudioConfig holds the booking rules.
type StudioConfig struct {
	Capacity     int           `env:"STUDIO_CAPACITY,      default=6"`
	ClassTimes   []string      `env:"STUDIO_CLASS_TIMES,   default=07:00,09:00,18:00"`
	DaysAhead    int           `env:"STUDIO_DAYS_AHEAD,    default=21"`
	ChangeWindow time.Duration `env:"STUDIO_CHANGE_WINDOW, default=24h"`
	Timezone     string        `env:"STUDIO_TIMEZONE,      default=Local"`
	SlowQuery    time.Duration `env:"STUDIO_SLOW_QUERY,    default=50ms"`
}

// Load reads configuration from the process environment using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

// LoadFrom reads configuration from a fixed map, for tests and tooling.
func LoadFrom(ctx context.Context, env map[string]string) (*Config, error) {
	return load(ctx, envconfig.MapLookuper(env))
}

func load(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

// Validate rejects settings the booking rules cannot work with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.DBPath) == "" {
		return errors.New("STUDIO_DB_PATH cannot be empty")
	}
	if c.Studio.Capacity <= 0 {
		return errors.New("STUDIO_CAPACITY must be positive")
	}
	if c.Studio.ChangeWindow < 0 {
		return errors.New("STUDIO_CHANGE_WINDOW cannot be negative")
	}
	if err := c.Template().Validate(); err != nil {
		return err
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Template returns the daily slot template.
func (c *Config) Template() schedule.Template {
	times := make([]string, 0, len(c.Studio.ClassTimes))
	for _, t := range c.Studio.ClassTimes {
		times = append(times, strings.TrimSpace(t))
	}
	return schedule.Template{Times: times, DaysAhead: c.Studio.DaysAhead}
}

// Location resolves the studio timezone slots are interpreted in.
func (c *Config) Location() (*time.Location, error) {
	name := strings.TrimSpace(c.Studio.Timezone)
	if name == "" || strings.EqualFold(name, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("STUDIO_TIMEZONE %q: %w", name, err)
	}
	return loc, nil
}

// IsProduction reports whether the studio runs with real member data.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
