// Package config loads nemo's configuration.
//
// Precedence, highest first:
//  1. Command-line flags that were set explicitly
//  2. Environment variables (NEMO_STUDY_SESSION_SIZE -> study.session_size)
//  3. The YAML config file, when given
//  4. Flag defaults
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"
	_ "time/tzdata" // Embeds zoneinfo for study.timezone

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// EnvPrefix is stripped from environment variables before mapping.
const EnvPrefix = "NEMO_"

// Config is the root configuration.
type Config struct {
	Database DatabaseConfig `koanf:"database"`
	Server   ServerConfig   `koanf:"server"`
	Study    StudyConfig    `koanf:"study"`
	Progress ProgressConfig `koanf:"progress"`
	Sync     SyncConfig     `koanf:"sync"`
	Log      LogConfig      `koanf:"log"`
}

type DatabaseConfig struct {
	Driver string `koanf:"driver" validate:"oneof=sqlite postgres"`
	DSN    string `koanf:"dsn" validate:"required"`
}

type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port" validate:"min=1,max=65535"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`
	SessionTTL      time.Duration `koanf:"session_ttl" validate:"gt=0"`
}

// Addr returns the listen address.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type StudyConfig struct {
	SessionSize       int    `koanf:"session_size" validate:"min=1"`
	FallbackWhenEmpty bool   `koanf:"fallback_when_empty"`
	Timezone          string `koanf:"timezone" validate:"required"`

	location *time.Location
}

// Location is the timezone calendar days are counted in.
func (c StudyConfig) Location() *time.Location {
	if c.location == nil {
		return time.Local
	}
	return c.location
}

type ProgressConfig struct {
	PointsPerReview int  `koanf:"points_per_review" validate:"min=0"`
	AwardOnForgot   bool `koanf:"award_on_forgot"`
}

type SyncConfig struct {
	ReposDir string        `koanf:"repos_dir" validate:"required"`
	Interval time.Duration `koanf:"interval" validate:"gt=0"`
	Enabled  bool          `koanf:"enabled"`
}

type LogConfig struct {
	Level  string `koanf:"level" validate:"oneof=debug info warn error"`
	Format string `koanf:"format" validate:"oneof=json console"`
}

// Flags returns a FlagSet carrying every key with its default value.
func Flags() *pflag.FlagSet {
	f := pflag.NewFlagSet("nemo", pflag.ContinueOnError)

	f.String("database.driver", "sqlite", "database driver (sqlite or postgres)")
	f.String("database.dsn", "nemo.db", "database data source name")

	f.String("server.host", "localhost", "HTTP listen host")
	f.Int("server.port", 8080, "HTTP listen port")
	f.Duration("server.shutdown_timeout", 10*time.Second, "graceful shutdown timeout")
	f.Duration("server.session_ttl", 2*time.Hour, "evict study sessions idle for this long")

	f.Int("study.session_size", 20, "maximum cards per session")
	f.Bool("study.fallback_when_empty", true, "study any cards when none are due")
	f.String("study.timezone", "Local", "timezone for streak days")

	f.Int("progress.points_per_review", 10, "points awarded per review")
	f.Bool("progress.award_on_forgot", true, "award points for Forgot ratings")

	f.String("sync.repos_dir", "repos", "directory for cloned git sources")
	f.Duration("sync.interval", time.Hour, "periodic source sync interval")
	f.Bool("sync.enabled", true, "sync sources periodically while serving")

	f.String("log.level", "info", "log level (debug, info, warn, error)")
	f.String("log.format", "json", "log format (json or console)")

	return f
}

// Load reads the config file at path (skipped when empty or missing), then
// the environment, then flags. A nil FlagSet means defaults only.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
			}
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to stat config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if flags == nil {
		flags = Flags()
	}
	if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
		return nil, fmt.Errorf("failed to load flags: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// Validate checks struct constraints and resolves the study timezone.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}
	loc, err := time.LoadLocation(c.Study.Timezone)
	if err != nil {
		return fmt.Errorf("invalid study.timezone %q: %w", c.Study.Timezone, err)
	}
	c.Study.location = loc
	return nil
}

// envKey maps NEMO_SECTION_FIELD_NAME to section.field_name.
func envKey(s string) string {
	lower := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	section, field, ok := strings.Cut(lower, "_")
	if !ok {
		return lower
	}
	return section + "." + field
}

