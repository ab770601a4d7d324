// Package config loads the rsyncwatch configuration document: YAML parse,
// struct-tag defaults, environment overlay, then validation, in that
// order, so a fatal configuration error (spec error kind 1) surfaces
// before any watch is registered.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	yaml "go.yaml.in/yaml/v4"

	"github.com/lsyncd-go/rsyncwatch/internal/rsync"
)

// Config is the on-disk document, see SPEC_FULL.md §3.
type Config struct {
	Source       string             `yaml:"source" validate:"required"`
	Destinations []DestinationEntry `yaml:"destinations" validate:"required,min=1,dive"`
	Global       Global             `yaml:"global,omitempty"`
	Logging      Logging            `yaml:"logging,omitempty"`
	Control      Control            `yaml:"control,omitempty"`
	Monitoring   Monitoring         `yaml:"monitoring,omitempty"`
}

// DestinationEntry is one configured replication target.
type DestinationEntry struct {
	Target      string `yaml:"target" validate:"required"`
	InitialSync bool   `yaml:"initial_sync,omitempty"`
}

// Global holds the process-wide tunables from spec §6, each overridable by
// an RSYNCWATCH_* environment variable.
type Global struct {
	RsyncBinary      string        `yaml:"rsync_binary,omitempty" default:"rsync"`
	DryRun           bool          `yaml:"dry_run,omitempty"`
	TimerLimit       time.Duration `yaml:"timer_limit,omitempty" default:"60s" env:"RSYNCWATCH_TIMER_LIMIT" validate:"min=1000000000"`
	MaxChanges       int           `yaml:"max_changes,omitempty" default:"1000" env:"RSYNCWATCH_MAX_CHANGES" validate:"min=1"`
	MaxChangesSync   int           `yaml:"max_changes_sync,omitempty" default:"100" env:"RSYNCWATCH_MAX_CHANGES_SYNC" validate:"min=1"`
	MaxQueueLen      int           `yaml:"max_queue_len,omitempty" default:"100000" env:"RSYNCWATCH_MAX_QUEUE_LEN" validate:"min=1"`
	TimeSleepFailure time.Duration `yaml:"time_sleep_failure,omitempty" default:"60s" env:"RSYNCWATCH_TIME_SLEEP_FAILURE" validate:"min=1000000000"`
	MaxSyncFailures  int           `yaml:"max_sync_failures,omitempty" default:"5" env:"RSYNCWATCH_MAX_SYNC_FAILURES" validate:"min=1"`
	LockPath         string        `yaml:"lock_path,omitempty" default:"/var/run/rsyncwatch/daemon.lock" env:"RSYNCWATCH_LOCK_PATH"`
}

// Logging configures component K's output.
type Logging struct {
	Level  string `yaml:"level,omitempty" default:"info" validate:"omitempty,oneof=debug info warn error"`
	Format string `yaml:"format,omitempty" default:"human" validate:"omitempty,oneof=human json"`
	Color  bool   `yaml:"color,omitempty" default:"true"`
}

// Control configures the Unix-domain status socket (component M).
type Control struct {
	SockPath string `yaml:"sockpath,omitempty" default:"/var/run/rsyncwatch/control.sock"`
}

// Monitoring configures the Prometheus listener (component L) and the
// periodic reporter schedule (component Q).
type Monitoring struct {
	Listen string `yaml:"listen,omitempty"`
	Report string `yaml:"report,omitempty" default:"@every 5m"`
}

// Load reads, defaults, overlays and validates the document at path, then
// checks the configured rsync binary is executable — a configuration-fatal
// error (spec error kind 1) that must surface before any watch is
// registered.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg, err := Parse(raw)
	if err != nil {
		return nil, err
	}
	if err := rsync.CheckExecutable(cfg.Global.RsyncBinary); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// Parse runs the full pipeline — YAML unmarshal, defaults.Set, env.Parse,
// validator.Validate — over an in-memory document, primarily so tests
// don't need a file on disk.
func Parse(raw []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}
	if err := defaults.Set(cfg); err != nil {
		return nil, fmt.Errorf("config: apply defaults: %w", err)
	}
	if err := env.Parse(&cfg.Global); err != nil {
		return nil, fmt.Errorf("config: apply env overrides: %w", err)
	}
	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}
	return cfg, nil
}
