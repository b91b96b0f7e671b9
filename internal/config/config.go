// Package config loads Taskmate settings from defaults, a TOML file,
// TASKMATE_* environment variables and command-line flags, in that order.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/pflag"
)

const (
	DefaultAddr           = "127.0.0.1:8088"
	DefaultIdentityHeader = "X-Taskmate-User"
	DefaultWebhookHeader  = "X-Taskmate-Webhook-Secret"
	DefaultStudyMinutes   = 25
	DefaultBreakMinutes   = 5
)

type Config struct {
	// User is the acting user id for CLI commands.
	User   string       `toml:"user"`
	DB     DBConfig     `toml:"db"`
	Server ServerConfig `toml:"server"`
	Log    LogConfig    `toml:"log"`
	Timer  TimerConfig  `toml:"timer"`
}

type DBConfig struct {
	Path string `toml:"path"`
}

type ServerConfig struct {
	Addr           string `toml:"addr"`
	IdentityHeader string `toml:"identity_header"`
	WebhookHeader  string `toml:"webhook_header"`
	// WebhookSecret must be set for the identity webhook to accept calls.
	WebhookSecret string `toml:"webhook_secret"`
	Metrics       bool   `toml:"metrics"`
}

type LogConfig struct {
	Level    string `toml:"level"`
	UseCases bool   `toml:"use_cases"`
}

type TimerConfig struct {
	StudyMinutes int `toml:"study_minutes"`
	BreakMinutes int `toml:"break_minutes"`
}

// Dir is the per-user data directory, ~/.taskmate.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}
	return filepath.Join(home, ".taskmate"), nil
}

// DefaultConfig returns the built-in settings. The database lives next to
// the config file in dir.
func DefaultConfig(dir string) *Config {
	return &Config{
		DB: DBConfig{Path: filepath.Join(dir, "taskmate.db")},
		Server: ServerConfig{
			Addr:           DefaultAddr,
			IdentityHeader: DefaultIdentityHeader,
			WebhookHeader:  DefaultWebhookHeader,
			Metrics:        true,
		},
		Log:   LogConfig{Level: "info"},
		Timer: TimerConfig{StudyMinutes: DefaultStudyMinutes, BreakMinutes: DefaultBreakMinutes},
	}
}

// Load builds the effective config. An empty path means
// ~/.taskmate/taskmate.toml, which may be absent; an explicit path must
// exist.
func Load(path string) (*Config, error) {
	dir, err := Dir()
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig(dir)

	explicit := path != ""
	if !explicit {
		path = filepath.Join(dir, "taskmate.toml")
	}
	if err := loadFile(cfg, path); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	if err := loadFromEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadFile(cfg *Config, path string) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return err
		}
		return fmt.Errorf("loading config file %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("config file %s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	return nil
}

// loadFromEnv overrides config from TASKMATE_* environment variables.
func loadFromEnv(cfg *Config) error {
	if v := os.Getenv("TASKMATE_USER"); v != "" {
		cfg.User = v
	}
	if v := os.Getenv("TASKMATE_DB"); v != "" {
		cfg.DB.Path = v
	}
	if v := os.Getenv("TASKMATE_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("TASKMATE_IDENTITY_HEADER"); v != "" {
		cfg.Server.IdentityHeader = v
	}
	if v := os.Getenv("TASKMATE_WEBHOOK_SECRET"); v != "" {
		cfg.Server.WebhookSecret = v
	}
	if v := os.Getenv("TASKMATE_METRICS"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("TASKMATE_METRICS: %w", err)
		}
		cfg.Server.Metrics = b
	}
	if v := os.Getenv("TASKMATE_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("TASKMATE_LOG_USE_CASES"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("TASKMATE_LOG_USE_CASES: %w", err)
		}
		cfg.Log.UseCases = b
	}
	return nil
}

// ApplyFlags copies explicitly set flags over the loaded values. Flags
// the command does not define are ignored.
func (c *Config) ApplyFlags(flags *pflag.FlagSet) error {
	str := func(name string, dst *string) error {
		f := flags.Lookup(name)
		if f == nil || !f.Changed {
			return nil
		}
		v, err := flags.GetString(name)
		if err != nil {
			return fmt.Errorf("reading --%s: %w", name, err)
		}
		*dst = v
		return nil
	}
	for name, dst := range map[string]*string{
		"user": &c.User,
		"db":   &c.DB.Path,
		"addr": &c.Server.Addr,
	} {
		if err := str(name, dst); err != nil {
			return err
		}
	}
	return c.Validate()
}

func (c *Config) Validate() error {
	if c.DB.Path == "" {
		return errors.New("config: db.path is required")
	}
	if c.Timer.StudyMinutes <= 0 {
		return fmt.Errorf("config: timer.study_minutes must be positive, got %d", c.Timer.StudyMinutes)
	}
	if c.Timer.BreakMinutes < 0 {
		return fmt.Errorf("config: timer.break_minutes must not be negative, got %d", c.Timer.BreakMinutes)
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// SlogLevel parses Log.Level ("debug", "info", "warn", "error").
func (c *Config) SlogLevel() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return 0, fmt.Errorf("config: log.level: %w", err)
	}
	return lvl, nil
}

// Example is the commented starter file written by `taskmate config init`.
const Example = `# Taskmate configuration
# user = "user_123"          # acting user for CLI commands

[db]
# path = "~/.taskmate/taskmate.db"

[server]
addr = "127.0.0.1:8088"
identity_header = "X-Taskmate-User"
webhook_header = "X-Taskmate-Webhook-Secret"
# webhook_secret = ""
metrics = true

[log]
level = "info"
use_cases = false

[timer]
study_minutes = 25
break_minutes = 5
`
