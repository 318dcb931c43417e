// Package config resolves catifs settings from flags, CATIFS_* environment
// variables and defaults, and configures logging from them.
package config

import (
	"fmt"
	"io"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/michaelscutari/catifs/internal/db"
	"github.com/michaelscutari/catifs/internal/scan"
)

// EnvPrefix prefixes every environment override, e.g. CATIFS_LOG_LEVEL.
const EnvPrefix = "CATIFS"

// Config holds the resolved settings.
type Config struct {
	Verbose    bool     `mapstructure:"verbose"`
	LogLevel   string   `mapstructure:"log_level"`
	Xdev       bool     `mapstructure:"xdev"`
	Exclude    []string `mapstructure:"exclude"`
	Checkpoint int      `mapstructure:"checkpoint"`
	Lock       bool     `mapstructure:"lock"`
}

// flagKeys maps flag names to config keys.
var flagKeys = map[string]string{
	"verbose":    "verbose",
	"log-level":  "log_level",
	"xdev":       "xdev",
	"exclude":    "exclude",
	"checkpoint": "checkpoint",
	"lock":       "lock",
}

// New returns a viper instance with defaults and environment overrides set.
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault("verbose", false)
	v.SetDefault("log_level", "info")
	v.SetDefault("xdev", false)
	v.SetDefault("exclude", []string{})
	v.SetDefault("checkpoint", db.DefaultCheckpointEvery)
	v.SetDefault("lock", true)
	return v
}

// BindFlags binds every known flag defined on cmd. Flags the command does
// not define are left to env and defaults.
func BindFlags(v *viper.Viper, cmd *cobra.Command) error {
	for name, key := range flagKeys {
		f := cmd.Flags().Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("failed to bind flag %s: %w", name, err)
		}
	}
	return nil
}

// Load decodes and validates the settings held by v.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// Validate checks values that flags and env cannot constrain by type.
func (c *Config) Validate() error {
	if c.Checkpoint <= 0 {
		return fmt.Errorf("checkpoint must be positive, got %d", c.Checkpoint)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level returns the effective log level. Verbose forces debug unless a
// more detailed level was requested.
func (c *Config) Level() (log.Level, error) {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel, fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	if c.Verbose && level < log.DebugLevel {
		level = log.DebugLevel
	}
	return level, nil
}

// SetupLogging points the standard logger at w with the configured level.
func (c *Config) SetupLogging(w io.Writer) error {
	level, err := c.Level()
	if err != nil {
		return err
	}
	if w == nil {
		w = os.Stderr
	}
	log.SetOutput(w)
	log.SetLevel(level)
	log.SetFormatter(&log.TextFormatter{
		DisableTimestamp: level < log.DebugLevel,
		FullTimestamp:    true,
	})
	return nil
}

// ScanOptions builds the walker and committer options.
func (c *Config) ScanOptions() (*scan.ScanOptions, error) {
	opts := scan.DefaultOptions().
		WithXdev(c.Xdev).
		WithCheckpointEvery(c.Checkpoint)

	for _, pattern := range c.Exclude {
		if err := opts.AddExcludePattern(pattern); err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", pattern, err)
		}
	}
	return opts, nil
}
