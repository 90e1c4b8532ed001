package config

import (
	"os"
	"path/filepath"
	"time"

	"emperror.dev/errors"
	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const appName = "ripple"

// Defaults applied by Load when a key is missing or out of range.
const (
	DefaultTickInterval     = 500 * time.Millisecond
	MinTickInterval         = 50 * time.Millisecond
	DefaultSeekStep         = 5 * time.Second
	DefaultScrubCommitDelay = 400 * time.Millisecond
	DefaultLogLevel         = "info"
)

type Config struct {
	DefaultFile      string        `koanf:"default_file"`       // played when no file is given on the command line
	Engine           string        `koanf:"engine"`             // "beep" (default) or "mpv"
	TickInterval     time.Duration `koanf:"tick_interval"`      // position observation cadence (default: 500ms)
	SeekStep         time.Duration `koanf:"seek_step"`          // keyboard scrub step (default: 5s)
	ScrubCommitDelay time.Duration `koanf:"scrub_commit_delay"` // idle time before a keyboard scrub seeks (default: 400ms)
	Volume           *float64      `koanf:"volume"`             // 0.0-1.0 (default: last saved, else 1.0)
	Resume           *bool         `koanf:"resume"`             // restore last position per file (default: true)
	MPRIS            *bool         `koanf:"mpris"`              // expose MPRIS on D-Bus (default: true)
	LogLevel         string        `koanf:"log_level"`          // zerolog level name (default: info)
	LogFile          string        `koanf:"log_file"`           // default: $XDG_STATE_HOME/ripple/ripple.log
}

// Load reads the config files in priority order (last wins) and applies defaults.
func Load() (*Config, error) {
	return LoadFrom(getConfigPaths()...)
}

// LoadFrom reads the given TOML files, skipping missing ones.
func LoadFrom(paths ...string) (*Config, error) {
	k := koanf.New(".")

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, errors.Wrapf(err, "parse %s", path)
			}
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, errors.Wrap(err, "decode config")
	}

	cfg.applyDefaults()

	if cfg.DefaultFile != "" {
		cfg.DefaultFile = expandPath(cfg.DefaultFile)
	}
	if cfg.LogFile != "" {
		cfg.LogFile = expandPath(cfg.LogFile)
	}

	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Engine == "" {
		c.Engine = "beep"
	}
	if c.TickInterval <= 0 {
		c.TickInterval = DefaultTickInterval
	}
	c.TickInterval = max(c.TickInterval, MinTickInterval)
	if c.SeekStep <= 0 {
		c.SeekStep = DefaultSeekStep
	}
	if c.ScrubCommitDelay <= 0 {
		c.ScrubCommitDelay = DefaultScrubCommitDelay
	}
	if c.Volume != nil {
		v := max(0, min(*c.Volume, 1))
		c.Volume = &v
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
}

func getConfigPaths() []string {
	return []string{
		// 1. $XDG_CONFIG_HOME/ripple/config.toml
		filepath.Join(xdg.ConfigHome, appName, "config.toml"),
		// 2. ./config.toml (pwd, highest priority)
		"config.toml",
	}
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// ResumeEnabled reports whether per-file positions are restored.
func (c *Config) ResumeEnabled() bool {
	return c.Resume == nil || *c.Resume
}

// MPRISEnabled reports whether the MPRIS adapter should start.
func (c *Config) MPRISEnabled() bool {
	return c.MPRIS == nil || *c.MPRIS
}

// LogPath returns the log file path, defaulting to the XDG state directory.
func (c *Config) LogPath() (string, error) {
	if c.LogFile != "" {
		return c.LogFile, nil
	}
	return xdg.StateFile(filepath.Join(appName, appName+".log"))
}
