// Package config provides TOML file configuration and logger setup for
// the jumpz binaries.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/elynrose/jumpz/jump"
)

// Config is the resolved runtime configuration.
type Config struct {
	Level       int     `toml:"level"`        // sensitivity 1–5
	Mode        string  `toml:"mode"`         // simple | enhanced | hybrid
	Source      string  `toml:"source"`       // synth | replay
	ReplayPath  string  `toml:"replay_path"`  // CSV recording (source = replay)
	ReplaySpeed float64 `toml:"replay_speed"` // playback multiplier, 0 = unpaced
	DBPath      string  `toml:"db_path"`      // SQLite session store
	Listen      string  `toml:"listen"`       // jumpd WebSocket listen address
	LogLevel    string  `toml:"log_level"`    // error | warn | info | debug
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Level:       jump.DefaultLevel,
		Mode:        string(jump.ModeHybrid),
		Source:      "synth",
		ReplaySpeed: 1.0,
		DBPath:      "jumpz.db",
		Listen:      "127.0.0.1:8077",
		LogLevel:    "info",
	}
}

// Load reads a TOML config from path, layered over defaults. A missing
// file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to stat config: %w", err)
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, cfg.validate()
}

func (c Config) validate() error {
	if c.Level < jump.MinLevel || c.Level > jump.MaxLevel {
		return fmt.Errorf("level must be %d..%d, got %d", jump.MinLevel, jump.MaxLevel, c.Level)
	}
	if _, err := jump.ParseMode(c.Mode); err != nil {
		return err
	}
	switch c.Source {
	case "synth":
	case "replay":
		if c.ReplayPath == "" {
			return fmt.Errorf("source %q requires replay_path", c.Source)
		}
	default:
		return fmt.Errorf("invalid source: %q (must be synth or replay)", c.Source)
	}
	if _, err := parseLogLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

func parseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "error":
		return slog.LevelError, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	default:
		return 0, fmt.Errorf("invalid log level: %s (must be error, warn, info, or debug)", level)
	}
}

// SetupLogger creates a text slog logger at the configured level.
func SetupLogger(level string) (*slog.Logger, error) {
	l, err := parseLogLevel(level)
	if err != nil {
		return nil, err
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l})), nil
}
