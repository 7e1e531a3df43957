package logger

import (
	"fmt"
	"log/slog"
	"strings"
)

// Config describes a logger through environment variables.
type Config struct {
	Env     string `env:"APP_ENV" envDefault:"development"`
	Service string `env:"APP_NAME" envDefault:"telegraph"`
	Level   string `env:"LOG_LEVEL"`  // debug, info, warn, error; empty keeps the environment preset
	Format  string `env:"LOG_FORMAT"` // json or text; empty keeps the environment preset
}

// NewFromConfig builds a logger from cfg. Explicit level and format values
// override the environment preset. Extra options are applied last.
func NewFromConfig(cfg Config, opts ...Option) (*slog.Logger, error) {
	configOpts := []Option{WithEnvironment(cfg.Env, cfg.Service)}

	if cfg.Level != "" {
		var lvl slog.Level
		if err := lvl.UnmarshalText([]byte(cfg.Level)); err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
		configOpts = append(configOpts, WithLevel(lvl))
	}

	switch f := Format(strings.ToLower(cfg.Format)); f {
	case "":
	case FormatJSON, FormatText:
		configOpts = append(configOpts, WithFormat(f))
	default:
		return nil, fmt.Errorf("invalid log format %q: must be %q or %q", cfg.Format, FormatJSON, FormatText)
	}

	return New(append(configOpts, opts...)...), nil
}
