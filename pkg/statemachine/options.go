package statemachine

import (
	"log/slog"
	"time"
)

const (
	defaultName         = "statemachine"
	defaultIdleInterval = time.Second
	defaultNotifyBuffer = 16
)

// Option configures an Engine during construction.
type Option func(*options)

type options struct {
	name         string
	idleInterval time.Duration
	notifyBuffer int
	logger       *slog.Logger
}

func defaultOptions() *options {
	return &options{
		name:         defaultName,
		idleInterval: defaultIdleInterval,
		notifyBuffer: defaultNotifyBuffer,
	}
}

// WithName names the engine and its worker for diagnostics.
func WithName(name string) Option {
	return func(o *options) {
		if name != "" {
			o.name = name
		}
	}
}

// WithIdleInterval bounds how long the worker sleeps when it has nothing to
// do before it checks the route again. Non-positive values are ignored.
func WithIdleInterval(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.idleInterval = d
		}
	}
}

// WithNotifyBuffer sets the per-subscriber buffer of the change feed.
func WithNotifyBuffer(n int) Option {
	return func(o *options) {
		o.notifyBuffer = max(n, 1)
	}
}

// WithLogger sets the logger. A nil logger keeps the discarding default.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// Config describes an engine through environment variables.
type Config struct {
	Name         string        `env:"FSM_NAME" envDefault:"telegraph"`
	IdleInterval time.Duration `env:"FSM_IDLE_INTERVAL" envDefault:"1s"`
	NotifyBuffer int           `env:"FSM_NOTIFY_BUFFER" envDefault:"16"`
}

// NewFromConfig creates an engine from cfg. Only non-zero values are applied;
// opts are applied after them.
func NewFromConfig(cfg Config, opts ...Option) *Engine {
	configOpts := make([]Option, 0, 3+len(opts))

	if cfg.Name != "" {
		configOpts = append(configOpts, WithName(cfg.Name))
	}
	if cfg.IdleInterval > 0 {
		configOpts = append(configOpts, WithIdleInterval(cfg.IdleInterval))
	}
	if cfg.NotifyBuffer > 0 {
		configOpts = append(configOpts, WithNotifyBuffer(cfg.NotifyBuffer))
	}

	return New(append(configOpts, opts...)...)
}
