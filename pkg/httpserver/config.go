package httpserver

import "time"

// Config is the environment-driven form of the server options.
type Config struct {
	Addr            string        `env:"CONTROL_ADDR" envDefault:"127.0.0.1:8080"`
	ReadTimeout     time.Duration `env:"CONTROL_READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout    time.Duration `env:"CONTROL_WRITE_TIMEOUT" envDefault:"0s"` // DriveTo may hold a request for as long as listeners block
	IdleTimeout     time.Duration `env:"CONTROL_IDLE_TIMEOUT" envDefault:"120s"`
	ShutdownTimeout time.Duration `env:"CONTROL_SHUTDOWN_TIMEOUT" envDefault:"5s"`
}

// NewFromConfig creates a Server from cfg. Zero values keep the defaults;
// opts are applied after the config.
func NewFromConfig(cfg Config, opts ...Option) *Server {
	configOpts := make([]Option, 0, 5+len(opts))

	if cfg.Addr != "" {
		configOpts = append(configOpts, WithAddr(cfg.Addr))
	}
	if cfg.ReadTimeout > 0 {
		configOpts = append(configOpts, WithReadTimeout(cfg.ReadTimeout))
	}
	if cfg.WriteTimeout > 0 {
		configOpts = append(configOpts, WithWriteTimeout(cfg.WriteTimeout))
	}
	if cfg.IdleTimeout > 0 {
		configOpts = append(configOpts, WithIdleTimeout(cfg.IdleTimeout))
	}
	if cfg.ShutdownTimeout > 0 {
		configOpts = append(configOpts, WithShutdownTimeout(cfg.ShutdownTimeout))
	}

	return New(append(configOpts, opts...)...)
}
