package redis

import "time"

// Config describes the Redis connection used to relay state changes.
// An empty URL disables the relay.
type Config struct {
	URL            string        `env:"REDIS_URL"` // redis://:password@localhost:6379/0
	Channel        string        `env:"REDIS_CHANNEL" envDefault:"telegraph:changes"`
	RetryAttempts  int           `env:"REDIS_RETRY_ATTEMPTS" envDefault:"3"`
	RetryInterval  time.Duration `env:"REDIS_RETRY_INTERVAL" envDefault:"2s"`
	ConnectTimeout time.Duration `env:"REDIS_CONNECT_TIMEOUT" envDefault:"10s"`
}

// Enabled reports whether a connection URL is configured.
func (c Config) Enabled() bool { return c.URL != "" }
