package pg

import "time"

// Config holds PostgreSQL pool settings loaded from the environment.
// ConnectionURL may be empty when the deployment runs without a
// database.
type Config struct {
	ConnectionURL  string        `env:"DATABASE_URL" envDefault:""`
	MaxConns       int32         `env:"DATABASE_MAX_CONNS" envDefault:"10"`
	MinConns       int32         `env:"DATABASE_MIN_CONNS" envDefault:"0"`
	RetryAttempts  int           `env:"DATABASE_RETRY_ATTEMPTS" envDefault:"3"`
	RetryInterval  time.Duration `env:"DATABASE_RETRY_INTERVAL" envDefault:"5s"`
	ConnectTimeout time.Duration `env:"DATABASE_CONNECT_TIMEOUT" envDefault:"30s"`
}
