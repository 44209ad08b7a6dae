// Package redis initializes the Redis client used by the rate limiter
// store backend.
//
// Connect validates the connection URL, dials with retry and verifies
// connectivity with a ping before returning the client. Healthcheck
// returns a probe function for the health endpoint.
//
// Configuration is environment driven:
//
//	type Config struct {
//		ConnectionURL  string        `env:"REDIS_URL" envDefault:""`
//		RetryAttempts  int           `env:"REDIS_RETRY_ATTEMPTS" envDefault:"3"`
//		RetryInterval  time.Duration `env:"REDIS_RETRY_INTERVAL" envDefault:"5s"`
//		ConnectTimeout time.Duration `env:"REDIS_CONNECT_TIMEOUT" envDefault:"30s"`
//		ScanBatchSize  int           `env:"REDIS_SCAN_BATCH_SIZE" envDefault:"1000"`
//	}
//
// An empty REDIS_URL is not an error at config level; the caller decides
// whether Redis is required. Both redis:// and rediss:// schemes are
// accepted.
package redis
