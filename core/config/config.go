// Package config provides type-safe environment variable loading with
// caching using Go generics. Each configuration type is loaded once per
// process and cached for subsequent calls; a .env file in the working
// directory is applied before the first parse.
//
//	type ServerConfig struct {
//		Port int `env:"PORT" envDefault:"8080"`
//	}
//
//	var cfg ServerConfig
//	config.MustLoad(&cfg)
package config

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	cache      sync.Map // reflect.Type -> loaded value
	dotenvOnce sync.Once
)

// Load parses environment variables into cfg. The first call for a given
// type parses the environment; later calls return the cached value, so
// two loads of the same type always agree.
func Load[C any](cfg *C) error {
	if cfg == nil {
		return errors.New("config: nil target")
	}

	dotenvOnce.Do(func() {
		// Missing .env files are fine; the environment is authoritative.
		_ = godotenv.Load()
	})

	key := reflect.TypeOf(*cfg)
	if cached, ok := cache.Load(key); ok {
		*cfg = cached.(C)
		return nil
	}

	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("config: parse %s: %w", key, err)
	}

	cached, _ := cache.LoadOrStore(key, *cfg)
	*cfg = cached.(C)
	return nil
}

// MustLoad is Load that panics on failure. Useful at startup where a
// missing required variable should stop the process.
func MustLoad[C any](cfg *C) {
	if err := Load(cfg); err != nil {
		panic(err)
	}
}
