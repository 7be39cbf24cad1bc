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
	ErrNilConfig   = errors.New("nil config pointer")
	ErrParseFailed = errors.New("config parse failed")
)

var (
	loadEnvOnce sync.Once
	cache       sync.Map // reflect.Type -> parsed value
)

// Load parses environment variables into cfg. The first call in the process
// loads a .env file from the working directory when one exists. Each config
// type is parsed once; later calls for the same type receive the cached
// value, so changing the environment mid-process has no effect.
func Load[T any](cfg *T) error {
	if cfg == nil {
		return ErrNilConfig
	}

	loadEnvOnce.Do(func() {
		// Missing .env is the normal production case.
		_ = godotenv.Load()
	})

	key := reflect.TypeFor[T]()
	if cached, ok := cache.Load(key); ok {
		*cfg = cached.(T)
		return nil
	}

	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrParseFailed, key, err)
	}

	// First store wins so concurrent loaders agree on one value.
	actual, _ := cache.LoadOrStore(key, *cfg)
	*cfg = actual.(T)
	return nil
}

// MustLoad is Load that panics on failure, for use during startup wiring.
func MustLoad[T any](cfg *T) {
	if err := Load(cfg); err != nil {
		panic(err)
	}
}
