// Package config loads component configuration structs from environment
// variables. A local .env file, when present, is read once per process before
// the first struct is parsed so that local development does not require
// exporting anything by hand.
package config

import (
	"errors"
	"fmt"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	// ErrNilPointer is returned when Load receives a nil destination.
	ErrNilPointer = errors.New("config: destination must be a non-nil pointer")
	// ErrParsingConfig wraps failures from parsing environment variables.
	ErrParsingConfig = errors.New("config: failed to parse environment")
)

var dotenvOnce sync.Once

// Load populates cfg from the environment based on `env` struct tags.
//
// Example:
//
//	type PolarConfig struct {
//		AccessToken string `env:"POLAR_ACCESS_TOKEN,required"`
//		OrgID       string `env:"POLAR_ORG_ID,required"`
//	}
//
//	var cfg PolarConfig
//	if err := config.Load(&cfg); err != nil { ... }
func Load[T any](cfg *T) error {
	dotenvOnce.Do(func() {
		// The .env file is optional; a missing file is not an error.
		_ = godotenv.Load()
	})

	if cfg == nil {
		return ErrNilPointer
	}

	if err := env.Parse(cfg); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}
	return nil
}

// MustLoad is Load for configuration the process cannot start without.
func MustLoad[T any](cfg *T) {
	if err := Load(cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load %T: %v", *cfg, err))
	}
}
