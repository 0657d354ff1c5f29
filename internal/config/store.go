package config

import "time"

// Store bounds every round-trip to the backing database.
type Store struct {
	Timeout time.Duration `env:"STORE_TIMEOUT" envDefault:"5s"`
}
