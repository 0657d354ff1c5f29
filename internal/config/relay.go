package config

import "time"

// Relay controls the outbox relay. With Enabled unset the standalone binary
// leaves product events in the outbox for a dedicated relay process.
type Relay struct {
	Enabled   bool          `env:"RELAY_ENABLED" envDefault:"true"`
	BatchSize uint32        `env:"RELAY_BATCH_SIZE" envDefault:"100"`
	Interval  time.Duration `env:"RELAY_INTERVAL" envDefault:"1s"`
}
