package config

import "time"

// SweeperConfig controls the background sweep of cached listing reconcilers.
type SweeperConfig struct {
	// Enabled turns the sweeper on. Disabling it leaves pruning to the next login.
	Enabled bool `env:"SWEEPER_ENABLED" envDefault:"true"`

	// Interval is the time between sweeps.
	Interval time.Duration `env:"SWEEPER_INTERVAL" envDefault:"5m"`

	// IdleTimeout evicts reconcilers unused for this long. Zero keeps them until the session ends.
	IdleTimeout time.Duration `env:"SWEEPER_IDLE_TIMEOUT" envDefault:"30m"`
}

// Sanitize applies guardrails to sweeper configuration values.
func (s *SweeperConfig) Sanitize() {
	if s.Interval < time.Second {
		s.Interval = 5 * time.Minute
	}
	if s.IdleTimeout < 0 {
		s.IdleTimeout = 0
	}
}
