package scheduler

import "time"

// Config represents scheduler configuration.
type Config struct {
	// TickInterval is the wall-clock duration of one simulated minute when
	// the autonomous clock drives the simulation.
	TickInterval time.Duration `json:"tickInterval" yaml:"tickInterval"`

	// StopTimeout bounds how long StopClock waits for the autonomous
	// worker to acknowledge shutdown.
	StopTimeout time.Duration `json:"stopTimeout" yaml:"stopTimeout"`
}

// DefaultConfig returns the default scheduler configuration.
func DefaultConfig() Config {
	return Config{
		TickInterval: time.Second,
		StopTimeout:  5 * time.Second,
	}
}
