package core

import "time"

// RuntimeConfig carries the terminal size and simulation cadence handed to a
// play session by the platform layer.
type RuntimeConfig struct {
	ScreenW int   // Screen width in characters
	ScreenH int   // Screen height in characters
	Seed    int64 // RNG seed for snake movement; 0 means seed from the clock

	TimerEvery time.Duration // Elapsed-time tick, 1s by default
	SnakeEvery time.Duration // Roaming snake step, 2s by default
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:    80,
		ScreenH:    24,
		TimerEvery: time.Second,
		SnakeEvery: 2 * time.Second,
	}
}

// ResolveSeed returns the configured seed, or a clock-derived one when unset.
func (c RuntimeConfig) ResolveSeed() int64 {
	if c.Seed != 0 {
		return c.Seed
	}
	return time.Now().UnixNano()
}
