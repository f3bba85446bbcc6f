package session

import (
	"time"

	"github.com/danmuck/hwcctl/internal/protocol/frame"
)

// BackoffConfig defines retry backoff behavior.
type BackoffConfig struct {
	InitialDelay time.Duration
	Multiplier   float64
	MaxDelay     time.Duration
	Jitter       bool
}

// Config defines transport defaults for one client session.
type Config struct {
	DialTimeout time.Duration
	Limits      frame.Limits
	Backoff     BackoffConfig
}

// DefaultConfig returns transport defaults. Calls themselves carry no
// deadline; only dialing does.
func DefaultConfig() Config {
	return Config{
		DialTimeout: 5 * time.Second,
		Limits:      frame.DefaultLimits(),
		Backoff: BackoffConfig{
			InitialDelay: 50 * time.Millisecond,
			Multiplier:   2.0,
			MaxDelay:     2 * time.Second,
			Jitter:       true,
		},
	}
}

// WithDefaults fills zero values from DefaultConfig.
func (c Config) WithDefaults() Config {
	def := DefaultConfig()
	if c.DialTimeout <= 0 {
		c.DialTimeout = def.DialTimeout
	}
	if c.Limits.MaxPayloadBytes == 0 {
		c.Limits.MaxPayloadBytes = def.Limits.MaxPayloadBytes
	}
	if c.Limits.MaxAuthBytes == 0 {
		c.Limits.MaxAuthBytes = def.Limits.MaxAuthBytes
	}
	if c.Backoff.InitialDelay <= 0 {
		c.Backoff = def.Backoff
	}
	return c
}
