package config

import (
	"time"

	"github.com/danmuck/hwcctl/internal/client"
	"github.com/danmuck/hwcctl/internal/registry"
)

// ClientOptions turns a validated ClientConfig into client.Options and the
// timeout Connect should be bounded by.
func ClientOptions(cfg ClientConfig) (client.Options, time.Duration, error) {
	if err := ValidateClientConfig(cfg); err != nil {
		return client.Options{}, 0, err
	}
	opts := client.DefaultOptions()
	opts.Name = cfg.Service
	opts.Registrar = registry.NewDir(cfg.RegistryDir)

	dial, _ := parseDuration("dial_timeout", cfg.DialTimeout)
	if dial > 0 {
		opts.Session.DialTimeout = dial
	}
	if cfg.MaxPayloadBytes > 0 {
		opts.Session.Limits.MaxPayloadBytes = cfg.MaxPayloadBytes
	}
	connect, _ := parseDuration("connect_timeout", cfg.ConnectTimeout)
	return opts, connect, nil
}
