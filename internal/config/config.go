package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/danmuck/hwcctl/internal/hwcs"
	"github.com/danmuck/hwcctl/internal/registry"
	"github.com/pelletier/go-toml/v2"
)

// ClientConfig is the optional file read by hwcctl.
type ClientConfig struct {
	Service         string `toml:"service"`
	RegistryDir     string `toml:"registry_dir"`
	ConnectTimeout  string `toml:"connect_timeout"`
	DialTimeout     string `toml:"dial_timeout"`
	MaxPayloadBytes uint64 `toml:"max_payload_bytes"`
}

func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		Service:        hwcs.ServiceName,
		RegistryDir:    registry.DefaultDir(),
		ConnectTimeout: "5s",
		DialTimeout:    "2s",
	}
}

// LoadClientConfig reads path over DefaultClientConfig. Keys missing from
// the file keep their defaults.
func LoadClientConfig(path string) (ClientConfig, error) {
	cfg := DefaultClientConfig()
	if err := loadToml(path, &cfg); err != nil {
		return ClientConfig{}, err
	}
	if strings.TrimSpace(cfg.Service) == "" {
		cfg.Service = hwcs.ServiceName
	}
	if strings.TrimSpace(cfg.RegistryDir) == "" {
		cfg.RegistryDir = registry.DefaultDir()
	}
	if err := ValidateClientConfig(cfg); err != nil {
		return ClientConfig{}, err
	}
	return cfg, nil
}

func loadToml(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if err := toml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("config parse failed (%s): %w", path, err)
	}
	return nil
}

func ValidateClientConfig(cfg ClientConfig) error {
	if err := registry.ValidateName(cfg.Service); err != nil {
		return fmt.Errorf("client config service: %w", err)
	}
	if strings.TrimSpace(cfg.RegistryDir) == "" {
		return fmt.Errorf("client config missing registry_dir")
	}
	if _, err := parseDuration("connect_timeout", cfg.ConnectTimeout); err != nil {
		return err
	}
	if _, err := parseDuration("dial_timeout", cfg.DialTimeout); err != nil {
		return err
	}
	return nil
}

// parseDuration accepts an empty value as zero.
func parseDuration(key, raw string) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s must not be negative", key)
	}
	return d, nil
}
