package config

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/danmuck/hwcctl/internal/service"
)

// daemonFile mirrors service.DaemonConfig so that only keys present in the
// file override defaults.
type daemonFile struct {
	Name            string   `toml:"name"`
	Version         string   `toml:"version"`
	Network         string   `toml:"network"`
	Address         string   `toml:"address"`
	AdminAddr       string   `toml:"admin_addr"`
	AdminToken      string   `toml:"admin_token"`
	Backend         string   `toml:"backend"`
	Workers         int      `toml:"workers"`
	LogLines        int      `toml:"log_lines"`
	MaxPayloadBytes uint64   `toml:"max_payload_bytes"`
	RegistryDir     string   `toml:"registry_dir"`
	CORSOrigins     []string `toml:"cors_origins"`
}

// LoadDaemonConfig overlays the keys defined in path onto
// service.DefaultDaemonConfig and validates the result. An empty
// admin_addr disables the admin surface.
func LoadDaemonConfig(path string) (service.DaemonConfig, error) {
	cfg := service.DefaultDaemonConfig()

	var raw daemonFile
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return service.DaemonConfig{}, fmt.Errorf("load daemon config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return service.DaemonConfig{}, fmt.Errorf("load daemon config: unknown key %q", undecoded[0].String())
	}

	if meta.IsDefined("name") {
		if v := strings.TrimSpace(raw.Name); v != "" {
			cfg.Name = v
		}
	}
	if meta.IsDefined("version") {
		cfg.Version = strings.TrimSpace(raw.Version)
	}
	if meta.IsDefined("network") {
		cfg.Network = strings.TrimSpace(raw.Network)
	}
	if meta.IsDefined("address") {
		cfg.Address = strings.TrimSpace(raw.Address)
	}
	if meta.IsDefined("admin_addr") {
		cfg.AdminAddr = strings.TrimSpace(raw.AdminAddr)
	}
	if meta.IsDefined("admin_token") {
		cfg.AdminToken = strings.TrimSpace(raw.AdminToken)
	}
	if meta.IsDefined("backend") {
		cfg.Backend = strings.TrimSpace(raw.Backend)
	}
	if meta.IsDefined("workers") {
		cfg.Workers = raw.Workers
	}
	if meta.IsDefined("log_lines") {
		cfg.LogLines = raw.LogLines
	}
	if meta.IsDefined("max_payload_bytes") {
		cfg.MaxPayloadBytes = raw.MaxPayloadBytes
	}
	if meta.IsDefined("registry_dir") {
		cfg.RegistryDir = strings.TrimSpace(raw.RegistryDir)
	}
	if meta.IsDefined("cors_origins") {
		cfg.CORSOrigins = normalizeList(raw.CORSOrigins)
	}

	if err := cfg.Validate(); err != nil {
		return service.DaemonConfig{}, err
	}
	return cfg, nil
}

func normalizeList(in []string) []string {
	if len(in) == 0 {
		return []string{}
	}
	out := make([]string, 0, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		out = append(out, v)
	}
	return out
}
