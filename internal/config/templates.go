package config

import (
	"fmt"
	"os"
	"strings"
)

func Template(kind string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "daemon":
		return daemonTemplate, nil
	case "client":
		return clientTemplate, nil
	default:
		return "", fmt.Errorf("unknown config kind: %s", kind)
	}
}

// Validate loads path as the given kind.
func Validate(kind, path string) error {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "daemon":
		_, err := LoadDaemonConfig(path)
		return err
	case "client":
		_, err := LoadClientConfig(path)
		return err
	default:
		return fmt.Errorf("unknown config kind: %s", kind)
	}
}

func WriteTemplate(path, kind string, overwrite bool) error {
	template, err := Template(kind)
	if err != nil {
		return err
	}
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists: %s", path)
		}
	}
	return os.WriteFile(path, []byte(template), 0o600)
}

const daemonTemplate = `name = "hwc.info"
version = "1.0.0"
network = "unix"
address = "/tmp/hwcctl/hwc.sock"
admin_addr = "127.0.0.1:7480"
backend = "memory"
workers = 8
log_lines = 256
max_payload_bytes = 1048576
registry_dir = "/tmp/hwcctl/registry"
cors_origins = ["http://localhost:3000"]
admin_token = ""
`

const clientTemplate = `service = "hwc.info"
registry_dir = "/tmp/hwcctl/registry"
connect_timeout = "5s"
dial_timeout = "2s"
max_payload_bytes = 1048576
`
