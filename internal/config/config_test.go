package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/danmuck/hwcctl/internal/hwcs"
	"github.com/danmuck/hwcctl/internal/registry"
	"github.com/danmuck/hwcctl/internal/service"
	"github.com/danmuck/hwcctl/internal/testutil/testlog"
	"github.com/google/go-cmp/cmp"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestTemplatesValidate(t *testing.T) {
	testlog.Start(t)
	for _, kind := range []string{"daemon", "client"} {
		path := filepath.Join(t.TempDir(), kind+".toml")
		if err := WriteTemplate(path, kind, false); err != nil {
			t.Fatalf("write %s template: %v", kind, err)
		}
		if err := WriteTemplate(path, kind, false); err == nil {
			t.Fatalf("expected %s template overwrite to be refused", kind)
		}
		if err := Validate(kind, path); err != nil {
			t.Fatalf("validate %s template: %v", kind, err)
		}
	}
	if _, err := Template("ghost"); err == nil {
		t.Fatalf("expected unknown kind error")
	}
}

func TestLoadDaemonConfigOverlaysDefinedKeys(t *testing.T) {
	testlog.Start(t)
	path := writeFile(t, `
version = "2.0"
network = "tcp"
address = "127.0.0.1:7400"
admin_addr = ""
workers = 3
cors_origins = [" http://a ", ""]
`)
	cfg, err := LoadDaemonConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	want := service.DefaultDaemonConfig()
	want.Version = "2.0"
	want.Network = "tcp"
	want.Address = "127.0.0.1:7400"
	want.AdminAddr = ""
	want.Workers = 3
	want.CORSOrigins = []string{"http://a"}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("daemon config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadDaemonConfigRejects(t *testing.T) {
	testlog.Start(t)
	cases := map[string]string{
		"unknown key":  `colour = "blue"`,
		"zero workers": `workers = 0`,
		"bad network":  `network = "udp"`,
		"bad name":     `name = "has space"`,
	}
	for name, body := range cases {
		if _, err := LoadDaemonConfig(writeFile(t, body)); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
	_, err := LoadDaemonConfig(writeFile(t, `workers = -1`))
	if !errors.Is(err, service.ErrInvalidDaemonConfig) {
		t.Fatalf("expected ErrInvalidDaemonConfig, got %v", err)
	}
	if _, err := LoadDaemonConfig(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatalf("expected missing file error")
	}
}

func TestClientConfigToOptions(t *testing.T) {
	testlog.Start(t)
	dir := t.TempDir()
	path := writeFile(t, `
registry_dir = "`+filepath.ToSlash(dir)+`"
dial_timeout = "750ms"
max_payload_bytes = 4096
`)
	cfg, err := LoadClientConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Service != hwcs.ServiceName {
		t.Fatalf("service = %q, want default", cfg.Service)
	}

	opts, connect, err := ClientOptions(cfg)
	if err != nil {
		t.Fatalf("ClientOptions: %v", err)
	}
	if connect != 5*time.Second {
		t.Fatalf("connect timeout = %v", connect)
	}
	if opts.Session.DialTimeout != 750*time.Millisecond {
		t.Fatalf("dial timeout = %v", opts.Session.DialTimeout)
	}
	if opts.Session.Limits.MaxPayloadBytes != 4096 {
		t.Fatalf("max payload = %d", opts.Session.Limits.MaxPayloadBytes)
	}
	reg, ok := opts.Registrar.(*registry.Dir)
	if !ok || reg.Root != filepath.ToSlash(dir) {
		t.Fatalf("registrar = %#v", opts.Registrar)
	}
}

func TestClientConfigRejectsBadDuration(t *testing.T) {
	testlog.Start(t)
	if _, err := LoadClientConfig(writeFile(t, `connect_timeout = "soon"`)); err == nil {
		t.Fatalf("expected duration parse error")
	}
	if _, err := LoadClientConfig(writeFile(t, `dial_timeout = "-1s"`)); err == nil {
		t.Fatalf("expected negative duration error")
	}
}
