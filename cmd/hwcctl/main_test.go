package main

import (
	"bytes"
	"context"
	"errors"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/danmuck/hwcctl/internal/backend"
	"github.com/danmuck/hwcctl/internal/client"
	"github.com/danmuck/hwcctl/internal/hwcs"
	"github.com/danmuck/hwcctl/internal/registry"
	"github.com/danmuck/hwcctl/internal/service"
	"github.com/danmuck/hwcctl/internal/testutil/testlog"
	"github.com/fatih/color"
)

// startService serves a memory engine on loopback TCP and publishes it
// into a fresh registry directory, which is returned.
func startService(t *testing.T) string {
	t.Helper()
	svc, err := service.New(backend.NewMemory(backend.DefaultMemoryConfig()), service.Config{Version: "9.9"})
	if err != nil {
		t.Fatalf("service.New: %v", err)
	}
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = service.NewServer(svc, service.DefaultServerConfig()).Serve(ctx, ln)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	dir := t.TempDir()
	if err := svc.Start(registry.NewDir(dir), registry.Endpoint{Network: "tcp", Address: ln.Addr().String()}); err != nil {
		t.Fatalf("Start: %v", err)
	}
	return dir
}

func TestLookupResolvesTwoWordCommandsFirst(t *testing.T) {
	testlog.Start(t)
	name, _, rest, ok := lookup([]string{"overscan", "set", "0", "1", "2"})
	if !ok || name != "overscan set" || len(rest) != 3 {
		t.Fatalf("lookup = %q %v %v", name, rest, ok)
	}
	name, _, rest, ok = lookup([]string{"modes", "1"})
	if !ok || name != "modes" || len(rest) != 1 {
		t.Fatalf("lookup = %q %v %v", name, rest, ok)
	}
	if _, _, _, ok := lookup([]string{"overscan"}); ok {
		t.Fatalf("expected incomplete command to miss")
	}
}

func TestParseEnumAcceptsNamesAndNumbers(t *testing.T) {
	testlog.Start(t)
	if got, err := parseScaling("FIT"); err != nil || got != hwcs.ScalingFit {
		t.Fatalf("parseScaling = %v %v", got, err)
	}
	if got, err := parseColor("7"); err != nil || got != hwcs.ColorControl(7) {
		t.Fatalf("parseColor numeric = %v %v", got, err)
	}
	if got, err := parseDeinterlace("motion-adaptive"); err != nil || got != uint32(hwcs.DeinterlaceMotionAdaptive) {
		t.Fatalf("parseDeinterlace = %v %v", got, err)
	}
	if _, err := parseOptimization("turbo"); err == nil {
		t.Fatalf("expected parse error")
	}
	if _, all, err := parseTarget("ALL"); err != nil || !all {
		t.Fatalf("parseTarget all = %v %v", all, err)
	}
	if _, err := parseBool("flag", "maybe"); err == nil {
		t.Fatalf("expected bool parse error")
	}
}

func TestRunAgainstPublishedService(t *testing.T) {
	testlog.Start(t)
	color.NoColor = true
	dir := startService(t)

	cases := []struct {
		args []string
		want string
	}{
		{[]string{"version"}, "9.9"},
		{[]string{"overscan", "set", "0", "5", "6"}, "overscan set OK"},
		{[]string{"overscan", "get", "0"}, "x=5 y=6"},
		{[]string{"modes", "1"}, "3840x2160@30 (preferred)"},
		{[]string{"connector", "36"}, "display=1"},
		{[]string{"encrypted", "status", "1", "1"}, "false"},
		{[]string{"diag", "log"}, "DisplayModeGetAvailableModes"},
	}
	for _, tc := range cases {
		var out bytes.Buffer
		args := append([]string{"--registry-dir", dir, "--timeout", "2s"}, tc.args...)
		if err := run(args, &out); err != nil {
			t.Fatalf("run %v: %v\n%s", tc.args, err, out.String())
		}
		if !strings.Contains(out.String(), tc.want) {
			t.Fatalf("run %v output missing %q:\n%s", tc.args, tc.want, out.String())
		}
	}
}

func TestExecuteReportsFailedStatus(t *testing.T) {
	testlog.Start(t)
	color.NoColor = true
	dir := startService(t)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	s := client.Connect(ctx, client.Options{Registrar: registry.NewDir(dir)})
	if s == nil {
		t.Fatalf("Connect returned nil")
	}
	defer client.Disconnect(s)

	name, cmd, rest, _ := lookup([]string{"overscan", "get", "42"})
	var out bytes.Buffer
	err := execute(&out, s, name, cmd, rest)
	if !errors.Is(err, errCallFailed) {
		t.Fatalf("execute error = %v, want errCallFailed", err)
	}
	if !strings.Contains(out.String(), "BAD_VALUE (-22)") {
		t.Fatalf("output missing status:\n%s", out.String())
	}
	if strings.Contains(out.String(), "x=") {
		t.Fatalf("detail printed for failed call:\n%s", out.String())
	}
}

func TestRunRejectsBadInvocation(t *testing.T) {
	testlog.Start(t)
	var out bytes.Buffer
	if err := run([]string{"bogus"}, &out); err == nil {
		t.Fatalf("expected unknown command error")
	}
	if err := run([]string{"overscan", "get"}, &out); err == nil {
		t.Fatalf("expected usage error")
	}
	missing := filepath.Join(t.TempDir(), "none.toml")
	if err := run([]string{"-c", missing, "version"}, &out); err == nil {
		t.Fatalf("expected config load error")
	}
	empty := t.TempDir()
	if err := os.MkdirAll(empty, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := run([]string{"--registry-dir", empty, "--timeout", "50ms", "version"}, &out); err == nil {
		t.Fatalf("expected unavailable service error")
	}
}
