package service

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/danmuck/hwcctl/internal/backend"
	"github.com/danmuck/hwcctl/internal/registry"
	"github.com/danmuck/hwcctl/internal/testutil/testlog"
)

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestAdminHealthAndVersion(t *testing.T) {
	testlog.Start(t)
	svc := newTestService(t, backend.Stub{})
	r := NewAdminRouter(svc, nil, AdminConfig{})

	if rec := get(t, r, "/health"); rec.Code != http.StatusOK {
		t.Fatalf("health: %d", rec.Code)
	}
	rec := get(t, r, "/version")
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode version: %v", err)
	}
	if body["version"] != "test-1" || body["service"] != "hwc.info" {
		t.Fatalf("unexpected version body: %v", body)
	}
}

func TestAdminReadyFollowsStart(t *testing.T) {
	testlog.Start(t)
	svc := newTestService(t, backend.Stub{})
	r := NewAdminRouter(svc, NewServer(svc, DefaultServerConfig()), AdminConfig{})

	if rec := get(t, r, "/ready"); rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 before start, got %d", rec.Code)
	}
	if err := svc.Start(registry.NewLocal(), registry.Endpoint{Network: "tcp", Address: "127.0.0.1:1"}); err != nil {
		t.Fatalf("start: %v", err)
	}
	if rec := get(t, r, "/ready"); rec.Code != http.StatusOK {
		t.Fatalf("expected 200 after start, got %d", rec.Code)
	}
}

func TestAdminStateRequiresSnapshotEngine(t *testing.T) {
	testlog.Start(t)
	stub := NewAdminRouter(newTestService(t, backend.Stub{}), nil, AdminConfig{})
	if rec := get(t, stub, "/state"); rec.Code != http.StatusNotFound {
		t.Fatalf("stub engine should have no state, got %d", rec.Code)
	}

	mem := NewAdminRouter(newTestService(t, backend.NewMemory(backend.DefaultMemoryConfig())), nil, AdminConfig{})
	rec := get(t, mem, "/state")
	if rec.Code != http.StatusOK {
		t.Fatalf("state: %d", rec.Code)
	}
	var snap backend.Snapshot
	if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil {
		t.Fatalf("decode state: %v", err)
	}
	if len(snap.Displays) != 2 {
		t.Fatalf("expected 2 displays, got %d", len(snap.Displays))
	}
}

func TestAdminOpsAndMetrics(t *testing.T) {
	testlog.Start(t)
	r := NewAdminRouter(newTestService(t, backend.Stub{}), nil, AdminConfig{CORSOrigins: []string{" ", "http://example.test"}})
	rec := get(t, r, "/ops")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "display.set_overscan") {
		t.Fatalf("ops: %d %s", rec.Code, rec.Body.String())
	}
	rec = get(t, r, "/metrics")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "hwcctl_http_requests_total") {
		t.Fatalf("metrics should expose http counters: %d", rec.Code)
	}
}

func TestNormalizeOrigins(t *testing.T) {
	testlog.Start(t)
	if got := normalizeOrigins(nil); len(got) != 1 || got[0] != "http://localhost:3000" {
		t.Fatalf("default origins: %v", got)
	}
	if got := normalizeOrigins([]string{" http://a.test ", ""}); len(got) != 1 || got[0] != "http://a.test" {
		t.Fatalf("trimmed origins: %v", got)
	}
}

func TestAdminTokenGuardsStateRoutes(t *testing.T) {
	testlog.Start(t)
	r := NewAdminRouter(newTestService(t, backend.NewMemory(backend.DefaultMemoryConfig())), nil, AdminConfig{Token: "s3cret"})

	for _, path := range []string{"/options", "/logview", "/state"} {
		if rec := get(t, r, path); rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s without token: %d", path, rec.Code)
		}
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("Authorization", "Bearer s3cret")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s with token: %d", path, rec.Code)
		}
	}
	if rec := get(t, r, "/health"); rec.Code != http.StatusOK {
		t.Fatalf("health must stay open: %d", rec.Code)
	}
}
