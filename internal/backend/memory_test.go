package backend

import (
	"testing"

	"github.com/danmuck/hwcctl/internal/hwcs"
	"github.com/danmuck/hwcctl/internal/testutil/testlog"
	"github.com/google/go-cmp/cmp"
)

func TestNewKinds(t *testing.T) {
	testlog.Start(t)
	if e, err := New("stub"); err != nil || e == nil {
		t.Fatalf("stub: %v", err)
	}
	if e, err := New("memory"); err != nil {
		t.Fatalf("memory: %v", err)
	} else if _, ok := e.(*Memory); !ok {
		t.Fatalf("memory kind built %T", e)
	}
	if _, err := New("gpu"); err == nil {
		t.Fatalf("expected unknown kind error")
	}
}

func TestStubAcceptsEverything(t *testing.T) {
	testlog.Start(t)
	var e Engine = Stub{}
	if st := e.SetOverscan(9, 1, 1); st != hwcs.StatusOK {
		t.Fatalf("set overscan: %v", st)
	}
	if st := e.SetColorParam(3, ColorHue, 12); st != hwcs.StatusOK {
		t.Fatalf("set color: %v", st)
	}
	if modes := e.AvailableModes(0); modes == nil || len(modes) != 0 {
		t.Fatalf("expected empty non-nil modes, got %#v", modes)
	}
	if id := e.DisplayIDFromConnectorID(77); id != 0 {
		t.Fatalf("expected 0 sentinel, got %d", id)
	}
	if !e.EnableDRMCommit(true, 0) || !e.ResetDrmMaster(true) {
		t.Fatalf("stub DRM calls should succeed")
	}
}

func TestMemoryOverscanRoundTrip(t *testing.T) {
	testlog.Start(t)
	m := NewMemory(DefaultMemoryConfig())
	if st := m.SetOverscan(0, 10, -5); st != hwcs.StatusOK {
		t.Fatalf("set overscan: %v", st)
	}
	x, y, st := m.GetOverscan(0)
	if st != hwcs.StatusOK || x != 10 || y != -5 {
		t.Fatalf("unexpected overscan: x=%d y=%d st=%v", x, y, st)
	}
	if st := m.SetOverscan(0, 101, 0); st != hwcs.StatusBadValue {
		t.Fatalf("expected bad value for out of range overscan, got %v", st)
	}
	if st := m.SetOverscan(42, 0, 0); st != hwcs.StatusBadValue {
		t.Fatalf("expected bad value for unknown display, got %v", st)
	}
}

func TestMemoryScaling(t *testing.T) {
	testlog.Start(t)
	m := NewMemory(DefaultMemoryConfig())
	if st := m.SetScaling(1, hwcs.ScalingStretch); st != hwcs.StatusOK {
		t.Fatalf("set scaling: %v", st)
	}
	got, st := m.GetScaling(1)
	if st != hwcs.StatusOK || got != hwcs.ScalingStretch {
		t.Fatalf("unexpected scaling: %v %v", got, st)
	}
	if st := m.SetScaling(1, hwcs.ScalingMax); st != hwcs.StatusBadValue {
		t.Fatalf("expected bad value for invalid scaling, got %v", st)
	}
}

func TestMemoryColorRangeAndRestore(t *testing.T) {
	testlog.Start(t)
	m := NewMemory(DefaultMemoryConfig())
	if st := m.SetColorParam(0, ColorHue, 45); st != hwcs.StatusOK {
		t.Fatalf("set hue: %v", st)
	}
	r, st := m.GetColorParam(0, ColorHue)
	if st != hwcs.StatusOK {
		t.Fatalf("get hue: %v", st)
	}
	if diff := cmp.Diff(ColorRange{Value: 45, Start: -180, End: 180}, r); diff != "" {
		t.Fatalf("hue mismatch (-want +got):\n%s", diff)
	}
	if st := m.SetColorParam(0, ColorContrast, 3); st != hwcs.StatusBadValue {
		t.Fatalf("expected bad value outside range, got %v", st)
	}
	if st := m.RestoreDefaultColorParam(0, ColorHue); st != hwcs.StatusOK {
		t.Fatalf("restore hue: %v", st)
	}
	r, _ = m.GetColorParam(0, ColorHue)
	if r.Value != 0 {
		t.Fatalf("expected restored hue 0, got %v", r.Value)
	}
}

func TestMemoryModes(t *testing.T) {
	testlog.Start(t)
	m := NewMemory(DefaultMemoryConfig())
	modes := m.AvailableModes(1)
	if len(modes) != 3 {
		t.Fatalf("expected 3 modes, got %d", len(modes))
	}
	if modes[0].Flags&hwcs.ModeFlagCurrent == 0 {
		t.Fatalf("preferred mode should be current: %+v", modes[0])
	}
	if st := m.SetMode(1, 2); st != hwcs.StatusOK {
		t.Fatalf("set mode: %v", st)
	}
	cur, st := m.CurrentMode(1)
	if st != hwcs.StatusOK || cur.Flags&hwcs.ModeFlagInterlaced == 0 {
		t.Fatalf("unexpected current mode: %+v %v", cur, st)
	}
	if st := m.SetMode(1, 3); st != hwcs.StatusBadValue {
		t.Fatalf("expected bad value past mode list, got %v", st)
	}
	if got := m.AvailableModes(9); got == nil || len(got) != 0 {
		t.Fatalf("unknown display should have empty modes, got %#v", got)
	}
}

func TestMemoryConnectorLookup(t *testing.T) {
	testlog.Start(t)
	m := NewMemory(DefaultMemoryConfig())
	if id := m.DisplayIDFromConnectorID(36); id != 1 {
		t.Fatalf("expected display 1 for connector 36, got %d", id)
	}
	if id := m.DisplayIDFromConnectorID(99); id != 0 {
		t.Fatalf("expected 0 for unknown connector, got %d", id)
	}
}

func TestMemoryPrimaryConnectorSharesUnknownAnswer(t *testing.T) {
	testlog.Start(t)
	m := NewMemory(DefaultMemoryConfig())
	primary := m.DisplayIDFromConnectorID(28)
	unknown := m.DisplayIDFromConnectorID(99)
	if primary != 0 || unknown != 0 {
		t.Fatalf("expected primary and unknown both 0, got %d and %d", primary, unknown)
	}
	// The connector is still known to the engine: per-connector calls succeed.
	if st := m.SetHDCPSRMForDisplay(28, []byte{1}); st != hwcs.StatusOK {
		t.Fatalf("primary connector should be known: %v", st)
	}
	if st := m.SetHDCPSRMForDisplay(99, []byte{1}); st != hwcs.StatusBadValue {
		t.Fatalf("unknown connector should be rejected: %v", st)
	}
}

func TestMemoryDiagnosticCapture(t *testing.T) {
	testlog.Start(t)
	m := NewMemory(DefaultMemoryConfig())
	m.DiagDisableDisplay(1, true)
	m.DiagMaskLayer(1, 4, true)
	m.DiagMaskLayer(1, 2, true)
	m.DiagMaskLayer(1, 4, false)
	m.DiagDumpFrames(1, 3, false)
	m.DiagDumpFrames(1, -2, false)
	m.DiagDumpFrames(7, 3, false)

	got := m.Snapshot().Displays[1]
	if !got.DiagDisabled {
		t.Fatalf("expected capture disabled on display 1")
	}
	if diff := cmp.Diff([]uint32{2}, got.MaskedLayers); diff != "" {
		t.Fatalf("masked layers (-want +got):\n%s", diff)
	}
	if got.FramesDumped != 3 {
		t.Fatalf("expected 3 dumped frames, got %d", got.FramesDumped)
	}
	m.DiagEnableDisplay(1)
	if m.Snapshot().Displays[1].DiagDisabled {
		t.Fatalf("expected capture enabled again")
	}
	if got := m.Mutations(); got != 0 {
		t.Fatalf("capture state should not count as mutations, got %d", got)
	}
}

func TestMemoryHDCPAndSRM(t *testing.T) {
	testlog.Start(t)
	m := NewMemory(DefaultMemoryConfig())
	m.EnableHDCPSessionForDisplay(36, hwcs.ContentType1)
	snap := m.Snapshot()
	if snap.Displays[1].HDCP == nil || *snap.Displays[1].HDCP != hwcs.ContentType1 {
		t.Fatalf("expected hdcp type1 on display 1: %+v", snap.Displays[1])
	}
	if snap.Displays[0].HDCP != nil {
		t.Fatalf("display 0 should be untouched")
	}
	m.DisableHDCPSessionForAllDisplays()
	if m.Snapshot().Displays[1].HDCP != nil {
		t.Fatalf("expected hdcp disabled")
	}
	if st := m.SetHDCPSRMForDisplay(28, []byte{1, 2, 3}); st != hwcs.StatusOK {
		t.Fatalf("set srm: %v", st)
	}
	if got := m.Snapshot().Displays[0].SRMBytes; got != 3 {
		t.Fatalf("expected 3 srm bytes, got %d", got)
	}
	if st := m.SetHDCPSRMForDisplay(5, []byte{1}); st != hwcs.StatusBadValue {
		t.Fatalf("expected bad value for unknown connector, got %v", st)
	}
}

func TestMemoryEncryptedSessions(t *testing.T) {
	testlog.Start(t)
	m := NewMemory(DefaultMemoryConfig())
	m.EnableEncryptedSession(1, 1)
	m.EnableEncryptedSession(1, 2)
	m.EnableEncryptedSession(2, 1)
	if !m.IsEncryptedSessionEnabled(1, 2) {
		t.Fatalf("expected session 1/2 enabled")
	}
	m.DisableEncryptedSession(1)
	if m.IsEncryptedSessionEnabled(1, 1) || m.IsEncryptedSessionEnabled(1, 2) {
		t.Fatalf("session 1 should be fully disabled")
	}
	if !m.IsEncryptedSessionEnabled(2, 1) {
		t.Fatalf("session 2 should survive")
	}
	m.DisableAllEncryptedSessions()
	if m.IsEncryptedSessionEnabled(2, 1) {
		t.Fatalf("expected no sessions after disable all")
	}
}

func TestMemoryDrmMasterIdempotent(t *testing.T) {
	testlog.Start(t)
	m := NewMemory(DefaultMemoryConfig())
	if !m.ResetDrmMaster(true) || !m.ResetDrmMaster(true) {
		t.Fatalf("drop master should succeed twice")
	}
	if got := m.Mutations(); got != 1 {
		t.Fatalf("expected one mutation, got %d", got)
	}
	if m.EnableDRMCommit(true, 7) {
		t.Fatalf("commit on unknown display should fail")
	}
}

func TestMemoryVideoHints(t *testing.T) {
	testlog.Start(t)
	m := NewMemory(DefaultMemoryConfig())
	if st := m.SetOptimizationMode(hwcs.OptimizationMode(9)); st != hwcs.StatusBadValue {
		t.Fatalf("expected bad value for unknown optimization mode, got %v", st)
	}
	m.SetOptimizationMode(hwcs.OptimizeVideo)
	m.UpdateVideoState(11, true)
	m.UpdateVideoFPS(11, 24)
	m.UpdateInputState(true)
	m.SetSingleDisplay(true)
	snap := m.Snapshot()
	if snap.Optimization != "video" || snap.PreparedVideos != 1 || !snap.InputActive || !snap.SingleDisplay {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
	if on, st := m.SingleDisplay(); !on || st != hwcs.StatusOK {
		t.Fatalf("single display: %v %v", on, st)
	}
	m.UpdateVideoState(11, false)
	if got := m.Snapshot().PreparedVideos; got != 0 {
		t.Fatalf("expected no prepared videos, got %d", got)
	}
}
