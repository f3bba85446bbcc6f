package service

import (
	"testing"

	"github.com/danmuck/hwcctl/internal/backend"
	"github.com/danmuck/hwcctl/internal/hwcs"
	"github.com/danmuck/hwcctl/internal/testutil/testlog"
)

type recordingEngine struct {
	backend.Stub
	color       backend.ColorControl
	deinterlace backend.DeinterlaceControl
	hdcp        []uint32
}

func (r *recordingEngine) SetColorParam(_ uint32, color backend.ColorControl, _ float32) hwcs.Status {
	r.color = color
	return hwcs.StatusOK
}

func (r *recordingEngine) SetDeinterlaceParam(_ uint32, mode backend.DeinterlaceControl) hwcs.Status {
	r.deinterlace = mode
	return hwcs.StatusOK
}

func (r *recordingEngine) EnableHDCPSessionForDisplay(connector uint32, _ hwcs.ContentType) {
	r.hdcp = append(r.hdcp, connector)
}

func (r *recordingEngine) DisableHDCPSessionForDisplay(connector uint32) {
	r.hdcp = append(r.hdcp, connector)
}

type failingEngine struct {
	backend.Stub
}

func (failingEngine) SetOptimizationMode(hwcs.OptimizationMode) hwcs.Status {
	return hwcs.Status(-5)
}

func TestBackendColorMapping(t *testing.T) {
	testlog.Start(t)
	cases := map[hwcs.ColorControl]backend.ColorControl{
		hwcs.ColorBrightness:     backend.ColorBrightness,
		hwcs.ColorContrast:       backend.ColorContrast,
		hwcs.ColorSaturation:     backend.ColorSaturation,
		hwcs.ColorSharpness:      backend.ColorSharpness,
		hwcs.ColorHue:            backend.ColorHue,
		hwcs.ColorControl(17):    backend.ColorHue,
		hwcs.ColorControl(1<<31): backend.ColorHue,
	}
	for in, want := range cases {
		if got := BackendColor(in); got != want {
			t.Fatalf("BackendColor(%d) = %v, want %v", in, got, want)
		}
	}
}

func TestBackendDeinterlaceMapping(t *testing.T) {
	testlog.Start(t)
	cases := map[hwcs.DeinterlaceMode]backend.DeinterlaceControl{
		hwcs.DeinterlaceNone:              backend.DeinterlaceNone,
		hwcs.DeinterlaceBob:               backend.DeinterlaceBob,
		hwcs.DeinterlaceWeave:             backend.DeinterlaceWeave,
		hwcs.DeinterlaceMotionAdaptive:    backend.DeinterlaceMotionAdaptive,
		hwcs.DeinterlaceMotionCompensated: backend.DeinterlaceMotionCompensated,
		hwcs.DeinterlaceMode(9):           backend.DeinterlaceMotionCompensated,
	}
	for in, want := range cases {
		if got := BackendDeinterlace(in); got != want {
			t.Fatalf("BackendDeinterlace(%d) = %v, want %v", in, got, want)
		}
	}
}

func TestUnknownSelectorsReachEngineWithFallbacks(t *testing.T) {
	testlog.Start(t)
	eng := &recordingEngine{}
	ctl := newTestService(t, eng).GetControls()

	ctl.DisplaySetColorParam(0, hwcs.ColorControl(42), 0.5)
	if eng.color != backend.ColorHue {
		t.Fatalf("expected hue, got %v", eng.color)
	}
	ctl.DisplaySetDeinterlaceParam(0, hwcs.DeinterlaceMode(42))
	if eng.deinterlace != backend.DeinterlaceMotionCompensated {
		t.Fatalf("expected motion compensated, got %v", eng.deinterlace)
	}
}

func TestHDCPDelegatesAndReturnsOK(t *testing.T) {
	testlog.Start(t)
	eng := &recordingEngine{}
	ctl := newTestService(t, eng).GetControls()

	if st := ctl.EnableHDCPSessionForDisplay(5, hwcs.ContentType0); st != hwcs.StatusOK {
		t.Fatalf("enable: %v", st)
	}
	if st := ctl.DisableHDCPSessionForDisplay(5); st != hwcs.StatusOK {
		t.Fatalf("disable: %v", st)
	}
	if len(eng.hdcp) != 2 || eng.hdcp[0] != 5 || eng.hdcp[1] != 5 {
		t.Fatalf("expected two delegated calls for connector 5, got %v", eng.hdcp)
	}
	if st := ctl.EnableHDCPSessionForAllDisplays(hwcs.ContentType1); st != hwcs.StatusOK {
		t.Fatalf("enable all: %v", st)
	}
	if st := ctl.DisableHDCPSessionForAllDisplays(); st != hwcs.StatusOK {
		t.Fatalf("disable all: %v", st)
	}
}

func TestReferenceDeploymentAnswersOK(t *testing.T) {
	testlog.Start(t)
	ctl := newTestService(t, backend.Stub{}).GetControls()

	statuses := map[string]hwcs.Status{
		"set_overscan":        ctl.DisplaySetOverscan(0, 1, 1),
		"set_scaling":         ctl.DisplaySetScaling(0, hwcs.ScalingFit),
		"enable_blank":        ctl.DisplayEnableBlank(0, true),
		"restore_color":       ctl.DisplayRestoreDefaultColorParam(0, hwcs.ColorContrast),
		"restore_deinterlace": ctl.DisplayRestoreDefaultDeinterlaceParam(0),
		"set_color":           ctl.DisplaySetColorParam(0, hwcs.ColorBrightness, 1),
		"set_deinterlace":     ctl.DisplaySetDeinterlaceParam(0, hwcs.DeinterlaceBob),
		"set_mode":            ctl.DisplayModeSetMode(0, 0),
		"srm_all":             ctl.SetHDCPSRMForAllDisplays([]byte{1}),
		"srm_one":             ctl.SetHDCPSRMForDisplay(1, nil),
		"enable_encrypted":    ctl.VideoEnableEncryptedSession(1, 1),
		"disable_encrypted":   ctl.VideoDisableEncryptedSession(1),
		"disable_all":         ctl.VideoDisableAllEncryptedSessions(),
		"optimization":        ctl.VideoSetOptimizationMode(hwcs.OptimizeCamera),
		"video_state":         ctl.MdsUpdateVideoState(3, true),
		"video_fps":           ctl.MdsUpdateVideoFPS(3, 60),
		"input_state":         ctl.MdsUpdateInputState(false),
		"widi_set":            ctl.WidiSetSingleDisplay(true),
		"panorama_trigger":    ctl.TriggerPanorama(0),
		"panorama_shutdown":   ctl.ShutdownPanorama(0),
	}
	for name, st := range statuses {
		if st != hwcs.StatusOK {
			t.Fatalf("%s: expected OK, got %v", name, st)
		}
	}
	if modes := ctl.DisplayModeGetAvailableModes(0); modes == nil || len(modes) != 0 {
		t.Fatalf("expected empty mode list, got %#v", modes)
	}
	if id := ctl.GetDisplayIDFromConnectorID(12); id != 0 {
		t.Fatalf("expected sentinel 0, got %d", id)
	}
	if !ctl.EnableDRMCommit(true, 0) || !ctl.ResetDrmMaster(false) {
		t.Fatalf("DRM calls should return true")
	}
}

func TestOptimizationModeNotifiesOnlyOnSuccess(t *testing.T) {
	testlog.Start(t)
	svc := newTestService(t, backend.Stub{})
	rec := &recordingListener{}
	svc.Listeners().Register(hwcs.NotifyOptimizationMode, rec)

	ctl := svc.GetControls()
	ctl.VideoSetOptimizationMode(hwcs.OptimizeVideo)
	if len(rec.calls) != 1 || rec.calls[0].para[0] != int64(hwcs.OptimizeVideo) || rec.calls[0].cnt != 1 {
		t.Fatalf("unexpected notifications: %+v", rec.calls)
	}

	failing := newTestService(t, failingEngine{})
	rec2 := &recordingListener{}
	failing.Listeners().Register(hwcs.NotifyOptimizationMode, rec2)
	if st := failing.GetControls().VideoSetOptimizationMode(hwcs.OptimizeVideo); st != hwcs.Status(-5) {
		t.Fatalf("backend status should pass through, got %v", st)
	}
	if len(rec2.calls) != 0 {
		t.Fatalf("failed update should not notify: %+v", rec2.calls)
	}
}

func TestMdsUpdatesNotifyMatchingKind(t *testing.T) {
	testlog.Start(t)
	svc := newTestService(t, backend.Stub{})
	state := &recordingListener{}
	fps := &recordingListener{}
	input := &recordingListener{}
	svc.Listeners().Register(hwcs.NotifyMdsUpdateVideoState, state)
	svc.Listeners().Register(hwcs.NotifyMdsUpdateVideoFps, fps)
	svc.Listeners().Register(hwcs.NotifyMdsUpdateInputState, input)

	ctl := svc.GetControls()
	ctl.MdsUpdateVideoState(77, true)
	ctl.MdsUpdateVideoFPS(77, 30)
	ctl.MdsUpdateInputState(true)

	if len(state.calls) != 1 || state.calls[0].para[0] != 77 || state.calls[0].para[1] != 1 {
		t.Fatalf("video state: %+v", state.calls)
	}
	if len(fps.calls) != 1 || fps.calls[0].para[1] != 30 {
		t.Fatalf("video fps: %+v", fps.calls)
	}
	if len(input.calls) != 1 || input.calls[0].para[0] != 1 {
		t.Fatalf("input state: %+v", input.calls)
	}
}

func TestMemoryBackedGetters(t *testing.T) {
	testlog.Start(t)
	ctl := newTestService(t, backend.NewMemory(backend.DefaultMemoryConfig())).GetControls()

	value, start, end, st := ctl.DisplayGetColorParam(0, hwcs.ColorContrast)
	if st != hwcs.StatusOK || value != 1 || start != 0 || end != 2 {
		t.Fatalf("contrast: %v %v %v %v", value, start, end, st)
	}
	if st := ctl.DisplaySetScaling(0, hwcs.ScalingInvalid); st != hwcs.StatusBadValue {
		t.Fatalf("invalid scaling should pass backend status through, got %v", st)
	}
	mode, st := ctl.DisplayModeGetMode(0)
	if st != hwcs.StatusOK || mode.Width != 1920 {
		t.Fatalf("current mode: %+v %v", mode, st)
	}
	if id := ctl.GetDisplayIDFromConnectorID(36); id != 1 {
		t.Fatalf("connector 36 should map to display 1, got %d", id)
	}
	ctl.VideoEnableEncryptedSession(4, 2)
	if !ctl.VideoIsEncryptedSessionEnabled(4, 2) {
		t.Fatalf("session 4/2 should be enabled")
	}
	ctl.WidiSetSingleDisplay(true)
	if on, st := ctl.WidiGetSingleDisplay(); !on || st != hwcs.StatusOK {
		t.Fatalf("widi: %v %v", on, st)
	}
}
