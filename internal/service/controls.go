package service

import (
	"github.com/danmuck/hwcctl/internal/backend"
	"github.com/danmuck/hwcctl/internal/hwcs"
)

// ControlSurface is the client-facing half of the service.
type ControlSurface interface {
	DisplaySetOverscan(display uint32, x, y int32) hwcs.Status
	DisplayGetOverscan(display uint32) (x, y int32, st hwcs.Status)
	DisplaySetScaling(display uint32, mode hwcs.ScalingMode) hwcs.Status
	DisplayGetScaling(display uint32) (hwcs.ScalingMode, hwcs.Status)
	DisplayEnableBlank(display uint32, blank bool) hwcs.Status
	DisplayRestoreDefaultColorParam(display uint32, color hwcs.ColorControl) hwcs.Status
	DisplayRestoreDefaultDeinterlaceParam(display uint32) hwcs.Status
	DisplayGetColorParam(display uint32, color hwcs.ColorControl) (value, start, end float32, st hwcs.Status)
	DisplaySetColorParam(display uint32, color hwcs.ColorControl, value float32) hwcs.Status
	DisplaySetDeinterlaceParam(display uint32, mode hwcs.DeinterlaceMode) hwcs.Status
	DisplayModeGetAvailableModes(display uint32) []hwcs.DisplayModeInfo
	DisplayModeGetMode(display uint32) (hwcs.DisplayModeInfo, hwcs.Status)
	DisplayModeSetMode(display uint32, config uint32) hwcs.Status

	EnableHDCPSessionForDisplay(connector uint32, content hwcs.ContentType) hwcs.Status
	EnableHDCPSessionForAllDisplays(content hwcs.ContentType) hwcs.Status
	DisableHDCPSessionForDisplay(connector uint32) hwcs.Status
	DisableHDCPSessionForAllDisplays() hwcs.Status
	SetHDCPSRMForAllDisplays(srm []byte) hwcs.Status
	SetHDCPSRMForDisplay(connector uint32, srm []byte) hwcs.Status

	GetDisplayIDFromConnectorID(connector uint32) uint32
	EnableDRMCommit(enable bool, display uint32) bool
	ResetDrmMaster(dropMaster bool) bool

	VideoEnableEncryptedSession(sessionID, instanceID uint32) hwcs.Status
	VideoDisableEncryptedSession(sessionID uint32) hwcs.Status
	VideoDisableAllEncryptedSessions() hwcs.Status
	VideoIsEncryptedSessionEnabled(sessionID, instanceID uint32) bool
	VideoSetOptimizationMode(mode hwcs.OptimizationMode) hwcs.Status

	MdsUpdateVideoState(videoSessionID int64, prepared bool) hwcs.Status
	MdsUpdateVideoFPS(videoSessionID int64, fps int32) hwcs.Status
	MdsUpdateInputState(active bool) hwcs.Status

	WidiGetSingleDisplay() (bool, hwcs.Status)
	WidiSetSingleDisplay(enable bool) hwcs.Status

	TriggerPanorama(hotplugSimulation uint32) hwcs.Status
	ShutdownPanorama(hotplugSimulation uint32) hwcs.Status
}

// Controls is one issued control surface. Instances share the service's
// engine and hold no state of their own beyond the token.
type Controls struct {
	token  string
	svc    *Service
	engine backend.Engine
}

var _ ControlSurface = (*Controls)(nil)

func (c *Controls) Token() string {
	return c.token
}

// BackendColor maps a wire color selector to the engine's. Unknown values
// select hue.
func BackendColor(color hwcs.ColorControl) backend.ColorControl {
	switch color {
	case hwcs.ColorBrightness:
		return backend.ColorBrightness
	case hwcs.ColorContrast:
		return backend.ColorContrast
	case hwcs.ColorSaturation:
		return backend.ColorSaturation
	case hwcs.ColorSharpness:
		return backend.ColorSharpness
	default:
		return backend.ColorHue
	}
}

// BackendDeinterlace maps a wire deinterlace mode to the engine's. Unknown
// values select motion compensation.
func BackendDeinterlace(mode hwcs.DeinterlaceMode) backend.DeinterlaceControl {
	switch mode {
	case hwcs.DeinterlaceNone:
		return backend.DeinterlaceNone
	case hwcs.DeinterlaceBob:
		return backend.DeinterlaceBob
	case hwcs.DeinterlaceWeave:
		return backend.DeinterlaceWeave
	case hwcs.DeinterlaceMotionAdaptive:
		return backend.DeinterlaceMotionAdaptive
	default:
		return backend.DeinterlaceMotionCompensated
	}
}

func (c *Controls) enter(op string, format string, args ...any) {
	c.svc.trace.Addf(op+" "+format+" -->", args...)
}

func (c *Controls) exit(op string, st hwcs.Status) hwcs.Status {
	if st.OK() {
		c.svc.trace.Addf("%s OK <--", op)
	} else {
		c.svc.trace.Addf("%s ERROR %d <--", op, int32(st))
	}
	return st
}

func (c *Controls) DisplaySetOverscan(display uint32, x, y int32) hwcs.Status {
	c.enter("DisplaySetOverscan", "display=%d x=%d y=%d", display, x, y)
	return c.exit("DisplaySetOverscan", c.engine.SetOverscan(display, x, y))
}

func (c *Controls) DisplayGetOverscan(display uint32) (int32, int32, hwcs.Status) {
	c.enter("DisplayGetOverscan", "display=%d", display)
	x, y, st := c.engine.GetOverscan(display)
	return x, y, c.exit("DisplayGetOverscan", st)
}

func (c *Controls) DisplaySetScaling(display uint32, mode hwcs.ScalingMode) hwcs.Status {
	c.enter("DisplaySetScaling", "display=%d mode=%s", display, mode)
	return c.exit("DisplaySetScaling", c.engine.SetScaling(display, mode))
}

func (c *Controls) DisplayGetScaling(display uint32) (hwcs.ScalingMode, hwcs.Status) {
	c.enter("DisplayGetScaling", "display=%d", display)
	mode, st := c.engine.GetScaling(display)
	return mode, c.exit("DisplayGetScaling", st)
}

func (c *Controls) DisplayEnableBlank(display uint32, blank bool) hwcs.Status {
	c.enter("DisplayEnableBlank", "display=%d blank=%t", display, blank)
	return c.exit("DisplayEnableBlank", c.engine.EnableBlank(display, blank))
}

func (c *Controls) DisplayRestoreDefaultColorParam(display uint32, color hwcs.ColorControl) hwcs.Status {
	c.enter("DisplayRestoreDefaultColorParam", "display=%d color=%s", display, color)
	return c.exit("DisplayRestoreDefaultColorParam", c.engine.RestoreDefaultColorParam(display, BackendColor(color)))
}

func (c *Controls) DisplayRestoreDefaultDeinterlaceParam(display uint32) hwcs.Status {
	c.enter("DisplayRestoreDefaultDeinterlaceParam", "display=%d", display)
	return c.exit("DisplayRestoreDefaultDeinterlaceParam", c.engine.RestoreDefaultDeinterlaceParam(display))
}

func (c *Controls) DisplayGetColorParam(display uint32, color hwcs.ColorControl) (float32, float32, float32, hwcs.Status) {
	c.enter("DisplayGetColorParam", "display=%d color=%s", display, color)
	r, st := c.engine.GetColorParam(display, BackendColor(color))
	return r.Value, r.Start, r.End, c.exit("DisplayGetColorParam", st)
}

func (c *Controls) DisplaySetColorParam(display uint32, color hwcs.ColorControl, value float32) hwcs.Status {
	c.enter("DisplaySetColorParam", "display=%d color=%s value=%g", display, color, value)
	return c.exit("DisplaySetColorParam", c.engine.SetColorParam(display, BackendColor(color), value))
}

func (c *Controls) DisplaySetDeinterlaceParam(display uint32, mode hwcs.DeinterlaceMode) hwcs.Status {
	c.enter("DisplaySetDeinterlaceParam", "display=%d mode=%s", display, mode)
	return c.exit("DisplaySetDeinterlaceParam", c.engine.SetDeinterlaceParam(display, BackendDeinterlace(mode)))
}

// DisplayModeGetAvailableModes never returns nil.
func (c *Controls) DisplayModeGetAvailableModes(display uint32) []hwcs.DisplayModeInfo {
	c.enter("DisplayModeGetAvailableModes", "display=%d", display)
	modes := c.engine.AvailableModes(display)
	if modes == nil {
		modes = []hwcs.DisplayModeInfo{}
	}
	c.svc.trace.Addf("DisplayModeGetAvailableModes OK modes=%d <--", len(modes))
	return modes
}

func (c *Controls) DisplayModeGetMode(display uint32) (hwcs.DisplayModeInfo, hwcs.Status) {
	c.enter("DisplayModeGetMode", "display=%d", display)
	mode, st := c.engine.CurrentMode(display)
	return mode, c.exit("DisplayModeGetMode", st)
}

func (c *Controls) DisplayModeSetMode(display uint32, config uint32) hwcs.Status {
	c.enter("DisplayModeSetMode", "display=%d config=%d", display, config)
	return c.exit("DisplayModeSetMode", c.engine.SetMode(display, config))
}

func (c *Controls) EnableHDCPSessionForDisplay(connector uint32, content hwcs.ContentType) hwcs.Status {
	c.enter("EnableHDCPSessionForDisplay", "connector=%d content=%s", connector, content)
	c.engine.EnableHDCPSessionForDisplay(connector, content)
	return c.exit("EnableHDCPSessionForDisplay", hwcs.StatusOK)
}

func (c *Controls) EnableHDCPSessionForAllDisplays(content hwcs.ContentType) hwcs.Status {
	c.enter("EnableHDCPSessionForAllDisplays", "content=%s", content)
	c.engine.EnableHDCPSessionForAllDisplays(content)
	return c.exit("EnableHDCPSessionForAllDisplays", hwcs.StatusOK)
}

func (c *Controls) DisableHDCPSessionForDisplay(connector uint32) hwcs.Status {
	c.enter("DisableHDCPSessionForDisplay", "connector=%d", connector)
	c.engine.DisableHDCPSessionForDisplay(connector)
	return c.exit("DisableHDCPSessionForDisplay", hwcs.StatusOK)
}

func (c *Controls) DisableHDCPSessionForAllDisplays() hwcs.Status {
	c.enter("DisableHDCPSessionForAllDisplays", "")
	c.engine.DisableHDCPSessionForAllDisplays()
	return c.exit("DisableHDCPSessionForAllDisplays", hwcs.StatusOK)
}

func (c *Controls) SetHDCPSRMForAllDisplays(srm []byte) hwcs.Status {
	c.enter("SetHDCPSRMForAllDisplays", "len=%d", len(srm))
	return c.exit("SetHDCPSRMForAllDisplays", c.engine.SetHDCPSRMForAllDisplays(srm))
}

func (c *Controls) SetHDCPSRMForDisplay(connector uint32, srm []byte) hwcs.Status {
	c.enter("SetHDCPSRMForDisplay", "connector=%d len=%d", connector, len(srm))
	return c.exit("SetHDCPSRMForDisplay", c.engine.SetHDCPSRMForDisplay(connector, srm))
}

// GetDisplayIDFromConnectorID returns 0 when the connector is unknown.
func (c *Controls) GetDisplayIDFromConnectorID(connector uint32) uint32 {
	c.enter("GetDisplayIDFromConnectorID", "connector=%d", connector)
	id := c.engine.DisplayIDFromConnectorID(connector)
	c.svc.trace.Addf("GetDisplayIDFromConnectorID OK display=%d <--", id)
	return id
}

func (c *Controls) EnableDRMCommit(enable bool, display uint32) bool {
	c.enter("EnableDRMCommit", "enable=%t display=%d", enable, display)
	ok := c.engine.EnableDRMCommit(enable, display)
	c.exit("EnableDRMCommit", hwcs.StatusFromBool(ok))
	return ok
}

func (c *Controls) ResetDrmMaster(dropMaster bool) bool {
	c.enter("ResetDrmMaster", "drop_master=%t", dropMaster)
	ok := c.engine.ResetDrmMaster(dropMaster)
	c.exit("ResetDrmMaster", hwcs.StatusFromBool(ok))
	return ok
}

func (c *Controls) VideoEnableEncryptedSession(sessionID, instanceID uint32) hwcs.Status {
	c.enter("VideoEnableEncryptedSession", "session=%d instance=%d", sessionID, instanceID)
	return c.exit("VideoEnableEncryptedSession", c.engine.EnableEncryptedSession(sessionID, instanceID))
}

func (c *Controls) VideoDisableEncryptedSession(sessionID uint32) hwcs.Status {
	c.enter("VideoDisableEncryptedSession", "session=%d", sessionID)
	return c.exit("VideoDisableEncryptedSession", c.engine.DisableEncryptedSession(sessionID))
}

func (c *Controls) VideoDisableAllEncryptedSessions() hwcs.Status {
	c.enter("VideoDisableAllEncryptedSessions", "")
	return c.exit("VideoDisableAllEncryptedSessions", c.engine.DisableAllEncryptedSessions())
}

func (c *Controls) VideoIsEncryptedSessionEnabled(sessionID, instanceID uint32) bool {
	c.enter("VideoIsEncryptedSessionEnabled", "session=%d instance=%d", sessionID, instanceID)
	on := c.engine.IsEncryptedSessionEnabled(sessionID, instanceID)
	c.svc.trace.Addf("VideoIsEncryptedSessionEnabled OK enabled=%t <--", on)
	return on
}

func (c *Controls) VideoSetOptimizationMode(mode hwcs.OptimizationMode) hwcs.Status {
	c.enter("VideoSetOptimizationMode", "mode=%s", mode)
	st := c.engine.SetOptimizationMode(mode)
	if st.OK() {
		c.svc.listeners.Notify(hwcs.NotifyOptimizationMode, 1, hwcs.NotifyParams{int64(mode)})
	}
	return c.exit("VideoSetOptimizationMode", st)
}

func (c *Controls) MdsUpdateVideoState(videoSessionID int64, prepared bool) hwcs.Status {
	c.enter("MdsUpdateVideoState", "video_session=%d prepared=%t", videoSessionID, prepared)
	st := c.engine.UpdateVideoState(videoSessionID, prepared)
	if st.OK() {
		c.svc.listeners.Notify(hwcs.NotifyMdsUpdateVideoState, 2, hwcs.NotifyParams{videoSessionID, boolParam(prepared)})
	}
	return c.exit("MdsUpdateVideoState", st)
}

func (c *Controls) MdsUpdateVideoFPS(videoSessionID int64, fps int32) hwcs.Status {
	c.enter("MdsUpdateVideoFPS", "video_session=%d fps=%d", videoSessionID, fps)
	st := c.engine.UpdateVideoFPS(videoSessionID, fps)
	if st.OK() {
		c.svc.listeners.Notify(hwcs.NotifyMdsUpdateVideoFps, 2, hwcs.NotifyParams{videoSessionID, int64(fps)})
	}
	return c.exit("MdsUpdateVideoFPS", st)
}

func (c *Controls) MdsUpdateInputState(active bool) hwcs.Status {
	c.enter("MdsUpdateInputState", "active=%t", active)
	st := c.engine.UpdateInputState(active)
	if st.OK() {
		c.svc.listeners.Notify(hwcs.NotifyMdsUpdateInputState, 1, hwcs.NotifyParams{boolParam(active)})
	}
	return c.exit("MdsUpdateInputState", st)
}

func (c *Controls) WidiGetSingleDisplay() (bool, hwcs.Status) {
	c.enter("WidiGetSingleDisplay", "")
	on, st := c.engine.SingleDisplay()
	return on, c.exit("WidiGetSingleDisplay", st)
}

func (c *Controls) WidiSetSingleDisplay(enable bool) hwcs.Status {
	c.enter("WidiSetSingleDisplay", "enable=%t", enable)
	return c.exit("WidiSetSingleDisplay", c.engine.SetSingleDisplay(enable))
}

func (c *Controls) TriggerPanorama(hotplugSimulation uint32) hwcs.Status {
	c.enter("TriggerPanorama", "hotplug_simulation=%d", hotplugSimulation)
	c.engine.TriggerPanorama(hotplugSimulation)
	c.svc.listeners.Notify(hwcs.NotifyPanoramaChanged, 2, hwcs.NotifyParams{1, int64(hotplugSimulation)})
	return c.exit("TriggerPanorama", hwcs.StatusOK)
}

func (c *Controls) ShutdownPanorama(hotplugSimulation uint32) hwcs.Status {
	c.enter("ShutdownPanorama", "hotplug_simulation=%d", hotplugSimulation)
	c.engine.ShutdownPanorama(hotplugSimulation)
	c.svc.listeners.Notify(hwcs.NotifyPanoramaChanged, 2, hwcs.NotifyParams{0, int64(hotplugSimulation)})
	return c.exit("ShutdownPanorama", hwcs.StatusOK)
}

func boolParam(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
