package backend

import "github.com/danmuck/hwcctl/internal/hwcs"

// Stub is the reference deployment: every operation succeeds and no state
// is kept. Queries answer with zero values.
type Stub struct{}

var _ Engine = Stub{}

func (Stub) SetOverscan(uint32, int32, int32) hwcs.Status { return hwcs.StatusOK }

func (Stub) GetOverscan(uint32) (int32, int32, hwcs.Status) { return 0, 0, hwcs.StatusOK }

func (Stub) SetScaling(uint32, hwcs.ScalingMode) hwcs.Status { return hwcs.StatusOK }

func (Stub) GetScaling(uint32) (hwcs.ScalingMode, hwcs.Status) {
	return hwcs.ScalingInvalid, hwcs.StatusOK
}

func (Stub) EnableBlank(uint32, bool) hwcs.Status { return hwcs.StatusOK }

func (Stub) RestoreDefaultColorParam(uint32, ColorControl) hwcs.Status { return hwcs.StatusOK }

func (Stub) RestoreDefaultDeinterlaceParam(uint32) hwcs.Status { return hwcs.StatusOK }

func (Stub) GetColorParam(uint32, ColorControl) (ColorRange, hwcs.Status) {
	return ColorRange{}, hwcs.StatusOK
}

func (Stub) SetColorParam(uint32, ColorControl, float32) hwcs.Status { return hwcs.StatusOK }

func (Stub) SetDeinterlaceParam(uint32, DeinterlaceControl) hwcs.Status { return hwcs.StatusOK }

func (Stub) AvailableModes(uint32) []hwcs.DisplayModeInfo { return []hwcs.DisplayModeInfo{} }

func (Stub) CurrentMode(uint32) (hwcs.DisplayModeInfo, hwcs.Status) {
	return hwcs.DisplayModeInfo{}, hwcs.StatusOK
}

func (Stub) SetMode(uint32, uint32) hwcs.Status { return hwcs.StatusOK }

func (Stub) EnableHDCPSessionForDisplay(uint32, hwcs.ContentType) {}

func (Stub) EnableHDCPSessionForAllDisplays(hwcs.ContentType) {}

func (Stub) DisableHDCPSessionForDisplay(uint32) {}

func (Stub) DisableHDCPSessionForAllDisplays() {}

func (Stub) SetHDCPSRMForAllDisplays([]byte) hwcs.Status { return hwcs.StatusOK }

func (Stub) SetHDCPSRMForDisplay(uint32, []byte) hwcs.Status { return hwcs.StatusOK }

func (Stub) DisplayIDFromConnectorID(uint32) uint32 { return 0 }

func (Stub) EnableDRMCommit(bool, uint32) bool { return true }

func (Stub) ResetDrmMaster(bool) bool { return true }

func (Stub) EnableEncryptedSession(uint32, uint32) hwcs.Status { return hwcs.StatusOK }

func (Stub) DisableEncryptedSession(uint32) hwcs.Status { return hwcs.StatusOK }

func (Stub) DisableAllEncryptedSessions() hwcs.Status { return hwcs.StatusOK }

func (Stub) IsEncryptedSessionEnabled(uint32, uint32) bool { return false }

func (Stub) SetOptimizationMode(hwcs.OptimizationMode) hwcs.Status { return hwcs.StatusOK }

func (Stub) UpdateVideoState(int64, bool) hwcs.Status { return hwcs.StatusOK }

func (Stub) UpdateVideoFPS(int64, int32) hwcs.Status { return hwcs.StatusOK }

func (Stub) UpdateInputState(bool) hwcs.Status { return hwcs.StatusOK }

func (Stub) SingleDisplay() (bool, hwcs.Status) { return false, hwcs.StatusOK }

func (Stub) SetSingleDisplay(bool) hwcs.Status { return hwcs.StatusOK }

func (Stub) TriggerPanorama(uint32) {}

func (Stub) ShutdownPanorama(uint32) {}
