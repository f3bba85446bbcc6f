// Package backend defines the composition engine the control service
// drives, plus two engines: Stub, which accepts everything and changes
// nothing, and Memory, which keeps display state in process.
//
// Engines report failures as hwcs.Status values from their own code
// space; the service forwards them without translation.
package backend

import (
	"fmt"

	"github.com/danmuck/hwcctl/internal/hwcs"
)

// ColorControl is the engine's own color selector.
type ColorControl int

const (
	ColorBrightness ColorControl = iota
	ColorContrast
	ColorSaturation
	ColorSharpness
	ColorHue
)

func (c ColorControl) String() string {
	switch c {
	case ColorBrightness:
		return "brightness"
	case ColorContrast:
		return "contrast"
	case ColorSaturation:
		return "saturation"
	case ColorSharpness:
		return "sharpness"
	case ColorHue:
		return "hue"
	default:
		return fmt.Sprintf("color(%d)", int(c))
	}
}

// DeinterlaceControl is the engine's own deinterlace selector.
type DeinterlaceControl int

const (
	DeinterlaceNone DeinterlaceControl = iota
	DeinterlaceBob
	DeinterlaceWeave
	DeinterlaceMotionAdaptive
	DeinterlaceMotionCompensated
)

// ColorRange is a color parameter's current value and its valid range.
type ColorRange struct {
	Value float32
	Start float32
	End   float32
}

// Display covers per-display picture and mode parameters.
type Display interface {
	SetOverscan(display uint32, x, y int32) hwcs.Status
	GetOverscan(display uint32) (x, y int32, st hwcs.Status)
	SetScaling(display uint32, mode hwcs.ScalingMode) hwcs.Status
	GetScaling(display uint32) (hwcs.ScalingMode, hwcs.Status)
	EnableBlank(display uint32, blank bool) hwcs.Status
	RestoreDefaultColorParam(display uint32, color ColorControl) hwcs.Status
	RestoreDefaultDeinterlaceParam(display uint32) hwcs.Status
	GetColorParam(display uint32, color ColorControl) (ColorRange, hwcs.Status)
	SetColorParam(display uint32, color ColorControl, value float32) hwcs.Status
	SetDeinterlaceParam(display uint32, mode DeinterlaceControl) hwcs.Status
	AvailableModes(display uint32) []hwcs.DisplayModeInfo
	CurrentMode(display uint32) (hwcs.DisplayModeInfo, hwcs.Status)
	SetMode(display uint32, config uint32) hwcs.Status
}

// Protection covers HDCP link protection and DRM ownership.
type Protection interface {
	EnableHDCPSessionForDisplay(connector uint32, content hwcs.ContentType)
	EnableHDCPSessionForAllDisplays(content hwcs.ContentType)
	DisableHDCPSessionForDisplay(connector uint32)
	DisableHDCPSessionForAllDisplays()
	SetHDCPSRMForAllDisplays(srm []byte) hwcs.Status
	SetHDCPSRMForDisplay(connector uint32, srm []byte) hwcs.Status

	// DisplayIDFromConnectorID returns 0 for unknown connectors.
	DisplayIDFromConnectorID(connector uint32) uint32
	EnableDRMCommit(enable bool, display uint32) bool
	ResetDrmMaster(dropMaster bool) bool
}

// Video covers encrypted playback bookkeeping and media hints.
type Video interface {
	EnableEncryptedSession(sessionID, instanceID uint32) hwcs.Status
	DisableEncryptedSession(sessionID uint32) hwcs.Status
	DisableAllEncryptedSessions() hwcs.Status
	IsEncryptedSessionEnabled(sessionID, instanceID uint32) bool
	SetOptimizationMode(mode hwcs.OptimizationMode) hwcs.Status

	UpdateVideoState(videoSessionID int64, prepared bool) hwcs.Status
	UpdateVideoFPS(videoSessionID int64, fps int32) hwcs.Status
	UpdateInputState(active bool) hwcs.Status

	SingleDisplay() (bool, hwcs.Status)
	SetSingleDisplay(enable bool) hwcs.Status

	TriggerPanorama(hotplugSimulation uint32)
	ShutdownPanorama(hotplugSimulation uint32)
}

// Engine is the complete composition backend.
type Engine interface {
	Display
	Protection
	Video
}

// Diagnostics is implemented by engines that support diagnostic capture.
// The diagnostic surface forwards to it when present.
type Diagnostics interface {
	DiagEnableDisplay(display uint32)
	DiagDisableDisplay(display uint32, blank bool)
	DiagMaskLayer(display, layer uint32, hide bool)
	DiagDumpFrames(display uint32, frames int32, sync bool)
}

// New builds an engine by kind name: "stub" or "memory".
func New(kind string) (Engine, error) {
	switch kind {
	case "", "stub":
		return Stub{}, nil
	case "memory":
		return NewMemory(DefaultMemoryConfig()), nil
	default:
		return nil, fmt.Errorf("backend: unknown kind %q", kind)
	}
}
