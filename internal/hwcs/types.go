package hwcs

import "fmt"

// ServiceName is the well-known discovery name of the composition service.
const ServiceName = "hwc.info"

type ScalingMode uint32

const (
	ScalingInvalid ScalingMode = iota
	ScalingCentre
	ScalingStretch
	ScalingFit
	ScalingFill
	ScalingMax
)

func (m ScalingMode) Valid() bool {
	return m > ScalingInvalid && m < ScalingMax
}

func (m ScalingMode) String() string {
	switch m {
	case ScalingCentre:
		return "centre"
	case ScalingStretch:
		return "stretch"
	case ScalingFit:
		return "fit"
	case ScalingFill:
		return "fill"
	default:
		return fmt.Sprintf("scaling(%d)", uint32(m))
	}
}

type ColorControl uint32

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
		return fmt.Sprintf("color(%d)", uint32(c))
	}
}

type DeinterlaceMode uint32

const (
	DeinterlaceNone DeinterlaceMode = iota
	DeinterlaceBob
	DeinterlaceWeave
	DeinterlaceMotionAdaptive
	DeinterlaceMotionCompensated
)

func (m DeinterlaceMode) String() string {
	switch m {
	case DeinterlaceNone:
		return "none"
	case DeinterlaceBob:
		return "bob"
	case DeinterlaceWeave:
		return "weave"
	case DeinterlaceMotionAdaptive:
		return "motion-adaptive"
	case DeinterlaceMotionCompensated:
		return "motion-compensated"
	default:
		return fmt.Sprintf("deinterlace(%d)", uint32(m))
	}
}

// DeinterlaceFromUint32 decodes a caller-supplied numeric mode. Anything
// outside 0..4 becomes DeinterlaceNone. The service side resolves unknown
// enum values to DeinterlaceMotionCompensated instead; both are kept as
// each layer's contract.
func DeinterlaceFromUint32(mode uint32) DeinterlaceMode {
	switch mode {
	case 0:
		return DeinterlaceNone
	case 1:
		return DeinterlaceBob
	case 2:
		return DeinterlaceWeave
	case 3:
		return DeinterlaceMotionAdaptive
	case 4:
		return DeinterlaceMotionCompensated
	default:
		return DeinterlaceNone
	}
}

type ContentType uint32

const (
	ContentType0 ContentType = iota
	ContentType1
)

func (c ContentType) String() string {
	switch c {
	case ContentType0:
		return "type0"
	case ContentType1:
		return "type1"
	default:
		return fmt.Sprintf("content(%d)", uint32(c))
	}
}

type OptimizationMode uint32

const (
	OptimizeNormal OptimizationMode = iota
	OptimizeVideo
	OptimizeCamera
)

func (m OptimizationMode) String() string {
	switch m {
	case OptimizeNormal:
		return "normal"
	case OptimizeVideo:
		return "video"
	case OptimizeCamera:
		return "camera"
	default:
		return fmt.Sprintf("optimization(%d)", uint32(m))
	}
}

// Notification names a listener channel on the service.
type Notification uint32

const (
	NotifyInvalid Notification = iota
	NotifyOptimizationMode
	NotifyMdsUpdateVideoState
	NotifyMdsUpdateInputState
	NotifyMdsUpdateVideoFps
	NotifyPanoramaChanged
)

func (n Notification) String() string {
	switch n {
	case NotifyInvalid:
		return "invalid"
	case NotifyOptimizationMode:
		return "optimization_mode"
	case NotifyMdsUpdateVideoState:
		return "mds_update_video_state"
	case NotifyMdsUpdateInputState:
		return "mds_update_input_state"
	case NotifyMdsUpdateVideoFps:
		return "mds_update_video_fps"
	case NotifyPanoramaChanged:
		return "panorama_changed"
	default:
		return fmt.Sprintf("notification(%d)", uint32(n))
	}
}

// Notifications lists every deliverable notification kind.
func Notifications() []Notification {
	return []Notification{
		NotifyOptimizationMode,
		NotifyMdsUpdateVideoState,
		NotifyMdsUpdateInputState,
		NotifyMdsUpdateVideoFps,
		NotifyPanoramaChanged,
	}
}

// MaxNotifyParams is the fixed width of a notification parameter block.
const MaxNotifyParams = 4

// NotifyParams carries up to MaxNotifyParams integers; the count travels
// alongside it.
type NotifyParams [MaxNotifyParams]int64
