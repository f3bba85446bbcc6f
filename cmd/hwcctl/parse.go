package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/danmuck/hwcctl/internal/hwcs"
)

type named interface {
	~uint32
	String() string
}

// parseEnum accepts a value's name or its number. Numbers outside the
// known values pass through so the service decides what they mean.
func parseEnum[T named](kind, raw string, values ...T) (T, error) {
	raw = strings.TrimSpace(raw)
	for _, v := range values {
		if strings.EqualFold(v.String(), raw) {
			return v, nil
		}
	}
	n, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", kind, raw)
	}
	return T(n), nil
}

func parseScaling(raw string) (hwcs.ScalingMode, error) {
	return parseEnum("scaling mode", raw, hwcs.ScalingCentre, hwcs.ScalingStretch, hwcs.ScalingFit, hwcs.ScalingFill)
}

func parseColor(raw string) (hwcs.ColorControl, error) {
	return parseEnum("color control", raw,
		hwcs.ColorBrightness, hwcs.ColorContrast, hwcs.ColorSaturation, hwcs.ColorSharpness, hwcs.ColorHue)
}

func parseDeinterlace(raw string) (uint32, error) {
	m, err := parseEnum("deinterlace mode", raw,
		hwcs.DeinterlaceNone, hwcs.DeinterlaceBob, hwcs.DeinterlaceWeave,
		hwcs.DeinterlaceMotionAdaptive, hwcs.DeinterlaceMotionCompensated)
	return uint32(m), err
}

func parseContent(raw string) (hwcs.ContentType, error) {
	return parseEnum("content type", raw, hwcs.ContentType0, hwcs.ContentType1)
}

func parseOptimization(raw string) (hwcs.OptimizationMode, error) {
	return parseEnum("optimization mode", raw, hwcs.OptimizeNormal, hwcs.OptimizeVideo, hwcs.OptimizeCamera)
}

func parseU32(kind, raw string) (uint32, error) {
	n, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", kind, raw)
	}
	return uint32(n), nil
}

func parseI32(kind, raw string) (int32, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", kind, raw)
	}
	return int32(n), nil
}

func parseI64(kind, raw string) (int64, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", kind, raw)
	}
	return n, nil
}

func parseF32(kind, raw string) (float32, error) {
	n, err := strconv.ParseFloat(strings.TrimSpace(raw), 32)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", kind, raw)
	}
	return float32(n), nil
}

func parseBool(kind, raw string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "on", "true", "yes", "enable":
		return true, nil
	case "0", "off", "false", "no", "disable":
		return false, nil
	default:
		return false, fmt.Errorf("invalid %s %q", kind, raw)
	}
}

// parseTarget reads a connector number, or "all".
func parseTarget(raw string) (connector uint32, all bool, err error) {
	if strings.EqualFold(strings.TrimSpace(raw), "all") {
		return 0, true, nil
	}
	connector, err = parseU32("connector", raw)
	return connector, false, err
}

func readSRM(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read srm: %w", err)
	}
	return data, nil
}
