package client

import (
	"github.com/danmuck/hwcctl/internal/hwcs"
	"github.com/danmuck/hwcctl/internal/protocol/schema"
	"github.com/danmuck/hwcctl/internal/protocol/tlv"
)

// DisplaySetOverscan shifts the display image by the given offsets.
func DisplaySetOverscan(s *Session, display uint32, xoverscan, yoverscan int32) hwcs.Status {
	_, st := call(s, schema.MsgDisplaySetOverscan,
		tlv.U32(schema.FieldDisplay, display),
		tlv.I32(schema.FieldXOverscan, xoverscan),
		tlv.I32(schema.FieldYOverscan, yoverscan),
	)
	return st
}

// DisplayGetOverscan writes both outputs only when the call succeeds.
func DisplayGetOverscan(s *Session, display uint32, xoverscan, yoverscan *int32) hwcs.Status {
	if xoverscan == nil || yoverscan == nil {
		return hwcs.StatusBadValue
	}
	r, st := call(s, schema.MsgDisplayGetOverscan, tlv.U32(schema.FieldDisplay, display))
	if st != hwcs.StatusOK {
		return st
	}
	*xoverscan = r.i32(schema.FieldXOverscan)
	*yoverscan = r.i32(schema.FieldYOverscan)
	return st
}

func DisplaySetScaling(s *Session, display uint32, mode hwcs.ScalingMode) hwcs.Status {
	_, st := call(s, schema.MsgDisplaySetScaling,
		tlv.U32(schema.FieldDisplay, display),
		tlv.U32(schema.FieldScaling, uint32(mode)),
	)
	return st
}

// DisplayGetScaling writes *mode only when the call succeeds.
func DisplayGetScaling(s *Session, display uint32, mode *hwcs.ScalingMode) hwcs.Status {
	if mode == nil {
		return hwcs.StatusBadValue
	}
	r, st := call(s, schema.MsgDisplayGetScaling, tlv.U32(schema.FieldDisplay, display))
	if st != hwcs.StatusOK {
		return st
	}
	*mode = hwcs.ScalingMode(r.u32(schema.FieldScaling))
	return st
}

// DisplayEnableBlank blanks the display when blank is true and unblanks it
// otherwise.
func DisplayEnableBlank(s *Session, display uint32, blank bool) hwcs.Status {
	_, st := call(s, schema.MsgDisplayEnableBlank,
		tlv.U32(schema.FieldDisplay, display),
		tlv.Bool(schema.FieldBlank, blank),
	)
	return st
}

// DisplayRestoreDefaultColorParam resets one color control to its default.
func DisplayRestoreDefaultColorParam(s *Session, display uint32, color hwcs.ColorControl) hwcs.Status {
	_, st := call(s, schema.MsgDisplayRestoreDefaultColorParam,
		tlv.U32(schema.FieldDisplay, display),
		tlv.U32(schema.FieldColor, uint32(color)),
	)
	return st
}

func DisplayRestoreDefaultDeinterlaceParam(s *Session, display uint32) hwcs.Status {
	_, st := call(s, schema.MsgDisplayRestoreDefaultDeinterlaceParam, tlv.U32(schema.FieldDisplay, display))
	return st
}

// DisplayGetColorParam reports the current value of one color control and
// the range it may be set within.
func DisplayGetColorParam(s *Session, display uint32, color hwcs.ColorControl, value, startRange, endRange *float32) hwcs.Status {
	if value == nil || startRange == nil || endRange == nil {
		return hwcs.StatusBadValue
	}
	r, st := call(s, schema.MsgDisplayGetColorParam,
		tlv.U32(schema.FieldDisplay, display),
		tlv.U32(schema.FieldColor, uint32(color)),
	)
	if st != hwcs.StatusOK {
		return st
	}
	*value = r.f32(schema.FieldColorValue)
	*startRange = r.f32(schema.FieldColorStart)
	*endRange = r.f32(schema.FieldColorEnd)
	return st
}

func DisplaySetColorParam(s *Session, display uint32, color hwcs.ColorControl, value float32) hwcs.Status {
	_, st := call(s, schema.MsgDisplaySetColorParam,
		tlv.U32(schema.FieldDisplay, display),
		tlv.U32(schema.FieldColor, uint32(color)),
		tlv.F32(schema.FieldColorValue, value),
	)
	return st
}

// DisplaySetDeinterlaceParam takes the caller's raw mode number. Values
// outside the known modes are sent as hwcs.DeinterlaceNone.
func DisplaySetDeinterlaceParam(s *Session, display uint32, mode uint32) hwcs.Status {
	_, st := call(s, schema.MsgDisplaySetDeinterlaceParam,
		tlv.U32(schema.FieldDisplay, display),
		tlv.U32(schema.FieldDeinterlace, uint32(hwcs.DeinterlaceFromUint32(mode))),
	)
	return st
}

// DisplayModeGetAvailableModes replaces *modes with the display's mode
// list, which may be empty.
func DisplayModeGetAvailableModes(s *Session, display uint32, modes *[]hwcs.DisplayModeInfo) hwcs.Status {
	if modes == nil {
		return hwcs.StatusBadValue
	}
	r, st := call(s, schema.MsgDisplayModeGetAvailableModes, tlv.U32(schema.FieldDisplay, display))
	if st != hwcs.StatusOK {
		return st
	}
	list, err := hwcs.DecodeModes(r.bytes(schema.FieldModes))
	if err != nil {
		return decodeFailed(schema.Name(schema.MsgDisplayModeGetAvailableModes), err)
	}
	*modes = list
	return st
}

// DisplayModeGetMode writes the active mode only when the call succeeds.
func DisplayModeGetMode(s *Session, display uint32, mode *hwcs.DisplayModeInfo) hwcs.Status {
	if mode == nil {
		return hwcs.StatusBadValue
	}
	r, st := call(s, schema.MsgDisplayModeGetMode, tlv.U32(schema.FieldDisplay, display))
	if st != hwcs.StatusOK {
		return st
	}
	m, err := hwcs.DecodeMode(r.bytes(schema.FieldMode))
	if err != nil {
		return decodeFailed(schema.Name(schema.MsgDisplayModeGetMode), err)
	}
	*mode = m
	return st
}

// DisplayModeSetMode selects the config'th entry of the available modes.
func DisplayModeSetMode(s *Session, display uint32, config uint32) hwcs.Status {
	_, st := call(s, schema.MsgDisplayModeSetMode,
		tlv.U32(schema.FieldDisplay, display),
		tlv.U32(schema.FieldConfig, config),
	)
	return st
}
