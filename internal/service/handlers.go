package service

import (
	"github.com/danmuck/hwcctl/internal/hwcs"
	"github.com/danmuck/hwcctl/internal/protocol/schema"
	"github.com/danmuck/hwcctl/internal/protocol/tlv"
	"github.com/rs/zerolog/log"
)

// call is one validated request on its way to a handler. controls is nil
// for operations that do not require a token.
type call struct {
	svc      *Service
	conn     *connState
	controls *Controls
	token    string
	args     args
	// room is the payload space left for one bytes field in the reply.
	room int
}

type handler struct {
	needsControls bool
	fn            func(c *call) (hwcs.Status, []tlv.Field)
}

// args reads fields the schema has already checked for presence and type.
type args []tlv.Field

func (a args) u32(id uint16) uint32 {
	f, _ := tlv.GetField(a, id)
	v, _ := f.AsU32()
	return v
}

func (a args) i32(id uint16) int32 {
	f, _ := tlv.GetField(a, id)
	v, _ := f.AsI32()
	return v
}

func (a args) i64(id uint16) int64 {
	f, _ := tlv.GetField(a, id)
	v, _ := f.AsI64()
	return v
}

func (a args) f32(id uint16) float32 {
	f, _ := tlv.GetField(a, id)
	v, _ := f.AsF32()
	return v
}

func (a args) boolean(id uint16) bool {
	f, _ := tlv.GetField(a, id)
	v, _ := f.AsBool()
	return v
}

func (a args) str(id uint16) string {
	f, _ := tlv.GetField(a, id)
	v, _ := f.AsString()
	return v
}

func (a args) bytes(id uint16) []byte {
	f, _ := tlv.GetField(a, id)
	v, _ := f.AsBytes()
	return v
}

// srm returns the SRM blob cut to its declared length. A length past the
// end of the buffer is rejected.
func (a args) srm() ([]byte, bool) {
	buf := a.bytes(schema.FieldSRM)
	n := a.u32(schema.FieldSRMLength)
	if uint64(n) > uint64(len(buf)) {
		return nil, false
	}
	return buf[:n], true
}

func statusOnly(st hwcs.Status) (hwcs.Status, []tlv.Field) {
	return st, nil
}

func withControls(fn func(c *call) (hwcs.Status, []tlv.Field)) handler {
	return handler{needsControls: true, fn: fn}
}

func serviceLevel(fn func(c *call) (hwcs.Status, []tlv.Field)) handler {
	return handler{fn: fn}
}

var handlers = map[uint32]handler{
	schema.MsgGetControls: serviceLevel(func(c *call) (hwcs.Status, []tlv.Field) {
		ctl := c.svc.GetControls()
		c.conn.track(ctl.Token())
		return hwcs.StatusOK, []tlv.Field{tlv.String(schema.FieldToken, ctl.Token())}
	}),
	schema.MsgReleaseControls: withControls(func(c *call) (hwcs.Status, []tlv.Field) {
		c.conn.untrack(c.token)
		c.svc.ReleaseControls(c.token)
		return statusOnly(hwcs.StatusOK)
	}),
	schema.MsgGetVersion: serviceLevel(func(c *call) (hwcs.Status, []tlv.Field) {
		return hwcs.StatusOK, []tlv.Field{tlv.String(schema.FieldVersion, c.svc.GetHwcVersion())}
	}),
	schema.MsgSetOption: serviceLevel(func(c *call) (hwcs.Status, []tlv.Field) {
		return statusOnly(c.svc.SetOption(c.args.str(schema.FieldOption), c.args.str(schema.FieldValue)))
	}),
	schema.MsgEnableLogview: serviceLevel(func(c *call) (hwcs.Status, []tlv.Field) {
		return statusOnly(c.svc.EnableLogviewToLogcat(c.args.boolean(schema.FieldEnable)))
	}),
	schema.MsgDumpOptions: serviceLevel(func(c *call) (hwcs.Status, []tlv.Field) {
		dump := c.svc.DumpOptions()
		log.Info().Str("service", c.svc.Name()).Msg("options:\n" + dump)
		return hwcs.StatusOK, []tlv.Field{tlv.String(schema.FieldOptions, dump)}
	}),

	schema.MsgDisplaySetOverscan: withControls(func(c *call) (hwcs.Status, []tlv.Field) {
		return statusOnly(c.controls.DisplaySetOverscan(
			c.args.u32(schema.FieldDisplay),
			c.args.i32(schema.FieldXOverscan),
			c.args.i32(schema.FieldYOverscan),
		))
	}),
	schema.MsgDisplayGetOverscan: withControls(func(c *call) (hwcs.Status, []tlv.Field) {
		x, y, st := c.controls.DisplayGetOverscan(c.args.u32(schema.FieldDisplay))
		return st, []tlv.Field{tlv.I32(schema.FieldXOverscan, x), tlv.I32(schema.FieldYOverscan, y)}
	}),
	schema.MsgDisplaySetScaling: withControls(func(c *call) (hwcs.Status, []tlv.Field) {
		return statusOnly(c.controls.DisplaySetScaling(
			c.args.u32(schema.FieldDisplay),
			hwcs.ScalingMode(c.args.u32(schema.FieldScaling)),
		))
	}),
	schema.MsgDisplayGetScaling: withControls(func(c *call) (hwcs.Status, []tlv.Field) {
		mode, st := c.controls.DisplayGetScaling(c.args.u32(schema.FieldDisplay))
		return st, []tlv.Field{tlv.U32(schema.FieldScaling, uint32(mode))}
	}),
	schema.MsgDisplayEnableBlank: withControls(func(c *call) (hwcs.Status, []tlv.Field) {
		return statusOnly(c.controls.DisplayEnableBlank(c.args.u32(schema.FieldDisplay), c.args.boolean(schema.FieldBlank)))
	}),
	schema.MsgDisplayRestoreDefaultColorParam: withControls(func(c *call) (hwcs.Status, []tlv.Field) {
		return statusOnly(c.controls.DisplayRestoreDefaultColorParam(
			c.args.u32(schema.FieldDisplay),
			hwcs.ColorControl(c.args.u32(schema.FieldColor)),
		))
	}),
	schema.MsgDisplayRestoreDefaultDeinterlaceParam: withControls(func(c *call) (hwcs.Status, []tlv.Field) {
		return statusOnly(c.controls.DisplayRestoreDefaultDeinterlaceParam(c.args.u32(schema.FieldDisplay)))
	}),
	schema.MsgDisplayGetColorParam: withControls(func(c *call) (hwcs.Status, []tlv.Field) {
		value, start, end, st := c.controls.DisplayGetColorParam(
			c.args.u32(schema.FieldDisplay),
			hwcs.ColorControl(c.args.u32(schema.FieldColor)),
		)
		return st, []tlv.Field{
			tlv.F32(schema.FieldColorValue, value),
			tlv.F32(schema.FieldColorStart, start),
			tlv.F32(schema.FieldColorEnd, end),
		}
	}),
	schema.MsgDisplaySetColorParam: withControls(func(c *call) (hwcs.Status, []tlv.Field) {
		return statusOnly(c.controls.DisplaySetColorParam(
			c.args.u32(schema.FieldDisplay),
			hwcs.ColorControl(c.args.u32(schema.FieldColor)),
			c.args.f32(schema.FieldColorValue),
		))
	}),
	schema.MsgDisplaySetDeinterlaceParam: withControls(func(c *call) (hwcs.Status, []tlv.Field) {
		return statusOnly(c.controls.DisplaySetDeinterlaceParam(
			c.args.u32(schema.FieldDisplay),
			hwcs.DeinterlaceMode(c.args.u32(schema.FieldDeinterlace)),
		))
	}),
	schema.MsgDisplayModeGetAvailableModes: withControls(func(c *call) (hwcs.Status, []tlv.Field) {
		modes := c.controls.DisplayModeGetAvailableModes(c.args.u32(schema.FieldDisplay))
		raw, err := hwcs.EncodeModes(modes)
		if err != nil {
			log.Error().Err(err).Msg("encode display modes")
			return statusOnly(hwcs.StatusUnknownError)
		}
		return hwcs.StatusOK, []tlv.Field{tlv.Bytes(schema.FieldModes, raw)}
	}),
	schema.MsgDisplayModeGetMode: withControls(func(c *call) (hwcs.Status, []tlv.Field) {
		mode, st := c.controls.DisplayModeGetMode(c.args.u32(schema.FieldDisplay))
		raw, err := hwcs.EncodeMode(mode)
		if err != nil {
			log.Error().Err(err).Msg("encode display mode")
			return statusOnly(hwcs.StatusUnknownError)
		}
		return st, []tlv.Field{tlv.Bytes(schema.FieldMode, raw)}
	}),
	schema.MsgDisplayModeSetMode: withControls(func(c *call) (hwcs.Status, []tlv.Field) {
		return statusOnly(c.controls.DisplayModeSetMode(c.args.u32(schema.FieldDisplay), c.args.u32(schema.FieldConfig)))
	}),

	schema.MsgEnableHDCPSessionForDisplay: withControls(func(c *call) (hwcs.Status, []tlv.Field) {
		return statusOnly(c.controls.EnableHDCPSessionForDisplay(
			c.args.u32(schema.FieldConnector),
			hwcs.ContentType(c.args.u32(schema.FieldContentType)),
		))
	}),
	schema.MsgEnableHDCPSessionForAllDisplays: withControls(func(c *call) (hwcs.Status, []tlv.Field) {
		return statusOnly(c.controls.EnableHDCPSessionForAllDisplays(hwcs.ContentType(c.args.u32(schema.FieldContentType))))
	}),
	schema.MsgDisableHDCPSessionForDisplay: withControls(func(c *call) (hwcs.Status, []tlv.Field) {
		return statusOnly(c.controls.DisableHDCPSessionForDisplay(c.args.u32(schema.FieldConnector)))
	}),
	schema.MsgDisableHDCPSessionForAllDisplays: withControls(func(c *call) (hwcs.Status, []tlv.Field) {
		return statusOnly(c.controls.DisableHDCPSessionForAllDisplays())
	}),
	schema.MsgSetHDCPSRMForAllDisplays: withControls(func(c *call) (hwcs.Status, []tlv.Field) {
		srm, ok := c.args.srm()
		if !ok {
			return statusOnly(hwcs.StatusBadValue)
		}
		return statusOnly(c.controls.SetHDCPSRMForAllDisplays(srm))
	}),
	schema.MsgSetHDCPSRMForDisplay: withControls(func(c *call) (hwcs.Status, []tlv.Field) {
		srm, ok := c.args.srm()
		if !ok {
			return statusOnly(hwcs.StatusBadValue)
		}
		return statusOnly(c.controls.SetHDCPSRMForDisplay(c.args.u32(schema.FieldConnector), srm))
	}),

	schema.MsgGetDisplayIDFromConnectorID: withControls(func(c *call) (hwcs.Status, []tlv.Field) {
		id := c.controls.GetDisplayIDFromConnectorID(c.args.u32(schema.FieldConnector))
		return hwcs.StatusOK, []tlv.Field{tlv.U32(schema.FieldDisplayID, id)}
	}),
	schema.MsgEnableDRMCommit: withControls(func(c *call) (hwcs.Status, []tlv.Field) {
		ok := c.controls.EnableDRMCommit(c.args.boolean(schema.FieldEnable), c.args.u32(schema.FieldDisplay))
		return hwcs.StatusOK, []tlv.Field{tlv.Bool(schema.FieldResult, ok)}
	}),
	schema.MsgResetDrmMaster: withControls(func(c *call) (hwcs.Status, []tlv.Field) {
		ok := c.controls.ResetDrmMaster(c.args.boolean(schema.FieldDropMaster))
		return hwcs.StatusOK, []tlv.Field{tlv.Bool(schema.FieldResult, ok)}
	}),

	schema.MsgVideoEnableEncryptedSession: withControls(func(c *call) (hwcs.Status, []tlv.Field) {
		return statusOnly(c.controls.VideoEnableEncryptedSession(
			c.args.u32(schema.FieldSessionID),
			c.args.u32(schema.FieldInstanceID),
		))
	}),
	schema.MsgVideoDisableEncryptedSession: withControls(func(c *call) (hwcs.Status, []tlv.Field) {
		return statusOnly(c.controls.VideoDisableEncryptedSession(c.args.u32(schema.FieldSessionID)))
	}),
	schema.MsgVideoDisableAllEncryptedSessions: withControls(func(c *call) (hwcs.Status, []tlv.Field) {
		return statusOnly(c.controls.VideoDisableAllEncryptedSessions())
	}),
	schema.MsgVideoIsEncryptedSessionEnabled: withControls(func(c *call) (hwcs.Status, []tlv.Field) {
		on := c.controls.VideoIsEncryptedSessionEnabled(
			c.args.u32(schema.FieldSessionID),
			c.args.u32(schema.FieldInstanceID),
		)
		return hwcs.StatusOK, []tlv.Field{tlv.Bool(schema.FieldResult, on)}
	}),
	schema.MsgVideoSetOptimizationMode: withControls(func(c *call) (hwcs.Status, []tlv.Field) {
		return statusOnly(c.controls.VideoSetOptimizationMode(hwcs.OptimizationMode(c.args.u32(schema.FieldOptimization))))
	}),

	schema.MsgMdsUpdateVideoState: withControls(func(c *call) (hwcs.Status, []tlv.Field) {
		return statusOnly(c.controls.MdsUpdateVideoState(
			c.args.i64(schema.FieldVideoSessionID),
			c.args.boolean(schema.FieldPrepared),
		))
	}),
	schema.MsgMdsUpdateVideoFPS: withControls(func(c *call) (hwcs.Status, []tlv.Field) {
		return statusOnly(c.controls.MdsUpdateVideoFPS(
			c.args.i64(schema.FieldVideoSessionID),
			c.args.i32(schema.FieldFPS),
		))
	}),
	schema.MsgMdsUpdateInputState: withControls(func(c *call) (hwcs.Status, []tlv.Field) {
		return statusOnly(c.controls.MdsUpdateInputState(c.args.boolean(schema.FieldInputState)))
	}),

	schema.MsgWidiGetSingleDisplay: withControls(func(c *call) (hwcs.Status, []tlv.Field) {
		on, st := c.controls.WidiGetSingleDisplay()
		return st, []tlv.Field{tlv.Bool(schema.FieldEnable, on)}
	}),
	schema.MsgWidiSetSingleDisplay: withControls(func(c *call) (hwcs.Status, []tlv.Field) {
		return statusOnly(c.controls.WidiSetSingleDisplay(c.args.boolean(schema.FieldEnable)))
	}),

	schema.MsgDiagEnableDisplay: serviceLevel(func(c *call) (hwcs.Status, []tlv.Field) {
		c.svc.Diagnostic().EnableDisplay(c.args.u32(schema.FieldDisplay))
		return statusOnly(hwcs.StatusOK)
	}),
	schema.MsgDiagDisableDisplay: serviceLevel(func(c *call) (hwcs.Status, []tlv.Field) {
		c.svc.Diagnostic().DisableDisplay(c.args.u32(schema.FieldDisplay), c.args.boolean(schema.FieldBlank))
		return statusOnly(hwcs.StatusOK)
	}),
	schema.MsgDiagMaskLayer: serviceLevel(func(c *call) (hwcs.Status, []tlv.Field) {
		c.svc.Diagnostic().MaskLayer(
			c.args.u32(schema.FieldDisplay),
			c.args.u32(schema.FieldLayer),
			c.args.boolean(schema.FieldHide),
		)
		return statusOnly(hwcs.StatusOK)
	}),
	schema.MsgDiagDumpFrames: serviceLevel(func(c *call) (hwcs.Status, []tlv.Field) {
		c.svc.Diagnostic().DumpFrames(
			c.args.u32(schema.FieldDisplay),
			c.args.i32(schema.FieldFrames),
			c.args.boolean(schema.FieldSync),
		)
		return statusOnly(hwcs.StatusOK)
	}),
	schema.MsgDiagReadLogParcel: serviceLevel(func(c *call) (hwcs.Status, []tlv.Field) {
		parcel, st := c.svc.Diagnostic().ReadLogParcelWithin(c.room)
		return st, []tlv.Field{tlv.Bytes(schema.FieldParcel, parcel)}
	}),

	schema.MsgTriggerPanorama: withControls(func(c *call) (hwcs.Status, []tlv.Field) {
		return statusOnly(c.controls.TriggerPanorama(c.args.u32(schema.FieldHotplugSim)))
	}),
	schema.MsgShutdownPanorama: withControls(func(c *call) (hwcs.Status, []tlv.Field) {
		return statusOnly(c.controls.ShutdownPanorama(c.args.u32(schema.FieldHotplugSim)))
	}),
}
