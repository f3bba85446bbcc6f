package schema

import (
	"fmt"
	"sort"

	"github.com/danmuck/hwcctl/internal/protocol/tlv"
	"github.com/rs/zerolog/log"
)

// Message type IDs. A response reuses the request's type with the
// response flag set on the frame header.
const (
	MsgGetControls     uint32 = 1
	MsgReleaseControls uint32 = 2
	MsgGetVersion      uint32 = 3
	MsgSetOption       uint32 = 4
	MsgEnableLogview   uint32 = 5
	MsgDumpOptions     uint32 = 6

	MsgDisplaySetOverscan                    uint32 = 10
	MsgDisplayGetOverscan                    uint32 = 11
	MsgDisplaySetScaling                     uint32 = 12
	MsgDisplayGetScaling                     uint32 = 13
	MsgDisplayEnableBlank                    uint32 = 14
	MsgDisplayRestoreDefaultColorParam       uint32 = 15
	MsgDisplayRestoreDefaultDeinterlaceParam uint32 = 16
	MsgDisplayGetColorParam                  uint32 = 17
	MsgDisplaySetColorParam                  uint32 = 18
	MsgDisplaySetDeinterlaceParam            uint32 = 19
	MsgDisplayModeGetAvailableModes          uint32 = 20
	MsgDisplayModeGetMode                    uint32 = 21
	MsgDisplayModeSetMode                    uint32 = 22

	MsgEnableHDCPSessionForDisplay      uint32 = 30
	MsgEnableHDCPSessionForAllDisplays  uint32 = 31
	MsgDisableHDCPSessionForDisplay     uint32 = 32
	MsgDisableHDCPSessionForAllDisplays uint32 = 33
	MsgSetHDCPSRMForAllDisplays         uint32 = 34
	MsgSetHDCPSRMForDisplay             uint32 = 35

	MsgGetDisplayIDFromConnectorID uint32 = 40
	MsgEnableDRMCommit             uint32 = 41
	MsgResetDrmMaster              uint32 = 42

	MsgVideoEnableEncryptedSession      uint32 = 50
	MsgVideoDisableEncryptedSession     uint32 = 51
	MsgVideoDisableAllEncryptedSessions uint32 = 52
	MsgVideoIsEncryptedSessionEnabled   uint32 = 53
	MsgVideoSetOptimizationMode         uint32 = 54

	MsgMdsUpdateVideoState uint32 = 60
	MsgMdsUpdateVideoFPS   uint32 = 61
	MsgMdsUpdateInputState uint32 = 62

	MsgWidiGetSingleDisplay uint32 = 70
	MsgWidiSetSingleDisplay uint32 = 71

	MsgDiagEnableDisplay  uint32 = 80
	MsgDiagDisableDisplay uint32 = 81
	MsgDiagMaskLayer      uint32 = 82
	MsgDiagDumpFrames     uint32 = 83
	MsgDiagReadLogParcel  uint32 = 84

	MsgTriggerPanorama  uint32 = 90
	MsgShutdownPanorama uint32 = 91
)

// Field IDs.
const (
	FieldStatus  uint16 = 1
	FieldToken   uint16 = 2
	FieldVersion uint16 = 3
	FieldMessage uint16 = 4

	FieldOption  uint16 = 10
	FieldValue   uint16 = 11
	FieldEnable  uint16 = 12
	FieldOptions uint16 = 13

	FieldDisplay     uint16 = 100
	FieldXOverscan   uint16 = 101
	FieldYOverscan   uint16 = 102
	FieldScaling     uint16 = 103
	FieldBlank       uint16 = 104
	FieldColor       uint16 = 105
	FieldColorValue  uint16 = 106
	FieldColorStart  uint16 = 107
	FieldColorEnd    uint16 = 108
	FieldDeinterlace uint16 = 109
	FieldModes       uint16 = 110
	FieldMode        uint16 = 111
	FieldConfig      uint16 = 112

	FieldConnector   uint16 = 200
	FieldContentType uint16 = 201
	FieldSRM         uint16 = 202
	FieldSRMLength   uint16 = 203
	FieldDropMaster  uint16 = 204
	FieldResult      uint16 = 205
	FieldDisplayID   uint16 = 206

	FieldSessionID      uint16 = 300
	FieldInstanceID     uint16 = 301
	FieldOptimization   uint16 = 302
	FieldVideoSessionID uint16 = 303
	FieldPrepared       uint16 = 304
	FieldFPS            uint16 = 305
	FieldInputState     uint16 = 306

	FieldLayer      uint16 = 400
	FieldHide       uint16 = 401
	FieldFrames     uint16 = 402
	FieldSync       uint16 = 403
	FieldParcel     uint16 = 404
	FieldHotplugSim uint16 = 405
)

type Requirement struct {
	ID   uint16
	Type uint8
}

// Op describes one protocol operation: its stable name, the fields a
// request must carry, and the fields a successful response carries in
// addition to FieldStatus.
type Op struct {
	Type     uint32
	Name     string
	Request  []Requirement
	Response []Requirement
}

type ValidationError struct {
	MessageType uint32
	FieldID     uint16
	Reason      string
}

func (e ValidationError) Error() string {
	if e.FieldID == 0 {
		return fmt.Sprintf("schema: message_type=%d: %s", e.MessageType, e.Reason)
	}
	return fmt.Sprintf("schema: message_type=%d field=%d: %s", e.MessageType, e.FieldID, e.Reason)
}

var (
	display   = Requirement{FieldDisplay, tlv.TypeU32}
	connector = Requirement{FieldConnector, tlv.TypeU32}
	enable    = Requirement{FieldEnable, tlv.TypeBool}
	result    = Requirement{FieldResult, tlv.TypeBool}
)

var ops = map[uint32]Op{
	MsgGetControls:     {Name: "get_controls", Response: []Requirement{{FieldToken, tlv.TypeString}}},
	MsgReleaseControls: {Name: "release_controls"},
	MsgGetVersion:      {Name: "get_version", Response: []Requirement{{FieldVersion, tlv.TypeString}}},
	MsgSetOption: {Name: "set_option", Request: []Requirement{
		{FieldOption, tlv.TypeString},
		{FieldValue, tlv.TypeString},
	}},
	MsgEnableLogview: {Name: "enable_logview", Request: []Requirement{enable}},
	MsgDumpOptions:   {Name: "dump_options", Response: []Requirement{{FieldOptions, tlv.TypeString}}},

	MsgDisplaySetOverscan: {Name: "display.set_overscan", Request: []Requirement{
		display,
		{FieldXOverscan, tlv.TypeI32},
		{FieldYOverscan, tlv.TypeI32},
	}},
	MsgDisplayGetOverscan: {Name: "display.get_overscan", Request: []Requirement{display}, Response: []Requirement{
		{FieldXOverscan, tlv.TypeI32},
		{FieldYOverscan, tlv.TypeI32},
	}},
	MsgDisplaySetScaling: {Name: "display.set_scaling", Request: []Requirement{display, {FieldScaling, tlv.TypeU32}}},
	MsgDisplayGetScaling: {Name: "display.get_scaling", Request: []Requirement{display}, Response: []Requirement{
		{FieldScaling, tlv.TypeU32},
	}},
	MsgDisplayEnableBlank: {Name: "display.enable_blank", Request: []Requirement{display, {FieldBlank, tlv.TypeBool}}},
	MsgDisplayRestoreDefaultColorParam: {Name: "display.restore_default_color_param", Request: []Requirement{
		display,
		{FieldColor, tlv.TypeU32},
	}},
	MsgDisplayRestoreDefaultDeinterlaceParam: {Name: "display.restore_default_deinterlace_param", Request: []Requirement{display}},
	MsgDisplayGetColorParam: {Name: "display.get_color_param", Request: []Requirement{
		display,
		{FieldColor, tlv.TypeU32},
	}, Response: []Requirement{
		{FieldColorValue, tlv.TypeF32},
		{FieldColorStart, tlv.TypeF32},
		{FieldColorEnd, tlv.TypeF32},
	}},
	MsgDisplaySetColorParam: {Name: "display.set_color_param", Request: []Requirement{
		display,
		{FieldColor, tlv.TypeU32},
		{FieldColorValue, tlv.TypeF32},
	}},
	MsgDisplaySetDeinterlaceParam: {Name: "display.set_deinterlace_param", Request: []Requirement{
		display,
		{FieldDeinterlace, tlv.TypeU32},
	}},
	MsgDisplayModeGetAvailableModes: {Name: "display_mode.get_available_modes", Request: []Requirement{display}, Response: []Requirement{
		{FieldModes, tlv.TypeBytes},
	}},
	MsgDisplayModeGetMode: {Name: "display_mode.get_mode", Request: []Requirement{display}, Response: []Requirement{
		{FieldMode, tlv.TypeBytes},
	}},
	MsgDisplayModeSetMode: {Name: "display_mode.set_mode", Request: []Requirement{display, {FieldConfig, tlv.TypeU32}}},

	MsgEnableHDCPSessionForDisplay: {Name: "video.enable_hdcp_session_for_display", Request: []Requirement{
		connector,
		{FieldContentType, tlv.TypeU32},
	}},
	MsgEnableHDCPSessionForAllDisplays: {Name: "video.enable_hdcp_session_all_displays", Request: []Requirement{
		{FieldContentType, tlv.TypeU32},
	}},
	MsgDisableHDCPSessionForDisplay:     {Name: "video.disable_hdcp_session_for_display", Request: []Requirement{connector}},
	MsgDisableHDCPSessionForAllDisplays: {Name: "video.disable_hdcp_session_all_displays"},
	MsgSetHDCPSRMForAllDisplays: {Name: "video.set_hdcp_srm_all_displays", Request: []Requirement{
		{FieldSRM, tlv.TypeBytes},
		{FieldSRMLength, tlv.TypeU32},
	}},
	MsgSetHDCPSRMForDisplay: {Name: "video.set_hdcp_srm_for_display", Request: []Requirement{
		connector,
		{FieldSRM, tlv.TypeBytes},
		{FieldSRMLength, tlv.TypeU32},
	}},

	MsgGetDisplayIDFromConnectorID: {Name: "drm.get_display_id_from_connector_id", Request: []Requirement{connector}, Response: []Requirement{
		{FieldDisplayID, tlv.TypeU32},
	}},
	MsgEnableDRMCommit: {Name: "drm.enable_commit", Request: []Requirement{enable, display}, Response: []Requirement{result}},
	MsgResetDrmMaster: {Name: "drm.reset_master", Request: []Requirement{
		{FieldDropMaster, tlv.TypeBool},
	}, Response: []Requirement{result}},

	MsgVideoEnableEncryptedSession: {Name: "video.enable_encrypted_session", Request: []Requirement{
		{FieldSessionID, tlv.TypeU32},
		{FieldInstanceID, tlv.TypeU32},
	}},
	MsgVideoDisableEncryptedSession: {Name: "video.disable_encrypted_session", Request: []Requirement{
		{FieldSessionID, tlv.TypeU32},
	}},
	MsgVideoDisableAllEncryptedSessions: {Name: "video.disable_all_encrypted_sessions"},
	MsgVideoIsEncryptedSessionEnabled: {Name: "video.is_encrypted_session_enabled", Request: []Requirement{
		{FieldSessionID, tlv.TypeU32},
		{FieldInstanceID, tlv.TypeU32},
	}, Response: []Requirement{result}},
	MsgVideoSetOptimizationMode: {Name: "video.set_optimization_mode", Request: []Requirement{
		{FieldOptimization, tlv.TypeU32},
	}},

	MsgMdsUpdateVideoState: {Name: "mds.update_video_state", Request: []Requirement{
		{FieldVideoSessionID, tlv.TypeI64},
		{FieldPrepared, tlv.TypeBool},
	}},
	MsgMdsUpdateVideoFPS: {Name: "mds.update_video_fps", Request: []Requirement{
		{FieldVideoSessionID, tlv.TypeI64},
		{FieldFPS, tlv.TypeI32},
	}},
	MsgMdsUpdateInputState: {Name: "mds.update_input_state", Request: []Requirement{
		{FieldInputState, tlv.TypeBool},
	}},

	MsgWidiGetSingleDisplay: {Name: "widi.get_single_display", Response: []Requirement{enable}},
	MsgWidiSetSingleDisplay: {Name: "widi.set_single_display", Request: []Requirement{enable}},

	MsgDiagEnableDisplay:  {Name: "diag.enable_display", Request: []Requirement{display}},
	MsgDiagDisableDisplay: {Name: "diag.disable_display", Request: []Requirement{display, {FieldBlank, tlv.TypeBool}}},
	MsgDiagMaskLayer: {Name: "diag.mask_layer", Request: []Requirement{
		display,
		{FieldLayer, tlv.TypeU32},
		{FieldHide, tlv.TypeBool},
	}},
	MsgDiagDumpFrames: {Name: "diag.dump_frames", Request: []Requirement{
		display,
		{FieldFrames, tlv.TypeI32},
		{FieldSync, tlv.TypeBool},
	}},
	MsgDiagReadLogParcel: {Name: "diag.read_log_parcel", Response: []Requirement{{FieldParcel, tlv.TypeBytes}}},

	MsgTriggerPanorama:  {Name: "panorama.trigger", Request: []Requirement{{FieldHotplugSim, tlv.TypeU32}}},
	MsgShutdownPanorama: {Name: "panorama.shutdown", Request: []Requirement{{FieldHotplugSim, tlv.TypeU32}}},
}

var errorRequirements = []Requirement{
	{FieldStatus, tlv.TypeI32},
	{FieldMessage, tlv.TypeString},
}

func init() {
	for id, op := range ops {
		op.Type = id
		ops[id] = op
	}
}

// Lookup returns the operation registered for messageType.
func Lookup(messageType uint32) (Op, bool) {
	op, ok := ops[messageType]
	return op, ok
}

// Name returns the stable operation name, or a numeric label for
// unknown types.
func Name(messageType uint32) string {
	if op, ok := ops[messageType]; ok {
		return op.Name
	}
	return fmt.Sprintf("unknown(%d)", messageType)
}

// Ops lists every operation ordered by message type.
func Ops() []Op {
	list := make([]Op, 0, len(ops))
	for _, op := range ops {
		list = append(list, op)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].Type < list[j].Type
	})
	return list
}

// ValidateRequest enforces required fields and field types for a request.
// Unknown fields are ignored.
func ValidateRequest(messageType uint32, fields []tlv.Field) error {
	op, ok := ops[messageType]
	if !ok {
		log.Warn().Uint32("message_type", messageType).Msg("schema: unknown message type")
		return ValidationError{MessageType: messageType, Reason: "unknown message_type"}
	}
	return check(messageType, op.Request, fields)
}

// ValidateResponse enforces FieldStatus on every response, and the
// operation's output fields when that status is success.
func ValidateResponse(messageType uint32, fields []tlv.Field) error {
	op, ok := ops[messageType]
	if !ok {
		return ValidationError{MessageType: messageType, Reason: "unknown message_type"}
	}
	if err := check(messageType, []Requirement{{FieldStatus, tlv.TypeI32}}, fields); err != nil {
		return err
	}
	f, _ := tlv.GetField(fields, FieldStatus)
	status, err := f.AsI32()
	if err != nil {
		return ValidationError{MessageType: messageType, FieldID: FieldStatus, Reason: err.Error()}
	}
	if status != 0 {
		return nil
	}
	return check(messageType, op.Response, fields)
}

// ValidateError checks the payload of a frame carrying FlagIsError.
func ValidateError(messageType uint32, fields []tlv.Field) error {
	return check(messageType, errorRequirements, fields)
}

func check(messageType uint32, reqs []Requirement, fields []tlv.Field) error {
	for _, req := range reqs {
		f, found := tlv.GetField(fields, req.ID)
		if !found {
			log.Debug().
				Str("op", Name(messageType)).
				Uint16("field_id", req.ID).
				Msg("schema: missing required field")
			return ValidationError{MessageType: messageType, FieldID: req.ID, Reason: "missing required field"}
		}
		if f.Type != req.Type {
			log.Debug().
				Str("op", Name(messageType)).
				Uint16("field_id", req.ID).
				Str("got", tlv.TypeName(f.Type)).
				Str("want", tlv.TypeName(req.Type)).
				Msg("schema: type mismatch")
			return ValidationError{MessageType: messageType, FieldID: req.ID, Reason: "type mismatch"}
		}
	}
	return nil
}
