package client

import (
	"github.com/danmuck/hwcctl/internal/hwcs"
	"github.com/danmuck/hwcctl/internal/protocol/schema"
	"github.com/danmuck/hwcctl/internal/protocol/tlv"
)

// VideoEnableHDCPSessionForDisplay asks the backend to protect one
// connector. OK means the request was dispatched, not that the link is
// protected yet.
func VideoEnableHDCPSessionForDisplay(s *Session, connector uint32, content hwcs.ContentType) hwcs.Status {
	_, st := call(s, schema.MsgEnableHDCPSessionForDisplay,
		tlv.U32(schema.FieldConnector, connector),
		tlv.U32(schema.FieldContentType, uint32(content)),
	)
	return st
}

// VideoEnableHDCPSessionForAllDisplays is the all-outputs form of
// VideoEnableHDCPSessionForDisplay.
func VideoEnableHDCPSessionForAllDisplays(s *Session, content hwcs.ContentType) hwcs.Status {
	_, st := call(s, schema.MsgEnableHDCPSessionForAllDisplays, tlv.U32(schema.FieldContentType, uint32(content)))
	return st
}

func VideoDisableHDCPSessionForDisplay(s *Session, connector uint32) hwcs.Status {
	_, st := call(s, schema.MsgDisableHDCPSessionForDisplay, tlv.U32(schema.FieldConnector, connector))
	return st
}

func VideoDisableHDCPSessionForAllDisplays(s *Session) hwcs.Status {
	_, st := call(s, schema.MsgDisableHDCPSessionForAllDisplays)
	return st
}

// VideoSetHDCPSRMForAllDisplays sends the first length bytes of srm. A
// length past the end of srm is rejected before anything is sent.
func VideoSetHDCPSRMForAllDisplays(s *Session, srm []byte, length uint32) hwcs.Status {
	if uint64(length) > uint64(len(srm)) {
		return hwcs.StatusBadValue
	}
	_, st := call(s, schema.MsgSetHDCPSRMForAllDisplays,
		tlv.Bytes(schema.FieldSRM, srm[:length]),
		tlv.U32(schema.FieldSRMLength, length),
	)
	return st
}

// VideoSetHDCPSRMForDisplay is VideoSetHDCPSRMForAllDisplays for one
// connector.
func VideoSetHDCPSRMForDisplay(s *Session, connector uint32, srm []byte, length uint32) hwcs.Status {
	if uint64(length) > uint64(len(srm)) {
		return hwcs.StatusBadValue
	}
	_, st := call(s, schema.MsgSetHDCPSRMForDisplay,
		tlv.U32(schema.FieldConnector, connector),
		tlv.Bytes(schema.FieldSRM, srm[:length]),
		tlv.U32(schema.FieldSRMLength, length),
	)
	return st
}

// VideoEnableEncryptedSession marks (sessionID, instanceID) as encrypted.
func VideoEnableEncryptedSession(s *Session, sessionID, instanceID uint32) hwcs.Status {
	_, st := call(s, schema.MsgVideoEnableEncryptedSession,
		tlv.U32(schema.FieldSessionID, sessionID),
		tlv.U32(schema.FieldInstanceID, instanceID),
	)
	return st
}

// VideoDisableEncryptedSession drops every instance of sessionID.
func VideoDisableEncryptedSession(s *Session, sessionID uint32) hwcs.Status {
	_, st := call(s, schema.MsgVideoDisableEncryptedSession, tlv.U32(schema.FieldSessionID, sessionID))
	return st
}

// VideoDisableAllEncryptedSessions drops every session regardless of id.
// Use VideoDisableEncryptedSession to drop a single session.
func VideoDisableAllEncryptedSessions(s *Session) hwcs.Status {
	_, st := call(s, schema.MsgVideoDisableAllEncryptedSessions)
	return st
}

// VideoIsEncryptedSessionEnabled answers false for an unusable session or
// a failed call.
func VideoIsEncryptedSessionEnabled(s *Session, sessionID, instanceID uint32) bool {
	r, st := call(s, schema.MsgVideoIsEncryptedSessionEnabled,
		tlv.U32(schema.FieldSessionID, sessionID),
		tlv.U32(schema.FieldInstanceID, instanceID),
	)
	if st != hwcs.StatusOK {
		return false
	}
	return r.boolean(schema.FieldResult)
}

// VideoSetOptimizationMode sets the global encode and scaling trade-off.
func VideoSetOptimizationMode(s *Session, mode hwcs.OptimizationMode) hwcs.Status {
	_, st := call(s, schema.MsgVideoSetOptimizationMode, tlv.U32(schema.FieldOptimization, uint32(mode)))
	return st
}

// MdsUpdateVideoState reports whether a video session is prepared.
func MdsUpdateVideoState(s *Session, videoSessionID int64, isPrepared bool) hwcs.Status {
	_, st := call(s, schema.MsgMdsUpdateVideoState,
		tlv.I64(schema.FieldVideoSessionID, videoSessionID),
		tlv.Bool(schema.FieldPrepared, isPrepared),
	)
	return st
}

func MdsUpdateVideoFPS(s *Session, videoSessionID int64, fps int32) hwcs.Status {
	_, st := call(s, schema.MsgMdsUpdateVideoFPS,
		tlv.I64(schema.FieldVideoSessionID, videoSessionID),
		tlv.I32(schema.FieldFPS, fps),
	)
	return st
}

// MdsUpdateInputState reports global input activity.
func MdsUpdateInputState(s *Session, state bool) hwcs.Status {
	_, st := call(s, schema.MsgMdsUpdateInputState, tlv.Bool(schema.FieldInputState, state))
	return st
}

// WidiGetSingleDisplay reports whether the backend drives a single output.
// A nil enabled returns BAD_VALUE without a call.
func WidiGetSingleDisplay(s *Session, enabled *bool) hwcs.Status {
	if enabled == nil {
		return hwcs.StatusBadValue
	}
	r, st := call(s, schema.MsgWidiGetSingleDisplay)
	if st != hwcs.StatusOK {
		return st
	}
	*enabled = r.boolean(schema.FieldEnable)
	return st
}

func WidiSetSingleDisplay(s *Session, enable bool) hwcs.Status {
	_, st := call(s, schema.MsgWidiSetSingleDisplay, tlv.Bool(schema.FieldEnable, enable))
	return st
}

// TriggerPanorama starts panorama mode. hotplugSimulation is passed to
// the backend unchanged.
func TriggerPanorama(s *Session, hotplugSimulation uint32) hwcs.Status {
	_, st := call(s, schema.MsgTriggerPanorama, tlv.U32(schema.FieldHotplugSim, hotplugSimulation))
	return st
}

func ShutdownPanorama(s *Session, hotplugSimulation uint32) hwcs.Status {
	_, st := call(s, schema.MsgShutdownPanorama, tlv.U32(schema.FieldHotplugSim, hotplugSimulation))
	return st
}
