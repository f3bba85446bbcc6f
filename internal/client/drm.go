package client

import (
	"github.com/danmuck/hwcctl/internal/hwcs"
	"github.com/danmuck/hwcctl/internal/protocol/schema"
	"github.com/danmuck/hwcctl/internal/protocol/tlv"
)

// GetDisplayIDFromConnectorID returns 0 when the connector is unknown or
// the call could not be made.
func GetDisplayIDFromConnectorID(s *Session, connector uint32) uint32 {
	r, st := call(s, schema.MsgGetDisplayIDFromConnectorID, tlv.U32(schema.FieldConnector, connector))
	if st != hwcs.StatusOK {
		return 0
	}
	return r.u32(schema.FieldDisplayID)
}

// EnableDRMCommit allows or blocks frame commits for a display. It returns
// a bool rather than a status; false covers both a backend refusal and a
// failed call.
func EnableDRMCommit(s *Session, enable bool, display uint32) bool {
	r, st := call(s, schema.MsgEnableDRMCommit,
		tlv.Bool(schema.FieldEnable, enable),
		tlv.U32(schema.FieldDisplay, display),
	)
	if st != hwcs.StatusOK {
		return false
	}
	return r.boolean(schema.FieldResult)
}

// ResetDrmMaster drops DRM master when dropMaster is true and reacquires
// it otherwise. Like EnableDRMCommit it reports success as a bool.
func ResetDrmMaster(s *Session, dropMaster bool) bool {
	r, st := call(s, schema.MsgResetDrmMaster, tlv.Bool(schema.FieldDropMaster, dropMaster))
	if st != hwcs.StatusOK {
		return false
	}
	return r.boolean(schema.FieldResult)
}
