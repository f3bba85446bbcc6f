package client

import (
	"github.com/danmuck/hwcctl/internal/hwcs"
	"github.com/danmuck/hwcctl/internal/protocol/schema"
	"github.com/danmuck/hwcctl/internal/protocol/tlv"
)

func DiagEnableDisplay(s *Session, display uint32) hwcs.Status {
	_, st := call(s, schema.MsgDiagEnableDisplay, tlv.U32(schema.FieldDisplay, display))
	return st
}

// DiagDisableDisplay stops diagnostic capture on a display, optionally
// blanking it.
func DiagDisableDisplay(s *Session, display uint32, blank bool) hwcs.Status {
	_, st := call(s, schema.MsgDiagDisableDisplay,
		tlv.U32(schema.FieldDisplay, display),
		tlv.Bool(schema.FieldBlank, blank),
	)
	return st
}

// DiagMaskLayer hides or shows one layer in diagnostic capture.
func DiagMaskLayer(s *Session, display, layer uint32, hide bool) hwcs.Status {
	_, st := call(s, schema.MsgDiagMaskLayer,
		tlv.U32(schema.FieldDisplay, display),
		tlv.U32(schema.FieldLayer, layer),
		tlv.Bool(schema.FieldHide, hide),
	)
	return st
}

// DiagDumpFrames asks the service to dump a number of frames from display.
func DiagDumpFrames(s *Session, display uint32, frames int32, sync bool) hwcs.Status {
	_, st := call(s, schema.MsgDiagDumpFrames,
		tlv.U32(schema.FieldDisplay, display),
		tlv.I32(schema.FieldFrames, frames),
		tlv.Bool(schema.FieldSync, sync),
	)
	return st
}

// DiagReadLogParcel fetches the service's recent dispatch log, one line
// per entry. The service keeps the newest lines that fit in one reply.
func DiagReadLogParcel(s *Session, parcel *[]byte) hwcs.Status {
	if parcel == nil {
		return hwcs.StatusBadValue
	}
	r, st := call(s, schema.MsgDiagReadLogParcel)
	if st != hwcs.StatusOK {
		return st
	}
	*parcel = r.bytes(schema.FieldParcel)
	return st
}
