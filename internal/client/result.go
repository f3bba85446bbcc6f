package client

import (
	"github.com/danmuck/hwcctl/internal/hwcs"
	"github.com/danmuck/hwcctl/internal/protocol/tlv"
	"github.com/rs/zerolog/log"
)

// result reads output fields from a successful response. The session
// layer has already validated presence and type.
type result []tlv.Field

func (r result) u32(id uint16) uint32 {
	f, _ := tlv.GetField(r, id)
	v, _ := f.AsU32()
	return v
}

func (r result) i32(id uint16) int32 {
	f, _ := tlv.GetField(r, id)
	v, _ := f.AsI32()
	return v
}

func (r result) f32(id uint16) float32 {
	f, _ := tlv.GetField(r, id)
	v, _ := f.AsF32()
	return v
}

func (r result) boolean(id uint16) bool {
	f, _ := tlv.GetField(r, id)
	v, _ := f.AsBool()
	return v
}

func (r result) str(id uint16) string {
	f, _ := tlv.GetField(r, id)
	v, _ := f.AsString()
	return v
}

func (r result) bytes(id uint16) []byte {
	f, _ := tlv.GetField(r, id)
	v, _ := f.AsBytes()
	return v
}

// call runs one operation and returns its output fields when the status
// is OK.
func call(s *Session, msgType uint32, fields ...tlv.Field) (result, hwcs.Status) {
	resp, st := s.invoke(msgType, fields)
	if st != hwcs.StatusOK {
		return nil, st
	}
	return result(resp.Fields), st
}

// decodeFailed reports a payload that passed schema checks but could not
// be decoded.
func decodeFailed(op string, err error) hwcs.Status {
	log.Error().Err(err).Str("op", op).Msg("client decode payload")
	return hwcs.StatusUnknownError
}
