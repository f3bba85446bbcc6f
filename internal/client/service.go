package client

import (
	"github.com/danmuck/hwcctl/internal/hwcs"
	"github.com/danmuck/hwcctl/internal/protocol/schema"
	"github.com/danmuck/hwcctl/internal/protocol/tlv"
)

// GetHwcVersion returns the service version, or "" when it is unset or
// the call fails. A successful answer is cached on the session.
func GetHwcVersion(s *Session) string {
	if !s.Alive() {
		return ""
	}
	s.mu.Lock()
	cached := s.version
	s.mu.Unlock()
	if cached != nil {
		return *cached
	}
	r, st := call(s, schema.MsgGetVersion)
	if st != hwcs.StatusOK {
		return ""
	}
	v := r.str(schema.FieldVersion)
	s.mu.Lock()
	s.version = &v
	s.mu.Unlock()
	return v
}

// SetOption stores value under option in the service option table.
func SetOption(s *Session, option, value string) hwcs.Status {
	_, st := call(s, schema.MsgSetOption,
		tlv.String(schema.FieldOption, option),
		tlv.String(schema.FieldValue, value),
	)
	return st
}

func EnableLogviewToLogcat(s *Session, enable bool) hwcs.Status {
	_, st := call(s, schema.MsgEnableLogview, tlv.Bool(schema.FieldEnable, enable))
	return st
}

// DumpOptions asks the service to log its option table. When out is not
// nil it also receives the table as "key=value" lines.
func DumpOptions(s *Session, out *string) hwcs.Status {
	r, st := call(s, schema.MsgDumpOptions)
	if st != hwcs.StatusOK {
		return st
	}
	if out != nil {
		*out = r.str(schema.FieldOptions)
	}
	return st
}
