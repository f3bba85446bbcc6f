package hwcs

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// Mode flags.
const (
	ModeFlagPreferred  uint32 = 1 << 0
	ModeFlagInterlaced uint32 = 1 << 1
	ModeFlagCurrent    uint32 = 1 << 2
)

// DisplayModeInfo describes one mode a display can be driven at.
type DisplayModeInfo struct {
	Width   uint32 `cbor:"1,keyasint"`
	Height  uint32 `cbor:"2,keyasint"`
	Refresh uint32 `cbor:"3,keyasint"`
	Xdpi    uint32 `cbor:"4,keyasint"`
	Ydpi    uint32 `cbor:"5,keyasint"`
	Flags   uint32 `cbor:"6,keyasint"`
}

func (m DisplayModeInfo) String() string {
	s := fmt.Sprintf("%dx%d@%d", m.Width, m.Height, m.Refresh)
	if m.Flags&ModeFlagInterlaced != 0 {
		s += "i"
	}
	if m.Flags&ModeFlagPreferred != 0 {
		s += " (preferred)"
	}
	return s
}

var (
	modeEnc cbor.EncMode
	modeDec cbor.DecMode
)

func init() {
	var err error
	modeEnc, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("hwcs: CBOR encoder initialization failed: " + err.Error())
	}
	modeDec, err = cbor.DecOptions{}.DecMode()
	if err != nil {
		panic("hwcs: CBOR decoder initialization failed: " + err.Error())
	}
}

// EncodeModes encodes an ordered mode list. An empty list encodes as an
// empty CBOR array, never null.
func EncodeModes(modes []DisplayModeInfo) ([]byte, error) {
	if modes == nil {
		modes = []DisplayModeInfo{}
	}
	return modeEnc.Marshal(modes)
}

// DecodeModes is the inverse of EncodeModes; order is preserved.
func DecodeModes(b []byte) ([]DisplayModeInfo, error) {
	modes := []DisplayModeInfo{}
	if len(b) == 0 {
		return modes, nil
	}
	if err := modeDec.Unmarshal(b, &modes); err != nil {
		return nil, fmt.Errorf("hwcs: decode modes: %w", err)
	}
	return modes, nil
}

// EncodeMode encodes a single descriptor.
func EncodeMode(m DisplayModeInfo) ([]byte, error) {
	return modeEnc.Marshal(m)
}

func DecodeMode(b []byte) (DisplayModeInfo, error) {
	var m DisplayModeInfo
	if err := modeDec.Unmarshal(b, &m); err != nil {
		return DisplayModeInfo{}, fmt.Errorf("hwcs: decode mode: %w", err)
	}
	return m, nil
}
