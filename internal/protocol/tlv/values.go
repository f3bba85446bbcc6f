package tlv

import (
	"encoding/binary"
	"math"
)

// U32 creates a uint32 field.
func U32(id uint16, v uint32) Field {
	buf := make([]byte, 4)
	binary.BigEndian.PutUint32(buf, v)
	return Field{ID: id, Type: TypeU32, Value: buf}
}

// U64 creates a uint64 field.
func U64(id uint16, v uint64) Field {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, v)
	return Field{ID: id, Type: TypeU64, Value: buf}
}

// I32 creates an int32 field, two's complement big-endian.
func I32(id uint16, v int32) Field {
	f := U32(id, uint32(v))
	f.Type = TypeI32
	return f
}

// I64 creates an int64 field, two's complement big-endian.
func I64(id uint16, v int64) Field {
	f := U64(id, uint64(v))
	f.Type = TypeI64
	return f
}

// F32 creates a float32 field carrying IEEE-754 bits.
func F32(id uint16, v float32) Field {
	f := U32(id, math.Float32bits(v))
	f.Type = TypeF32
	return f
}

// Bool creates a bool field.
func Bool(id uint16, v bool) Field {
	b := byte(0)
	if v {
		b = 1
	}
	return Field{ID: id, Type: TypeBool, Value: []byte{b}}
}

// String creates a string field.
func String(id uint16, v string) Field {
	return Field{ID: id, Type: TypeString, Value: []byte(v)}
}

// Bytes creates a bytes field holding a copy of v.
func Bytes(id uint16, v []byte) Field {
	buf := make([]byte, len(v))
	copy(buf, v)
	return Field{ID: id, Type: TypeBytes, Value: buf}
}

func (f Field) fixed(want uint8, n int) ([]byte, error) {
	if f.Type != want {
		return nil, ErrTypeMismatch
	}
	if len(f.Value) != n {
		return nil, ErrInvalidLength
	}
	return f.Value, nil
}

// AsU32 returns the field value as uint32.
func (f Field) AsU32() (uint32, error) {
	b, err := f.fixed(TypeU32, 4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

// AsU64 returns the field value as uint64.
func (f Field) AsU64() (uint64, error) {
	b, err := f.fixed(TypeU64, 8)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(b), nil
}

// AsI32 returns the field value as int32.
func (f Field) AsI32() (int32, error) {
	b, err := f.fixed(TypeI32, 4)
	if err != nil {
		return 0, err
	}
	return int32(binary.BigEndian.Uint32(b)), nil
}

// AsI64 returns the field value as int64.
func (f Field) AsI64() (int64, error) {
	b, err := f.fixed(TypeI64, 8)
	if err != nil {
		return 0, err
	}
	return int64(binary.BigEndian.Uint64(b)), nil
}

// AsF32 returns the field value as float32.
func (f Field) AsF32() (float32, error) {
	b, err := f.fixed(TypeF32, 4)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(binary.BigEndian.Uint32(b)), nil
}

// AsBool returns the field value as bool. Only 0 and 1 are accepted.
func (f Field) AsBool() (bool, error) {
	b, err := f.fixed(TypeBool, 1)
	if err != nil {
		return false, err
	}
	switch b[0] {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, ErrInvalidBool
	}
}

// AsString returns the field value as string.
func (f Field) AsString() (string, error) {
	if f.Type != TypeString {
		return "", ErrTypeMismatch
	}
	return string(f.Value), nil
}

// AsBytes returns a copy of the field value.
func (f Field) AsBytes() ([]byte, error) {
	if f.Type != TypeBytes {
		return nil, ErrTypeMismatch
	}
	buf := make([]byte, len(f.Value))
	copy(buf, f.Value)
	return buf, nil
}
