package tlv

import (
	"bytes"
	"errors"
	"math"
	"testing"
)

func TestEncodeDecodeFieldsRoundTripPreservesUnknown(t *testing.T) {
	in := []Field{
		{ID: 1, Type: TypeString, Value: []byte("hwc.info")},
		{ID: 9999, Type: TypeBytes, Value: []byte{0xAA, 0xBB}}, // unknown field id
	}
	b := EncodeFields(in)
	out, err := DecodeFields(b)
	if err != nil {
		t.Fatalf("decode fields: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(out))
	}
	if out[1].ID != 9999 || out[1].Type != TypeBytes || !bytes.Equal(out[1].Value, []byte{0xAA, 0xBB}) {
		t.Fatalf("unknown field not preserved: %+v", out[1])
	}
}

func TestDecodeFieldsMalformedHeaderIsDeterministic(t *testing.T) {
	_, err := DecodeFields([]byte{1, 2, 3})
	if !errors.Is(err, ErrShortFieldHeader) {
		t.Fatalf("expected ErrShortFieldHeader, got %v", err)
	}
}

func TestDecodeFieldsMalformedLengthIsDeterministic(t *testing.T) {
	// id=1, type=string, len=5, value only 2 bytes
	payload := []byte{0, 1, TypeString, 0, 0, 0, 5, 'a', 'b'}
	_, err := DecodeFields(payload)
	if !errors.Is(err, ErrShortFieldValue) {
		t.Fatalf("expected ErrShortFieldValue, got %v", err)
	}
}

func TestSignedAndFloatValuesSurviveEncoding(t *testing.T) {
	fields, err := DecodeFields(EncodeFields([]Field{
		I32(1, -7),
		I64(2, math.MinInt64),
		F32(3, 0.25),
		Bool(4, true),
	}))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if v, err := fields[0].AsI32(); err != nil || v != -7 {
		t.Fatalf("i32: v=%d err=%v", v, err)
	}
	if v, err := fields[1].AsI64(); err != nil || v != math.MinInt64 {
		t.Fatalf("i64: v=%d err=%v", v, err)
	}
	if v, err := fields[2].AsF32(); err != nil || v != 0.25 {
		t.Fatalf("f32: v=%v err=%v", v, err)
	}
	if v, err := fields[3].AsBool(); err != nil || !v {
		t.Fatalf("bool: v=%v err=%v", v, err)
	}
}

func TestAccessorRejectsWrongType(t *testing.T) {
	if _, err := U32(1, 5).AsI32(); !errors.Is(err, ErrTypeMismatch) {
		t.Fatalf("expected ErrTypeMismatch, got %v", err)
	}
	bad := Field{ID: 1, Type: TypeBool, Value: []byte{2}}
	if _, err := bad.AsBool(); !errors.Is(err, ErrInvalidBool) {
		t.Fatalf("expected ErrInvalidBool, got %v", err)
	}
	short := Field{ID: 1, Type: TypeU32, Value: []byte{0, 1}}
	if _, err := short.AsU32(); !errors.Is(err, ErrInvalidLength) {
		t.Fatalf("expected ErrInvalidLength, got %v", err)
	}
}
