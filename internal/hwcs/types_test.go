package hwcs

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDeinterlaceFromUint32KnownValues(t *testing.T) {
	want := []DeinterlaceMode{
		DeinterlaceNone,
		DeinterlaceBob,
		DeinterlaceWeave,
		DeinterlaceMotionAdaptive,
		DeinterlaceMotionCompensated,
	}
	for in, mode := range want {
		if got := DeinterlaceFromUint32(uint32(in)); got != mode {
			t.Fatalf("mode %d: got %s want %s", in, got, mode)
		}
	}
}

func TestDeinterlaceFromUint32UnknownFallsBackToNone(t *testing.T) {
	for _, in := range []uint32{5, 17, ^uint32(0)} {
		if got := DeinterlaceFromUint32(in); got != DeinterlaceNone {
			t.Fatalf("mode %d: got %s want none", in, got)
		}
	}
}

func TestStatusStringNamesBackendCodes(t *testing.T) {
	if StatusBadValue.String() != "BAD_VALUE" {
		t.Fatalf("unexpected name: %s", StatusBadValue)
	}
	if got := Status(-1234).String(); got != "STATUS(-1234)" {
		t.Fatalf("unexpected passthrough name: %s", got)
	}
	if StatusFromBool(false).OK() || !StatusFromBool(true).OK() {
		t.Fatalf("bool coercion mismatch")
	}
}

func TestModesEncodingKeepsOrder(t *testing.T) {
	in := []DisplayModeInfo{
		{Width: 3840, Height: 2160, Refresh: 60, Flags: ModeFlagPreferred},
		{Width: 1920, Height: 1080, Refresh: 50, Flags: ModeFlagInterlaced},
	}
	b, err := EncodeModes(in)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	out, err := DecodeModes(b)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if diff := cmp.Diff(in, out); diff != "" {
		t.Fatalf("modes mismatch (-want +got):\n%s", diff)
	}
}

func TestEmptyModesDecodeToEmptySlice(t *testing.T) {
	b, err := EncodeModes(nil)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	out, err := DecodeModes(b)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out == nil || len(out) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", out)
	}
}
