package session

import (
	"bytes"
	"errors"
	"testing"

	"github.com/danmuck/hwcctl/internal/hwcs"
	"github.com/danmuck/hwcctl/internal/protocol/frame"
	"github.com/danmuck/hwcctl/internal/protocol/schema"
	"github.com/danmuck/hwcctl/internal/protocol/tlv"
	"github.com/danmuck/hwcctl/internal/testutil/testlog"
)

func TestRequestFrameRoundTrip(t *testing.T) {
	testlog.Start(t)

	raw, err := EncodeRequestFrame(42, schema.MsgEnableHDCPSessionForDisplay, "tok-1", []tlv.Field{
		tlv.U32(schema.FieldConnector, 5),
		tlv.U32(schema.FieldContentType, uint32(hwcs.ContentType1)),
	}, frame.DefaultLimits())
	if err != nil {
		t.Fatalf("encode request: %v", err)
	}
	fr, err := frame.ReadFrame(bytes.NewReader(raw), frame.DefaultLimits())
	if err != nil {
		t.Fatalf("read frame: %v", err)
	}
	req, err := DecodeRequestFrame(fr)
	if err != nil {
		t.Fatalf("decode request: %v", err)
	}
	if req.MessageID != 42 || req.Type != schema.MsgEnableHDCPSessionForDisplay || req.Token != "tok-1" {
		t.Fatalf("request mismatch: %+v", req)
	}
	f, _ := tlv.GetField(req.Fields, schema.FieldConnector)
	if v, _ := f.AsU32(); v != 5 {
		t.Fatalf("connector mismatch: %d", v)
	}
}

func TestEncodeRequestRejectsMissingFields(t *testing.T) {
	testlog.Start(t)

	_, err := EncodeRequestFrame(1, schema.MsgDisplaySetScaling, "", []tlv.Field{
		tlv.U32(schema.FieldDisplay, 0),
	}, frame.DefaultLimits())
	var ve schema.ValidationError
	if !errors.As(err, &ve) || ve.FieldID != schema.FieldScaling {
		t.Fatalf("expected missing scaling field, got %v", err)
	}
}

func TestResponseFrameCarriesStatusAndOutputs(t *testing.T) {
	testlog.Start(t)

	raw, err := EncodeResponseFrame(7, schema.MsgDisplayGetOverscan, hwcs.StatusOK, []tlv.Field{
		tlv.I32(schema.FieldXOverscan, -2),
		tlv.I32(schema.FieldYOverscan, 3),
	}, frame.DefaultLimits())
	if err != nil {
		t.Fatalf("encode response: %v", err)
	}
	fr, err := frame.ReadFrame(bytes.NewReader(raw), frame.DefaultLimits())
	if err != nil {
		t.Fatalf("read frame: %v", err)
	}
	resp, err := DecodeResponseFrame(fr)
	if err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != hwcs.StatusOK || resp.Rejected || resp.MessageID != 7 {
		t.Fatalf("unexpected response: %+v", resp)
	}
	x, _ := tlv.GetField(resp.Fields, schema.FieldXOverscan)
	if v, _ := x.AsI32(); v != -2 {
		t.Fatalf("x overscan mismatch: %d", v)
	}
}

func TestBackendStatusPassesThroughVerbatim(t *testing.T) {
	testlog.Start(t)

	raw, err := EncodeResponseFrame(8, schema.MsgDisplayGetOverscan, hwcs.Status(-1234), nil, frame.DefaultLimits())
	if err != nil {
		t.Fatalf("encode response: %v", err)
	}
	fr, err := frame.ReadFrame(bytes.NewReader(raw), frame.DefaultLimits())
	if err != nil {
		t.Fatalf("read frame: %v", err)
	}
	resp, err := DecodeResponseFrame(fr)
	if err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != hwcs.Status(-1234) {
		t.Fatalf("status rewritten: %v", resp.Status)
	}
}

func TestErrorFrameRoundTrip(t *testing.T) {
	testlog.Start(t)

	raw, err := EncodeErrorFrame(9, schema.MsgDisplaySetScaling, hwcs.StatusBadValue, "missing scaling", frame.DefaultLimits())
	if err != nil {
		t.Fatalf("encode error: %v", err)
	}
	fr, err := frame.ReadFrame(bytes.NewReader(raw), frame.DefaultLimits())
	if err != nil {
		t.Fatalf("read frame: %v", err)
	}
	resp, err := DecodeResponseFrame(fr)
	if err != nil {
		t.Fatalf("decode error frame: %v", err)
	}
	if !resp.Rejected || resp.Status != hwcs.StatusBadValue || resp.Message != "missing scaling" {
		t.Fatalf("unexpected rejection: %+v", resp)
	}
}

func TestDecodeRequestRejectsResponseFrame(t *testing.T) {
	testlog.Start(t)

	raw, err := EncodeResponseFrame(1, schema.MsgReleaseControls, hwcs.StatusOK, nil, frame.DefaultLimits())
	if err != nil {
		t.Fatalf("encode response: %v", err)
	}
	fr, err := frame.ReadFrame(bytes.NewReader(raw), frame.DefaultLimits())
	if err != nil {
		t.Fatalf("read frame: %v", err)
	}
	if _, err := DecodeRequestFrame(fr); !errors.Is(err, ErrUnexpectedRequest) {
		t.Fatalf("expected ErrUnexpectedRequest, got %v", err)
	}
}
