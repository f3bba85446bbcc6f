package session

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/danmuck/hwcctl/internal/hwcs"
	"github.com/danmuck/hwcctl/internal/protocol/frame"
	"github.com/danmuck/hwcctl/internal/protocol/schema"
	"github.com/danmuck/hwcctl/internal/protocol/tlv"
)

var (
	ErrUnexpectedRequest  = errors.New("session: expected request frame")
	ErrUnexpectedResponse = errors.New("session: expected response frame")
)

// Request is one decoded call.
type Request struct {
	MessageID uint64
	Type      uint32
	Token     string
	Fields    []tlv.Field
}

// Response is one decoded reply. Rejected is set when the peer answered
// with an error frame; Message then carries its reason.
type Response struct {
	MessageID uint64
	Type      uint32
	Status    hwcs.Status
	Rejected  bool
	Message   string
	Fields    []tlv.Field
}

// EncodeRequestFrame validates fields against the operation schema and
// returns the framed bytes. The controls token rides in the auth block.
func EncodeRequestFrame(messageID uint64, messageType uint32, token string, fields []tlv.Field, limits frame.Limits) ([]byte, error) {
	if err := schema.ValidateRequest(messageType, fields); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	err := frame.WriteFrame(&buf, frame.Frame{
		Header: frame.Header{
			MessageID:   messageID,
			MessageType: messageType,
		},
		Auth:    []byte(token),
		Payload: tlv.EncodeFields(fields),
	}, limits)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DecodeRequestFrame decodes and validates one request frame.
func DecodeRequestFrame(f frame.Frame) (Request, error) {
	if f.Header.IsResponse() {
		return Request{}, ErrUnexpectedRequest
	}
	fields, err := tlv.DecodeFields(f.Payload)
	if err != nil {
		return Request{}, err
	}
	if err := schema.ValidateRequest(f.Header.MessageType, fields); err != nil {
		return Request{}, err
	}
	return Request{
		MessageID: f.Header.MessageID,
		Type:      f.Header.MessageType,
		Token:     string(f.Auth),
		Fields:    fields,
	}, nil
}

// EncodeResponseFrame prepends the status field and frames the reply.
func EncodeResponseFrame(messageID uint64, messageType uint32, status hwcs.Status, fields []tlv.Field, limits frame.Limits) ([]byte, error) {
	all := make([]tlv.Field, 0, len(fields)+1)
	all = append(all, tlv.I32(schema.FieldStatus, int32(status)))
	all = append(all, fields...)
	if err := schema.ValidateResponse(messageType, all); err != nil {
		return nil, err
	}
	return writeResponse(messageID, messageType, frame.FlagIsResponse, all, limits)
}

// EncodeErrorFrame frames a rejection for a request that never reached
// its handler.
func EncodeErrorFrame(messageID uint64, messageType uint32, status hwcs.Status, message string, limits frame.Limits) ([]byte, error) {
	fields := []tlv.Field{
		tlv.I32(schema.FieldStatus, int32(status)),
		tlv.String(schema.FieldMessage, message),
	}
	return writeResponse(messageID, messageType, frame.FlagIsResponse|frame.FlagIsError, fields, limits)
}

func writeResponse(messageID uint64, messageType uint32, flags uint32, fields []tlv.Field, limits frame.Limits) ([]byte, error) {
	var buf bytes.Buffer
	err := frame.WriteFrame(&buf, frame.Frame{
		Header: frame.Header{
			MessageID:   messageID,
			MessageType: messageType,
			Flags:       flags,
		},
		Payload: tlv.EncodeFields(fields),
	}, limits)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DecodeResponseFrame decodes one reply, validating it against the
// operation schema or the error schema.
func DecodeResponseFrame(f frame.Frame) (Response, error) {
	if !f.Header.IsResponse() {
		return Response{}, ErrUnexpectedResponse
	}
	fields, err := tlv.DecodeFields(f.Payload)
	if err != nil {
		return Response{}, err
	}
	resp := Response{
		MessageID: f.Header.MessageID,
		Type:      f.Header.MessageType,
		Fields:    fields,
	}
	if f.Header.IsError() {
		if err := schema.ValidateError(f.Header.MessageType, fields); err != nil {
			return Response{}, err
		}
		resp.Rejected = true
		resp.Message = GetString(fields, schema.FieldMessage)
	} else if err := schema.ValidateResponse(f.Header.MessageType, fields); err != nil {
		return Response{}, err
	}
	st, _ := tlv.GetField(fields, schema.FieldStatus)
	code, err := st.AsI32()
	if err != nil {
		return Response{}, fmt.Errorf("session: status field: %w", err)
	}
	resp.Status = hwcs.Status(code)
	return resp, nil
}

// GetString returns an optional string field value, empty if absent.
func GetString(fields []tlv.Field, id uint16) string {
	f, ok := tlv.GetField(fields, id)
	if !ok {
		return ""
	}
	return string(f.Value)
}
