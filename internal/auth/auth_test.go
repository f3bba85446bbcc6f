package auth

import (
	"errors"
	"testing"

	"github.com/danmuck/hwcctl/internal/testutil/testlog"
)

func TestStaticTokenValidate(t *testing.T) {
	testlog.Start(t)
	tests := []struct {
		name    string
		stored  string
		input   string
		wantErr error
	}{
		{name: "empty token denied", stored: "", input: "abc", wantErr: ErrUnauthorized},
		{name: "mismatched token denied", stored: "abc", input: "xyz", wantErr: ErrUnauthorized},
		{name: "matching token accepted", stored: "abc", input: "abc", wantErr: nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := (StaticToken{Token: tc.stored}).Validate(tc.input)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected err %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestFuncValidator(t *testing.T) {
	testlog.Start(t)
	validator := FuncValidator(func(token string) error {
		if token != "ok" {
			return ErrUnauthorized
		}
		return nil
	})
	if err := validator.Validate("ok"); err != nil {
		t.Fatalf("expected ok token to pass, got %v", err)
	}
	if err := validator.Validate("no"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestCheckBearerHeader(t *testing.T) {
	testlog.Start(t)
	v := StaticToken{Token: "s3cret"}
	tests := []struct {
		header  string
		wantErr error
	}{
		{header: "Bearer s3cret", wantErr: nil},
		{header: "bearer   s3cret ", wantErr: nil},
		{header: "Bearer nope", wantErr: ErrUnauthorized},
		{header: "Basic s3cret", wantErr: ErrMissingToken},
		{header: "Bearer ", wantErr: ErrMissingToken},
		{header: "", wantErr: ErrMissingToken},
	}
	for _, tc := range tests {
		if err := Check(v, tc.header); !errors.Is(err, tc.wantErr) {
			t.Fatalf("Check(%q) = %v, want %v", tc.header, err, tc.wantErr)
		}
	}
}
