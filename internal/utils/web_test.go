package utils

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/nullchan-dev/nullchan/internal/errors"
)

func TestWriteErrorAndStatusCode(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"not found", errors.NotFound("x"), 404},
		{"invalid credential", errors.InvalidCredential("x"), 403},
		{"write failed", errors.WriteFailed("x"), 500},
		{"store unavailable", errors.StoreUnavailable("x", context.DeadlineExceeded), 503},
		{"untyped", context.Canceled, 500},
	}

	for _, tc := range cases {
		rr := httptest.NewRecorder()
		WriteErrorAndStatusCode(rr, tc.err)
		if rr.Code != tc.want {
			t.Errorf("%s: status = %d, want %d", tc.name, rr.Code, tc.want)
		}
	}
}

func TestDecodeValidate(t *testing.T) {
	type body struct {
		Text           string `json:"text" validate:"required"`
		DeletePassword string `json:"delete_password" validate:"required"`
	}

	var b body
	if err := DecodeValidate(strings.NewReader(`{"text": "t", "delete_password": "p"}`), &b); err != nil {
		t.Fatalf("valid body rejected: %v", err)
	}
	if b.Text != "t" {
		t.Errorf("text = %q", b.Text)
	}

	if err := DecodeValidate(strings.NewReader(`{"text": "t"}`), &body{}); err == nil {
		t.Error("missing required field accepted")
	}
	if err := DecodeValidate(strings.NewReader(`{broken`), &body{}); err == nil {
		t.Error("invalid json accepted")
	}
}
