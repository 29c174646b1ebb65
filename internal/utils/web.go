package utils

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/nullchan-dev/nullchan/internal/errors"
	"github.com/nullchan-dev/nullchan/internal/logger"
)

// WriteErrorAndStatusCode maps repository error kinds to HTTP status codes.
// Untyped errors are internal failures.
func WriteErrorAndStatusCode(w http.ResponseWriter, err error) {
	switch errors.KindOf(err) {
	case errors.KindNotFound:
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.KindInvalidCredential:
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.KindWriteFailed:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	case errors.KindStoreUnavailable:
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// DecodeValidate decodes a JSON body and checks validator tags. Failures are
// client errors; handlers answer them with 400 directly.
func DecodeValidate(r io.Reader, body any) error {
	if err := json.NewDecoder(r).Decode(body); err != nil {
		logger.Log.Debug("invalid json body", "err", err)
		return fmt.Errorf("body is invalid json")
	}
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(body); err != nil {
		logger.Log.Debug("body failed validation", "err", err)
		return fmt.Errorf("required fields missing")
	}
	return nil
}

// Decode decodes a JSON body without validation. Used where fields may
// alternatively arrive as query parameters and are validated after merging.
func Decode(r io.Reader, body any) error {
	if err := json.NewDecoder(r).Decode(body); err != nil {
		return err
	}
	return nil
}
