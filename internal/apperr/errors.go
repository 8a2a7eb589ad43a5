package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrAuth       = errors.New("unauthorized")  // 401
	ErrValidation = errors.New("validation")    // 400
	ErrNetwork    = errors.New("network")       // 502
	ErrForbidden  = errors.New("forbidden")     // 403
	ErrNotFound   = errors.New("not found")     // 404
	ErrConflict   = errors.New("conflict")      // 409
)

// HTTPStatus maps an error chain onto the status code the API answers with.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrAuth):
		return http.StatusUnauthorized
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrNetwork):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// FromStatus is the client-side inverse of HTTPStatus.
func FromStatus(code int, msg string) error {
	var kind error
	switch {
	case code == http.StatusUnauthorized:
		kind = ErrAuth
	case code == http.StatusForbidden:
		kind = ErrForbidden
	case code == http.StatusNotFound:
		kind = ErrNotFound
	case code == http.StatusConflict:
		kind = ErrConflict
	case code == http.StatusBadRequest || code == http.StatusUnprocessableEntity:
		kind = ErrValidation
	case code >= 500:
		kind = ErrNetwork
	default:
		return fmt.Errorf("unexpected status %d: %s", code, msg)
	}
	if msg == "" {
		return fmt.Errorf("status %d: %w", code, kind)
	}
	return fmt.Errorf("%s: %w", msg, kind)
}

// Message returns the text of the outermost error without the sentinel suffix,
// which is what gets shown inline next to the control that failed.
func Message(err error) string {
	if err == nil {
		return ""
	}
	s := err.Error()
	for _, kind := range []error{ErrAuth, ErrValidation, ErrNetwork, ErrForbidden, ErrNotFound, ErrConflict} {
		if suffix := ": " + kind.Error(); strings.HasSuffix(s, suffix) {
			return strings.TrimSuffix(s, suffix)
		}
	}
	return s
}
