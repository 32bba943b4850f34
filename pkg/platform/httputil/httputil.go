// Package httputil centralizes JSON response writing so every handler emits
// the same envelope for errors and payloads.
package httputil

import (
	"encoding/json"
	"errors"
	"net/http"

	dErrors "dojoroll/pkg/domain-errors"
)

// errorBody is the JSON error envelope returned to clients.
type errorBody struct {
	Error       string `json:"error"`
	Description string `json:"error_description,omitempty"`
}

// codeSlugs maps domain error codes to stable wire identifiers.
var codeSlugs = map[dErrors.Code]string{
	dErrors.CodeValidation:         "validation_error",
	dErrors.CodeInvalidInput:       "invalid_input",
	dErrors.CodeBadRequest:         "bad_request",
	dErrors.CodeUnauthorized:       "unauthorized",
	dErrors.CodeForbidden:          "forbidden",
	dErrors.CodeNotFound:           "not_found",
	dErrors.CodeConflict:           "conflict",
	dErrors.CodeUnavailable:        "unavailable",
	dErrors.CodePartialFailure:     "partial_failure",
	dErrors.CodeInvariantViolation: "invariant_violation",
	dErrors.CodeTimeout:            "timeout",
	dErrors.CodeInternal:           "internal_error",
}

// StatusFor translates a domain error code to an HTTP status.
func StatusFor(code dErrors.Code) int {
	switch code {
	case dErrors.CodeValidation, dErrors.CodeInvalidInput, dErrors.CodeBadRequest:
		return http.StatusBadRequest
	case dErrors.CodeUnauthorized:
		return http.StatusUnauthorized
	case dErrors.CodeForbidden:
		return http.StatusForbidden
	case dErrors.CodeNotFound:
		return http.StatusNotFound
	case dErrors.CodeConflict, dErrors.CodeInvariantViolation:
		return http.StatusConflict
	case dErrors.CodePartialFailure:
		// The primary write landed; the response carries what did not.
		return http.StatusMultiStatus
	case dErrors.CodeUnavailable:
		return http.StatusServiceUnavailable
	case dErrors.CodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// WriteJSON writes v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes a domain error as a JSON error envelope. Internal errors
// omit the description so store details never leak to clients.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	slug, ok := codeSlugs[code]
	if !ok {
		code = dErrors.CodeInternal
		slug = codeSlugs[dErrors.CodeInternal]
	}

	body := errorBody{Error: slug}
	if code != dErrors.CodeInternal {
		var dErr *dErrors.Error
		if errors.As(err, &dErr) {
			body.Description = dErr.Message
		}
	}
	WriteJSON(w, StatusFor(code), body)
}
