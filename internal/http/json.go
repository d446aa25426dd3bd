package httpx

import (
	"bytes"
	"encoding/json"
	"net/http"

	apperrors "github.com/ecoworth/marketplace-web/internal/errors"
)

// JSON error codes returned by the API routes.
const (
	errCodeAuthRequired     = "authentication_required"
	errCodeInsufficientPerm = "insufficient_permissions"
	errCodeInvalidJSON      = "invalid_json"
	errCodeValidation       = "validation_failed"
	errCodeInFlight         = "request_in_flight"
	errCodeNotFound         = "not_found"
	errCodeTimeout          = "backend_timeout"
	errCodeBackend          = "backend_error"
	errCodeInternal         = "internal_error"
)

// DecodeJSON decodes JSON from the request body into the destination and handles errors.
// Returns true if successful, false if there was an error (error response already written).
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: errCodeInvalidJSON, Err: err})
		return false
	}

	return true
}

// WriteJSON writes a JSON response with the given status code and data.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := buf.WriteTo(w); err != nil {
		// Response writer errors (e.g., client disconnect) can't be recovered from here.
		return
	}
}

// ErrorParams groups parameters for WriteError.
type ErrorParams struct {
	Code    int
	ErrCode string
	Err     error
}

// WriteError writes a JSON error response using ErrorParams.
func WriteError(w http.ResponseWriter, p ErrorParams) {
	WriteJSON(w, p.Code, map[string]string{"error": p.ErrCode, "message": p.Err.Error()})
}

// WriteAppError answers an API request with the status and code matching err.
// Only the user-facing message is exposed; causes stay in the logs.
func WriteAppError(w http.ResponseWriter, err error) {
	body := map[string]string{
		"error":   apiErrorCode(err),
		"message": apperrors.Message(err, "Something went wrong. Please try again."),
	}
	if field := apperrors.GetField(err); field != "" {
		body["field"] = field
	}
	WriteJSON(w, apperrors.HTTPStatus(err), body)
}

func apiErrorCode(err error) string {
	switch apperrors.GetCode(err) {
	case apperrors.ErrCodeUnauthenticated:
		return errCodeAuthRequired
	case apperrors.ErrCodeUnauthorized:
		return errCodeInsufficientPerm
	case apperrors.ErrCodeValidation:
		return errCodeValidation
	case apperrors.ErrCodeInFlight:
		return errCodeInFlight
	case apperrors.ErrCodeNotFound:
		return errCodeNotFound
	case apperrors.ErrCodeTimeout:
		return errCodeTimeout
	case apperrors.ErrCodeBackend:
		return errCodeBackend
	default:
		return errCodeInternal
	}
}
