package errors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want string
	}{
		{
			name: "error without cause",
			err: &AppError{
				Code:    ErrCodeNotFound,
				Message: "listing not found",
			},
			want: "listing not found",
		},
		{
			name: "error with cause",
			err: &AppError{
				Code:    ErrCodeBackend,
				Message: "save listing",
				Cause:   errors.New("connection refused"),
			},
			want: "save listing: connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("AppError.Error() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Backend(http.StatusInternalServerError, "wrapped error", cause)

	if unwrapped := err.Unwrap(); !errors.Is(unwrapped, cause) {
		t.Errorf("AppError.Unwrap() = %v, want %v", unwrapped, cause)
	}
	assert.Equal(t, http.StatusInternalServerError, err.Status)
}

func TestDefaultMessages(t *testing.T) {
	assert.Equal(t, "authentication required", Unauthenticated("").Message)
	assert.Equal(t, "insufficient permissions", Unauthorized("").Message)
	assert.Equal(t, "backend request failed", Backend(0, "", nil).Message)
}

func TestPredicatesThroughWrapping(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(error) bool
	}{
		{"unauthenticated", Unauthenticated(""), IsUnauthenticated},
		{"unauthorized", Unauthorized(""), IsUnauthorized},
		{"backend", Backend(502, "", nil), IsBackend},
		{"validation", ValidationField("password", "too short"), IsValidation},
		{"in flight", InFlight("pending"), IsInFlight},
		{"not found", NotFoundf("listing %s", "42"), IsNotFound},
		{"timeout", Timeout("slow", context.DeadlineExceeded), IsTimeout},
		{"internal", Internal("boom"), IsInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("outer: %w", tt.err)
			assert.True(t, tt.check(wrapped))
		})
	}
	assert.False(t, IsBackend(errors.New("plain")))
}

func TestGetCodeAndField(t *testing.T) {
	err := fmt.Errorf("signup: %w", ValidationField("confirm_password", "passwords do not match"))
	assert.Equal(t, ErrCodeValidation, GetCode(err))
	assert.Equal(t, "confirm_password", GetField(err))
	assert.Equal(t, ErrorCode(""), GetCode(errors.New("plain")))
	assert.Empty(t, GetField(errors.New("plain")))
}

func TestWrap(t *testing.T) {
	assert.Nil(t, Wrap(nil, ErrCodeInternal, "ignored"))

	cause := errors.New("decode")
	err := Wrapf(cause, ErrCodeBackend, "listing %d", 7)
	assert.Equal(t, "listing 7: decode", err.Error())
	assert.ErrorIs(t, err, cause)
}

func TestFromContext(t *testing.T) {
	assert.NoError(t, FromContext(nil, "x"))
	assert.True(t, IsTimeout(FromContext(context.DeadlineExceeded, "backend timed out")))

	other := errors.New("other")
	assert.Equal(t, other, FromContext(other, "x"))
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(Timeout("t", nil)))
	assert.True(t, IsRetryable(InFlight("f")))
	assert.False(t, IsRetryable(Backend(500, "", nil)))
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "passwords do not match", Message(Validation("passwords do not match"), "fallback"))
	assert.Equal(t, "fallback", Message(errors.New("raw"), "fallback"))
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusUnauthorized, HTTPStatus(Unauthenticated("")))
	assert.Equal(t, http.StatusForbidden, HTTPStatus(Unauthorized("")))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(Validation("bad")))
	assert.Equal(t, http.StatusConflict, HTTPStatus(InFlight("busy")))
	assert.Equal(t, http.StatusNotFound, HTTPStatus(NotFound("missing")))
	assert.Equal(t, http.StatusGatewayTimeout, HTTPStatus(Timeout("slow", nil)))
	assert.Equal(t, http.StatusBadGateway, HTTPStatus(Backend(500, "", nil)))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("raw")))
}
