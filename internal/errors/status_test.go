package errors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type statusErr int

func (e statusErr) Error() string   { return fmt.Sprintf("backend returned %d", int(e)) }
func (e statusErr) HTTPStatus() int { return int(e) }

func TestFromStatus(t *testing.T) {
	tests := []struct {
		status int
		want   ErrorCode
	}{
		{http.StatusBadRequest, ErrCodeValidation},
		{http.StatusUnprocessableEntity, ErrCodeValidation},
		{http.StatusUnauthorized, ErrCodeUnauthorized},
		{http.StatusForbidden, ErrCodeForbidden},
		{http.StatusNotFound, ErrCodeNotFound},
		{http.StatusConflict, ErrCodeConflict},
		{http.StatusInternalServerError, ErrCodeUpstream},
		{http.StatusBadGateway, ErrCodeUpstream},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.status), func(t *testing.T) {
			err := FromStatus(tt.status, "msg", nil)
			assert.Equal(t, tt.want, err.Code)
			assert.Equal(t, "msg", err.Message)
		})
	}
}

func TestFromContext(t *testing.T) {
	assert.Equal(t, ErrCodeTimeout, GetCode(FromContext(context.DeadlineExceeded)))
	assert.Equal(t, ErrCodeCanceled, GetCode(FromContext(fmt.Errorf("wrapped: %w", context.Canceled))))
	assert.Nil(t, FromContext(errors.New("other")))
}

func TestStatusOf(t *testing.T) {
	status, ok := StatusOf(fmt.Errorf("bankapi whoami: %w", statusErr(http.StatusUnauthorized)))
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, status)

	_, ok = StatusOf(statusErr(0))
	assert.False(t, ok)
	_, ok = StatusOf(errors.New("plain"))
	assert.False(t, ok)
}

func TestFromBackend(t *testing.T) {
	local := ValidationField("amount", "Amount must be positive.")
	dial := errors.New("dial tcp 127.0.0.1:8080: connection refused")

	tests := []struct {
		name string
		err  error
		code ErrorCode
	}{
		{name: "local error kept", err: local, code: ErrCodeValidation},
		{name: "answered 401", err: statusErr(http.StatusUnauthorized), code: ErrCodeUnauthorized},
		{name: "answered 404", err: fmt.Errorf("call: %w", statusErr(http.StatusNotFound)), code: ErrCodeNotFound},
		{name: "answered 500", err: statusErr(http.StatusInternalServerError), code: ErrCodeUpstream},
		{name: "deadline", err: context.DeadlineExceeded, code: ErrCodeTimeout},
		{name: "transport", err: dial, code: ErrCodeUpstream},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromBackend(tt.err)
			require.NotNil(t, got)
			assert.Equal(t, tt.code, got.Code)
			assert.ErrorIs(t, got, tt.err)
		})
	}

	assert.Same(t, local, FromBackend(local))
	assert.Equal(t, "Not Found", FromBackend(statusErr(http.StatusNotFound)).Message)
	assert.Nil(t, FromBackend(nil))
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{Validation("bad"), http.StatusBadRequest},
		{FromStatus(http.StatusUnauthorized, "no", nil), http.StatusUnauthorized},
		{FromStatus(http.StatusForbidden, "no", nil), http.StatusForbidden},
		{FromStatus(http.StatusNotFound, "gone", nil), http.StatusNotFound},
		{FromStatus(http.StatusConflict, "closed", nil), http.StatusConflict},
		{Upstream("down", nil), http.StatusBadGateway},
		{&AppError{Code: ErrCodeTimeout}, http.StatusGatewayTimeout},
		{errors.New("plain"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, HTTPStatus(tt.err), "HTTPStatus(%v)", tt.err)
	}
}
