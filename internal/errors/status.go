package errors

import (
	"context"
	"errors"
	"net/http"
)

// FromStatus maps a backend HTTP status to an AppError carrying message.
// Unknown 4xx statuses map to Validation and 5xx statuses map to Upstream.
func FromStatus(status int, message string, cause error) *AppError {
	code := ErrCodeUpstream
	switch {
	case status == http.StatusUnauthorized:
		code = ErrCodeUnauthorized
	case status == http.StatusForbidden:
		code = ErrCodeForbidden
	case status == http.StatusNotFound:
		code = ErrCodeNotFound
	case status == http.StatusConflict:
		code = ErrCodeConflict
	case status >= 400 && status < 500:
		code = ErrCodeValidation
	}
	return &AppError{Code: code, Message: message, Cause: cause}
}

// FromContext maps context termination errors to Timeout or Canceled.
// It returns nil for any other error.
func FromContext(err error) *AppError {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return &AppError{Code: ErrCodeTimeout, Message: "request timed out", Cause: err}
	case errors.Is(err, context.Canceled):
		return &AppError{Code: ErrCodeCanceled, Message: "request canceled", Cause: err}
	default:
		return nil
	}
}

// statusCarrier is implemented by backend client errors that kept the
// response status.
type statusCarrier interface {
	HTTPStatus() int
}

// StatusOf returns the backend response status carried by err, if any.
func StatusOf(err error) (int, bool) {
	var sc statusCarrier
	if errors.As(err, &sc) && sc.HTTPStatus() > 0 {
		return sc.HTTPStatus(), true
	}
	return 0, false
}

// FromBackend classifies an error returned by a backend call. AppErrors pass
// through, answered requests map by status, context errors map to Timeout or
// Canceled, and anything else means the backend could not be reached.
func FromBackend(err error) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	if status, ok := StatusOf(err); ok {
		return FromStatus(status, http.StatusText(status), err)
	}
	if ctxErr := FromContext(err); ctxErr != nil {
		return ctxErr
	}
	return Upstream("banking backend unreachable", err)
}

// HTTPStatus returns the response status the UI should use for err.
func HTTPStatus(err error) int {
	switch GetCode(err) {
	case ErrCodeValidation:
		return http.StatusBadRequest
	case ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrCodeForbidden:
		return http.StatusForbidden
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeConflict:
		return http.StatusConflict
	case ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case ErrCodeUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
