package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	jmespath "github.com/jmespath-community/go-jmespath"

	apperrors "github.com/target/banksim-ui/internal/errors"
	"github.com/target/banksim-ui/internal/ports"
)

// DefaultMessageExpr picks the backend's error text from either envelope shape.
const DefaultMessageExpr = "message || error"

// Generic fallbacks shown when the backend gives no usable message.
const (
	MsgGenericFailure = "Something went wrong. Please try again."
	MsgLoginFailed    = "Login failed. Please check your email and password."

	// MsgSignupFailedPrefix precedes the backend's reason on a failed signup.
	MsgSignupFailedPrefix = "Signup Failed: "
)

// SignupFailure formats the message shown when signup is rejected.
func (m *MessageExtractor) SignupFailure(err error) string {
	return MsgSignupFailedPrefix + m.Message(err, MsgGenericFailure)
}

// MessageExtractor turns errors into text that is safe to show on a page.
type MessageExtractor struct {
	expr string
}

// NewMessageExtractor compiles expr once to validate it. An empty expr selects
// DefaultMessageExpr.
func NewMessageExtractor(expr string) (*MessageExtractor, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		expr = DefaultMessageExpr
	}
	if _, err := jmespath.Compile(expr); err != nil {
		return nil, fmt.Errorf("compile message expression %q: %w", expr, err)
	}
	return &MessageExtractor{expr: expr}, nil
}

// MustNewMessageExtractor is NewMessageExtractor for expressions known at compile time.
func MustNewMessageExtractor(expr string) *MessageExtractor {
	m, err := NewMessageExtractor(expr)
	if err != nil {
		panic(err)
	}
	return m
}

// Expr returns the expression in use.
func (m *MessageExtractor) Expr() string { return m.expr }

// Message returns the server's message for err when one is present, the
// message of a local AppError, or fallback. Transport errors never leak.
func (m *MessageExtractor) Message(err error, fallback string) string {
	if err == nil {
		return ""
	}

	var be ports.BackendError
	if errors.As(err, &be) {
		if msg, ok := m.FromBody(be.ResponseBody()); ok {
			return msg
		}
		return fallback
	}

	var ae *apperrors.AppError
	if errors.As(err, &ae) && strings.TrimSpace(ae.Message) != "" {
		return ae.Message
	}
	return fallback
}

// FromBody evaluates the expression against a JSON body.
func (m *MessageExtractor) FromBody(body []byte) (string, bool) {
	if len(body) == 0 {
		return "", false
	}
	var data any
	if err := json.Unmarshal(body, &data); err != nil {
		return "", false
	}
	res, err := jmespath.Search(m.expr, data)
	if err != nil {
		return "", false
	}
	s, ok := res.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return "", false
	}
	return s, true
}
