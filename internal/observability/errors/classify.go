package errors

import (
	goerrors "errors"
	"net"
	"reflect"
	"strings"

	apperrors "github.com/target/banksim-ui/internal/errors"
)

// Classify returns a short error class suitable for tagging metrics and logs.
// Application error codes win, then backend statuses, then context and network
// failures. Otherwise it is the innermost concrete type name in snake_case-ish
// form.
func Classify(err error) string {
	if err == nil {
		return ""
	}
	if code := apperrors.GetCode(err); code != "" {
		return string(code)
	}
	if status, ok := apperrors.StatusOf(err); ok {
		return string(apperrors.FromStatus(status, "", err).Code)
	}
	if ctxErr := apperrors.FromContext(err); ctxErr != nil {
		return string(ctxErr.Code)
	}
	var netErr net.Error
	if goerrors.As(err, &netErr) {
		if netErr.Timeout() {
			return "timeout"
		}
		return "network"
	}

	for {
		unwrapped := goerrors.Unwrap(err)
		if unwrapped == nil {
			break
		}
		err = unwrapped
	}

	t := reflect.TypeOf(err)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return "unknown"
	}

	name := strings.ToLower(strings.ReplaceAll(t.String(), "*", ""))
	name = strings.ReplaceAll(name, ".", "_")
	if name == "" {
		return "unknown"
	}
	return name
}
