package config

import "strings"

const (
	defaultBackendBaseURL    = "http://localhost:8080/banksimulation/api"
	defaultErrorMessageExpr  = "message || error"
	defaultExportMessageExpr = "message"
)

// BackendConfig describes the remote banking backend that owns all business logic.
type BackendConfig struct {
	// BaseURL is the fixed API root every call is resolved against. It is read once at startup.
	BaseURL string `env:"BACKEND_BASE_URL" envDefault:"http://localhost:8080/banksimulation/api"`

	// ErrorMessageExpr is a JMESPath expression evaluated against JSON error bodies
	// to find the message shown to users.
	ErrorMessageExpr string `env:"BACKEND_ERROR_MESSAGE_EXPR" envDefault:"message || error"`

	// ExportMessageExpr is the JMESPath expression used for CSV export failures.
	ExportMessageExpr string `env:"BACKEND_EXPORT_MESSAGE_EXPR" envDefault:"message"`
}

// Sanitize trims the base URL and restores defaults for blank values.
func (b *BackendConfig) Sanitize() {
	b.BaseURL = strings.TrimRight(strings.TrimSpace(b.BaseURL), "/")
	if b.BaseURL == "" {
		b.BaseURL = defaultBackendBaseURL
	}
	if b.ErrorMessageExpr = strings.TrimSpace(b.ErrorMessageExpr); b.ErrorMessageExpr == "" {
		b.ErrorMessageExpr = defaultErrorMessageExpr
	}
	if b.ExportMessageExpr = strings.TrimSpace(b.ExportMessageExpr); b.ExportMessageExpr == "" {
		b.ExportMessageExpr = defaultExportMessageExpr
	}
}
