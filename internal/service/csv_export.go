package service

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/target/banksim-ui/internal/ports"
)

// CSV export messages.
const (
	MsgAccountNumberRequired = "Please enter an account number."
	MsgCSVDownloadFailed     = "Failed to download CSV."
)

// CSVMessageExpr reads only the structured message of a failed export.
const CSVMessageExpr = "message"

// ExportError is the only error an export returns. Message is always fit for
// display; Cause is kept for logging and is not unwrapped.
type ExportError struct {
	Message string
	Cause   error
}

func (e *ExportError) Error() string { return e.Message }

// IsExportError reports whether err is an *ExportError.
func IsExportError(err error) bool {
	var ee *ExportError
	return errors.As(err, &ee)
}

// CSVFile is a downloaded export.
type CSVFile struct {
	Filename string
	Data     []byte
}

// CSVExporterOptions groups dependencies for CSVExporter.
type CSVExporterOptions struct {
	API      ports.BankingAPI  // Required
	Messages *MessageExtractor // Optional: defaults to CSVMessageExpr
	Logger   *slog.Logger      // Optional
}

// CSVExporter downloads per-account transaction exports.
type CSVExporter struct {
	api      ports.BankingAPI
	messages *MessageExtractor
	logger   *slog.Logger
}

// NewCSVExporter constructs a CSVExporter.
func NewCSVExporter(opts CSVExporterOptions) (*CSVExporter, error) {
	if opts.API == nil {
		return nil, errors.New("BankingAPI is required")
	}
	msgs := opts.Messages
	if msgs == nil {
		msgs = MustNewMessageExtractor(CSVMessageExpr)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVExporter{api: opts.API, messages: msgs, logger: logger.With("component", "csv_export")}, nil
}

// Export fetches the CSV for accountNumber. An empty account number fails
// without contacting the backend.
func (e *CSVExporter) Export(ctx context.Context, accountNumber string) (CSVFile, error) {
	accountNumber = strings.TrimSpace(accountNumber)
	if accountNumber == "" {
		return CSVFile{}, &ExportError{Message: MsgAccountNumberRequired}
	}

	payload, err := e.api.ExportCSV(context.WithoutCancel(ctx), accountNumber)
	if err != nil {
		e.logger.InfoContext(ctx, "csv export failed", "account_number", accountNumber, "error", err)
		return CSVFile{}, &ExportError{
			Message: e.messages.Message(err, MsgCSVDownloadFailed),
			Cause:   err,
		}
	}

	return CSVFile{
		Filename: FilenameFromDisposition(payload.ContentDisposition, accountNumber),
		Data:     payload.Data,
	}, nil
}

// SaveTo exports the CSV and writes it into dir under the suggested filename.
// The data goes to a temp file first, which is always removed. An existing
// file with that name is kept and a numeric suffix is added instead.
func (e *CSVExporter) SaveTo(ctx context.Context, dir, accountNumber string) (string, error) {
	file, err := e.Export(ctx, accountNumber)
	if err != nil {
		return "", err
	}

	tmp, err := os.CreateTemp(dir, ".banksim-export-*.csv")
	if err != nil {
		return "", &ExportError{Message: MsgCSVDownloadFailed, Cause: err}
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(file.Data); err != nil {
		_ = tmp.Close()
		return "", &ExportError{Message: MsgCSVDownloadFailed, Cause: err}
	}
	if err := tmp.Close(); err != nil {
		return "", &ExportError{Message: MsgCSVDownloadFailed, Cause: err}
	}

	dest, err := linkUnique(tmpName, dir, file.Filename)
	if err != nil {
		return "", &ExportError{Message: MsgCSVDownloadFailed, Cause: err}
	}
	return dest, nil
}

// maxSaveAttempts bounds how many suffixed names SaveTo tries.
const maxSaveAttempts = 20

// linkUnique links src into dir as name, or name-1, name-2, ... when taken.
// Existing files are never replaced.
func linkUnique(src, dir, name string) (string, error) {
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	for i := range maxSaveAttempts {
		candidate := name
		if i > 0 {
			candidate = fmt.Sprintf("%s-%d%s", stem, i, ext)
		}
		dest := filepath.Join(dir, candidate)
		err := os.Link(src, dest)
		if err == nil {
			return dest, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return "", fmt.Errorf("save export: %w", err)
		}
	}
	return "", fmt.Errorf("save export: %s and %d numbered variants already exist", name, maxSaveAttempts-1)
}

var dispositionFilename = regexp.MustCompile(`filename[^;=\n]*=("[^"]*"|'[^']*'|[^;\n]*)`)

// FilenameFromDisposition returns the attachment filename from a
// Content-Disposition header, or transactions_<accountNumber>.csv.
func FilenameFromDisposition(disposition, accountNumber string) string {
	fallback := "transactions_" + accountNumber + ".csv"
	if !strings.Contains(disposition, "attachment") {
		return fallback
	}
	m := dispositionFilename.FindStringSubmatch(disposition)
	if m == nil {
		return fallback
	}
	name := strings.TrimSpace(m[1])
	name = strings.Trim(name, `"'`)
	// Never let a header pick a directory.
	name = filepath.Base(strings.ReplaceAll(name, `\`, "/"))
	if name == "" || name == "." || name == "/" {
		return fallback
	}
	return name
}
