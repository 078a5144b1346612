package httpx

import (
	"context"
	"errors"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/target/banksim-ui/internal/domain/banking"
	apperrors "github.com/target/banksim-ui/internal/errors"
	"github.com/target/banksim-ui/internal/ports"
	"github.com/target/banksim-ui/internal/service"
)

// Transfer messages.
const (
	MsgTransferSuccessful = "Transfer successful!"
	MsgTransferFailed     = "Transfer failed. Please check details and try again."
)

const opTransfer = "transfer"

//nolint:gochecknoglobals // read-only page metadata
var transactionsMeta = PageMeta{
	Title: "Transactions - BankSim", PageTitle: "Transactions", CurrentPage: PageTransactions,
}

// transferView carries a transfer attempt back into the page.
type transferView struct {
	Op          string
	Form        banking.TransferForm
	Success     string
	Error       string
	// InvalidField names the form input a local check rejected.
	InvalidField string
	Transaction  *banking.Transaction
}

// Transactions renders the transfer and export forms.
// GET /transactions.
func (h *UIHandlers) Transactions(w http.ResponseWriter, r *http.Request) {
	api, ok := h.api(w, r)
	if !ok {
		return
	}
	op := r.URL.Query().Get("op")
	if op == "" {
		op = opTransfer
	}
	h.renderTransactions(w, r, api, transferView{
		Op:   op,
		Form: banking.TransferForm{Mode: banking.ModeOnline},
	})
}

// Transfer validates the form shape locally and submits it. PIN, ownership
// and funds are the backend's call.
// POST /transactions/transfer.
func (h *UIHandlers) Transfer(w http.ResponseWriter, r *http.Request) {
	api, ok := h.api(w, r)
	if !ok {
		return
	}

	form := banking.TransferForm{
		Sender:      r.FormValue("senderAccountNumber"),
		Receiver:    r.FormValue("receiverAccountNumber"),
		Amount:      r.FormValue("amount"),
		PIN:         r.FormValue("pin"),
		Description: r.FormValue("description"),
		Mode:        r.FormValue("transactionMode"),
	}
	view := transferView{Op: opTransfer, Form: form}
	// Never echo the PIN back into the page.
	view.Form.PIN = ""

	req, err := form.Parse()
	if err != nil {
		view.Error = h.message(err, MsgTransferFailed)
		view.InvalidField = apperrors.GetField(err)
		h.renderTransactions(w, r, api, view)
		return
	}

	res, err := api.Transfer(backendContext(r), req)
	if err != nil {
		h.logger().InfoContext(r.Context(), "transfer failed",
			"sender", req.SenderAccountNumber,
			"receiver", req.ReceiverAccountNumber,
			"error", err,
		)
		view.Error = h.message(err, MsgTransferFailed)
		h.renderTransactions(w, r, api, view)
		return
	}

	msg := res.Message
	if strings.TrimSpace(msg) == "" {
		msg = MsgTransferSuccessful
	}
	triggerToast(w, msg, "success")
	h.renderTransactions(w, r, api, transferView{
		Op:          opTransfer,
		Form:        banking.TransferForm{Mode: banking.ModeOnline},
		Success:     msg,
		Transaction: res.Transaction,
	})
}

func (h *UIHandlers) renderTransactions(w http.ResponseWriter, r *http.Request, api ports.BankingAPI, view transferView) {
	h.Page(w, r, PageSpec{
		Meta: transactionsMeta,
		Fetch: func(ctx context.Context, data map[string]any) error {
			data["Op"] = view.Op
			data["Form"] = view.Form
			data["InvalidField"] = view.InvalidField
			data["Modes"] = []string{banking.ModeOnline, banking.ModeNEFT, banking.ModeIMPS, banking.ModeRTGS}
			if view.Success != "" {
				data["SuccessMessage"] = view.Success
			}
			if view.Error != "" {
				data["ErrorMessage"] = view.Error
			}
			if view.Transaction != nil {
				data["Transaction"] = view.Transaction
			}
			// The sender picker is a convenience; the form still accepts typed numbers.
			if accounts, err := api.MyAccounts(ctx); err == nil {
				data["Accounts"] = accounts
			}
			return nil
		},
	})
}

// ExportCSV streams the transaction export for an account as a download. On
// failure the page that hosts the export form is rendered with the message.
// GET /transactions/export?accountNumber= and /admin/transactions/export?accountNumber=.
func (h *UIHandlers) ExportCSV(w http.ResponseWriter, r *http.Request) {
	api, ok := h.api(w, r)
	if !ok {
		return
	}

	exporter, err := service.NewCSVExporter(service.CSVExporterOptions{
		API:      api,
		Messages: h.csvMessages(),
		Logger:   h.logger(),
	})
	if err != nil {
		h.logger().ErrorContext(r.Context(), "csv exporter unavailable", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	number := r.URL.Query().Get("accountNumber")
	file, err := exporter.Export(backendContext(r), number)
	if err != nil {
		h.renderExportFailure(w, r, strings.TrimSpace(number), err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": file.Filename}))
	w.Header().Set("Content-Length", strconv.Itoa(len(file.Data)))
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	if _, err := w.Write(file.Data); err != nil {
		h.logger().DebugContext(r.Context(), "csv write failed", "error", err)
	}
}

func (h *UIHandlers) renderExportFailure(w http.ResponseWriter, r *http.Request, number string, err error) {
	msg := service.MsgCSVDownloadFailed
	var ee *service.ExportError
	if errors.As(err, &ee) {
		msg = ee.Message
	}

	meta := transactionsMeta
	if strings.HasPrefix(r.URL.Path, "/admin/") {
		meta = adminTransactionsMeta
	}
	data := NewTemplateData(r, meta).
		WithOp(opExport).
		WithError(msg).
		With("AccountNumber", number).
		With("Form", banking.TransferForm{Mode: banking.ModeOnline}).
		With("InvalidField", "").
		Build()
	h.renderPage(w, r, data)
}
