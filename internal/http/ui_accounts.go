package httpx

import (
	"context"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/target/banksim-ui/internal/domain/banking"
	"github.com/target/banksim-ui/internal/ports"
)

// Account page messages.
const (
	MsgAccountsFetchFailed   = "Failed to fetch accounts"
	MsgAccountOpened         = "Account opened successfully!"
	MsgAccountOpenFailed     = "Failed to open account."
	MsgOpeningBalanceInvalid = "Opening balance must be a number."
	MsgOwnAccountRequired    = "Please enter one of your account numbers."
	MsgAccountNotOwned       = "That account number does not belong to you."
	MsgAccountCloseFailed    = "Failed to close account"
	MsgAccountClosed         = "Account closed successfully."
)

// Account page tabs.
const (
	opAll   = "all"
	opOpen  = "open"
	opClose = "close"
	opFind  = "find"
)

//nolint:gochecknoglobals // read-only page metadata
var accountsMeta = PageMeta{Title: "My Accounts - BankSim", PageTitle: "My Accounts", CurrentPage: PageAccounts}

// accountsView carries the outcome of an account action into the page.
type accountsView struct {
	Op      string
	Success string
	Error   string
	Form    *banking.OpenAccountRequest
	Number  string
}

// Accounts lists the customer's accounts.
// GET /accounts.
func (h *UIHandlers) Accounts(w http.ResponseWriter, r *http.Request) {
	api, ok := h.api(w, r)
	if !ok {
		return
	}
	op := r.URL.Query().Get("op")
	if op == "" {
		op = opAll
	}
	h.renderAccounts(w, r, api, accountsView{Op: op})
}

// OpenAccount opens an account for the signed-in customer.
// POST /accounts/open.
func (h *UIHandlers) OpenAccount(w http.ResponseWriter, r *http.Request) {
	api, ok := h.api(w, r)
	if !ok {
		return
	}

	req := banking.OpenAccountRequest{
		AccountType: r.FormValue("accountType"),
		AccountName: r.FormValue("accountName"),
		IFSCCode:    r.FormValue("ifscCode"),
	}
	req.Normalize()

	view := accountsView{Op: opOpen, Form: &req}
	if raw := formValue(r, "balance"); raw != "" {
		bal, err := decimal.NewFromString(raw)
		if err != nil {
			view.Error = MsgOpeningBalanceInvalid
			h.renderAccounts(w, r, api, view)
			return
		}
		req.Balance = bal
	}

	if _, err := api.OpenAccount(backendContext(r), req); err != nil {
		h.logger().InfoContext(r.Context(), "open account failed", "error", err)
		view.Error = h.message(err, MsgAccountOpenFailed)
		h.renderAccounts(w, r, api, view)
		return
	}

	triggerToast(w, MsgAccountOpened, "success")
	h.renderAccounts(w, r, api, accountsView{Op: opAll, Success: MsgAccountOpened})
}

// CloseAccount closes one of the customer's own accounts. Ownership is checked
// against the customer's account list before the backend is asked.
// POST /accounts/close.
func (h *UIHandlers) CloseAccount(w http.ResponseWriter, r *http.Request) {
	api, ok := h.api(w, r)
	if !ok {
		return
	}
	ctx := backendContext(r)
	number := formValue(r, "accountNumber")
	view := accountsView{Op: opClose, Number: number}

	if number == "" {
		view.Error = MsgOwnAccountRequired
		h.renderAccounts(w, r, api, view)
		return
	}

	mine, err := api.MyAccounts(ctx)
	if err != nil {
		view.Error = h.message(err, MsgAccountsFetchFailed)
		h.renderAccounts(w, r, api, view)
		return
	}
	if !ownsAccount(mine, number) {
		view.Error = MsgAccountNotOwned
		h.renderAccounts(w, r, api, view)
		return
	}

	msg, err := api.CloseAccount(ctx, number)
	if err != nil {
		h.logger().InfoContext(r.Context(), "close account failed", "account_number", number, "error", err)
		view.Error = h.message(err, MsgAccountCloseFailed)
		h.renderAccounts(w, r, api, view)
		return
	}
	if strings.TrimSpace(msg) == "" {
		msg = MsgAccountClosed
	}
	triggerToast(w, msg, "success")
	h.renderAccounts(w, r, api, accountsView{Op: opAll, Success: msg})
}

func ownsAccount(accounts []banking.Account, number string) bool {
	for _, a := range accounts {
		if a.AccountNumber == number {
			return true
		}
	}
	return false
}

func (h *UIHandlers) renderAccounts(w http.ResponseWriter, r *http.Request, api ports.BankingAPI, view accountsView) {
	form := view.Form
	if form == nil {
		form = &banking.OpenAccountRequest{AccountType: banking.AccountTypeSavings}
	}
	h.Page(w, r, PageSpec{
		Meta: accountsMeta,
		Fetch: func(ctx context.Context, data map[string]any) error {
			data["Op"] = view.Op
			data["Form"] = form
			data["AccountNumber"] = view.Number
			data["AccountTypes"] = []string{banking.AccountTypeSavings, banking.AccountTypeCurrent}
			if view.Success != "" {
				data["SuccessMessage"] = view.Success
			}
			if view.Error != "" {
				data["ErrorMessage"] = view.Error
			}

			accounts, err := api.MyAccounts(ctx)
			if err != nil {
				if view.Error == "" {
					data["ErrorMessage"] = h.message(err, MsgAccountsFetchFailed)
				}
				data["Accounts"] = []banking.Account{}
				return nil
			}
			data["Accounts"] = accounts
			return nil
		},
	})
}
