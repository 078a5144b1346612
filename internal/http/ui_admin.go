package httpx

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/target/banksim-ui/internal/domain/auth"
	"github.com/target/banksim-ui/internal/domain/banking"
	"github.com/target/banksim-ui/internal/ports"
)

// Admin page messages.
const (
	MsgAccountNumberNeeded   = "Please enter an Account Number."
	MsgAccountNotFound       = "Account not found"
	MsgCustomersFetchFailed  = "Failed to fetch customers"
	MsgCustomerIDRequired    = "Please enter a Customer ID."
	MsgCustomerNotFound      = "Customer not found!"
	MsgCustomerFetchFailed   = "Error fetching customer"
	MsgCustomerUpdateFailed  = "Failed to update customer"
	MsgCustomerUpdated       = "Customer updated successfully!"
	MsgTransactionsFailed    = "Failed to fetch transactions"
	MsgTransactionIDRequired = "Please enter a Transaction ID."
	MsgTransactionNotFound   = "Transaction not found."
	MsgTransactionFetchError = "Error fetching transaction"
)

// Admin lookup kinds.
const (
	lookupDetails = "details"
	lookupBalance = "balance"
	opUpdate      = "update"
	opExport      = "export"
)

//nolint:gochecknoglobals // read-only page metadata
var (
	adminAccountsMeta = PageMeta{
		Title: "Accounts - BankSim Admin", PageTitle: "All Accounts", CurrentPage: PageAdminAccounts,
	}
	adminCustomersMeta = PageMeta{
		Title: "Customers - BankSim Admin", PageTitle: "Customers", CurrentPage: PageAdminCustomers,
	}
	adminTransactionsMeta = PageMeta{
		Title: "Transactions - BankSim Admin", PageTitle: "All Transactions", CurrentPage: PageAdminTransactions,
	}
)

// AdminAccounts lists every account, or looks one up when op=find.
// GET /admin/accounts?op=find&lookup=details|balance&accountNumber=.
func (h *UIHandlers) AdminAccounts(w http.ResponseWriter, r *http.Request) {
	api, ok := h.api(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	op := q.Get("op")
	if op == "" {
		op = opAll
	}
	number := strings.TrimSpace(q.Get("accountNumber"))
	lookup := q.Get("lookup")
	if lookup == "" {
		lookup = lookupDetails
	}

	h.Page(w, r, PageSpec{
		Meta: adminAccountsMeta,
		Fetch: func(ctx context.Context, data map[string]any) error {
			data["Op"] = op
			data["Lookup"] = lookup
			data["AccountNumber"] = number

			if op != opFind {
				h.fetchAllAccounts(ctx, api, data)
				return nil
			}
			if !q.Has("accountNumber") {
				return nil
			}
			if number == "" {
				data["ErrorMessage"] = MsgAccountNumberNeeded
				return nil
			}
			h.lookupAccount(ctx, api, lookup, number, data)
			return nil
		},
	})
}

func (h *UIHandlers) fetchAllAccounts(ctx context.Context, api ports.BankingAPI, data map[string]any) {
	accounts, err := api.AllAccounts(ctx)
	if err != nil {
		if _, set := data["ErrorMessage"]; !set {
			data["ErrorMessage"] = h.message(err, MsgAccountsFetchFailed)
		}
		accounts = []banking.Account{}
	}
	data["Accounts"] = accounts
}

func (h *UIHandlers) lookupAccount(ctx context.Context, api ports.BankingAPI, lookup, number string, data map[string]any) {
	if lookup == lookupBalance {
		bal, err := api.AccountBalance(ctx, number)
		if err != nil {
			data["ErrorMessage"] = h.message(err, MsgAccountNotFound)
			return
		}
		data["Balance"] = bal
		return
	}
	acct, err := api.AccountDetails(ctx, number)
	if err != nil {
		data["ErrorMessage"] = h.message(err, MsgAccountNotFound)
		return
	}
	data["Account"] = acct
}

// AdminCloseAccount closes any account.
// POST /admin/accounts/close.
func (h *UIHandlers) AdminCloseAccount(w http.ResponseWriter, r *http.Request) {
	api, ok := h.api(w, r)
	if !ok {
		return
	}
	number := formValue(r, "accountNumber")
	b := NewTemplateData(r, adminAccountsMeta).WithOp(opAll)

	switch {
	case number == "":
		b.WithError(MsgAccountNumberNeeded)
	default:
		msg, err := api.CloseAccount(backendContext(r), number)
		if err != nil {
			h.logger().InfoContext(r.Context(), "admin close account failed", "account_number", number, "error", err)
			b.WithError(h.message(err, MsgAccountCloseFailed))
			break
		}
		if strings.TrimSpace(msg) == "" {
			msg = MsgAccountClosed
		}
		triggerToast(w, msg, "success")
		b.WithSuccess(msg)
	}

	data := b.Build()
	h.fetchAllAccounts(backendContext(r), api, data)
	h.renderPage(w, r, data)
}

// AdminCustomers lists every customer, or looks one up when op=find.
// GET /admin/customers?op=find&customerId=.
func (h *UIHandlers) AdminCustomers(w http.ResponseWriter, r *http.Request) {
	api, ok := h.api(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	op := q.Get("op")
	if op == "" {
		op = opAll
	}
	rawID := strings.TrimSpace(q.Get("customerId"))

	h.Page(w, r, PageSpec{
		Meta: adminCustomersMeta,
		Fetch: func(ctx context.Context, data map[string]any) error {
			data["Op"] = op
			data["CustomerID"] = rawID

			switch op {
			case opFind, opUpdate:
				if !q.Has("customerId") {
					return nil
				}
				if rawID == "" {
					data["ErrorMessage"] = MsgCustomerIDRequired
					return nil
				}
				if c, msg := h.lookupCustomer(ctx, api, rawID); msg != "" {
					data["ErrorMessage"] = msg
				} else {
					data["Customer"] = c
				}
			default:
				customers, err := api.AllCustomers(ctx)
				if err != nil {
					data["ErrorMessage"] = h.message(err, MsgCustomersFetchFailed)
					customers = []banking.Customer{}
				}
				data["Customers"] = customers
			}
			return nil
		},
	})
}

// lookupCustomer returns the customer or the message to show instead.
func (h *UIHandlers) lookupCustomer(ctx context.Context, api ports.BankingAPI, rawID string) (banking.Customer, string) {
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil || id <= 0 {
		return banking.Customer{}, MsgCustomerNotFound
	}
	c, err := api.CustomerByID(ctx, id)
	if err != nil {
		return banking.Customer{}, h.message(err, MsgCustomerFetchFailed)
	}
	if c.CustomerID == 0 {
		return banking.Customer{}, MsgCustomerNotFound
	}
	return c, ""
}

// AdminUpdateCustomer saves a customer's editable fields. When the admin edits
// their own record the cached identity is patched too.
// POST /admin/customers/update.
func (h *UIHandlers) AdminUpdateCustomer(w http.ResponseWriter, r *http.Request) {
	api, ok := h.api(w, r)
	if !ok {
		return
	}
	rawID := formValue(r, "customerId")
	b := NewTemplateData(r, adminCustomersMeta).WithOp(opUpdate).With("CustomerID", rawID)

	id, err := strconv.ParseInt(rawID, 10, 64)
	if rawID == "" || err != nil {
		h.renderPage(w, r, b.WithError(MsgCustomerIDRequired).Build())
		return
	}

	update := banking.CustomerUpdate{
		CustomerID:  id,
		Name:        formValue(r, "name"),
		PhoneNumber: formValue(r, "phoneNumber"),
		Email:       formValue(r, "email"),
		Address:     formValue(r, "address"),
		Status:      strings.ToUpper(formValue(r, "status")),
	}
	b.With("Customer", banking.Customer{
		CustomerID:  update.CustomerID,
		Name:        update.Name,
		PhoneNumber: update.PhoneNumber,
		Email:       update.Email,
		Address:     update.Address,
		Status:      update.Status,
	})

	res, err := api.UpdateCustomer(backendContext(r), update)
	if err != nil {
		h.logger().InfoContext(r.Context(), "update customer failed", "customer_id", id, "error", err)
		h.renderPage(w, r, b.WithError(h.message(err, MsgCustomerUpdateFailed)).Build())
		return
	}

	if v, ok := VisitorFromContext(r.Context()); ok {
		if me := v.Session.Snapshot().Identity; me != nil && me.ID == id {
			if _, err := v.Session.UpdateIdentity(patchFromUpdate(update)); err != nil {
				h.logger().DebugContext(r.Context(), "identity patch skipped", "error", err)
			}
		}
	}

	msg := res.Message
	if strings.TrimSpace(msg) == "" {
		msg = MsgCustomerUpdated
	}
	triggerToast(w, msg, "success")
	h.renderPage(w, r, b.WithSuccess(msg).Build())
}

func patchFromUpdate(u banking.CustomerUpdate) auth.IdentityPatch {
	patch := auth.IdentityPatch{
		Name:        &u.Name,
		PhoneNumber: &u.PhoneNumber,
		Email:       &u.Email,
		Address:     &u.Address,
	}
	if u.Status != "" {
		patch.Status = &u.Status
	}
	return patch
}

// AdminTransactions lists every transaction, looks one up, or shows the
// export form.
// GET /admin/transactions?op=find&transactionId=.
func (h *UIHandlers) AdminTransactions(w http.ResponseWriter, r *http.Request) {
	api, ok := h.api(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	op := q.Get("op")
	if op == "" {
		op = opAll
	}
	rawID := strings.TrimSpace(q.Get("transactionId"))

	h.Page(w, r, PageSpec{
		Meta: adminTransactionsMeta,
		Fetch: func(ctx context.Context, data map[string]any) error {
			data["Op"] = op
			data["TransactionID"] = rawID
			data["AccountNumber"] = strings.TrimSpace(q.Get("accountNumber"))

			switch op {
			case opExport:
				return nil
			case opFind:
				if !q.Has("transactionId") {
					return nil
				}
				if rawID == "" {
					data["ErrorMessage"] = MsgTransactionIDRequired
					return nil
				}
				if tx, msg := h.lookupTransaction(ctx, api, rawID); msg != "" {
					data["ErrorMessage"] = msg
				} else {
					data["Transaction"] = tx
				}
			default:
				txs, err := api.AllTransactions(ctx)
				if err != nil {
					data["ErrorMessage"] = h.message(err, MsgTransactionsFailed)
					txs = []banking.Transaction{}
				}
				data["Transactions"] = txs
			}
			return nil
		},
	})
}

func (h *UIHandlers) lookupTransaction(ctx context.Context, api ports.BankingAPI, rawID string) (banking.Transaction, string) {
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil || id <= 0 {
		return banking.Transaction{}, MsgTransactionNotFound
	}
	tx, err := api.TransactionByID(ctx, id)
	if err != nil {
		return banking.Transaction{}, h.message(err, MsgTransactionFetchError)
	}
	if tx.TransactionID == 0 {
		return banking.Transaction{}, MsgTransactionNotFound
	}
	return tx, ""
}
