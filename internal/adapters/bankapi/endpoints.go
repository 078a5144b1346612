package bankapi

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	domainauth "github.com/target/banksim-ui/internal/domain/auth"
	"github.com/target/banksim-ui/internal/domain/banking"
	"github.com/target/banksim-ui/internal/ports"
)

var _ ports.BankingAPI = (*Client)(nil)

// ErrNoIdentity is returned when an auth endpoint answers 2xx without a user.
var ErrNoIdentity = errors.New("bankapi: response carried no user")

type userEnvelope struct {
	Message string               `json:"message"`
	User    *domainauth.Identity `json:"user"`
}

type messageEnvelope struct {
	Message string `json:"message"`
}

type accountEnvelope struct {
	Account banking.Account `json:"account"`
}

type accountsEnvelope struct {
	Accounts []banking.Account `json:"accounts"`
}

type customerEnvelope struct {
	Customer banking.Customer `json:"customer"`
}

type customersEnvelope struct {
	Customers []banking.Customer `json:"customers"`
}

type transactionEnvelope struct {
	Transaction banking.Transaction `json:"transaction"`
}

type transactionsEnvelope struct {
	Transactions []banking.Transaction `json:"transactions"`
}

func identityOf(env userEnvelope, err error) (domainauth.Identity, error) {
	if err != nil {
		return domainauth.Identity{}, err
	}
	if env.User == nil {
		return domainauth.Identity{}, ErrNoIdentity
	}
	return *env.User, nil
}

// WhoAmI calls GET /auth/me.
func (c *Client) WhoAmI(ctx context.Context) (domainauth.Identity, error) {
	return identityOf(call[userEnvelope](ctx, c, request{
		op: "whoami", method: http.MethodGet, path: "/auth/me",
	}))
}

// Login calls POST /auth/login.
func (c *Client) Login(ctx context.Context, email, password string) (domainauth.Identity, error) {
	return identityOf(call[userEnvelope](ctx, c, request{
		op: "login", method: http.MethodPost, path: "/auth/login",
		body: map[string]string{"email": email, "password": password},
	}))
}

// Signup calls POST /auth/signup.
func (c *Client) Signup(ctx context.Context, profile banking.SignupProfile) (domainauth.Identity, error) {
	return identityOf(call[userEnvelope](ctx, c, request{
		op: "signup", method: http.MethodPost, path: "/auth/signup", body: profile,
	}))
}

// Logout calls POST /auth/logout.
func (c *Client) Logout(ctx context.Context) error {
	_, err := c.do(ctx, request{op: "logout", method: http.MethodPost, path: "/auth/logout"})
	return err
}

// OpenAccount calls POST /account/open.
func (c *Client) OpenAccount(ctx context.Context, req banking.OpenAccountRequest) (banking.Account, error) {
	env, err := call[accountEnvelope](ctx, c, request{
		op: "open_account", method: http.MethodPost, path: "/account/open", body: req,
	})
	return env.Account, err
}

// MyAccounts calls GET /account/my-accounts.
func (c *Client) MyAccounts(ctx context.Context) ([]banking.Account, error) {
	env, err := call[accountsEnvelope](ctx, c, request{
		op: "my_accounts", method: http.MethodGet, path: "/account/my-accounts",
	})
	return env.Accounts, err
}

// AllAccounts calls GET /account/all.
func (c *Client) AllAccounts(ctx context.Context) ([]banking.Account, error) {
	env, err := call[accountsEnvelope](ctx, c, request{
		op: "all_accounts", method: http.MethodGet, path: "/account/all",
	})
	return env.Accounts, err
}

// AccountDetails calls GET /account/details. The backend answers with a bare account.
func (c *Client) AccountDetails(ctx context.Context, accountNumber string) (banking.Account, error) {
	return call[banking.Account](ctx, c, request{
		op: "account_details", method: http.MethodGet, path: "/account/details",
		query: url.Values{"accountNumber": {accountNumber}},
	})
}

// AccountBalance calls GET /account/balance.
func (c *Client) AccountBalance(ctx context.Context, accountNumber string) (banking.Balance, error) {
	return call[banking.Balance](ctx, c, request{
		op: "account_balance", method: http.MethodGet, path: "/account/balance",
		query: url.Values{"accountNumber": {accountNumber}},
	})
}

// CloseAccount calls PUT /account/close.
func (c *Client) CloseAccount(ctx context.Context, accountNumber string) (string, error) {
	env, err := call[messageEnvelope](ctx, c, request{
		op: "close_account", method: http.MethodPut, path: "/account/close",
		body: map[string]string{"accountNumber": accountNumber},
	})
	return env.Message, err
}

// CustomerByID calls GET /customer/getbyid.
func (c *Client) CustomerByID(ctx context.Context, customerID int64) (banking.Customer, error) {
	env, err := call[customerEnvelope](ctx, c, request{
		op: "customer_by_id", method: http.MethodGet, path: "/customer/getbyid",
		query: url.Values{"customerId": {strconv.FormatInt(customerID, 10)}},
	})
	return env.Customer, err
}

// AllCustomers calls GET /customer/all.
func (c *Client) AllCustomers(ctx context.Context) ([]banking.Customer, error) {
	env, err := call[customersEnvelope](ctx, c, request{
		op: "all_customers", method: http.MethodGet, path: "/customer/all",
	})
	return env.Customers, err
}

// UpdateCustomer calls PUT /customer/update.
func (c *Client) UpdateCustomer(ctx context.Context, update banking.CustomerUpdate) (banking.UpdateResult, error) {
	return call[banking.UpdateResult](ctx, c, request{
		op: "update_customer", method: http.MethodPut, path: "/customer/update", body: update,
	})
}

// Transfer calls POST /transaction/transfer.
func (c *Client) Transfer(ctx context.Context, req banking.TransferRequest) (banking.TransferResult, error) {
	return call[banking.TransferResult](ctx, c, request{
		op: "transfer", method: http.MethodPost, path: "/transaction/transfer", body: req,
	})
}

// TransactionByID calls GET /transaction/getById.
func (c *Client) TransactionByID(ctx context.Context, transactionID int64) (banking.Transaction, error) {
	env, err := call[transactionEnvelope](ctx, c, request{
		op: "transaction_by_id", method: http.MethodGet, path: "/transaction/getById",
		query: url.Values{"transactionId": {strconv.FormatInt(transactionID, 10)}},
	})
	return env.Transaction, err
}

// AllTransactions calls GET /transaction/getAll.
func (c *Client) AllTransactions(ctx context.Context) ([]banking.Transaction, error) {
	env, err := call[transactionsEnvelope](ctx, c, request{
		op: "all_transactions", method: http.MethodGet, path: "/transaction/getAll",
	})
	return env.Transactions, err
}

// ExportCSV calls GET /transaction/getByAccount/csv and returns the raw bytes.
func (c *Client) ExportCSV(ctx context.Context, accountNumber string) (banking.CSVPayload, error) {
	resp, err := c.do(ctx, request{
		op: "export_csv", method: http.MethodGet, path: "/transaction/getByAccount/csv",
		query:  url.Values{"accountNumber": {accountNumber}},
		accept: "text/csv, application/json",
	})
	if err != nil {
		return banking.CSVPayload{}, err
	}
	return banking.CSVPayload{
		Data:               resp.body,
		ContentDisposition: resp.header.Get("Content-Disposition"),
	}, nil
}
