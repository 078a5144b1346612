package ports

// Package ports defines interfaces (hexagonal ports) between the UI services
// and their adapters. Implementations live in internal/adapters; orchestration
// in internal/service.

import (
	"context"
	"net/http"

	domainauth "github.com/target/banksim-ui/internal/domain/auth"
	"github.com/target/banksim-ui/internal/domain/banking"
)

// BankingAPI is the backend contract, one method per endpoint. Calls carry the
// visitor's backend session cookie implicitly. Failures are returned unmodified
// so callers can extract a user-facing message.
type BankingAPI interface {
	// WhoAmI returns the identity bound to the current backend session.
	WhoAmI(ctx context.Context) (domainauth.Identity, error)
	Login(ctx context.Context, email, password string) (domainauth.Identity, error)
	Signup(ctx context.Context, profile banking.SignupProfile) (domainauth.Identity, error)
	Logout(ctx context.Context) error

	OpenAccount(ctx context.Context, req banking.OpenAccountRequest) (banking.Account, error)
	MyAccounts(ctx context.Context) ([]banking.Account, error)
	// AllAccounts is admin scope.
	AllAccounts(ctx context.Context) ([]banking.Account, error)
	AccountDetails(ctx context.Context, accountNumber string) (banking.Account, error)
	AccountBalance(ctx context.Context, accountNumber string) (banking.Balance, error)
	// CloseAccount returns the backend's confirmation message.
	CloseAccount(ctx context.Context, accountNumber string) (string, error)

	CustomerByID(ctx context.Context, customerID int64) (banking.Customer, error)
	AllCustomers(ctx context.Context) ([]banking.Customer, error)
	UpdateCustomer(ctx context.Context, update banking.CustomerUpdate) (banking.UpdateResult, error)

	Transfer(ctx context.Context, req banking.TransferRequest) (banking.TransferResult, error)
	TransactionByID(ctx context.Context, transactionID int64) (banking.Transaction, error)
	AllTransactions(ctx context.Context) ([]banking.Transaction, error)

	// ExportCSV fetches the raw CSV export for one account.
	ExportCSV(ctx context.Context, accountNumber string) (banking.CSVPayload, error)
}

// VisitorClient is a BankingAPI bound to one visitor's backend cookies.
type VisitorClient interface {
	BankingAPI
	// Cookies returns the backend cookies currently held.
	Cookies() []*http.Cookie
	// RestoreCookies seeds the client with previously persisted cookies.
	RestoreCookies(cookies []*http.Cookie)
	// ClearCookies drops every backend cookie held.
	ClearCookies()
}

// BackendError is a non-2xx backend answer that still carries its raw body, so
// callers can pull a user-facing message out of it.
type BackendError interface {
	error
	HTTPStatus() int
	ResponseBody() []byte
}
