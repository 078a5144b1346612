// Package bank contains a hand-written in-memory banking backend for tests.
// It keeps just enough state to drive the UI end to end without codegen.
package bank

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"

	domainauth "github.com/target/banksim-ui/internal/domain/auth"
	"github.com/target/banksim-ui/internal/domain/banking"
	apperrors "github.com/target/banksim-ui/internal/errors"
	"github.com/target/banksim-ui/internal/ports"
)

var _ ports.VisitorClient = (*Fake)(nil)

// SessionCookie is the cookie name the fake hands out after login.
const SessionCookie = "JSESSIONID"

// User is a registered account holder.
type User struct {
	Password string
	Identity domainauth.Identity
}

// Fake is a stateful BankingAPI. Every method records its operation name and
// fails with the error registered through FailWith, if any.
type Fake struct {
	mu           sync.Mutex
	users        map[string]User
	session      *domainauth.Identity
	accounts     []banking.Account
	customers    []banking.Customer
	transactions []banking.Transaction
	csv          map[string]banking.CSVPayload
	errs         map[string]error
	gates        map[string]<-chan struct{}
	calls        []string
	nextUserID   int64
}

// NewFake returns an empty backend with nobody signed in.
func NewFake() *Fake {
	return &Fake{
		users:      make(map[string]User),
		csv:        make(map[string]banking.CSVPayload),
		errs:       make(map[string]error),
		gates:      make(map[string]<-chan struct{}),
		nextUserID: 100,
	}
}

// AddUser registers a user that can log in with email and password.
func (f *Fake) AddUser(password string, id domainauth.Identity) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[strings.ToLower(id.Email)] = User{Password: password, Identity: id}
}

// SignIn makes id the current backend session as if a cookie were already set.
func (f *Fake) SignIn(id domainauth.Identity) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[strings.ToLower(id.Email)]; !ok {
		f.users[strings.ToLower(id.Email)] = User{Identity: id}
	}
	f.session = &id
}

// SetAccounts replaces the account table.
func (f *Fake) SetAccounts(accounts ...banking.Account) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.accounts = append([]banking.Account(nil), accounts...)
}

// SetCustomers replaces the customer table.
func (f *Fake) SetCustomers(customers ...banking.Customer) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.customers = append([]banking.Customer(nil), customers...)
}

// SetTransactions replaces the transaction table.
func (f *Fake) SetTransactions(txns ...banking.Transaction) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.transactions = append([]banking.Transaction(nil), txns...)
}

// SetCSV registers the export returned for accountNumber.
func (f *Fake) SetCSV(accountNumber string, payload banking.CSVPayload) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.csv[accountNumber] = payload
}

// FailWith makes op return err until cleared with a nil error.
func (f *Fake) FailWith(op string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err == nil {
		delete(f.errs, op)
		return
	}
	f.errs[op] = err
}

// Gate blocks op until release is closed.
func (f *Fake) Gate(op string, release <-chan struct{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gates[op] = release
}

// Calls returns the operations invoked so far, in order.
func (f *Fake) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// CallCount returns how many times op was invoked.
func (f *Fake) CallCount(op string) int {
	n := 0
	for _, c := range f.Calls() {
		if c == op {
			n++
		}
	}
	return n
}

// Cookies returns the session cookie while someone is signed in.
func (f *Fake) Cookies() []*http.Cookie {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.session == nil {
		return nil
	}
	return []*http.Cookie{{Name: SessionCookie, Value: "fake-" + strconv.FormatInt(f.session.ID, 10)}}
}

// RestoreCookies resumes the session named by a previously issued cookie.
func (f *Fake) RestoreCookies(cookies []*http.Cookie) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range cookies {
		if c.Name != SessionCookie {
			continue
		}
		id, err := strconv.ParseInt(strings.TrimPrefix(c.Value, "fake-"), 10, 64)
		if err != nil {
			continue
		}
		for _, u := range f.users {
			if u.Identity.ID == id {
				identity := u.Identity
				f.session = &identity
			}
		}
	}
}

// ClearCookies forgets the session cookie. The backend session, if any,
// is left alone.
func (f *Fake) ClearCookies() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "ClearCookies")
	f.session = nil
}

// answered is how the real client reports a non-2xx backend reply.
func answered(status int, message string) error {
	return apperrors.FromStatus(status, message, nil)
}

// enter records op, waits on its gate and returns the registered error.
func (f *Fake) enter(ctx context.Context, op string) error {
	f.mu.Lock()
	f.calls = append(f.calls, op)
	gate := f.gates[op]
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	return f.errs[op]
}

func (f *Fake) requireSessionLocked() (*domainauth.Identity, error) {
	if f.session == nil {
		return nil, answered(http.StatusUnauthorized, "Unauthorized")
	}
	return f.session, nil
}

func (f *Fake) requireAdminLocked() error {
	id, err := f.requireSessionLocked()
	if err != nil {
		return err
	}
	if !id.Role.IsAdmin() {
		return answered(http.StatusForbidden, "Access denied")
	}
	return nil
}

func (f *Fake) WhoAmI(ctx context.Context) (domainauth.Identity, error) {
	if err := f.enter(ctx, "WhoAmI"); err != nil {
		return domainauth.Identity{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	id, err := f.requireSessionLocked()
	if err != nil {
		return domainauth.Identity{}, err
	}
	return *id, nil
}

func (f *Fake) Login(ctx context.Context, email, password string) (domainauth.Identity, error) {
	if err := f.enter(ctx, "Login"); err != nil {
		return domainauth.Identity{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[strings.ToLower(email)]
	if !ok || u.Password != password {
		return domainauth.Identity{}, answered(http.StatusUnauthorized, "Invalid email or password")
	}
	identity := u.Identity
	f.session = &identity
	return identity, nil
}

func (f *Fake) Signup(ctx context.Context, profile banking.SignupProfile) (domainauth.Identity, error) {
	if err := f.enter(ctx, "Signup"); err != nil {
		return domainauth.Identity{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	key := strings.ToLower(profile.Email)
	if _, exists := f.users[key]; exists {
		return domainauth.Identity{}, answered(http.StatusConflict, "Email already registered")
	}
	f.nextUserID++
	identity := domainauth.Identity{
		ID:          f.nextUserID,
		Name:        profile.Name,
		Email:       profile.Email,
		Role:        domainauth.RoleCustomer,
		PhoneNumber: profile.PhoneNumber,
		Address:     profile.Address,
		Status:      profile.Status,
		DOB:         profile.DOB,
	}
	f.users[key] = User{Password: profile.Password, Identity: identity}
	f.customers = append(f.customers, banking.Customer{
		CustomerID:  identity.ID,
		Name:        identity.Name,
		Email:       identity.Email,
		PhoneNumber: identity.PhoneNumber,
		Address:     identity.Address,
		Status:      identity.Status,
	})
	f.session = &identity
	return identity, nil
}

func (f *Fake) Logout(ctx context.Context) error {
	err := f.enter(ctx, "Logout")
	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		return err
	}
	f.session = nil
	return nil
}

func (f *Fake) OpenAccount(ctx context.Context, req banking.OpenAccountRequest) (banking.Account, error) {
	if err := f.enter(ctx, "OpenAccount"); err != nil {
		return banking.Account{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	id, err := f.requireSessionLocked()
	if err != nil {
		return banking.Account{}, err
	}
	acct := banking.Account{
		AccountID:     int64(len(f.accounts) + 1),
		CustomerID:    id.ID,
		Balance:       req.Balance,
		AccountType:   req.AccountType,
		AccountName:   req.AccountName,
		AccountNumber: fmt.Sprintf("ACC%06d", len(f.accounts)+1),
		Status:        "ACTIVE",
		IFSCCode:      req.IFSCCode,
	}
	f.accounts = append(f.accounts, acct)
	return acct, nil
}

func (f *Fake) MyAccounts(ctx context.Context) ([]banking.Account, error) {
	if err := f.enter(ctx, "MyAccounts"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	id, err := f.requireSessionLocked()
	if err != nil {
		return nil, err
	}
	var out []banking.Account
	for _, a := range f.accounts {
		if a.CustomerID == id.ID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *Fake) AllAccounts(ctx context.Context) ([]banking.Account, error) {
	if err := f.enter(ctx, "AllAccounts"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.requireAdminLocked(); err != nil {
		return nil, err
	}
	return append([]banking.Account(nil), f.accounts...), nil
}

func (f *Fake) findAccountLocked(number string) (int, error) {
	for i, a := range f.accounts {
		if a.AccountNumber == number {
			return i, nil
		}
	}
	return -1, answered(http.StatusNotFound, "Account not found")
}

func (f *Fake) AccountDetails(ctx context.Context, accountNumber string) (banking.Account, error) {
	if err := f.enter(ctx, "AccountDetails"); err != nil {
		return banking.Account{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, err := f.requireSessionLocked(); err != nil {
		return banking.Account{}, err
	}
	i, err := f.findAccountLocked(accountNumber)
	if err != nil {
		return banking.Account{}, err
	}
	return f.accounts[i], nil
}

func (f *Fake) AccountBalance(ctx context.Context, accountNumber string) (banking.Balance, error) {
	if err := f.enter(ctx, "AccountBalance"); err != nil {
		return banking.Balance{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, err := f.requireSessionLocked(); err != nil {
		return banking.Balance{}, err
	}
	i, err := f.findAccountLocked(accountNumber)
	if err != nil {
		return banking.Balance{}, err
	}
	return banking.Balance{AccountNumber: accountNumber, Balance: f.accounts[i].Balance}, nil
}

func (f *Fake) CloseAccount(ctx context.Context, accountNumber string) (string, error) {
	if err := f.enter(ctx, "CloseAccount"); err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, err := f.requireSessionLocked(); err != nil {
		return "", err
	}
	i, err := f.findAccountLocked(accountNumber)
	if err != nil {
		return "", err
	}
	f.accounts[i].Status = "CLOSED"
	return "Account closed successfully", nil
}

func (f *Fake) CustomerByID(ctx context.Context, customerID int64) (banking.Customer, error) {
	if err := f.enter(ctx, "CustomerByID"); err != nil {
		return banking.Customer{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, err := f.requireSessionLocked(); err != nil {
		return banking.Customer{}, err
	}
	for _, c := range f.customers {
		if c.CustomerID == customerID {
			return c, nil
		}
	}
	return banking.Customer{}, answered(http.StatusNotFound, "Customer not found")
}

func (f *Fake) AllCustomers(ctx context.Context) ([]banking.Customer, error) {
	if err := f.enter(ctx, "AllCustomers"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.requireAdminLocked(); err != nil {
		return nil, err
	}
	return append([]banking.Customer(nil), f.customers...), nil
}

func (f *Fake) UpdateCustomer(ctx context.Context, update banking.CustomerUpdate) (banking.UpdateResult, error) {
	if err := f.enter(ctx, "UpdateCustomer"); err != nil {
		return banking.UpdateResult{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, err := f.requireSessionLocked(); err != nil {
		return banking.UpdateResult{}, err
	}
	for i, c := range f.customers {
		if c.CustomerID != update.CustomerID {
			continue
		}
		c.Name = update.Name
		c.PhoneNumber = update.PhoneNumber
		c.Email = update.Email
		c.Address = update.Address
		if update.Status != "" {
			c.Status = update.Status
		}
		f.customers[i] = c
		return banking.UpdateResult{Message: "Customer updated successfully", Updated: true}, nil
	}
	return banking.UpdateResult{}, answered(http.StatusNotFound, "Customer not found")
}

func (f *Fake) Transfer(ctx context.Context, req banking.TransferRequest) (banking.TransferResult, error) {
	if err := f.enter(ctx, "Transfer"); err != nil {
		return banking.TransferResult{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, err := f.requireSessionLocked(); err != nil {
		return banking.TransferResult{}, err
	}
	from, err := f.findAccountLocked(req.SenderAccountNumber)
	if err != nil {
		return banking.TransferResult{}, err
	}
	to, err := f.findAccountLocked(req.ReceiverAccountNumber)
	if err != nil {
		return banking.TransferResult{}, err
	}
	if f.accounts[from].Balance.LessThan(req.Amount) {
		return banking.TransferResult{}, answered(http.StatusBadRequest, "Insufficient balance")
	}
	f.accounts[from].Balance = f.accounts[from].Balance.Sub(req.Amount)
	f.accounts[to].Balance = f.accounts[to].Balance.Add(req.Amount)
	txn := banking.Transaction{
		TransactionID:         int64(len(f.transactions) + 1),
		SenderAccountNumber:   req.SenderAccountNumber,
		ReceiverAccountNumber: req.ReceiverAccountNumber,
		Amount:                req.Amount,
		TransactionMode:       req.TransactionMode,
		Status:                "SUCCESS",
		Description:           req.Description,
	}
	f.transactions = append(f.transactions, txn)
	return banking.TransferResult{Message: "Transfer successful", Transaction: &txn}, nil
}

func (f *Fake) TransactionByID(ctx context.Context, transactionID int64) (banking.Transaction, error) {
	if err := f.enter(ctx, "TransactionByID"); err != nil {
		return banking.Transaction{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, err := f.requireSessionLocked(); err != nil {
		return banking.Transaction{}, err
	}
	for _, t := range f.transactions {
		if t.TransactionID == transactionID {
			return t, nil
		}
	}
	return banking.Transaction{}, answered(http.StatusNotFound, "Transaction not found")
}

func (f *Fake) AllTransactions(ctx context.Context) ([]banking.Transaction, error) {
	if err := f.enter(ctx, "AllTransactions"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.requireAdminLocked(); err != nil {
		return nil, err
	}
	return append([]banking.Transaction(nil), f.transactions...), nil
}

func (f *Fake) ExportCSV(ctx context.Context, accountNumber string) (banking.CSVPayload, error) {
	if err := f.enter(ctx, "ExportCSV"); err != nil {
		return banking.CSVPayload{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, err := f.requireSessionLocked(); err != nil {
		return banking.CSVPayload{}, err
	}
	payload, ok := f.csv[accountNumber]
	if !ok {
		return banking.CSVPayload{}, answered(http.StatusNotFound, "No transactions found for account")
	}
	return payload, nil
}
