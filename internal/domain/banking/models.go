package banking

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// Account types accepted by the backend when opening an account.
const (
	AccountTypeSavings = "SAVINGS"
	AccountTypeCurrent = "CURRENT"
)

// Transfer modes. ONLINE is the default.
const (
	ModeOnline = "ONLINE"
	ModeNEFT   = "NEFT"
	ModeIMPS   = "IMPS"
	ModeRTGS   = "RTGS"
)

// Account is a bank account as reported by the backend.
type Account struct {
	AccountID     int64           `json:"accountId"`
	CustomerID    int64           `json:"customerId"`
	CreatedAt     Stamp           `json:"createdAt"`
	ModifiedAt    Stamp           `json:"modifiedAt"`
	Balance       decimal.Decimal `json:"balance"`
	AccountType   string          `json:"accountType"`
	AccountName   string          `json:"accountName"`
	AccountNumber string          `json:"accountNumber"`
	Status        string          `json:"status"`
	IFSCCode      string          `json:"ifscCode"`
}

// IsClosed reports whether the backend marked the account closed.
func (a Account) IsClosed() bool {
	return strings.EqualFold(a.Status, "CLOSED")
}

// Balance is the response of a balance check.
type Balance struct {
	AccountNumber string          `json:"accountNumber"`
	Balance       decimal.Decimal `json:"balance"`
}

// Customer is a bank customer record.
type Customer struct {
	CustomerID   int64  `json:"customerId"`
	Name         string `json:"name"`
	PhoneNumber  string `json:"phoneNumber"`
	Email        string `json:"email"`
	Address      string `json:"address"`
	CustomerPin  string `json:"customerPin,omitempty"`
	AadharNumber string `json:"aadharNumber,omitempty"`
	DOB          Stamp  `json:"dob"`
	Status       string `json:"status"`
	Role         string `json:"role,omitempty"`
}

// Transaction is a completed or attempted transfer.
type Transaction struct {
	TransactionID         int64           `json:"transactionId"`
	SenderAccountNumber   string          `json:"senderAccountNumber"`
	ReceiverAccountNumber string          `json:"receiverAccountNumber"`
	Amount                decimal.Decimal `json:"amount"`
	TransactionMode       string          `json:"transactionMode"`
	Status                string          `json:"status"`
	TransactionTime       Stamp           `json:"transactionTime"`
	Description           string          `json:"description"`
}

// SignupProfile is the full registration payload, password included.
type SignupProfile struct {
	Name         string `json:"name"`
	PhoneNumber  string `json:"phoneNumber"`
	Email        string `json:"email"`
	Address      string `json:"address"`
	CustomerPin  string `json:"customerPin"`
	AadharNumber string `json:"aadharNumber"`
	DOB          string `json:"dob"`
	Status       string `json:"status"`
	Password     string `json:"password"`
}

// Normalize trims fields and uppercases the status the way the signup form does.
func (p *SignupProfile) Normalize() {
	p.Name = strings.TrimSpace(p.Name)
	p.PhoneNumber = strings.TrimSpace(p.PhoneNumber)
	p.Email = strings.TrimSpace(p.Email)
	p.Address = strings.TrimSpace(p.Address)
	p.AadharNumber = strings.TrimSpace(p.AadharNumber)
	p.DOB = strings.TrimSpace(p.DOB)
	p.Status = strings.ToUpper(strings.TrimSpace(p.Status))
	if p.Status == "" {
		p.Status = "ACTIVE"
	}
}

// OpenAccountRequest opens a new account for the current customer.
type OpenAccountRequest struct {
	AccountType string          `json:"accountType"`
	AccountName string          `json:"accountName"`
	Balance     decimal.Decimal `json:"balance"`
	IFSCCode    string          `json:"ifscCode"`
}

// Normalize applies form defaults.
func (r *OpenAccountRequest) Normalize() {
	r.AccountType = strings.ToUpper(strings.TrimSpace(r.AccountType))
	if r.AccountType == "" {
		r.AccountType = AccountTypeSavings
	}
	r.AccountName = strings.TrimSpace(r.AccountName)
	r.IFSCCode = strings.ToUpper(strings.TrimSpace(r.IFSCCode))
}

// MarshalJSON sends the opening balance as a JSON number.
func (r OpenAccountRequest) MarshalJSON() ([]byte, error) {
	type wire OpenAccountRequest
	return json.Marshal(struct {
		wire
		Balance json.Number `json:"balance"`
	}{wire: wire(r), Balance: json.Number(r.Balance.String())})
}

// CustomerUpdate is the body of a customer update. The backend replaces the
// editable fields of the customer identified by CustomerID.
type CustomerUpdate struct {
	CustomerID  int64  `json:"customerId"`
	Name        string `json:"name"`
	PhoneNumber string `json:"phoneNumber"`
	Email       string `json:"email"`
	Address     string `json:"address"`
	Status      string `json:"status,omitempty"`
}

// UpdateResult reports the outcome of a customer update.
type UpdateResult struct {
	Message string `json:"message"`
	Updated bool   `json:"updated"`
}

// TransferResult is the backend acknowledgement of a transfer.
type TransferResult struct {
	Message     string       `json:"message"`
	Transaction *Transaction `json:"transaction"`
}

// CSVPayload is a raw CSV export and the disposition header it came with.
type CSVPayload struct {
	Data               []byte
	ContentDisposition string
}
