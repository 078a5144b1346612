package banking

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"

	apperrors "github.com/target/banksim-ui/internal/errors"
)

// Messages shown for locally rejected transfers.
const (
	MsgTransferMissingFields = "Please fill in all required fields (Sender, Receiver, Amount, PIN)."
	MsgTransferAmountInvalid = "Amount must be a number."
	MsgTransferAmountNonPos  = "Amount must be positive."
	MsgTransferSameAccount   = "Sender and Receiver accounts cannot be the same."
)

// TransferRequest moves money between two accounts. Only its shape is checked
// locally; PIN, ownership and funds are decided by the backend.
type TransferRequest struct {
	SenderAccountNumber   string          `json:"senderAccountNumber"`
	ReceiverAccountNumber string          `json:"receiverAccountNumber"`
	Amount                decimal.Decimal `json:"amount"`
	PIN                   string          `json:"pin"`
	Description           string          `json:"description,omitempty"`
	TransactionMode       string          `json:"transactionMode"`
}

// TransferForm is the raw form input before parsing.
type TransferForm struct {
	Sender      string
	Receiver    string
	Amount      string
	PIN         string
	Description string
	Mode        string
}

// Parse validates the form and builds a TransferRequest. Errors are
// Validation AppErrors whose message is safe to show to the user.
func (f TransferForm) Parse() (TransferRequest, error) {
	sender := strings.TrimSpace(f.Sender)
	receiver := strings.TrimSpace(f.Receiver)
	rawAmount := strings.TrimSpace(f.Amount)
	pin := strings.TrimSpace(f.PIN)

	if sender == "" || receiver == "" || rawAmount == "" || pin == "" {
		return TransferRequest{}, apperrors.Validation(MsgTransferMissingFields)
	}

	amount, err := decimal.NewFromString(rawAmount)
	if err != nil {
		return TransferRequest{}, apperrors.ValidationField("amount", MsgTransferAmountInvalid)
	}

	req := TransferRequest{
		SenderAccountNumber:   sender,
		ReceiverAccountNumber: receiver,
		Amount:                amount,
		PIN:                   pin,
		Description:           strings.TrimSpace(f.Description),
		TransactionMode:       strings.ToUpper(strings.TrimSpace(f.Mode)),
	}
	if req.TransactionMode == "" {
		req.TransactionMode = ModeOnline
	}
	if err := req.Validate(); err != nil {
		return TransferRequest{}, err
	}
	return req, nil
}

// Validate checks the request shape: amount positive and distinct accounts.
func (r TransferRequest) Validate() error {
	if r.SenderAccountNumber == "" || r.ReceiverAccountNumber == "" || r.PIN == "" {
		return apperrors.Validation(MsgTransferMissingFields)
	}
	if !r.Amount.IsPositive() {
		return apperrors.ValidationField("amount", MsgTransferAmountNonPos)
	}
	if r.SenderAccountNumber == r.ReceiverAccountNumber {
		return apperrors.ValidationField("receiverAccountNumber", MsgTransferSameAccount)
	}
	return nil
}

// MarshalJSON sends the amount as a JSON number; the backend rejects quoted amounts.
func (r TransferRequest) MarshalJSON() ([]byte, error) {
	type wire TransferRequest
	return json.Marshal(struct {
		wire
		Amount json.Number `json:"amount"`
	}{wire: wire(r), Amount: json.Number(r.Amount.String())})
}
