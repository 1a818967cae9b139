package payment

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/lopay/lopay/core"
)

// Status is a transaction's verification state. A transaction is created
// Pending and transitions exactly once to Successful or Failed; both are
// terminal. Retries create a new transaction.
type Status string

const (
	StatusPending    Status = "Pending"
	StatusSuccessful Status = "Successful"
	StatusFailed     Status = "Failed"
)

type Transaction struct {
	ID          string `json:"id"`
	DependentID string `json:"dependent_id"`
	PayerID     string `json:"payer_id"`
	// DependentName/SchoolName are denormalized for history and reporting.
	DependentName string          `json:"dependent_name"`
	SchoolID      string          `json:"school_id"`
	SchoolName    string          `json:"school_name"`
	Amount        decimal.Decimal `json:"amount"`
	// ReceiptURL is an opaque reference to the payer's proof of transfer;
	// never validated or fetched.
	ReceiptURL string    `json:"receipt_url,omitempty"`
	Status     Status    `json:"status"`
	CreatedAt  time.Time `json:"created_at"` // UTC
}

// SubmitPayment contains information needed to submit a payment claim.
type SubmitPayment struct {
	DependentID string          `json:"dependent_id" validate:"required"`
	Amount      decimal.Decimal `json:"amount"`
	ReceiptURL  string          `json:"receipt_url" validate:"omitempty,url"`
}

func (sp *SubmitPayment) Validate(validate *validator.Validate) error {
	if err := validate.Struct(sp); err != nil {
		return err
	}
	if !sp.Amount.IsPositive() {
		return core.NewInvalidInputError("amount must be positive")
	}
	return nil
}
