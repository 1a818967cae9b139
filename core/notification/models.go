package notification

import (
	"time"

	"github.com/shopspring/decimal"
)

type Category string

const (
	CategoryPayment      Category = "payment"
	CategoryDueAlert     Category = "due-alert"
	CategoryAnnouncement Category = "announcement"
)

type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

type Notification struct {
	ID string `json:"id"`
	// UserID is the target; empty means broadcast (visible to every guardian
	// and to administrators).
	UserID    string    `json:"user_id,omitempty"`
	Category  Category  `json:"category"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Severity  Severity  `json:"severity"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"` // UTC
}

// DueAlert carries the facts of an upcoming or missed installment. Plain
// fields keep this package independent of the dependent package.
type DueAlert struct {
	OwnerID       string
	DependentName string
	Amount        decimal.Decimal
	DueDate       time.Time
	Overdue       bool
}

// PaymentEvent carries the facts the fan-out needs about a decided payment.
// Plain fields keep this package independent of the payment package.
type PaymentEvent struct {
	PayerID       string
	DependentName string
	SchoolID      string
	SchoolName    string
	Amount        decimal.Decimal
	// FirstPayment is true when the dependent's paid amount was zero before
	// this event; the guardian notification is then framed as activation.
	FirstPayment bool
}
