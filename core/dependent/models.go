package dependent

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/lopay/lopay/core"
	"github.com/lopay/lopay/core/plan"
)

// Status is a dependent's payment-progress status. Completed is derived from
// the balance; the other three reflect due-date proximity, recomputed on
// approval and by the periodic status refresh.
type Status string

const (
	StatusOnTrack   Status = "On Track"
	StatusDueSoon   Status = "Due Soon"
	StatusOverdue   Status = "Overdue"
	StatusCompleted Status = "Completed"
)

// Dependent is an enrolled child/ward and their fee plan.
type Dependent struct {
	ID      string `json:"id"`
	OwnerID string `json:"owner_id"` // the guardian's user id
	Name    string `json:"name"`
	// Dependents link to schools by id; SchoolName is denormalized for
	// reporting only and never used for scoping.
	SchoolID              string          `json:"school_id"`
	SchoolName            string          `json:"school_name"`
	Grade                 string          `json:"grade"`
	Cadence               plan.Cadence    `json:"cadence"`
	TotalFee              decimal.Decimal `json:"total_fee"`
	PaidAmount            decimal.Decimal `json:"paid_amount"`
	NextInstallmentAmount decimal.Decimal `json:"next_installment_amount"`
	NextDueDate           time.Time       `json:"next_due_date"` // zero = none scheduled
	Status                Status          `json:"status"`
	CreatedAt             time.Time       `json:"created_at"` // UTC
	UpdatedAt             time.Time       `json:"updated_at"` // UTC
}

// Completed reports the balance invariant: status is Completed exactly when
// the paid amount has reached the total fee.
func (d Dependent) Completed() bool {
	return d.PaidAmount.GreaterThanOrEqual(d.TotalFee)
}

// DueSoonWindow is how close a next due date must be before the plan is
// flagged as Due Soon.
const DueSoonWindow = 7 * 24 * time.Hour

// StatusFor derives the payment-progress status at the given instant.
func StatusFor(d Dependent, now time.Time) Status {
	switch {
	case d.Completed():
		return StatusCompleted
	case d.NextDueDate.IsZero():
		return StatusOnTrack
	case now.After(d.NextDueDate):
		return StatusOverdue
	case now.Add(DueSoonWindow).After(d.NextDueDate):
		return StatusDueSoon
	default:
		return StatusOnTrack
	}
}

// NewDependent contains information needed to enroll a dependent.
type NewDependent struct {
	Name     string          `json:"name" validate:"required"`
	SchoolID string          `json:"school_id" validate:"required"`
	Grade    string          `json:"grade" validate:"required"`
	TotalFee decimal.Decimal `json:"total_fee"`
	Cadence  plan.Cadence    `json:"cadence"`
}

func (nd *NewDependent) Validate(validate *validator.Validate) error {
	nd.Name = core.CleanString(nd.Name)
	nd.Grade = core.CleanString(nd.Grade)

	if err := validate.Struct(nd); err != nil {
		return err
	}
	if nd.TotalFee.IsNegative() {
		return core.NewInvalidInputError("total fee cannot be negative")
	}
	if !nd.Cadence.Valid() {
		return core.NewInvalidInputError("cadence must be Weekly or Monthly")
	}
	return nil
}
