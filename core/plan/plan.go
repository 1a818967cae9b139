// Package plan turns a total school fee into a deposit, platform fee and
// installment schedule. Everything here is pure; rounding for display is the
// presentation layer's concern.
package plan

import (
	"github.com/shopspring/decimal"

	"github.com/lopay/lopay/core"
)

// Cadence is the installment frequency.
type Cadence string

const (
	CadenceWeekly  Cadence = "Weekly"
	CadenceMonthly Cadence = "Monthly"
)

func (c Cadence) Valid() bool {
	return c == CadenceWeekly || c == CadenceMonthly
}

// Installments is the number of scheduled payments for the remaining balance:
// 12 weekly or 3 monthly.
func (c Cadence) Installments() int {
	if c == CadenceWeekly {
		return 12
	}
	return 3
}

var (
	depositRate     = decimal.NewFromFloat(0.25)  // 25% initial deposit
	platformFeeRate = decimal.NewFromFloat(0.025) // 2.5% of tuition
	remainingRate   = decimal.NewFromFloat(0.75)
)

// Plan is the computed installment plan for a total fee.
type Plan struct {
	Cadence           Cadence         `json:"cadence"`
	DepositAmount     decimal.Decimal `json:"deposit_amount"`
	PlatformFee       decimal.Decimal `json:"platform_fee"`
	InstallmentAmount decimal.Decimal `json:"installment_amount"`
	InstallmentCount  int             `json:"installment_count"`
	// InitialActivationPayment is the amount the first transaction must
	// carry: deposit + platform fee.
	InitialActivationPayment decimal.Decimal `json:"initial_activation_payment"`
	GrandTotal               decimal.Decimal `json:"grand_total"`
}

// Compute splits totalFee into a 25% deposit, a 2.5% platform fee and the
// remaining 75% spread over the cadence's installments. A zero fee yields an
// all-zero plan; a negative fee is an input error.
func Compute(totalFee decimal.Decimal, cadence Cadence) (Plan, error) {
	if totalFee.IsNegative() {
		return Plan{}, core.NewInvalidInputError("total fee cannot be negative")
	}
	if !cadence.Valid() {
		return Plan{}, core.NewInvalidInputError("cadence must be Weekly or Monthly")
	}

	count := cadence.Installments()
	deposit := totalFee.Mul(depositRate)
	fee := totalFee.Mul(platformFeeRate)
	remaining := totalFee.Mul(remainingRate)

	return Plan{
		Cadence:                  cadence,
		DepositAmount:            deposit,
		PlatformFee:              fee,
		InstallmentAmount:        remaining.Div(decimal.NewFromInt(int64(count))),
		InstallmentCount:         count,
		InitialActivationPayment: deposit.Add(fee),
		GrandTotal:               totalFee.Add(fee),
	}, nil
}
