package plan

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/lopay/lopay/core"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestCompute(t *testing.T) {
	tests := []struct {
		name           string
		totalFee       decimal.Decimal
		cadence        Cadence
		wantDeposit    string
		wantFee        string
		wantInstallmnt string
		wantCount      int
		wantActivation string
		wantGrandTotal string
	}{
		{
			name:           "6000 weekly",
			totalFee:       dec("6000"),
			cadence:        CadenceWeekly,
			wantDeposit:    "1500",
			wantFee:        "150",
			wantInstallmnt: "375",
			wantCount:      12,
			wantActivation: "1650",
			wantGrandTotal: "6150",
		},
		{
			name:           "6000 monthly",
			totalFee:       dec("6000"),
			cadence:        CadenceMonthly,
			wantDeposit:    "1500",
			wantFee:        "150",
			wantInstallmnt: "1500",
			wantCount:      3,
			wantActivation: "1650",
			wantGrandTotal: "6150",
		},
		{
			name:           "uneven split is not pre-rounded",
			totalFee:       dec("100"),
			cadence:        CadenceWeekly,
			wantDeposit:    "25",
			wantFee:        "2.5",
			wantInstallmnt: "6.25",
			wantCount:      12,
			wantActivation: "27.5",
			wantGrandTotal: "102.5",
		},
		{
			name:           "zero fee yields all-zero plan",
			totalFee:       decimal.Zero,
			cadence:        CadenceMonthly,
			wantDeposit:    "0",
			wantFee:        "0",
			wantInstallmnt: "0",
			wantCount:      3,
			wantActivation: "0",
			wantGrandTotal: "0",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Compute(tt.totalFee, tt.cadence)
			if err != nil {
				t.Fatalf("Compute() error = %v", err)
			}
			assert.True(t, p.DepositAmount.Equal(dec(tt.wantDeposit)), "deposit = %s", p.DepositAmount)
			assert.True(t, p.PlatformFee.Equal(dec(tt.wantFee)), "platform fee = %s", p.PlatformFee)
			assert.True(t, p.InstallmentAmount.Equal(dec(tt.wantInstallmnt)), "installment = %s", p.InstallmentAmount)
			assert.Equal(t, tt.wantCount, p.InstallmentCount)
			assert.True(t, p.InitialActivationPayment.Equal(dec(tt.wantActivation)), "activation = %s", p.InitialActivationPayment)
			assert.True(t, p.GrandTotal.Equal(dec(tt.wantGrandTotal)), "grand total = %s", p.GrandTotal)
		})
	}
}

func TestCompute_negativeFee(t *testing.T) {
	_, err := Compute(dec("-1"), CadenceWeekly)
	if !core.IsInvalidInput(err) {
		t.Errorf("Compute() error = %v; want InvalidInputError", err)
	}
}

func TestCompute_unknownCadence(t *testing.T) {
	_, err := Compute(dec("100"), Cadence("Daily"))
	if !core.IsInvalidInput(err) {
		t.Errorf("Compute() error = %v; want InvalidInputError", err)
	}
}
