package report

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/lopay/lopay/core/dependent"
	"github.com/lopay/lopay/core/payment"
	"github.com/lopay/lopay/core/school"
)

func TestSummarize(t *testing.T) {
	schools := []school.School{
		{ID: "sch-1", Name: "Sunrise Academy", StudentCount: 100},
		{ID: "sch-2", Name: "Hillcrest College", StudentCount: 50},
	}
	deps := []dependent.Dependent{
		{ID: "dep-1", SchoolID: "sch-1"},
		{ID: "dep-2", SchoolID: "sch-1"},
		{ID: "dep-3", SchoolID: "sch-2"},
	}
	txs := []payment.Transaction{
		{SchoolID: "sch-1", Amount: decimal.NewFromInt(1650), Status: payment.StatusSuccessful},
		{SchoolID: "sch-1", Amount: decimal.NewFromInt(375), Status: payment.StatusSuccessful},
		{SchoolID: "sch-2", Amount: decimal.NewFromInt(2000), Status: payment.StatusPending},
		{SchoolID: "sch-2", Amount: decimal.NewFromInt(500), Status: payment.StatusFailed},
	}

	sum := Summarize(schools, deps, txs)

	assert.True(t, sum.TotalCollected.Equal(decimal.NewFromInt(2025)), "failed and pending claims never count as collected")
	assert.Equal(t, 1, sum.PendingApprovals)
	assert.Equal(t, 153, sum.TotalStudents)

	assert.Len(t, sum.Schools, 2)
	assert.True(t, sum.Schools[0].Collected.Equal(decimal.NewFromInt(2025)))
	assert.Equal(t, 102, sum.Schools[0].TotalStudents)
	assert.True(t, sum.Schools[1].Collected.IsZero())
	assert.Equal(t, 51, sum.Schools[1].TotalStudents)
}

func TestSummarizeEmpty(t *testing.T) {
	sum := Summarize(nil, nil, nil)
	assert.True(t, sum.TotalCollected.IsZero())
	assert.Zero(t, sum.PendingApprovals)
	assert.Zero(t, sum.TotalStudents)
	assert.Empty(t, sum.Schools)
}
