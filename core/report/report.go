// Package report computes the dashboard rollups over already-scoped
// collections: totals for the platform administrator and per-school
// breakdowns for bursars.
package report

import (
	"github.com/shopspring/decimal"

	"github.com/lopay/lopay/core/dependent"
	"github.com/lopay/lopay/core/payment"
	"github.com/lopay/lopay/core/school"
)

type SchoolBreakdown struct {
	School school.School `json:"school"`
	// Collected is the sum of successful transactions for the school.
	Collected decimal.Decimal `json:"collected"`
	// TotalStudents is the baseline headcount plus enrolled dependents.
	TotalStudents int `json:"total_students"`
}

type Summary struct {
	TotalCollected   decimal.Decimal   `json:"total_collected"`
	PendingApprovals int               `json:"pending_approvals"`
	TotalStudents    int               `json:"total_students"`
	Schools          []SchoolBreakdown `json:"schools,omitempty"`
}

// Summarize rolls up the given collections. Callers pass collections already
// filtered through the scope package, so the same function serves the
// platform and the single-school dashboards.
func Summarize(schools []school.School, deps []dependent.Dependent, txs []payment.Transaction) Summary {
	sum := Summary{TotalCollected: decimal.Zero}

	collectedBySchool := make(map[string]decimal.Decimal, len(schools))
	for _, tx := range txs {
		switch tx.Status {
		case payment.StatusSuccessful:
			sum.TotalCollected = sum.TotalCollected.Add(tx.Amount)
			collectedBySchool[tx.SchoolID] = collectedBySchool[tx.SchoolID].Add(tx.Amount)
		case payment.StatusPending:
			sum.PendingApprovals++
		}
	}

	enrolledBySchool := make(map[string]int, len(schools))
	for _, dep := range deps {
		enrolledBySchool[dep.SchoolID]++
	}

	for _, sch := range schools {
		total := sch.StudentCount + enrolledBySchool[sch.ID]
		sum.TotalStudents += total
		sum.Schools = append(sum.Schools, SchoolBreakdown{
			School:        sch,
			Collected:     collectedBySchool[sch.ID],
			TotalStudents: total,
		})
	}
	return sum
}
