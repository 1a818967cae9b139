package dependent_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/lopay/lopay/core"
	"github.com/lopay/lopay/core/dependent"
	"github.com/lopay/lopay/core/plan"
	"github.com/lopay/lopay/core/school"
	"github.com/lopay/lopay/core/user"
	ledgerdb "github.com/lopay/lopay/storage/ledger"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

func newService(t *testing.T) (*dependent.Service, school.School, user.Identity) {
	t.Helper()
	clock := fixedClock{now: time.Date(2024, 9, 2, 10, 0, 0, 0, time.UTC)}
	db := ledgerdb.Open(core.NewIDGenerator(clock))

	schRepo := ledgerdb.NewSchoolRepository(db)
	svc := dependent.NewService(ledgerdb.NewDependentRepository(db), schRepo, clock)

	sch, err := schRepo.CreateSchool(school.School{Name: "Sunrise Academy"})
	assert.NoError(t, err)
	ident := user.Identity{Role: user.RoleGuardian, UserID: "grd-1"}
	return svc, sch, ident
}

func TestEnroll(t *testing.T) {
	svc, sch, ident := newService(t)

	dep, p, err := svc.Enroll(ident, dependent.NewDependent{
		Name:     "Adaeze",
		SchoolID: sch.ID,
		Grade:    "JSS 2",
		TotalFee: decimal.NewFromInt(6000),
		Cadence:  plan.CadenceWeekly,
	})
	assert.NoError(t, err)

	assert.Equal(t, "grd-1", dep.OwnerID)
	assert.Equal(t, sch.ID, dep.SchoolID)
	assert.Equal(t, sch.Name, dep.SchoolName)
	assert.Equal(t, dependent.StatusOnTrack, dep.Status)
	assert.True(t, dep.PaidAmount.IsZero())
	assert.True(t, dep.NextDueDate.IsZero(), "no due date until the activation payment clears")
	assert.True(t, dep.NextInstallmentAmount.Equal(decimal.NewFromInt(375)))

	assert.Equal(t, 12, p.InstallmentCount)
	assert.True(t, p.InitialActivationPayment.Equal(decimal.NewFromInt(1650)))
}

func TestEnrollUnknownSchool(t *testing.T) {
	svc, _, ident := newService(t)

	_, _, err := svc.Enroll(ident, dependent.NewDependent{
		Name:     "Adaeze",
		SchoolID: "nope",
		TotalFee: decimal.NewFromInt(6000),
		Cadence:  plan.CadenceWeekly,
	})
	assert.True(t, core.IsNotFound(err))
}

func TestEnrollRequiresScopedIdentity(t *testing.T) {
	svc, sch, _ := newService(t)

	unscoped := user.Identity{Role: user.RoleAdministrator}
	_, _, err := svc.Enroll(unscoped, dependent.NewDependent{
		Name:     "Adaeze",
		SchoolID: sch.ID,
		TotalFee: decimal.NewFromInt(6000),
		Cadence:  plan.CadenceWeekly,
	})
	assert.True(t, core.IsPermissionDenied(err))
}

func TestStatusFor(t *testing.T) {
	now := time.Date(2024, 9, 2, 10, 0, 0, 0, time.UTC)
	fee := decimal.NewFromInt(6000)

	tests := []struct {
		name string
		dep  dependent.Dependent
		want dependent.Status
	}{
		{
			name: "paid in full",
			dep:  dependent.Dependent{TotalFee: fee, PaidAmount: fee},
			want: dependent.StatusCompleted,
		},
		{
			name: "no due date scheduled",
			dep:  dependent.Dependent{TotalFee: fee},
			want: dependent.StatusOnTrack,
		},
		{
			name: "due date far out",
			dep:  dependent.Dependent{TotalFee: fee, NextDueDate: now.Add(20 * 24 * time.Hour)},
			want: dependent.StatusOnTrack,
		},
		{
			name: "due within the week",
			dep:  dependent.Dependent{TotalFee: fee, NextDueDate: now.Add(3 * 24 * time.Hour)},
			want: dependent.StatusDueSoon,
		},
		{
			name: "due date missed",
			dep:  dependent.Dependent{TotalFee: fee, NextDueDate: now.Add(-time.Hour)},
			want: dependent.StatusOverdue,
		},
		{
			name: "overpaid still completed",
			dep:  dependent.Dependent{TotalFee: fee, PaidAmount: fee.Add(decimal.NewFromInt(1)), NextDueDate: now.Add(-time.Hour)},
			want: dependent.StatusCompleted,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, dependent.StatusFor(tt.dep, now))
		})
	}
}

func TestRefreshStatuses(t *testing.T) {
	clock := fixedClock{now: time.Date(2024, 9, 2, 10, 0, 0, 0, time.UTC)}
	db := ledgerdb.Open(core.NewIDGenerator(clock))
	repo := ledgerdb.NewDependentRepository(db)
	svc := dependent.NewService(repo, ledgerdb.NewSchoolRepository(db), clock)

	onTrack, err := repo.CreateDependent(dependent.Dependent{
		OwnerID: "grd-1", Name: "Adaeze", TotalFee: decimal.NewFromInt(6000),
		NextDueDate: clock.now.Add(20 * 24 * time.Hour), Status: dependent.StatusOnTrack,
	})
	assert.NoError(t, err)
	slipped, err := repo.CreateDependent(dependent.Dependent{
		OwnerID: "grd-1", Name: "Chidi", TotalFee: decimal.NewFromInt(6000),
		NextDueDate: clock.now.Add(-24 * time.Hour), Status: dependent.StatusOnTrack,
	})
	assert.NoError(t, err)

	changed, err := svc.RefreshStatuses()
	assert.NoError(t, err)
	assert.Len(t, changed, 1)
	assert.Equal(t, slipped.ID, changed[0].ID)
	assert.Equal(t, dependent.StatusOverdue, changed[0].Status)

	// the untouched dependent keeps its status and timestamps
	dep, err := repo.GetDependentByID(onTrack.ID)
	assert.NoError(t, err)
	assert.Equal(t, dependent.StatusOnTrack, dep.Status)

	// a second run finds nothing to do
	changed, err = svc.RefreshStatuses()
	assert.NoError(t, err)
	assert.Empty(t, changed)
}

func TestDelete(t *testing.T) {
	svc, sch, ident := newService(t)

	dep, _, err := svc.Enroll(ident, dependent.NewDependent{
		Name:     "Adaeze",
		SchoolID: sch.ID,
		Grade:    "JSS 2",
		TotalFee: decimal.NewFromInt(6000),
		Cadence:  plan.CadenceMonthly,
	})
	assert.NoError(t, err)

	stranger := user.Identity{Role: user.RoleGuardian, UserID: "grd-2"}
	assert.True(t, core.IsPermissionDenied(svc.Delete(stranger, dep.ID)))

	assert.NoError(t, svc.Delete(ident, dep.ID))
	_, err = svc.GetByID(dep.ID)
	assert.True(t, core.IsNotFound(err))
}
