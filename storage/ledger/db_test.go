package ledgerdb_test

import (
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/lopay/lopay/core"
	"github.com/lopay/lopay/core/dependent"
	"github.com/lopay/lopay/core/payment"
	"github.com/lopay/lopay/core/school"
	"github.com/lopay/lopay/core/user"
	ledgerdb "github.com/lopay/lopay/storage/ledger"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type fixture struct {
	users user.Repository
	schs  school.Repository
	deps  dependent.Repository
	txs   payment.Repository

	guardian user.User
	sch      school.School
	dep      dependent.Dependent
	tx       payment.Transaction
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	clock := fixedClock{now: time.Date(2024, 9, 2, 10, 0, 0, 0, time.UTC)}
	db := ledgerdb.Open(core.NewIDGenerator(clock))

	f := &fixture{
		users: ledgerdb.NewUserRepository(db),
		schs:  ledgerdb.NewSchoolRepository(db),
		deps:  ledgerdb.NewDependentRepository(db),
		txs:   ledgerdb.NewTransactionRepository(db),
	}

	var err error
	f.guardian, err = f.users.CreateUser(user.User{Name: "Ngozi Okafor", Email: "ngozi@example.com", Role: user.RoleGuardian})
	assert.NoError(t, err)
	f.sch, err = f.schs.CreateSchool(school.School{Name: "Sunrise Academy"})
	assert.NoError(t, err)
	f.dep, err = f.deps.CreateDependent(dependent.Dependent{
		OwnerID:  f.guardian.ID,
		Name:     "Adaeze",
		SchoolID: f.sch.ID,
		TotalFee: decimal.NewFromInt(6000),
	})
	assert.NoError(t, err)
	f.tx, err = f.txs.CreateTransaction(payment.Transaction{
		DependentID: f.dep.ID,
		PayerID:     f.guardian.ID,
		SchoolID:    f.sch.ID,
		Amount:      decimal.NewFromInt(1650),
		Status:      payment.StatusPending,
	})
	assert.NoError(t, err)
	return f
}

func TestCreateAssignsDistinctIDs(t *testing.T) {
	f := newFixture(t)

	other, err := f.users.CreateUser(user.User{Name: "Musa Bello", Email: "musa@example.com", Role: user.RoleGuardian})
	assert.NoError(t, err)
	assert.NotEmpty(t, other.ID)
	assert.NotEqual(t, f.guardian.ID, other.ID)
}

func TestCreateTransactionRequiresDependent(t *testing.T) {
	f := newFixture(t)

	_, err := f.txs.CreateTransaction(payment.Transaction{DependentID: "nope"})
	assert.Equal(t, dependent.ErrNotFound, err)
}

func TestDeleteDependentCascade(t *testing.T) {
	f := newFixture(t)

	assert.NoError(t, f.deps.DeleteDependent(f.dep.ID))

	_, err := f.deps.GetDependentByID(f.dep.ID)
	assert.Equal(t, dependent.ErrNotFound, err)
	_, err = f.txs.GetTransactionByID(f.tx.ID)
	assert.Equal(t, payment.ErrNotFound, err)

	// the owner and the school survive
	_, err = f.users.GetUserByID(f.guardian.ID)
	assert.NoError(t, err)
	_, err = f.schs.GetSchoolByID(f.sch.ID)
	assert.NoError(t, err)
}

func TestDeleteUserCascade(t *testing.T) {
	f := newFixture(t)

	assert.NoError(t, f.users.DeleteUser(f.guardian.ID))

	_, err := f.deps.GetDependentByID(f.dep.ID)
	assert.Equal(t, dependent.ErrNotFound, err)
	_, err = f.txs.GetTransactionByID(f.tx.ID)
	assert.Equal(t, payment.ErrNotFound, err)
}

func TestDeleteSchoolCascade(t *testing.T) {
	f := newFixture(t)

	assert.NoError(t, f.schs.DeleteSchool(f.sch.ID))

	_, err := f.deps.GetDependentByID(f.dep.ID)
	assert.Equal(t, dependent.ErrNotFound, err)
	_, err = f.txs.GetTransactionByID(f.tx.ID)
	assert.Equal(t, payment.ErrNotFound, err)

	// the guardian account survives
	_, err = f.users.GetUserByID(f.guardian.ID)
	assert.NoError(t, err)
}

func TestDeleteAllSchools(t *testing.T) {
	f := newFixture(t)

	assert.NoError(t, f.schs.DeleteAllSchools())

	schools, err := f.schs.QueryAllSchools()
	assert.NoError(t, err)
	assert.Empty(t, schools)
	deps, err := f.deps.QueryAllDependents()
	assert.NoError(t, err)
	assert.Empty(t, deps)
}

func TestDecideTransactionAtomicity(t *testing.T) {
	f := newFixture(t)

	boom := errors.New("boom")
	_, _, err := f.txs.DecideTransaction(f.tx.ID, func(tx payment.Transaction, dep dependent.Dependent) (payment.Transaction, dependent.Dependent, error) {
		tx.Status = payment.StatusSuccessful
		dep.PaidAmount = dep.TotalFee
		return tx, dep, boom
	})
	assert.Equal(t, boom, err)

	// a failing decision leaves both records untouched
	tx, err := f.txs.GetTransactionByID(f.tx.ID)
	assert.NoError(t, err)
	assert.Equal(t, payment.StatusPending, tx.Status)
	dep, err := f.deps.GetDependentByID(f.dep.ID)
	assert.NoError(t, err)
	assert.True(t, dep.PaidAmount.IsZero())

	// a successful decision persists both writes
	tx, dep, err = f.txs.DecideTransaction(f.tx.ID, func(tx payment.Transaction, dep dependent.Dependent) (payment.Transaction, dependent.Dependent, error) {
		tx.Status = payment.StatusSuccessful
		dep.PaidAmount = dep.PaidAmount.Add(tx.Amount)
		return tx, dep, nil
	})
	assert.NoError(t, err)
	assert.Equal(t, payment.StatusSuccessful, tx.Status)

	tx, err = f.txs.GetTransactionByID(f.tx.ID)
	assert.NoError(t, err)
	assert.Equal(t, payment.StatusSuccessful, tx.Status)
	dep, err = f.deps.GetDependentByID(f.dep.ID)
	assert.NoError(t, err)
	assert.True(t, dep.PaidAmount.Equal(decimal.NewFromInt(1650)))
}

func TestCheckEmailUniqueness(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, user.ErrEmailExists, f.users.CheckEmailUniqueness("ngozi@example.com"))
	assert.NoError(t, f.users.CheckEmailUniqueness("ngozi@example.com", f.guardian))
	assert.NoError(t, f.users.CheckEmailUniqueness("fresh@example.com"))
}
