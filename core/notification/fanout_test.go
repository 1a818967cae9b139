package notification_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/lopay/lopay/core"
	"github.com/lopay/lopay/core/notification"
	"github.com/lopay/lopay/core/user"
	ledgerdb "github.com/lopay/lopay/storage/ledger"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type fixture struct {
	svc      *notification.Service
	repo     notification.Repository
	usrRepo  user.Repository
	guardian user.User
	bursar   user.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	clock := fixedClock{now: time.Date(2024, 9, 2, 10, 0, 0, 0, time.UTC)}
	db := ledgerdb.Open(core.NewIDGenerator(clock))

	usrRepo := ledgerdb.NewUserRepository(db)
	repo := ledgerdb.NewNotificationRepository(db)
	svc := notification.NewService(repo, usrRepo, nil, clock)

	guardian, err := usrRepo.CreateUser(user.User{Name: "Ngozi Okafor", Email: "ngozi@example.com", Role: user.RoleGuardian})
	assert.NoError(t, err)
	bursar, err := usrRepo.CreateUser(user.User{
		Name: "Bursar", Email: "bursar@sunrise.example.com", Role: user.RoleInstitutionBursar, SchoolID: "sch-1",
	})
	assert.NoError(t, err)

	return &fixture{svc: svc, repo: repo, usrRepo: usrRepo, guardian: guardian, bursar: bursar}
}

func (f *fixture) event(first bool, schoolID string) notification.PaymentEvent {
	return notification.PaymentEvent{
		PayerID:       f.guardian.ID,
		DependentName: "Adaeze",
		SchoolID:      schoolID,
		SchoolName:    "Sunrise Academy",
		Amount:        decimal.NewFromInt(1650),
		FirstPayment:  first,
	}
}

func TestPaymentApprovedActivationFraming(t *testing.T) {
	f := newFixture(t)

	created, err := f.svc.PaymentApproved(f.event(true, "sch-1"))
	assert.NoError(t, err)
	assert.Len(t, created, 2)

	payerNotif := created[0]
	assert.Equal(t, f.guardian.ID, payerNotif.UserID)
	assert.Equal(t, "Plan Activated", payerNotif.Title)
	assert.Equal(t, "Your activation payment of ₦1650.00 for Adaeze has been confirmed.", payerNotif.Message)
	assert.Equal(t, notification.SeveritySuccess, payerNotif.Severity)

	bursarNotif := created[1]
	assert.Equal(t, f.bursar.ID, bursarNotif.UserID)
	assert.Equal(t, "Payment Received", bursarNotif.Title)
	assert.Equal(t, notification.SeverityInfo, bursarNotif.Severity)
}

func TestPaymentApprovedInstallmentFraming(t *testing.T) {
	f := newFixture(t)

	created, err := f.svc.PaymentApproved(f.event(false, "sch-1"))
	assert.NoError(t, err)

	payerNotif := created[0]
	assert.Equal(t, "Payment Successful", payerNotif.Title)
	assert.Equal(t, "Sunrise Academy - ₦1650.00", payerNotif.Message)
}

func TestPaymentApprovedWithoutBursar(t *testing.T) {
	f := newFixture(t)

	// no bursar registered for this school; only the payer is notified
	created, err := f.svc.PaymentApproved(f.event(false, "sch-2"))
	assert.NoError(t, err)
	assert.Len(t, created, 1)
	assert.Equal(t, f.guardian.ID, created[0].UserID)
}

func TestPaymentDeclined(t *testing.T) {
	f := newFixture(t)

	n, err := f.svc.PaymentDeclined(f.event(false, "sch-1"))
	assert.NoError(t, err)
	assert.Equal(t, f.guardian.ID, n.UserID)
	assert.Equal(t, "Payment Failed", n.Title)
	assert.Equal(t, "Your payment of ₦1650.00 could not be processed.", n.Message)
	assert.Equal(t, notification.SeverityError, n.Severity)

	// the bursar never hears about declines
	ns, err := f.repo.QueryAllNotifications()
	assert.NoError(t, err)
	assert.Len(t, ns, 1)
}

func TestDueAlert(t *testing.T) {
	f := newFixture(t)
	due := time.Date(2024, 9, 6, 0, 0, 0, 0, time.UTC)

	n, err := f.svc.DueAlert(notification.DueAlert{
		OwnerID:       f.guardian.ID,
		DependentName: "Adaeze",
		Amount:        decimal.NewFromInt(375),
		DueDate:       due,
	})
	assert.NoError(t, err)
	assert.Equal(t, f.guardian.ID, n.UserID)
	assert.Equal(t, notification.CategoryDueAlert, n.Category)
	assert.Equal(t, notification.SeverityWarning, n.Severity)
	assert.Equal(t, "Payment Due Soon", n.Title)
	assert.Equal(t, "₦375.00 for Adaeze is due on Sep 6, 2024.", n.Message)

	n, err = f.svc.DueAlert(notification.DueAlert{
		OwnerID:       f.guardian.ID,
		DependentName: "Adaeze",
		Amount:        decimal.NewFromInt(375),
		DueDate:       due,
		Overdue:       true,
	})
	assert.NoError(t, err)
	assert.Equal(t, "Payment Overdue", n.Title)
	assert.Equal(t, "₦375.00 for Adaeze was due on Sep 6, 2024.", n.Message)
}

func TestBroadcast(t *testing.T) {
	f := newFixture(t)

	guardianIdent := user.Identity{Role: user.RoleGuardian, UserID: f.guardian.ID}
	_, err := f.svc.Broadcast(guardianIdent, "Hello", "World")
	assert.True(t, core.IsPermissionDenied(err))

	adminIdent := user.Identity{Role: user.RoleAdministrator}
	_, err = f.svc.Broadcast(adminIdent, "  ", "")
	assert.True(t, core.IsInvalidInput(err))

	n, err := f.svc.Broadcast(adminIdent, "Term Resumption", "School fees portal reopens Monday.")
	assert.NoError(t, err)
	assert.Empty(t, n.UserID, "broadcasts are untargeted")
	assert.Equal(t, notification.CategoryAnnouncement, n.Category)
}

func TestMarkRead(t *testing.T) {
	f := newFixture(t)

	n, err := f.repo.CreateNotification(notification.Notification{
		UserID: f.guardian.ID, Category: notification.CategoryPayment, Title: "t", Message: "m",
		Severity: notification.SeverityInfo,
	})
	assert.NoError(t, err)

	stranger := user.Identity{Role: user.RoleGuardian, UserID: "someone-else"}
	_, err = f.svc.MarkRead(stranger, n.ID)
	assert.True(t, core.IsPermissionDenied(err))

	target := user.Identity{Role: user.RoleGuardian, UserID: f.guardian.ID}
	n, err = f.svc.MarkRead(target, n.ID)
	assert.NoError(t, err)
	assert.True(t, n.Read)

	_, err = f.svc.MarkRead(target, "nope")
	assert.True(t, core.IsNotFound(err))
}
