package notification

import (
	"fmt"
	"net/mail"

	"github.com/lopay/lopay/core"
	"github.com/lopay/lopay/core/user"
)

var (
	// errors
	ErrNotFound = core.NewNotFoundError("notification not found")
)

type (
	Repository interface {
		CreateNotification(n Notification) (Notification, error)
		QueryAllNotifications() ([]Notification, error)
		GetNotificationByID(id string) (Notification, error)
		// MarkNotificationRead flips the read flag; the only mutation a
		// notification ever sees.
		MarkNotificationRead(id string) (Notification, error)
	}

	Service struct {
		repo    Repository
		users   user.Repository
		mailSvc core.EmailService
		clock   core.Clock
	}
)

func NewService(repo Repository, users user.Repository, mailSvc core.EmailService, clock core.Clock) *Service {
	return &Service{repo: repo, users: users, mailSvc: mailSvc, clock: clock}
}

func (svc *Service) QueryAll() ([]Notification, error) {
	return svc.repo.QueryAllNotifications()
}

// MarkRead flips the read flag. Only the target (or an administrator) may.
func (svc *Service) MarkRead(ident user.Identity, id string) (Notification, error) {
	n, err := svc.repo.GetNotificationByID(id)
	if err != nil {
		return Notification{}, err
	}
	if !ident.Unscoped() && n.UserID != "" && n.UserID != ident.UserID {
		return Notification{}, core.NewPermissionError("notification belongs to another user")
	}
	return svc.repo.MarkNotificationRead(id)
}

// PaymentApproved emits the approval fan-out: a success notification to the
// payer (framed as activation for a first payment) and, when a bursar for
// the dependent's school exists, an informational one to that bursar. A
// missing bursar is not an error.
func (svc *Service) PaymentApproved(ev PaymentEvent) ([]Notification, error) {
	now := svc.clock.Now()

	payerNotif := Notification{
		UserID:    ev.PayerID,
		Category:  CategoryPayment,
		Severity:  SeveritySuccess,
		CreatedAt: now,
	}
	if ev.FirstPayment {
		payerNotif.Title = "Plan Activated"
		payerNotif.Message = fmt.Sprintf("Your activation payment of ₦%s for %s has been confirmed.",
			ev.Amount.StringFixed(2), ev.DependentName)
	} else {
		payerNotif.Title = "Payment Successful"
		payerNotif.Message = fmt.Sprintf("%s - ₦%s", ev.SchoolName, ev.Amount.StringFixed(2))
	}

	created := make([]Notification, 0, 2)
	n, err := svc.repo.CreateNotification(payerNotif)
	if err != nil {
		return nil, err
	}
	created = append(created, n)

	if bursar, ok := svc.lookupBursar(ev.SchoolID); ok {
		n, err = svc.repo.CreateNotification(Notification{
			UserID:   bursar.ID,
			Category: CategoryPayment,
			Severity: SeverityInfo,
			Title:    "Payment Received",
			Message: fmt.Sprintf("₦%s received for %s.",
				ev.Amount.StringFixed(2), ev.DependentName),
			CreatedAt: now,
		})
		if err != nil {
			return nil, err
		}
		created = append(created, n)
	}

	svc.mailPayer(ev.PayerID, payerNotif)
	return created, nil
}

// PaymentDeclined emits exactly one error notification, addressed to the
// payer only.
func (svc *Service) PaymentDeclined(ev PaymentEvent) (Notification, error) {
	n := Notification{
		UserID:   ev.PayerID,
		Category: CategoryPayment,
		Severity: SeverityError,
		Title:    "Payment Failed",
		Message: fmt.Sprintf("Your payment of ₦%s could not be processed.",
			ev.Amount.StringFixed(2)),
		CreatedAt: svc.clock.Now(),
	}
	n, err := svc.repo.CreateNotification(n)
	if err != nil {
		return Notification{}, err
	}
	svc.mailPayer(ev.PayerID, n)
	return n, nil
}

// DueAlert warns the owning guardian that an installment is approaching or
// missed.
func (svc *Service) DueAlert(a DueAlert) (Notification, error) {
	n := Notification{
		UserID:   a.OwnerID,
		Category: CategoryDueAlert,
		Severity: SeverityWarning,
		Title:    "Payment Due Soon",
		Message: fmt.Sprintf("₦%s for %s is due on %s.",
			a.Amount.StringFixed(2), a.DependentName, a.DueDate.Format("Jan 2, 2006")),
		CreatedAt: svc.clock.Now(),
	}
	if a.Overdue {
		n.Title = "Payment Overdue"
		n.Message = fmt.Sprintf("₦%s for %s was due on %s.",
			a.Amount.StringFixed(2), a.DependentName, a.DueDate.Format("Jan 2, 2006"))
	}
	n, err := svc.repo.CreateNotification(n)
	if err != nil {
		return Notification{}, err
	}
	svc.mailPayer(a.OwnerID, n)
	return n, nil
}

// Broadcast creates a single untargeted announcement, visible to every
// guardian and to administrators. Administrators only.
func (svc *Service) Broadcast(ident user.Identity, title, message string) (Notification, error) {
	if !ident.Unscoped() {
		return Notification{}, core.NewPermissionError("only an administrator may broadcast")
	}
	title = core.CleanString(title)
	message = core.CleanString(message)
	if title == "" || message == "" {
		return Notification{}, core.NewInvalidInputError("broadcast title and message are required")
	}
	return svc.repo.CreateNotification(Notification{
		Category:  CategoryAnnouncement,
		Severity:  SeverityInfo,
		Title:     title,
		Message:   message,
		CreatedAt: svc.clock.Now(),
	})
}

func (svc *Service) lookupBursar(schoolID string) (user.User, bool) {
	if schoolID == "" {
		return user.User{}, false
	}
	users, err := svc.users.QueryAllUsers()
	if err != nil {
		return user.User{}, false
	}
	for _, usr := range users {
		if usr.Role == user.RoleInstitutionBursar && usr.SchoolID == schoolID {
			return usr, true
		}
	}
	return user.User{}, false
}

func (svc *Service) mailPayer(payerID string, n Notification) {
	if svc.mailSvc == nil {
		return
	}
	payer, err := svc.users.GetUserByID(payerID)
	if err != nil || payer.Email == "" {
		return
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:      []mail.Address{{Name: payer.Name, Address: payer.Email}},
		Subject: n.Title,
		BodyStr: n.Message,
	})
}
