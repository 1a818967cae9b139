package payment

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lopay/lopay/core"
	"github.com/lopay/lopay/core/dependent"
	"github.com/lopay/lopay/core/notification"
	"github.com/lopay/lopay/core/user"
)

var (
	// errors
	ErrNotFound = core.NewNotFoundError("transaction not found")
)

// cadencePeriod is how far the next due date advances on approval.
const cadencePeriod = 30 * 24 * time.Hour

type (
	// DecideFunc maps a pending transaction and its owning dependent to
	// their decided states. The ledger runs it under its write lock so the
	// transaction-status write and the dependent-balance write land as one
	// atomic pair.
	DecideFunc func(tx Transaction, dep dependent.Dependent) (Transaction, dependent.Dependent, error)

	Repository interface {
		CreateTransaction(tx Transaction) (Transaction, error)
		QueryAllTransactions() ([]Transaction, error)
		GetTransactionByID(id string) (Transaction, error)
		// DecideTransaction loads the transaction and its owning dependent,
		// applies decide atomically and persists both results, or leaves the
		// store unmodified if decide fails.
		DecideTransaction(id string, decide DecideFunc) (Transaction, dependent.Dependent, error)
	}

	Service struct {
		repo   Repository
		deps   dependent.Repository
		notifs *notification.Service
		clock  core.Clock
		logger core.Logger
	}
)

func NewService(repo Repository, deps dependent.Repository, notifs *notification.Service, clock core.Clock, logger core.Logger) *Service {
	return &Service{repo: repo, deps: deps, notifs: notifs, clock: clock, logger: logger}
}

func (svc *Service) QueryAll() ([]Transaction, error) {
	return svc.repo.QueryAllTransactions()
}

func (svc *Service) GetByID(id string) (Transaction, error) {
	return svc.repo.GetTransactionByID(id)
}

// Submit records a payment claim against a dependent. The transaction starts
// Pending and the dependent's balance does not move until an administrator
// approves it, so an unverified claim can never make a plan look over-paid.
func (svc *Service) Submit(ident user.Identity, sp SubmitPayment) (Transaction, error) {
	dep, err := svc.deps.GetDependentByID(sp.DependentID)
	if err != nil {
		return Transaction{}, err
	}
	if !ident.Unscoped() && dep.OwnerID != ident.UserID {
		return Transaction{}, core.NewPermissionError("only the owning guardian may submit payments for this dependent")
	}

	tx := Transaction{
		DependentID:   dep.ID,
		PayerID:       dep.OwnerID, // attribution follows the effective identity
		DependentName: dep.Name,
		SchoolID:      dep.SchoolID,
		SchoolName:    dep.SchoolName,
		Amount:        sp.Amount,
		ReceiptURL:    sp.ReceiptURL,
		Status:        StatusPending,
		CreatedAt:     svc.clock.Now(),
	}
	return svc.repo.CreateTransaction(tx)
}

// Approve verifies a pending transaction. The transaction becomes Successful
// and the owning dependent's balance moves by the claimed amount, clamped to
// the total fee; completion clears the schedule, otherwise the next due date
// advances one cadence period from the approval instant. Both writes land
// atomically. Unscoped administrators only.
func (svc *Service) Approve(ident user.Identity, id string) (Transaction, error) {
	if !ident.Unscoped() {
		return Transaction{}, core.NewPermissionError("only an administrator may approve payments")
	}

	now := svc.clock.Now()
	var firstPayment bool
	tx, dep, err := svc.repo.DecideTransaction(id, func(tx Transaction, dep dependent.Dependent) (Transaction, dependent.Dependent, error) {
		if tx.Status != StatusPending {
			return tx, dep, core.NewInvalidStateError(fmt.Sprintf("transaction is %s, not Pending", tx.Status))
		}
		firstPayment = dep.PaidAmount.IsZero()

		tx.Status = StatusSuccessful

		paid := dep.PaidAmount.Add(tx.Amount)
		if paid.GreaterThan(dep.TotalFee) {
			paid = dep.TotalFee
		}
		dep.PaidAmount = paid
		if dep.Completed() {
			dep.NextInstallmentAmount = decimal.Zero
			dep.NextDueDate = time.Time{}
		} else {
			dep.NextDueDate = now.Add(cadencePeriod)
		}
		dep.Status = dependent.StatusFor(dep, now)
		dep.UpdatedAt = now
		return tx, dep, nil
	})
	if err != nil {
		return Transaction{}, err
	}

	if _, err = svc.notifs.PaymentApproved(notification.PaymentEvent{
		PayerID:       tx.PayerID,
		DependentName: tx.DependentName,
		SchoolID:      dep.SchoolID,
		SchoolName:    dep.SchoolName,
		Amount:        tx.Amount,
		FirstPayment:  firstPayment,
	}); err != nil {
		svc.logger.Error(fmt.Sprintf("approval fan-out: %v", err), err)
	}
	return tx, nil
}

// Decline rejects a pending transaction. The dependent is untouched and only
// the payer is notified. Unscoped administrators only.
func (svc *Service) Decline(ident user.Identity, id string) (Transaction, error) {
	if !ident.Unscoped() {
		return Transaction{}, core.NewPermissionError("only an administrator may decline payments")
	}

	tx, _, err := svc.repo.DecideTransaction(id, func(tx Transaction, dep dependent.Dependent) (Transaction, dependent.Dependent, error) {
		if tx.Status != StatusPending {
			return tx, dep, core.NewInvalidStateError(fmt.Sprintf("transaction is %s, not Pending", tx.Status))
		}
		tx.Status = StatusFailed
		return tx, dep, nil
	})
	if err != nil {
		return Transaction{}, err
	}

	if _, err = svc.notifs.PaymentDeclined(notification.PaymentEvent{
		PayerID:       tx.PayerID,
		DependentName: tx.DependentName,
		SchoolID:      tx.SchoolID,
		SchoolName:    tx.SchoolName,
		Amount:        tx.Amount,
	}); err != nil {
		svc.logger.Error(fmt.Sprintf("decline fan-out: %v", err), err)
	}
	return tx, nil
}
