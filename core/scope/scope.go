// Package scope is the single place that branches on roles: pure projections
// mapping an effective identity and the full collections to the subset that
// identity may see. Nothing here mutates.
package scope

import (
	"github.com/lopay/lopay/core/dependent"
	"github.com/lopay/lopay/core/notification"
	"github.com/lopay/lopay/core/payment"
	"github.com/lopay/lopay/core/user"
)

// VisibleDependents projects the dependents visible to an identity:
// everything for the unscoped administrator, owned records for a guardian or
// student (impersonated or not), and the institution's enrollments for a
// bursar. A bursar with no resolvable institution sees an empty set, not an
// error.
func VisibleDependents(ident user.Identity, deps []dependent.Dependent) []dependent.Dependent {
	if ident.Unscoped() {
		return deps
	}

	visible := make([]dependent.Dependent, 0, len(deps))
	for _, dep := range deps {
		if dependentVisible(ident, dep.OwnerID, dep.SchoolID) {
			visible = append(visible, dep)
		}
	}
	return visible
}

// VisibleTransactions mirrors VisibleDependents: a guardian sees what they
// paid, a bursar sees their institution's collections.
func VisibleTransactions(ident user.Identity, txs []payment.Transaction) []payment.Transaction {
	if ident.Unscoped() {
		return txs
	}

	visible := make([]payment.Transaction, 0, len(txs))
	for _, tx := range txs {
		if dependentVisible(ident, tx.PayerID, tx.SchoolID) {
			visible = append(visible, tx)
		}
	}
	return visible
}

// VisibleNotifications keeps targeted records for their target, broadcasts
// for everyone, and everything for the unscoped administrator.
func VisibleNotifications(ident user.Identity, ns []notification.Notification) []notification.Notification {
	if ident.Unscoped() {
		return ns
	}

	visible := make([]notification.Notification, 0, len(ns))
	for _, n := range ns {
		if n.UserID == "" || n.UserID == ident.UserID {
			visible = append(visible, n)
		}
	}
	return visible
}

func dependentVisible(ident user.Identity, ownerID, schoolID string) bool {
	if ident.IsBursar() {
		return ident.SchoolID != "" && schoolID == ident.SchoolID
	}
	return ownerID != "" && ownerID == ident.UserID
}
