// Package ledgerdb is the in-memory Ledger Store: the authoritative
// collections of users, schools, dependents, transactions and notifications.
// It is the sole mutation path; id generation and deletion cascades live
// here and nowhere else.
package ledgerdb

import (
	"sync"

	"github.com/lopay/lopay/core"
	"github.com/lopay/lopay/core/dependent"
	"github.com/lopay/lopay/core/notification"
	"github.com/lopay/lopay/core/payment"
	"github.com/lopay/lopay/core/school"
	"github.com/lopay/lopay/core/user"
)

type DB struct {
	mutex sync.RWMutex
	ids   core.IDGenerator

	users         map[string]*user.User
	schools       map[string]*school.School
	dependents    map[string]*dependent.Dependent
	transactions  map[string]*payment.Transaction
	notifications map[string]*notification.Notification
}

func Open(ids core.IDGenerator) *DB {
	return &DB{
		ids:           ids,
		users:         make(map[string]*user.User),
		schools:       make(map[string]*school.School),
		dependents:    make(map[string]*dependent.Dependent),
		transactions:  make(map[string]*payment.Transaction),
		notifications: make(map[string]*notification.Notification),
	}
}

// deleteDependentLocked removes a dependent and its transactions.
// The caller must hold the write lock.
func (db *DB) deleteDependentLocked(id string) {
	delete(db.dependents, id)
	for txID, tx := range db.transactions {
		if tx.DependentID == id {
			delete(db.transactions, txID)
		}
	}
}

// deleteUserLocked removes a user, the dependents they own and those
// dependents' transactions. The caller must hold the write lock.
func (db *DB) deleteUserLocked(id string) {
	delete(db.users, id)
	for depID, dep := range db.dependents {
		if dep.OwnerID == id {
			db.deleteDependentLocked(depID)
		}
	}
}

// deleteSchoolLocked removes a school, every dependent enrolled against it
// and those dependents' transactions. The caller must hold the write lock.
func (db *DB) deleteSchoolLocked(id string) {
	delete(db.schools, id)
	for depID, dep := range db.dependents {
		if dep.SchoolID == id {
			db.deleteDependentLocked(depID)
		}
	}
}
