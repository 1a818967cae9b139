package scope

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lopay/lopay/core/dependent"
	"github.com/lopay/lopay/core/notification"
	"github.com/lopay/lopay/core/payment"
	"github.com/lopay/lopay/core/user"
)

var (
	unscoped = user.Identity{Role: user.RoleAdministrator}
	guardian = user.Identity{Role: user.RoleGuardian, UserID: "grd-1"}
	bursar   = user.Identity{Role: user.RoleInstitutionBursar, UserID: "brs-1", SchoolID: "sch-1"}

	deps = []dependent.Dependent{
		{ID: "dep-1", OwnerID: "grd-1", SchoolID: "sch-1"},
		{ID: "dep-2", OwnerID: "grd-1", SchoolID: "sch-2"},
		{ID: "dep-3", OwnerID: "grd-2", SchoolID: "sch-1"},
	}
	txs = []payment.Transaction{
		{ID: "tx-1", PayerID: "grd-1", SchoolID: "sch-1"},
		{ID: "tx-2", PayerID: "grd-2", SchoolID: "sch-1"},
		{ID: "tx-3", PayerID: "grd-2", SchoolID: "sch-2"},
	}
)

func depIDs(deps []dependent.Dependent) []string {
	ids := make([]string, 0, len(deps))
	for _, d := range deps {
		ids = append(ids, d.ID)
	}
	return ids
}

func txIDs(txs []payment.Transaction) []string {
	ids := make([]string, 0, len(txs))
	for _, tx := range txs {
		ids = append(ids, tx.ID)
	}
	return ids
}

func TestVisibleDependents(t *testing.T) {
	tests := []struct {
		name  string
		ident user.Identity
		want  []string
	}{
		{"unscoped administrator sees all", unscoped, []string{"dep-1", "dep-2", "dep-3"}},
		{"guardian sees owned records", guardian, []string{"dep-1", "dep-2"}},
		{"bursar sees the institution's enrollments", bursar, []string{"dep-1", "dep-3"}},
		{
			name:  "bursar without an institution sees an empty set",
			ident: user.Identity{Role: user.RoleInstitutionBursar, UserID: "brs-2"},
			want:  []string{},
		},
		{
			name:  "stranger sees nothing",
			ident: user.Identity{Role: user.RoleGuardian, UserID: "grd-9"},
			want:  []string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, depIDs(VisibleDependents(tt.ident, deps)))
		})
	}
}

func TestVisibleTransactions(t *testing.T) {
	assert.Equal(t, []string{"tx-1", "tx-2", "tx-3"}, txIDs(VisibleTransactions(unscoped, txs)))
	assert.Equal(t, []string{"tx-1"}, txIDs(VisibleTransactions(guardian, txs)))
	assert.Equal(t, []string{"tx-1", "tx-2"}, txIDs(VisibleTransactions(bursar, txs)))
}

// A bursar's view refines the platform view: everything a bursar sees, the
// unscoped administrator sees too.
func TestScopeRefinement(t *testing.T) {
	all := VisibleDependents(unscoped, deps)
	for _, ident := range []user.Identity{guardian, bursar} {
		for _, dep := range VisibleDependents(ident, deps) {
			assert.Contains(t, all, dep)
		}
	}
}

func TestVisibleNotifications(t *testing.T) {
	ns := []notification.Notification{
		{ID: "n-1", UserID: "grd-1"},
		{ID: "n-2", UserID: "grd-2"},
		{ID: "n-3"}, // broadcast
	}

	got := VisibleNotifications(guardian, ns)
	ids := make([]string, 0, len(got))
	for _, n := range got {
		ids = append(ids, n.ID)
	}
	assert.Equal(t, []string{"n-1", "n-3"}, ids)

	assert.Len(t, VisibleNotifications(unscoped, ns), 3)
}
