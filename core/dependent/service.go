package dependent

import (
	"github.com/shopspring/decimal"

	"github.com/lopay/lopay/core"
	"github.com/lopay/lopay/core/plan"
	"github.com/lopay/lopay/core/school"
	"github.com/lopay/lopay/core/user"
)

var (
	// errors
	ErrNotFound = core.NewNotFoundError("dependent not found")
)

type (
	Repository interface {
		CreateDependent(dep Dependent) (Dependent, error)
		QueryAllDependents() ([]Dependent, error)
		GetDependentByID(id string) (Dependent, error)
		UpdateDependent(dep Dependent) (Dependent, error)
		// DeleteDependent removes the dependent and its transactions.
		DeleteDependent(id string) error
	}

	Service struct {
		repo    Repository
		schools school.Repository
		clock   core.Clock
	}
)

func NewService(repo Repository, schools school.Repository, clock core.Clock) *Service {
	return &Service{repo: repo, schools: schools, clock: clock}
}

func (svc *Service) QueryAll() ([]Dependent, error) {
	return svc.repo.QueryAllDependents()
}

func (svc *Service) GetByID(id string) (Dependent, error) {
	return svc.repo.GetDependentByID(id)
}

// Enroll creates the dependent record for a guardian finishing the
// plan-selection flow: zero paid, the scheduled installment amount computed
// from the plan, and no due date until the activation payment clears.
// The caller is responsible for submitting the activation transaction.
func (svc *Service) Enroll(ident user.Identity, nd NewDependent) (Dependent, plan.Plan, error) {
	if ident.UserID == "" {
		return Dependent{}, plan.Plan{}, core.NewPermissionError("enrollment requires a guardian identity")
	}

	sch, err := svc.schools.GetSchoolByID(nd.SchoolID)
	if err != nil {
		return Dependent{}, plan.Plan{}, err
	}

	p, err := plan.Compute(nd.TotalFee, nd.Cadence)
	if err != nil {
		return Dependent{}, plan.Plan{}, err
	}

	now := svc.clock.Now()
	dep := Dependent{
		OwnerID:               ident.UserID,
		Name:                  nd.Name,
		SchoolID:              sch.ID,
		SchoolName:            sch.Name,
		Grade:                 nd.Grade,
		Cadence:               nd.Cadence,
		TotalFee:              nd.TotalFee,
		PaidAmount:            decimal.Zero,
		NextInstallmentAmount: p.InstallmentAmount,
		Status:                StatusOnTrack,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
	dep, err = svc.repo.CreateDependent(dep)
	if err != nil {
		return Dependent{}, plan.Plan{}, err
	}
	return dep, p, nil
}

// RefreshStatuses recomputes the due-date proximity status of every
// dependent and returns the ones whose status changed. Meant for a periodic
// job; the payment lifecycle keeps statuses fresh on its own writes.
func (svc *Service) RefreshStatuses() ([]Dependent, error) {
	deps, err := svc.repo.QueryAllDependents()
	if err != nil {
		return nil, err
	}

	now := svc.clock.Now()
	var changed []Dependent
	for _, dep := range deps {
		status := StatusFor(dep, now)
		if status == dep.Status {
			continue
		}
		dep.Status = status
		dep.UpdatedAt = now
		dep, err = svc.repo.UpdateDependent(dep)
		if err != nil {
			return nil, err
		}
		changed = append(changed, dep)
	}
	return changed, nil
}

// Delete removes a dependent and its transactions. Allowed for the owning
// guardian (or an administrator acting as them) and for the unscoped
// administrator.
func (svc *Service) Delete(ident user.Identity, id string) error {
	dep, err := svc.repo.GetDependentByID(id)
	if err != nil {
		return err
	}
	if !ident.Unscoped() && dep.OwnerID != ident.UserID {
		return core.NewPermissionError("only the owning guardian may delete this dependent")
	}
	return svc.repo.DeleteDependent(id)
}
