package school

import (
	"github.com/lopay/lopay/core"
	"github.com/lopay/lopay/core/user"
)

var (
	// errors
	ErrNotFound = core.NewNotFoundError("school not found")
)

type (
	Repository interface {
		CreateSchool(sch School) (School, error)
		QueryAllSchools() ([]School, error)
		GetSchoolByID(id string) (School, error)
		UpdateSchool(sch School) (School, error)
		// DeleteSchool removes the school along with all dependents enrolled
		// against it and those dependents' transactions.
		DeleteSchool(id string) error
		// DeleteAllSchools applies the DeleteSchool cascade to every school.
		DeleteAllSchools() error
	}

	Service struct {
		repo  Repository
		clock core.Clock
	}
)

func NewService(repo Repository, clock core.Clock) *Service {
	return &Service{repo: repo, clock: clock}
}

func (svc *Service) QueryAll() ([]School, error) {
	return svc.repo.QueryAllSchools()
}

func (svc *Service) GetByID(id string) (School, error) {
	return svc.repo.GetSchoolByID(id)
}

// Create registers a new school. Administrators only.
func (svc *Service) Create(ident user.Identity, ns NewSchool) (School, error) {
	if !ident.Unscoped() {
		return School{}, core.NewPermissionError("only an administrator may register schools")
	}
	now := svc.clock.Now()
	sch := School{
		Name:         ns.Name,
		Address:      ns.Address,
		ContactEmail: ns.ContactEmail,
		StudentCount: ns.StudentCount,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	return svc.repo.CreateSchool(sch)
}

func (svc *Service) Update(ident user.Identity, id string, us UpdateSchool) (School, error) {
	if !ident.Unscoped() {
		return School{}, core.NewPermissionError("only an administrator may edit schools")
	}
	sch, err := svc.repo.GetSchoolByID(id)
	if err != nil {
		return School{}, err
	}
	if us.Name != "" {
		sch.Name = us.Name
	}
	if us.Address != "" {
		sch.Address = us.Address
	}
	if us.ContactEmail != "" {
		sch.ContactEmail = us.ContactEmail
	}
	if us.StudentCount != nil {
		sch.StudentCount = *us.StudentCount
	}
	sch.UpdatedAt = svc.clock.Now()
	return svc.repo.UpdateSchool(sch)
}

func (svc *Service) Delete(ident user.Identity, id string) error {
	if !ident.Unscoped() {
		return core.NewPermissionError("only an administrator may delete schools")
	}
	return svc.repo.DeleteSchool(id)
}

func (svc *Service) DeleteAll(ident user.Identity) error {
	if !ident.Unscoped() {
		return core.NewPermissionError("only an administrator may delete schools")
	}
	return svc.repo.DeleteAllSchools()
}
