package user

import (
	"errors"

	"github.com/lopay/lopay/core"
)

var (
	// errors
	ErrNotFound    = core.NewNotFoundError("user not found")
	ErrEmailExists = errors.New("a user with this email already exists")
)

type (
	Repository interface {
		CheckEmailUniqueness(email string, excludedUsers ...User) error
		CreateUser(user User) (User, error)
		QueryAllUsers() ([]User, error)
		GetUserByID(id string) (User, error)
		GetUserByEmail(email string) (User, error)
		UpdateUser(user User) (User, error)
		// DeleteUser removes the user along with all dependents they own and
		// those dependents' transactions.
		DeleteUser(id string) error
	}

	Service struct {
		repo  Repository
		clock core.Clock
	}
)

func NewService(repo Repository, clock core.Clock) *Service {
	return &Service{repo: repo, clock: clock}
}

func (svc *Service) CheckEmailUniqueness(email string, exclUsers ...User) error {
	if err := svc.repo.CheckEmailUniqueness(email, exclUsers...); err != nil {
		if err == ErrEmailExists {
			return core.NewValidationError(err, core.FieldError{Field: "email", Error: err.Error()})
		}
		return err
	}
	return nil
}

func (svc *Service) Create(nu NewUser) (User, error) {
	now := svc.clock.Now()
	usr := User{
		Name:      nu.Name,
		Email:     nu.Email,
		Role:      nu.Role,
		SchoolID:  nu.SchoolID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if nu.Role == RoleInstitutionBursar {
		usr.Bank = &BankDetails{
			BankName:      nu.BankName,
			AccountName:   nu.AccountName,
			AccountNumber: nu.AccountNumber,
		}
	}
	if err := usr.SetPassword(nu.Password); err != nil {
		return User{}, err
	}
	return svc.repo.CreateUser(usr)
}

func (svc *Service) QueryAll() ([]User, error) {
	return svc.repo.QueryAllUsers()
}

func (svc *Service) GetByID(id string) (User, error) {
	return svc.repo.GetUserByID(id)
}

func (svc *Service) GetByEmail(email string) (User, error) {
	return svc.repo.GetUserByEmail(core.CleanString(email, true /* lower */))
}

func (svc *Service) Update(id string, uu UpdateUser) (User, error) {
	origUsr, err := svc.repo.GetUserByID(id)
	if err != nil {
		return User{}, err
	}

	origUsr.Name = uu.Name
	origUsr.Email = uu.Email
	origUsr.Role = uu.Role
	if uu.SchoolID != "" {
		origUsr.SchoolID = uu.SchoolID
	}
	if uu.BankName != "" || uu.AccountName != "" || uu.AccountNumber != "" {
		origUsr.Bank = &BankDetails{
			BankName:      uu.BankName,
			AccountName:   uu.AccountName,
			AccountNumber: uu.AccountNumber,
		}
	}
	origUsr.UpdatedAt = svc.clock.Now()
	return svc.repo.UpdateUser(origUsr)
}

func (svc *Service) SetLastLogin(usr User) (User, error) {
	usr.LastLogin = svc.clock.Now()
	return svc.repo.UpdateUser(usr)
}

// Delete removes a user; the ledger cascades the removal of their dependents
// and of those dependents' transactions.
func (svc *Service) Delete(ident Identity, id string) error {
	if !ident.Unscoped() && ident.UserID != id {
		return core.NewPermissionError("only an administrator may delete another user")
	}
	return svc.repo.DeleteUser(id)
}

// ResolveActing looks up the acting override target for an administrator.
// Unresolvable targets yield nil so the resolver falls back to the
// administrator's own identity.
func (svc *Service) ResolveActing(current User, actingUserID string) *User {
	if actingUserID == "" || current.Role != RoleAdministrator {
		return nil
	}
	target, err := svc.repo.GetUserByID(actingUserID)
	if err != nil {
		return nil
	}
	return &target
}
