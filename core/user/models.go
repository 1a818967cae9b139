package user

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Role is the closed set of platform roles. The scope package is the single
// place that branches on it; everything else goes through Identity.
type Role string

const (
	RoleGuardian          Role = "guardian"
	RoleAdministrator     Role = "administrator"
	RoleInstitutionBursar Role = "institution_bursar"
	RoleStudent           Role = "student"
)

var AllRoles = []Role{RoleGuardian, RoleAdministrator, RoleInstitutionBursar, RoleStudent}

func (r Role) Valid() bool {
	for _, role := range AllRoles {
		if r == role {
			return true
		}
	}
	return false
}

// BankDetails holds a bursar's settlement account.
type BankDetails struct {
	BankName      string `json:"bank_name"`
	AccountName   string `json:"account_name"`
	AccountNumber string `json:"account_number"`
}

type User struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Email        string       `json:"email"`
	Role         Role         `json:"role"`
	SchoolID     string       `json:"school_id,omitempty"` // required iff Role == RoleInstitutionBursar
	Bank         *BankDetails `json:"bank,omitempty"`      // bursars only
	PasswordHash []byte       `json:"-"`
	CreatedAt    time.Time    `json:"created_at"` // UTC
	UpdatedAt    time.Time    `json:"updated_at"` // UTC
	LastLogin    time.Time    `json:"last_login"` // UTC
}

func (u *User) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

func (u *User) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(pwd))
}

// NewUser contains information needed to create a new User.
type NewUser struct {
	Name            string `json:"name" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
	Role            Role   `json:"role" validate:"omitempty,role"`
	SchoolID        string `json:"school_id"`
	BankName        string `json:"bank_name"`
	AccountName     string `json:"account_name"`
	AccountNumber   string `json:"account_number" validate:"omitempty,acctnumber"`
}

// UpdateUser defines what information may be provided to modify an existing User.
type UpdateUser struct {
	Name          string `json:"name"`
	Email         string `json:"email" validate:"omitempty,email"`
	Role          Role   `json:"role" validate:"omitempty,role"`
	SchoolID      string `json:"school_id"`
	BankName      string `json:"bank_name"`
	AccountName   string `json:"account_name"`
	AccountNumber string `json:"account_number" validate:"omitempty,acctnumber"`
}
