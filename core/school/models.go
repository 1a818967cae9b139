package school

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/lopay/lopay/core"
)

type School struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Address      string    `json:"address"`
	ContactEmail string    `json:"contact_email"`
	StudentCount int       `json:"student_count"` // baseline headcount used for reporting
	CreatedAt    time.Time `json:"created_at"`    // UTC
	UpdatedAt    time.Time `json:"updated_at"`    // UTC
}

// NewSchool contains information needed to register a new School.
type NewSchool struct {
	Name         string `json:"name" validate:"required"`
	Address      string `json:"address" validate:"required"`
	ContactEmail string `json:"contact_email" validate:"required,email"`
	StudentCount int    `json:"student_count" validate:"gte=0"`
}

func (ns *NewSchool) Validate(validate *validator.Validate) error {
	ns.Name = core.CleanString(ns.Name)
	ns.Address = core.CleanString(ns.Address)
	ns.ContactEmail = core.CleanString(ns.ContactEmail, true /* lower */)
	return validate.Struct(ns)
}

// UpdateSchool defines what information may be provided to modify a School.
type UpdateSchool struct {
	Name         string `json:"name"`
	Address      string `json:"address"`
	ContactEmail string `json:"contact_email" validate:"omitempty,email"`
	StudentCount *int   `json:"student_count" validate:"omitempty,gte=0"`
}

func (us *UpdateSchool) Validate(validate *validator.Validate) error {
	us.Name = core.CleanString(us.Name)
	us.Address = core.CleanString(us.Address)
	us.ContactEmail = core.CleanString(us.ContactEmail, true /* lower */)
	return validate.Struct(us)
}
