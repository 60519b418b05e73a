package student

import (
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/shulehq/shule/core"
)

type Student struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Program   null.String `json:"program,omitempty"`
	CreatedAt time.Time   `json:"created_at"` // UTC
	UpdatedAt time.Time   `json:"updated_at"` // UTC
}

// NewStudent contains information needed to enroll a new Student.
type NewStudent struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Program string `json:"program" validate:"omitempty"`
}

func (ns *NewStudent) Validate(svc *Service) error {
	ns.Name = core.CleanString(ns.Name)
	ns.Email = core.CleanString(ns.Email, true /* lower */)
	ns.Program = core.CleanString(ns.Program)

	if err := core.Validate.Struct(ns); err != nil {
		return err
	}
	return svc.checkUniqueness(ns.Email)
}

// UpdateStudent defines what information may be provided to modify an existing Student.
// All fields are optional; zero values are left untouched.
type UpdateStudent struct {
	Name    string `json:"name" validate:"omitempty"`
	Email   string `json:"email" validate:"omitempty,email"`
	Program string `json:"program" validate:"omitempty"`
}

func (us *UpdateStudent) Validate(svc *Service, orig Student) error {
	us.Name = core.CleanString(us.Name)
	us.Email = core.CleanString(us.Email, true /* lower */)
	us.Program = core.CleanString(us.Program)

	if err := core.Validate.Struct(us); err != nil {
		return err
	}
	if us.Email != "" && us.Email != orig.Email {
		return svc.checkUniqueness(us.Email, orig)
	}
	return nil
}

// QueryFilter applies an AND operation on available fields.
// Search does a case-insensitive match on one of Student.Name or Student.Email.
type QueryFilter struct {
	Search  string `json:"search"`
	Program string `json:"program"`
}
