package professor

import (
	"time"

	"github.com/shulehq/shule/core"
)

type Professor struct {
	ID         string    `json:"id"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	Department string    `json:"department"`
	Email      string    `json:"email"`
	CreatedAt  time.Time `json:"created_at"` // UTC
	UpdatedAt  time.Time `json:"updated_at"` // UTC
}

// NewProfessor contains information needed to create a new Professor.
type NewProfessor struct {
	FirstName  string `json:"first_name" validate:"required"`
	LastName   string `json:"last_name" validate:"required"`
	Department string `json:"department" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
}

func (np *NewProfessor) Validate(svc *Service) error {
	np.FirstName = core.CleanString(np.FirstName)
	np.LastName = core.CleanString(np.LastName)
	np.Department = core.CleanString(np.Department)
	np.Email = core.CleanString(np.Email, true /* lower */)

	if err := core.Validate.Struct(np); err != nil {
		return err
	}
	return svc.checkUniqueness(np.Email)
}

// UpdateProfessor defines what information may be provided to modify an existing Professor.
type UpdateProfessor struct {
	FirstName  string `json:"first_name" validate:"omitempty"`
	LastName   string `json:"last_name" validate:"omitempty"`
	Department string `json:"department" validate:"omitempty"`
	Email      string `json:"email" validate:"omitempty,email"`
}

func (up *UpdateProfessor) Validate(svc *Service, orig Professor) error {
	up.FirstName = core.CleanString(up.FirstName)
	up.LastName = core.CleanString(up.LastName)
	up.Department = core.CleanString(up.Department)
	up.Email = core.CleanString(up.Email, true /* lower */)

	if err := core.Validate.Struct(up); err != nil {
		return err
	}
	if up.Email != "" && up.Email != orig.Email {
		return svc.checkUniqueness(up.Email, orig)
	}
	return nil
}

// QueryFilter applies an AND operation on available fields.
// Search does a case-insensitive match on name or email.
type QueryFilter struct {
	Search     string `json:"search"`
	Department string `json:"department"`
}
