package course

import (
	"time"

	"github.com/shulehq/shule/core"
)

type Course struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	CreditHours int       `json:"credit_hours"`
	CreatedAt   time.Time `json:"created_at"` // UTC
	UpdatedAt   time.Time `json:"updated_at"` // UTC
}

// Assignment links a Course to a Professor teaching it.
// The (course, professor) pair is unique; a course may carry several rows.
type Assignment struct {
	CourseID    string `json:"course_id"`
	ProfessorID string `json:"professor_id"`
}

// NewCourse contains information needed to create a new Course.
type NewCourse struct {
	Name        string `json:"name" validate:"required"`
	CreditHours int    `json:"credit_hours" validate:"required,gt=0"`
}

func (nc *NewCourse) Validate(svc *Service) error {
	nc.Name = core.CleanString(nc.Name)

	if err := core.Validate.Struct(nc); err != nil {
		return err
	}
	return svc.checkUniqueness(nc.Name)
}

// UpdateCourse defines what information may be provided to modify an existing Course.
type UpdateCourse struct {
	Name        string `json:"name" validate:"omitempty"`
	CreditHours int    `json:"credit_hours" validate:"omitempty,gt=0"`
}

func (uc *UpdateCourse) Validate(svc *Service, orig Course) error {
	uc.Name = core.CleanString(uc.Name)

	if err := core.Validate.Struct(uc); err != nil {
		return err
	}
	if uc.Name != "" && uc.Name != orig.Name {
		return svc.checkUniqueness(uc.Name, orig)
	}
	return nil
}

// QueryFilter applies an AND operation on available fields.
type QueryFilter struct {
	Search string `json:"search"`
}
