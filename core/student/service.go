package student

import (
	"context"
	"errors"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/shulehq/shule/core"
)

var (
	ErrNotFound    = errors.New("student not found")
	ErrEmailExists = errors.New("a student with this email already exists")
)

type (
	Repository interface {
		CheckEmailUniqueness(ctx context.Context, email string, excluded ...Student) error
		CreateStudent(ctx context.Context, std Student) (Student, error)
		GetStudentByID(ctx context.Context, id string) (Student, error)
		QueryStudents(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Student, error)
		UpdateStudent(ctx context.Context, std Student) (Student, error)
		// DeleteStudent atomically removes the student along with all their
		// grade and registration rows.
		DeleteStudent(ctx context.Context, id string) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) checkUniqueness(email string, excl ...Student) error {
	if err := svc.repo.CheckEmailUniqueness(context.Background(), email, excl...); err != nil {
		if err == ErrEmailExists {
			return core.NewValidationError(err, core.FieldError{Field: "email", Error: err.Error()})
		}
		return err
	}
	return nil
}

func (svc *Service) Create(ctx context.Context, ns NewStudent) (Student, error) {
	now := time.Now().UTC()
	std := Student{
		Name:      ns.Name,
		Email:     ns.Email,
		Program:   null.NewString(ns.Program, ns.Program != ""),
		CreatedAt: now,
		UpdatedAt: now,
	}
	return svc.repo.CreateStudent(ctx, std)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Student, error) {
	return svc.repo.GetStudentByID(ctx, id)
}

func (svc *Service) Query(ctx context.Context, filter *QueryFilter) ([]Student, error) {
	return svc.repo.QueryStudents(ctx, filter, []core.DBOrdering{{Field: "name", Ascending: true}})
}

func (svc *Service) Update(ctx context.Context, id string, us UpdateStudent) (Student, error) {
	std := Student{
		ID:        id,
		Name:      us.Name,
		Email:     us.Email,
		Program:   null.NewString(us.Program, us.Program != ""),
		UpdatedAt: time.Now().UTC(),
	}
	return svc.repo.UpdateStudent(ctx, std)
}

func (svc *Service) Delete(ctx context.Context, id string) error {
	return svc.repo.DeleteStudent(ctx, id)
}
