package professor

import (
	"context"
	"errors"
	"time"

	"github.com/shulehq/shule/core"
)

var (
	ErrNotFound    = errors.New("professor not found")
	ErrEmailExists = errors.New("a professor with this email already exists")
)

type (
	Repository interface {
		CheckEmailUniqueness(ctx context.Context, email string, excluded ...Professor) error
		CreateProfessor(ctx context.Context, prof Professor) (Professor, error)
		GetProfessorByID(ctx context.Context, id string) (Professor, error)
		QueryProfessors(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Professor, error)
		UpdateProfessor(ctx context.Context, prof Professor) (Professor, error)
		// DeleteProfessor atomically removes the professor along with all
		// their course assignment rows.
		DeleteProfessor(ctx context.Context, id string) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) checkUniqueness(email string, excl ...Professor) error {
	if err := svc.repo.CheckEmailUniqueness(context.Background(), email, excl...); err != nil {
		if err == ErrEmailExists {
			return core.NewValidationError(err, core.FieldError{Field: "email", Error: err.Error()})
		}
		return err
	}
	return nil
}

func (svc *Service) Create(ctx context.Context, np NewProfessor) (Professor, error) {
	now := time.Now().UTC()
	prof := Professor{
		FirstName:  np.FirstName,
		LastName:   np.LastName,
		Department: np.Department,
		Email:      np.Email,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	return svc.repo.CreateProfessor(ctx, prof)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Professor, error) {
	return svc.repo.GetProfessorByID(ctx, id)
}

func (svc *Service) Query(ctx context.Context, filter *QueryFilter) ([]Professor, error) {
	return svc.repo.QueryProfessors(ctx, filter, []core.DBOrdering{{Field: "last_name", Ascending: true}})
}

func (svc *Service) Update(ctx context.Context, id string, up UpdateProfessor) (Professor, error) {
	prof := Professor{
		ID:         id,
		FirstName:  up.FirstName,
		LastName:   up.LastName,
		Department: up.Department,
		Email:      up.Email,
		UpdatedAt:  time.Now().UTC(),
	}
	return svc.repo.UpdateProfessor(ctx, prof)
}

func (svc *Service) Delete(ctx context.Context, id string) error {
	return svc.repo.DeleteProfessor(ctx, id)
}
