package course

import (
	"context"
	"errors"
	"time"

	"github.com/shulehq/shule/core"
)

var (
	ErrNotFound         = errors.New("course not found")
	ErrNameExists       = errors.New("a course with this name already exists")
	ErrAssignmentExists = errors.New("professor is already assigned to this course")
)

type (
	Repository interface {
		CheckNameUniqueness(ctx context.Context, name string, excluded ...Course) error
		CreateCourse(ctx context.Context, crs Course) (Course, error)
		GetCourseByID(ctx context.Context, id string) (Course, error)
		QueryCourses(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Course, error)
		UpdateCourse(ctx context.Context, crs Course) (Course, error)
		// DeleteCourse atomically removes the course along with all its
		// grade, registration and assignment rows.
		DeleteCourse(ctx context.Context, id string) error

		CreateAssignment(ctx context.Context, asg Assignment) error
		DeleteAssignment(ctx context.Context, asg Assignment) error
		QueryAssignments(ctx context.Context, courseID string) ([]Assignment, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) checkUniqueness(name string, excl ...Course) error {
	if err := svc.repo.CheckNameUniqueness(context.Background(), name, excl...); err != nil {
		if err == ErrNameExists {
			return core.NewValidationError(err, core.FieldError{Field: "name", Error: err.Error()})
		}
		return err
	}
	return nil
}

func (svc *Service) Create(ctx context.Context, nc NewCourse) (Course, error) {
	now := time.Now().UTC()
	crs := Course{
		Name:        nc.Name,
		CreditHours: nc.CreditHours,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return svc.repo.CreateCourse(ctx, crs)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Course, error) {
	return svc.repo.GetCourseByID(ctx, id)
}

func (svc *Service) Query(ctx context.Context, filter *QueryFilter) ([]Course, error) {
	return svc.repo.QueryCourses(ctx, filter, []core.DBOrdering{{Field: "name", Ascending: true}})
}

func (svc *Service) Update(ctx context.Context, id string, uc UpdateCourse) (Course, error) {
	crs := Course{
		ID:          id,
		Name:        uc.Name,
		CreditHours: uc.CreditHours,
		UpdatedAt:   time.Now().UTC(),
	}
	return svc.repo.UpdateCourse(ctx, crs)
}

func (svc *Service) Delete(ctx context.Context, id string) error {
	return svc.repo.DeleteCourse(ctx, id)
}

func (svc *Service) AssignProfessor(ctx context.Context, courseID, professorID string) error {
	return svc.repo.CreateAssignment(ctx, Assignment{CourseID: courseID, ProfessorID: professorID})
}

func (svc *Service) UnassignProfessor(ctx context.Context, courseID, professorID string) error {
	return svc.repo.DeleteAssignment(ctx, Assignment{CourseID: courseID, ProfessorID: professorID})
}

func (svc *Service) Assignments(ctx context.Context, courseID string) ([]Assignment, error) {
	return svc.repo.QueryAssignments(ctx, courseID)
}
