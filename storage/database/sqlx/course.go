package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/shulehq/shule/core"
	"github.com/shulehq/shule/core/course"
	"github.com/shulehq/shule/core/professor"
)

type courseRow struct {
	ID          string    `db:"id"`
	Name        string    `db:"name"`
	CreditHours int       `db:"credit_hours"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (r courseRow) model() course.Course {
	return course.Course{
		ID:          r.ID,
		Name:        r.Name,
		CreditHours: r.CreditHours,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

type courseRepository struct {
	db *sqlx.DB
}

var _ course.Repository = (*courseRepository)(nil) // interface compliance check

func NewCourseRepository(db *sqlx.DB) *courseRepository {
	return &courseRepository{db: db}
}

func (repo courseRepository) CheckNameUniqueness(ctx context.Context, name string, excluded ...course.Course) error {
	query := `SELECT EXISTS (SELECT 1 FROM course WHERE name = $1`
	args := []interface{}{name}
	if len(excluded) > 0 {
		ids := make([]string, 0, len(excluded))
		for _, c := range excluded {
			ids = append(ids, c.ID)
		}
		query += ` AND NOT (id = ANY($2))`
		args = append(args, pqStringArray(ids))
	}
	query += `)`

	var exists bool
	if err := repo.db.GetContext(ctx, &exists, query, args...); err != nil {
		return errors.Wrap(err, "checking course uniqueness")
	}
	if exists {
		return course.ErrNameExists
	}
	return nil
}

func (repo courseRepository) CreateCourse(ctx context.Context, crs course.Course) (course.Course, error) {
	crs.ID = uuid.New().String()
	_, err := repo.db.ExecContext(ctx,
		`INSERT INTO course (id, name, credit_hours, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		crs.ID, crs.Name, crs.CreditHours, crs.CreatedAt, crs.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return course.Course{}, course.ErrNameExists
		}
		return course.Course{}, errors.Wrap(err, "inserting course")
	}
	return crs, nil
}

func (repo courseRepository) GetCourseByID(ctx context.Context, id string) (course.Course, error) {
	if _, err := uuid.Parse(id); err != nil {
		return course.Course{}, course.ErrNotFound
	}
	var row courseRow
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM course WHERE id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return course.Course{}, course.ErrNotFound
		}
		return course.Course{}, errors.Wrap(err, "finding course by ID")
	}
	return row.model(), nil
}

func (repo courseRepository) QueryCourses(ctx context.Context, filter *course.QueryFilter, ordering []core.DBOrdering) ([]course.Course, error) {
	query := `SELECT * FROM course WHERE true`
	var args []interface{}

	if filter != nil && filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		query += ` AND name ILIKE $1`
	}
	query += orderBy(ordering)

	var rows []courseRow
	if err := repo.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying courses")
	}
	courses := make([]course.Course, 0, len(rows))
	for _, r := range rows {
		courses = append(courses, r.model())
	}
	return courses, nil
}

func (repo courseRepository) UpdateCourse(ctx context.Context, crs course.Course) (course.Course, error) {
	if _, err := uuid.Parse(crs.ID); err != nil {
		return course.Course{}, course.ErrNotFound
	}
	var row courseRow
	err := repo.db.GetContext(ctx, &row,
		`UPDATE course
		 SET name = COALESCE(NULLIF($2, ''), name),
		     credit_hours = COALESCE(NULLIF($3, 0), credit_hours),
		     updated_at = $4
		 WHERE id = $1
		 RETURNING *`,
		crs.ID, crs.Name, crs.CreditHours, crs.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return course.Course{}, course.ErrNotFound
		}
		if isUniqueViolation(err) {
			return course.Course{}, course.ErrNameExists
		}
		return course.Course{}, errors.Wrap(err, "updating course")
	}
	return row.model(), nil
}

func (repo courseRepository) DeleteCourse(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return course.ErrNotFound
	}
	// grade, registration and assignment rows cascade with the parent row
	res, err := repo.db.ExecContext(ctx, `DELETE FROM course WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "deleting course")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return course.ErrNotFound
	}
	return nil
}

func (repo courseRepository) CreateAssignment(ctx context.Context, asg course.Assignment) error {
	if _, err := uuid.Parse(asg.CourseID); err != nil {
		return course.ErrNotFound
	}
	if _, err := uuid.Parse(asg.ProfessorID); err != nil {
		return professor.ErrNotFound
	}
	_, err := repo.db.ExecContext(ctx,
		`INSERT INTO course_assignment (course_id, professor_id) VALUES ($1, $2)`,
		asg.CourseID, asg.ProfessorID,
	)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return course.ErrAssignmentExists
		case fkViolationOn(err, "professor"):
			return professor.ErrNotFound
		case fkViolationOn(err, "course"):
			return course.ErrNotFound
		}
		return errors.Wrap(err, "inserting course assignment")
	}
	return nil
}

func (repo courseRepository) DeleteAssignment(ctx context.Context, asg course.Assignment) error {
	res, err := repo.db.ExecContext(ctx,
		`DELETE FROM course_assignment WHERE course_id = $1 AND professor_id = $2`,
		asg.CourseID, asg.ProfessorID,
	)
	if err != nil {
		return errors.Wrap(err, "deleting course assignment")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return course.ErrNotFound
	}
	return nil
}

func (repo courseRepository) QueryAssignments(ctx context.Context, courseID string) ([]course.Assignment, error) {
	if _, err := uuid.Parse(courseID); err != nil {
		return nil, course.ErrNotFound
	}
	var rows []struct {
		CourseID    string `db:"course_id"`
		ProfessorID string `db:"professor_id"`
	}
	err := repo.db.SelectContext(ctx, &rows,
		`SELECT course_id, professor_id FROM course_assignment WHERE course_id = $1`,
		courseID,
	)
	if err != nil {
		return nil, errors.Wrap(err, "querying course assignments")
	}
	asgs := make([]course.Assignment, 0, len(rows))
	for _, r := range rows {
		asgs = append(asgs, course.Assignment{CourseID: r.CourseID, ProfessorID: r.ProfessorID})
	}
	return asgs, nil
}
