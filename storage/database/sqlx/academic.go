package sqlxrepos

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/shulehq/shule/core/academic"
)

type academicRepository struct {
	db *sqlx.DB
}

var _ academic.Repository = (*academicRepository)(nil) // interface compliance check

func NewAcademicRepository(db *sqlx.DB) *academicRepository {
	return &academicRepository{db: db}
}

func (repo academicRepository) UpsertGrade(ctx context.Context, grd academic.Grade) (academic.Grade, error) {
	if _, err := uuid.Parse(grd.StudentID); err != nil {
		return academic.Grade{}, academic.ErrNotFound
	}
	if _, err := uuid.Parse(grd.CourseID); err != nil {
		return academic.Grade{}, academic.ErrNotFound
	}

	var row struct {
		ID         string  `db:"id"`
		GradePoint float64 `db:"grade_point"`
	}
	err := repo.db.GetContext(ctx, &row,
		`INSERT INTO grade (id, student_id, course_id, semester, grade_point, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (student_id, course_id, semester)
		 DO UPDATE SET grade_point = EXCLUDED.grade_point, updated_at = EXCLUDED.updated_at
		 RETURNING id, grade_point`,
		uuid.New().String(), grd.StudentID, grd.CourseID, grd.Semester, grd.GradePoint, grd.CreatedAt, grd.UpdatedAt,
	)
	if err != nil {
		if fkViolationOn(err, "student") || fkViolationOn(err, "course") {
			return academic.Grade{}, academic.ErrNotFound
		}
		return academic.Grade{}, errors.Wrap(err, "upserting grade")
	}
	grd.ID = row.ID
	grd.GradePoint = row.GradePoint
	return grd, nil
}

func (repo academicRepository) QueryGradeEntries(ctx context.Context, studentID string, semester ...int) ([]academic.GradeEntry, error) {
	if _, err := uuid.Parse(studentID); err != nil {
		return nil, academic.ErrNotFound
	}

	query := `SELECT g.course_id, c.name AS course_name, g.semester, g.grade_point, c.credit_hours
	          FROM grade g
	          JOIN course c ON c.id = g.course_id
	          WHERE g.student_id = $1`
	args := []interface{}{studentID}
	if len(semester) > 0 {
		args = append(args, semester[0])
		query += ` AND g.semester = $2`
	}
	query += ` ORDER BY g.semester, c.name`

	var rows []struct {
		CourseID    string  `db:"course_id"`
		CourseName  string  `db:"course_name"`
		Semester    int     `db:"semester"`
		GradePoint  float64 `db:"grade_point"`
		CreditHours int     `db:"credit_hours"`
	}
	if err := repo.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying grade entries")
	}

	entries := make([]academic.GradeEntry, 0, len(rows))
	for _, r := range rows {
		entries = append(entries, academic.GradeEntry{
			CourseID:    r.CourseID,
			CourseName:  r.CourseName,
			Semester:    r.Semester,
			GradePoint:  r.GradePoint,
			CreditHours: r.CreditHours,
		})
	}
	return entries, nil
}

func (repo academicRepository) DeleteGrade(ctx context.Context, studentID, courseID string, semester int) error {
	res, err := repo.db.ExecContext(ctx,
		`DELETE FROM grade WHERE student_id = $1 AND course_id = $2 AND semester = $3`,
		studentID, courseID, semester,
	)
	if err != nil {
		return errors.Wrap(err, "deleting grade")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return academic.ErrNotFound
	}
	return nil
}

// ReplaceRegistration swaps the registered course set for the (student, semester)
// pair in one transaction; on any failure the prior set is left untouched.
func (repo academicRepository) ReplaceRegistration(ctx context.Context, reg academic.Registration) (academic.Registration, error) {
	if _, err := uuid.Parse(reg.StudentID); err != nil {
		return academic.Registration{}, academic.ErrNotFound
	}

	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return academic.Registration{}, errors.Wrap(err, "beginning registration tx")
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`DELETE FROM registration WHERE student_id = $1 AND semester = $2`,
		reg.StudentID, reg.Semester,
	)
	if err != nil {
		return academic.Registration{}, errors.Wrap(err, "clearing registration")
	}

	for _, courseID := range reg.CourseIDs {
		if _, err := uuid.Parse(courseID); err != nil {
			return academic.Registration{}, academic.ErrNotFound
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO registration (student_id, semester, course_id) VALUES ($1, $2, $3)`,
			reg.StudentID, reg.Semester, courseID,
		)
		if err != nil {
			if fkViolationOn(err, "student") || fkViolationOn(err, "course") {
				return academic.Registration{}, academic.ErrNotFound
			}
			return academic.Registration{}, errors.Wrap(err, "inserting registration row")
		}
	}

	if err = tx.Commit(); err != nil {
		return academic.Registration{}, errors.Wrap(err, "committing registration tx")
	}
	return reg, nil
}

func (repo academicRepository) GetRegistration(ctx context.Context, studentID string, semester int) (academic.Registration, error) {
	if _, err := uuid.Parse(studentID); err != nil {
		return academic.Registration{}, academic.ErrNotFound
	}

	var courseIDs []string
	err := repo.db.SelectContext(ctx, &courseIDs,
		`SELECT course_id FROM registration WHERE student_id = $1 AND semester = $2 ORDER BY course_id`,
		studentID, semester,
	)
	if err != nil {
		return academic.Registration{}, errors.Wrap(err, "querying registration")
	}
	if len(courseIDs) == 0 {
		return academic.Registration{}, academic.ErrNotFound
	}
	return academic.Registration{StudentID: studentID, Semester: semester, CourseIDs: courseIDs}, nil
}

func (repo academicRepository) QueryRegistrations(ctx context.Context, studentID string) ([]academic.Registration, error) {
	if _, err := uuid.Parse(studentID); err != nil {
		return nil, academic.ErrNotFound
	}

	var rows []struct {
		Semester int    `db:"semester"`
		CourseID string `db:"course_id"`
	}
	err := repo.db.SelectContext(ctx, &rows,
		`SELECT semester, course_id FROM registration WHERE student_id = $1 ORDER BY semester, course_id`,
		studentID,
	)
	if err != nil {
		return nil, errors.Wrap(err, "querying registrations")
	}

	regs := make([]academic.Registration, 0)
	for _, r := range rows {
		if n := len(regs); n > 0 && regs[n-1].Semester == r.Semester {
			regs[n-1].CourseIDs = append(regs[n-1].CourseIDs, r.CourseID)
			continue
		}
		regs = append(regs, academic.Registration{
			StudentID: studentID,
			Semester:  r.Semester,
			CourseIDs: []string{r.CourseID},
		})
	}
	return regs, nil
}

func (repo academicRepository) DeleteRegistration(ctx context.Context, studentID string, semester int) error {
	res, err := repo.db.ExecContext(ctx,
		`DELETE FROM registration WHERE student_id = $1 AND semester = $2`,
		studentID, semester,
	)
	if err != nil {
		return errors.Wrap(err, "deleting registration")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return academic.ErrNotFound
	}
	return nil
}
