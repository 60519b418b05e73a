package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/shulehq/shule/core"
	"github.com/shulehq/shule/core/student"
)

type studentRow struct {
	ID        string      `db:"id"`
	Name      string      `db:"name"`
	Email     string      `db:"email"`
	Program   null.String `db:"program"`
	CreatedAt time.Time   `db:"created_at"`
	UpdatedAt time.Time   `db:"updated_at"`
}

func (r studentRow) model() student.Student {
	return student.Student{
		ID:        r.ID,
		Name:      r.Name,
		Email:     r.Email,
		Program:   r.Program,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

type studentRepository struct {
	db *sqlx.DB
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db *sqlx.DB) *studentRepository {
	return &studentRepository{db: db}
}

func (repo studentRepository) CheckEmailUniqueness(ctx context.Context, email string, excluded ...student.Student) error {
	query := `SELECT EXISTS (SELECT 1 FROM student WHERE email = $1`
	args := []interface{}{email}
	if len(excluded) > 0 {
		ids := make([]string, 0, len(excluded))
		for _, s := range excluded {
			ids = append(ids, s.ID)
		}
		query += ` AND NOT (id = ANY($2))`
		args = append(args, pqStringArray(ids))
	}
	query += `)`

	var exists bool
	if err := repo.db.GetContext(ctx, &exists, query, args...); err != nil {
		return errors.Wrap(err, "checking student uniqueness")
	}
	if exists {
		return student.ErrEmailExists
	}
	return nil
}

func (repo studentRepository) CreateStudent(ctx context.Context, std student.Student) (student.Student, error) {
	std.ID = uuid.New().String()
	_, err := repo.db.ExecContext(ctx,
		`INSERT INTO student (id, name, email, program, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		std.ID, std.Name, std.Email, std.Program, std.CreatedAt, std.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return student.Student{}, student.ErrEmailExists
		}
		return student.Student{}, errors.Wrap(err, "inserting student")
	}
	return std, nil
}

func (repo studentRepository) GetStudentByID(ctx context.Context, id string) (student.Student, error) {
	if _, err := uuid.Parse(id); err != nil {
		return student.Student{}, student.ErrNotFound
	}
	var row studentRow
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM student WHERE id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return student.Student{}, student.ErrNotFound
		}
		return student.Student{}, errors.Wrap(err, "finding student by ID")
	}
	return row.model(), nil
}

func (repo studentRepository) QueryStudents(ctx context.Context, filter *student.QueryFilter, ordering []core.DBOrdering) ([]student.Student, error) {
	query := `SELECT * FROM student WHERE true`
	var args []interface{}

	if filter != nil {
		if filter.Search != "" {
			args = append(args, "%"+filter.Search+"%")
			query += ` AND (name ILIKE $1 OR email ILIKE $1)`
		}
		if filter.Program != "" {
			args = append(args, filter.Program)
			query += ` AND program = $` + itoa(len(args))
		}
	}
	query += orderBy(ordering)

	var rows []studentRow
	if err := repo.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying students")
	}
	students := make([]student.Student, 0, len(rows))
	for _, r := range rows {
		students = append(students, r.model())
	}
	return students, nil
}

func (repo studentRepository) UpdateStudent(ctx context.Context, std student.Student) (student.Student, error) {
	if _, err := uuid.Parse(std.ID); err != nil {
		return student.Student{}, student.ErrNotFound
	}
	var row studentRow
	err := repo.db.GetContext(ctx, &row,
		`UPDATE student
		 SET name = COALESCE(NULLIF($2, ''), name),
		     email = COALESCE(NULLIF($3, ''), email),
		     program = COALESCE(NULLIF($4, ''), program),
		     updated_at = $5
		 WHERE id = $1
		 RETURNING *`,
		std.ID, std.Name, std.Email, std.Program.String, std.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return student.Student{}, student.ErrNotFound
		}
		if isUniqueViolation(err) {
			return student.Student{}, student.ErrEmailExists
		}
		return student.Student{}, errors.Wrap(err, "updating student")
	}
	return row.model(), nil
}

func (repo studentRepository) DeleteStudent(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return student.ErrNotFound
	}
	// grade and registration rows cascade with the parent row
	res, err := repo.db.ExecContext(ctx, `DELETE FROM student WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "deleting student")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return student.ErrNotFound
	}
	return nil
}
