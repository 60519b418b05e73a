package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/shulehq/shule/core"
	"github.com/shulehq/shule/core/professor"
)

type professorRow struct {
	ID         string    `db:"id"`
	FirstName  string    `db:"first_name"`
	LastName   string    `db:"last_name"`
	Department string    `db:"department"`
	Email      string    `db:"email"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

func (r professorRow) model() professor.Professor {
	return professor.Professor{
		ID:         r.ID,
		FirstName:  r.FirstName,
		LastName:   r.LastName,
		Department: r.Department,
		Email:      r.Email,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

type professorRepository struct {
	db *sqlx.DB
}

var _ professor.Repository = (*professorRepository)(nil) // interface compliance check

func NewProfessorRepository(db *sqlx.DB) *professorRepository {
	return &professorRepository{db: db}
}

func (repo professorRepository) CheckEmailUniqueness(ctx context.Context, email string, excluded ...professor.Professor) error {
	query := `SELECT EXISTS (SELECT 1 FROM professor WHERE email = $1`
	args := []interface{}{email}
	if len(excluded) > 0 {
		ids := make([]string, 0, len(excluded))
		for _, p := range excluded {
			ids = append(ids, p.ID)
		}
		query += ` AND NOT (id = ANY($2))`
		args = append(args, pqStringArray(ids))
	}
	query += `)`

	var exists bool
	if err := repo.db.GetContext(ctx, &exists, query, args...); err != nil {
		return errors.Wrap(err, "checking professor uniqueness")
	}
	if exists {
		return professor.ErrEmailExists
	}
	return nil
}

func (repo professorRepository) CreateProfessor(ctx context.Context, prof professor.Professor) (professor.Professor, error) {
	prof.ID = uuid.New().String()
	_, err := repo.db.ExecContext(ctx,
		`INSERT INTO professor (id, first_name, last_name, department, email, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		prof.ID, prof.FirstName, prof.LastName, prof.Department, prof.Email, prof.CreatedAt, prof.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return professor.Professor{}, professor.ErrEmailExists
		}
		return professor.Professor{}, errors.Wrap(err, "inserting professor")
	}
	return prof, nil
}

func (repo professorRepository) GetProfessorByID(ctx context.Context, id string) (professor.Professor, error) {
	if _, err := uuid.Parse(id); err != nil {
		return professor.Professor{}, professor.ErrNotFound
	}
	var row professorRow
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM professor WHERE id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return professor.Professor{}, professor.ErrNotFound
		}
		return professor.Professor{}, errors.Wrap(err, "finding professor by ID")
	}
	return row.model(), nil
}

func (repo professorRepository) QueryProfessors(ctx context.Context, filter *professor.QueryFilter, ordering []core.DBOrdering) ([]professor.Professor, error) {
	query := `SELECT * FROM professor WHERE true`
	var args []interface{}

	if filter != nil {
		if filter.Search != "" {
			args = append(args, "%"+filter.Search+"%")
			query += ` AND (first_name ILIKE $1 OR last_name ILIKE $1 OR email ILIKE $1)`
		}
		if filter.Department != "" {
			args = append(args, filter.Department)
			query += ` AND department = $` + itoa(len(args))
		}
	}
	query += orderBy(ordering)

	var rows []professorRow
	if err := repo.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying professors")
	}
	profs := make([]professor.Professor, 0, len(rows))
	for _, r := range rows {
		profs = append(profs, r.model())
	}
	return profs, nil
}

func (repo professorRepository) UpdateProfessor(ctx context.Context, prof professor.Professor) (professor.Professor, error) {
	if _, err := uuid.Parse(prof.ID); err != nil {
		return professor.Professor{}, professor.ErrNotFound
	}
	var row professorRow
	err := repo.db.GetContext(ctx, &row,
		`UPDATE professor
		 SET first_name = COALESCE(NULLIF($2, ''), first_name),
		     last_name = COALESCE(NULLIF($3, ''), last_name),
		     department = COALESCE(NULLIF($4, ''), department),
		     email = COALESCE(NULLIF($5, ''), email),
		     updated_at = $6
		 WHERE id = $1
		 RETURNING *`,
		prof.ID, prof.FirstName, prof.LastName, prof.Department, prof.Email, prof.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return professor.Professor{}, professor.ErrNotFound
		}
		if isUniqueViolation(err) {
			return professor.Professor{}, professor.ErrEmailExists
		}
		return professor.Professor{}, errors.Wrap(err, "updating professor")
	}
	return row.model(), nil
}

func (repo professorRepository) DeleteProfessor(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return professor.ErrNotFound
	}
	// assignment rows cascade with the parent row
	res, err := repo.db.ExecContext(ctx, `DELETE FROM professor WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "deleting professor")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return professor.ErrNotFound
	}
	return nil
}
