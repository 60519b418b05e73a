package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/shulehq/shule/core/exam"
)

type examRepository struct {
	db *sqlx.DB
}

var _ exam.Repository = (*examRepository)(nil) // interface compliance check

func NewExamRepository(db *sqlx.DB) *examRepository {
	return &examRepository{db: db}
}

func (repo examRepository) CheckUsernameUniqueness(ctx context.Context, username string) error {
	var exists bool
	err := repo.db.GetContext(ctx, &exists,
		`SELECT EXISTS (SELECT 1 FROM exam_user WHERE username = $1)`, username)
	if err != nil {
		return errors.Wrap(err, "checking exam user uniqueness")
	}
	if exists {
		return exam.ErrUserExists
	}
	return nil
}

func (repo examRepository) CreateUser(ctx context.Context, usr exam.User) (exam.User, error) {
	_, err := repo.db.ExecContext(ctx,
		`INSERT INTO exam_user (username, password, role, created_at) VALUES ($1, $2, $3, $4)`,
		usr.Username, usr.Password, usr.Role, usr.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return exam.User{}, exam.ErrUserExists
		}
		return exam.User{}, errors.Wrap(err, "inserting exam user")
	}
	return usr, nil
}

func (repo examRepository) GetUserByUsername(ctx context.Context, username string) (exam.User, error) {
	var row struct {
		Username  string    `db:"username"`
		Password  string    `db:"password"`
		Role      string    `db:"role"`
		CreatedAt time.Time `db:"created_at"`
	}
	err := repo.db.GetContext(ctx, &row, `SELECT * FROM exam_user WHERE username = $1`, username)
	if err != nil {
		if err == sql.ErrNoRows {
			return exam.User{}, exam.ErrUserNotFound
		}
		return exam.User{}, errors.Wrap(err, "finding exam user")
	}
	return exam.User{Username: row.Username, Password: row.Password, Role: row.Role, CreatedAt: row.CreatedAt}, nil
}

func (repo examRepository) QueryUsers(ctx context.Context) ([]exam.User, error) {
	var rows []struct {
		Username  string    `db:"username"`
		Password  string    `db:"password"`
		Role      string    `db:"role"`
		CreatedAt time.Time `db:"created_at"`
	}
	if err := repo.db.SelectContext(ctx, &rows, `SELECT * FROM exam_user ORDER BY username`); err != nil {
		return nil, errors.Wrap(err, "querying exam users")
	}
	users := make([]exam.User, 0, len(rows))
	for _, r := range rows {
		users = append(users, exam.User{Username: r.Username, Password: r.Password, Role: r.Role, CreatedAt: r.CreatedAt})
	}
	return users, nil
}

func (repo examRepository) CheckTitleUniqueness(ctx context.Context, title string) error {
	var exists bool
	err := repo.db.GetContext(ctx, &exists,
		`SELECT EXISTS (SELECT 1 FROM exam WHERE title = $1)`, title)
	if err != nil {
		return errors.Wrap(err, "checking exam title uniqueness")
	}
	if exists {
		return exam.ErrTitleExists
	}
	return nil
}

func (repo examRepository) CreateExam(ctx context.Context, exm exam.Exam) (exam.Exam, error) {
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return exam.Exam{}, errors.Wrap(err, "beginning exam tx")
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO exam (title, duration_minutes, created_at) VALUES ($1, $2, $3)`,
		exm.Title, exm.DurationMinutes, exm.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return exam.Exam{}, exam.ErrTitleExists
		}
		return exam.Exam{}, errors.Wrap(err, "inserting exam")
	}

	for i, q := range exm.Questions {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO exam_question (exam_title, position, text, options, correct_index)
			 VALUES ($1, $2, $3, $4, $5)`,
			exm.Title, i, q.Text, pq.StringArray(q.Options), q.CorrectIndex,
		)
		if err != nil {
			return exam.Exam{}, errors.Wrap(err, "inserting exam question")
		}
	}

	if err = tx.Commit(); err != nil {
		return exam.Exam{}, errors.Wrap(err, "committing exam tx")
	}
	return exm, nil
}

func (repo examRepository) GetExamByTitle(ctx context.Context, title string) (exam.Exam, error) {
	var row struct {
		Title           string    `db:"title"`
		DurationMinutes int       `db:"duration_minutes"`
		CreatedAt       time.Time `db:"created_at"`
	}
	err := repo.db.GetContext(ctx, &row, `SELECT * FROM exam WHERE title = $1`, title)
	if err != nil {
		if err == sql.ErrNoRows {
			return exam.Exam{}, exam.ErrExamNotFound
		}
		return exam.Exam{}, errors.Wrap(err, "finding exam")
	}

	questions, err := repo.queryQuestions(ctx, title)
	if err != nil {
		return exam.Exam{}, err
	}
	return exam.Exam{
		Title:           row.Title,
		DurationMinutes: row.DurationMinutes,
		Questions:       questions,
		CreatedAt:       row.CreatedAt,
	}, nil
}

func (repo examRepository) queryQuestions(ctx context.Context, title string) ([]exam.Question, error) {
	var rows []struct {
		Text         string         `db:"text"`
		Options      pq.StringArray `db:"options"`
		CorrectIndex int            `db:"correct_index"`
	}
	err := repo.db.SelectContext(ctx, &rows,
		`SELECT text, options, correct_index FROM exam_question WHERE exam_title = $1 ORDER BY position`,
		title,
	)
	if err != nil {
		return nil, errors.Wrap(err, "querying exam questions")
	}
	questions := make([]exam.Question, 0, len(rows))
	for _, r := range rows {
		questions = append(questions, exam.Question{Text: r.Text, Options: r.Options, CorrectIndex: r.CorrectIndex})
	}
	return questions, nil
}

func (repo examRepository) QueryExams(ctx context.Context) ([]exam.Exam, error) {
	var rows []struct {
		Title           string    `db:"title"`
		DurationMinutes int       `db:"duration_minutes"`
		CreatedAt       time.Time `db:"created_at"`
	}
	if err := repo.db.SelectContext(ctx, &rows, `SELECT * FROM exam ORDER BY title`); err != nil {
		return nil, errors.Wrap(err, "querying exams")
	}

	exams := make([]exam.Exam, 0, len(rows))
	for _, r := range rows {
		questions, err := repo.queryQuestions(ctx, r.Title)
		if err != nil {
			return nil, err
		}
		exams = append(exams, exam.Exam{
			Title:           r.Title,
			DurationMinutes: r.DurationMinutes,
			Questions:       questions,
			CreatedAt:       r.CreatedAt,
		})
	}
	return exams, nil
}

func (repo examRepository) DeleteExam(ctx context.Context, title string) error {
	// question and result rows cascade with the parent row
	res, err := repo.db.ExecContext(ctx, `DELETE FROM exam WHERE title = $1`, title)
	if err != nil {
		return errors.Wrap(err, "deleting exam")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return exam.ErrExamNotFound
	}
	return nil
}

func (repo examRepository) CreateResult(ctx context.Context, res exam.Result) (exam.Result, error) {
	res.ID = uuid.New().String()
	_, err := repo.db.ExecContext(ctx,
		`INSERT INTO exam_result (id, username, exam_title, score, taken_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		res.ID, res.Username, res.ExamTitle, res.Score, res.TakenAt,
	)
	if err != nil {
		switch {
		case fkViolationOn(err, "username"):
			return exam.Result{}, exam.ErrUserNotFound
		case fkViolationOn(err, "exam_title"):
			return exam.Result{}, exam.ErrExamNotFound
		}
		return exam.Result{}, errors.Wrap(err, "inserting exam result")
	}
	return res, nil
}

func (repo examRepository) QueryResults(ctx context.Context, username ...string) ([]exam.Result, error) {
	query := `SELECT * FROM exam_result`
	var args []interface{}
	if len(username) > 0 {
		query += ` WHERE username = $1`
		args = append(args, username[0])
	}
	query += ` ORDER BY taken_at DESC`

	var rows []struct {
		ID        string    `db:"id"`
		Username  string    `db:"username"`
		ExamTitle string    `db:"exam_title"`
		Score     float64   `db:"score"`
		TakenAt   time.Time `db:"taken_at"`
	}
	if err := repo.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying exam results")
	}
	results := make([]exam.Result, 0, len(rows))
	for _, r := range rows {
		results = append(results, exam.Result{
			ID:        r.ID,
			Username:  r.Username,
			ExamTitle: r.ExamTitle,
			Score:     r.Score,
			TakenAt:   r.TakenAt,
		})
	}
	return results, nil
}
