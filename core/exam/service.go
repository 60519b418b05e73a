package exam

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/shulehq/shule/core"
)

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrUserExists           = errors.New("a user with this username already exists")
	ErrExamNotFound         = errors.New("exam not found")
	ErrTitleExists          = errors.New("an exam with this title already exists")
	ErrAuthenticationFailed = errors.New("authentication failed")

	errAnswerCount = errors.New("answer count does not match question count")
)

type (
	Repository interface {
		CheckUsernameUniqueness(ctx context.Context, username string) error
		CreateUser(ctx context.Context, usr User) (User, error)
		GetUserByUsername(ctx context.Context, username string) (User, error)
		QueryUsers(ctx context.Context) ([]User, error)

		CheckTitleUniqueness(ctx context.Context, title string) error
		// CreateExam stores the exam and its questions atomically.
		CreateExam(ctx context.Context, exm Exam) (Exam, error)
		GetExamByTitle(ctx context.Context, title string) (Exam, error)
		QueryExams(ctx context.Context) ([]Exam, error)
		DeleteExam(ctx context.Context, title string) error

		CreateResult(ctx context.Context, res Result) (Result, error)
		// QueryResults returns all results, or one user's when username is given.
		QueryResults(ctx context.Context, username ...string) ([]Result, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) checkUniqueness(username string) error {
	if err := svc.repo.CheckUsernameUniqueness(context.Background(), username); err != nil {
		if err == ErrUserExists {
			return core.NewValidationError(err, core.FieldError{Field: "username", Error: err.Error()})
		}
		return err
	}
	return nil
}

func (svc *Service) checkTitleUniqueness(title string) error {
	if err := svc.repo.CheckTitleUniqueness(context.Background(), title); err != nil {
		if err == ErrTitleExists {
			return core.NewValidationError(err, core.FieldError{Field: "title", Error: err.Error()})
		}
		return err
	}
	return nil
}

// Authenticate scans for an exact match on both username and password.
// Passwords are compared in plaintext; see the User doc for the policy note.
func (svc *Service) Authenticate(ctx context.Context, username, password string) (User, error) {
	usr, err := svc.repo.GetUserByUsername(ctx, core.CleanString(username, true /* lower */))
	if err != nil || usr.Password != password {
		return User{}, ErrAuthenticationFailed
	}
	return usr, nil
}

func (svc *Service) AddUser(ctx context.Context, nu NewUser) (User, error) {
	usr := User{
		Username:  nu.Username,
		Password:  nu.Password,
		Role:      nu.Role,
		CreatedAt: time.Now().UTC(),
	}
	return svc.repo.CreateUser(ctx, usr)
}

func (svc *Service) GetUser(ctx context.Context, username string) (User, error) {
	return svc.repo.GetUserByUsername(ctx, core.CleanString(username, true /* lower */))
}

func (svc *Service) Users(ctx context.Context) ([]User, error) {
	return svc.repo.QueryUsers(ctx)
}

func (svc *Service) CreateExam(ctx context.Context, ne NewExam) (Exam, error) {
	questions := make([]Question, 0, len(ne.Questions))
	for _, q := range ne.Questions {
		questions = append(questions, Question{
			Text:         q.Text,
			Options:      q.Options,
			CorrectIndex: q.CorrectIndex,
		})
	}
	exm := Exam{
		Title:           ne.Title,
		DurationMinutes: ne.DurationMinutes,
		Questions:       questions,
		CreatedAt:       time.Now().UTC(),
	}
	return svc.repo.CreateExam(ctx, exm)
}

func (svc *Service) GetExam(ctx context.Context, title string) (Exam, error) {
	return svc.repo.GetExamByTitle(ctx, title)
}

func (svc *Service) Exams(ctx context.Context) ([]Exam, error) {
	return svc.repo.QueryExams(ctx)
}

func (svc *Service) DeleteExam(ctx context.Context, title string) error {
	return svc.repo.DeleteExam(ctx, title)
}

// Submit grades the answer sheet against the exam's questions and records the
// result. Score is the percentage of correct answers, rounded to 2 decimals.
func (svc *Service) Submit(ctx context.Context, username, examTitle string, sub Submission) (Result, error) {
	exm, err := svc.repo.GetExamByTitle(ctx, examTitle)
	if err != nil {
		return Result{}, err
	}
	if len(sub.Answers) != len(exm.Questions) {
		return Result{}, core.NewValidationError(errAnswerCount,
			core.FieldError{Field: "answers", Error: errAnswerCount.Error()})
	}

	var correct int
	for i, q := range exm.Questions {
		if sub.Answers[i] == q.CorrectIndex {
			correct++
		}
	}
	score := math.Round(100*float64(correct)/float64(len(exm.Questions))*100) / 100

	res := Result{
		Username:  username,
		ExamTitle: exm.Title,
		Score:     score,
		TakenAt:   time.Now().UTC(),
	}
	return svc.repo.CreateResult(ctx, res)
}

func (svc *Service) Results(ctx context.Context, username ...string) ([]Result, error) {
	return svc.repo.QueryResults(ctx, username...)
}
