package exam

import (
	"time"

	"github.com/shulehq/shule/core"
)

// Roles
const (
	RoleStudent    = "student"
	RoleInstructor = "instructor"
)

// User is an exam-system account. Passwords are stored and compared as
// provided — an insecure legacy policy kept for compatibility with the data
// this system inherits. Do not reuse outside a sandbox.
type User struct {
	Username  string    `json:"username"`
	Password  string    `json:"-"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"` // UTC
}

func (u User) IsInstructor() bool { return u.Role == RoleInstructor }

type Question struct {
	Text         string   `json:"text"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correct_index"`
}

type Exam struct {
	Title           string     `json:"title"`
	DurationMinutes int        `json:"duration_minutes"`
	Questions       []Question `json:"questions"`
	CreatedAt       time.Time  `json:"created_at"` // UTC
}

type Result struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	ExamTitle string    `json:"exam_title"`
	Score     float64   `json:"score"`
	TakenAt   time.Time `json:"taken_at"` // UTC
}

// NewUser contains information needed to create a new exam User.
type NewUser struct {
	Username string `json:"username" validate:"required,min=3,alphanum_"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"required,oneof=student instructor"`
}

func (nu *NewUser) Validate(svc *Service) error {
	nu.Username = core.CleanString(nu.Username, true /* lower */)
	nu.Role = core.CleanString(nu.Role, true /* lower */)

	if err := core.Validate.Struct(nu); err != nil {
		return err
	}
	return svc.checkUniqueness(nu.Username)
}

// NewQuestion is one question of a NewExam.
type NewQuestion struct {
	Text         string   `json:"text" validate:"required"`
	Options      []string `json:"options" validate:"required,len=4,dive,required"`
	CorrectIndex int      `json:"correct_index" validate:"gte=0,lte=3"`
}

// NewExam contains information needed to create a new Exam.
type NewExam struct {
	Title           string        `json:"title" validate:"required"`
	DurationMinutes int           `json:"duration_minutes" validate:"required,gt=0"`
	Questions       []NewQuestion `json:"questions" validate:"required,min=1,dive"`
}

func (ne *NewExam) Validate(svc *Service) error {
	ne.Title = core.CleanString(ne.Title)

	if err := core.Validate.Struct(ne); err != nil {
		return err
	}
	return svc.checkTitleUniqueness(ne.Title)
}

// Submission is a student's answer sheet for one exam: the chosen option
// index per question, in question order.
type Submission struct {
	Answers []int `json:"answers" validate:"required,min=1,dive,gte=0,lte=3"`
}

func (s *Submission) Validate() error {
	return core.Validate.Struct(s)
}
