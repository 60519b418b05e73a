package academic

import (
	"time"

	"github.com/shulehq/shule/core"
)

// Grade is the authoritative (student, course, semester) -> grade-point entry.
// At most one row exists per triple; writes upsert, never duplicate.
type Grade struct {
	ID         string    `json:"id"`
	StudentID  string    `json:"student_id"`
	CourseID   string    `json:"course_id"`
	Semester   int       `json:"semester"`
	GradePoint float64   `json:"grade_point"`
	CreatedAt  time.Time `json:"created_at"` // UTC
	UpdatedAt  time.Time `json:"updated_at"` // UTC
}

// GradeEntry is a Grade joined with its Course for credit weighting.
type GradeEntry struct {
	CourseID    string  `json:"course_id"`
	CourseName  string  `json:"course_name"`
	Semester    int     `json:"semester"`
	GradePoint  float64 `json:"grade_point"`
	CreditHours int     `json:"credit_hours"`
}

// Registration is the set of courses a student is registered for in one semester.
// One logical record per (student, semester); registering again replaces the
// course set for that semester only, other semesters are independent records.
type Registration struct {
	StudentID string   `json:"student_id"`
	Semester  int      `json:"semester"`
	CourseIDs []string `json:"course_ids"`
}

// SemesterSummary is one row of a transcript.
type SemesterSummary struct {
	Semester int     `json:"semester"`
	SGPA     float64 `json:"sgpa"`
	Credits  int     `json:"credits"`
}

// Transcript is the aggregation output for one student: per-semester SGPA
// rows in ascending semester order plus the cumulative GPA.
type Transcript struct {
	StudentID    string            `json:"student_id"`
	Semesters    []SemesterSummary `json:"semesters"`
	CGPA         float64           `json:"cgpa"`
	TotalCredits int               `json:"total_credits"`
}

// SetGradeInput records or replaces a grade for a course in a semester.
// Exactly one of GradePoint or Letter must be provided.
type SetGradeInput struct {
	CourseID   string   `json:"course_id" validate:"required"`
	Semester   int      `json:"semester" validate:"required,gt=0"`
	GradePoint *float64 `json:"grade_point" validate:"omitempty,gte=0,lte=10"`
	Letter     string   `json:"letter" validate:"omitempty"`
}

func (in *SetGradeInput) Validate() error {
	in.Letter = core.CleanString(in.Letter, true /* lower */)

	if err := core.Validate.Struct(in); err != nil {
		return err
	}
	if (in.GradePoint == nil) == (in.Letter == "") {
		return core.NewValidationError(errGradeInput,
			core.FieldError{Field: "grade_point", Error: errGradeInput.Error()})
	}
	if in.Letter != "" {
		if _, ok := PointsForLetter(in.Letter); !ok {
			return core.NewValidationError(errUnknownLetter,
				core.FieldError{Field: "letter", Error: errUnknownLetter.Error()})
		}
	}
	return nil
}

// Points resolves the input to a numeric grade point.
// Validate must have been called first.
func (in SetGradeInput) Points() float64 {
	if in.GradePoint != nil {
		return *in.GradePoint
	}
	pts, _ := PointsForLetter(in.Letter)
	return pts
}

// RegisterInput replaces a student's course registration for one semester.
type RegisterInput struct {
	Semester  int      `json:"semester" validate:"required,gt=0"`
	CourseIDs []string `json:"course_ids" validate:"required,min=1,dive,required"`
}

func (in *RegisterInput) Validate() error {
	return core.Validate.Struct(in)
}
