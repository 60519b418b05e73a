package academic

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"sort"
	"time"

	"github.com/shulehq/shule/core"
	"github.com/shulehq/shule/core/student"
)

var (
	ErrNotFound = errors.New("record not found")
	// ErrNoData is returned when aggregation is requested for a student with
	// no grade rows; distinguished from a valid zero result.
	ErrNoData = errors.New("student has no academic records")

	errGradeInput    = errors.New("exactly one of grade_point or letter is required")
	errUnknownLetter = errors.New("unknown letter grade")
)

type (
	Repository interface {
		// UpsertGrade inserts the grade or, if a row already exists for the
		// (student, course, semester) triple, updates it in place.
		UpsertGrade(ctx context.Context, grd Grade) (Grade, error)
		QueryGradeEntries(ctx context.Context, studentID string, semester ...int) ([]GradeEntry, error)
		DeleteGrade(ctx context.Context, studentID, courseID string, semester int) error

		// ReplaceRegistration atomically swaps the course set registered for
		// the (student, semester) pair; registrations for other semesters are
		// left untouched.
		ReplaceRegistration(ctx context.Context, reg Registration) (Registration, error)
		GetRegistration(ctx context.Context, studentID string, semester int) (Registration, error)
		QueryRegistrations(ctx context.Context, studentID string) ([]Registration, error)
		DeleteRegistration(ctx context.Context, studentID string, semester int) error
	}

	// StudentDirectory resolves student records for reference checks and
	// notification addressing.
	StudentDirectory interface {
		GetByID(ctx context.Context, id string) (student.Student, error)
	}

	Service struct {
		repo     Repository
		students StudentDirectory
		mailSvc  core.EmailService
	}
)

func NewService(repo Repository, students StudentDirectory, mailSvc core.EmailService) *Service {
	return &Service{repo: repo, students: students, mailSvc: mailSvc}
}

// SetGrade records gradePoint for the student/course/semester, replacing any
// previous entry for the same triple.
func (svc *Service) SetGrade(ctx context.Context, studentID, courseID string, semester int, gradePoint float64) (Grade, error) {
	if semester <= 0 {
		return Grade{}, core.NewValidationError(errors.New("semester must be positive"),
			core.FieldError{Field: "semester", Error: "must be positive"})
	}
	if gradePoint < 0 || gradePoint > ScaleMax {
		return Grade{}, core.NewValidationError(errors.New("grade point out of range"),
			core.FieldError{Field: "grade_point", Error: fmt.Sprintf("must be between 0 and %g", ScaleMax)})
	}

	now := time.Now().UTC()
	grd := Grade{
		StudentID:  studentID,
		CourseID:   courseID,
		Semester:   semester,
		GradePoint: gradePoint,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	return svc.repo.UpsertGrade(ctx, grd)
}

// Grades returns the student's grade entries joined with course credit hours,
// optionally restricted to one semester.
func (svc *Service) Grades(ctx context.Context, studentID string, semester ...int) ([]GradeEntry, error) {
	if _, err := svc.students.GetByID(ctx, studentID); err != nil {
		return nil, err
	}
	return svc.repo.QueryGradeEntries(ctx, studentID, semester...)
}

func (svc *Service) DeleteGrade(ctx context.Context, studentID, courseID string, semester int) error {
	return svc.repo.DeleteGrade(ctx, studentID, courseID, semester)
}

// Register replaces the student's course registration for the given semester
// and sends a confirmation email. Course sets for other semesters are not
// affected.
func (svc *Service) Register(ctx context.Context, studentID string, in RegisterInput) (Registration, error) {
	std, err := svc.students.GetByID(ctx, studentID)
	if err != nil {
		return Registration{}, err
	}

	reg, err := svc.repo.ReplaceRegistration(ctx, Registration{
		StudentID: studentID,
		Semester:  in.Semester,
		CourseIDs: dedupe(in.CourseIDs),
	})
	if err != nil {
		return Registration{}, err
	}

	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:      []mail.Address{{Name: std.Name, Address: std.Email}},
		Subject: fmt.Sprintf("Registration confirmed for semester %d", reg.Semester),
		BodyStr: fmt.Sprintf(
			"Hi %s,\n\nYour registration for semester %d has been recorded: %d course(s).\n",
			std.Name, reg.Semester, len(reg.CourseIDs),
		),
	})
	return reg, nil
}

func (svc *Service) GetRegistration(ctx context.Context, studentID string, semester int) (Registration, error) {
	return svc.repo.GetRegistration(ctx, studentID, semester)
}

func (svc *Service) Registrations(ctx context.Context, studentID string) ([]Registration, error) {
	if _, err := svc.students.GetByID(ctx, studentID); err != nil {
		return nil, err
	}
	return svc.repo.QueryRegistrations(ctx, studentID)
}

func (svc *Service) Unregister(ctx context.Context, studentID string, semester int) error {
	return svc.repo.DeleteRegistration(ctx, studentID, semester)
}

// Transcript derives SGPA per semester and the cumulative GPA for one student,
// strictly from grade entries joined with course credit hours.
//
// SGPA(S) is the credit-weighted mean of grade points within semester S. The
// CGPA is the credit-weighted mean of per-semester SGPAs, weighted by each
// semester's total credit load. Nothing is cached; every call recomputes from
// the ledger.
func (svc *Service) Transcript(ctx context.Context, studentID string) (Transcript, error) {
	if _, err := svc.students.GetByID(ctx, studentID); err != nil {
		return Transcript{}, err
	}

	entries, err := svc.repo.QueryGradeEntries(ctx, studentID)
	if err != nil {
		return Transcript{}, err
	}
	if len(entries) == 0 {
		return Transcript{}, ErrNoData
	}

	bySemester := make(map[int][]GradeEntry)
	for _, e := range entries {
		bySemester[e.Semester] = append(bySemester[e.Semester], e)
	}
	semesters := make([]int, 0, len(bySemester))
	for s := range bySemester {
		semesters = append(semesters, s)
	}
	sort.Ints(semesters)

	tr := Transcript{StudentID: studentID}
	var weightedSum float64
	for _, sem := range semesters {
		var credits int
		var pts float64
		for _, e := range bySemester[sem] {
			credits += e.CreditHours
			pts += e.GradePoint * float64(e.CreditHours)
		}
		// a zero-credit semester cannot be weighted; it contributes no SGPA
		// row and is excluded from the CGPA
		if credits == 0 {
			continue
		}
		sgpa := pts / float64(credits)
		tr.Semesters = append(tr.Semesters, SemesterSummary{Semester: sem, SGPA: sgpa, Credits: credits})
		weightedSum += sgpa * float64(credits)
		tr.TotalCredits += credits
	}
	if tr.TotalCredits == 0 {
		return Transcript{}, ErrNoData
	}
	tr.CGPA = weightedSum / float64(tr.TotalCredits)
	return tr, nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
