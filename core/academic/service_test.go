package academic_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shulehq/shule/core/academic"
	"github.com/shulehq/shule/core/course"
	"github.com/shulehq/shule/core/student"
	dummymail "github.com/shulehq/shule/services/email/dummy"
	dummydb "github.com/shulehq/shule/storage/database/dummy"
)

type fixture struct {
	svc        *academic.Service
	studentSvc *student.Service
	courseSvc  *course.Service
	mailSvc    *dummymail.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := dummydb.Open()
	require.NoError(t, err)

	mailSvc := dummymail.NewService()
	studentSvc := student.NewService(dummydb.NewStudentRepository(db))
	return &fixture{
		svc:        academic.NewService(dummydb.NewAcademicRepository(db), studentSvc, mailSvc),
		studentSvc: studentSvc,
		courseSvc:  course.NewService(dummydb.NewCourseRepository(db)),
		mailSvc:    mailSvc,
	}
}

func (f *fixture) student(t *testing.T, name, email string) student.Student {
	t.Helper()
	std, err := f.studentSvc.Create(context.Background(), student.NewStudent{Name: name, Email: email})
	require.NoError(t, err)
	return std
}

func (f *fixture) course(t *testing.T, name string, credits int) course.Course {
	t.Helper()
	crs, err := f.courseSvc.Create(context.Background(), course.NewCourse{Name: name, CreditHours: credits})
	require.NoError(t, err)
	return crs
}

func TestService_SetGrade(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	std := f.student(t, "Amani", "amani@test.cd")
	crs := f.course(t, "Algorithms", 4)

	t.Run("out of range rejected", func(t *testing.T) {
		_, err := f.svc.SetGrade(ctx, std.ID, crs.ID, 1, 10.5)
		assert.Error(t, err)
		_, err = f.svc.SetGrade(ctx, std.ID, crs.ID, 1, -1)
		assert.Error(t, err)
	})

	t.Run("non-positive semester rejected", func(t *testing.T) {
		_, err := f.svc.SetGrade(ctx, std.ID, crs.ID, 0, 8)
		assert.Error(t, err)
	})

	t.Run("unknown student or course rejected", func(t *testing.T) {
		_, err := f.svc.SetGrade(ctx, "e1aafe43-4db9-4487-9ba6-1a1ae2299ff7", crs.ID, 1, 8)
		assert.Equal(t, academic.ErrNotFound, err)
		_, err = f.svc.SetGrade(ctx, std.ID, "e1aafe43-4db9-4487-9ba6-1a1ae2299ff7", 1, 8)
		assert.Equal(t, academic.ErrNotFound, err)
	})

	t.Run("setting the same triple twice updates in place", func(t *testing.T) {
		first, err := f.svc.SetGrade(ctx, std.ID, crs.ID, 1, 6)
		require.NoError(t, err)

		second, err := f.svc.SetGrade(ctx, std.ID, crs.ID, 1, 9)
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, 9.0, second.GradePoint)

		entries, err := f.svc.Grades(ctx, std.ID)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, 9.0, entries[0].GradePoint)
	})

	t.Run("same course in another semester is a separate row", func(t *testing.T) {
		_, err := f.svc.SetGrade(ctx, std.ID, crs.ID, 2, 7)
		require.NoError(t, err)

		entries, err := f.svc.Grades(ctx, std.ID)
		require.NoError(t, err)
		assert.Len(t, entries, 2)
	})
}

func TestService_Register(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	std := f.student(t, "Amani", "amani@test.cd")
	algo := f.course(t, "Algorithms", 4)
	calc := f.course(t, "Calculus", 3)

	t.Run("unknown student rejected", func(t *testing.T) {
		_, err := f.svc.Register(ctx, "e1aafe43-4db9-4487-9ba6-1a1ae2299ff7",
			academic.RegisterInput{Semester: 1, CourseIDs: []string{algo.ID}})
		assert.Equal(t, student.ErrNotFound, err)
	})

	t.Run("duplicate course ids collapse", func(t *testing.T) {
		reg, err := f.svc.Register(ctx, std.ID,
			academic.RegisterInput{Semester: 1, CourseIDs: []string{algo.ID, algo.ID, calc.ID}})
		require.NoError(t, err)
		assert.Equal(t, []string{algo.ID, calc.ID}, reg.CourseIDs)
	})

	t.Run("re-registering replaces the semester's set only", func(t *testing.T) {
		_, err := f.svc.Register(ctx, std.ID, academic.RegisterInput{Semester: 2, CourseIDs: []string{algo.ID}})
		require.NoError(t, err)

		_, err = f.svc.Register(ctx, std.ID, academic.RegisterInput{Semester: 1, CourseIDs: []string{calc.ID}})
		require.NoError(t, err)

		regs, err := f.svc.Registrations(ctx, std.ID)
		require.NoError(t, err)
		require.Len(t, regs, 2)
		assert.Equal(t, []string{calc.ID}, regs[0].CourseIDs)
		assert.Equal(t, []string{algo.ID}, regs[1].CourseIDs)
	})

	t.Run("confirmation email per registration", func(t *testing.T) {
		assert.Len(t, f.mailSvc.SentMessages, 3)
	})
}

func TestService_Transcript(t *testing.T) {
	ctx := context.Background()

	t.Run("no grade rows", func(t *testing.T) {
		f := newFixture(t)
		std := f.student(t, "Amani", "amani@test.cd")

		_, err := f.svc.Transcript(ctx, std.ID)
		assert.Equal(t, academic.ErrNoData, err)
	})

	t.Run("unknown student", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.Transcript(ctx, "e1aafe43-4db9-4487-9ba6-1a1ae2299ff7")
		assert.Equal(t, student.ErrNotFound, err)
	})

	t.Run("single semester CGPA equals its SGPA", func(t *testing.T) {
		f := newFixture(t)
		std := f.student(t, "Amani", "amani@test.cd")
		algo := f.course(t, "Algorithms", 4)
		calc := f.course(t, "Calculus", 3)

		_, err := f.svc.SetGrade(ctx, std.ID, algo.ID, 1, 8)
		require.NoError(t, err)
		_, err = f.svc.SetGrade(ctx, std.ID, calc.ID, 1, 6)
		require.NoError(t, err)

		tr, err := f.svc.Transcript(ctx, std.ID)
		require.NoError(t, err)
		require.Len(t, tr.Semesters, 1)
		assert.InDelta(t, 50.0/7, tr.Semesters[0].SGPA, 1e-9)
		assert.InDelta(t, tr.Semesters[0].SGPA, tr.CGPA, 1e-9)
		assert.Equal(t, 7, tr.TotalCredits)
	})

	t.Run("uniform credits degenerate to the plain mean", func(t *testing.T) {
		f := newFixture(t)
		std := f.student(t, "Amani", "amani@test.cd")
		a := f.course(t, "A", 3)
		b := f.course(t, "B", 3)
		c := f.course(t, "C", 3)

		for i, crs := range []course.Course{a, b, c} {
			_, err := f.svc.SetGrade(ctx, std.ID, crs.ID, 1, float64(6+i))
			require.NoError(t, err)
		}

		tr, err := f.svc.Transcript(ctx, std.ID)
		require.NoError(t, err)
		assert.InDelta(t, 7.0, tr.CGPA, 1e-9)
	})

	t.Run("multi semester weighting", func(t *testing.T) {
		f := newFixture(t)
		std := f.student(t, "Amani", "amani@test.cd")
		algo := f.course(t, "Algorithms", 4)
		calc := f.course(t, "Calculus", 3)
		db := f.course(t, "Databases", 3)
		net := f.course(t, "Networks", 4)

		for _, g := range []struct {
			crs      course.Course
			semester int
			point    float64
		}{
			{algo, 1, 8},
			{calc, 1, 6},
			{db, 2, 9},
			{net, 2, 8},
		} {
			_, err := f.svc.SetGrade(ctx, std.ID, g.crs.ID, g.semester, g.point)
			require.NoError(t, err)
		}

		tr, err := f.svc.Transcript(ctx, std.ID)
		require.NoError(t, err)
		require.Len(t, tr.Semesters, 2)
		assert.Equal(t, 1, tr.Semesters[0].Semester)
		assert.InDelta(t, 50.0/7, tr.Semesters[0].SGPA, 1e-9)
		assert.InDelta(t, 59.0/7, tr.Semesters[1].SGPA, 1e-9)
		assert.Equal(t, 14, tr.TotalCredits)
		assert.InDelta(t, 109.0/14, tr.CGPA, 1e-9)
	})

	t.Run("deleting a course drops its grade rows from the transcript", func(t *testing.T) {
		f := newFixture(t)
		std := f.student(t, "Amani", "amani@test.cd")
		algo := f.course(t, "Algorithms", 4)
		calc := f.course(t, "Calculus", 3)

		_, err := f.svc.SetGrade(ctx, std.ID, algo.ID, 1, 8)
		require.NoError(t, err)
		_, err = f.svc.SetGrade(ctx, std.ID, calc.ID, 1, 6)
		require.NoError(t, err)

		require.NoError(t, f.courseSvc.Delete(ctx, calc.ID))

		tr, err := f.svc.Transcript(ctx, std.ID)
		require.NoError(t, err)
		assert.Equal(t, 4, tr.TotalCredits)
		assert.InDelta(t, 8.0, tr.CGPA, 1e-9)
	})
}

func TestSetGradeInput_Validate(t *testing.T) {
	tests := []struct {
		name    string
		in      academic.SetGradeInput
		wantErr bool
		want    float64
	}{
		{name: "point only", in: academic.SetGradeInput{CourseID: "c", Semester: 1, GradePoint: fPtr(7.5)}, want: 7.5},
		{name: "letter only", in: academic.SetGradeInput{CourseID: "c", Semester: 1, Letter: "BC"}, want: 7},
		{name: "letter is case-insensitive", in: academic.SetGradeInput{CourseID: "c", Semester: 1, Letter: "aa"}, want: 10},
		{name: "failing letter", in: academic.SetGradeInput{CourseID: "c", Semester: 1, Letter: "FF"}, want: 0},
		{name: "neither", in: academic.SetGradeInput{CourseID: "c", Semester: 1}, wantErr: true},
		{name: "both", in: academic.SetGradeInput{CourseID: "c", Semester: 1, GradePoint: fPtr(7), Letter: "AA"}, wantErr: true},
		{name: "unknown letter", in: academic.SetGradeInput{CourseID: "c", Semester: 1, Letter: "XY"}, wantErr: true},
		{name: "point out of range", in: academic.SetGradeInput{CourseID: "c", Semester: 1, GradePoint: fPtr(11)}, wantErr: true},
		{name: "missing semester", in: academic.SetGradeInput{CourseID: "c", GradePoint: fPtr(7)}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.in.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, tt.in.Points())
		})
	}
}

func fPtr(f float64) *float64 { return &f }
