package exam_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shulehq/shule/core/exam"
	dummydb "github.com/shulehq/shule/storage/database/dummy"
)

func newService(t *testing.T) *exam.Service {
	t.Helper()

	db, err := dummydb.Open()
	require.NoError(t, err)
	return exam.NewService(dummydb.NewExamRepository(db))
}

func addUser(t *testing.T, svc *exam.Service, username, password, role string) exam.User {
	t.Helper()
	usr, err := svc.AddUser(context.Background(), exam.NewUser{Username: username, Password: password, Role: role})
	require.NoError(t, err)
	return usr
}

func addExam(t *testing.T, svc *exam.Service, title string, questions ...exam.NewQuestion) exam.Exam {
	t.Helper()
	exm, err := svc.CreateExam(context.Background(), exam.NewExam{
		Title:           title,
		DurationMinutes: 30,
		Questions:       questions,
	})
	require.NoError(t, err)
	return exm
}

func question(correct int) exam.NewQuestion {
	return exam.NewQuestion{
		Text:         "?",
		Options:      []string{"a", "b", "c", "d"},
		CorrectIndex: correct,
	}
}

func TestService_Authenticate(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	addUser(t, svc, "amani", "passpass", exam.RoleStudent)

	t.Run("exact credential match", func(t *testing.T) {
		usr, err := svc.Authenticate(ctx, "amani", "passpass")
		require.NoError(t, err)
		assert.Equal(t, "amani", usr.Username)
	})

	t.Run("username is case-insensitive", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, "AMANI", "passpass")
		assert.NoError(t, err)
	})

	t.Run("password is not", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, "amani", "PASSPASS")
		assert.Equal(t, exam.ErrAuthenticationFailed, err)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, "ghost", "passpass")
		assert.Equal(t, exam.ErrAuthenticationFailed, err)
	})
}

func TestService_AddUser(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	addUser(t, svc, "amani", "passpass", exam.RoleStudent)

	t.Run("duplicate username leaves the table unchanged", func(t *testing.T) {
		nu := exam.NewUser{Username: "Amani", Password: "other", Role: exam.RoleStudent}
		err := nu.Validate(svc)
		assert.Error(t, err)

		users, err := svc.Users(ctx)
		require.NoError(t, err)
		assert.Len(t, users, 1)

		// original password still authenticates
		_, err = svc.Authenticate(ctx, "amani", "passpass")
		assert.NoError(t, err)
	})

	t.Run("username is normalized", func(t *testing.T) {
		nu := exam.NewUser{Username: "  ZaWaDi  ", Password: "secret", Role: exam.RoleInstructor}
		require.NoError(t, nu.Validate(svc))

		usr, err := svc.AddUser(ctx, nu)
		require.NoError(t, err)
		assert.Equal(t, "zawadi", usr.Username)
		assert.True(t, usr.IsInstructor())
	})
}

func TestService_Submit(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	addUser(t, svc, "amani", "passpass", exam.RoleStudent)
	addExam(t, svc, "Midterm", question(0), question(1), question(2))

	t.Run("unknown exam", func(t *testing.T) {
		_, err := svc.Submit(ctx, "amani", "Nope", exam.Submission{Answers: []int{0, 1, 2}})
		assert.Equal(t, exam.ErrExamNotFound, err)
	})

	t.Run("answer count must match question count", func(t *testing.T) {
		_, err := svc.Submit(ctx, "amani", "Midterm", exam.Submission{Answers: []int{0}})
		assert.Error(t, err)
	})

	t.Run("score is rounded percent correct", func(t *testing.T) {
		res, err := svc.Submit(ctx, "amani", "Midterm", exam.Submission{Answers: []int{0, 1, 0}})
		require.NoError(t, err)
		assert.Equal(t, "amani", res.Username)
		assert.Equal(t, "Midterm", res.ExamTitle)
		assert.Equal(t, 66.67, res.Score)
	})

	t.Run("all correct and none correct", func(t *testing.T) {
		res, err := svc.Submit(ctx, "amani", "Midterm", exam.Submission{Answers: []int{0, 1, 2}})
		require.NoError(t, err)
		assert.Equal(t, 100.0, res.Score)

		res, err = svc.Submit(ctx, "amani", "Midterm", exam.Submission{Answers: []int{3, 3, 3}})
		require.NoError(t, err)
		assert.Equal(t, 0.0, res.Score)
	})

	t.Run("results accumulate per user", func(t *testing.T) {
		results, err := svc.Results(ctx, "amani")
		require.NoError(t, err)
		assert.Len(t, results, 3)
	})
}

func TestService_CreateExam(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	addExam(t, svc, "Final", question(1), question(2))

	t.Run("duplicate title rejected by validation", func(t *testing.T) {
		ne := exam.NewExam{Title: "Final", DurationMinutes: 30, Questions: []exam.NewQuestion{question(0)}}
		assert.Error(t, ne.Validate(svc))
	})

	t.Run("questions keep their order", func(t *testing.T) {
		exm, err := svc.GetExam(ctx, "Final")
		require.NoError(t, err)
		require.Len(t, exm.Questions, 2)
		assert.Equal(t, 1, exm.Questions[0].CorrectIndex)
		assert.Equal(t, 2, exm.Questions[1].CorrectIndex)
	})

	t.Run("delete cascades results", func(t *testing.T) {
		addUser(t, svc, "amani", "passpass", exam.RoleStudent)
		_, err := svc.Submit(ctx, "amani", "Final", exam.Submission{Answers: []int{1, 2}})
		require.NoError(t, err)

		require.NoError(t, svc.DeleteExam(ctx, "Final"))

		results, err := svc.Results(ctx)
		require.NoError(t, err)
		assert.Empty(t, results)

		_, err = svc.GetExam(ctx, "Final")
		assert.Equal(t, exam.ErrExamNotFound, err)
	})
}
