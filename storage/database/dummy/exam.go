package dummydb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/shulehq/shule/core/exam"
)

type examRepository struct {
	db *DB
}

var _ exam.Repository = (*examRepository)(nil) // interface compliance check

func NewExamRepository(db *DB) *examRepository {
	return &examRepository{db: db}
}

func (repo *examRepository) CheckUsernameUniqueness(_ context.Context, username string) error {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if _, ok := repo.db.examUsers[username]; ok {
		return exam.ErrUserExists
	}
	return nil
}

func (repo *examRepository) CreateUser(_ context.Context, usr exam.User) (exam.User, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.examUsers[usr.Username]; ok {
		return exam.User{}, exam.ErrUserExists
	}
	repo.db.examUsers[usr.Username] = &usr
	return usr, nil
}

func (repo *examRepository) GetUserByUsername(_ context.Context, username string) (exam.User, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if usr, ok := repo.db.examUsers[username]; ok {
		return *usr, nil
	}
	return exam.User{}, exam.ErrUserNotFound
}

func (repo *examRepository) QueryUsers(_ context.Context) ([]exam.User, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	users := make([]exam.User, 0, len(repo.db.examUsers))
	for _, usr := range repo.db.examUsers {
		users = append(users, *usr)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })
	return users, nil
}

func (repo *examRepository) CheckTitleUniqueness(_ context.Context, title string) error {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if _, ok := repo.db.exams[title]; ok {
		return exam.ErrTitleExists
	}
	return nil
}

func (repo *examRepository) CreateExam(_ context.Context, exm exam.Exam) (exam.Exam, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.exams[exm.Title]; ok {
		return exam.Exam{}, exam.ErrTitleExists
	}
	repo.db.exams[exm.Title] = &exm
	return exm, nil
}

func (repo *examRepository) GetExamByTitle(_ context.Context, title string) (exam.Exam, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if exm, ok := repo.db.exams[title]; ok {
		return *exm, nil
	}
	return exam.Exam{}, exam.ErrExamNotFound
}

func (repo *examRepository) QueryExams(_ context.Context) ([]exam.Exam, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	exams := make([]exam.Exam, 0, len(repo.db.exams))
	for _, exm := range repo.db.exams {
		exams = append(exams, *exm)
	}
	sort.Slice(exams, func(i, j int) bool { return exams[i].Title < exams[j].Title })
	return exams, nil
}

func (repo *examRepository) DeleteExam(_ context.Context, title string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.exams[title]; !ok {
		return exam.ErrExamNotFound
	}
	delete(repo.db.exams, title)
	// cascade: result rows go with the exam
	kept := repo.db.examResults[:0]
	for _, res := range repo.db.examResults {
		if res.ExamTitle != title {
			kept = append(kept, res)
		}
	}
	repo.db.examResults = kept
	return nil
}

func (repo *examRepository) CreateResult(_ context.Context, res exam.Result) (exam.Result, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.examUsers[res.Username]; !ok {
		return exam.Result{}, exam.ErrUserNotFound
	}
	if _, ok := repo.db.exams[res.ExamTitle]; !ok {
		return exam.Result{}, exam.ErrExamNotFound
	}
	res.ID = uuid.New().String()
	repo.db.examResults = append(repo.db.examResults, &res)
	return res, nil
}

func (repo *examRepository) QueryResults(_ context.Context, username ...string) ([]exam.Result, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	results := make([]exam.Result, 0, len(repo.db.examResults))
	for _, res := range repo.db.examResults {
		if len(username) > 0 && res.Username != username[0] {
			continue
		}
		results = append(results, *res)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].TakenAt.After(results[j].TakenAt) })
	return results, nil
}
