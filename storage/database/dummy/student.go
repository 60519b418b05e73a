package dummydb

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/shulehq/shule/core"
	"github.com/shulehq/shule/core/student"
)

type studentRepository struct {
	db *DB
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db *DB) *studentRepository {
	return &studentRepository{db: db}
}

func (repo *studentRepository) CheckEmailUniqueness(_ context.Context, email string, excluded ...student.Student) error {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, std := range repo.db.students {
		if std.Email == email && !studentExcluded(*std, excluded) {
			return student.ErrEmailExists
		}
	}
	return nil
}

func (repo *studentRepository) CreateStudent(_ context.Context, std student.Student) (student.Student, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	std.ID = uuid.New().String()
	repo.db.students[std.ID] = &std
	return std, nil
}

func (repo *studentRepository) GetStudentByID(_ context.Context, id string) (student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if std, ok := repo.db.students[id]; ok {
		return *std, nil
	}
	return student.Student{}, student.ErrNotFound
}

func (repo *studentRepository) QueryStudents(_ context.Context, filter *student.QueryFilter, ordering []core.DBOrdering) ([]student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	students := make([]student.Student, 0, len(repo.db.students))
	for _, std := range repo.db.students {
		if filter != nil {
			if filter.Search != "" && !matchesSearch(filter.Search, std.Name, std.Email) {
				continue
			}
			if filter.Program != "" && std.Program.String != filter.Program {
				continue
			}
		}
		students = append(students, *std)
	}
	sort.Slice(students, func(i, j int) bool { return students[i].Name < students[j].Name })
	return students, nil
}

func (repo *studentRepository) UpdateStudent(_ context.Context, std student.Student) (student.Student, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	// only save set fields
	orig, ok := repo.db.students[std.ID]
	if !ok {
		return student.Student{}, student.ErrNotFound
	}
	if std.Name != "" {
		orig.Name = std.Name
	}
	if std.Email != "" {
		orig.Email = std.Email
	}
	if std.Program.Valid {
		orig.Program = std.Program
	}
	orig.UpdatedAt = std.UpdatedAt
	return *orig, nil
}

func (repo *studentRepository) DeleteStudent(_ context.Context, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.students[id]; !ok {
		return student.ErrNotFound
	}
	delete(repo.db.students, id)
	// cascade: grade and registration rows go with the student
	for k := range repo.db.grades {
		if k.studentID == id {
			delete(repo.db.grades, k)
		}
	}
	for k := range repo.db.registrations {
		if k.studentID == id {
			delete(repo.db.registrations, k)
		}
	}
	return nil
}

func studentExcluded(std student.Student, excluded []student.Student) bool {
	for _, x := range excluded {
		if x.ID == std.ID {
			return true
		}
	}
	return false
}

func matchesSearch(search string, attrs ...string) bool {
	search = strings.ToLower(search)
	for _, attr := range attrs {
		if strings.Contains(strings.ToLower(attr), search) {
			return true
		}
	}
	return false
}
