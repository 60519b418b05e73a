package dummydb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/shulehq/shule/core/academic"
)

type academicRepository struct {
	db *DB
}

var _ academic.Repository = (*academicRepository)(nil) // interface compliance check

func NewAcademicRepository(db *DB) *academicRepository {
	return &academicRepository{db: db}
}

func (repo *academicRepository) UpsertGrade(_ context.Context, grd academic.Grade) (academic.Grade, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.students[grd.StudentID]; !ok {
		return academic.Grade{}, academic.ErrNotFound
	}
	if _, ok := repo.db.courses[grd.CourseID]; !ok {
		return academic.Grade{}, academic.ErrNotFound
	}

	key := gradeKey{studentID: grd.StudentID, courseID: grd.CourseID, semester: grd.Semester}
	if orig, ok := repo.db.grades[key]; ok {
		orig.GradePoint = grd.GradePoint
		orig.UpdatedAt = grd.UpdatedAt
		return *orig, nil
	}
	grd.ID = uuid.New().String()
	repo.db.grades[key] = &grd
	return grd, nil
}

func (repo *academicRepository) QueryGradeEntries(_ context.Context, studentID string, semester ...int) ([]academic.GradeEntry, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	entries := make([]academic.GradeEntry, 0)
	for key, grd := range repo.db.grades {
		if key.studentID != studentID {
			continue
		}
		if len(semester) > 0 && key.semester != semester[0] {
			continue
		}
		crs, ok := repo.db.courses[key.courseID]
		if !ok {
			continue
		}
		entries = append(entries, academic.GradeEntry{
			CourseID:    crs.ID,
			CourseName:  crs.Name,
			Semester:    grd.Semester,
			GradePoint:  grd.GradePoint,
			CreditHours: crs.CreditHours,
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Semester != entries[j].Semester {
			return entries[i].Semester < entries[j].Semester
		}
		return entries[i].CourseName < entries[j].CourseName
	})
	return entries, nil
}

func (repo *academicRepository) DeleteGrade(_ context.Context, studentID, courseID string, semester int) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	key := gradeKey{studentID: studentID, courseID: courseID, semester: semester}
	if _, ok := repo.db.grades[key]; !ok {
		return academic.ErrNotFound
	}
	delete(repo.db.grades, key)
	return nil
}

func (repo *academicRepository) ReplaceRegistration(_ context.Context, reg academic.Registration) (academic.Registration, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.students[reg.StudentID]; !ok {
		return academic.Registration{}, academic.ErrNotFound
	}
	for _, courseID := range reg.CourseIDs {
		if _, ok := repo.db.courses[courseID]; !ok {
			return academic.Registration{}, academic.ErrNotFound
		}
	}

	courseIDs := make([]string, len(reg.CourseIDs))
	copy(courseIDs, reg.CourseIDs)
	repo.db.registrations[regKey{studentID: reg.StudentID, semester: reg.Semester}] = courseIDs
	return reg, nil
}

func (repo *academicRepository) GetRegistration(_ context.Context, studentID string, semester int) (academic.Registration, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	courseIDs, ok := repo.db.registrations[regKey{studentID: studentID, semester: semester}]
	if !ok {
		return academic.Registration{}, academic.ErrNotFound
	}
	out := make([]string, len(courseIDs))
	copy(out, courseIDs)
	return academic.Registration{StudentID: studentID, Semester: semester, CourseIDs: out}, nil
}

func (repo *academicRepository) QueryRegistrations(_ context.Context, studentID string) ([]academic.Registration, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	regs := make([]academic.Registration, 0)
	for key, courseIDs := range repo.db.registrations {
		if key.studentID != studentID {
			continue
		}
		out := make([]string, len(courseIDs))
		copy(out, courseIDs)
		regs = append(regs, academic.Registration{StudentID: studentID, Semester: key.semester, CourseIDs: out})
	}
	sort.Slice(regs, func(i, j int) bool { return regs[i].Semester < regs[j].Semester })
	return regs, nil
}

func (repo *academicRepository) DeleteRegistration(_ context.Context, studentID string, semester int) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	key := regKey{studentID: studentID, semester: semester}
	if _, ok := repo.db.registrations[key]; !ok {
		return academic.ErrNotFound
	}
	delete(repo.db.registrations, key)
	return nil
}
