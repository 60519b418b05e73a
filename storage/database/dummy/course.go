package dummydb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/shulehq/shule/core"
	"github.com/shulehq/shule/core/course"
	"github.com/shulehq/shule/core/professor"
)

type courseRepository struct {
	db *DB
}

var _ course.Repository = (*courseRepository)(nil) // interface compliance check

func NewCourseRepository(db *DB) *courseRepository {
	return &courseRepository{db: db}
}

func (repo *courseRepository) CheckNameUniqueness(_ context.Context, name string, excluded ...course.Course) error {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, crs := range repo.db.courses {
		if crs.Name == name && !courseExcluded(*crs, excluded) {
			return course.ErrNameExists
		}
	}
	return nil
}

func (repo *courseRepository) CreateCourse(_ context.Context, crs course.Course) (course.Course, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	crs.ID = uuid.New().String()
	repo.db.courses[crs.ID] = &crs
	return crs, nil
}

func (repo *courseRepository) GetCourseByID(_ context.Context, id string) (course.Course, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if crs, ok := repo.db.courses[id]; ok {
		return *crs, nil
	}
	return course.Course{}, course.ErrNotFound
}

func (repo *courseRepository) QueryCourses(_ context.Context, filter *course.QueryFilter, ordering []core.DBOrdering) ([]course.Course, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	courses := make([]course.Course, 0, len(repo.db.courses))
	for _, crs := range repo.db.courses {
		if filter != nil && filter.Search != "" && !matchesSearch(filter.Search, crs.Name) {
			continue
		}
		courses = append(courses, *crs)
	}
	sort.Slice(courses, func(i, j int) bool { return courses[i].Name < courses[j].Name })
	return courses, nil
}

func (repo *courseRepository) UpdateCourse(_ context.Context, crs course.Course) (course.Course, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	// only save set fields
	orig, ok := repo.db.courses[crs.ID]
	if !ok {
		return course.Course{}, course.ErrNotFound
	}
	if crs.Name != "" {
		orig.Name = crs.Name
	}
	if crs.CreditHours != 0 {
		orig.CreditHours = crs.CreditHours
	}
	orig.UpdatedAt = crs.UpdatedAt
	return *orig, nil
}

func (repo *courseRepository) DeleteCourse(_ context.Context, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.courses[id]; !ok {
		return course.ErrNotFound
	}
	delete(repo.db.courses, id)
	// cascade: grade, registration and assignment rows go with the course
	for k := range repo.db.grades {
		if k.courseID == id {
			delete(repo.db.grades, k)
		}
	}
	for k, courseIDs := range repo.db.registrations {
		kept := courseIDs[:0]
		for _, cid := range courseIDs {
			if cid != id {
				kept = append(kept, cid)
			}
		}
		if len(kept) == 0 {
			delete(repo.db.registrations, k)
		} else {
			repo.db.registrations[k] = kept
		}
	}
	for asg := range repo.db.assignments {
		if asg.CourseID == id {
			delete(repo.db.assignments, asg)
		}
	}
	return nil
}

func (repo *courseRepository) CreateAssignment(_ context.Context, asg course.Assignment) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.courses[asg.CourseID]; !ok {
		return course.ErrNotFound
	}
	if _, ok := repo.db.professors[asg.ProfessorID]; !ok {
		return professor.ErrNotFound
	}
	if _, ok := repo.db.assignments[asg]; ok {
		return course.ErrAssignmentExists
	}
	repo.db.assignments[asg] = struct{}{}
	return nil
}

func (repo *courseRepository) DeleteAssignment(_ context.Context, asg course.Assignment) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.assignments[asg]; !ok {
		return course.ErrNotFound
	}
	delete(repo.db.assignments, asg)
	return nil
}

func (repo *courseRepository) QueryAssignments(_ context.Context, courseID string) ([]course.Assignment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	asgs := make([]course.Assignment, 0)
	for asg := range repo.db.assignments {
		if asg.CourseID == courseID {
			asgs = append(asgs, asg)
		}
	}
	sort.Slice(asgs, func(i, j int) bool { return asgs[i].ProfessorID < asgs[j].ProfessorID })
	return asgs, nil
}

func courseExcluded(crs course.Course, excluded []course.Course) bool {
	for _, x := range excluded {
		if x.ID == crs.ID {
			return true
		}
	}
	return false
}
