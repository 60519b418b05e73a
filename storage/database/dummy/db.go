// Package dummydb is an in-memory implementation of the domain repositories,
// used by tests and local tinkering. A single lock guards all tables so
// cascading deletes are atomic.
package dummydb

import (
	"sync"

	"github.com/shulehq/shule/core/academic"
	"github.com/shulehq/shule/core/course"
	"github.com/shulehq/shule/core/exam"
	"github.com/shulehq/shule/core/professor"
	"github.com/shulehq/shule/core/student"
)

type (
	gradeKey struct {
		studentID string
		courseID  string
		semester  int
	}

	regKey struct {
		studentID string
		semester  int
	}

	DB struct {
		sync.RWMutex
		students      map[string]*student.Student
		professors    map[string]*professor.Professor
		courses       map[string]*course.Course
		assignments   map[course.Assignment]struct{}
		grades        map[gradeKey]*academic.Grade
		registrations map[regKey][]string
		examUsers     map[string]*exam.User
		exams         map[string]*exam.Exam
		examResults   []*exam.Result
	}
)

func Open() (*DB, error) {
	db := &DB{
		students:      make(map[string]*student.Student),
		professors:    make(map[string]*professor.Professor),
		courses:       make(map[string]*course.Course),
		assignments:   make(map[course.Assignment]struct{}),
		grades:        make(map[gradeKey]*academic.Grade),
		registrations: make(map[regKey][]string),
		examUsers:     make(map[string]*exam.User),
		exams:         make(map[string]*exam.Exam),
	}
	return db, nil
}
