package dummydb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/shulehq/shule/core"
	"github.com/shulehq/shule/core/professor"
)

type professorRepository struct {
	db *DB
}

var _ professor.Repository = (*professorRepository)(nil) // interface compliance check

func NewProfessorRepository(db *DB) *professorRepository {
	return &professorRepository{db: db}
}

func (repo *professorRepository) CheckEmailUniqueness(_ context.Context, email string, excluded ...professor.Professor) error {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, prof := range repo.db.professors {
		if prof.Email == email && !professorExcluded(*prof, excluded) {
			return professor.ErrEmailExists
		}
	}
	return nil
}

func (repo *professorRepository) CreateProfessor(_ context.Context, prof professor.Professor) (professor.Professor, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	prof.ID = uuid.New().String()
	repo.db.professors[prof.ID] = &prof
	return prof, nil
}

func (repo *professorRepository) GetProfessorByID(_ context.Context, id string) (professor.Professor, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if prof, ok := repo.db.professors[id]; ok {
		return *prof, nil
	}
	return professor.Professor{}, professor.ErrNotFound
}

func (repo *professorRepository) QueryProfessors(_ context.Context, filter *professor.QueryFilter, ordering []core.DBOrdering) ([]professor.Professor, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	profs := make([]professor.Professor, 0, len(repo.db.professors))
	for _, prof := range repo.db.professors {
		if filter != nil {
			if filter.Search != "" && !matchesSearch(filter.Search, prof.FirstName, prof.LastName, prof.Email) {
				continue
			}
			if filter.Department != "" && prof.Department != filter.Department {
				continue
			}
		}
		profs = append(profs, *prof)
	}
	sort.Slice(profs, func(i, j int) bool { return profs[i].LastName < profs[j].LastName })
	return profs, nil
}

func (repo *professorRepository) UpdateProfessor(_ context.Context, prof professor.Professor) (professor.Professor, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	// only save set fields
	orig, ok := repo.db.professors[prof.ID]
	if !ok {
		return professor.Professor{}, professor.ErrNotFound
	}
	if prof.FirstName != "" {
		orig.FirstName = prof.FirstName
	}
	if prof.LastName != "" {
		orig.LastName = prof.LastName
	}
	if prof.Department != "" {
		orig.Department = prof.Department
	}
	if prof.Email != "" {
		orig.Email = prof.Email
	}
	orig.UpdatedAt = prof.UpdatedAt
	return *orig, nil
}

func (repo *professorRepository) DeleteProfessor(_ context.Context, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.professors[id]; !ok {
		return professor.ErrNotFound
	}
	delete(repo.db.professors, id)
	// cascade: assignment rows go with the professor
	for asg := range repo.db.assignments {
		if asg.ProfessorID == id {
			delete(repo.db.assignments, asg)
		}
	}
	return nil
}

func professorExcluded(prof professor.Professor, excluded []professor.Professor) bool {
	for _, x := range excluded {
		if x.ID == prof.ID {
			return true
		}
	}
	return false
}
