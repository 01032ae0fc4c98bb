package inmemdb

import (
	"context"

	"github.com/mhue26/Sample-sub000/core"
	"github.com/mhue26/Sample-sub000/core/student"
)

type studentRepository struct {
	db *DB
}

var _ student.Repository = (*studentRepository)(nil)

func NewStudentRepository(db *DB) student.Repository {
	return &studentRepository{db: db}
}

func studentValue(students []student.Student) func(i int, field string) interface{} {
	return func(i int, field string) interface{} {
		s := students[i]
		switch field {
		case "id":
			return s.ID
		case "first_name":
			return s.FirstName
		case "last_name":
			return s.LastName
		case "school":
			return s.School
		case "year_level":
			return s.YearLevel
		default:
			return s.CreatedAt
		}
	}
}

func matchStudent(s student.Student, filter student.QueryFilter) bool {
	if filter.UserID != "" && s.UserID != filter.UserID {
		return false
	}
	if filter.Search != "" &&
		!(containsFold(s.FullName(), filter.Search) || containsFold(s.Email, filter.Search) ||
			containsFold(s.ParentName, filter.Search) || containsFold(s.ParentEmail, filter.Search) ||
			containsFold(s.School, filter.Search)) {
		return false
	}
	if filter.Subject != "" {
		found := false
		for _, subj := range s.Subjects {
			if compare(subj, filter.Subject) == 0 {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if filter.IsArchived != nil && s.IsArchived != *filter.IsArchived {
		return false
	}
	return true
}

func (repo *studentRepository) CreateStudent(_ context.Context, s student.Student) (student.Student, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	s.ID = newID()
	repo.db.students[s.ID] = &s
	return s, nil
}

func (repo *studentRepository) QueryStudents(_ context.Context, filter student.QueryFilter, ordering []core.DBOrdering) ([]student.Student, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	students := make([]student.Student, 0)
	for _, s := range repo.db.students {
		if matchStudent(*s, filter) {
			students = append(students, *s)
		}
	}
	sortRows(len(students), students, []core.DBOrdering{{Field: "created_at", Ascending: true}, {Field: "id", Ascending: true}}, studentValue(students))
	sortRows(len(students), students, ordering, studentValue(students))
	return students, nil
}

func (repo *studentRepository) GetStudent(_ context.Context, userID, id string) (student.Student, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if s, ok := repo.db.students[id]; ok && s.UserID == userID {
		return *s, nil
	}
	return student.Student{}, student.ErrNotFound
}

func (repo *studentRepository) UpdateStudent(_ context.Context, s student.Student) (student.Student, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if orig, ok := repo.db.students[s.ID]; !ok || orig.UserID != s.UserID {
		return student.Student{}, student.ErrNotFound
	}
	repo.db.students[s.ID] = &s
	return s, nil
}

func (repo *studentRepository) DeleteStudent(_ context.Context, userID, id string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if s, ok := repo.db.students[id]; !ok || s.UserID != userID {
		return student.ErrNotFound
	}
	delete(repo.db.students, id)
	repo.db.cascadeStudents(id)
	return nil
}
