package inmemdb

import (
	"context"

	"github.com/mhue26/Sample-sub000/core"
	"github.com/mhue26/Sample-sub000/core/period"
)

var periodOrdering = []core.DBOrdering{
	{Field: "start_date", Ascending: true},
	{Field: "created_at", Ascending: true},
	{Field: "id", Ascending: true},
}

type periodRepository struct {
	db *DB
}

var _ period.Repository = (*periodRepository)(nil)

func NewPeriodRepository(db *DB) period.Repository {
	return &periodRepository{db: db}
}

func termValue(terms []period.Term) func(i int, field string) interface{} {
	return func(i int, field string) interface{} {
		switch field {
		case "id":
			return terms[i].ID
		case "start_date":
			return terms[i].Start
		default:
			return terms[i].CreatedAt
		}
	}
}

func holidayValue(holidays []period.Holiday) func(i int, field string) interface{} {
	return func(i int, field string) interface{} {
		switch field {
		case "id":
			return holidays[i].ID
		case "start_date":
			return holidays[i].Start
		default:
			return holidays[i].CreatedAt
		}
	}
}

func (repo *periodRepository) CreateTerm(_ context.Context, t period.Term) (period.Term, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	t.ID = newID()
	repo.db.terms[t.ID] = &t
	return t, nil
}

func (repo *periodRepository) QueryTerms(_ context.Context, filter period.QueryFilter) ([]period.Term, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	terms := make([]period.Term, 0)
	for _, t := range repo.db.terms {
		if filter.UserID != "" && t.UserID != filter.UserID {
			continue
		}
		if filter.Year != 0 && t.Year != filter.Year {
			continue
		}
		if filter.IsActive != nil && t.IsActive != *filter.IsActive {
			continue
		}
		terms = append(terms, *t)
	}
	sortRows(len(terms), terms, periodOrdering, termValue(terms))
	return terms, nil
}

func (repo *periodRepository) GetTerm(_ context.Context, userID, id string) (period.Term, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if t, ok := repo.db.terms[id]; ok && t.UserID == userID {
		return *t, nil
	}
	return period.Term{}, period.ErrTermNotFound
}

func (repo *periodRepository) UpdateTerm(_ context.Context, t period.Term) (period.Term, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if orig, ok := repo.db.terms[t.ID]; !ok || orig.UserID != t.UserID {
		return period.Term{}, period.ErrTermNotFound
	}
	repo.db.terms[t.ID] = &t
	return t, nil
}

func (repo *periodRepository) DeleteTerm(_ context.Context, userID, id string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if t, ok := repo.db.terms[id]; !ok || t.UserID != userID {
		return period.ErrTermNotFound
	}
	delete(repo.db.terms, id)
	return nil
}

func (repo *periodRepository) CreateHoliday(_ context.Context, h period.Holiday) (period.Holiday, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	h.ID = newID()
	repo.db.holidays[h.ID] = &h
	return h, nil
}

// QueryHolidays ignores QueryFilter.IsActive.
func (repo *periodRepository) QueryHolidays(_ context.Context, filter period.QueryFilter) ([]period.Holiday, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	holidays := make([]period.Holiday, 0)
	for _, h := range repo.db.holidays {
		if filter.UserID != "" && h.UserID != filter.UserID {
			continue
		}
		if filter.Year != 0 && h.Year != filter.Year {
			continue
		}
		holidays = append(holidays, *h)
	}
	sortRows(len(holidays), holidays, periodOrdering, holidayValue(holidays))
	return holidays, nil
}

func (repo *periodRepository) GetHoliday(_ context.Context, userID, id string) (period.Holiday, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if h, ok := repo.db.holidays[id]; ok && h.UserID == userID {
		return *h, nil
	}
	return period.Holiday{}, period.ErrHolidayNotFound
}

func (repo *periodRepository) UpdateHoliday(_ context.Context, h period.Holiday) (period.Holiday, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if orig, ok := repo.db.holidays[h.ID]; !ok || orig.UserID != h.UserID {
		return period.Holiday{}, period.ErrHolidayNotFound
	}
	repo.db.holidays[h.ID] = &h
	return h, nil
}

func (repo *periodRepository) DeleteHoliday(_ context.Context, userID, id string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if h, ok := repo.db.holidays[id]; !ok || h.UserID != userID {
		return period.ErrHolidayNotFound
	}
	delete(repo.db.holidays, id)
	return nil
}
