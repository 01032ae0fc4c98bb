package inmemdb

import (
	"context"
	"sort"

	"github.com/mhue26/Sample-sub000/core/preference"
)

type preferenceRepository struct {
	db *DB
}

var _ preference.Repository = (*preferenceRepository)(nil)

func NewPreferenceRepository(db *DB) preference.Repository {
	return &preferenceRepository{db: db}
}

func (repo *preferenceRepository) GetPreferences(_ context.Context, userID string) (preference.Preferences, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if p, ok := repo.db.preferences[userID]; ok {
		cp := *p
		cp.Subjects = append([]string{}, p.Subjects...)
		return cp, nil
	}
	return preference.Preferences{}, preference.ErrNotFound
}

func (repo *preferenceRepository) SavePreferences(_ context.Context, p preference.Preferences) (preference.Preferences, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	row := p
	row.Subjects = append([]string{}, p.Subjects...)
	repo.db.preferences[p.UserID] = &row
	return p, nil
}

func (repo *preferenceRepository) DigestOptOuts(_ context.Context) ([]string, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	ids := make([]string, 0)
	for id, p := range repo.db.preferences {
		if !p.DigestEnabled {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}
