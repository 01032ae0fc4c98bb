package inmemdb

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/mhue26/Sample-sub000/core"
	"github.com/mhue26/Sample-sub000/core/meeting"
	"github.com/mhue26/Sample-sub000/core/student"
)

type meetingRepository struct {
	db *DB
}

var _ meeting.Repository = (*meetingRepository)(nil)

func NewMeetingRepository(db *DB) meeting.Repository {
	return &meetingRepository{db: db}
}

func meetingValue(meetings []meeting.Meeting) func(i int, field string) interface{} {
	return func(i int, field string) interface{} {
		m := meetings[i]
		switch field {
		case "id":
			return m.ID
		case "start_at":
			return m.Start
		case "end_at":
			return m.End
		case "title":
			return m.Title
		case "completed":
			return m.Completed
		default:
			return m.CreatedAt
		}
	}
}

// CreateMeetings checks every row before storing any.
func (repo *meetingRepository) CreateMeetings(_ context.Context, meetings []meeting.Meeting) ([]meeting.Meeting, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for i, m := range meetings {
		s, ok := repo.db.students[m.StudentID]
		if !ok || s.UserID != m.UserID {
			return nil, student.ErrNotFound
		}
		if !m.End.After(m.Start) {
			return nil, errors.Errorf("meeting %d: end must be after start", i)
		}
	}

	created := make([]meeting.Meeting, 0, len(meetings))
	for _, m := range meetings {
		m.ID = newID()
		row := m
		repo.db.meetings[m.ID] = &row
		created = append(created, m)
	}
	return created, nil
}

func (repo *meetingRepository) QueryMeetings(_ context.Context, filter meeting.QueryFilter, ordering []core.DBOrdering) ([]meeting.Meeting, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	meetings := make([]meeting.Meeting, 0)
	for _, m := range repo.db.meetings {
		if filter.Match(*m) {
			meetings = append(meetings, *m)
		}
	}
	sortRows(len(meetings), meetings, []core.DBOrdering{{Field: "created_at", Ascending: true}, {Field: "id", Ascending: true}}, meetingValue(meetings))
	sortRows(len(meetings), meetings, ordering, meetingValue(meetings))
	return meetings, nil
}

func (repo *meetingRepository) GetMeeting(_ context.Context, userID, id string) (meeting.Meeting, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if m, ok := repo.db.meetings[id]; ok && m.UserID == userID {
		return *m, nil
	}
	return meeting.Meeting{}, meeting.ErrNotFound
}

func (repo *meetingRepository) UpdateMeeting(_ context.Context, m meeting.Meeting) (meeting.Meeting, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if orig, ok := repo.db.meetings[m.ID]; !ok || orig.UserID != m.UserID {
		return meeting.Meeting{}, meeting.ErrNotFound
	}
	repo.db.meetings[m.ID] = &m
	return m, nil
}

func (repo *meetingRepository) DeleteMeeting(_ context.Context, userID, id string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if m, ok := repo.db.meetings[id]; !ok || m.UserID != userID {
		return meeting.ErrNotFound
	}
	delete(repo.db.meetings, id)
	return nil
}

func (repo *meetingRepository) DeleteSeries(_ context.Context, userID, seriesID string, from time.Time) (int, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	var n int
	for id, m := range repo.db.meetings {
		if m.UserID != userID || m.SeriesID == "" || m.SeriesID != seriesID {
			continue
		}
		if !from.IsZero() && m.Start.Before(from) {
			continue
		}
		delete(repo.db.meetings, id)
		n++
	}
	return n, nil
}
