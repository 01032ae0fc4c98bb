package sqlxrepos

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/mhue26/Sample-sub000/core"
	"github.com/mhue26/Sample-sub000/core/meeting"
	"github.com/mhue26/Sample-sub000/core/student"
)

const meetingColumns = `id, user_id, student_id, series_id, title, description, start_at, end_at, completed, recurrence, created_at, updated_at`

type meetingRow struct {
	ID          string      `db:"id"`
	UserID      string      `db:"user_id"`
	StudentID   string      `db:"student_id"`
	SeriesID    null.String `db:"series_id"`
	Title       string      `db:"title"`
	Description string      `db:"description"`
	StartAt     time.Time   `db:"start_at"`
	EndAt       time.Time   `db:"end_at"`
	Completed   bool        `db:"completed"`
	Recurrence  string      `db:"recurrence"`
	CreatedAt   time.Time   `db:"created_at"`
	UpdatedAt   time.Time   `db:"updated_at"`
}

func toMeetingRow(m meeting.Meeting) meetingRow {
	return meetingRow{
		ID:          m.ID,
		UserID:      m.UserID,
		StudentID:   m.StudentID,
		SeriesID:    null.NewString(m.SeriesID, m.SeriesID != ""),
		Title:       m.Title,
		Description: m.Description,
		StartAt:     m.Start.UTC(),
		EndAt:       m.End.UTC(),
		Completed:   m.Completed,
		Recurrence:  m.Recurrence,
		CreatedAt:   m.CreatedAt.UTC(),
		UpdatedAt:   m.UpdatedAt.UTC(),
	}
}

// meeting converts back to local time, the zone meetings are entered in.
func (r meetingRow) meeting() meeting.Meeting {
	return meeting.Meeting{
		ID:          r.ID,
		UserID:      r.UserID,
		StudentID:   r.StudentID,
		SeriesID:    r.SeriesID.String,
		Title:       r.Title,
		Description: r.Description,
		Start:       r.StartAt.Local(),
		End:         r.EndAt.Local(),
		Completed:   r.Completed,
		Recurrence:  r.Recurrence,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

type meetingRepository struct {
	db *sqlx.DB
}

var _ meeting.Repository = (*meetingRepository)(nil)

func NewMeetingRepository(db *sqlx.DB) meeting.Repository {
	return &meetingRepository{db: db}
}

// CreateMeetings inserts the batch in one transaction, together with the ownership check of its students.
func (repo *meetingRepository) CreateMeetings(ctx context.Context, meetings []meeting.Meeting) (created []meeting.Meeting, err error) {
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, wrapDBErr(err, "beginning transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	checked := make(map[string]struct{}, 1)
	for _, m := range meetings {
		if _, ok := checked[m.StudentID]; ok {
			continue
		}
		owned, err := studentOwned(ctx, tx, m.UserID, m.StudentID)
		if err != nil {
			return nil, err
		}
		if !owned {
			return nil, student.ErrNotFound
		}
		checked[m.StudentID] = struct{}{}
	}

	stmt, err := tx.PrepareNamedContext(ctx, `INSERT INTO meeting
			(user_id, student_id, series_id, title, description, start_at, end_at, completed, recurrence, created_at, updated_at)
		VALUES (:user_id, :student_id, :series_id, :title, :description, :start_at, :end_at, :completed, :recurrence, :created_at, :updated_at)
		RETURNING id`)
	if err != nil {
		return nil, errors.Wrap(err, "preparing meeting insert")
	}
	defer func() { _ = stmt.Close() }()

	created = make([]meeting.Meeting, 0, len(meetings))
	for i, m := range meetings {
		if err = stmt.GetContext(ctx, &m.ID, toMeetingRow(m)); err != nil {
			return nil, wrapDBErr(err, fmt.Sprintf("inserting meeting %d", i))
		}
		created = append(created, m)
	}
	if err = tx.Commit(); err != nil {
		return nil, wrapDBErr(err, "committing meetings")
	}
	return created, nil
}

func (repo *meetingRepository) QueryMeetings(ctx context.Context, filter meeting.QueryFilter, ordering []core.DBOrdering) ([]meeting.Meeting, error) {
	var w where
	w.add("user_id = ?", filter.UserID)
	if !filter.From.IsZero() {
		w.add("start_at >= ?", filter.From.In(time.Local).UTC())
	}
	if !filter.To.IsZero() {
		w.add("start_at < ?", filter.To.AddDays(1).In(time.Local).UTC())
	}
	if filter.StudentID != "" {
		if !isUUID(filter.StudentID) {
			return []meeting.Meeting{}, nil
		}
		w.add("student_id = ?", filter.StudentID)
	}
	if filter.Completed != nil {
		w.add("completed = ?", *filter.Completed)
	}
	if filter.SeriesID != "" {
		if !isUUID(filter.SeriesID) {
			return []meeting.Meeting{}, nil
		}
		w.add("series_id = ?", filter.SeriesID)
	}

	var rows []meetingRow
	q := `SELECT ` + meetingColumns + ` FROM meeting` + w.String() + orderBy(ordering)
	if err := repo.db.SelectContext(ctx, &rows, repo.db.Rebind(q), w.args...); err != nil {
		return nil, wrapDBErr(err, "querying meetings")
	}
	meetings := make([]meeting.Meeting, 0, len(rows))
	for _, r := range rows {
		meetings = append(meetings, r.meeting())
	}
	return meetings, nil
}

func (repo *meetingRepository) GetMeeting(ctx context.Context, userID, id string) (meeting.Meeting, error) {
	if !isUUID(id) {
		return meeting.Meeting{}, meeting.ErrNotFound
	}
	var row meetingRow
	q := `SELECT ` + meetingColumns + ` FROM meeting WHERE id = $1 AND user_id = $2`
	if err := repo.db.GetContext(ctx, &row, q, id, userID); err != nil {
		return meeting.Meeting{}, trapNoRowsErr(err, meeting.ErrNotFound, "finding meeting")
	}
	return row.meeting(), nil
}

func (repo *meetingRepository) UpdateMeeting(ctx context.Context, m meeting.Meeting) (meeting.Meeting, error) {
	if !isUUID(m.ID) {
		return meeting.Meeting{}, meeting.ErrNotFound
	}
	q := `UPDATE meeting SET title = :title, description = :description, start_at = :start_at, end_at = :end_at,
			completed = :completed, updated_at = :updated_at
		WHERE id = :id AND user_id = :user_id`
	res, err := repo.db.NamedExecContext(ctx, q, toMeetingRow(m))
	if err != nil {
		return meeting.Meeting{}, wrapDBErr(err, "updating meeting")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return meeting.Meeting{}, meeting.ErrNotFound
	}
	return m, nil
}

func (repo *meetingRepository) DeleteMeeting(ctx context.Context, userID, id string) error {
	if !isUUID(id) {
		return meeting.ErrNotFound
	}
	res, err := repo.db.ExecContext(ctx, `DELETE FROM meeting WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return wrapDBErr(err, "deleting meeting")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return meeting.ErrNotFound
	}
	return nil
}

func (repo *meetingRepository) DeleteSeries(ctx context.Context, userID, seriesID string, from time.Time) (int, error) {
	if !isUUID(seriesID) {
		return 0, nil
	}
	var w where
	w.add("user_id = ?", userID)
	w.add("series_id = ?", seriesID)
	if !from.IsZero() {
		w.add("start_at >= ?", from.UTC())
	}
	res, err := repo.db.ExecContext(ctx, repo.db.Rebind(`DELETE FROM meeting`+w.String()), w.args...)
	if err != nil {
		return 0, wrapDBErr(err, "deleting meeting series")
	}
	n, err := res.RowsAffected()
	return int(n), errors.Wrap(err, "counting deleted meetings")
}
