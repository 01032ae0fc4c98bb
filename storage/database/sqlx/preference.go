package sqlxrepos

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/mhue26/Sample-sub000/core/preference"
)

type preferencesRow struct {
	UserID        string         `db:"user_id"`
	MeetingColor  string         `db:"meeting_color"`
	TermColor     string         `db:"term_color"`
	HolidayColor  string         `db:"holiday_color"`
	Subjects      pq.StringArray `db:"subjects"`
	WeekStartsOn  int            `db:"week_starts_on"`
	DigestEnabled bool           `db:"digest_enabled"`
	UpdatedAt     time.Time      `db:"updated_at"`
}

type preferenceRepository struct {
	db *sqlx.DB
}

var _ preference.Repository = (*preferenceRepository)(nil)

func NewPreferenceRepository(db *sqlx.DB) preference.Repository {
	return &preferenceRepository{db: db}
}

func (repo *preferenceRepository) GetPreferences(ctx context.Context, userID string) (preference.Preferences, error) {
	if !isUUID(userID) {
		return preference.Preferences{}, preference.ErrNotFound
	}
	var row preferencesRow
	q := `SELECT user_id, meeting_color, term_color, holiday_color, subjects, week_starts_on, digest_enabled, updated_at
		FROM user_preferences WHERE user_id = $1`
	if err := repo.db.GetContext(ctx, &row, q, userID); err != nil {
		return preference.Preferences{}, trapNoRowsErr(err, preference.ErrNotFound, "finding preferences")
	}
	return preference.Preferences{
		UserID:        row.UserID,
		MeetingColor:  row.MeetingColor,
		TermColor:     row.TermColor,
		HolidayColor:  row.HolidayColor,
		Subjects:      []string(row.Subjects),
		WeekStartsOn:  row.WeekStartsOn,
		DigestEnabled: row.DigestEnabled,
		UpdatedAt:     row.UpdatedAt,
	}, nil
}

func (repo *preferenceRepository) SavePreferences(ctx context.Context, p preference.Preferences) (preference.Preferences, error) {
	subjects := p.Subjects
	if subjects == nil {
		subjects = []string{}
	}
	row := preferencesRow{
		UserID:        p.UserID,
		MeetingColor:  p.MeetingColor,
		TermColor:     p.TermColor,
		HolidayColor:  p.HolidayColor,
		Subjects:      subjects,
		WeekStartsOn:  p.WeekStartsOn,
		DigestEnabled: p.DigestEnabled,
		UpdatedAt:     p.UpdatedAt.UTC(),
	}
	q := `INSERT INTO user_preferences
			(user_id, meeting_color, term_color, holiday_color, subjects, week_starts_on, digest_enabled, updated_at)
		VALUES (:user_id, :meeting_color, :term_color, :holiday_color, :subjects, :week_starts_on, :digest_enabled, :updated_at)
		ON CONFLICT (user_id) DO UPDATE SET
			meeting_color = EXCLUDED.meeting_color, term_color = EXCLUDED.term_color, holiday_color = EXCLUDED.holiday_color,
			subjects = EXCLUDED.subjects, week_starts_on = EXCLUDED.week_starts_on,
			digest_enabled = EXCLUDED.digest_enabled, updated_at = EXCLUDED.updated_at`
	if _, err := repo.db.NamedExecContext(ctx, q, row); err != nil {
		return preference.Preferences{}, errors.Wrap(err, "saving preferences")
	}
	return p, nil
}

func (repo *preferenceRepository) DigestOptOuts(ctx context.Context) ([]string, error) {
	ids := make([]string, 0)
	q := `SELECT user_id FROM user_preferences WHERE NOT digest_enabled ORDER BY user_id`
	if err := repo.db.SelectContext(ctx, &ids, q); err != nil {
		return nil, errors.Wrap(err, "querying digest opt-outs")
	}
	return ids, nil
}
