package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/mhue26/Sample-sub000/core"
	"github.com/mhue26/Sample-sub000/core/period"
)

const (
	termColumns    = `id, user_id, name, start_date, end_date, year, color, is_active, created_at, updated_at`
	holidayColumns = `id, user_id, name, start_date, end_date, year, color, created_at, updated_at`
	periodOrder    = ` ORDER BY start_date ASC, created_at ASC, id ASC`
)

type periodRow struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	Name      string    `db:"name"`
	StartDate core.Date `db:"start_date"`
	EndDate   core.Date `db:"end_date"`
	Year      int       `db:"year"`
	Color     string    `db:"color"`
	IsActive  bool      `db:"is_active"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func termRow(t period.Term) periodRow {
	return periodRow{
		ID: t.ID, UserID: t.UserID, Name: t.Name, StartDate: t.Start, EndDate: t.End,
		Year: t.Year, Color: t.Color, IsActive: t.IsActive,
		CreatedAt: t.CreatedAt.UTC(), UpdatedAt: t.UpdatedAt.UTC(),
	}
}

func holidayRow(h period.Holiday) periodRow {
	return periodRow{
		ID: h.ID, UserID: h.UserID, Name: h.Name, StartDate: h.Start, EndDate: h.End,
		Year: h.Year, Color: h.Color,
		CreatedAt: h.CreatedAt.UTC(), UpdatedAt: h.UpdatedAt.UTC(),
	}
}

func (r periodRow) term() period.Term {
	return period.Term{
		ID: r.ID, UserID: r.UserID, Name: r.Name, Start: r.StartDate, End: r.EndDate,
		Year: r.Year, Color: r.Color, IsActive: r.IsActive,
		CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt,
	}
}

func (r periodRow) holiday() period.Holiday {
	return period.Holiday{
		ID: r.ID, UserID: r.UserID, Name: r.Name, Start: r.StartDate, End: r.EndDate,
		Year: r.Year, Color: r.Color,
		CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt,
	}
}

type periodRepository struct {
	db *sqlx.DB
}

var _ period.Repository = (*periodRepository)(nil)

func NewPeriodRepository(db *sqlx.DB) period.Repository {
	return &periodRepository{db: db}
}

func (repo *periodRepository) insert(ctx context.Context, q string, row *periodRow) error {
	stmt, err := repo.db.PrepareNamedContext(ctx, q)
	if err != nil {
		return errors.Wrap(err, "preparing insert")
	}
	defer func() { _ = stmt.Close() }()
	return stmt.GetContext(ctx, &row.ID, *row)
}

func (repo *periodRepository) query(ctx context.Context, table, columns string, filter period.QueryFilter, withActive bool) ([]periodRow, error) {
	var w where
	w.add("user_id = ?", filter.UserID)
	if filter.Year != 0 {
		w.add("year = ?", filter.Year)
	}
	if withActive && filter.IsActive != nil {
		w.add("is_active = ?", *filter.IsActive)
	}
	var rows []periodRow
	q := `SELECT ` + columns + ` FROM ` + table + w.String() + periodOrder
	err := repo.db.SelectContext(ctx, &rows, repo.db.Rebind(q), w.args...)
	return rows, err
}

// exec runs an UPDATE or DELETE and reports `notFound` when no row matched.
func (repo *periodRepository) exec(res sql.Result, err error, notFound error, msg string) error {
	if err != nil {
		return errors.Wrap(err, msg)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFound
	}
	return nil
}

func (repo *periodRepository) CreateTerm(ctx context.Context, t period.Term) (period.Term, error) {
	row := termRow(t)
	err := repo.insert(ctx, `INSERT INTO term (user_id, name, start_date, end_date, year, color, is_active, created_at, updated_at)
		VALUES (:user_id, :name, :start_date, :end_date, :year, :color, :is_active, :created_at, :updated_at)
		RETURNING id`, &row)
	if err != nil {
		return period.Term{}, errors.Wrap(err, "inserting term")
	}
	return row.term(), nil
}

func (repo *periodRepository) QueryTerms(ctx context.Context, filter period.QueryFilter) ([]period.Term, error) {
	rows, err := repo.query(ctx, "term", termColumns, filter, true)
	if err != nil {
		return nil, errors.Wrap(err, "querying terms")
	}
	terms := make([]period.Term, 0, len(rows))
	for _, r := range rows {
		terms = append(terms, r.term())
	}
	return terms, nil
}

func (repo *periodRepository) GetTerm(ctx context.Context, userID, id string) (period.Term, error) {
	if !isUUID(id) {
		return period.Term{}, period.ErrTermNotFound
	}
	var row periodRow
	q := `SELECT ` + termColumns + ` FROM term WHERE id = $1 AND user_id = $2`
	if err := repo.db.GetContext(ctx, &row, q, id, userID); err != nil {
		return period.Term{}, trapNoRowsErr(err, period.ErrTermNotFound, "finding term")
	}
	return row.term(), nil
}

func (repo *periodRepository) UpdateTerm(ctx context.Context, t period.Term) (period.Term, error) {
	if !isUUID(t.ID) {
		return period.Term{}, period.ErrTermNotFound
	}
	res, err := repo.db.NamedExecContext(ctx, `UPDATE term SET name = :name, start_date = :start_date, end_date = :end_date,
			year = :year, color = :color, is_active = :is_active, updated_at = :updated_at
		WHERE id = :id AND user_id = :user_id`, termRow(t))
	if err = repo.exec(res, err, period.ErrTermNotFound, "updating term"); err != nil {
		return period.Term{}, err
	}
	return t, nil
}

func (repo *periodRepository) DeleteTerm(ctx context.Context, userID, id string) error {
	if !isUUID(id) {
		return period.ErrTermNotFound
	}
	res, err := repo.db.ExecContext(ctx, `DELETE FROM term WHERE id = $1 AND user_id = $2`, id, userID)
	return repo.exec(res, err, period.ErrTermNotFound, "deleting term")
}

func (repo *periodRepository) CreateHoliday(ctx context.Context, h period.Holiday) (period.Holiday, error) {
	row := holidayRow(h)
	err := repo.insert(ctx, `INSERT INTO holiday (user_id, name, start_date, end_date, year, color, created_at, updated_at)
		VALUES (:user_id, :name, :start_date, :end_date, :year, :color, :created_at, :updated_at)
		RETURNING id`, &row)
	if err != nil {
		return period.Holiday{}, errors.Wrap(err, "inserting holiday")
	}
	return row.holiday(), nil
}

func (repo *periodRepository) QueryHolidays(ctx context.Context, filter period.QueryFilter) ([]period.Holiday, error) {
	rows, err := repo.query(ctx, "holiday", holidayColumns, filter, false)
	if err != nil {
		return nil, errors.Wrap(err, "querying holidays")
	}
	holidays := make([]period.Holiday, 0, len(rows))
	for _, r := range rows {
		holidays = append(holidays, r.holiday())
	}
	return holidays, nil
}

func (repo *periodRepository) GetHoliday(ctx context.Context, userID, id string) (period.Holiday, error) {
	if !isUUID(id) {
		return period.Holiday{}, period.ErrHolidayNotFound
	}
	var row periodRow
	q := `SELECT ` + holidayColumns + ` FROM holiday WHERE id = $1 AND user_id = $2`
	if err := repo.db.GetContext(ctx, &row, q, id, userID); err != nil {
		return period.Holiday{}, trapNoRowsErr(err, period.ErrHolidayNotFound, "finding holiday")
	}
	return row.holiday(), nil
}

func (repo *periodRepository) UpdateHoliday(ctx context.Context, h period.Holiday) (period.Holiday, error) {
	if !isUUID(h.ID) {
		return period.Holiday{}, period.ErrHolidayNotFound
	}
	res, err := repo.db.NamedExecContext(ctx, `UPDATE holiday SET name = :name, start_date = :start_date, end_date = :end_date,
			year = :year, color = :color, updated_at = :updated_at
		WHERE id = :id AND user_id = :user_id`, holidayRow(h))
	if err = repo.exec(res, err, period.ErrHolidayNotFound, "updating holiday"); err != nil {
		return period.Holiday{}, err
	}
	return h, nil
}

func (repo *periodRepository) DeleteHoliday(ctx context.Context, userID, id string) error {
	if !isUUID(id) {
		return period.ErrHolidayNotFound
	}
	res, err := repo.db.ExecContext(ctx, `DELETE FROM holiday WHERE id = $1 AND user_id = $2`, id, userID)
	return repo.exec(res, err, period.ErrHolidayNotFound, "deleting holiday")
}
