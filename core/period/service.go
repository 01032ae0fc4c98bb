package period

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/mhue26/Sample-sub000/core"
)

var (
	ErrTermNotFound    = core.NewNotFoundError("term")
	ErrHolidayNotFound = core.NewNotFoundError("holiday")
)

type (
	Repository interface {
		CreateTerm(ctx context.Context, t Term) (Term, error)
		// QueryTerms returns the terms ordered by start date, then creation time.
		QueryTerms(ctx context.Context, filter QueryFilter) ([]Term, error)
		GetTerm(ctx context.Context, userID, id string) (Term, error)
		UpdateTerm(ctx context.Context, t Term) (Term, error)
		DeleteTerm(ctx context.Context, userID, id string) error

		CreateHoliday(ctx context.Context, h Holiday) (Holiday, error)
		// QueryHolidays returns the holidays ordered by start date, then creation time.
		QueryHolidays(ctx context.Context, filter QueryFilter) ([]Holiday, error)
		GetHoliday(ctx context.Context, userID, id string) (Holiday, error)
		UpdateHoliday(ctx context.Context, h Holiday) (Holiday, error)
		DeleteHoliday(ctx context.Context, userID, id string) error
	}

	// Current describes the term `today` falls in.
	Current struct {
		Term *Term `json:"term"`
		Week int   `json:"week"`
		// Conflicts holds the ids of the other active terms containing today.
		Conflicts []string `json:"conflicts"`
	}

	Service interface {
		CreateTerm(ctx context.Context, userID string, data PeriodData) (Term, error)
		QueryTerms(ctx context.Context, filter QueryFilter) ([]Term, error)
		GetTerm(ctx context.Context, userID, id string) (Term, error)
		UpdateTerm(ctx context.Context, t Term, data PeriodData) (Term, error)
		DeleteTerm(ctx context.Context, userID, id string) error

		CreateHoliday(ctx context.Context, userID string, data PeriodData) (Holiday, error)
		QueryHolidays(ctx context.Context, filter QueryFilter) ([]Holiday, error)
		GetHoliday(ctx context.Context, userID, id string) (Holiday, error)
		UpdateHoliday(ctx context.Context, h Holiday, data PeriodData) (Holiday, error)
		DeleteHoliday(ctx context.Context, userID, id string) error

		// Periods returns the user's terms and holidays as one list.
		Periods(ctx context.Context, filter QueryFilter) ([]Period, error)
		Gaps(ctx context.Context, filter QueryFilter) ([]Gap, error)
		Current(ctx context.Context, userID string, today core.Date) (Current, error)
	}

	service struct {
		repo Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (svc *service) CreateTerm(ctx context.Context, userID string, data PeriodData) (Term, error) {
	now := time.Now().UTC()
	t := Term{UserID: userID, CreatedAt: now, UpdatedAt: now}
	data.applyTerm(&t)
	return svc.repo.CreateTerm(ctx, t)
}

func (svc *service) QueryTerms(ctx context.Context, filter QueryFilter) ([]Term, error) {
	return svc.repo.QueryTerms(ctx, filter)
}

func (svc *service) GetTerm(ctx context.Context, userID, id string) (Term, error) {
	return svc.repo.GetTerm(ctx, userID, id)
}

func (svc *service) UpdateTerm(ctx context.Context, t Term, data PeriodData) (Term, error) {
	data.applyTerm(&t)
	t.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateTerm(ctx, t)
}

func (svc *service) DeleteTerm(ctx context.Context, userID, id string) error {
	return svc.repo.DeleteTerm(ctx, userID, id)
}

func (svc *service) CreateHoliday(ctx context.Context, userID string, data PeriodData) (Holiday, error) {
	now := time.Now().UTC()
	h := Holiday{UserID: userID, CreatedAt: now, UpdatedAt: now}
	data.applyHoliday(&h)
	return svc.repo.CreateHoliday(ctx, h)
}

func (svc *service) QueryHolidays(ctx context.Context, filter QueryFilter) ([]Holiday, error) {
	filter.IsActive = nil
	return svc.repo.QueryHolidays(ctx, filter)
}

func (svc *service) GetHoliday(ctx context.Context, userID, id string) (Holiday, error) {
	return svc.repo.GetHoliday(ctx, userID, id)
}

func (svc *service) UpdateHoliday(ctx context.Context, h Holiday, data PeriodData) (Holiday, error) {
	data.applyHoliday(&h)
	h.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateHoliday(ctx, h)
}

func (svc *service) DeleteHoliday(ctx context.Context, userID, id string) error {
	return svc.repo.DeleteHoliday(ctx, userID, id)
}

func (svc *service) Periods(ctx context.Context, filter QueryFilter) ([]Period, error) {
	terms, err := svc.repo.QueryTerms(ctx, filter)
	if err != nil {
		return nil, errors.Wrap(err, "querying terms")
	}
	filter.IsActive = nil
	holidays, err := svc.repo.QueryHolidays(ctx, filter)
	if err != nil {
		return nil, errors.Wrap(err, "querying holidays")
	}
	return Combine(terms, holidays), nil
}

func (svc *service) Gaps(ctx context.Context, filter QueryFilter) ([]Gap, error) {
	periods, err := svc.Periods(ctx, filter)
	if err != nil {
		return nil, err
	}
	return FindGaps(periods), nil
}

func (svc *service) Current(ctx context.Context, userID string, today core.Date) (Current, error) {
	terms, err := svc.repo.QueryTerms(ctx, QueryFilter{UserID: userID})
	if err != nil {
		return Current{}, errors.Wrap(err, "querying terms")
	}

	cur := Current{Conflicts: []string{}}
	term, ok := CurrentTerm(today, terms)
	if !ok {
		return cur, nil
	}
	cur.Term = &term
	cur.Week = WeekNumber(today, term)
	for _, t := range ActiveTerms(today, terms) {
		if t.ID != term.ID {
			cur.Conflicts = append(cur.Conflicts, t.ID)
		}
	}
	return cur, nil
}
