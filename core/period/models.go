package period

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/mhue26/Sample-sub000/core"
)

type Kind string

const (
	KindTerm    Kind = "term"
	KindHoliday Kind = "holiday"
)

type Term struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Start     core.Date `json:"start_date"`
	End       core.Date `json:"end_date"`
	Year      int       `json:"year"`
	Color     string    `json:"color"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at"` // UTC
}

type Holiday struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Start     core.Date `json:"start_date"`
	End       core.Date `json:"end_date"`
	Year      int       `json:"year"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at"` // UTC
}

// Period is either a Term or a Holiday, told apart by Kind.
// IsActive is always false for holidays.
type Period struct {
	Kind     Kind      `json:"kind"`
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Start    core.Date `json:"start_date"`
	End      core.Date `json:"end_date"`
	Year     int       `json:"year"`
	Color    string    `json:"color"`
	IsActive bool      `json:"is_active"`
}

func (t Term) Period() Period {
	return Period{
		Kind:     KindTerm,
		ID:       t.ID,
		Name:     t.Name,
		Start:    t.Start,
		End:      t.End,
		Year:     t.Year,
		Color:    t.Color,
		IsActive: t.IsActive,
	}
}

func (h Holiday) Period() Period {
	return Period{
		Kind:  KindHoliday,
		ID:    h.ID,
		Name:  h.Name,
		Start: h.Start,
		End:   h.End,
		Year:  h.Year,
		Color: h.Color,
	}
}

// Combine merges terms and holidays into one list, terms first, each in input order.
func Combine(terms []Term, holidays []Holiday) []Period {
	periods := make([]Period, 0, len(terms)+len(holidays))
	for _, t := range terms {
		periods = append(periods, t.Period())
	}
	for _, h := range holidays {
		periods = append(periods, h.Period())
	}
	return periods
}

// Gap is a range of days covered by no period. It is never stored.
type Gap struct {
	Start core.Date `json:"start_date"`
	End   core.Date `json:"end_date"`
}

// Days returns the number of days in the gap.
func (g Gap) Days() int {
	return g.End.DaysSince(g.Start) + 1
}

// PeriodData contains the editable fields of a Term or a Holiday.
// IsActive is ignored for holidays.
type PeriodData struct {
	Name     string    `json:"name" validate:"required,max=100"`
	Start    core.Date `json:"start_date" validate:"required"`
	End      core.Date `json:"end_date" validate:"required"`
	Year     int       `json:"year" validate:"required,min=1900,max=9999"`
	Color    string    `json:"color" validate:"omitempty,hexcolor"`
	IsActive bool      `json:"is_active"`
}

func (pd *PeriodData) Validate(validate *validator.Validate) error {
	pd.Name = core.CleanString(pd.Name)
	pd.Color = core.CleanString(pd.Color, true /* lower */)
	return validate.Struct(pd)
}

func (pd PeriodData) applyTerm(t *Term) {
	t.Name = pd.Name
	t.Start = pd.Start
	t.End = pd.End
	t.Year = pd.Year
	t.Color = pd.Color
	t.IsActive = pd.IsActive
}

func (pd PeriodData) applyHoliday(h *Holiday) {
	h.Name = pd.Name
	h.Start = pd.Start
	h.End = pd.End
	h.Year = pd.Year
	h.Color = pd.Color
}

type QueryFilter struct {
	UserID   string `query:"-"`
	Year     int    `query:"year"`
	IsActive *bool  `query:"is_active"` // terms only
}
