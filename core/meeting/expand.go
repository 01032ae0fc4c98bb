package meeting

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/teambition/rrule-go"

	"github.com/mhue26/Sample-sub000/core"
)

type Cadence string

const (
	CadenceNone     Cadence = ""
	CadenceWeekly   Cadence = "weekly"
	CadenceBiweekly Cadence = "biweekly"
	CadenceMonthly  Cadence = "monthly"

	MaxRepeatCount = 52
)

var Cadences = []Cadence{CadenceWeekly, CadenceBiweekly, CadenceMonthly}

func (c Cadence) IsValid() bool {
	switch c {
	case CadenceNone, CadenceWeekly, CadenceBiweekly, CadenceMonthly:
		return true
	}
	return false
}

// offset returns `t` moved forward by `i` cadence steps, counted from occurrence 0.
// Monthly steps use time.AddDate normalisation: Jan 31 + 1 month is Mar 2 (or Mar 3 on non leap years).
func (c Cadence) offset(t time.Time, i int) time.Time {
	switch c {
	case CadenceWeekly:
		return t.AddDate(0, 0, 7*i)
	case CadenceBiweekly:
		return t.AddDate(0, 0, 14*i)
	case CadenceMonthly:
		return t.AddDate(0, i, 0)
	}
	return t
}

func (c Cadence) rruleOption(count int) rrule.ROption {
	opt := rrule.ROption{Freq: rrule.WEEKLY, Interval: 1, Count: count}
	switch c {
	case CadenceBiweekly:
		opt.Interval = 2
	case CadenceMonthly:
		opt.Freq = rrule.MONTHLY
	}
	return opt
}

// Draft is a meeting to create, possibly repeating.
type Draft struct {
	Title       string
	Description string
	UserID      string
	StudentID   string
	Start       time.Time
	End         time.Time
	Repeat      bool
	Cadence     Cadence
	RepeatCount int
	Completed   bool
}

func (d Draft) repeats() bool {
	return d.Repeat && d.RepeatCount > 1 && d.Cadence != CadenceNone
}

func (d Draft) validate() error {
	var errs core.FieldErrors
	if strings.TrimSpace(d.Title) == "" {
		errs.Add("title", "this field is required")
	}
	if d.StudentID == "" {
		errs.Add("student_id", "this field is required")
	}
	if d.Start.IsZero() {
		errs.Add("start", "this field is required")
	}
	if d.End.IsZero() {
		errs.Add("end", "this field is required")
	}
	if !d.Start.IsZero() && !d.End.IsZero() && !d.End.After(d.Start) {
		errs.Add("end", "must be after the start")
	}
	if !d.Cadence.IsValid() {
		errs.Add("cadence", fmt.Sprintf("must be one of %v", Cadences))
	}
	if d.Repeat && d.RepeatCount > MaxRepeatCount {
		errs.Add("repeat_count", fmt.Sprintf("must be %d or less", MaxRepeatCount))
	}
	return errs.Err()
}

// Meeting is one occurrence, generated by Expand or loaded from storage.
type Meeting struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	StudentID   string    `json:"student_id"`
	SeriesID    string    `json:"series_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	Completed   bool      `json:"completed"`
	Recurrence  string    `json:"recurrence"`
	CreatedAt   time.Time `json:"created_at"` // UTC
	UpdatedAt   time.Time `json:"updated_at"` // UTC
}

func (m Meeting) Duration() time.Duration {
	return m.End.Sub(m.Start)
}

// Expand turns `draft` into its concrete occurrences.
// Nothing is produced when the draft is invalid.
func Expand(draft Draft) ([]Meeting, error) {
	if err := draft.validate(); err != nil {
		return nil, err
	}

	base := Meeting{
		UserID:      draft.UserID,
		StudentID:   draft.StudentID,
		Title:       draft.Title,
		Description: draft.Description,
		Start:       draft.Start,
		End:         draft.End,
		Completed:   draft.Completed,
	}
	if !draft.repeats() {
		return []Meeting{base}, nil
	}

	n := draft.RepeatCount
	opt := draft.Cadence.rruleOption(n)
	base.SeriesID = uuid.New().String()
	base.Recurrence = opt.RRuleString()
	base.Completed = false

	meetings := make([]Meeting, n)
	for i := 0; i < n; i++ {
		m := base
		m.Start = draft.Cadence.offset(draft.Start, i)
		m.End = draft.Cadence.offset(draft.End, i)
		if i > 0 {
			m.Title = fmt.Sprintf("%s (%d/%d)", base.Title, i+1, n)
		}
		meetings[i] = m
	}
	return meetings, nil
}
