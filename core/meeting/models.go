package meeting

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/mhue26/Sample-sub000/core"
)

// NewMeeting is the meeting creation form.
// Date and times are read in the host's local time zone.
type NewMeeting struct {
	Title       string  `json:"title" validate:"required,max=200"`
	StudentID   string  `json:"student_id" validate:"required"`
	Description string  `json:"description"`
	Date        string  `json:"date" validate:"required,datefmt"`
	StartTime   string  `json:"start_time" validate:"required,timefmt"`
	EndTime     string  `json:"end_time" validate:"required,timefmt"`
	Repeat      bool    `json:"repeat"`
	Cadence     Cadence `json:"cadence" validate:"omitempty,oneof=weekly biweekly monthly"`
	RepeatCount int     `json:"repeat_count"`
	Completed   bool    `json:"completed"`
}

func (nm *NewMeeting) Validate(validate *validator.Validate) error {
	nm.Title = core.CleanString(nm.Title)
	nm.StudentID = core.CleanString(nm.StudentID)
	nm.Description = core.CleanString(nm.Description)
	nm.Date = core.CleanString(nm.Date)
	nm.StartTime = core.CleanString(nm.StartTime)
	nm.EndTime = core.CleanString(nm.EndTime)
	nm.Cadence = Cadence(core.CleanString(string(nm.Cadence), true /* lower */))
	return validate.Struct(nm)
}

// Draft builds the Draft of a validated form.
func (nm NewMeeting) Draft(userID string) (Draft, error) {
	start, err := combine(nm.Date, nm.StartTime)
	if err != nil {
		return Draft{}, err
	}
	end, err := combine(nm.Date, nm.EndTime)
	if err != nil {
		return Draft{}, err
	}
	return Draft{
		Title:       nm.Title,
		Description: nm.Description,
		UserID:      userID,
		StudentID:   nm.StudentID,
		Start:       start,
		End:         end,
		Repeat:      nm.Repeat,
		Cadence:     nm.Cadence,
		RepeatCount: nm.RepeatCount,
		Completed:   nm.Completed,
	}, nil
}

func combine(date, clock string) (time.Time, error) {
	return time.ParseInLocation(core.DateLayout+" "+core.TimeLayout, date+" "+clock, time.Local)
}

// UpdateMeeting defines what may be changed on a single occurrence.
type UpdateMeeting struct {
	Title       string    `json:"title" validate:"required,max=200"`
	Description string    `json:"description"`
	Start       time.Time `json:"start" validate:"required"`
	End         time.Time `json:"end" validate:"required,gtfield=Start"`
	Completed   bool      `json:"completed"`
}

func (um *UpdateMeeting) Validate(validate *validator.Validate) error {
	um.Title = core.CleanString(um.Title)
	um.Description = core.CleanString(um.Description)
	return validate.Struct(um)
}

type QueryFilter struct {
	UserID    string    `query:"-"`
	From      core.Date `query:"from"`
	To        core.Date `query:"to"`
	StudentID string    `query:"student_id"`
	Completed *bool     `query:"completed"`
	SeriesID  string    `query:"series_id"`
}

func (qf *QueryFilter) Clean() {
	qf.StudentID = core.CleanString(qf.StudentID)
	qf.SeriesID = core.CleanString(qf.SeriesID)
}

// Match tells whether `m` passes the filter.
// From and To are calendar dates in local time, both inclusive.
func (qf QueryFilter) Match(m Meeting) bool {
	if qf.UserID != "" && m.UserID != qf.UserID {
		return false
	}
	if !qf.From.IsZero() && m.Start.Before(qf.From.In(time.Local)) {
		return false
	}
	if !qf.To.IsZero() && !m.Start.Before(qf.To.AddDays(1).In(time.Local)) {
		return false
	}
	if qf.StudentID != "" && m.StudentID != qf.StudentID {
		return false
	}
	if qf.Completed != nil && m.Completed != *qf.Completed {
		return false
	}
	if qf.SeriesID != "" && m.SeriesID != qf.SeriesID {
		return false
	}
	return true
}

// DeleteSeries selects the occurrences of a series to delete.
// When FromID is set, only the occurrences starting at or after that meeting are deleted.
type DeleteSeries struct {
	FromID string `query:"from"`
}
