package meeting

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teambition/rrule-go"

	"github.com/mhue26/Sample-sub000/core"
)

func at(date, clock string) time.Time {
	t, err := time.ParseInLocation(core.DateLayout+" "+core.TimeLayout, date+" "+clock, time.Local)
	if err != nil {
		panic(err)
	}
	return t
}

func baseDraft() Draft {
	return Draft{
		Title:       "X",
		Description: "algebra",
		UserID:      "u1",
		StudentID:   "s1",
		Start:       at("2024-03-04", "09:00"),
		End:         at("2024-03-04", "10:00"),
	}
}

func TestExpand_weeklyScenario(t *testing.T) {
	d := baseDraft()
	d.Repeat = true
	d.Cadence = CadenceWeekly
	d.RepeatCount = 3

	got, err := Expand(d)
	require.NoError(t, err)
	require.Len(t, got, 3)

	wantDates := []string{"2024-03-04", "2024-03-11", "2024-03-18"}
	wantTitles := []string{"X", "X (2/3)", "X (3/3)"}
	for i, m := range got {
		assert.Equal(t, at(wantDates[i], "09:00"), m.Start, "start #%d", i)
		assert.Equal(t, at(wantDates[i], "10:00"), m.End, "end #%d", i)
		assert.Equal(t, wantTitles[i], m.Title)
		assert.Equal(t, "algebra", m.Description)
		assert.Equal(t, "u1", m.UserID)
		assert.Equal(t, "s1", m.StudentID)
		assert.False(t, m.Completed)
		assert.NotEmpty(t, m.SeriesID)
		assert.Equal(t, got[0].SeriesID, m.SeriesID)
	}
}

// Adding one month to Jan 31 relies on time.AddDate normalisation:
// Feb 31 does not exist, so 2024-02-31 rolls over to 2024-03-02 (2024 is a leap year).
func TestExpand_monthlyRollover(t *testing.T) {
	d := baseDraft()
	d.Start = at("2024-01-31", "09:00")
	d.End = at("2024-01-31", "10:00")
	d.Repeat = true
	d.Cadence = CadenceMonthly
	d.RepeatCount = 2

	got, err := Expand(d)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, at("2024-01-31", "09:00"), got[0].Start)
	assert.Equal(t, at("2024-03-02", "09:00"), got[1].Start)
	assert.Equal(t, at("2024-03-02", "10:00"), got[1].End)
}

func TestExpand_monthlyOffsetsFromFirstOccurrence(t *testing.T) {
	d := baseDraft()
	d.Start = at("2024-01-31", "09:00")
	d.End = at("2024-01-31", "10:00")
	d.Repeat = true
	d.Cadence = CadenceMonthly
	d.RepeatCount = 4

	got, err := Expand(d)
	require.NoError(t, err)

	// stepping month by month from Mar 2 would give Apr 2; offsets from Jan 31 do not drift
	wantDates := []string{"2024-01-31", "2024-03-02", "2024-03-31", "2024-05-01"}
	for i, m := range got {
		assert.Equal(t, at(wantDates[i], "09:00"), m.Start, "occurrence #%d", i)
	}
}

func TestExpand_singleOccurrence(t *testing.T) {
	tests := []struct {
		name   string
		modify func(d *Draft)
	}{
		{name: "no repeat", modify: func(d *Draft) { d.Cadence = CadenceWeekly; d.RepeatCount = 5 }},
		{name: "count 1", modify: func(d *Draft) { d.Repeat = true; d.Cadence = CadenceWeekly; d.RepeatCount = 1 }},
		{name: "count 0", modify: func(d *Draft) { d.Repeat = true; d.Cadence = CadenceMonthly }},
		{name: "negative count", modify: func(d *Draft) { d.Repeat = true; d.Cadence = CadenceMonthly; d.RepeatCount = -3 }},
		{name: "no cadence", modify: func(d *Draft) { d.Repeat = true; d.RepeatCount = 4 }},
		{name: "completed kept", modify: func(d *Draft) { d.Completed = true }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := baseDraft()
			tt.modify(&d)

			got, err := Expand(d)
			require.NoError(t, err)
			require.Len(t, got, 1)
			m := got[0]
			assert.Equal(t, d.Title, m.Title)
			assert.Equal(t, d.Description, m.Description)
			assert.Equal(t, d.Start, m.Start)
			assert.Equal(t, d.End, m.End)
			assert.Equal(t, d.Completed, m.Completed)
			assert.Empty(t, m.SeriesID)
			assert.Empty(t, m.Recurrence)
		})
	}
}

func TestExpand_repeatingProperties(t *testing.T) {
	steps := map[Cadence]int{CadenceWeekly: 7, CadenceBiweekly: 14}
	for _, cadence := range Cadences {
		for n := 2; n <= MaxRepeatCount; n += 5 {
			d := baseDraft()
			d.End = d.Start.Add(90 * time.Minute)
			d.Repeat = true
			d.Cadence = cadence
			d.RepeatCount = n
			d.Completed = true

			got, err := Expand(d)
			require.NoError(t, err)
			require.Len(t, got, n)
			for i, m := range got {
				assert.Equal(t, 90*time.Minute, m.Duration(), "%s #%d duration", cadence, i)
				assert.False(t, m.Completed, "%s #%d completed", cadence, i)
				if days, ok := steps[cadence]; ok {
					assert.Equal(t, d.Start.AddDate(0, 0, days*i), m.Start, "%s #%d start", cadence, i)
				} else {
					assert.Equal(t, d.Start.AddDate(0, i, 0), m.Start, "%s #%d start", cadence, i)
				}
			}
		}
	}
}

func TestExpand_isPure(t *testing.T) {
	d := baseDraft()
	d.Repeat = true
	d.Cadence = CadenceBiweekly
	d.RepeatCount = 6

	first, err := Expand(d)
	require.NoError(t, err)
	second, err := Expand(d)
	require.NoError(t, err)

	// only the generated series id differs
	for i := range second {
		second[i].SeriesID = first[i].SeriesID
	}
	assert.Equal(t, first, second)
}

func TestExpand_validation(t *testing.T) {
	tests := []struct {
		name       string
		modify     func(d *Draft)
		wantFields []string
	}{
		{name: "blank title", modify: func(d *Draft) { d.Title = "  " }, wantFields: []string{"title"}},
		{name: "missing student", modify: func(d *Draft) { d.StudentID = "" }, wantFields: []string{"student_id"}},
		{name: "missing times", modify: func(d *Draft) { d.Start = time.Time{}; d.End = time.Time{} }, wantFields: []string{"start", "end"}},
		{name: "end equals start", modify: func(d *Draft) { d.End = d.Start }, wantFields: []string{"end"}},
		{name: "end before start", modify: func(d *Draft) { d.End = d.Start.Add(-time.Hour) }, wantFields: []string{"end"}},
		{name: "unknown cadence", modify: func(d *Draft) { d.Repeat = true; d.Cadence = "daily"; d.RepeatCount = 3 }, wantFields: []string{"cadence"}},
		{
			name:       "too many occurrences",
			modify:     func(d *Draft) { d.Repeat = true; d.Cadence = CadenceWeekly; d.RepeatCount = MaxRepeatCount + 1 },
			wantFields: []string{"repeat_count"},
		},
		{
			name:       "all at once",
			modify:     func(d *Draft) { d.Title = ""; d.StudentID = ""; d.End = d.Start },
			wantFields: []string{"title", "student_id", "end"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := baseDraft()
			tt.modify(&d)

			got, err := Expand(d)
			assert.Nil(t, got)
			require.Error(t, err)
			vErr, ok := err.(*core.ValidationError)
			require.True(t, ok, "want *core.ValidationError, got %T", err)

			fields := make([]string, 0, len(vErr.Fields))
			for _, f := range vErr.Fields {
				fields = append(fields, f.Field)
			}
			assert.ElementsMatch(t, tt.wantFields, fields)
		})
	}
}

func TestExpand_matchesRRule(t *testing.T) {
	start := time.Date(2024, 10, 21, 16, 30, 0, 0, time.UTC)
	for _, cadence := range []Cadence{CadenceWeekly, CadenceBiweekly} {
		d := baseDraft()
		d.Start = start
		d.End = start.Add(time.Hour)
		d.Repeat = true
		d.Cadence = cadence
		d.RepeatCount = 12

		got, err := Expand(d)
		require.NoError(t, err)

		opt, err := rrule.StrToROption(got[0].Recurrence)
		require.NoError(t, err, "parsing %q", got[0].Recurrence)
		opt.Dtstart = start
		rule, err := rrule.NewRRule(*opt)
		require.NoError(t, err)

		want := rule.All()
		require.Len(t, want, len(got))
		for i, m := range got {
			assert.True(t, want[i].Equal(m.Start), "%s #%d: %v != %v", cadence, i, want[i], m.Start)
		}
	}
}

func TestExpand_recurrenceRule(t *testing.T) {
	tests := []struct {
		cadence      Cadence
		count        int
		wantFreq     rrule.Frequency
		wantInterval int
	}{
		{cadence: CadenceWeekly, count: 3, wantFreq: rrule.WEEKLY, wantInterval: 1},
		{cadence: CadenceBiweekly, count: 6, wantFreq: rrule.WEEKLY, wantInterval: 2},
		{cadence: CadenceMonthly, count: 10, wantFreq: rrule.MONTHLY, wantInterval: 1},
	}
	for _, tt := range tests {
		t.Run(string(tt.cadence), func(t *testing.T) {
			d := baseDraft()
			d.Repeat = true
			d.Cadence = tt.cadence
			d.RepeatCount = tt.count

			got, err := Expand(d)
			require.NoError(t, err)
			opt, err := rrule.StrToROption(got[0].Recurrence)
			require.NoError(t, err)
			interval := opt.Interval
			if interval == 0 {
				interval = 1 // RFC 5545 default
			}
			assert.Equal(t, tt.wantFreq, opt.Freq)
			assert.Equal(t, tt.wantInterval, interval)
			assert.Equal(t, tt.count, opt.Count)
		})
	}
}
