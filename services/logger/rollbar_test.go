package logsvc

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mhue26/Sample-sub000/core/meeting"
	"github.com/mhue26/Sample-sub000/core/period"
	"github.com/mhue26/Sample-sub000/core/user"
)

func TestNewRollbarItem(t *testing.T) {
	boom := errors.New("boom")
	jane := user.User{ID: "u1", Username: "jane"}
	m := meeting.Meeting{ID: "m1", StudentID: "s1", SeriesID: "series1"}

	tests := []struct {
		name       string
		msg        string
		args       []interface{}
		wantPerson *user.User
		wantArgs   []interface{}
	}{
		{
			name:     "message only",
			msg:      "started",
			wantArgs: []interface{}{"started"},
		},
		{
			name:       "error with user and meeting",
			msg:        "creating meetings",
			args:       []interface{}{boom, jane, m, user.User{ID: "u2"}},
			wantPerson: &jane,
			wantArgs: []interface{}{boom, rollbarSkip, map[string]interface{}{
				"message": "creating meetings", "meeting_id": "m1", "student_id": "s1", "series_id": "series1",
			}},
		},
		{
			name: "maps are merged, odd args kept",
			msg:  "digest sent",
			args: []interface{}{
				map[string]interface{}{"week": 3}, map[string]interface{}{"sent": 12},
				period.Period{Kind: period.KindHoliday, ID: "h1"}, 7, errors.New("first"), errors.New("second"),
			},
			wantArgs: []interface{}{errors.New("first"), rollbarSkip, map[string]interface{}{
				"message": "digest sent", "week": 3, "sent": 12, "holiday_id": "h1",
				"extra": []interface{}{7, "second"},
			}},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			item := newRollbarItem(tc.msg, tc.args)
			if tc.wantPerson == nil {
				assert.Nil(t, item.person)
			} else {
				require.NotNil(t, item.person)
				assert.Equal(t, *tc.wantPerson, *item.person)
			}
			assert.Equal(t, tc.wantArgs, item.args)
		})
	}
}
