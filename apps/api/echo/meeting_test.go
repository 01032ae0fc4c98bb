package echoapi

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mhue26/Sample-sub000/core/meeting"
	"github.com/mhue26/Sample-sub000/tests"
)

func meetingForm(studentID string, extra string) []byte {
	return []byte(fmt.Sprintf(
		`{"title": "Algebra", "student_id": %q, "date": "2024-03-04", "start_time": "09:00", "end_time": "10:00"%s}`,
		studentID, extra,
	))
}

func TestCreateMeetings(t *testing.T) {
	env := setup(t)
	jane := testutil.CreateUser(t, env.usrRepo, "Jane", "jane", "jane@test.com", "", nil, true)
	joe := testutil.CreateUser(t, env.usrRepo, "Joe", "joe", "joe@test.com", "", nil, true)
	token := env.token(t, jane)
	alice := testutil.CreateStudent(t, env.studentRepo, jane.ID, "Alice", "Smith")
	carl := testutil.CreateStudent(t, env.studentRepo, joe.ID, "Carl", "Green")

	t.Run("weekly series", func(t *testing.T) {
		rec := env.serve(httpTest{
			method: http.MethodPost,
			path:   "/api/meetings",
			token:  token,
			body:   meetingForm(alice.ID, `, "repeat": true, "cadence": "weekly", "repeat_count": 3, "completed": true`),
		})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var created []meeting.Meeting
		decode(t, rec, &created)
		require.Len(t, created, 3)

		base := time.Date(2024, 3, 4, 9, 0, 0, 0, time.Local)
		wantTitles := []string{"Algebra", "Algebra (2/3)", "Algebra (3/3)"}
		for i, m := range created {
			start := base.AddDate(0, 0, 7*i)
			assert.True(t, start.Equal(m.Start), "occurrence %d starts at %v", i, m.Start)
			assert.True(t, start.Add(time.Hour).Equal(m.End), "occurrence %d ends at %v", i, m.End)
			assert.Equal(t, wantTitles[i], m.Title)
			assert.False(t, m.Completed)
			assert.NotEmpty(t, m.ID)
			assert.Equal(t, created[0].SeriesID, m.SeriesID)
			assert.Equal(t, jane.ID, m.UserID)
		}
		assert.NotEmpty(t, created[0].SeriesID)

		stored, err := env.meetingRepo.QueryMeetings(context.Background(), meeting.QueryFilter{UserID: jane.ID}, nil)
		require.NoError(t, err)
		assert.Len(t, stored, 3)
	})

	tests := []httpTest{
		{
			name:     "repeat count too high",
			body:     meetingForm(alice.ID, `, "repeat": true, "cadence": "weekly", "repeat_count": 53`),
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"repeat_count": "repeat count must be between 2 and 52"}`),
		},
		{
			name:     "repeat count too low",
			body:     meetingForm(alice.ID, `, "repeat": true, "cadence": "weekly", "repeat_count": 1`),
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"repeat_count": "repeat count must be between 2 and 52"}`),
		},
		{
			name:     "missing cadence",
			body:     meetingForm(alice.ID, `, "repeat": true, "repeat_count": 4`),
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"cadence": "a cadence is required for repeating meetings"}`),
		},
		{
			name:     "end before start",
			body:     []byte(fmt.Sprintf(`{"title": "Algebra", "student_id": %q, "date": "2024-03-04", "start_time": "10:00", "end_time": "09:00"}`, alice.ID)),
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"end_time": "end time must be after start time"}`),
		},
		{
			name:     "bad date",
			body:     []byte(fmt.Sprintf(`{"title": "Algebra", "student_id": %q, "date": "04/03/2024", "start_time": "09:00", "end_time": "10:00"}`, alice.ID)),
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"date": "must be a date formatted as YYYY-MM-DD"}`),
		},
		{
			name:     "another tutor's student",
			body:     meetingForm(carl.ID, `, "repeat": true, "cadence": "weekly", "repeat_count": 4`),
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"student_id": "unknown student"}`),
		},
		{
			name:     "unknown student",
			body:     meetingForm("missing", ""),
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"student_id": "unknown student"}`),
		},
		{
			name:     "missing token",
			body:     meetingForm(alice.ID, ""),
			wantCode: http.StatusUnauthorized,
			wantData: marchallObj(t, errMissingToken),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.method, tt.path = http.MethodPost, "/api/meetings"
			if tt.wantCode != http.StatusUnauthorized {
				tt.token = token
			}
			checkCodeAndData(t, tt, env.serve(tt))
		})
	}

	// none of the rejected forms stored anything
	stored, err := env.meetingRepo.QueryMeetings(context.Background(), meeting.QueryFilter{UserID: jane.ID}, nil)
	require.NoError(t, err)
	assert.Len(t, stored, 3)
}

func TestPreviewMeetings(t *testing.T) {
	env := setup(t)
	jane := testutil.CreateUser(t, env.usrRepo, "Jane", "jane", "jane@test.com", "", nil, true)
	alice := testutil.CreateStudent(t, env.studentRepo, jane.ID, "Alice", "Smith")

	rec := env.serve(httpTest{
		method: http.MethodPost,
		path:   "/api/meetings/preview",
		token:  env.token(t, jane),
		body: []byte(fmt.Sprintf(
			`{"title": "Essay", "student_id": %q, "date": "2024-01-31", "start_time": "16:00", "end_time": "17:00", "repeat": true, "cadence": "monthly", "repeat_count": 2}`,
			alice.ID,
		)),
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var preview []meeting.Meeting
	decode(t, rec, &preview)
	require.Len(t, preview, 2)
	assert.Equal(t, "Essay (2/2)", preview[1].Title)
	// Jan 31 + 1 month normalizes to Mar 2 in 2024
	assert.True(t, time.Date(2024, 3, 2, 16, 0, 0, 0, time.Local).Equal(preview[1].Start), "got %v", preview[1].Start)
	assert.Empty(t, preview[0].ID)

	stored, err := env.meetingRepo.QueryMeetings(context.Background(), meeting.QueryFilter{UserID: jane.ID}, nil)
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestMeetingDetail(t *testing.T) {
	env := setup(t)
	jane := testutil.CreateUser(t, env.usrRepo, "Jane", "jane", "jane@test.com", "", nil, true)
	joe := testutil.CreateUser(t, env.usrRepo, "Joe", "joe", "joe@test.com", "", nil, true)
	alice := testutil.CreateStudent(t, env.studentRepo, jane.ID, "Alice", "Smith")
	token := env.token(t, jane)

	rec := env.serve(httpTest{method: http.MethodPost, path: "/api/meetings", token: token, body: meetingForm(alice.ID, "")})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created []meeting.Meeting
	decode(t, rec, &created)
	require.Len(t, created, 1)
	m := created[0]
	assert.Empty(t, m.SeriesID)

	tests := []httpTest{
		{
			name:     "another tutor cannot see it",
			method:   http.MethodGet,
			token:    env.token(t, joe),
			wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Error: "not found"}),
		},
		{
			name:     "end before start",
			method:   http.MethodPut,
			token:    token,
			body:     []byte(`{"title": "Algebra", "start": "2024-03-04T10:00:00Z", "end": "2024-03-04T09:00:00Z"}`),
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "mark completed",
			method:   http.MethodPut,
			token:    token,
			body:     []byte(`{"title": "Algebra done", "start": "2024-03-04T09:00:00Z", "end": "2024-03-04T10:00:00Z", "completed": true}`),
			wantCode: http.StatusOK,
		},
		{
			name:     "delete",
			method:   http.MethodDelete,
			token:    token,
			wantCode: http.StatusNoContent,
		},
		{
			name:     "deleted",
			method:   http.MethodGet,
			token:    token,
			wantCode: http.StatusNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.path = "/api/meetings/" + m.ID
			checkCodeAndData(t, tt, env.serve(tt))
		})
	}
}

func TestDeleteSeries(t *testing.T) {
	env := setup(t)
	jane := testutil.CreateUser(t, env.usrRepo, "Jane", "jane", "jane@test.com", "", nil, true)
	alice := testutil.CreateStudent(t, env.studentRepo, jane.ID, "Alice", "Smith")
	token := env.token(t, jane)

	rec := env.serve(httpTest{
		method: http.MethodPost,
		path:   "/api/meetings",
		token:  token,
		body:   meetingForm(alice.ID, `, "repeat": true, "cadence": "biweekly", "repeat_count": 4`),
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var series []meeting.Meeting
	decode(t, rec, &series)
	require.Len(t, series, 4)
	seriesPath := "/api/meetings/series/" + series[0].SeriesID

	tests := []httpTest{
		{
			name:     "from a meeting outside the series",
			path:     seriesPath + "?from=unknown",
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"from": "meeting is not part of this series"}`),
		},
		{
			name:     "from the third occurrence",
			path:     seriesPath + "?from=" + series[2].ID,
			wantCode: http.StatusOK,
			wantData: marchallObj(t, DeletedResponse{Deleted: 2}),
		},
		{
			name:     "the rest",
			path:     seriesPath,
			wantCode: http.StatusOK,
			wantData: marchallObj(t, DeletedResponse{Deleted: 2}),
		},
		{
			name:     "nothing left",
			path:     seriesPath,
			wantCode: http.StatusNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.method, tt.token = http.MethodDelete, token
			checkCodeAndData(t, tt, env.serve(tt))
		})
	}
}

func TestQueryMeetings(t *testing.T) {
	env := setup(t)
	jane := testutil.CreateUser(t, env.usrRepo, "Jane", "jane", "jane@test.com", "", nil, true)
	alice := testutil.CreateStudent(t, env.studentRepo, jane.ID, "Alice", "Smith")
	token := env.token(t, jane)

	rec := env.serve(httpTest{
		method: http.MethodPost,
		path:   "/api/meetings",
		token:  token,
		body:   meetingForm(alice.ID, `, "repeat": true, "cadence": "weekly", "repeat_count": 3`),
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = env.serve(httpTest{method: http.MethodGet, path: "/api/meetings?from=2024-03-05&to=2024-03-11", token: token})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var week []meeting.Meeting
	decode(t, rec, &week)
	require.Len(t, week, 1)
	assert.Equal(t, "Algebra (2/3)", week[0].Title)

	rec = env.serve(httpTest{method: http.MethodGet, path: "/api/meetings?from=not-a-date", token: token})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
