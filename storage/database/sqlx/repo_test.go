package sqlxrepos

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mhue26/Sample-sub000/core"
	"github.com/mhue26/Sample-sub000/core/meeting"
	"github.com/mhue26/Sample-sub000/core/period"
	"github.com/mhue26/Sample-sub000/core/preference"
	"github.com/mhue26/Sample-sub000/core/student"
	"github.com/mhue26/Sample-sub000/core/user"
	"github.com/mhue26/Sample-sub000/storage/database"
)

func TestWhere(t *testing.T) {
	var w where
	assert.Equal(t, "", w.String())

	w.add("user_id = ?", "u1")
	w.add("a = ? OR b = ?", 1, 2)
	assert.Equal(t, " WHERE (user_id = ?) AND (a = ? OR b = ?)", w.String())
	assert.Equal(t, []interface{}{"u1", 1, 2}, w.args)
}

func TestWrapDBErr(t *testing.T) {
	assert.NoError(t, wrapDBErr(nil, "querying"))

	err := wrapDBErr(&pq.Error{Code: "23505", Message: "duplicate key"}, "inserting meeting 0")
	assert.False(t, core.IsShutdown(err))
	assert.EqualError(t, err, "inserting meeting 0: pq: duplicate key")

	err = wrapDBErr(errors.Wrap(&pq.Error{Code: "XX001", Message: "invalid page in block 7"}, "exec"), "committing meetings")
	assert.True(t, core.IsShutdown(err))
	assert.Contains(t, err.Error(), "committing meetings")

	assert.Equal(t, meeting.ErrNotFound, trapNoRowsErr(sql.ErrNoRows, meeting.ErrNotFound, "finding meeting"))
	assert.True(t, core.IsShutdown(trapNoRowsErr(&pq.Error{Code: "XX002"}, meeting.ErrNotFound, "finding meeting")))
}

func TestOrderBy(t *testing.T) {
	assert.Equal(t, "", orderBy(nil))
	assert.Equal(t, " ORDER BY start_at ASC, title DESC", orderBy([]core.DBOrdering{
		{Field: "start_at", Ascending: true},
		{Field: "title"},
	}))
}

// testDB connects to TEST_DATABASE_URL, migrates it and empties every table.
func testDB(t *testing.T) *sqlx.DB {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	db, err := database.OpenURL(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()
	require.NoError(t, database.Ping(ctx, db))
	require.NoError(t, database.Migrate(db))
	_, err = db.ExecContext(ctx, `TRUNCATE "user", student, meeting, term, holiday, user_preferences CASCADE`)
	require.NoError(t, err)
	return db
}

func TestRepositories(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)

	users := NewUserRepository(db)
	usr, err := users.CreateUser(ctx, user.User{
		Name: "Jane Tutor", Username: "jane", Email: "jane@test.com", IsActive: true,
		Roles: []string{user.RoleTutor}, PasswordHash: []byte("hash"), CreatedAt: now, UpdatedAt: now,
	})
	require.NoError(t, err)
	require.NotEmpty(t, usr.ID)

	t.Run("users", func(t *testing.T) {
		assert.Equal(t, user.ErrUsernameExists, users.CheckUniqueness(ctx, "jane", "other@test.com"))
		assert.Equal(t, user.ErrEmailExists, users.CheckUniqueness(ctx, "other", "jane@test.com"))
		assert.NoError(t, users.CheckUniqueness(ctx, "jane", "jane@test.com", usr))

		got, err := users.GetUser(ctx, user.GetFilter{UsernameOrEmail: "jane@test.com"})
		require.NoError(t, err)
		assert.Equal(t, usr.ID, got.ID)

		_, err = users.GetUser(ctx, user.GetFilter{ID: "not-a-uuid"})
		assert.True(t, core.IsNotFound(err))

		found, err := users.QueryUsers(ctx, &user.QueryFilter{Search: "TUTOR", Roles: []string{"tutor"}}, nil)
		require.NoError(t, err)
		assert.Len(t, found, 1)
	})

	students := NewStudentRepository(db)
	s, err := students.CreateStudent(ctx, student.Student{
		UserID: usr.ID, FirstName: "Ann", LastName: "Lee", YearLevel: 9, Subjects: []string{"Maths"},
		CreatedAt: now, UpdatedAt: now,
	})
	require.NoError(t, err)

	t.Run("meetings", func(t *testing.T) {
		meetings := NewMeetingRepository(db)
		start := time.Date(2024, 1, 1, 10, 0, 0, 0, time.Local)
		batch := make([]meeting.Meeting, 0, 3)
		for i := 0; i < 3; i++ {
			st := start.AddDate(0, 0, 7*i)
			batch = append(batch, meeting.Meeting{
				UserID: usr.ID, StudentID: s.ID, SeriesID: "6f1c3d3a-5f39-4c36-9d55-31c2a8f5a0b1", Title: "Maths",
				Start: st, End: st.Add(time.Hour), CreatedAt: now, UpdatedAt: now,
			})
		}

		bad := append([]meeting.Meeting{}, batch...)
		bad[2].StudentID = "00000000-0000-0000-0000-000000000000"
		_, err := meetings.CreateMeetings(ctx, bad)
		assert.Equal(t, student.ErrNotFound, err)
		got, err := meetings.QueryMeetings(ctx, meeting.QueryFilter{UserID: usr.ID}, nil)
		require.NoError(t, err)
		assert.Empty(t, got, "failed batch stores nothing")

		created, err := meetings.CreateMeetings(ctx, batch)
		require.NoError(t, err)
		require.Len(t, created, 3)

		got, err = meetings.QueryMeetings(ctx, meeting.QueryFilter{
			UserID: usr.ID, From: core.DateOf(start.AddDate(0, 0, 7)),
		}, []core.DBOrdering{{Field: "start_at", Ascending: true}})
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.True(t, got[0].Start.Equal(batch[1].Start))

		n, err := meetings.DeleteSeries(ctx, usr.ID, batch[0].SeriesID, created[1].Start)
		require.NoError(t, err)
		assert.Equal(t, 2, n)
	})

	t.Run("periods", func(t *testing.T) {
		periods := NewPeriodRepository(db)
		for _, name := range []string{"Term 2", "Term 1"} {
			start := core.MustParseDate("2024-04-15")
			if name == "Term 1" {
				start = core.MustParseDate("2024-01-29")
			}
			_, err := periods.CreateTerm(ctx, period.Term{
				UserID: usr.ID, Name: name, Start: start, End: start.AddDays(60), Year: 2024, IsActive: true,
				CreatedAt: now, UpdatedAt: now,
			})
			require.NoError(t, err)
		}
		terms, err := periods.QueryTerms(ctx, period.QueryFilter{UserID: usr.ID, Year: 2024})
		require.NoError(t, err)
		require.Len(t, terms, 2)
		assert.Equal(t, "Term 1", terms[0].Name)
		assert.Equal(t, "2024-01-29", terms[0].Start.String())
	})

	t.Run("preferences", func(t *testing.T) {
		prefs := NewPreferenceRepository(db)
		_, err := prefs.GetPreferences(ctx, usr.ID)
		assert.True(t, core.IsNotFound(err))

		p := preference.Default(usr.ID)
		p.UpdatedAt = now
		_, err = prefs.SavePreferences(ctx, p)
		require.NoError(t, err)
		p.DigestEnabled = false
		_, err = prefs.SavePreferences(ctx, p)
		require.NoError(t, err)

		ids, err := prefs.DigestOptOuts(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{usr.ID}, ids)
	})

	t.Run("delete cascades", func(t *testing.T) {
		n, err := users.DeleteUsersByID(ctx, usr.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
		_, err = students.GetStudent(ctx, usr.ID, s.ID)
		assert.True(t, core.IsNotFound(err))
	})
}
