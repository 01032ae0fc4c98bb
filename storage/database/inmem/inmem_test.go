package inmemdb

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mhue26/Sample-sub000/core"
	"github.com/mhue26/Sample-sub000/core/meeting"
	"github.com/mhue26/Sample-sub000/core/period"
	"github.com/mhue26/Sample-sub000/core/preference"
	"github.com/mhue26/Sample-sub000/core/student"
	"github.com/mhue26/Sample-sub000/core/user"
)

func seed(t *testing.T, db *DB) (user.User, student.Student) {
	t.Helper()
	ctx := context.Background()
	usr, err := NewUserRepository(db).CreateUser(ctx, user.User{Name: "Tutor", Username: "tutor", Email: "tutor@test.com", IsActive: true})
	require.NoError(t, err)
	s, err := NewStudentRepository(db).CreateStudent(ctx, student.Student{UserID: usr.ID, FirstName: "Ann"})
	require.NoError(t, err)
	return usr, s
}

func occurrences(usr user.User, s student.Student, n int) []meeting.Meeting {
	start := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	meetings := make([]meeting.Meeting, 0, n)
	for i := 0; i < n; i++ {
		st := start.AddDate(0, 0, 7*i)
		meetings = append(meetings, meeting.Meeting{
			UserID: usr.ID, StudentID: s.ID, SeriesID: "series", Title: "Maths",
			Start: st, End: st.Add(time.Hour),
		})
	}
	return meetings
}

func TestUserRepository_CheckUniqueness(t *testing.T) {
	db := NewDB()
	usr, _ := seed(t, db)
	repo := NewUserRepository(db)
	ctx := context.Background()

	assert.Equal(t, user.ErrUsernameExists, repo.CheckUniqueness(ctx, "tutor", "other@test.com"))
	assert.Equal(t, user.ErrEmailExists, repo.CheckUniqueness(ctx, "other", "tutor@test.com"))
	assert.NoError(t, repo.CheckUniqueness(ctx, "tutor", "tutor@test.com", usr))
	assert.NoError(t, repo.CheckUniqueness(ctx, "", ""))
}

func TestUserRepository_DeleteCascades(t *testing.T) {
	db := NewDB()
	usr, s := seed(t, db)
	ctx := context.Background()

	_, err := NewMeetingRepository(db).CreateMeetings(ctx, occurrences(usr, s, 2))
	require.NoError(t, err)
	_, err = NewPreferenceRepository(db).SavePreferences(ctx, preference.Default(usr.ID))
	require.NoError(t, err)

	n, err := NewUserRepository(db).DeleteUsersByID(ctx, usr.ID, "missing")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Empty(t, db.students)
	assert.Empty(t, db.meetings)
	assert.Empty(t, db.preferences)
}

func TestMeetingRepository_CreateMeetings(t *testing.T) {
	db := NewDB()
	usr, s := seed(t, db)
	repo := NewMeetingRepository(db)
	ctx := context.Background()

	t.Run("all or nothing", func(t *testing.T) {
		batch := occurrences(usr, s, 3)
		batch[2].StudentID = "unknown"
		_, err := repo.CreateMeetings(ctx, batch)
		assert.Equal(t, student.ErrNotFound, err)
		assert.Empty(t, db.meetings)
	})

	t.Run("student of another user", func(t *testing.T) {
		batch := occurrences(usr, s, 2)
		for i := range batch {
			batch[i].UserID = "someone-else"
		}
		_, err := repo.CreateMeetings(ctx, batch)
		assert.Equal(t, student.ErrNotFound, err)
		assert.Empty(t, db.meetings)
	})

	t.Run("stored", func(t *testing.T) {
		created, err := repo.CreateMeetings(ctx, occurrences(usr, s, 3))
		require.NoError(t, err)
		require.Len(t, created, 3)
		for _, m := range created {
			assert.NotEmpty(t, m.ID)
		}
		got, err := repo.QueryMeetings(ctx, meeting.QueryFilter{UserID: usr.ID}, []core.DBOrdering{{Field: "start_at", Ascending: false}})
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.True(t, got[0].Start.After(got[1].Start))
	})
}

func TestMeetingRepository_DeleteSeries(t *testing.T) {
	db := NewDB()
	usr, s := seed(t, db)
	repo := NewMeetingRepository(db)
	ctx := context.Background()

	created, err := repo.CreateMeetings(ctx, occurrences(usr, s, 4))
	require.NoError(t, err)

	n, err := repo.DeleteSeries(ctx, "someone-else", "series", time.Time{})
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	n, err = repo.DeleteSeries(ctx, usr.ID, "series", created[2].Start)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = repo.DeleteSeries(ctx, usr.ID, "series", time.Time{})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Empty(t, db.meetings)
}

func TestStudentRepository_QueryStudents(t *testing.T) {
	db := NewDB()
	repo := NewStudentRepository(db)
	ctx := context.Background()
	archived := true

	for _, s := range []student.Student{
		{UserID: "u1", FirstName: "Zoe", School: "North High", Subjects: []string{"Maths"}},
		{UserID: "u1", FirstName: "adam", Subjects: []string{"English"}, IsArchived: true},
		{UserID: "u2", FirstName: "Bob"},
	} {
		_, err := repo.CreateStudent(ctx, s)
		require.NoError(t, err)
	}

	tests := []struct {
		name   string
		filter student.QueryFilter
		want   []string
	}{
		{name: "owner only", filter: student.QueryFilter{UserID: "u1"}, want: []string{"adam", "Zoe"}},
		{name: "search", filter: student.QueryFilter{UserID: "u1", Search: "north"}, want: []string{"Zoe"}},
		{name: "subject", filter: student.QueryFilter{UserID: "u1", Subject: "english"}, want: []string{"adam"}},
		{name: "archived", filter: student.QueryFilter{UserID: "u1", IsArchived: &archived}, want: []string{"adam"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.QueryStudents(ctx, tt.filter, []core.DBOrdering{{Field: "first_name", Ascending: true}})
			require.NoError(t, err)
			names := make([]string, 0, len(got))
			for _, s := range got {
				names = append(names, s.FirstName)
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestPeriodRepository_QueryTermsOrder(t *testing.T) {
	db := NewDB()
	repo := NewPeriodRepository(db)
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, tt := range []struct{ name, start string }{
		{"Term 2", "2024-04-15"},
		{"Term 1", "2024-01-29"},
		{"Term 1 bis", "2024-01-29"},
	} {
		_, err := repo.CreateTerm(ctx, period.Term{
			UserID: "u1", Name: tt.name, Start: core.MustParseDate(tt.start), End: core.MustParseDate(tt.start).AddDays(60),
			Year: 2024, IsActive: true, CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}

	terms, err := repo.QueryTerms(ctx, period.QueryFilter{UserID: "u1"})
	require.NoError(t, err)
	require.Len(t, terms, 3)
	assert.Equal(t, "Term 1", terms[0].Name)
	assert.Equal(t, "Term 1 bis", terms[1].Name)
	assert.Equal(t, "Term 2", terms[2].Name)

	_, err = repo.GetTerm(ctx, "u2", terms[0].ID)
	assert.True(t, core.IsNotFound(err))
}

func TestPreferenceRepository(t *testing.T) {
	db := NewDB()
	repo := NewPreferenceRepository(db)
	ctx := context.Background()

	_, err := repo.GetPreferences(ctx, "u1")
	assert.True(t, core.IsNotFound(err))

	off := preference.Default("u2")
	off.DigestEnabled = false
	for _, p := range []preference.Preferences{preference.Default("u1"), off} {
		_, err = repo.SavePreferences(ctx, p)
		require.NoError(t, err)
	}

	got, err := repo.GetPreferences(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, preference.DefaultSubjects, got.Subjects)

	ids, err := repo.DigestOptOuts(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"u2"}, ids)
}
