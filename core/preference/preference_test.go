package preference_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mhue26/Sample-sub000/core/preference"
	"github.com/mhue26/Sample-sub000/storage/database/inmem"
)

func TestService(t *testing.T) {
	ctx := context.Background()
	svc := preference.NewService(inmemdb.NewPreferenceRepository(inmemdb.NewDB()))

	p, err := svc.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, preference.Default("u1"), p)
	assert.True(t, p.UpdatedAt.IsZero())

	// defaults are copies
	p.Subjects[0] = "Latin"
	assert.Equal(t, "Maths", preference.DefaultSubjects[0])

	saved, err := svc.Update(ctx, "u1", preference.UpdatePreferences{
		MeetingColor: "#000000",
		TermColor:    "#111111",
		HolidayColor: "#222222",
		Subjects:     []string{"Physics"},
		WeekStartsOn: 0,
	})
	require.NoError(t, err)
	assert.False(t, saved.UpdatedAt.IsZero())

	got, err := svc.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "#000000", got.MeetingColor)
	assert.Equal(t, []string{"Physics"}, got.Subjects)
	assert.False(t, got.DigestEnabled)

	_, err = svc.Update(ctx, "u2", preference.UpdatePreferences{Subjects: []string{"Maths"}, DigestEnabled: true})
	require.NoError(t, err)

	optOuts, err := svc.DigestOptOuts(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"u1"}, optOuts)
}
