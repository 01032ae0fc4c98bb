package student_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mhue26/Sample-sub000/core"
	"github.com/mhue26/Sample-sub000/core/student"
	"github.com/mhue26/Sample-sub000/storage/database/inmem"
)

func TestService(t *testing.T) {
	ctx := context.Background()
	svc := student.NewService(inmemdb.NewStudentRepository(inmemdb.NewDB()))

	bob, err := svc.Create(ctx, "u1", student.StudentData{FirstName: "Bob", LastName: "Brown"})
	require.NoError(t, err)
	assert.NotEmpty(t, bob.ID)
	assert.Equal(t, []string{}, bob.Subjects)
	assert.False(t, bob.CreatedAt.IsZero())

	alice, err := svc.Create(ctx, "u1", student.StudentData{FirstName: "Alice", LastName: "Smith", YearLevel: 10})
	require.NoError(t, err)
	_, err = svc.Create(ctx, "u2", student.StudentData{FirstName: "Carl"})
	require.NoError(t, err)

	t.Run("default ordering is by name", func(t *testing.T) {
		got, err := svc.Query(ctx, student.QueryFilter{UserID: "u1"}, nil)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, alice.ID, got[0].ID)
		assert.Equal(t, bob.ID, got[1].ID)
	})

	t.Run("unknown ordering fields are ignored", func(t *testing.T) {
		got, err := svc.Query(ctx, student.QueryFilter{UserID: "u1"}, []core.DBOrdering{{Field: "notes"}, {Field: "year_level"}})
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, alice.ID, got[0].ID)
	})

	t.Run("exists is scoped to the user", func(t *testing.T) {
		ok, err := svc.Exists(ctx, "u1", alice.ID)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = svc.Exists(ctx, "u2", alice.ID)
		require.NoError(t, err)
		assert.False(t, ok)

		ok, err = svc.Exists(ctx, "u1", "missing")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("update and delete", func(t *testing.T) {
		updated, err := svc.Update(ctx, bob, student.StudentData{FirstName: "Bob", LastName: "Brown", School: "North High", Subjects: []string{"Maths"}})
		require.NoError(t, err)
		assert.Equal(t, "North High", updated.School)
		assert.Equal(t, []string{"Maths"}, updated.Subjects)

		require.NoError(t, svc.Delete(ctx, "u1", bob.ID))
		_, err = svc.GetByID(ctx, "u1", bob.ID)
		assert.True(t, core.IsNotFound(err))
	})
}
