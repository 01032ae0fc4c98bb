package meeting_test

import (
	"context"
	"testing"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mhue26/Sample-sub000/core"
	"github.com/mhue26/Sample-sub000/core/meeting"
	"github.com/mhue26/Sample-sub000/core/student"
)

type knownStudents struct {
	student.Service
}

func (knownStudents) Exists(context.Context, string, string) (bool, error) { return true, nil }

// meetingRepo fails every batch with `err`.
type meetingRepo struct {
	meeting.Repository
	err     error
	batches int
}

func (r *meetingRepo) CreateMeetings(_ context.Context, meetings []meeting.Meeting) ([]meeting.Meeting, error) {
	r.batches++
	return nil, r.err
}

func newTestValidator() *validator.Validate {
	_en := en.New()
	translator, _ := ut.New(_en, _en).GetTranslator("en")
	validate := validator.New()
	core.InitValidators(validate, translator)
	meeting.InitValidators(validate, translator)
	return validate
}

func TestService_Create_storageErrors(t *testing.T) {
	form := meeting.NewMeeting{
		Title: "Algebra", StudentID: "s1", Date: "2024-03-04", StartTime: "16:00", EndTime: "17:00",
		Repeat: true, Cadence: meeting.CadenceWeekly, RepeatCount: 3,
	}

	t.Run("student removed meanwhile", func(t *testing.T) {
		repo := &meetingRepo{err: student.ErrNotFound}
		svc := meeting.NewService(repo, knownStudents{}, newTestValidator())

		_, err := svc.Create(context.Background(), "u1", form)
		require.Equal(t, 1, repo.batches)
		vErr, ok := errors.Cause(err).(*core.ValidationError)
		require.True(t, ok, "got %v", err)
		assert.Equal(t, []core.FieldError{{Field: "student_id", Error: "unknown student"}}, vErr.Fields)
	})

	t.Run("other errors are wrapped", func(t *testing.T) {
		boom := errors.New("connection reset")
		svc := meeting.NewService(&meetingRepo{err: boom}, knownStudents{}, newTestValidator())

		_, err := svc.Create(context.Background(), "u1", form)
		assert.Equal(t, boom, errors.Cause(err))
		assert.EqualError(t, err, "creating meetings: connection reset")
	})
}
