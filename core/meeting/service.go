package meeting

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/mhue26/Sample-sub000/core"
	"github.com/mhue26/Sample-sub000/core/student"
)

var (
	ErrNotFound       = core.NewNotFoundError("meeting")
	ErrSeriesNotFound = core.NewNotFoundError("meeting series")

	errUnknownStudent = "unknown student"
	errNotInSeries    = "meeting is not part of this series"
)

type (
	Repository interface {
		// CreateMeetings stores all of `meetings` or none of them.
		// It returns student.ErrNotFound when a student does not belong to the meeting's user.
		CreateMeetings(ctx context.Context, meetings []Meeting) ([]Meeting, error)
		QueryMeetings(ctx context.Context, filter QueryFilter, ordering []core.DBOrdering) ([]Meeting, error)
		GetMeeting(ctx context.Context, userID, id string) (Meeting, error)
		UpdateMeeting(ctx context.Context, m Meeting) (Meeting, error)
		DeleteMeeting(ctx context.Context, userID, id string) error
		// DeleteSeries deletes the occurrences of a series starting at or after `from` (all of them if zero).
		DeleteSeries(ctx context.Context, userID, seriesID string, from time.Time) (int, error)
	}

	Service interface {
		// Create validates the form, expands it and stores every occurrence in one batch.
		Create(ctx context.Context, userID string, nm NewMeeting) ([]Meeting, error)
		// Preview is Create without storing anything.
		Preview(ctx context.Context, userID string, nm NewMeeting) ([]Meeting, error)
		Query(ctx context.Context, filter QueryFilter, ordering []core.DBOrdering) ([]Meeting, error)
		GetByID(ctx context.Context, userID, id string) (Meeting, error)
		Update(ctx context.Context, m Meeting, um UpdateMeeting) (Meeting, error)
		Delete(ctx context.Context, userID, id string) error
		DeleteSeries(ctx context.Context, userID, seriesID, fromID string) (int, error)
	}

	service struct {
		repo       Repository
		studentSvc student.Service
		validate   *validator.Validate
	}
)

var _ Service = (*service)(nil)

var meetingOrderingFields = []string{"start_at", "end_at", "title", "completed", "created_at"}

func NewService(repo Repository, studentSvc student.Service, validate *validator.Validate) Service {
	return &service{
		repo:       repo,
		studentSvc: studentSvc,
		validate:   validate,
	}
}

func (svc *service) expand(ctx context.Context, userID string, nm NewMeeting) ([]Meeting, error) {
	if err := nm.Validate(svc.validate); err != nil {
		return nil, err
	}
	exists, err := svc.studentSvc.Exists(ctx, userID, nm.StudentID)
	if err != nil {
		return nil, errors.Wrap(err, "checking student")
	}
	if !exists {
		return nil, core.NewValidationError(nil, core.FieldError{Field: "student_id", Error: errUnknownStudent})
	}
	draft, err := nm.Draft(userID)
	if err != nil {
		return nil, errors.Wrap(err, "building draft")
	}
	return Expand(draft)
}

func (svc *service) Create(ctx context.Context, userID string, nm NewMeeting) ([]Meeting, error) {
	meetings, err := svc.expand(ctx, userID, nm)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	for i := range meetings {
		meetings[i].CreatedAt = now
		meetings[i].UpdatedAt = now
	}
	meetings, err = svc.repo.CreateMeetings(ctx, meetings)
	if errors.Cause(err) == student.ErrNotFound {
		// deleted or reassigned since expand checked it
		return nil, core.NewValidationError(nil, core.FieldError{Field: "student_id", Error: errUnknownStudent})
	}
	return meetings, errors.Wrap(err, "creating meetings")
}

func (svc *service) Preview(ctx context.Context, userID string, nm NewMeeting) ([]Meeting, error) {
	return svc.expand(ctx, userID, nm)
}

func (svc *service) Query(ctx context.Context, filter QueryFilter, ordering []core.DBOrdering) ([]Meeting, error) {
	ordering = core.AllowedOrderings(ordering, meetingOrderingFields...)
	if len(ordering) == 0 {
		ordering = []core.DBOrdering{{Field: "start_at", Ascending: true}}
	}
	return svc.repo.QueryMeetings(ctx, filter, ordering)
}

func (svc *service) GetByID(ctx context.Context, userID, id string) (Meeting, error) {
	return svc.repo.GetMeeting(ctx, userID, id)
}

func (svc *service) Update(ctx context.Context, m Meeting, um UpdateMeeting) (Meeting, error) {
	m.Title = um.Title
	m.Description = um.Description
	m.Start = um.Start
	m.End = um.End
	m.Completed = um.Completed
	m.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateMeeting(ctx, m)
}

func (svc *service) Delete(ctx context.Context, userID, id string) error {
	return svc.repo.DeleteMeeting(ctx, userID, id)
}

func (svc *service) DeleteSeries(ctx context.Context, userID, seriesID, fromID string) (int, error) {
	var from time.Time
	if fromID != "" {
		m, err := svc.repo.GetMeeting(ctx, userID, fromID)
		if err != nil {
			if core.IsNotFound(err) {
				return 0, core.NewValidationError(nil, core.FieldError{Field: "from", Error: errNotInSeries})
			}
			return 0, errors.Wrap(err, "finding meeting")
		}
		if m.SeriesID != seriesID {
			return 0, core.NewValidationError(nil, core.FieldError{Field: "from", Error: errNotInSeries})
		}
		from = m.Start
	}

	n, err := svc.repo.DeleteSeries(ctx, userID, seriesID, from)
	if err != nil {
		return 0, errors.Wrap(err, "deleting series")
	}
	if n == 0 {
		return 0, ErrSeriesNotFound
	}
	return n, nil
}
