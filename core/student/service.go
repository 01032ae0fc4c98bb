package student

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/mhue26/Sample-sub000/core"
)

var ErrNotFound = core.NewNotFoundError("student")

type (
	Repository interface {
		CreateStudent(ctx context.Context, s Student) (Student, error)
		// QueryStudents applies AND operation on available QueryFilter fields.
		// QueryFilter.Search does a case-insensitive match on the names, emails and school.
		QueryStudents(ctx context.Context, filter QueryFilter, ordering []core.DBOrdering) ([]Student, error)
		GetStudent(ctx context.Context, userID, id string) (Student, error)
		UpdateStudent(ctx context.Context, s Student) (Student, error)
		DeleteStudent(ctx context.Context, userID, id string) error
	}

	Service interface {
		Create(ctx context.Context, userID string, data StudentData) (Student, error)
		Query(ctx context.Context, filter QueryFilter, ordering []core.DBOrdering) ([]Student, error)
		GetByID(ctx context.Context, userID, id string) (Student, error)
		// Exists tells whether the Student `id` belongs to the user.
		Exists(ctx context.Context, userID, id string) (bool, error)
		Update(ctx context.Context, s Student, data StudentData) (Student, error)
		Delete(ctx context.Context, userID, id string) error
	}

	service struct {
		repo Repository
	}
)

var _ Service = (*service)(nil)

var studentOrderingFields = []string{"first_name", "last_name", "school", "year_level", "created_at"}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (svc *service) Create(ctx context.Context, userID string, data StudentData) (Student, error) {
	now := time.Now().UTC()
	s := Student{
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	data.apply(&s)
	return svc.repo.CreateStudent(ctx, s)
}

func (svc *service) Query(ctx context.Context, filter QueryFilter, ordering []core.DBOrdering) ([]Student, error) {
	ordering = core.AllowedOrderings(ordering, studentOrderingFields...)
	if len(ordering) == 0 {
		ordering = []core.DBOrdering{{Field: "first_name", Ascending: true}, {Field: "last_name", Ascending: true}}
	}
	return svc.repo.QueryStudents(ctx, filter, ordering)
}

func (svc *service) GetByID(ctx context.Context, userID, id string) (Student, error) {
	return svc.repo.GetStudent(ctx, userID, id)
}

func (svc *service) Exists(ctx context.Context, userID, id string) (bool, error) {
	if _, err := svc.repo.GetStudent(ctx, userID, id); err != nil {
		if core.IsNotFound(err) {
			return false, nil
		}
		return false, errors.Wrap(err, "finding student")
	}
	return true, nil
}

func (svc *service) Update(ctx context.Context, s Student, data StudentData) (Student, error) {
	data.apply(&s)
	s.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateStudent(ctx, s)
}

func (svc *service) Delete(ctx context.Context, userID, id string) error {
	return svc.repo.DeleteStudent(ctx, userID, id)
}
