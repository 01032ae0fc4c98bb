package preference

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/mhue26/Sample-sub000/core"
)

var ErrNotFound = core.NewNotFoundError("preferences")

var (
	DefaultMeetingColor = "#1e88e5"
	DefaultTermColor    = "#43a047"
	DefaultHolidayColor = "#fb8c00"
	DefaultSubjects     = []string{"Maths", "English", "Science"}
)

// Preferences is the per user display and notification configuration.
type Preferences struct {
	UserID        string    `json:"user_id"`
	MeetingColor  string    `json:"meeting_color"`
	TermColor     string    `json:"term_color"`
	HolidayColor  string    `json:"holiday_color"`
	Subjects      []string  `json:"subjects"`
	WeekStartsOn  int       `json:"week_starts_on"` // 0: Sunday
	DigestEnabled bool      `json:"digest_enabled"`
	UpdatedAt     time.Time `json:"updated_at"` // UTC; zero until first saved
}

// Default returns the preferences of a user who never saved any.
func Default(userID string) Preferences {
	subjects := make([]string, len(DefaultSubjects))
	copy(subjects, DefaultSubjects)
	return Preferences{
		UserID:        userID,
		MeetingColor:  DefaultMeetingColor,
		TermColor:     DefaultTermColor,
		HolidayColor:  DefaultHolidayColor,
		Subjects:      subjects,
		WeekStartsOn:  int(time.Monday),
		DigestEnabled: true,
	}
}

type UpdatePreferences struct {
	MeetingColor  string   `json:"meeting_color" validate:"required,hexcolor"`
	TermColor     string   `json:"term_color" validate:"required,hexcolor"`
	HolidayColor  string   `json:"holiday_color" validate:"required,hexcolor"`
	Subjects      []string `json:"subjects" validate:"required,min=1,max=50,dive,max=100"`
	WeekStartsOn  int      `json:"week_starts_on" validate:"min=0,max=6"`
	DigestEnabled bool     `json:"digest_enabled"`
}

func (up *UpdatePreferences) Validate(validate *validator.Validate) error {
	up.MeetingColor = core.CleanString(up.MeetingColor, true /* lower */)
	up.TermColor = core.CleanString(up.TermColor, true /* lower */)
	up.HolidayColor = core.CleanString(up.HolidayColor, true /* lower */)
	up.Subjects = core.CleanStrings(up.Subjects)
	return validate.Struct(up)
}

type (
	Repository interface {
		// GetPreferences returns ErrNotFound when the user never saved any.
		GetPreferences(ctx context.Context, userID string) (Preferences, error)
		// SavePreferences inserts or replaces the user's preferences.
		SavePreferences(ctx context.Context, p Preferences) (Preferences, error)
		// DigestOptOuts returns the ids of the users who disabled the digest.
		DigestOptOuts(ctx context.Context) ([]string, error)
	}

	Service interface {
		Get(ctx context.Context, userID string) (Preferences, error)
		Update(ctx context.Context, userID string, up UpdatePreferences) (Preferences, error)
		DigestOptOuts(ctx context.Context) ([]string, error)
	}

	service struct {
		repo Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (svc *service) Get(ctx context.Context, userID string) (Preferences, error) {
	p, err := svc.repo.GetPreferences(ctx, userID)
	if err != nil {
		if core.IsNotFound(err) {
			return Default(userID), nil
		}
		return Preferences{}, err
	}
	return p, nil
}

func (svc *service) Update(ctx context.Context, userID string, up UpdatePreferences) (Preferences, error) {
	return svc.repo.SavePreferences(ctx, Preferences{
		UserID:        userID,
		MeetingColor:  up.MeetingColor,
		TermColor:     up.TermColor,
		HolidayColor:  up.HolidayColor,
		Subjects:      up.Subjects,
		WeekStartsOn:  up.WeekStartsOn,
		DigestEnabled: up.DigestEnabled,
		UpdatedAt:     time.Now().UTC(),
	})
}

func (svc *service) DigestOptOuts(ctx context.Context) ([]string, error) {
	return svc.repo.DigestOptOuts(ctx)
}
