package student

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/mhue26/Sample-sub000/core"
)

// Student is a tutored student's profile, owned by one tutor (UserID).
type Student struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	ParentName  string    `json:"parent_name"`
	ParentEmail string    `json:"parent_email"`
	ParentPhone string    `json:"parent_phone"`
	School      string    `json:"school"`
	YearLevel   int       `json:"year_level"`
	Subjects    []string  `json:"subjects"`
	Notes       string    `json:"notes"`
	HourlyRate  int       `json:"hourly_rate"` // cents
	IsArchived  bool      `json:"is_archived"`
	CreatedAt   time.Time `json:"created_at"` // UTC
	UpdatedAt   time.Time `json:"updated_at"` // UTC
}

func (s Student) FullName() string {
	if s.LastName == "" {
		return s.FirstName
	}
	return s.FirstName + " " + s.LastName
}

// StudentData contains the editable fields of a Student, for both creation and update.
type StudentData struct {
	FirstName   string   `json:"first_name" validate:"required,max=100"`
	LastName    string   `json:"last_name" validate:"max=100"`
	Email       string   `json:"email" validate:"omitempty,email"`
	Phone       string   `json:"phone" validate:"max=30"`
	ParentName  string   `json:"parent_name" validate:"max=200"`
	ParentEmail string   `json:"parent_email" validate:"omitempty,email"`
	ParentPhone string   `json:"parent_phone" validate:"max=30"`
	School      string   `json:"school" validate:"max=200"`
	YearLevel   int      `json:"year_level" validate:"min=0,max=13"`
	Subjects    []string `json:"subjects" validate:"dive,max=100"`
	Notes       string   `json:"notes"`
	HourlyRate  int      `json:"hourly_rate" validate:"min=0"`
	IsArchived  bool     `json:"is_archived"`
}

func (sd *StudentData) Validate(validate *validator.Validate) error {
	sd.FirstName = core.CleanString(sd.FirstName)
	sd.LastName = core.CleanString(sd.LastName)
	sd.Email = core.CleanString(sd.Email, true /* lower */)
	sd.Phone = core.CleanString(sd.Phone)
	sd.ParentName = core.CleanString(sd.ParentName)
	sd.ParentEmail = core.CleanString(sd.ParentEmail, true /* lower */)
	sd.ParentPhone = core.CleanString(sd.ParentPhone)
	sd.School = core.CleanString(sd.School)
	sd.Notes = core.CleanString(sd.Notes)
	sd.Subjects = core.CleanStrings(sd.Subjects)
	return validate.Struct(sd)
}

func (sd StudentData) apply(s *Student) {
	s.FirstName = sd.FirstName
	s.LastName = sd.LastName
	s.Email = sd.Email
	s.Phone = sd.Phone
	s.ParentName = sd.ParentName
	s.ParentEmail = sd.ParentEmail
	s.ParentPhone = sd.ParentPhone
	s.School = sd.School
	s.YearLevel = sd.YearLevel
	s.Subjects = sd.Subjects
	if s.Subjects == nil {
		s.Subjects = []string{}
	}
	s.Notes = sd.Notes
	s.HourlyRate = sd.HourlyRate
	s.IsArchived = sd.IsArchived
}

type QueryFilter struct {
	UserID     string `query:"-"`
	Search     string `query:"search"`
	Subject    string `query:"subject"`
	IsArchived *bool  `query:"is_archived"`
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.Subject = core.CleanString(qf.Subject)
}
