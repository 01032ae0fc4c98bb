package digest

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"github.com/pkg/errors"

	"github.com/mhue26/Sample-sub000/core"
	"github.com/mhue26/Sample-sub000/core/meeting"
	"github.com/mhue26/Sample-sub000/core/period"
	"github.com/mhue26/Sample-sub000/core/preference"
	"github.com/mhue26/Sample-sub000/core/student"
	"github.com/mhue26/Sample-sub000/core/user"
)

const (
	templateName = "weekly_digest"
	// gaps starting within this many days are reported
	gapHorizon = 8 * 7
)

// Exporter renders a user's calendar as an iCalendar document.
type Exporter interface {
	UserCalendar(ctx context.Context, userID string, from, to core.Date) (string, error)
}

type (
	TermData struct {
		Name string
		Week int
	}

	MeetingData struct {
		When    string
		Title   string
		Student string
	}

	Data struct {
		Name     string
		From     core.Date
		To       core.Date
		Term     *TermData
		Meetings []MeetingData
		Gaps     []period.Gap
	}
)

// Service sends every active tutor a summary of their coming week.
type Service struct {
	userSvc       user.Service
	meetingSvc    meeting.Service
	periodSvc     period.Service
	studentSvc    student.Service
	preferenceSvc preference.Service
	exporter      Exporter
	mailSvc       core.EmailService
	logger        core.Logger
}

func NewService(
	userSvc user.Service,
	meetingSvc meeting.Service,
	periodSvc period.Service,
	studentSvc student.Service,
	preferenceSvc preference.Service,
	exporter Exporter,
	mailSvc core.EmailService,
	logger core.Logger,
) *Service {
	return &Service{
		userSvc:       userSvc,
		meetingSvc:    meetingSvc,
		periodSvc:     periodSvc,
		studentSvc:    studentSvc,
		preferenceSvc: preferenceSvc,
		exporter:      exporter,
		mailSvc:       mailSvc,
		logger:        logger,
	}
}

func (svc *Service) Name() string { return "weekly-digest" }

// Run sends the digest for the week following today.
func (svc *Service) Run(ctx context.Context) error {
	_, err := svc.SendWeekly(ctx, core.Today().AddDays(1))
	return err
}

// SendWeekly sends the digest of the 7 days starting on `from` and returns the number of messages sent.
// Users without an email address or who disabled the digest are skipped.
func (svc *Service) SendWeekly(ctx context.Context, from core.Date) (int, error) {
	active := true
	tutors, err := svc.userSvc.Query(ctx, &user.QueryFilter{Roles: []string{user.RoleTutor}, IsActive: &active}, nil)
	if err != nil {
		return 0, errors.Wrap(err, "querying tutors")
	}
	optOuts, err := svc.preferenceSvc.DigestOptOuts(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "querying digest opt-outs")
	}
	skip := make(map[string]struct{}, len(optOuts))
	for _, id := range optOuts {
		skip[id] = struct{}{}
	}

	messages := make([]*core.EmailMessage, 0, len(tutors))
	for _, usr := range tutors {
		if _, ok := skip[usr.ID]; ok || usr.Email == "" {
			continue
		}
		msg, err := svc.message(ctx, usr, from)
		if err != nil {
			// one broken account must not block the others
			svc.logger.Error(fmt.Sprintf("building digest for %s: %v", usr.ID, err), err, usr)
			continue
		}
		messages = append(messages, msg)
	}
	svc.mailSvc.SendMessages(messages...)
	return len(messages), nil
}

func (svc *Service) message(ctx context.Context, usr user.User, from core.Date) (*core.EmailMessage, error) {
	data, err := svc.Collect(ctx, usr, from)
	if err != nil {
		return nil, err
	}
	ics, err := svc.exporter.UserCalendar(ctx, usr.ID, data.From, data.To)
	if err != nil {
		return nil, errors.Wrap(err, "exporting calendar")
	}

	msg := &core.EmailMessage{
		To:           []mail.Address{{Name: usr.Name, Address: usr.Email}},
		Subject:      fmt.Sprintf("Your week from %s", data.From),
		TemplateName: templateName,
		TemplateData: data,
	}
	if err := msg.Attach(strings.NewReader(ics), "week.ics", "text/calendar"); err != nil {
		return nil, errors.Wrap(err, "attaching calendar")
	}
	return msg, nil
}

// Collect gathers the digest content of `usr` for the 7 days starting on `from`.
func (svc *Service) Collect(ctx context.Context, usr user.User, from core.Date) (Data, error) {
	data := Data{Name: usr.Name, From: from, To: from.AddDays(6)}
	if data.Name == "" {
		data.Name = usr.Username
	}

	meetings, err := svc.meetingSvc.Query(ctx, meeting.QueryFilter{UserID: usr.ID, From: data.From, To: data.To}, nil)
	if err != nil {
		return Data{}, errors.Wrap(err, "querying meetings")
	}
	students, err := svc.studentSvc.Query(ctx, student.QueryFilter{UserID: usr.ID}, nil)
	if err != nil {
		return Data{}, errors.Wrap(err, "querying students")
	}
	names := make(map[string]string, len(students))
	for _, s := range students {
		names[s.ID] = s.FullName()
	}
	for _, m := range meetings {
		data.Meetings = append(data.Meetings, MeetingData{
			When:    m.Start.Format("Mon 02 Jan 15:04") + "-" + m.End.Format("15:04"),
			Title:   m.Title,
			Student: names[m.StudentID],
		})
	}

	cur, err := svc.periodSvc.Current(ctx, usr.ID, from)
	if err != nil {
		return Data{}, errors.Wrap(err, "finding current term")
	}
	if cur.Term != nil {
		data.Term = &TermData{Name: cur.Term.Name, Week: cur.Week}
	}

	gaps, err := svc.periodSvc.Gaps(ctx, period.QueryFilter{UserID: usr.ID})
	if err != nil {
		return Data{}, errors.Wrap(err, "finding gaps")
	}
	horizon := from.AddDays(gapHorizon)
	for _, g := range gaps {
		if !g.End.Before(from) && !g.Start.After(horizon) {
			data.Gaps = append(data.Gaps, g)
		}
	}
	return data, nil
}
