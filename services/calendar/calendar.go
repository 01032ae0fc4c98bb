package calendarsvc

import (
	"context"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/pkg/errors"

	"github.com/mhue26/Sample-sub000/core"
	"github.com/mhue26/Sample-sub000/core/meeting"
	"github.com/mhue26/Sample-sub000/core/period"
	"github.com/mhue26/Sample-sub000/core/student"
)

const ContentType = "text/calendar; charset=utf-8"

// Feed is the content of one exported calendar.
type Feed struct {
	Name     string
	Meetings []meeting.Meeting
	Periods  []period.Period
	Students map[string]student.Student // by ID
}

// Export serializes `feed` as an iCalendar document.
// Meetings are exported one VEVENT per occurrence; periods become all-day events.
func Export(feed Feed, domain string, stamp time.Time) string {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//" + domain + "//Tutorly//EN")
	cal.SetXWRCalName(feed.Name)

	for _, m := range feed.Meetings {
		ev := cal.AddEvent(m.ID + "@" + domain)
		ev.SetDtStampTime(stamp)
		ev.SetCreatedTime(m.CreatedAt)
		ev.SetModifiedAt(m.UpdatedAt)
		ev.SetStartAt(m.Start)
		ev.SetEndAt(m.End)
		ev.SetSummary(m.Title)
		if s, ok := feed.Students[m.StudentID]; ok {
			ev.SetDescription(joinLines(s.FullName(), m.Description))
		} else if m.Description != "" {
			ev.SetDescription(m.Description)
		}
		if m.Completed {
			ev.SetStatus(ics.ObjectStatusConfirmed)
		}
		if m.SeriesID != "" {
			ev.SetProperty(ics.ComponentProperty("RELATED-TO"), m.SeriesID+"@"+domain)
		}
		ev.AddProperty(ics.ComponentPropertyCategories, "meeting")
	}

	for _, p := range feed.Periods {
		ev := cal.AddEvent(fmt.Sprintf("%s-%s@%s", p.Kind, p.ID, domain))
		ev.SetDtStampTime(stamp)
		ev.SetAllDayStartAt(p.Start.Time())
		ev.SetAllDayEndAt(p.End.AddDays(1).Time()) // DTEND is exclusive
		ev.SetSummary(p.Name)
		ev.SetProperty(ics.ComponentPropertyTransp, "TRANSPARENT")
		ev.AddProperty(ics.ComponentPropertyCategories, string(p.Kind))
	}

	return cal.Serialize()
}

func joinLines(first, second string) string {
	if second == "" {
		return first
	}
	return first + "\n" + second
}

type (
	Service interface {
		// UserCalendar exports the user's meetings between `from` and `to` and all their periods.
		UserCalendar(ctx context.Context, userID string, from, to core.Date) (string, error)
	}

	service struct {
		conf       *core.Config
		meetingSvc meeting.Service
		periodSvc  period.Service
		studentSvc student.Service
	}
)

var _ Service = (*service)(nil)

func NewService(conf *core.Config, meetingSvc meeting.Service, periodSvc period.Service, studentSvc student.Service) Service {
	return &service{
		conf:       conf,
		meetingSvc: meetingSvc,
		periodSvc:  periodSvc,
		studentSvc: studentSvc,
	}
}

func (svc *service) UserCalendar(ctx context.Context, userID string, from, to core.Date) (string, error) {
	meetings, err := svc.meetingSvc.Query(ctx, meeting.QueryFilter{UserID: userID, From: from, To: to}, nil)
	if err != nil {
		return "", errors.Wrap(err, "querying meetings")
	}
	periods, err := svc.periodSvc.Periods(ctx, period.QueryFilter{UserID: userID})
	if err != nil {
		return "", errors.Wrap(err, "querying periods")
	}
	students, err := svc.studentSvc.Query(ctx, student.QueryFilter{UserID: userID}, nil)
	if err != nil {
		return "", errors.Wrap(err, "querying students")
	}

	byID := make(map[string]student.Student, len(students))
	for _, s := range students {
		byID[s.ID] = s
	}
	feed := Feed{
		Name:     svc.conf.AppName,
		Meetings: meetings,
		Periods:  periods,
		Students: byID,
	}
	return Export(feed, svc.conf.Server.Host, time.Now()), nil
}
