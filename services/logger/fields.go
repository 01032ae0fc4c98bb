package logsvc

import (
	"github.com/mhue26/Sample-sub000/core/meeting"
	"github.com/mhue26/Sample-sub000/core/period"
	"github.com/mhue26/Sample-sub000/core/student"
)

// objectFields returns the identifiers of a domain object passed as a log arg.
func objectFields(arg interface{}) (map[string]interface{}, bool) {
	switch a := arg.(type) {
	case meeting.Meeting:
		fields := map[string]interface{}{"meeting_id": a.ID, "student_id": a.StudentID}
		if a.SeriesID != "" {
			fields["series_id"] = a.SeriesID
		}
		return fields, true
	case student.Student:
		return map[string]interface{}{"student_id": a.ID}, true
	case period.Term:
		return map[string]interface{}{"term_id": a.ID}, true
	case period.Holiday:
		return map[string]interface{}{"holiday_id": a.ID}, true
	case period.Period:
		return map[string]interface{}{string(a.Kind) + "_id": a.ID}, true
	}
	return nil, false
}
