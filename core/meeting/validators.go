package meeting

import (
	"fmt"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/mhue26/Sample-sub000/core"
)

var (
	timeOrderTag  = "timeorder"
	timeOrderText = "end time must be after start time"

	repeatCadenceTag  = "repeatcadence"
	repeatCadenceText = "a cadence is required for repeating meetings"

	repeatCountTag  = "repeatcount"
	repeatCountText = fmt.Sprintf("repeat count must be between 2 and %d", MaxRepeatCount)
)

// InitValidators registers the meeting validators and their translations.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	validate.RegisterStructValidation(newMeetingStructValidation, NewMeeting{})
	core.RegisterCustomTranslation(validate, translator, timeOrderTag, timeOrderText)
	core.RegisterCustomTranslation(validate, translator, repeatCadenceTag, repeatCadenceText)
	core.RegisterCustomTranslation(validate, translator, repeatCountTag, repeatCountText)
}

// newMeetingStructValidation checks time ordering and the repeat policy of a NewMeeting.
func newMeetingStructValidation(sl validator.StructLevel) {
	nm := sl.Current().Interface().(NewMeeting)

	start, sErr := time.Parse(core.TimeLayout, nm.StartTime)
	end, eErr := time.Parse(core.TimeLayout, nm.EndTime)
	if sErr == nil && eErr == nil && !end.After(start) {
		sl.ReportError(nm.EndTime, "end_time", "EndTime", timeOrderTag, "")
	}

	if !nm.Repeat {
		return
	}
	if nm.Cadence == CadenceNone {
		sl.ReportError(nm.Cadence, "cadence", "Cadence", repeatCadenceTag, "")
	}
	if nm.RepeatCount < 2 || nm.RepeatCount > MaxRepeatCount {
		sl.ReportError(nm.RepeatCount, "repeat_count", "RepeatCount", repeatCountTag, "")
	}
}
