package period

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/mhue26/Sample-sub000/core"
)

var (
	dateRangeTag  = "daterange"
	dateRangeText = "end date cannot be before start date"
)

// InitValidators registers the period validators and their translations.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	validate.RegisterStructValidation(periodStructValidation, PeriodData{})
	core.RegisterCustomTranslation(validate, translator, dateRangeTag, dateRangeText)
}

func periodStructValidation(sl validator.StructLevel) {
	pd := sl.Current().Interface().(PeriodData)
	if !pd.Start.IsZero() && !pd.End.IsZero() && pd.End.Before(pd.Start) {
		sl.ReportError(pd.End, "end_date", "End", dateRangeTag, "")
	}
}
