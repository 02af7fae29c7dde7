package formgate

import (
	"fmt"
	"strconv"

	"github.com/rotisserie/eris"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Option is one selectable value of a discrete input.
type Option struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label" yaml:"label"`
}

var (
	dayLabels     = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}
	weatherValues = []string{"sunny", "cloudy", "rainy", "foggy", "stormy"}
	vehicleValues = []string{"car", "bike", "bus", "truck", "auto"}
	yesNo         = []Option{{Value: "yes", Label: "Yes"}, {Value: "no", Label: "No"}}
)

// Options returns the selectable values of every enumerated field except
// area, whose values come from the area registry.
func Options() map[string][]Option {
	hours := make([]Option, 24)
	for h := 0; h < 24; h++ {
		hours[h] = Option{Value: strconv.Itoa(h), Label: fmt.Sprintf("%02d:00", h)}
	}

	days := make([]Option, len(dayLabels))
	for i, l := range dayLabels {
		days[i] = Option{Value: strconv.Itoa(i + 1), Label: l}
	}

	return map[string][]Option{
		FieldTime:         hours,
		FieldDay:          days,
		FieldWeather:      labelled(weatherValues),
		FieldVehicleType:  labelled(vehicleValues),
		FieldRandomEvents: yesNo,
		FieldPeakHours:    yesNo,
	}
}

func labelled(values []string) []Option {
	title := cases.Title(language.English)
	out := make([]Option, len(values))
	for i, v := range values {
		out[i] = Option{Value: v, Label: title.String(v)}
	}
	return out
}

// Validate checks value against the options of field. Empty values are
// always valid (they clear the field). Area is not checked here.
func Validate(field, value string) error {
	if !IsRequired(field) {
		return eris.Wrapf(ErrUnknownField, "%q", field)
	}
	if value == "" || field == FieldArea {
		return nil
	}
	for _, o := range Options()[field] {
		if o.Value == value {
			return nil
		}
	}
	return eris.Wrapf(ErrInvalidValue, "%s=%q", field, value)
}
