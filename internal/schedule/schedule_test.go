package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// at builds an instant on a fixed week: 2024-01-01 is a Monday.
func at(weekday time.Weekday, hour, minute int) time.Time {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) // Monday
	offset := (int(weekday) + 6) % 7
	return base.AddDate(0, 0, offset).Add(
		time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
}

func TestEvaluateAlwaysOpen(t *testing.T) {
	instants := []time.Time{
		at(time.Monday, 3, 0),
		at(time.Saturday, 23, 59),
		at(time.Sunday, 12, 0),
	}
	for _, text := range []string{"24hs", "24 HS", "Abierto las 24 horas", "24  horas"} {
		for _, instant := range instants {
			assert.Equal(t, Open, Evaluate(text, instant), "%q at %v", text, instant)
		}
	}
}

func TestEvaluateBlankIsUnknown(t *testing.T) {
	assert.Equal(t, Unknown, Evaluate("", at(time.Monday, 12, 0)))
	assert.Equal(t, Unknown, Evaluate("   ", at(time.Monday, 12, 0)))
}

func TestEvaluateWeekdayRange(t *testing.T) {
	const text = "Mon-Fri 8-20"

	assert.Equal(t, Open, Evaluate(text, at(time.Wednesday, 19, 59)))
	assert.Equal(t, Closed, Evaluate(text, at(time.Wednesday, 20, 0)))
	assert.Equal(t, Closed, Evaluate(text, at(time.Saturday, 10, 0)))
	assert.Equal(t, Open, Evaluate(text, at(time.Monday, 8, 0)))
	assert.Equal(t, Closed, Evaluate(text, at(time.Monday, 7, 59)))
}

func TestEvaluateOvernight(t *testing.T) {
	const text = "22-6"

	assert.Equal(t, Open, Evaluate(text, at(time.Friday, 23, 0)))
	assert.Equal(t, Open, Evaluate(text, at(time.Friday, 2, 0)))
	assert.Equal(t, Closed, Evaluate(text, at(time.Friday, 12, 0)))
	assert.Equal(t, Closed, Evaluate(text, at(time.Friday, 6, 0)))
}

func TestEvaluateSpanishFormats(t *testing.T) {
	wednesdayNoon := at(time.Wednesday, 12, 0)
	sundayNoon := at(time.Sunday, 12, 0)

	tests := []struct {
		name    string
		text    string
		instant time.Time
		want    State
	}{
		{"full names", "Lunes-Viernes 9-18", wednesdayNoon, Open},
		{"single letters", "L-V 9-18", wednesdayNoon, Open},
		{"single letters weekend", "L-V 9-18", sundayNoon, Closed},
		{"a instead of dash", "Lun a Vie 8 a 20", wednesdayNoon, Open},
		{"split shift morning", "L-V 8-13 y 16-20", at(time.Tuesday, 12, 30), Open},
		{"split shift gap", "L-V 8-13 y 16-20", at(time.Tuesday, 14, 0), Closed},
		{"split shift evening", "L-V 8-13 y 16-20", at(time.Tuesday, 17, 0), Open},
		{"multi segment pipe", "Lun-Sab 8-20 | Dom 9-13", sundayNoon, Open},
		{"multi segment pipe closed", "Lun-Sab 8-20 | Dom 9-13", at(time.Sunday, 14, 0), Closed},
		{"single day", "Sab 9-13", at(time.Saturday, 10, 0), Open},
		{"single day other day", "Sab 9-13", wednesdayNoon, Closed},
		{"cerrado segment skipped", "L-S 7-13 | D cerrado", sundayNoon, Closed},
		{"week wrap", "Sab-Mar 10-20", at(time.Monday, 12, 0), Open},
		{"week wrap excluded", "Sab-Mar 10-20", at(time.Thursday, 12, 0), Closed},
		{"minutes colon", "Lun-Vie 8:30-17:30", at(time.Monday, 8, 29), Closed},
		{"minutes colon open", "Lun-Vie 8:30-17:30", at(time.Monday, 8, 30), Open},
		{"minutes dot", "Lun-Vie 8.30-17.30", at(time.Monday, 9, 0), Open},
		{"no day info applies daily", "9-21", sundayNoon, Open},
		{"until midnight", "Mar-Dom 18-24", at(time.Saturday, 23, 50), Open},
		{"accented day names", "Miércoles 10-14", wednesdayNoon, Open},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Evaluate(tt.text, tt.instant))
		})
	}
}

func TestEvaluateMalformedHourRangeIgnored(t *testing.T) {
	// Equal open and close is treated as malformed and skipped.
	assert.Equal(t, Closed, Evaluate("Lun-Vie 8-8", at(time.Monday, 8, 0)))
	// Out-of-range hours are skipped; the remaining range still counts.
	assert.Equal(t, Open, Evaluate("Lun-Vie 99-100 y 9-18", at(time.Monday, 12, 0)))
}

func TestEvaluateUnparseableTextIsClosed(t *testing.T) {
	// Text with no day or hour information parses to an all-days segment
	// with no ranges, which never matches.
	assert.Equal(t, Closed, Evaluate("consultar por telefono", at(time.Monday, 12, 0)))
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "open", Open.String())
	assert.Equal(t, "closed", Closed.String())
	assert.Equal(t, "unknown", Unknown.String())
}
