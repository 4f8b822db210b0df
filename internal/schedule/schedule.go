// Package schedule evaluates free-form weekly opening-hours strings
// against an instant. The result is precomputed and injected into
// catalog records so the text-generation service never has to reason
// about time arithmetic, which it does unreliably.
//
// Supported shapes include "24hs", "Lun-Vie 8-20", "L-V 8-13 y 16-20",
// "Mar-Dom 18-24", "Lun a Vie 8 a 20", "Sab 9-13" and multi-segment
// strings joined by "|", ";" or newlines.
package schedule

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/hilacarreon/vecinito/internal/textnorm"
)

// State is the outcome of evaluating a schedule at an instant.
type State int

const (
	// Unknown means the schedule could not be interpreted (blank input).
	Unknown State = iota
	// Open means at least one segment covers the instant.
	Open
	// Closed means the schedule parsed but no segment covers the instant.
	Closed
)

// String returns a short identifier for logging.
func (s State) String() string {
	switch s {
	case Open:
		return "open"
	case Closed:
		return "closed"
	default:
		return "unknown"
	}
}

var (
	alwaysOpenRe = regexp.MustCompile(`24\s*(?:hs|horas?|hours?)`)
	segmentSepRe = regexp.MustCompile(`[|;\n]`)
	dayJoinRe    = regexp.MustCompile(`(\w+)\s+a\s+(\w+)`)
	dayRangeRe   = regexp.MustCompile(`\b([a-z]+)\s*[-–]\s*([a-z]+)\b`)
	leadingDayRe = regexp.MustCompile(`^([a-z]+)`)
	hourRangeRe  = regexp.MustCompile(`(\d{1,2}(?:[:.]\d{2})?)\s*[-–]\s*(\d{1,2}(?:[:.]\d{2})?)`)
)

// dayNames maps normalized day names and abbreviations to a weekday
// index with Monday = 0. English names are accepted alongside Spanish.
var dayNames = map[string]int{
	"lunes": 0, "lun": 0, "lu": 0, "monday": 0, "mon": 0,
	"martes": 1, "mar": 1, "ma": 1, "tuesday": 1, "tue": 1, "tues": 1,
	"miercoles": 2, "mie": 2, "mi": 2, "wednesday": 2, "wed": 2,
	"jueves": 3, "jue": 3, "ju": 3, "thursday": 3, "thu": 3,
	"viernes": 4, "vie": 4, "vi": 4, "friday": 4, "fri": 4,
	"sabado": 5, "sab": 5, "sa": 5, "saturday": 5, "sat": 5,
	"domingo": 6, "dom": 6, "do": 6, "sunday": 6, "sun": 6,
}

// dayLetters covers single-letter Spanish abbreviations, which only
// appear in unambiguous ranges like "L-V".
var dayLetters = map[string]int{
	"l": 0, "m": 1, "x": 2, "j": 3, "v": 4, "s": 5, "d": 6,
}

// Evaluate determines whether a schedule covers the given instant.
func Evaluate(text string, at time.Time) State {
	if strings.TrimSpace(text) == "" {
		return Unknown
	}

	normalized := textnorm.Normalize(text)
	if alwaysOpenRe.MatchString(normalized) {
		return Open
	}

	today := mondayIndexed(at.Weekday())
	now := float64(at.Hour()) + float64(at.Minute())/60

	for _, segment := range segmentSepRe.Split(normalized, -1) {
		if segmentCovers(segment, today, now) {
			return Open
		}
	}
	return Closed
}

// segmentCovers evaluates one schedule segment against the weekday and
// decimal hour of the instant.
func segmentCovers(segment string, today int, now float64) bool {
	segment = strings.TrimSpace(segment)
	if segment == "" {
		return false
	}
	if strings.Contains(segment, "cerrado") || strings.Contains(segment, "closed") {
		return false
	}

	// "lun a vie 8 a 20" -> "lun-vie 8-20"
	segment = dayJoinRe.ReplaceAllString(segment, "$1-$2")

	days := resolveDays(segment)
	if !days[today] {
		return false
	}

	for _, match := range hourRangeRe.FindAllStringSubmatch(segment, -1) {
		opensAt, okOpen := parseHour(match[1])
		closesAt, okClose := parseHour(match[2])
		if !okOpen || !okClose {
			continue
		}

		switch {
		case closesAt > opensAt:
			if now >= opensAt && now < closesAt {
				return true
			}
		case closesAt < opensAt:
			// Overnight shift, e.g. 22-6.
			if now >= opensAt || now < closesAt {
				return true
			}
		}
		// closesAt == opensAt is malformed and ignored.
	}
	return false
}

// resolveDays returns the set of weekdays a segment applies to. With no
// recognizable day information the segment applies to all seven days.
func resolveDays(segment string) [7]bool {
	if m := dayRangeRe.FindStringSubmatch(segment); m != nil {
		from, okFrom := parseDay(m[1])
		to, okTo := parseDay(m[2])
		if okFrom && okTo {
			return expandDayRange(from, to)
		}
	}

	if m := leadingDayRe.FindStringSubmatch(segment); m != nil {
		if d, ok := parseDay(m[1]); ok {
			var days [7]bool
			days[d] = true
			return days
		}
	}

	var all [7]bool
	for i := range all {
		all[i] = true
	}
	return all
}

// parseDay resolves a day name, abbreviation or single letter to its
// Monday-indexed weekday.
func parseDay(s string) (int, bool) {
	s = strings.TrimRight(strings.TrimSpace(s), ".")
	if d, ok := dayNames[s]; ok {
		return d, true
	}
	if len(s) == 1 {
		if d, ok := dayLetters[s]; ok {
			return d, true
		}
	}
	return 0, false
}

// expandDayRange expands from-to inclusive, wrapping across the week
// boundary when the end precedes the start (Sab-Mar covers Sat, Sun,
// Mon, Tue).
func expandDayRange(from, to int) [7]bool {
	var days [7]bool
	for d := from; ; d = (d + 1) % 7 {
		days[d] = true
		if d == to {
			break
		}
	}
	return days
}

// parseHour converts "8", "8:30", "8.30" or "24" to decimal hours.
func parseHour(s string) (float64, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ".", ":")
	if h, m, ok := strings.Cut(s, ":"); ok {
		hours, err1 := strconv.Atoi(h)
		minutes, err2 := strconv.Atoi(m)
		if err1 != nil || err2 != nil {
			return 0, false
		}
		v := float64(hours) + float64(minutes)/60
		if v < 0 || v > 24 {
			return 0, false
		}
		return v, true
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 || v > 24 {
		return 0, false
	}
	return v, true
}

// mondayIndexed converts Go's Sunday-first weekday to Monday = 0.
func mondayIndexed(d time.Weekday) int {
	return (int(d) + 6) % 7
}
