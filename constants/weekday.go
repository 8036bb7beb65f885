package constants

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
)

// Weekday is the canonical three-letter day code stored on every block.
type Weekday string

const (
	Monday    Weekday = "Mon"
	Tuesday   Weekday = "Tue"
	Wednesday Weekday = "Wed"
	Thursday  Weekday = "Thu"
	Friday    Weekday = "Fri"
	Saturday  Weekday = "Sat"
	Sunday    Weekday = "Sun"
)

var allWeekdays = []Weekday{
	Monday,
	Tuesday,
	Wednesday,
	Thursday,
	Friday,
	Saturday,
	Sunday,
}

// Weekdays returns the seven day codes in canonical Mon..Sun order.
func Weekdays() []Weekday {
	out := make([]Weekday, len(allWeekdays))
	copy(out, allWeekdays)
	return out
}

// Index returns the position of d in Mon..Sun order, or -1 for an unknown code.
func (d Weekday) Index() int {
	for i, w := range allWeekdays {
		if w == d {
			return i
		}
	}
	return -1
}

// weekdayAliases maps case-folded spellings, punctuation removed, to day codes.
var weekdayAliases = map[string]Weekday{
	"mon": Monday, "mo": Monday, "monday": Monday, "pazartesi": Monday, "pzt": Monday,
	"tue": Tuesday, "tu": Tuesday, "tues": Tuesday, "tuesday": Tuesday, "salı": Tuesday, "sali": Tuesday,
	"wed": Wednesday, "we": Wednesday, "weds": Wednesday, "wednesday": Wednesday, "çarşamba": Wednesday, "carsamba": Wednesday,
	"thu": Thursday, "th": Thursday, "thur": Thursday, "thurs": Thursday, "thursday": Thursday, "perşembe": Thursday, "persembe": Thursday,
	"fri": Friday, "fr": Friday, "friday": Friday, "cuma": Friday,
	"sat": Saturday, "sa": Saturday, "saturday": Saturday, "cumartesi": Saturday, "cmt": Saturday,
	"sun": Sunday, "su": Sunday, "sunday": Sunday, "pazar": Sunday,
}

// CanonicalizeWeekday maps free-form day text ("monday", "Tue.", "WED") to a day code.
// Matching is case-insensitive and ignores punctuation and spaces.
func CanonicalizeWeekday(input string) (Weekday, bool) {
	key := foldKey(input)
	if key == "" {
		return "", false
	}
	d, ok := weekdayAliases[key]
	return d, ok
}

// IsHourLabel reports whether s is the caption of a timetable's time column.
func IsHourLabel(s string) bool {
	switch foldKey(s) {
	case "hour", "hours", "time", "times", "saat":
		return true
	}
	return false
}

// IsDayPlaceholder reports whether s reads as a generic day header ("Day", "Day 3", "Gün").
func IsDayPlaceholder(s string) bool {
	return dayPlaceholderPattern.MatchString(foldKey(s))
}

var dayPlaceholderPattern = regexp.MustCompile(`^(day|gün|gun)\d*$`)

// foldKey case-folds s and keeps only its letters and digits.
func foldKey(s string) string {
	s = cases.Fold().String(strings.TrimSpace(s))
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return -1
	}, s)
}
