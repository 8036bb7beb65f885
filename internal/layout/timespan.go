package layout

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/joseph-ayodele/timetable-import/internal/normalize"
)

var (
	pairedTimePattern = regexp.MustCompile(`(\d{1,2})\s*[:.]\s*(\d{2})\s*[-–—]\s*(\d{1,2})\s*[:.]\s*(\d{2})`)
	looseTimePattern  = regexp.MustCompile(`\b(\d{1,2})[:.](\d{2})\b`)
	timeOrDashPattern = regexp.MustCompile(`^[\d:.\s\-–—]+$`)
)

// TimeSpan is a start/end pair as zero-padded "HH:MM" strings with start < end.
type TimeSpan struct {
	Start string
	End   string
}

// Minutes returns the span in minutes after midnight.
func (s TimeSpan) Minutes() (start, end int) {
	start, _ = normalize.ParseClock(s.Start)
	end, _ = normalize.ParseClock(s.End)
	return start, end
}

// ExtractTimeSpan finds an "HH:MM-HH:MM" range in text. When no dashed pair is present
// the first two loose times are used in textual order.
func ExtractTimeSpan(text string) (TimeSpan, bool) {
	if m := pairedTimePattern.FindStringSubmatch(text); m != nil {
		if span, ok := makeSpan(m[1], m[2], m[3], m[4]); ok {
			return span, true
		}
	}
	loose := looseTimePattern.FindAllStringSubmatch(text, -1)
	if len(loose) < 2 {
		return TimeSpan{}, false
	}
	return makeSpan(loose[0][1], loose[0][2], loose[1][1], loose[1][2])
}

// CountTimeTokens returns how many time-shaped substrings text contains.
func CountTimeTokens(text string) int {
	return len(looseTimePattern.FindAllStringIndex(text, -1))
}

func isTimeLike(text string) bool {
	return looseTimePattern.MatchString(text)
}

// isTimeOrDash reports whether a token carries nothing but time punctuation.
func isTimeOrDash(text string) bool {
	return timeOrDashPattern.MatchString(strings.TrimSpace(text))
}

func makeSpan(h1, m1, h2, m2 string) (TimeSpan, bool) {
	span := TimeSpan{Start: padClock(h1, m1), End: padClock(h2, m2)}
	start, ok := normalize.ParseClock(span.Start)
	if !ok {
		return TimeSpan{}, false
	}
	end, ok := normalize.ParseClock(span.End)
	if !ok || start >= end {
		return TimeSpan{}, false
	}
	return span, true
}

func padClock(h, m string) string {
	hh, _ := strconv.Atoi(h)
	mm, _ := strconv.Atoi(m)
	return fmt.Sprintf("%02d:%02d", hh, mm)
}
