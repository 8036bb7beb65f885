package layout

import (
	"regexp"
	"strings"
)

var (
	courseCodePattern = regexp.MustCompile(`\b[A-Z]{1,4}\d{2,4}(?:-\d{3})?\b`)
	sectionPattern    = regexp.MustCompile(`-\d{3}$`)
)

// noiseWords are OCR fragments of cell captions that never belong to a course.
var noiseWords = map[string]bool{
	"face":         true,
	"to":           true,
	"lecture":      true,
	"spare":        true,
	"hour":         true,
	"face-to-face": true,
	"face-to":      true,
}

// CourseFields is what can be read out of one timetable cell.
type CourseFields struct {
	Name        string
	Location    string
	Description string
}

// ExtractCourseFields parses a cell's text. A code with a three-digit section suffix
// ("CS101-101") is preferred as the name, otherwise the first code wins. The next
// different code is the location and the leftover words are the description.
// ok is false when no code is found.
func ExtractCourseFields(text string) (CourseFields, bool) {
	words := strings.Fields(text)
	kept := words[:0]
	for _, w := range words {
		if !noiseWords[strings.ToLower(w)] {
			kept = append(kept, w)
		}
	}
	cleaned := strings.Join(kept, " ")

	codes := courseCodePattern.FindAllString(cleaned, -1)
	if len(codes) == 0 {
		return CourseFields{}, false
	}
	f := CourseFields{Name: codes[0]}
	for _, c := range codes {
		if sectionPattern.MatchString(c) {
			f.Name = c
			break
		}
	}
	for _, c := range codes {
		if c != f.Name {
			f.Location = c
			break
		}
	}

	desc := strings.Replace(cleaned, f.Name, " ", 1)
	if f.Location != "" {
		desc = strings.Replace(desc, f.Location, " ", 1)
	}
	f.Description = strings.Trim(strings.Join(strings.Fields(desc), " "), " -–,;:|/")
	return f, true
}
