package llm

import (
	"encoding/json"
	"strings"
)

// BuildSystemPrompt tells the model how to transcribe a weekly timetable.
func BuildSystemPrompt() string {
	schema, _ := json.MarshalIndent(BuildScheduleJSONSchema(), "", "  ")
	parts := []string{
		"You read weekly university timetables. Return ONLY a JSON array that matches the JSON Schema below.",
		"Emit one object per course with 'name', 'location', 'description', 'instructor' and 'blocks'.",
		"Use the course code (for example CS101-101) as 'name' when one is printed.",
		"Each block is {\"day\", \"start\", \"end\"}: day is one of Mon, Tue, Wed, Thu, Fri, Sat, Sun; times are 24-hour HH:MM.",
		"List every weekly meeting of a course as its own block.",
		"Use null for a field you cannot read. Do not invent courses.",
		"JSON Schema:\n" + string(schema),
	}
	return strings.Join(parts, "\n")
}

// BuildUserPrompt carries the optional hint and, for text-only runs, the OCR text.
func BuildUserPrompt(req VisionRequest, imageAttached bool) string {
	var b strings.Builder
	if h := strings.TrimSpace(req.Hint); h != "" {
		b.WriteString("Hint: ")
		b.WriteString(h)
		b.WriteString("\n")
	}
	if imageAttached {
		b.WriteString("The timetable image is attached.\n")
		return b.String()
	}
	ocr := strings.TrimSpace(req.OCRText)
	b.WriteString("\nOCR text (first ~6k chars):\n")
	if len(ocr) > 6000 {
		b.WriteString(ocr[:6000])
		b.WriteString("\n…(truncated)")
	} else {
		b.WriteString(ocr)
	}
	return b.String()
}
