package llm

import "context"

// VisionRequest is what the vision model is asked to read.
type VisionRequest struct {
	// ImagePath is a timetable image on disk. It may be empty for a text-only run.
	ImagePath string
	// OCRText is plain recognized text, used when no image is attached.
	OCRText string
	// Hint is optional free text about the source ("Fall term, room codes start with B").
	Hint string
}

// ScheduleReader is the boundary to a vision-capable model. It returns the model's
// raw reply; decoding it is ParseScheduleReply's job.
type ScheduleReader interface {
	ReadSchedule(ctx context.Context, req VisionRequest) (string, error)
}
