package entity

// SlotInput is an unvalidated (day, start, end) triple as produced by an extractor.
type SlotInput struct {
	Day   string `json:"day"`
	Start string `json:"start"`
	End   string `json:"end"`
}

// ScheduleItem is the shape both front ends emit before slot normalization.
// Nothing in it has been validated yet.
type ScheduleItem struct {
	Name        string      `json:"name"`
	Location    string      `json:"location"`
	Description string      `json:"description"`
	Instructor  string      `json:"instructor,omitempty"`
	Blocks      []SlotInput `json:"blocks"`
}
