package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/timetable-import/constants"
)

// Block is one weekly meeting of a course. Start and End are "HH:MM" on the 30-minute grid.
type Block struct {
	Day   constants.Weekday `json:"day"`
	Start string            `json:"start"`
	End   string            `json:"end"`
}

// Course represents an imported course for data transfer between layers.
// ID and CreatedAt are zero until the course is persisted.
type Course struct {
	ID          uuid.UUID `json:"id,omitempty"`
	OwnerID     string    `json:"owner_id,omitempty"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Instructor  string    `json:"instructor"`
	Location    string    `json:"location"`
	Color       string    `json:"color"`
	Blocks      []Block   `json:"blocks"`
	CreatedAt   time.Time `json:"created_at,omitempty"`
}
