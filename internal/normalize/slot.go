package normalize

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/joseph-ayodele/timetable-import/constants"
	"github.com/joseph-ayodele/timetable-import/internal/entity"
)

const (
	// SlotMinutes is the grid every stored block snaps to.
	SlotMinutes = 30
	// MaxMinute is 24:00, the latest representable end of day.
	MaxMinute = 24 * 60
)

var clockPattern = regexp.MustCompile(`^(\d{1,2})[:.](\d{2})$`)

// Slot is a validated weekly time range in minutes after midnight.
// It is comparable and is used as a set/map key.
type Slot struct {
	Day   constants.Weekday
	Start int
	End   int
}

// Block renders the slot as an output block.
func (s Slot) Block() entity.Block {
	return entity.Block{Day: s.Day, Start: FormatClock(s.Start), End: FormatClock(s.End)}
}

// Entry is one normalized block still tagged with the course fields it came from.
type Entry struct {
	Name        string
	Location    string
	Description string
	Instructor  string
	Slot        Slot
}

// NormalizeDay maps day text to a canonical weekday code.
func NormalizeDay(s string) (constants.Weekday, bool) {
	return constants.CanonicalizeWeekday(s)
}

// ParseClock parses "H:MM", "HH:MM" or "HH.MM" into minutes after midnight.
// Hours may be 0..24 and minutes 0..59.
func ParseClock(s string) (int, bool) {
	m := clockPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, false
	}
	h, err := strconv.Atoi(m[1])
	if err != nil || h < 0 || h > 24 {
		return 0, false
	}
	mm, err := strconv.Atoi(m[2])
	if err != nil || mm < 0 || mm > 59 {
		return 0, false
	}
	return h*60 + mm, true
}

// FloorSlot rounds minutes down to the slot grid, capped at 24:00.
func FloorSlot(minutes int) int {
	if minutes < 0 {
		return 0
	}
	return min(minutes-minutes%SlotMinutes, MaxMinute)
}

// CeilSlot rounds minutes up to the slot grid, capped at 24:00.
func CeilSlot(minutes int) int {
	if minutes < 0 {
		return 0
	}
	return min((minutes+SlotMinutes-1)/SlotMinutes*SlotMinutes, MaxMinute)
}

// FormatClock renders minutes after midnight as zero-padded "HH:MM".
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// NormalizeSlot validates a raw triple and snaps it to the grid.
// It fails when the day is unknown, either time is malformed, or rounding leaves start >= end.
func NormalizeSlot(in entity.SlotInput) (Slot, bool) {
	day, ok := NormalizeDay(in.Day)
	if !ok {
		return Slot{}, false
	}
	start, ok := ParseClock(in.Start)
	if !ok {
		return Slot{}, false
	}
	end, ok := ParseClock(in.End)
	if !ok {
		return Slot{}, false
	}
	start, end = FloorSlot(start), CeilSlot(end)
	if start >= end {
		return Slot{}, false
	}
	return Slot{Day: day, Start: start, End: end}, true
}

// NormalizeItems flattens items into grid-aligned entries.
// Items without a name and blocks that fail NormalizeSlot are dropped; dropped counts the blocks lost.
func NormalizeItems(items []entity.ScheduleItem) (entries []Entry, dropped int) {
	for _, it := range items {
		name := strings.TrimSpace(it.Name)
		if name == "" {
			dropped += len(it.Blocks)
			continue
		}
		for _, b := range it.Blocks {
			slot, ok := NormalizeSlot(b)
			if !ok {
				dropped++
				continue
			}
			entries = append(entries, Entry{
				Name:        name,
				Location:    strings.TrimSpace(it.Location),
				Description: strings.TrimSpace(it.Description),
				Instructor:  strings.TrimSpace(it.Instructor),
				Slot:        slot,
			})
		}
	}
	return entries, dropped
}
