package normalize

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/joseph-ayodele/timetable-import/constants"
	"github.com/joseph-ayodele/timetable-import/internal/entity"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"09:00", 540, true},
		{"9:05", 545, true},
		{"13.45", 825, true},
		{" 08:30 ", 510, true},
		{"24:00", 1440, true},
		{"00:00", 0, true},
		{"25:70", 0, false},
		{"12:60", 0, false},
		{"25:00", 0, false},
		{"9", 0, false},
		{"9:5", 0, false},
		{"", 0, false},
		{"ab:cd", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseClock(tt.in)
		if ok != tt.ok || got != tt.want {
			t.Errorf("ParseClock(%q) = %d,%v; want %d,%v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestFloorAndCeilSlot(t *testing.T) {
	tests := []struct {
		in, floor, ceil int
	}{
		{0, 0, 0},
		{540, 540, 540},
		{545, 540, 570},
		{569, 540, 570},
		{1435, 1410, 1440},
		{1470, 1440, 1440},
	}
	for _, tt := range tests {
		if got := FloorSlot(tt.in); got != tt.floor {
			t.Errorf("FloorSlot(%d) = %d; want %d", tt.in, got, tt.floor)
		}
		if got := CeilSlot(tt.in); got != tt.ceil {
			t.Errorf("CeilSlot(%d) = %d; want %d", tt.in, got, tt.ceil)
		}
	}
}

func TestNormalizeSlot(t *testing.T) {
	tests := []struct {
		name string
		in   entity.SlotInput
		want Slot
		ok   bool
	}{
		{"aligned", entity.SlotInput{Day: "Mon", Start: "09:00", End: "10:30"}, Slot{constants.Monday, 540, 630}, true},
		{"rounds outward", entity.SlotInput{Day: "tuesday", Start: "09:10", End: "10:20"}, Slot{constants.Tuesday, 540, 630}, true},
		{"dot separator", entity.SlotInput{Day: "WED.", Start: "8.00", End: "9.50"}, Slot{constants.Wednesday, 480, 600}, true},
		{"end capped", entity.SlotInput{Day: "Sun", Start: "23:00", End: "24:30"}, Slot{constants.Sunday, 1380, 1440}, true},
		{"bad start", entity.SlotInput{Day: "Mon", Start: "25:70", End: "10:00"}, Slot{}, false},
		{"bad day", entity.SlotInput{Day: "Someday", Start: "09:00", End: "10:00"}, Slot{}, false},
		{"collapses", entity.SlotInput{Day: "Fri", Start: "10:00", End: "09:00"}, Slot{}, false},
		{"empty range", entity.SlotInput{Day: "Fri", Start: "24:00", End: "24:00"}, Slot{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NormalizeSlot(tt.in)
			if ok != tt.ok {
				t.Fatalf("ok = %v; want %v", ok, tt.ok)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("slot mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestNormalizeItemsDropsInvalid(t *testing.T) {
	items := []entity.ScheduleItem{
		{Name: " CS101 ", Location: "B12", Blocks: []entity.SlotInput{
			{Day: "Mon", Start: "09:00", End: "10:00"},
			{Day: "Mon", Start: "25:70", End: "26:00"},
		}},
		{Name: "", Blocks: []entity.SlotInput{{Day: "Tue", Start: "09:00", End: "10:00"}}},
	}
	entries, dropped := NormalizeItems(items)
	if dropped != 2 {
		t.Errorf("dropped = %d; want 2", dropped)
	}
	want := []Entry{{Name: "CS101", Location: "B12", Slot: Slot{constants.Monday, 540, 600}}}
	if diff := cmp.Diff(want, entries); diff != "" {
		t.Errorf("entries mismatch (-want +got):\n%s", diff)
	}
}
