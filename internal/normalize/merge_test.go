package normalize

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/joseph-ayodele/timetable-import/constants"
)

func entry(name string, day constants.Weekday, start, end int) Entry {
	return Entry{Name: name, Slot: Slot{Day: day, Start: start, End: end}}
}

func TestMergeBlocksGap(t *testing.T) {
	tests := []struct {
		name string
		in   []Entry
		want []Entry
	}{
		{
			name: "five minute gap merges",
			in:   []Entry{entry("A", constants.Monday, 540, 600), entry("A", constants.Monday, 605, 660)},
			want: []Entry{entry("A", constants.Monday, 540, 660)},
		},
		{
			name: "fifteen minute gap merges",
			in:   []Entry{entry("A", constants.Monday, 540, 600), entry("A", constants.Monday, 615, 660)},
			want: []Entry{entry("A", constants.Monday, 540, 660)},
		},
		{
			name: "twenty raw minutes stay split",
			in:   []Entry{entry("A", constants.Monday, 540, 600), entry("A", constants.Monday, 620, 680)},
			want: []Entry{entry("A", constants.Monday, 540, 600), entry("A", constants.Monday, 620, 680)},
		},
		{
			name: "overlap merges to the later end",
			in:   []Entry{entry("A", constants.Monday, 540, 660), entry("A", constants.Monday, 570, 630)},
			want: []Entry{entry("A", constants.Monday, 540, 660)},
		},
		{
			name: "different day stays split",
			in:   []Entry{entry("A", constants.Tuesday, 600, 660), entry("A", constants.Monday, 540, 600)},
			want: []Entry{entry("A", constants.Monday, 540, 600), entry("A", constants.Tuesday, 600, 660)},
		},
		{
			name: "different course stays split",
			in:   []Entry{entry("B", constants.Monday, 600, 660), entry("A", constants.Monday, 540, 600)},
			want: []Entry{entry("A", constants.Monday, 540, 600), entry("B", constants.Monday, 600, 660)},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MergeBlocks(tt.in)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("MergeBlocks mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMergeBlocksLocationMustMatch(t *testing.T) {
	a := entry("A", constants.Monday, 540, 600)
	a.Location = "R1"
	b := entry("A", constants.Monday, 600, 660)
	b.Location = "R2"
	if got := MergeBlocks([]Entry{a, b}); len(got) != 2 {
		t.Fatalf("got %d entries; want 2", len(got))
	}
}

func TestMergeBlocksGroupsByLocation(t *testing.T) {
	at := func(loc string, start, end int) Entry {
		e := entry("CS101", constants.Monday, start, end)
		e.Location = loc
		return e
	}
	got := MergeBlocks([]Entry{at("R1", 540, 600), at("R2", 570, 630), at("R1", 600, 660)})
	want := []Entry{at("R1", 540, 660), at("R2", 570, 630)}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("MergeBlocks mismatch (-want +got):\n%s", diff)
	}
}

func TestMergeBlocksEmpty(t *testing.T) {
	if got := MergeBlocks(nil); got != nil {
		t.Fatalf("got %v; want nil", got)
	}
}
