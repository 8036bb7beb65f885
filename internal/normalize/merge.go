package normalize

import (
	"cmp"
	"slices"
)

// MergeGapMinutes is the largest break between two sessions that still counts as one block.
const MergeGapMinutes = 15

// MergeBlocks sorts entries by (name, location, day, start) and joins neighbours of the same
// course, location and day whose gap is at most MergeGapMinutes. Overlapping
// entries are joined as well.
// The input slice is not modified.
func MergeBlocks(entries []Entry) []Entry {
	if len(entries) == 0 {
		return nil
	}
	sorted := slices.Clone(entries)
	slices.SortStableFunc(sorted, func(a, b Entry) int {
		return cmp.Or(
			cmp.Compare(a.Name, b.Name),
			cmp.Compare(a.Location, b.Location),
			cmp.Compare(a.Slot.Day.Index(), b.Slot.Day.Index()),
			cmp.Compare(a.Slot.Start, b.Slot.Start),
		)
	})

	out := make([]Entry, 0, len(sorted))
	acc := sorted[0]
	for _, next := range sorted[1:] {
		if next.Name == acc.Name &&
			next.Location == acc.Location &&
			next.Slot.Day == acc.Slot.Day &&
			next.Slot.Start-acc.Slot.End <= MergeGapMinutes {
			acc.Slot.End = max(acc.Slot.End, next.Slot.End)
			continue
		}
		out = append(out, acc)
		acc = next
	}
	return append(out, acc)
}
