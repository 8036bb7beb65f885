package normalize

import (
	"cmp"
	"slices"

	"github.com/joseph-ayodele/timetable-import/constants"
	"github.com/joseph-ayodele/timetable-import/internal/entity"
)

type courseGroup struct {
	course entity.Course
	slots  *OrderedSet[Slot]
}

// Aggregate groups entries into one course per name, in first-seen order.
// Duplicate slots collapse and overlapping slots on one day are joined, so a
// course never has two blocks covering the same time. Blocks come out ordered
// by day and start. The first non-empty location, description and instructor
// win. Courses left without blocks are dropped before colors are handed out
// from the palette.
func Aggregate(entries []Entry) []entity.Course {
	var order []string
	groups := make(map[string]*courseGroup)
	for _, e := range entries {
		g, ok := groups[e.Name]
		if !ok {
			g = &courseGroup{
				course: entity.Course{Name: e.Name},
				slots:  NewOrderedSet[Slot](),
			}
			groups[e.Name] = g
			order = append(order, e.Name)
		}
		if g.course.Location == "" {
			g.course.Location = e.Location
		}
		if g.course.Description == "" {
			g.course.Description = e.Description
		}
		if g.course.Instructor == "" {
			g.course.Instructor = e.Instructor
		}
		g.slots.Add(e.Slot)
	}

	courses := make([]entity.Course, 0, len(order))
	for _, name := range order {
		g := groups[name]
		if g.slots.Len() == 0 {
			continue
		}
		c := g.course
		for _, s := range coalesce(g.slots.Items()) {
			c.Blocks = append(c.Blocks, s.Block())
		}
		c.Color = constants.ColorAt(len(courses))
		courses = append(courses, c)
	}
	return courses
}

// coalesce orders slots by day and start and joins the ones that overlap.
func coalesce(slots []Slot) []Slot {
	if len(slots) == 0 {
		return nil
	}
	slices.SortFunc(slots, func(a, b Slot) int {
		return cmp.Or(
			cmp.Compare(a.Day.Index(), b.Day.Index()),
			cmp.Compare(a.Start, b.Start),
			cmp.Compare(a.End, b.End),
		)
	})
	out := slots[:1]
	for _, s := range slots[1:] {
		last := &out[len(out)-1]
		if s.Day == last.Day && s.Start < last.End {
			last.End = max(last.End, s.End)
			continue
		}
		out = append(out, s)
	}
	return out
}
