package pipeline

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/joseph-ayodele/timetable-import/constants"
	"github.com/joseph-ayodele/timetable-import/internal/entity"
	"github.com/joseph-ayodele/timetable-import/internal/layout"
	"github.com/joseph-ayodele/timetable-import/internal/normalize"
)

func box(text string, x0, y0, x1, y1 float64) layout.Annotation {
	return layout.Annotation{Text: text, Vertices: []layout.Vertex{{X: x0, Y: y0}, {X: x1, Y: y0}, {X: x1, Y: y1}, {X: x0, Y: y1}}}
}

func headerTimetable() []layout.Annotation {
	return []layout.Annotation{
		box("Hour", 10, 10, 50, 30),
		box("Mon", 150, 10, 190, 30),
		box("Tue", 300, 10, 340, 30),
		box("Wed", 450, 10, 490, 30),
		box("09:00-10:30", 10, 100, 110, 120),
		box("CS101-101", 140, 100, 200, 120),
		box("Intro", 205, 100, 240, 120),
	}
}

func TestFromAnnotationsHeaderTimetable(t *testing.T) {
	res := NewImporter(nil).FromAnnotations(headerTimetable(), layout.Page{})
	want := []entity.Course{{
		Name:        "CS101-101",
		Description: "Intro",
		Color:       constants.CoursePalette[0],
		Blocks:      []entity.Block{{Day: constants.Monday, Start: "09:00", End: "10:30"}},
	}}
	if diff := cmp.Diff(want, res.Courses); diff != "" {
		t.Errorf("courses mismatch (-want +got):\n%s", diff)
	}
	wantStats := Stats{Lines: 2, RawBlocks: 1, Candidates: 1, Courses: 1}
	if diff := cmp.Diff(wantStats, res.Stats); diff != "" {
		t.Errorf("stats mismatch (-want +got):\n%s", diff)
	}
}

func TestFromAnnotationsWithoutDaySignal(t *testing.T) {
	anns := []layout.Annotation{
		box("CS101", 100, 100, 140, 120),
		box("09:00", 100, 200, 140, 220),
	}
	res := NewImporter(nil).FromAnnotations(anns, layout.Page{})
	if len(res.Courses) != 0 {
		t.Errorf("courses = %v; want none", res.Courses)
	}
	if res.Stats.RawBlocks != 0 {
		t.Errorf("raw blocks = %d; want 0", res.Stats.RawBlocks)
	}
}

const reply = `[
 {"name": "CS101", "location": "B12", "description": "Intro", "instructor": "Dr. Ada",
  "blocks": [{"day": "Mon", "start": "09:00", "end": "10:00"}, {"day": "Mon", "start": "10:05", "end": "11:00"}]},
 {"name": "MA201", "blocks": [{"day": "Tue", "start": "25:70", "end": "26:00"}]},
 {"name": "PH301", "blocks": [{"day": "Thursday", "start": "13:10", "end": "14:20"}, {"day": "Fri", "start": "8:00", "end": "9:00"}]}
]`

func TestFromReply(t *testing.T) {
	res := NewImporter(nil).FromReply(reply)
	want := []entity.Course{
		{
			Name: "CS101", Location: "B12", Description: "Intro", Instructor: "Dr. Ada",
			Color:  constants.CoursePalette[0],
			Blocks: []entity.Block{{Day: constants.Monday, Start: "09:00", End: "11:00"}},
		},
		{
			Name:  "PH301",
			Color: constants.CoursePalette[1],
			Blocks: []entity.Block{
				{Day: constants.Thursday, Start: "13:00", End: "14:30"},
				{Day: constants.Friday, Start: "08:00", End: "09:00"},
			},
		},
	}
	if diff := cmp.Diff(want, res.Courses); diff != "" {
		t.Errorf("courses mismatch (-want +got):\n%s", diff)
	}
	wantStats := Stats{Candidates: 3, DroppedBlocks: 1, MergedBlocks: 1, Courses: 2, SkippedCourses: 1}
	if diff := cmp.Diff(wantStats, res.Stats); diff != "" {
		t.Errorf("stats mismatch (-want +got):\n%s", diff)
	}
}

func TestFromReplyFencedMatchesBare(t *testing.T) {
	im := NewImporter(nil)
	bare := im.FromReply(reply)
	fenced := im.FromReply("```json\n" + reply + "\n```")
	if diff := cmp.Diff(bare, fenced); diff != "" {
		t.Errorf("fenced result differs (-bare +fenced):\n%s", diff)
	}
}

func TestFromReplyMalformedIsEmpty(t *testing.T) {
	res := NewImporter(nil).FromReply("I could not find a timetable.")
	if len(res.Courses) != 0 || res.Stats != (Stats{}) {
		t.Errorf("got %+v; want empty result", res)
	}
}

func TestImportIsDeterministic(t *testing.T) {
	im := NewImporter(nil)
	a := im.FromAnnotations(headerTimetable(), layout.Page{})
	b := im.FromAnnotations(headerTimetable(), layout.Page{})
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("annotation runs differ:\n%s", diff)
	}
	if diff := cmp.Diff(im.FromReply(reply), im.FromReply(reply)); diff != "" {
		t.Errorf("reply runs differ:\n%s", diff)
	}
}

func TestOutputInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	days := []string{"Mon", "tue", "WED", "thursday", "Fri", "sat", "Sun", "Funday"}
	rooms := []string{"", "R1", "R2"}
	clock := func() string {
		return fmt.Sprintf("%d:%02d", rng.Intn(27), rng.Intn(62))
	}

	var items []entity.ScheduleItem
	for i := 0; i < 40; i++ {
		it := entity.ScheduleItem{
			Name:     fmt.Sprintf("C%03d", rng.Intn(8)+100),
			Location: rooms[rng.Intn(len(rooms))],
		}
		for j := 0; j < 1+rng.Intn(5); j++ {
			it.Blocks = append(it.Blocks, entity.SlotInput{Day: days[rng.Intn(len(days))], Start: clock(), End: clock()})
		}
		items = append(items, it)
	}

	res := NewImporter(nil).FromItems(items)
	for _, c := range res.Courses {
		if len(c.Blocks) == 0 {
			t.Errorf("%s has no blocks", c.Name)
		}
		byDay := map[constants.Weekday][][2]int{}
		for _, b := range c.Blocks {
			if b.Day.Index() < 0 {
				t.Errorf("%s: bad day %q", c.Name, b.Day)
			}
			s, ok1 := normalize.ParseClock(b.Start)
			e, ok2 := normalize.ParseClock(b.End)
			if !ok1 || !ok2 || s >= e || s%30 != 0 || e%30 != 0 {
				t.Errorf("%s: bad block %+v", c.Name, b)
			}
			for _, other := range byDay[b.Day] {
				if s < other[1] && other[0] < e {
					t.Errorf("%s: %+v overlaps %v", c.Name, b, other)
				}
			}
			byDay[b.Day] = append(byDay[b.Day], [2]int{s, e})
		}
	}
}

func TestSameCourseInTwoRoomsDoesNotOverlap(t *testing.T) {
	const reply = `[
 {"name": "CS101", "location": "R1", "blocks": [{"day": "Mon", "start": "09:00", "end": "10:00"}, {"day": "Mon", "start": "10:00", "end": "11:00"}]},
 {"name": "CS101", "location": "R2", "blocks": [{"day": "Mon", "start": "09:30", "end": "10:30"}]}
]`
	res := NewImporter(nil).FromReply(reply)
	want := []entity.Course{{
		Name:     "CS101",
		Location: "R1",
		Color:    constants.CoursePalette[0],
		Blocks:   []entity.Block{{Day: constants.Monday, Start: "09:00", End: "11:00"}},
	}}
	if diff := cmp.Diff(want, res.Courses); diff != "" {
		t.Errorf("courses mismatch (-want +got):\n%s", diff)
	}
}

func TestTwentyMinuteGapMergesAfterRounding(t *testing.T) {
	items := []entity.ScheduleItem{{
		Name: "CS101",
		Blocks: []entity.SlotInput{
			{Day: "Mon", Start: "09:00", End: "10:00"},
			{Day: "Mon", Start: "10:20", End: "11:00"},
		},
	}}
	res := NewImporter(nil).FromItems(items)
	want := []entity.Block{{Day: constants.Monday, Start: "09:00", End: "11:00"}}
	if len(res.Courses) != 1 {
		t.Fatalf("got %d courses; want 1", len(res.Courses))
	}
	if diff := cmp.Diff(want, res.Courses[0].Blocks); diff != "" {
		t.Errorf("blocks mismatch (-want +got):\n%s", diff)
	}
}
