package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/joseph-ayodele/timetable-import/internal/entity"
	"github.com/joseph-ayodele/timetable-import/internal/normalize"
)

var rruleDays = [...]string{"MO", "TU", "WE", "TH", "FR", "SA", "SU"}

// ICSOptions anchors the recurring events in calendar time.
type ICSOptions struct {
	// WeekOf selects the first week of the term. Zero means the current week.
	WeekOf time.Time
	// Weeks bounds the recurrence. Zero or less repeats indefinitely.
	Weeks    int
	Location *time.Location
	Now      func() time.Time
}

func (o ICSOptions) withDefaults() ICSOptions {
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.Location == nil {
		o.Location = time.Local
	}
	if o.WeekOf.IsZero() {
		o.WeekOf = o.Now()
	}
	return o
}

// WriteICS writes one weekly recurring event per course block.
func WriteICS(w io.Writer, courses []entity.Course, opts ICSOptions) (int, error) {
	opts = opts.withDefaults()
	monday := weekStart(opts.WeekOf.In(opts.Location))
	stamp := opts.Now().UTC()

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//timetable-import//EN")

	events := 0
	for _, c := range courses {
		for i, b := range c.Blocks {
			day := b.Day.Index()
			start, ok1 := normalize.ParseClock(b.Start)
			end, ok2 := normalize.ParseClock(b.End)
			if day < 0 || !ok1 || !ok2 || start >= end {
				continue
			}
			date := monday.AddDate(0, 0, day)

			ev := cal.AddEvent(fmt.Sprintf("%s-%d@timetable-import", c.ID, i))
			ev.SetCreatedTime(stamp)
			ev.SetDtStampTime(stamp)
			ev.SetModifiedAt(stamp)
			ev.SetStartAt(date.Add(time.Duration(start) * time.Minute))
			ev.SetEndAt(date.Add(time.Duration(end) * time.Minute))
			ev.SetSummary(c.Name)
			if c.Location != "" {
				ev.SetLocation(c.Location)
			}
			if desc := eventDescription(c); desc != "" {
				ev.SetDescription(desc)
			}
			ev.AddProperty(ics.ComponentPropertyRrule, rrule(day, opts.Weeks))
			events++
		}
	}

	if err := cal.SerializeTo(w); err != nil {
		return 0, fmt.Errorf("ics write: %w", err)
	}
	return events, nil
}

func rrule(day, weeks int) string {
	r := "FREQ=WEEKLY;BYDAY=" + rruleDays[day]
	if weeks > 0 {
		r += fmt.Sprintf(";COUNT=%d", weeks)
	}
	return r
}

func eventDescription(c entity.Course) string {
	var parts []string
	if c.Instructor != "" {
		parts = append(parts, "Instructor: "+c.Instructor)
	}
	if c.Description != "" {
		parts = append(parts, c.Description)
	}
	return strings.Join(parts, "\n")
}

// weekStart returns local midnight of the Monday on or before t.
func weekStart(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	y, m, d := t.AddDate(0, 0, -offset).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
