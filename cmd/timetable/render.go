package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/joseph-ayodele/timetable-import/internal/entity"
	"github.com/joseph-ayodele/timetable-import/internal/pipeline"
	"github.com/joseph-ayodele/timetable-import/internal/services/importer"
)

var (
	blockStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).PaddingLeft(2)
	metaStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Italic(true)
	statsStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
)

// renderCourses lists each course in its palette color with one line per block.
func renderCourses(courses []entity.Course) string {
	if len(courses) == 0 {
		return warnStyle.Render(importer.NoItemsMessage) + "\n"
	}
	var b strings.Builder
	for _, c := range courses {
		title := lipgloss.NewStyle().Bold(true)
		if c.Color != "" {
			title = title.Foreground(lipgloss.Color(c.Color))
		}
		b.WriteString(title.Render(c.Name))
		if meta := courseMeta(c); meta != "" {
			b.WriteString(" " + metaStyle.Render(meta))
		}
		b.WriteByte('\n')
		for _, bl := range c.Blocks {
			b.WriteString(blockStyle.Render(fmt.Sprintf("%s %s-%s", bl.Day, bl.Start, bl.End)))
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func courseMeta(c entity.Course) string {
	var parts []string
	if c.Location != "" {
		parts = append(parts, "@ "+c.Location)
	}
	if c.Instructor != "" {
		parts = append(parts, c.Instructor)
	}
	if c.Description != "" {
		parts = append(parts, c.Description)
	}
	return strings.Join(parts, " · ")
}

func renderStats(s pipeline.Stats) string {
	return statsStyle.Render(fmt.Sprintf("%d courses, %d skipped, %d blocks dropped, %d merged",
		s.Courses, s.SkippedCourses, s.DroppedBlocks, s.MergedBlocks))
}

func renderOutcome(out importer.Outcome) string {
	if out.Created == 0 {
		return warnStyle.Render(out.Message)
	}
	msg := okStyle.Render(out.Message)
	if out.Skipped > 0 {
		msg += " " + warnStyle.Render(fmt.Sprintf("(%d skipped)", out.Skipped))
	}
	return msg
}
