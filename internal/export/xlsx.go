package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/timetable-import/constants"
	"github.com/joseph-ayodele/timetable-import/internal/entity"
	"github.com/joseph-ayodele/timetable-import/internal/normalize"
)

const (
	blocksSheet = "Blocks"
	weekSheet   = "Week"
)

// WriteXLSX writes a workbook with one row per block and a weekly grid view.
func WriteXLSX(w io.Writer, courses []entity.Course) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", blocksSheet); err != nil {
		return err
	}
	if err := writeBlocksSheet(f, courses); err != nil {
		return fmt.Errorf("blocks sheet: %w", err)
	}
	if _, err := f.NewSheet(weekSheet); err != nil {
		return err
	}
	if err := writeWeekSheet(f, courses); err != nil {
		return fmt.Errorf("week sheet: %w", err)
	}
	if idx, _ := f.GetSheetIndex(blocksSheet); idx >= 0 {
		f.SetActiveSheet(idx)
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("xlsx write: %w", err)
	}
	return nil
}

func writeBlocksSheet(f *excelize.File, courses []entity.Course) error {
	headers := []string{"Course", "Day", "Start", "End", "Location", "Instructor", "Description", "Color"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(blocksSheet, cell, h); err != nil {
			return err
		}
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(blocksSheet, "A1", "H1", bold); err != nil {
		return err
	}

	row := 2
	for _, c := range courses {
		for _, b := range c.Blocks {
			values := []any{c.Name, string(b.Day), b.Start, b.End, c.Location, c.Instructor, truncate(c.Description, 140), c.Color}
			for col, v := range values {
				cell, _ := excelize.CoordinatesToCellName(col+1, row)
				if err := f.SetCellValue(blocksSheet, cell, v); err != nil {
					return err
				}
			}
			row++
		}
	}

	_ = f.SetColWidth(blocksSheet, "A", "A", 16)
	_ = f.SetColWidth(blocksSheet, "B", "D", 8)
	_ = f.SetColWidth(blocksSheet, "E", "F", 18)
	_ = f.SetColWidth(blocksSheet, "G", "G", 40)
	return nil
}

// writeWeekSheet lays blocks out on a 30-minute grid, one column per weekday.
func writeWeekSheet(f *excelize.File, courses []entity.Course) error {
	first, last, ok := gridBounds(courses)
	if !ok {
		return f.SetCellValue(weekSheet, "A1", "No courses")
	}

	days := constants.Weekdays()
	_ = f.SetCellValue(weekSheet, "A1", "Time")
	for i, d := range days {
		cell, _ := excelize.CoordinatesToCellName(i+2, 1)
		_ = f.SetCellValue(weekSheet, cell, string(d))
	}
	for m := first; m < last; m += normalize.SlotMinutes {
		cell, _ := excelize.CoordinatesToCellName(1, rowFor(m, first))
		_ = f.SetCellValue(weekSheet, cell, normalize.FormatClock(m))
	}

	type slotCell struct{ col, row int }
	occupants := make(map[slotCell][]int)
	var order []slotCell
	for ci, c := range courses {
		for _, b := range c.Blocks {
			col := b.Day.Index() + 2
			start, ok1 := normalize.ParseClock(b.Start)
			end, ok2 := normalize.ParseClock(b.End)
			if col < 2 || !ok1 || !ok2 {
				continue
			}
			for m := start; m < end; m += normalize.SlotMinutes {
				k := slotCell{col: col, row: rowFor(m, first)}
				if _, seen := occupants[k]; !seen {
					order = append(order, k)
				}
				occupants[k] = append(occupants[k], ci)
			}
		}
	}

	styles := make(map[string]int)
	for _, k := range order {
		idx := occupants[k]
		names := make([]string, len(idx))
		for i, ci := range idx {
			names[i] = courses[ci].Name
		}
		cell, _ := excelize.CoordinatesToCellName(k.col, k.row)
		if err := f.SetCellValue(weekSheet, cell, strings.Join(names, " / ")); err != nil {
			return err
		}
		if len(idx) != 1 || courses[idx[0]].Color == "" {
			continue
		}
		color := courses[idx[0]].Color
		style, ok := styles[color]
		if !ok {
			var err error
			style, err = f.NewStyle(&excelize.Style{
				Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{color}},
				Font:      &excelize.Font{Color: "FFFFFF", Bold: true},
				Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
			})
			if err != nil {
				return err
			}
			styles[color] = style
		}
		if err := f.SetCellStyle(weekSheet, cell, cell, style); err != nil {
			return err
		}
	}

	_ = f.SetColWidth(weekSheet, "A", "A", 8)
	_ = f.SetColWidth(weekSheet, "B", "H", 16)
	return nil
}

func gridBounds(courses []entity.Course) (first, last int, ok bool) {
	first, last = normalize.MaxMinute, 0
	for _, c := range courses {
		for _, b := range c.Blocks {
			s, ok1 := normalize.ParseClock(b.Start)
			e, ok2 := normalize.ParseClock(b.End)
			if !ok1 || !ok2 || s >= e {
				continue
			}
			first = min(first, normalize.FloorSlot(s))
			last = max(last, normalize.CeilSlot(e))
			ok = true
		}
	}
	return first, last, ok
}

func rowFor(minute, first int) int {
	return 2 + (minute-first)/normalize.SlotMinutes
}

func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	if n <= 1 {
		return s[:n]
	}
	return s[:n-1] + "…"
}
