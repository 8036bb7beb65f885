package layout

import (
	"log/slog"
	"math"
	"strings"

	"github.com/joseph-ayodele/timetable-import/constants"
	"github.com/joseph-ayodele/timetable-import/internal/normalize"
)

const (
	// headerBand is the top fraction of the page treated as title/header noise.
	headerBand = 0.30
	// anchorBand is the left fraction of the page where the time column is expected.
	anchorBand = 0.60
)

// Page is the pixel size of the source image.
type Page struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// PageFromTokens estimates the page size from the token extents.
func PageFromTokens(tokens []Token) Page {
	var p Page
	for _, t := range tokens {
		p.Width = max(p.Width, t.XMax)
		p.Height = max(p.Height, t.YMax)
	}
	return p
}

// RawBlock is the text that landed in one (day, start, end) cell.
type RawBlock struct {
	Day   constants.Weekday
	Start string
	End   string
	Text  string
}

type blockKey struct {
	day        constants.Weekday
	start, end string
}

// FindAnchors returns the lines that carry their own time range. When some of them
// start in the left part of the page, only those are kept.
func FindAnchors(lines []Line, page Page) []Line {
	var all, left []Line
	for _, l := range lines {
		if CountTimeTokens(l.Text) < 2 {
			continue
		}
		if _, ok := ExtractTimeSpan(l.Text); !ok {
			continue
		}
		all = append(all, l)
		if x, ok := firstTimeX(l); ok && x < anchorBand*page.Width {
			left = append(left, l)
		}
	}
	if len(left) > 0 {
		return left
	}
	return all
}

func firstTimeX(l Line) (float64, bool) {
	for _, t := range l.Tokens {
		if isTimeLike(t.Text) {
			return t.XMin, true
		}
	}
	return 0, false
}

// AssembleBlocks assigns body tokens to day columns and time ranges. Lines in the
// header band are skipped; a line without its own time range borrows the one of the
// nearest anchor line. Text that shares a (day, start, end) key is concatenated in
// reading order.
func AssembleBlocks(lines []Line, page Page, logger *slog.Logger) []RawBlock {
	blocks, _ := assemble(lines, page, traceLogger(logger))
	return blocks
}

func assemble(lines []Line, page Page, logger *slog.Logger) ([]RawBlock, []DayColumn) {
	anchors := FindAnchors(lines, page)
	boundary := timeColumnBoundary(anchors)
	cols := ResolveDayColumns(lines, anchors)
	logger.Debug("layout.columns",
		"anchors", len(anchors),
		"boundary", boundary,
		"columns", len(cols),
	)
	if len(cols) == 0 {
		logger.Debug("layout.columns.none")
		return nil, nil
	}

	var (
		order []blockKey
		texts = make(map[blockKey][]string)
	)
	headerLimit := headerBand * page.Height
	for _, l := range lines {
		if l.YCenter <= headerLimit {
			continue
		}
		span, ok := ExtractTimeSpan(l.Text)
		if !ok {
			span, ok = nearestAnchorSpan(anchors, l.YCenter)
		}
		if !ok {
			continue
		}
		start, end := span.Minutes()
		start, end = normalize.FloorSlot(start), normalize.CeilSlot(end)
		if start >= end {
			continue
		}

		var days []constants.Weekday
		perDay := make(map[constants.Weekday][]string)
		for _, t := range l.Tokens {
			if t.XCenter() <= boundary || isTimeOrDash(t.Text) {
				continue
			}
			d := nearestColumn(cols, t.XCenter()).Day
			if _, seen := perDay[d]; !seen {
				days = append(days, d)
			}
			perDay[d] = append(perDay[d], t.Text)
		}
		for _, d := range days {
			k := blockKey{day: d, start: normalize.FormatClock(start), end: normalize.FormatClock(end)}
			if _, seen := texts[k]; !seen {
				order = append(order, k)
			}
			texts[k] = append(texts[k], strings.Join(perDay[d], " "))
		}
	}

	blocks := make([]RawBlock, 0, len(order))
	for _, k := range order {
		blocks = append(blocks, RawBlock{
			Day:   k.day,
			Start: k.start,
			End:   k.end,
			Text:  strings.Join(texts[k], " "),
		})
	}
	logger.Debug("layout.blocks", "count", len(blocks))
	return blocks, cols
}

func nearestAnchorSpan(anchors []Line, y float64) (TimeSpan, bool) {
	best := math.Inf(1)
	var span TimeSpan
	found := false
	for _, a := range anchors {
		d := math.Abs(a.YCenter - y)
		if d >= best {
			continue
		}
		s, ok := ExtractTimeSpan(a.Text)
		if !ok {
			continue
		}
		best, span, found = d, s, true
	}
	return span, found
}

func traceLogger(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return logger
}
