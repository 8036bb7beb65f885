package layout

import (
	"log/slog"

	"github.com/joseph-ayodele/timetable-import/internal/entity"
)

// Options tunes a geometric extraction run.
type Options struct {
	// Page is the source image size. The zero value means infer it from the tokens.
	Page Page
	// Logger receives debug traces. Nil disables tracing.
	Logger *slog.Logger
}

// Analysis is the full result of a geometric extraction, intermediates included.
type Analysis struct {
	Tokens  int
	Lines   []Line
	Columns []DayColumn
	Blocks  []RawBlock
	Items   []entity.ScheduleItem
}

// Extract runs the geometric front end and returns one schedule item per course name.
func Extract(anns []Annotation, opts Options) []entity.ScheduleItem {
	return Analyze(anns, opts).Items
}

// Analyze is Extract with the intermediate stages kept for inspection.
func Analyze(anns []Annotation, opts Options) Analysis {
	logger := traceLogger(opts.Logger)

	tokens := IngestTokens(anns)
	page := opts.Page
	if page.Width <= 0 || page.Height <= 0 {
		inferred := PageFromTokens(tokens)
		if page.Width <= 0 {
			page.Width = inferred.Width
		}
		if page.Height <= 0 {
			page.Height = inferred.Height
		}
	}
	lines := ClusterLines(tokens)
	logger.Debug("layout.lines", "tokens", len(tokens), "lines", len(lines), "page_w", page.Width, "page_h", page.Height)

	blocks, cols := assemble(lines, page, logger)
	return Analysis{
		Tokens:  len(tokens),
		Lines:   lines,
		Columns: cols,
		Blocks:  blocks,
		Items:   groupCandidates(blocks, logger),
	}
}

// groupCandidates resolves each block's course fields and groups blocks by course name
// in first-seen order. Blocks without a recognizable course code are dropped.
func groupCandidates(blocks []RawBlock, logger *slog.Logger) []entity.ScheduleItem {
	var items []entity.ScheduleItem
	index := make(map[string]int)
	for _, b := range blocks {
		f, ok := ExtractCourseFields(b.Text)
		if !ok {
			logger.Debug("layout.block.unnamed", "day", b.Day, "start", b.Start, "text", b.Text)
			continue
		}
		i, seen := index[f.Name]
		if !seen {
			i = len(items)
			index[f.Name] = i
			items = append(items, entity.ScheduleItem{Name: f.Name})
		}
		it := &items[i]
		if it.Location == "" {
			it.Location = f.Location
		}
		if it.Description == "" {
			it.Description = f.Description
		}
		it.Blocks = append(it.Blocks, entity.SlotInput{Day: string(b.Day), Start: b.Start, End: b.End})
	}
	return items
}
