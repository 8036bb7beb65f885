package pipeline

import (
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/timetable-import/internal/entity"
	"github.com/joseph-ayodele/timetable-import/internal/layout"
	"github.com/joseph-ayodele/timetable-import/internal/llm"
	"github.com/joseph-ayodele/timetable-import/internal/normalize"
)

// Stats summarizes one import run.
type Stats struct {
	Lines          int `json:"lines"`           // text lines clustered (geometric path only)
	RawBlocks      int `json:"raw_blocks"`      // (day, start, end) cells assembled (geometric path only)
	Candidates     int `json:"candidates"`      // schedule items handed to normalization
	DroppedBlocks  int `json:"dropped_blocks"`  // blocks rejected by slot validation
	MergedBlocks   int `json:"merged_blocks"`   // blocks absorbed into a neighbour
	Courses        int `json:"courses"`         // courses emitted
	SkippedCourses int `json:"skipped_courses"` // candidates that ended with no valid block
}

// Result is the outcome of an import run.
type Result struct {
	Courses []entity.Course `json:"courses"`
	Stats   Stats           `json:"stats"`
}

// Importer turns OCR annotations or a model reply into courses. It keeps no state
// between calls and is safe for concurrent use.
type Importer struct {
	trace *slog.Logger
}

// NewImporter returns an Importer that writes debug traces to trace. Nil disables tracing.
func NewImporter(trace *slog.Logger) *Importer {
	if trace == nil {
		trace = slog.New(slog.DiscardHandler)
	}
	return &Importer{trace: trace}
}

// FromAnnotations runs the geometric front end. A zero page means infer the size from the tokens.
func (im *Importer) FromAnnotations(anns []layout.Annotation, page layout.Page) Result {
	logger := im.trace.With("run_id", uuid.NewString(), "source", "annotations")
	start := time.Now()

	a := layout.Analyze(anns, layout.Options{Page: page, Logger: logger})
	res := im.finish(a.Items, logger)
	res.Stats.Lines = len(a.Lines)
	res.Stats.RawBlocks = len(a.Blocks)

	logger.Debug("pipeline.import.ok",
		"annotations", len(anns),
		"tokens", a.Tokens,
		"columns", len(a.Columns),
		"courses", res.Stats.Courses,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return res
}

// FromReply runs the AI front end. A reply that does not decode yields an empty result.
func (im *Importer) FromReply(reply string) Result {
	logger := im.trace.With("run_id", uuid.NewString(), "source", "reply")

	items, err := llm.DecodeScheduleReply(reply)
	if err != nil {
		logger.Debug("pipeline.reply.rejected", "error", err, "reply_len", len(reply))
		return Result{Courses: []entity.Course{}}
	}
	res := im.finish(items, logger)
	logger.Debug("pipeline.import.ok", "courses", res.Stats.Courses)
	return res
}

// FromItems normalizes already extracted schedule items.
func (im *Importer) FromItems(items []entity.ScheduleItem) Result {
	return im.finish(items, im.trace.With("run_id", uuid.NewString(), "source", "items"))
}

func (im *Importer) finish(items []entity.ScheduleItem, logger *slog.Logger) Result {
	entries, dropped := normalize.NormalizeItems(items)
	merged := normalize.MergeBlocks(entries)
	courses := normalize.Aggregate(merged)

	kept := make(map[string]bool, len(courses))
	for _, c := range courses {
		kept[c.Name] = true
	}
	skipped := 0
	for _, it := range items {
		if !kept[strings.TrimSpace(it.Name)] {
			skipped++
		}
	}

	stats := Stats{
		Candidates:     len(items),
		DroppedBlocks:  dropped,
		MergedBlocks:   len(entries) - len(merged),
		Courses:        len(courses),
		SkippedCourses: skipped,
	}
	logger.Debug("pipeline.normalize",
		"candidates", stats.Candidates,
		"dropped", stats.DroppedBlocks,
		"merged", stats.MergedBlocks,
		"courses", stats.Courses,
		"skipped", stats.SkippedCourses,
	)
	return Result{Courses: courses, Stats: stats}
}
