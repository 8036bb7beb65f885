package layout

import (
	"cmp"
	"math"
	"slices"

	"github.com/joseph-ayodele/timetable-import/constants"
)

const (
	// columnMargin is the clearance kept right of the time column, in pixels.
	columnMargin = 8.0
	// gapFactor times the average gap between x-centers starts a new column cluster.
	gapFactor = 1.8
	// minColumnGap is the smallest gap that can separate two columns, in pixels.
	minColumnGap = 8.0
)

// DayColumn ties a weekday to the x-center of its column.
type DayColumn struct {
	Day constants.Weekday
	X   float64
}

// ResolveDayColumns recovers the weekday layout, first from a header row and,
// failing that, from the spacing of tokens to the right of the time column.
// The result is ordered left to right and is empty when neither signal exists.
func ResolveDayColumns(lines []Line, anchors []Line) []DayColumn {
	if cols := headerColumns(lines); len(cols) > 0 {
		return cols
	}
	return geometricColumns(lines, timeColumnBoundary(anchors))
}

func headerColumns(lines []Line) []DayColumn {
	header, ok := findHeaderLine(lines)
	if !ok {
		return nil
	}
	found := make(map[constants.Weekday]bool)
	var cols []DayColumn
	for _, t := range header.Tokens {
		if len(cols) == 7 {
			break
		}
		if constants.IsHourLabel(t.Text) {
			continue
		}
		day, ok := constants.CanonicalizeWeekday(t.Text)
		if !ok {
			if !constants.IsDayPlaceholder(t.Text) {
				continue
			}
			day, ok = nextMissingDay(found)
			if !ok {
				continue
			}
		}
		if found[day] {
			continue
		}
		found[day] = true
		cols = append(cols, DayColumn{Day: day, X: t.XCenter()})
	}
	slices.SortStableFunc(cols, func(a, b DayColumn) int { return cmp.Compare(a.X, b.X) })
	return cols
}

func findHeaderLine(lines []Line) (Line, bool) {
	for _, l := range lines {
		for _, t := range l.Tokens {
			if constants.IsHourLabel(t.Text) {
				return l, true
			}
			if _, ok := constants.CanonicalizeWeekday(t.Text); ok {
				return l, true
			}
		}
	}
	return Line{}, false
}

func nextMissingDay(found map[constants.Weekday]bool) (constants.Weekday, bool) {
	for _, d := range constants.Weekdays() {
		if !found[d] {
			return d, true
		}
	}
	return "", false
}

// geometricColumns clusters token x-centers right of the boundary by gap size and
// labels the clusters Mon..Sun from the left. Repeated centers count toward the
// average gap.
func geometricColumns(lines []Line, boundary float64) []DayColumn {
	var xs []float64
	for _, l := range lines {
		for _, t := range l.Tokens {
			if x := t.XCenter(); x > boundary+columnMargin {
				xs = append(xs, x)
			}
		}
	}
	slices.Sort(xs)
	if len(slices.Compact(slices.Clone(xs))) < 2 {
		return nil
	}

	avgGap := (xs[len(xs)-1] - xs[0]) / float64(len(xs)-1)
	split := max(gapFactor*avgGap, minColumnGap)

	var (
		centroids []float64
		sum       = xs[0]
		n         = 1
	)
	for i := 1; i < len(xs); i++ {
		if xs[i]-xs[i-1] > split {
			centroids = append(centroids, sum/float64(n))
			sum, n = 0, 0
		}
		sum += xs[i]
		n++
	}
	centroids = append(centroids, sum/float64(n))

	days := constants.Weekdays()
	cols := make([]DayColumn, 0, min(len(centroids), len(days)))
	for i := 0; i < len(centroids) && i < len(days); i++ {
		cols = append(cols, DayColumn{Day: days[i], X: centroids[i]})
	}
	return cols
}

// timeColumnBoundary is the right edge of the time column: in each anchor line, the
// first run of time tokens (dashes allowed between them). It is 0 when there are no anchors.
func timeColumnBoundary(anchors []Line) float64 {
	var boundary float64
	for _, l := range anchors {
		started := false
		for _, t := range l.Tokens {
			if isTimeOrDash(t.Text) && (started || isTimeLike(t.Text)) {
				started = true
				boundary = max(boundary, t.XMax)
				continue
			}
			if started {
				break
			}
		}
	}
	return boundary
}

// nearestColumn returns the column whose x is closest to x. cols must not be empty.
func nearestColumn(cols []DayColumn, x float64) DayColumn {
	best := cols[0]
	for _, c := range cols[1:] {
		if math.Abs(c.X-x) < math.Abs(best.X-x) {
			best = c
		}
	}
	return best
}
