package layout

import (
	"cmp"
	"math"
	"slices"
	"strings"
)

// lineProximity scales the average token height into the vertical clustering threshold.
const lineProximity = 0.6

// Line is a row of tokens sorted left to right.
type Line struct {
	Tokens  []Token
	Text    string
	XMin    float64
	XMax    float64
	YMin    float64
	YMax    float64
	YCenter float64 // running average of member y-centers
}

func (l Line) Height() float64 { return l.YMax - l.YMin }

// ClusterLines groups tokens into lines by vertical proximity, top to bottom.
func ClusterLines(tokens []Token) []Line {
	if len(tokens) == 0 {
		return nil
	}
	sorted := slices.Clone(tokens)
	slices.SortStableFunc(sorted, func(a, b Token) int {
		return cmp.Or(cmp.Compare(a.YCenter(), b.YCenter()), cmp.Compare(a.XCenter(), b.XCenter()))
	})

	var total float64
	for _, t := range sorted {
		total += t.Height()
	}
	threshold := lineProximity * total / float64(len(sorted))

	var (
		lines   []Line
		current []Token
		avgY    float64
	)
	flush := func() {
		if len(current) > 0 {
			lines = append(lines, newLine(current, avgY))
		}
	}
	for _, t := range sorted {
		if len(current) > 0 && math.Abs(t.YCenter()-avgY) <= threshold {
			current = append(current, t)
			avgY += (t.YCenter() - avgY) / float64(len(current))
			continue
		}
		flush()
		current = []Token{t}
		avgY = t.YCenter()
	}
	flush()
	return lines
}

func newLine(tokens []Token, yCenter float64) Line {
	members := slices.Clone(tokens)
	slices.SortStableFunc(members, func(a, b Token) int { return cmp.Compare(a.XCenter(), b.XCenter()) })
	l := Line{
		Tokens:  members,
		XMin:    members[0].XMin,
		XMax:    members[0].XMax,
		YMin:    members[0].YMin,
		YMax:    members[0].YMax,
		YCenter: yCenter,
	}
	words := make([]string, len(members))
	for i, t := range members {
		words[i] = t.Text
		l.XMin = min(l.XMin, t.XMin)
		l.XMax = max(l.XMax, t.XMax)
		l.YMin = min(l.YMin, t.YMin)
		l.YMax = max(l.YMax, t.YMax)
	}
	l.Text = strings.Join(words, " ")
	return l
}
