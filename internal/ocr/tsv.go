package ocr

import (
	"strconv"
	"strings"

	"github.com/joseph-ayodele/timetable-import/internal/layout"
)

// TSV column indexes as printed by `tesseract ... tsv`.
const (
	colLevel = iota
	colPage
	colBlock
	colPar
	colLine
	colWord
	colLeft
	colTop
	colWidth
	colHeight
	colConf
	colText
	tsvColumns
)

const (
	levelPage = 1
	levelWord = 5
)

// TSVDocument is the geometric view of a tesseract TSV dump.
type TSVDocument struct {
	Annotations []layout.Annotation
	Page        layout.Page
	Confidence  float32 // mean word confidence, 0..1
}

// ParseTSV converts word rows into annotations with 4-vertex quadrilaterals.
// Rows with low confidence (below minConf, or -1) and blank words are skipped.
// The page size comes from the first page row.
func ParseTSV(data []byte, minConf float64) TSVDocument {
	var (
		doc      TSVDocument
		sum      float64
		n        int
		pageSeen bool
	)
	for i, ln := range strings.Split(string(data), "\n") {
		ln = strings.TrimRight(ln, "\r")
		if i == 0 || ln == "" {
			continue // header
		}
		cols := strings.SplitN(ln, "\t", tsvColumns)
		if len(cols) < tsvColumns {
			continue
		}
		level, err := strconv.Atoi(cols[colLevel])
		if err != nil {
			continue
		}
		left, top, width, height, ok := box(cols)
		if !ok {
			continue
		}
		switch level {
		case levelPage:
			if !pageSeen {
				doc.Page = layout.Page{Width: width, Height: height}
				pageSeen = true
			}
		case levelWord:
			text := strings.TrimSpace(cols[colText])
			conf, err := strconv.ParseFloat(cols[colConf], 64)
			if text == "" || err != nil || conf < 0 || conf < minConf {
				continue
			}
			sum += conf
			n++
			doc.Annotations = append(doc.Annotations, layout.Annotation{
				Text: text,
				Vertices: []layout.Vertex{
					{X: left, Y: top},
					{X: left + width, Y: top},
					{X: left + width, Y: top + height},
					{X: left, Y: top + height},
				},
			})
		}
	}
	if n > 0 {
		doc.Confidence = float32(sum / float64(n) / 100)
	}
	return doc
}

func box(cols []string) (left, top, width, height float64, ok bool) {
	vals := make([]float64, 4)
	for i, c := range cols[colLeft : colHeight+1] {
		v, err := strconv.ParseFloat(c, 64)
		if err != nil {
			return 0, 0, 0, 0, false
		}
		vals[i] = v
	}
	return vals[0], vals[1], vals[2], vals[3], true
}
