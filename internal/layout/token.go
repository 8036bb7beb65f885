package layout

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Vertex is one corner of an annotation's bounding quadrilateral, in pixels.
type Vertex struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Annotation is a raw OCR result: recognized text plus its bounding quadrilateral.
type Annotation struct {
	Text     string   `json:"text"`
	Vertices []Vertex `json:"vertices"`
}

// Token is a single recognized word with an axis-aligned bounding box.
type Token struct {
	Text string
	XMin float64
	XMax float64
	YMin float64
	YMax float64
}

func (t Token) XCenter() float64 { return (t.XMin + t.XMax) / 2 }
func (t Token) YCenter() float64 { return (t.YMin + t.YMax) / 2 }
func (t Token) Height() float64  { return t.YMax - t.YMin }

// IngestTokens turns annotations into tokens in input order. Text is NFKC-normalized
// and trimmed. Annotations with no text, no vertices, or more than one line of text
// (the whole-page summary some OCR engines emit first) are skipped.
func IngestTokens(anns []Annotation) []Token {
	tokens := make([]Token, 0, len(anns))
	for _, a := range anns {
		text := strings.TrimSpace(norm.NFKC.String(a.Text))
		if text == "" || len(a.Vertices) == 0 || strings.ContainsAny(text, "\r\n") {
			continue
		}
		t := Token{
			Text: text,
			XMin: a.Vertices[0].X, XMax: a.Vertices[0].X,
			YMin: a.Vertices[0].Y, YMax: a.Vertices[0].Y,
		}
		for _, v := range a.Vertices[1:] {
			t.XMin = min(t.XMin, v.X)
			t.XMax = max(t.XMax, v.X)
			t.YMin = min(t.YMin, v.Y)
			t.YMax = max(t.YMax, v.Y)
		}
		tokens = append(tokens, t)
	}
	return tokens
}
