package ocr

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/joseph-ayodele/timetable-import/internal/layout"
)

const sampleTSV = "level\tpage_num\tblock_num\tpar_num\tline_num\tword_num\tleft\ttop\twidth\theight\tconf\ttext\n" +
	"1\t1\t0\t0\t0\t0\t0\t0\t800\t600\t-1\t\n" +
	"2\t1\t1\t0\t0\t0\t10\t10\t480\t20\t-1\t\n" +
	"5\t1\t1\t1\t1\t1\t10\t10\t40\t20\t96.5\tHour\n" +
	"5\t1\t1\t1\t1\t2\t150\t10\t40\t20\t91\tMon\n" +
	"5\t1\t1\t1\t1\t3\t300\t10\t40\t20\t12\t~~\n" +
	"5\t1\t1\t1\t1\t4\t450\t10\t40\t20\t88\t \n"

type fakeRunner struct {
	calls  [][]string
	stdout []byte
	err    error
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
	f.calls = append(f.calls, append([]string{name}, args...))
	return f.stdout, []byte("stderr text"), f.err
}

func TestParseTSV(t *testing.T) {
	doc := ParseTSV([]byte(sampleTSV), 30)
	want := []layout.Annotation{
		{Text: "Hour", Vertices: []layout.Vertex{{X: 10, Y: 10}, {X: 50, Y: 10}, {X: 50, Y: 30}, {X: 10, Y: 30}}},
		{Text: "Mon", Vertices: []layout.Vertex{{X: 150, Y: 10}, {X: 190, Y: 10}, {X: 190, Y: 30}, {X: 150, Y: 30}}},
	}
	if diff := cmp.Diff(want, doc.Annotations); diff != "" {
		t.Errorf("annotations mismatch (-want +got):\n%s", diff)
	}
	if doc.Page != (layout.Page{Width: 800, Height: 600}) {
		t.Errorf("page = %+v", doc.Page)
	}
	if doc.Confidence < 0.93 || doc.Confidence > 0.94 {
		t.Errorf("confidence = %v; want ~0.9375", doc.Confidence)
	}
}

func TestParseTSVKeepsLowConfidenceWhenUnfiltered(t *testing.T) {
	doc := ParseTSV([]byte(sampleTSV), 0)
	if len(doc.Annotations) != 3 {
		t.Fatalf("got %d annotations; want 3", len(doc.Annotations))
	}
	if ParseTSV(nil, 0).Annotations != nil {
		t.Error("empty input should give no annotations")
	}
}

func TestAnnotateBuildsTesseractCommand(t *testing.T) {
	r := &fakeRunner{stdout: []byte(sampleTSV)}
	e := NewExtractorWithRunner(Config{TessdataDir: "/tess", OEM: 1}, r, nil)

	res, err := e.Annotate(context.Background(), "/tmp/week.PNG")
	if err != nil {
		t.Fatalf("Annotate: %v", err)
	}
	if len(res.Annotations) != 3 {
		t.Errorf("got %d annotations; want 3", len(res.Annotations))
	}
	want := []string{"tesseract", "/tmp/week.PNG", "stdout", "-l", "eng", "--psm", "6", "--oem", "1", "--tessdata-dir", "/tess", "tsv"}
	if len(r.calls) != 1 || !slices.Equal(r.calls[0], want) {
		t.Errorf("calls = %v; want [%v]", r.calls, want)
	}
}

func TestAnnotateErrors(t *testing.T) {
	e := NewExtractorWithRunner(Config{}, &fakeRunner{}, nil)
	if _, err := e.Annotate(context.Background(), "notes.docx"); err == nil {
		t.Error("expected unsupported extension error")
	}

	failing := &fakeRunner{err: errors.New("exit status 1")}
	e = NewExtractorWithRunner(Config{}, failing, nil)
	_, err := e.Annotate(context.Background(), "week.jpg")
	if err == nil || !strings.Contains(err.Error(), "stderr text") {
		t.Errorf("err = %v; want tesseract failure carrying stderr", err)
	}
}
