package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/joseph-ayodele/timetable-import/internal/entity"
	"github.com/joseph-ayodele/timetable-import/internal/pipeline"
)

const reply = `[{"name": "CS101", "location": "B204", "blocks": [{"day": "Mon", "start": "09:00", "end": "10:30"}]},
{"name": "MA201", "blocks": [{"day": "Thu", "start": "13:00", "end": "14:00"}]}]`

func run(t *testing.T, stdin string, args ...string) string {
	t.Helper()
	t.Setenv("DB_URL", "")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("WATCH_DIR", "")
	cmd := rootCmd()
	var out bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		t.Fatalf("timetable %s: %v\n%s", strings.Join(args, " "), err, out.String())
	}
	return out.String()
}

func TestParseReplyJSON(t *testing.T) {
	db := filepath.Join(t.TempDir(), "t.db")
	out := run(t, "```json\n"+reply+"\n```", "--db", db, "parse", "reply", "-", "--json")

	var res pipeline.Result
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	if len(res.Courses) != 2 || res.Courses[1].Blocks[0] != (entity.Block{Day: "Thu", Start: "13:00", End: "14:00"}) {
		t.Errorf("courses = %+v", res.Courses)
	}
}

func TestParseTokensFile(t *testing.T) {
	dir := t.TempDir()
	tokens := `{"annotations": [
	  {"text": "Hour", "vertices": [{"x":10,"y":10},{"x":50,"y":10},{"x":50,"y":30},{"x":10,"y":30}]},
	  {"text": "Mon", "vertices": [{"x":150,"y":10},{"x":190,"y":10},{"x":190,"y":30},{"x":150,"y":30}]},
	  {"text": "Tue", "vertices": [{"x":300,"y":10},{"x":340,"y":10},{"x":340,"y":30},{"x":300,"y":30}]},
	  {"text": "09:00-10:30", "vertices": [{"x":10,"y":100},{"x":110,"y":100},{"x":110,"y":120},{"x":10,"y":120}]},
	  {"text": "CS101-101", "vertices": [{"x":140,"y":100},{"x":200,"y":100},{"x":200,"y":120},{"x":140,"y":120}]}
	]}`
	path := filepath.Join(dir, "tokens.json")
	if err := os.WriteFile(path, []byte(tokens), 0o600); err != nil {
		t.Fatal(err)
	}
	out := run(t, "", "--db", filepath.Join(dir, "t.db"), "parse", "tokens", path)
	if !strings.Contains(out, "CS101-101") || !strings.Contains(out, "Mon 09:00-10:30") {
		t.Errorf("output missing course:\n%s", out)
	}
}

func TestImportListExport(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "t.db")

	out := run(t, reply, "--db", db, "import", "reply", "-", "--owner", "u1", "--replace")
	if !strings.Contains(out, "imported 2 courses") {
		t.Errorf("import output:\n%s", out)
	}

	out = run(t, "", "--db", db, "list", "--owner", "u1", "--json")
	var courses []entity.Course
	if err := json.Unmarshal([]byte(out), &courses); err != nil {
		t.Fatalf("decode list: %v\n%s", err, out)
	}
	if len(courses) != 2 || courses[0].Name != "CS101" {
		t.Errorf("listed = %+v", courses)
	}

	ics := filepath.Join(dir, "out.ics")
	run(t, "", "--db", db, "export", "ics", "--owner", "u1", "-o", ics, "--week-of", "2026-09-14", "--weeks", "12")
	data, err := os.ReadFile(ics)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "BYDAY=TH;COUNT=12") {
		t.Errorf("ics missing Thursday rule:\n%s", data)
	}
}

func TestParseTokensArray(t *testing.T) {
	tf, err := decodeTokenFile([]byte(` [{"text": "Mon", "vertices": [{"x":1,"y":2}]}]`))
	if err != nil {
		t.Fatal(err)
	}
	if len(tf.Annotations) != 1 || tf.Annotations[0].Text != "Mon" {
		t.Errorf("annotations = %+v", tf.Annotations)
	}
}
