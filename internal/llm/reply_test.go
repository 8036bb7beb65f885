package llm

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/joseph-ayodele/timetable-import/internal/entity"
)

const sampleReply = `[
  {"name": "CS101", "location": "B12", "description": "Intro", "instructor": "Dr. Ada",
   "blocks": [{"day": "Mon", "start": "09:00", "end": "10:30"}, {"day": "Wed", "start": "9.00", "end": "10.30"}]},
  {"name": "MA201", "location": null, "description": null, "blocks": [{"day": "tuesday", "start": "13:00", "end": "14:00"}]}
]`

func TestParseScheduleReply(t *testing.T) {
	want := []entity.ScheduleItem{
		{
			Name: "CS101", Location: "B12", Description: "Intro", Instructor: "Dr. Ada",
			Blocks: []entity.SlotInput{
				{Day: "Mon", Start: "09:00", End: "10:30"},
				{Day: "Wed", Start: "9.00", End: "10.30"},
			},
		},
		{Name: "MA201", Blocks: []entity.SlotInput{{Day: "tuesday", Start: "13:00", End: "14:00"}}},
	}
	got := ParseScheduleReply(sampleReply)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ParseScheduleReply mismatch (-want +got):\n%s", diff)
	}
}

func TestParseScheduleReplyFencedMatchesBare(t *testing.T) {
	bare := ParseScheduleReply(sampleReply)
	for _, fenced := range []string{
		"```json\n" + sampleReply + "\n```",
		"```\n" + sampleReply + "```",
		"  ```JSON " + sampleReply + " ```  ",
	} {
		if diff := cmp.Diff(bare, ParseScheduleReply(fenced)); diff != "" {
			t.Errorf("fenced reply differs (-bare +fenced):\n%s", diff)
		}
	}
}

func TestParseScheduleReplyRejectsMalformed(t *testing.T) {
	for _, reply := range []string{
		"",
		"Sorry, I cannot read this image.",
		`{"name": "CS101"}`,
		`[{"name": "CS101", "blocks": [{"day": "Mon", "start": 9, "end": 10}]}]`,
		`[{"name": "CS101", "blocks": "Mon 9-10"}]`,
		"```json\n[{\"name\": \"CS101\"\n```",
		"Here you go: [{\"name\": \"CS101\", \"blocks\": []}]",
	} {
		if got := ParseScheduleReply(reply); len(got) != 0 {
			t.Errorf("ParseScheduleReply(%q) = %v; want empty", reply, got)
		}
	}
}

func TestDecodeScheduleReplyReportsReason(t *testing.T) {
	if _, err := DecodeScheduleReply("not json"); err == nil {
		t.Fatal("expected an error for non-JSON text")
	}
	items, err := DecodeScheduleReply("[]")
	if err != nil || len(items) != 0 {
		t.Fatalf("empty array: items=%v err=%v", items, err)
	}
}

func TestBuildSystemPromptEmbedsSchema(t *testing.T) {
	p := BuildSystemPrompt()
	for _, want := range []string{`"blocks"`, "Mon, Tue, Wed", "HH:MM"} {
		if !strings.Contains(p, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}
