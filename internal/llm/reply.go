package llm

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/joseph-ayodele/timetable-import/internal/entity"
)

var (
	openFence  = regexp.MustCompile("^```[a-zA-Z0-9_-]*\\s*")
	closeFence = regexp.MustCompile("\\s*```$")

	replySchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
		return CompileSchema(BuildScheduleJSONSchema())
	})
)

// StripFences removes a leading ```lang and a trailing ``` around a reply.
func StripFences(reply string) string {
	s := strings.TrimSpace(reply)
	s = openFence.ReplaceAllString(s, "")
	s = closeFence.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// DecodeScheduleReply strips fences, checks the reply against the schedule schema and
// decodes it. Any failure rejects the whole reply.
func DecodeScheduleReply(reply string) ([]entity.ScheduleItem, error) {
	body := StripFences(reply)
	if body == "" {
		return nil, fmt.Errorf("empty reply")
	}
	schema, err := replySchema()
	if err != nil {
		return nil, err
	}
	if err := ValidateJSON(schema, []byte(body)); err != nil {
		return nil, err
	}
	var items []entity.ScheduleItem
	if err := json.Unmarshal([]byte(body), &items); err != nil {
		return nil, fmt.Errorf("decode schedule: %w", err)
	}
	return items, nil
}

// ParseScheduleReply is DecodeScheduleReply with every failure mapped to an empty result.
func ParseScheduleReply(reply string) []entity.ScheduleItem {
	items, err := DecodeScheduleReply(reply)
	if err != nil {
		return nil
	}
	return items
}
