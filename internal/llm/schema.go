package llm

// BuildScheduleJSONSchema returns the JSON-Schema of a schedule reply as a generic map.
// It is sent to the model with the prompt and used locally to check the reply's structure.
// Field values are only shape-checked here; day and time validity is decided later.
func BuildScheduleJSONSchema() map[string]any {
	block := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"day":   nullableString(),
			"start": nullableString(),
			"end":   nullableString(),
		},
	}
	item := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"name":        nullableString(),
			"location":    nullableString(),
			"description": nullableString(),
			"instructor":  nullableString(),
			"blocks": map[string]any{
				"type":  []string{"array", "null"},
				"items": block,
			},
		},
	}
	return map[string]any{
		"type":  "array",
		"items": item,
	}
}

func nullableString() map[string]any {
	return map[string]any{"type": []string{"string", "null"}}
}
