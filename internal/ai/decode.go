package ai

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// DecodeStructured decodes model output as JSON. Markdown code fences around
// the payload are removed first.
func DecodeStructured(text string) (any, error) {
	cleaned := ExtractJSON(text)
	if cleaned == "" {
		return nil, errors.New("empty structured output")
	}

	var data any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil, fmt.Errorf("decode structured output: %w", err)
	}

	return data, nil
}

func ExtractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}
