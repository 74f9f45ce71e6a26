package prompt

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/spigell/resume-screener/internal/utils"
)

const (
	// DefaultMaxFieldLength caps string context values, in runes.
	DefaultMaxFieldLength = 5000
	TruncationMarker      = "\n... (truncated)"

	schemaHeader = "Return a JSON object with this exact structure:"
	jsonOnly     = "IMPORTANT: Return ONLY valid JSON, no additional text or markdown formatting."
)

// Field is one named piece of background data inserted into a prompt.
type Field struct {
	Name  string
	Value any
}

// ContextMap keeps fields in insertion order, which is also the render order.
type ContextMap []Field

func (c ContextMap) With(name string, value any) ContextMap {
	return append(c, Field{Name: name, Value: value})
}

type Builder struct {
	// MaxFieldLength is the rune limit for string values. Zero means DefaultMaxFieldLength.
	MaxFieldLength int
}

// Build renders the prompt with the default field limit.
func Build(instruction string, fields ContextMap, schema any) (string, error) {
	return Builder{}.Build(instruction, fields, schema)
}

// Build renders the instruction, each context field under its uppercased name,
// the output schema and the JSON-only directive.
func (b Builder) Build(instruction string, fields ContextMap, schema any) (string, error) {
	schemaJSON, err := marshalIndent(schema)
	if err != nil {
		return "", fmt.Errorf("marshal output schema: %w", err)
	}

	var context strings.Builder
	for _, field := range fields {
		value, err := b.render(field.Value)
		if err != nil {
			return "", fmt.Errorf("render context field %q: %w", field.Name, err)
		}
		fmt.Fprintf(&context, "\n%s:\n%s\n", strings.ToUpper(field.Name), value)
	}

	var out strings.Builder
	out.WriteString(instruction)
	out.WriteString("\n\n")
	out.WriteString(context.String())
	out.WriteString("\n\n")
	out.WriteString(schemaHeader)
	out.WriteString("\n")
	out.WriteString(schemaJSON)
	out.WriteString("\n\n")
	out.WriteString(jsonOnly)

	return out.String(), nil
}

func (b Builder) limit() int {
	if b.MaxFieldLength <= 0 {
		return DefaultMaxFieldLength
	}
	return b.MaxFieldLength
}

func (b Builder) render(value any) (string, error) {
	switch v := value.(type) {
	case string:
		return Truncate(v, b.limit()), nil
	case fmt.Stringer:
		return Truncate(v.String(), b.limit()), nil
	case nil:
		return "", nil
	default:
		return marshalIndent(v)
	}
}

// marshalIndent renders v as indented JSON with <, > and & left as is.
func marshalIndent(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// Truncate cuts s to limit runes and appends TruncationMarker when it was longer.
func Truncate(s string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(s) <= limit {
		return s
	}
	return utils.TruncateRunes(s, limit) + TruncationMarker
}
