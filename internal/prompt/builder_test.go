package prompt

import (
	"strings"
	"testing"
)

func TestBuildLayout(t *testing.T) {
	fields := ContextMap{}.With("resume", "Go developer").With("job_req", "Needs Go")
	schema := map[string]any{"years_experience": "number"}

	got, err := Build("Extract years of experience.", fields, schema)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "Extract years of experience.\n\n" +
		"\nRESUME:\nGo developer\n" +
		"\nJOB_REQ:\nNeeds Go\n" +
		"\n\nReturn a JSON object with this exact structure:\n" +
		"{\n  \"years_experience\": \"number\"\n}" +
		"\n\nIMPORTANT: Return ONLY valid JSON, no additional text or markdown formatting."

	if got != want {
		t.Fatalf("unexpected prompt:\n%q\nwant:\n%q", got, want)
	}
}

func TestBuildKeepsInsertionOrder(t *testing.T) {
	fields := ContextMap{}.With("zeta", "z").With("alpha", "a").With("mid", "m")

	got, err := Build("task", fields, map[string]string{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	zeta := strings.Index(got, "ZETA:")
	alpha := strings.Index(got, "ALPHA:")
	mid := strings.Index(got, "MID:")
	if !(zeta < alpha && alpha < mid) {
		t.Fatalf("fields rendered out of order: %s", got)
	}
}

func TestBuildTruncation(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name      string
		length    int
		truncated bool
	}{
		{name: "under threshold", length: DefaultMaxFieldLength - 1},
		{name: "at threshold", length: DefaultMaxFieldLength},
		{name: "over threshold", length: DefaultMaxFieldLength + 1, truncated: true},
		{name: "far over threshold", length: DefaultMaxFieldLength * 3, truncated: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			value := strings.Repeat("я", tc.length)
			got, err := Build("task", ContextMap{{Name: "resume", Value: value}}, map[string]string{"a": "b"})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if !tc.truncated {
				if !strings.Contains(got, "\nRESUME:\n"+value+"\n") {
					t.Fatalf("expected value verbatim")
				}
				if strings.Contains(got, TruncationMarker) {
					t.Fatalf("did not expect truncation marker")
				}
				return
			}

			prefix := strings.Repeat("я", DefaultMaxFieldLength)
			if !strings.Contains(got, "\nRESUME:\n"+prefix+TruncationMarker+"\n") {
				t.Fatalf("expected threshold-length prefix followed by marker")
			}
			if strings.Contains(got, prefix+"я") {
				t.Fatalf("value longer than threshold leaked into prompt")
			}
		})
	}
}

func TestBuilderCustomLimit(t *testing.T) {
	got, err := Builder{MaxFieldLength: 3}.Build("task", ContextMap{{Name: "text", Value: "abcdef"}}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(got, "\nTEXT:\nabc"+TruncationMarker+"\n") {
		t.Fatalf("unexpected truncation: %q", got)
	}
}

func TestBuildStructuredValuesAreNotTruncated(t *testing.T) {
	skills := map[string][]string{"programming_languages": {"Go", "Python"}}

	got, err := Builder{MaxFieldLength: 5}.Build("task", ContextMap{{Name: "skills", Value: skills}}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "\nSKILLS:\n{\n  \"programming_languages\": [\n    \"Go\",\n    \"Python\"\n  ]\n}\n"
	if !strings.Contains(got, want) {
		t.Fatalf("structured value not rendered as indented JSON: %q", got)
	}
}

func TestBuildRejectsUnmarshalableSchema(t *testing.T) {
	if _, err := Build("task", nil, map[string]any{"bad": make(chan int)}); err == nil {
		t.Fatalf("expected schema marshal error")
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("hello", 0); got != "hello" {
		t.Fatalf("non-positive limit must keep value, got %q", got)
	}
	if got := Truncate("hello", 2); got != "he"+TruncationMarker {
		t.Fatalf("unexpected truncation: %q", got)
	}
}

func TestBuildKeepsMarkupCharacters(t *testing.T) {
	fields := ContextMap{}.With("skills", []string{"R&D", "C<T>"})
	schema := struct {
		FitScore string `json:"fit_score"`
	}{FitScore: "<number 0-100> & <reason>"}

	got, err := Build("Score it.", fields, schema)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []string{
		"\nSKILLS:\n[\n  \"R&D\",\n  \"C<T>\"\n]\n",
		"{\n  \"fit_score\": \"<number 0-100> & <reason>\"\n}\n\nIMPORTANT:",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("expected %q in prompt:\n%s", want, got)
		}
	}
	if strings.Contains(got, `\u003c`) || strings.Contains(got, `\u0026`) {
		t.Fatalf("prompt contains escaped markup:\n%s", got)
	}
}
