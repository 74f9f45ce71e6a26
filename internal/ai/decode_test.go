package ai

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDecodeStructured(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		input   string
		want    any
		wantErr bool
	}{
		{
			name:  "plain object",
			input: `{"years": 5, "skills": ["Go"]}`,
			want:  map[string]any{"years": float64(5), "skills": []any{"Go"}},
		},
		{
			name:  "fenced json",
			input: "```json\n{\"fit\": true}\n```",
			want:  map[string]any{"fit": true},
		},
		{
			name:  "array",
			input: `[1, 2]`,
			want:  []any{float64(1), float64(2)},
		},
		{name: "prose", input: "Sure! Here is the JSON you asked for", wantErr: true},
		{name: "empty", input: "   ", wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := DecodeStructured(tc.input)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("decoded value mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFailureKeepsDataEmpty(t *testing.T) {
	res := Failure("model-x", "  ")
	if !res.Failed() {
		t.Fatalf("expected failed result")
	}
	if res.Error != "unknown error" {
		t.Fatalf("unexpected error message: %q", res.Error)
	}
	if res.Content != "" || res.Parsed != nil || !res.Usage.IsZero() {
		t.Fatalf("failure must not carry data: %+v", res)
	}
}

func TestUsageAdd(t *testing.T) {
	a := Usage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15}
	b := Usage{PromptTokens: 1, CompletionTokens: 2, TotalTokens: 3}

	if diff := cmp.Diff(Usage{PromptTokens: 11, CompletionTokens: 7, TotalTokens: 18}, a.Add(b)); diff != "" {
		t.Fatalf("usage mismatch (-want +got):\n%s", diff)
	}
}
