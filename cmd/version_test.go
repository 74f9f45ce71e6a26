package cmd

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestPrintVersion(t *testing.T) {
	var out bytes.Buffer
	printVersion(&out)

	want := "resume-screener version: unknown\n" +
		"user agent: resume-screener/unknown\n" +
		"default model: anthropic/claude-3.5-sonnet\n" +
		"openrouter api: https://openrouter.ai/api/v1\n"
	if diff := cmp.Diff(want, out.String()); diff != "" {
		t.Fatalf("version output mismatch (-want +got):\n%s", diff)
	}
}
