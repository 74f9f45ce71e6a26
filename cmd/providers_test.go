package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spigell/resume-screener/internal/ai/gemini"
	"github.com/spigell/resume-screener/internal/ai/openrouter"
)

func TestResolveAPIKeyKeepsProvidersApart(t *testing.T) {
	dir := t.TempDir()
	orFile := filepath.Join(dir, "openrouter")
	if err := os.WriteFile(orFile, []byte("sk-or-from-file\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("OPENROUTER_API_KEY", "sk-or-env")
	t.Setenv("OPENROUTER_API_KEY_FILE", "")
	t.Setenv("GEMINI_API_KEY", "gemini-env")
	t.Setenv("GEMINI_API_KEY_FILE", "")

	cases := []struct {
		name     string
		cfg      *AIConfig
		provider string
		fileEnv  map[string]string
		want     string
	}{
		{
			name:     "gemini ignores openrouter env",
			cfg:      &AIConfig{Provider: "gemini"},
			provider: gemini.ProviderName,
			want:     "gemini-env",
		},
		{
			name:     "gemini config key is not sent to openrouter",
			cfg:      &AIConfig{Provider: "gemini", APIKey: "gemini-inline"},
			provider: openrouter.ProviderName,
			want:     "sk-or-env",
		},
		{
			name:     "openrouter inline key",
			cfg:      &AIConfig{Provider: "openrouter", APIKey: "sk-or-inline"},
			provider: openrouter.ProviderName,
			want:     "sk-or-inline",
		},
		{
			name:     "default provider reads file env",
			cfg:      &AIConfig{},
			provider: openrouter.ProviderName,
			fileEnv:  map[string]string{"OPENROUTER_API_KEY_FILE": orFile},
			want:     "sk-or-from-file",
		},
		{
			name:     "openrouter file env is not used by gemini",
			cfg:      &AIConfig{Provider: "gemini"},
			provider: gemini.ProviderName,
			fileEnv:  map[string]string{"OPENROUTER_API_KEY_FILE": orFile},
			want:     "gemini-env",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			for k, v := range tc.fileEnv {
				t.Setenv(k, v)
			}

			got, err := resolveAPIKey(tc.cfg, tc.provider)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestResolveAPIKeyErrors(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GEMINI_API_KEY_FILE", "")
	t.Setenv("OPENROUTER_API_KEY", "sk-or-env")

	_, err := resolveAPIKey(&AIConfig{Provider: "gemini"}, gemini.ProviderName)
	if err == nil || !strings.Contains(err.Error(), "GEMINI_API_KEY") {
		t.Fatalf("expected missing gemini key error, got %v", err)
	}

	if _, err := resolveAPIKey(&AIConfig{}, "anthropic"); err == nil {
		t.Fatalf("expected unsupported provider error")
	}
}
