package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/resume-screener/internal/ai"
	"github.com/spigell/resume-screener/internal/ai/gemini"
	"github.com/spigell/resume-screener/internal/ai/openrouter"
	"github.com/spigell/resume-screener/internal/logger"
	"github.com/spigell/resume-screener/internal/screening"
	"github.com/spigell/resume-screener/internal/secrets"
)

// bootstrap creates the logger and reads the config. Both are required by
// every command except version.
func bootstrap() (*zap.Logger, *Config) {
	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(redacted(config), "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	return logger, config
}

func redacted(config *Config) *Config {
	clone := *config
	if config.AI != nil && config.AI.APIKey != "" {
		aiConfig := *config.AI
		aiConfig.APIKey = "<redacted>"
		clone.AI = &aiConfig
	}
	return &clone
}

func providerName(cfg *AIConfig) string {
	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider == "" {
		return openrouter.ProviderName
	}
	return provider
}

// providerKeys names the environment variables each provider reads its key from.
var providerKeys = map[string]struct {
	name    string
	env     string
	fileEnv string
}{
	openrouter.ProviderName: {name: "openrouter api key", env: "OPENROUTER_API_KEY", fileEnv: "OPENROUTER_API_KEY_FILE"},
	gemini.ProviderName:     {name: "gemini api key", env: "GEMINI_API_KEY", fileEnv: "GEMINI_API_KEY_FILE"},
}

// resolveAPIKey loads the key of the given provider. ai.api-key and
// ai.api-key-file belong to the configured provider only; any other provider
// is resolved from its own environment variables.
func resolveAPIKey(cfg *AIConfig, provider string) (string, error) {
	keys, ok := providerKeys[provider]
	if !ok {
		return "", fmt.Errorf("unsupported ai provider: %s", provider)
	}

	src := secrets.Source{Name: keys.name, Env: keys.env}
	if providerName(cfg) == provider {
		src.Value = cfg.APIKey
		src.File = cfg.APIKeyFile
	}
	if strings.TrimSpace(src.File) == "" && strings.TrimSpace(src.Value) == "" {
		src.File = os.Getenv(keys.fileEnv)
	}

	key, err := secrets.Load(src)
	if err != nil {
		return "", fmt.Errorf("%w (set %s, %s or ai.api-key-file)", err, keys.fileEnv, keys.env)
	}
	return key, nil
}

func newOpenRouter(cfg *AIConfig, log *zap.Logger) (*openrouter.Client, error) {
	key, err := resolveAPIKey(cfg, openrouter.ProviderName)
	if err != nil {
		return nil, err
	}

	client := openrouter.New(key, log)
	if url := strings.TrimSpace(cfg.APIURL); url != "" {
		client.APIURL = url
	}
	if cfg.MaxLogLength > 0 {
		client.MaxLogLength = cfg.MaxLogLength
	}
	client.UserAgent = fmt.Sprintf("%s/%s", app, version)

	return client, nil
}

// newCompleter builds the configured provider and returns it with the model
// requests should use.
func newCompleter(ctx context.Context, cfg *AIConfig, log *zap.Logger) (ai.Completer, string, error) {
	switch provider := providerName(cfg); provider {
	case openrouter.ProviderName:
		client, err := newOpenRouter(cfg, log)
		if err != nil {
			return nil, "", err
		}

		model := strings.TrimSpace(cfg.Model)
		if model == "" {
			model = screening.DefaultModel
		}
		return client, model, nil
	case gemini.ProviderName:
		key, err := resolveAPIKey(cfg, provider)
		if err != nil {
			return nil, "", err
		}

		generator, err := gemini.NewGenerator(ctx, key, cfg.Model, log)
		if err != nil {
			return nil, "", err
		}
		return generator, generator.Model(), nil
	default:
		return nil, "", fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}
}

func newScreener(ctx context.Context, cfg *AIConfig, log *zap.Logger) (*screening.Screener, error) {
	completer, model, err := newCompleter(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("building ai provider: %w", err)
	}

	screenerLogger := logger.WithCommonFields(log, providerName(cfg), "").With(
		zap.Int("ai_retry_attempts", cfg.MaxRetries),
	)

	return screening.NewScreener(completer, model, cfg.MaxRetries, cfg.MaxLogLength, screenerLogger), nil
}

func printJSON(v any) error {
	pretty, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(pretty))
	return nil
}
