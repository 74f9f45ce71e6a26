package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spigell/resume-screener/internal/ai"
	"github.com/spigell/resume-screener/internal/logger"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

const (
	ProviderName = "gemini"

	defaultModel   = "gemini-2.5-pro"
	defaultTimeout = 60 * time.Second
	jsonMIMEType   = "application/json"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Generator is an ai.Completer backed by the Gemini API.
type Generator struct {
	models       contentGenerator
	defaultModel string
	timeout      time.Duration
	logger       *zap.Logger
}

// NewGenerator creates a new Generator configured for the Gemini API backend.
// The model is used for requests that do not name one.
func NewGenerator(ctx context.Context, apiKey, model string, log *zap.Logger) (*Generator, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return newGenerator(client.Models, model, log), nil
}

func newGenerator(models contentGenerator, model string, log *zap.Logger) *Generator {
	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}

	return &Generator{
		models:       models,
		defaultModel: model,
		timeout:      defaultTimeout,
		logger:       logger.WithFields(log, zap.String(logger.FieldProvider, ProviderName)),
	}
}

// Complete sends the request to Gemini. Errors are reported in the result.
func (g *Generator) Complete(ctx context.Context, req ai.Request) ai.CompletionResult {
	model := strings.TrimSpace(req.Model)
	if model == "" {
		model = g.defaultModel
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	contents, config := buildRequest(req)

	resp, err := g.models.GenerateContent(ctx, model, contents, config)
	if err != nil {
		g.logger.Debug("generate content failed", zap.String(logger.FieldModel, model), zap.Error(err))
		return ai.Failure(model, fmt.Sprintf("generate content: %v", err))
	}

	output := responseText(resp)
	if output == "" {
		return ai.Failure(model, "gemini api returned empty response")
	}

	result := ai.CompletionResult{
		Model:   model,
		Content: output,
		Usage:   usage(resp),
	}

	if req.JSONMode {
		if parsed, err := ai.DecodeStructured(output); err == nil {
			result.Parsed = parsed
		} else {
			g.logger.Debug("structured output is not valid JSON", zap.String(logger.FieldModel, model), zap.Error(err))
		}
	}

	return result
}

func buildRequest(req ai.Request) ([]*genai.Content, *genai.GenerateContentConfig) {
	config := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(req.Temperature)),
		MaxOutputTokens: int32(req.MaxTokens),
	}
	if req.JSONMode {
		config.ResponseMIMEType = jsonMIMEType
	}

	var system []string
	contents := make([]*genai.Content, 0, len(req.Conversation()))
	for _, msg := range req.Conversation() {
		switch msg.Role {
		case ai.RoleSystem:
			system = append(system, msg.Content)
		case ai.RoleAssistant:
			contents = append(contents, genai.NewContentFromText(msg.Content, genai.RoleModel))
		default:
			contents = append(contents, genai.NewContentFromText(msg.Content, genai.RoleUser))
		}
	}

	if len(system) > 0 {
		config.SystemInstruction = genai.NewContentFromText(strings.Join(system, "\n\n"), genai.RoleUser)
	}

	return contents, config
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(text)
		}
		// Only the first candidate with content is used.
		if builder.Len() > 0 {
			break
		}
	}

	return strings.TrimSpace(builder.String())
}

func usage(resp *genai.GenerateContentResponse) ai.Usage {
	if resp == nil || resp.UsageMetadata == nil {
		return ai.Usage{}
	}
	meta := resp.UsageMetadata
	return ai.Usage{
		PromptTokens:     int(meta.PromptTokenCount),
		CompletionTokens: int(meta.CandidatesTokenCount),
		TotalTokens:      int(meta.TotalTokenCount),
	}
}

func (g *Generator) Model() string {
	if g == nil {
		return ""
	}
	return g.defaultModel
}
