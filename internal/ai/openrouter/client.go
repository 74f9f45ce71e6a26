package openrouter

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/spigell/resume-screener/internal/ai"
	"github.com/spigell/resume-screener/internal/logger"
	"github.com/spigell/resume-screener/internal/utils"
	"go.uber.org/zap"
)

const (
	DefaultAPIURL = "https://openrouter.ai/api/v1"
	ProviderName  = "openrouter"

	userAgent = "spigell/resume-screener"
	appTitle  = "resume-screener"

	completionsPath = "/chat/completions"

	defaultCompletionTimeout = 60 * time.Second
	defaultMetadataTimeout   = 30 * time.Second
	defaultMaxLogLength      = 200
	errorBodyLimit           = 200
)

type Client struct {
	token  string
	logger *zap.Logger

	HTTPClient *http.Client
	APIURL     string
	UserAgent  string
	// AppTitle is sent as X-Title for OpenRouter app attribution. Empty disables it.
	AppTitle string

	CompletionTimeout time.Duration
	MetadataTimeout   time.Duration
	MaxLogLength      int
}

func New(token string, log *zap.Logger) *Client {
	return &Client{
		token:             strings.TrimSpace(token),
		logger:            logger.WithFields(log, zap.String(logger.FieldProvider, ProviderName)),
		HTTPClient:        &http.Client{},
		APIURL:            DefaultAPIURL,
		UserAgent:         userAgent,
		AppTitle:          appTitle,
		CompletionTimeout: defaultCompletionTimeout,
		MetadataTimeout:   defaultMetadataTimeout,
		MaxLogLength:      defaultMaxLogLength,
	}
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []ai.Message    `json:"messages"`
	Temperature    float64         `json:"temperature"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage ai.Usage  `json:"usage"`
	Error *apiError `json:"error"`
}

type apiError struct {
	Code    any    `json:"code"`
	Message string `json:"message"`
}

// Complete performs exactly one chat completion call. Failures of any kind are
// reported through the returned result.
func (c *Client) Complete(ctx context.Context, req ai.Request) ai.CompletionResult {
	log := c.logger.With(zap.String(logger.FieldModel, req.Model))

	content, usage, err := c.complete(ctx, req, log)
	if err != nil {
		log.Debug("chat completion failed", zap.Error(err))
		return ai.Failure(req.Model, err.Error())
	}

	result := ai.CompletionResult{
		Model:   req.Model,
		Content: content,
		Usage:   usage,
	}

	if req.JSONMode {
		parsed, err := ai.DecodeStructured(content)
		if err != nil {
			log.Debug("structured output is not valid JSON", zap.Error(err))
		} else {
			result.Parsed = parsed
		}
	}

	return result
}

func (c *Client) complete(ctx context.Context, req ai.Request, log *zap.Logger) (string, ai.Usage, error) {
	if strings.TrimSpace(req.Model) == "" {
		return "", ai.Usage{}, errors.New("model is required")
	}

	payload := chatRequest{
		Model:       req.Model,
		Messages:    req.Conversation(),
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}
	if req.JSONMode {
		payload.ResponseFormat = &responseFormat{Type: "json_object"}
	}

	if log.Core().Enabled(zap.DebugLevel) {
		last := payload.Messages[len(payload.Messages)-1].Content
		log.Debug("chat completion request",
			zap.Int("messages", len(payload.Messages)),
			zap.Int("prompt_length", utf8.RuneCountInString(last)),
			zap.String("prompt_preview", utils.TruncateForLog(last, c.MaxLogLength)),
			zap.Bool("json_mode", req.JSONMode),
		)
	}

	ctx, cancel := withTimeout(ctx, c.CompletionTimeout)
	defer cancel()

	var response chatResponse
	if err := c.doJSON(ctx, http.MethodPost, c.APIURL+completionsPath, payload, &response); err != nil {
		return "", ai.Usage{}, err
	}

	if response.Error != nil {
		return "", ai.Usage{}, fmt.Errorf("api error %v: %s", response.Error.Code, response.Error.Message)
	}

	if len(response.Choices) == 0 {
		return "", ai.Usage{}, errors.New("response contains no choices")
	}

	content := response.Choices[0].Message.Content

	log.Debug("chat completion response",
		zap.Int("response_length", utf8.RuneCountInString(content)),
		zap.String("response_preview", utils.TruncateForLog(content, c.MaxLogLength)),
		zap.String("finish_reason", response.Choices[0].FinishReason),
		zap.Int("total_tokens", response.Usage.TotalTokens),
	)

	return content, response.Usage, nil
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
