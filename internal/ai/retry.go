package ai

import (
	"context"
	"time"

	"github.com/spigell/resume-screener/internal/utils"
	"go.uber.org/zap"
)

const (
	DefaultChatAttempts    = 2
	defaultChatTemperature = 0.7
	defaultChatMaxTokens   = 500
)

type retryOptions struct {
	delay  time.Duration
	logger *zap.Logger
}

type RetryOption func(*retryOptions)

// WithDelay sets a fixed pause between attempts. Attempts follow each other
// immediately by default.
func WithDelay(d time.Duration) RetryOption {
	return func(o *retryOptions) { o.delay = d }
}

func WithLogger(logger *zap.Logger) RetryOption {
	return func(o *retryOptions) { o.logger = logger }
}

// Retry calls the completer until it returns a result without an error or the
// attempts are used up. The last failing result is returned in the latter case.
func Retry(ctx context.Context, completer Completer, req Request, attempts int, opts ...RetryOption) CompletionResult {
	options := retryOptions{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&options)
	}
	if options.logger == nil {
		options.logger = zap.NewNop()
	}

	if attempts < 1 {
		attempts = 1
	}

	var result CompletionResult
	for attempt := 1; attempt <= attempts; attempt++ {
		result = completer.Complete(ctx, req)
		if !result.Failed() {
			return result
		}

		options.logger.Warn("completion attempt failed",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", attempts),
			zap.String("model", req.Model),
			zap.String("error", result.Error),
		)

		if attempt == attempts {
			break
		}

		if err := utils.WaitFor(ctx, options.delay); err != nil {
			options.logger.Debug("retry interrupted", zap.Error(err))
			break
		}
		options.logger.Debug("retrying completion", zap.Int("next_attempt", attempt+1))
	}

	return result
}

// SafeChat sends the prompt as a single user message and retries failed calls.
func SafeChat(ctx context.Context, completer Completer, model, prompt string, attempts int, opts ...RetryOption) CompletionResult {
	req := Request{
		Model:       model,
		Prompt:      prompt,
		Temperature: defaultChatTemperature,
		MaxTokens:   defaultChatMaxTokens,
	}
	return Retry(ctx, completer, req, attempts, opts...)
}
