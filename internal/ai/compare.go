package ai

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

// Comparison is the answer of one model to a shared prompt.
type Comparison struct {
	Model    string           `json:"model"`
	Result   CompletionResult `json:"result"`
	Duration time.Duration    `json:"duration"`
}

// Compare sends the prompt to every model with SafeChat, running at most
// concurrency calls at once. Results keep the order of models.
func Compare(ctx context.Context, completer Completer, models []string, prompt string, attempts, concurrency int, opts ...RetryOption) []Comparison {
	if concurrency < 1 {
		concurrency = 1
	}

	out := make([]Comparison, len(models))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, model := range models {
		g.Go(func() error {
			started := time.Now()
			result := SafeChat(gctx, completer, model, prompt, attempts, opts...)
			out[i] = Comparison{Model: model, Result: result, Duration: time.Since(started)}
			return nil
		})
	}

	// Failures are carried in the results.
	_ = g.Wait()

	return out
}

// Fastest returns the quickest successful comparison, or nil when every model failed.
func Fastest(comparisons []Comparison) *Comparison {
	var best *Comparison
	for i := range comparisons {
		c := &comparisons[i]
		if c.Result.Failed() {
			continue
		}
		if best == nil || c.Duration < best.Duration {
			best = c
		}
	}
	return best
}
