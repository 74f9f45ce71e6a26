package ai

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type scriptedCompleter struct {
	results  []CompletionResult
	requests []Request
}

func (s *scriptedCompleter) Complete(_ context.Context, req Request) CompletionResult {
	s.requests = append(s.requests, req)
	if len(s.results) == 0 {
		return Failure(req.Model, "unexpected call")
	}
	res := s.results[0]
	s.results = s.results[1:]
	return res
}

func failTwiceThenSucceed() *scriptedCompleter {
	return &scriptedCompleter{results: []CompletionResult{
		Failure("m", "HTTP 500: first"),
		Failure("m", "HTTP 502: second"),
		{Model: "m", Content: "ok", Usage: Usage{TotalTokens: 3}},
	}}
}

func TestRetryReturnsFirstSuccess(t *testing.T) {
	completer := failTwiceThenSucceed()

	result := Retry(context.Background(), completer, Request{Model: "m", Prompt: "hi"}, 3)
	if result.Failed() {
		t.Fatalf("expected success, got error %q", result.Error)
	}
	if result.Content != "ok" {
		t.Fatalf("unexpected content: %q", result.Content)
	}
	if len(completer.requests) != 3 {
		t.Fatalf("expected 3 calls, got %d", len(completer.requests))
	}
}

func TestRetryReturnsLastFailureWhenExhausted(t *testing.T) {
	completer := failTwiceThenSucceed()

	result := Retry(context.Background(), completer, Request{Model: "m"}, 2)
	if !result.Failed() {
		t.Fatalf("expected failure")
	}
	if result.Error != "HTTP 502: second" {
		t.Fatalf("expected second failure, got %q", result.Error)
	}
	if result.Content != "" || result.Parsed != nil {
		t.Fatalf("failed result must not carry data: %+v", result)
	}
	if len(completer.requests) != 2 {
		t.Fatalf("expected 2 calls, got %d", len(completer.requests))
	}
}

func TestRetryStopsOnImmediateSuccess(t *testing.T) {
	completer := &scriptedCompleter{results: []CompletionResult{{Model: "m", Content: "first"}}}

	result := Retry(context.Background(), completer, Request{Model: "m"}, 5)
	if result.Content != "first" {
		t.Fatalf("unexpected content: %q", result.Content)
	}
	if len(completer.requests) != 1 {
		t.Fatalf("expected a single call, got %d", len(completer.requests))
	}
}

func TestRetryTreatsNonPositiveAttemptsAsOne(t *testing.T) {
	completer := failTwiceThenSucceed()

	result := Retry(context.Background(), completer, Request{Model: "m"}, 0)
	if !result.Failed() {
		t.Fatalf("expected failure")
	}
	if len(completer.requests) != 1 {
		t.Fatalf("expected 1 call, got %d", len(completer.requests))
	}
}

func TestRetryLogsFailedAttempts(t *testing.T) {
	core, observed := observer.New(zapcore.WarnLevel)
	completer := failTwiceThenSucceed()

	Retry(context.Background(), completer, Request{Model: "m"}, 3, WithLogger(zap.New(core)))

	entries := observed.FilterMessage("completion attempt failed").All()
	if len(entries) != 2 {
		t.Fatalf("expected 2 warnings, got %d", len(entries))
	}
	if got := entries[1].ContextMap()["error"]; got != "HTTP 502: second" {
		t.Fatalf("unexpected logged error: %v", got)
	}
}

func TestRetryStopsWhenContextDoneDuringDelay(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	completer := failTwiceThenSucceed()

	result := Retry(ctx, completer, Request{Model: "m"}, 3, WithDelay(time.Hour))
	if !result.Failed() {
		t.Fatalf("expected failure")
	}
	if len(completer.requests) != 1 {
		t.Fatalf("expected retry to stop after the first call, got %d calls", len(completer.requests))
	}
}

func TestSafeChatBuildsSingleUserMessage(t *testing.T) {
	completer := &scriptedCompleter{results: []CompletionResult{{Model: "m", Content: "hello"}}}

	result := SafeChat(context.Background(), completer, "m", "say hi", DefaultChatAttempts)
	if result.Content != "hello" {
		t.Fatalf("unexpected content: %q", result.Content)
	}

	req := completer.requests[0]
	msgs := req.Conversation()
	if len(msgs) != 1 || msgs[0].Role != RoleUser || msgs[0].Content != "say hi" {
		t.Fatalf("unexpected conversation: %+v", msgs)
	}
	if req.Temperature != 0.7 {
		t.Fatalf("unexpected temperature: %v", req.Temperature)
	}
}
