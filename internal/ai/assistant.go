package ai

import (
	"context"
	"strings"
)

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Request describes a single chat completion call.
// When Messages is empty, Prompt is sent as the only user message.
type Request struct {
	Model       string
	Messages    []Message
	Prompt      string
	Temperature float64
	MaxTokens   int
	// JSONMode asks the provider for machine-parseable output and makes the
	// completer decode the returned text into CompletionResult.Parsed.
	JSONMode bool
}

// Conversation returns the messages to send for the request.
func (r Request) Conversation() []Message {
	if len(r.Messages) > 0 {
		return r.Messages
	}
	return []Message{{Role: RoleUser, Content: r.Prompt}}
}

type Usage struct {
	PromptTokens     int `json:"prompt_tokens" mapstructure:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens" mapstructure:"completion_tokens"`
	TotalTokens      int `json:"total_tokens" mapstructure:"total_tokens"`
}

func (u Usage) Add(other Usage) Usage {
	return Usage{
		PromptTokens:     u.PromptTokens + other.PromptTokens,
		CompletionTokens: u.CompletionTokens + other.CompletionTokens,
		TotalTokens:      u.TotalTokens + other.TotalTokens,
	}
}

func (u Usage) IsZero() bool {
	return u == Usage{}
}

// CompletionResult is the outcome of one completion call.
// A result either carries a response (Error is empty) or an error message with
// every data field left empty. Use Failure to build the latter.
type CompletionResult struct {
	Model   string `json:"model"`
	Content string `json:"content"`
	Parsed  any    `json:"parsed_content,omitempty"`
	Usage   Usage  `json:"usage"`
	Error   string `json:"error,omitempty"`
}

// Failure returns a failed result for the model. An empty message is replaced
// with a generic one so the result still reads as failed.
func Failure(model, msg string) CompletionResult {
	msg = strings.TrimSpace(msg)
	if msg == "" {
		msg = "unknown error"
	}
	return CompletionResult{Model: model, Error: msg}
}

func (r CompletionResult) Failed() bool {
	return r.Error != ""
}

// Completer performs one completion call. Implementations never return a Go
// error: every failure is reported through CompletionResult.Error.
type Completer interface {
	Complete(ctx context.Context, req Request) CompletionResult
}
