package screening

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/spigell/resume-screener/internal/ai"
	"github.com/spigell/resume-screener/internal/logger"
	"github.com/spigell/resume-screener/internal/prompt"
	"github.com/spigell/resume-screener/internal/utils"
	"go.uber.org/zap"
)

const (
	DefaultModel                 = "anthropic/claude-3.5-sonnet"
	DefaultStructuredTemperature = 0.2

	defaultStructuredMaxTokens = 2000
	defaultMaxLogLength        = 200

	extractTemperature    = 0.1
	extractMaxTokens      = 800
	extractResumeRunes    = 3000
	matchTemperature      = 0.3
	matchMaxTokens        = 1000
	matchRequirementRunes = 2000

	extractInstruction = "Extract the technical skills, programming languages, frameworks, and technologies from this resume."
	matchInstruction   = "You are evaluating a candidate's fit for a job based on their technical skills.\n" +
		"Analyze the match between the candidate's skills and job requirements."
)

// StructuredRequest describes a prompt built from an instruction, context
// fields and an output schema.
type StructuredRequest struct {
	Instruction string
	Context     prompt.ContextMap
	Schema      any

	// Model overrides the screener model when set.
	Model       string
	Temperature float64
	// MaxTokens defaults to 2000.
	MaxTokens int
	// MaxFieldLength defaults to prompt.DefaultMaxFieldLength.
	MaxFieldLength int
}

type Screener struct {
	completer ai.Completer
	model     string
	attempts  int
	logger    *zap.Logger
	maxLogLen int
}

// NewScreener creates a Screener. Each call is attempted up to attempts times;
// values below one mean a single attempt.
func NewScreener(completer ai.Completer, model string, attempts, maxLogLength int, log *zap.Logger) *Screener {
	if model = strings.TrimSpace(model); model == "" {
		model = DefaultModel
	}
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	return &Screener{
		completer: completer,
		model:     model,
		attempts:  attempts,
		logger:    logger.WithFields(log, zap.String(logger.FieldModel, model)),
		maxLogLen: maxLogLength,
	}
}

func (s *Screener) Model() string {
	return s.model
}

// Structured calls the model in JSON mode and requires the response to decode.
// An undecodable response is turned into a failed result.
func (s *Screener) Structured(ctx context.Context, sr StructuredRequest) ai.CompletionResult {
	result := s.call(ctx, sr)
	if result.Failed() || result.Parsed != nil {
		return result
	}

	parsed, err := ai.DecodeStructured(result.Content)
	if err == nil && parsed != nil {
		result.Parsed = parsed
		return result
	}
	if err == nil {
		err = errors.New("structured output is null")
	}

	return ai.Failure(result.Model, fmt.Sprintf("parse structured output: %v", err))
}

// ExtractSkills asks the model for the technologies mentioned in the resume.
// Parsed is nil when the answer was not valid JSON.
func (s *Screener) ExtractSkills(ctx context.Context, resumeText string) ai.CompletionResult {
	return s.call(ctx, StructuredRequest{
		Instruction:    extractInstruction,
		Context:        prompt.ContextMap{}.With("resume", resumeText),
		Schema:         skillsSchema,
		Temperature:    extractTemperature,
		MaxTokens:      extractMaxTokens,
		MaxFieldLength: extractResumeRunes,
	})
}

// MatchToJob scores extracted skills against the job requirements.
// Parsed is nil when the answer was not valid JSON.
func (s *Screener) MatchToJob(ctx context.Context, skills any, jobReq string) ai.CompletionResult {
	return s.call(ctx, StructuredRequest{
		Instruction: matchInstruction,
		Context: prompt.ContextMap{}.
			With("candidate skills", skills).
			With("job requisition", jobReq),
		Schema:         matchSchema,
		Temperature:    matchTemperature,
		MaxTokens:      matchMaxTokens,
		MaxFieldLength: matchRequirementRunes,
	})
}

func (s *Screener) call(ctx context.Context, sr StructuredRequest) ai.CompletionResult {
	model := strings.TrimSpace(sr.Model)
	if model == "" {
		model = s.model
	}

	text, err := prompt.Builder{MaxFieldLength: sr.MaxFieldLength}.Build(sr.Instruction, sr.Context, sr.Schema)
	if err != nil {
		return ai.Failure(model, fmt.Sprintf("build prompt: %v", err))
	}

	maxTokens := sr.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultStructuredMaxTokens
	}

	s.logger.Debug("structured request",
		zap.Int("prompt_length", utf8.RuneCountInString(text)),
		zap.String("prompt_preview", utils.TruncateForLog(text, s.maxLogLen)),
	)

	result := ai.Retry(ctx, s.completer, ai.Request{
		Model:       model,
		Prompt:      text,
		Temperature: sr.Temperature,
		MaxTokens:   maxTokens,
		JSONMode:    true,
	}, s.attempts, ai.WithLogger(s.logger))

	if result.Failed() {
		return result
	}

	s.logger.Debug("structured response",
		zap.Int("response_length", utf8.RuneCountInString(result.Content)),
		zap.String("response_preview", utils.TruncateForLog(result.Content, s.maxLogLen)),
		zap.Bool("parsed", result.Parsed != nil),
		zap.Int("total_tokens", result.Usage.TotalTokens),
	)

	return result
}
