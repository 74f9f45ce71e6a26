package filtering

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/resume-screener/internal/resumes"
	"github.com/spigell/resume-screener/internal/screening"
)

// ResumeScreener screens a single resume against job requirements.
type ResumeScreener interface {
	ScreenResume(ctx context.Context, resume *resumes.Resume, jobReq string) *screening.Result
}

type aiFitFilter struct {
	enabled bool
	reason  string
	config  *AIFitFilterConfig
	deps    *AIFitFilterDeps
	results *screening.Results
}

type AIFitFilterDeps struct {
	Logger   *zap.Logger
	Screener ResumeScreener
	JobReq   string
}

type AIFitFilterConfig struct {
	Enabled         bool
	Model           string
	MinimumFitScore float64
	MaxRetries      int
}

// NewAIFit creates the screening step. Resumes scoring below the minimum fit
// score are dropped; resumes whose screening failed are kept.
func NewAIFit(cfg *AIFitFilterConfig, deps *AIFitFilterDeps) Filter {
	return &aiFitFilter{
		enabled: cfg.Enabled,
		deps:    deps,
		config:  cfg,
		results: &screening.Results{},
	}
}

func (f *aiFitFilter) Name() string { return "ai_fit" }

func (f *aiFitFilter) Disable(reason string) {
	f.enabled = false
	f.reason = reason
}

func (f *aiFitFilter) IsEnabled() bool { return f.enabled }

func (f *aiFitFilter) Validate() error {
	if f.deps == nil || f.deps.Screener == nil {
		return fmt.Errorf("deps are not initialized: filter is not usable")
	}
	if f.deps.Logger == nil {
		return fmt.Errorf("logger is required")
	}
	if strings.TrimSpace(f.deps.JobReq) == "" {
		return fmt.Errorf("job requirements are required when ai filter is enabled")
	}
	if f.config.MinimumFitScore < 0 || f.config.MinimumFitScore > 100 {
		return fmt.Errorf("minimum fit score must be within 0-100, got %g", f.config.MinimumFitScore)
	}
	return nil
}

func (f *aiFitFilter) Apply(ctx context.Context, r *resumes.Resumes) (*resumes.Resumes, Step, error) {
	initial := r.Len()
	approved := make([]*resumes.Resume, 0, initial)

	for _, resume := range r.Items {
		if err := ctx.Err(); err != nil {
			return r, Step{}, err
		}

		result := f.deps.Screener.ScreenResume(ctx, resume, f.deps.JobReq)
		f.results.Items = append(f.results.Items, result)

		if result.Failed() {
			f.deps.Logger.Warn("screening failed. Resume is kept for manual review",
				zap.String("resume_id", resume.ID),
				zap.String("error", result.Error),
			)
			approved = append(approved, resume)
			continue
		}

		if result.Match == nil {
			f.deps.Logger.Warn("screening returned no match. Resume is kept for manual review",
				zap.String("resume_id", resume.ID),
			)
			approved = append(approved, resume)
			continue
		}

		if result.Match.FitScore < f.config.MinimumFitScore {
			f.deps.Logger.Info("resume rejected by AI",
				zap.String("resume_id", resume.ID),
				zap.Float64("ai_score", result.Match.FitScore),
				zap.String("recommendation", string(result.Match.Recommendation)),
			)
			continue
		}

		f.deps.Logger.Info("resume approved by AI",
			zap.String("resume_id", resume.ID),
			zap.Float64("ai_score", result.Match.FitScore),
		)
		approved = append(approved, resume)
	}

	r.Items = approved

	f.deps.Logger.Info("AI screening completed",
		zap.Int("initial_resumes", initial),
		zap.Int("approved_resumes", len(approved)),
		zap.Int("total_tokens", f.results.Usage().TotalTokens),
	)

	left := r.Len()
	return r, Step{Initial: initial, Dropped: initial - left, Left: left}, nil
}

func (f *aiFitFilter) Results() *screening.Results {
	return f.results
}

func (f *aiFitFilter) Status() Status {
	details := map[string]string{
		"minimum_fit_score": fmt.Sprintf("%.2f", f.config.MinimumFitScore),
		"max_retries":       fmt.Sprintf("%d", f.config.MaxRetries),
	}
	if f.config.Model != "" {
		details["model"] = f.config.Model
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: details}
}
