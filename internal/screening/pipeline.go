package screening

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spigell/resume-screener/internal/ai"
	"github.com/spigell/resume-screener/internal/logger"
	"github.com/spigell/resume-screener/internal/resumes"
	"go.uber.org/zap"
)

// Result is the outcome of screening one resume against a job. When Error is
// set only ResumeID is filled in.
type Result struct {
	ResumeID    string       `json:"resume_id"`
	Category    string       `json:"category,omitempty"`
	Skills      *SkillSet    `json:"skills,omitempty"`
	Match       *MatchResult `json:"match,omitempty"`
	Usage       ai.Usage     `json:"usage"`
	TotalTokens int          `json:"total_tokens"`
	Error       string       `json:"error,omitempty"`
}

func (r *Result) Failed() bool {
	return r.Error != ""
}

func failed(id, format string, args ...any) *Result {
	return &Result{ResumeID: id, Error: fmt.Sprintf(format, args...)}
}

// ScreenByID loads the resume and the job requirements from disk and screens
// them. An unknown ID is reported in the result; unreadable files are returned
// as errors.
func (s *Screener) ScreenByID(ctx context.Context, csvPath, id, jobReqPath string) (*Result, error) {
	resume, err := resumes.LoadByID(csvPath, id)
	if errors.Is(err, resumes.ErrNotFound) {
		return failed(id, "Resume %s not found", id), nil
	}
	if err != nil {
		return nil, err
	}

	jobReq, err := resumes.LoadJobRequirements(jobReqPath)
	if err != nil {
		return nil, err
	}

	return s.ScreenResume(ctx, resume, jobReq), nil
}

// ScreenResume extracts skills from the resume and matches them to the job.
// It stops at the first step that fails or returns unparseable output.
func (s *Screener) ScreenResume(ctx context.Context, resume *resumes.Resume, jobReq string) *Result {
	log := logger.WithResume(s.logger, resume.ID)

	extracted := s.ExtractSkills(ctx, resume.Text)
	if extracted.Failed() {
		log.Warn("skill extraction failed", zap.String("error", extracted.Error))
		return failed(resume.ID, "Skill extraction failed: %s", extracted.Error)
	}
	if isEmpty(extracted.Parsed) {
		return failed(resume.ID, "Failed to parse skills JSON")
	}

	skills, err := DecodeSkills(extracted.Parsed)
	if err != nil {
		log.Debug("unexpected skills shape", zap.Error(err))
		return failed(resume.ID, "Failed to parse skills JSON")
	}

	log.Debug("skills extracted", zap.Int("skills", skills.Count()))

	matched := s.MatchToJob(ctx, extracted.Parsed, jobReq)
	if matched.Failed() {
		log.Warn("job matching failed", zap.String("error", matched.Error))
		return failed(resume.ID, "Job matching failed: %s", matched.Error)
	}
	if isEmpty(matched.Parsed) {
		return failed(resume.ID, "Failed to parse match JSON")
	}

	match, err := DecodeMatch(matched.Parsed)
	if err != nil {
		log.Debug("unexpected match shape", zap.Error(err))
		return failed(resume.ID, "Failed to parse match JSON")
	}

	usage := extracted.Usage.Add(matched.Usage)

	log.Info("resume screened",
		zap.Float64("fit_score", match.FitScore),
		zap.String("recommendation", string(match.Recommendation)),
		zap.Int("total_tokens", usage.TotalTokens),
	)

	return &Result{
		ResumeID:    resume.ID,
		Category:    resume.Category,
		Skills:      skills,
		Match:       match,
		Usage:       usage,
		TotalTokens: usage.TotalTokens,
	}
}

// isEmpty reports whether decoded output carries nothing to work with:
// null, an empty object, array or string, false or zero.
func isEmpty(parsed any) bool {
	switch v := parsed.(type) {
	case nil:
		return true
	case map[string]any:
		return len(v) == 0
	case []any:
		return len(v) == 0
	case string:
		return v == ""
	case bool:
		return !v
	case float64:
		return v == 0
	default:
		return false
	}
}

// Results collects screening outcomes of a batch run.
type Results struct {
	Items []*Result
}

func (r *Results) Len() int {
	return len(r.Items)
}

func (r *Results) Failed() []*Result {
	var out []*Result
	for _, item := range r.Items {
		if item.Failed() {
			out = append(out, item)
		}
	}
	return out
}

func (r *Results) Usage() ai.Usage {
	var total ai.Usage
	for _, item := range r.Items {
		total = total.Add(item.Usage)
	}
	return total
}

// ReportByRecommendation groups successful results by recommendation.
func (r *Results) ReportByRecommendation() map[string][]map[string]string {
	report := make(map[string][]map[string]string)
	for _, item := range r.Items {
		if item.Failed() || item.Match == nil {
			continue
		}
		key := string(item.Match.Recommendation)
		report[key] = append(report[key], map[string]string{
			"resume_id": item.ResumeID,
			"category":  item.Category,
			"fit_score": fmt.Sprintf("%g", item.Match.FitScore),
			"reasoning": item.Match.Reasoning,
		})
	}
	return report
}

// ToScreened converts successful results into screened file entries.
func (r *Results) ToScreened(at time.Time) *resumes.Screened {
	screened := &resumes.Screened{}
	for _, item := range r.Items {
		if item.Failed() || item.Match == nil {
			continue
		}
		screened.Items = append(screened.Items, &resumes.ScreenedResume{
			ID:             item.ResumeID,
			Category:       item.Category,
			FitScore:       item.Match.FitScore,
			Recommendation: string(item.Match.Recommendation),
			ScreenedAt:     at,
		})
	}
	return screened
}

func (r *Results) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "screening_*.json")
	if err != nil {
		return "", err
	}

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		file.Close()
		return "", err
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", file.Name(), err)
	}
	return file.Name(), nil
}
