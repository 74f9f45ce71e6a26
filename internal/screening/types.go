package screening

import (
	"errors"
	"fmt"

	"github.com/mitchellh/mapstructure"
)

type Recommendation string

const (
	StrongFit   Recommendation = "STRONG_FIT"
	GoodFit     Recommendation = "GOOD_FIT"
	ModerateFit Recommendation = "MODERATE_FIT"
	WeakFit     Recommendation = "WEAK_FIT"
	PoorFit     Recommendation = "POOR_FIT"
)

func (r Recommendation) Valid() bool {
	switch r {
	case StrongFit, GoodFit, ModerateFit, WeakFit, PoorFit:
		return true
	default:
		return false
	}
}

// SkillSet is the typed view of the extraction output.
type SkillSet struct {
	ProgrammingLanguages []string `json:"programming_languages" mapstructure:"programming_languages"`
	FrameworksLibraries  []string `json:"frameworks_libraries" mapstructure:"frameworks_libraries"`
	Databases            []string `json:"databases" mapstructure:"databases"`
	CloudPlatforms       []string `json:"cloud_platforms" mapstructure:"cloud_platforms"`
	Tools                []string `json:"tools" mapstructure:"tools"`
	OtherTechnologies    []string `json:"other_technologies" mapstructure:"other_technologies"`
}

func (s *SkillSet) Count() int {
	if s == nil {
		return 0
	}
	return len(s.ProgrammingLanguages) + len(s.FrameworksLibraries) + len(s.Databases) +
		len(s.CloudPlatforms) + len(s.Tools) + len(s.OtherTechnologies)
}

// MatchResult is the typed view of the job matching output.
type MatchResult struct {
	FitScore            float64        `json:"fit_score" mapstructure:"fit_score"`
	MatchingSkills      []string       `json:"matching_skills" mapstructure:"matching_skills"`
	MissingSkills       []string       `json:"missing_skills" mapstructure:"missing_skills"`
	AdditionalStrengths []string       `json:"additional_strengths" mapstructure:"additional_strengths"`
	Recommendation      Recommendation `json:"recommendation" mapstructure:"recommendation"`
	Reasoning           string         `json:"reasoning" mapstructure:"reasoning"`
}

// Output shapes rendered into the prompts. Structs keep the key order stable.
var (
	skillsSchema = struct {
		ProgrammingLanguages []string `json:"programming_languages"`
		FrameworksLibraries  []string `json:"frameworks_libraries"`
		Databases            []string `json:"databases"`
		CloudPlatforms       []string `json:"cloud_platforms"`
		Tools                []string `json:"tools"`
		OtherTechnologies    []string `json:"other_technologies"`
	}{
		ProgrammingLanguages: []string{"list of languages"},
		FrameworksLibraries:  []string{"list of frameworks"},
		Databases:            []string{"list of databases"},
		CloudPlatforms:       []string{"list of cloud platforms"},
		Tools:                []string{"list of development tools"},
		OtherTechnologies:    []string{"other relevant tech"},
	}

	matchSchema = struct {
		FitScore            string   `json:"fit_score"`
		MatchingSkills      []string `json:"matching_skills"`
		MissingSkills       []string `json:"missing_skills"`
		AdditionalStrengths []string `json:"additional_strengths"`
		Recommendation      string   `json:"recommendation"`
		Reasoning           string   `json:"reasoning"`
	}{
		FitScore:            "<number 0-100>",
		MatchingSkills:      []string{"list of skills that match requirements"},
		MissingSkills:       []string{"list of required skills the candidate lacks"},
		AdditionalStrengths: []string{"notable skills the candidate has beyond requirements"},
		Recommendation:      "<STRONG_FIT|GOOD_FIT|MODERATE_FIT|WEAK_FIT|POOR_FIT>",
		Reasoning:           "<brief 2-3 sentence explanation>",
	}
)

func DecodeSkills(parsed any) (*SkillSet, error) {
	var skills SkillSet
	if err := decode(parsed, &skills); err != nil {
		return nil, fmt.Errorf("decode skills: %w", err)
	}
	return &skills, nil
}

func DecodeMatch(parsed any) (*MatchResult, error) {
	var match MatchResult
	if err := decode(parsed, &match); err != nil {
		return nil, fmt.Errorf("decode match: %w", err)
	}
	return &match, nil
}

func decode(parsed any, target any) error {
	data, ok := parsed.(map[string]any)
	if !ok || data == nil {
		return errors.New("structured output is not an object")
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}

	return decoder.Decode(data)
}
