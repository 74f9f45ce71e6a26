package filtering

import (
	"context"
	"slices"
	"strings"

	"github.com/spigell/resume-screener/internal/resumes"
)

type categoriesFilter struct {
	categories []string
}

// NewCategories creates a filter that keeps only resumes of the given
// categories. Categories are compared case-insensitively; an empty list keeps
// everything.
func NewCategories(categories []string) Filter {
	normalized := make([]string, 0, len(categories))
	for _, c := range categories {
		if c = strings.ToUpper(strings.TrimSpace(c)); c != "" {
			normalized = append(normalized, c)
		}
	}
	return &categoriesFilter{categories: normalized}
}

func (f *categoriesFilter) Name() string { return "categories" }

func (f *categoriesFilter) Disable(string) {}

func (f *categoriesFilter) IsEnabled() bool { return true }

func (f *categoriesFilter) Validate() error { return nil }

func (f *categoriesFilter) Apply(_ context.Context, r *resumes.Resumes) (*resumes.Resumes, Step, error) {
	initial := r.Len()
	if len(f.categories) == 0 {
		return r, Step{Initial: initial, Dropped: 0, Left: r.Len()}, nil
	}

	dropped := r.Drop(func(resume *resumes.Resume) bool {
		return !slices.Contains(f.categories, strings.ToUpper(resume.Category))
	})

	return r, Step{Initial: initial, Dropped: len(dropped), Left: r.Len()}, nil
}

func (f *categoriesFilter) Status() Status {
	details := map[string]string{}
	if len(f.categories) > 0 {
		details["categories"] = strings.Join(f.categories, ",")
	}
	return Status{Name: f.Name(), Enabled: true, Details: details}
}
