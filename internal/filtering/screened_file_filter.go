package filtering

import (
	"context"
	"fmt"

	"github.com/spigell/resume-screener/internal/resumes"
)

type screenedFileFilter struct {
	path string
}

// NewScreenedFile creates a filter that removes resumes listed in the screened file.
func NewScreenedFile(path string) Filter {
	return &screenedFileFilter{
		path: path,
	}
}

func (f *screenedFileFilter) Name() string { return "screened_file" }

func (f *screenedFileFilter) Disable(string) {}

func (f *screenedFileFilter) IsEnabled() bool { return true }

func (f *screenedFileFilter) Validate() error { return nil }

func (f *screenedFileFilter) Apply(_ context.Context, r *resumes.Resumes) (*resumes.Resumes, Step, error) {
	initial := r.Len()
	if f.path == "" {
		return r, Step{Initial: initial, Dropped: 0, Left: r.Len()}, nil
	}

	screened, err := resumes.LoadScreened(f.path)
	if err != nil {
		return r, Step{}, fmt.Errorf("getting screened resumes from file: %w", err)
	}

	removed := r.Exclude(screened.IDs())

	return r, Step{Initial: initial, Dropped: len(removed), Left: r.Len()}, nil
}

func (f *screenedFileFilter) Status() Status {
	details := map[string]string{}
	if f.path != "" {
		details["path"] = f.path
	}
	return Status{Name: f.Name(), Enabled: true, Details: details}
}
