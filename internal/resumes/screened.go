package resumes

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"
)

// Screened holds resumes that were already screened and should be skipped on
// the next batch run.
type Screened struct {
	Items []*ScreenedResume
}

type ScreenedResume struct {
	ID             string
	Category       string
	FitScore       float64
	Recommendation string
	ScreenedAt     time.Time
}

// LoadScreened reads the screened file. A missing or empty file yields an
// empty list.
func LoadScreened(path string) (*Screened, error) {
	file, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &Screened{}, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return nil, err
	}

	if stat.Size() == 0 {
		return &Screened{}, nil
	}

	var screened Screened
	if err := json.NewDecoder(file).Decode(&screened); err != nil {
		return nil, err
	}
	return &screened, nil
}

func (s *Screened) Append(other *Screened) {
	s.Items = append(s.Items, other.Items...)
}

func (s *Screened) IDs() []string {
	ids := make([]string, 0, len(s.Items))
	for _, item := range s.Items {
		ids = append(ids, item.ID)
	}
	return ids
}

func (s *Screened) ToFile(path string) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}
