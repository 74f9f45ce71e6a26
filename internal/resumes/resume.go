package resumes

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
)

const (
	ColumnID       = "ID"
	ColumnText     = "Resume_str"
	ColumnCategory = "Category"
	ColumnHTML     = "Resume_html"
)

var ErrNotFound = errors.New("resume not found")

type Resume struct {
	ID       string `json:"id"`
	Text     string `json:"resume_str"`
	Category string `json:"category,omitempty"`
	HTML     string `json:"resume_html,omitempty"`
}

type Resumes struct {
	Items []*Resume
}

// LoadByID scans the CSV file for the resume with the given ID.
// ErrNotFound is returned when no row matches.
func LoadByID(path, id string) (*Resume, error) {
	var found *Resume
	err := scan(path, func(r *Resume) bool {
		if r.ID == id {
			found = r
			return false
		}
		return true
	})
	if err != nil {
		return nil, err
	}

	if found == nil {
		return nil, fmt.Errorf("resume %s: %w", id, ErrNotFound)
	}

	return found, nil
}

// LoadAll reads resumes in file order. A positive limit stops reading after
// that many rows.
func LoadAll(path string, limit int) (*Resumes, error) {
	resumes := &Resumes{}
	err := scan(path, func(r *Resume) bool {
		resumes.Items = append(resumes.Items, r)
		return limit <= 0 || len(resumes.Items) < limit
	})
	if err != nil {
		return nil, err
	}

	return resumes, nil
}

// LoadIndex reads every resume into a map keyed by ID. Later rows win on
// duplicate IDs.
func LoadIndex(path string) (map[string]*Resume, error) {
	index := make(map[string]*Resume)
	err := scan(path, func(r *Resume) bool {
		index[r.ID] = r
		return true
	})
	if err != nil {
		return nil, err
	}

	return index, nil
}

// LoadJobRequirements returns the job requirements text stored in a plain text
// or markdown file.
func LoadJobRequirements(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading job requirements: %w", err)
	}
	return string(data), nil
}

// scan calls fn for every row until fn returns false.
func scan(path string, fn func(*Resume) bool) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening resumes file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("reading resumes header: %w", err)
	}

	columns, err := indexColumns(header)
	if err != nil {
		return err
	}

	// Quoted fields may span lines, so rows are counted as records.
	for row := 1; ; row++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading resumes record %d: %w", row, err)
		}

		resume := &Resume{
			ID:       field(record, columns, ColumnID),
			Text:     field(record, columns, ColumnText),
			Category: field(record, columns, ColumnCategory),
			HTML:     field(record, columns, ColumnHTML),
		}

		if !fn(resume) {
			return nil
		}
	}
}

func indexColumns(header []string) (map[string]int, error) {
	columns := make(map[string]int, len(header))
	for idx, name := range header {
		columns[name] = idx
	}

	for _, required := range []string{ColumnID, ColumnText} {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("resumes file is missing required column %q", required)
		}
	}

	return columns, nil
}

func field(record []string, columns map[string]int, name string) string {
	idx, ok := columns[name]
	if !ok || idx >= len(record) {
		return ""
	}
	return record[idx]
}

func (r *Resumes) Len() int {
	return len(r.Items)
}

func (r *Resumes) IDs() []string {
	ids := make([]string, 0, len(r.Items))
	for _, resume := range r.Items {
		ids = append(ids, resume.ID)
	}
	return ids
}

func (r *Resumes) FindByID(id string) *Resume {
	for _, resume := range r.Items {
		if resume.ID == id {
			return resume
		}
	}
	return nil
}

// Exclude removes resumes with the given IDs and returns the removed IDs.
func (r *Resumes) Exclude(ids []string) []string {
	return r.Drop(func(resume *Resume) bool {
		return slices.Contains(ids, resume.ID)
	})
}

// Drop removes every resume matching the predicate, keeping the order of the
// rest, and returns the removed IDs.
func (r *Resumes) Drop(match func(*Resume) bool) []string {
	var dropped []string
	kept := r.Items[:0]
	for _, resume := range r.Items {
		if match(resume) {
			dropped = append(dropped, resume.ID)
			continue
		}
		kept = append(kept, resume)
	}
	r.Items = kept
	return dropped
}

// Categories returns resume count per category.
func (r *Resumes) Categories() map[string]int {
	report := make(map[string]int)
	for _, resume := range r.Items {
		report[resume.Category]++
	}
	return report
}
