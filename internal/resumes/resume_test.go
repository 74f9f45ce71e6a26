package resumes

import (
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

const sampleCSV = `ID,Resume_str,Category
1,"Senior Go engineer
Kubernetes, Terraform",INFORMATION-TECHNOLOGY
2,Accountant with SAP experience,FINANCE
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

func TestLoadByID(t *testing.T) {
	path := writeFile(t, "resumes.csv", sampleCSV)

	resume, err := LoadByID(path, "1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := &Resume{
		ID:       "1",
		Text:     "Senior Go engineer\nKubernetes, Terraform",
		Category: "INFORMATION-TECHNOLOGY",
	}
	if diff := cmp.Diff(want, resume); diff != "" {
		t.Fatalf("resume mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadByIDNotFound(t *testing.T) {
	path := writeFile(t, "resumes.csv", sampleCSV)

	_, err := LoadByID(path, "3")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLoadByIDMissingFile(t *testing.T) {
	_, err := LoadByID(filepath.Join(t.TempDir(), "absent.csv"), "1")
	if err == nil || errors.Is(err, ErrNotFound) {
		t.Fatalf("expected file error, got %v", err)
	}
}

func TestLoadMissingRequiredColumn(t *testing.T) {
	path := writeFile(t, "resumes.csv", "ID,Category\n1,FINANCE\n")

	if _, err := LoadAll(path, 0); err == nil {
		t.Fatalf("expected missing column error")
	}
}

func TestLoadAllMalformedRecord(t *testing.T) {
	path := writeFile(t, "resumes.csv", sampleCSV+"3,Chef \"bare quote,CHEF\n")

	_, err := LoadAll(path, 0)
	if !errors.Is(err, csv.ErrBareQuote) {
		t.Fatalf("expected bare quote error, got %v", err)
	}
	if !strings.Contains(err.Error(), "reading resumes record 3:") {
		t.Fatalf("error does not name the record: %v", err)
	}
}

func TestLoadAll(t *testing.T) {
	path := writeFile(t, "resumes.csv", sampleCSV)

	t.Run("all", func(t *testing.T) {
		all, err := LoadAll(path, 0)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if diff := cmp.Diff([]string{"1", "2"}, all.IDs()); diff != "" {
			t.Fatalf("ids mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("limited", func(t *testing.T) {
		limited, err := LoadAll(path, 1)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if diff := cmp.Diff([]string{"1"}, limited.IDs()); diff != "" {
			t.Fatalf("ids mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestLoadIndexWithHTMLColumn(t *testing.T) {
	path := writeFile(t, "resumes.csv", "ID,Resume_str,Resume_html\n10,Nurse,<p>Nurse</p>\n11,Chef,<p>Chef</p>\n")

	index, err := LoadIndex(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(index) != 2 {
		t.Fatalf("expected 2 resumes, got %d", len(index))
	}
	if index["11"].HTML != "<p>Chef</p>" || index["11"].Category != "" {
		t.Fatalf("unexpected resume: %+v", index["11"])
	}
}

func TestLoadJobRequirements(t *testing.T) {
	path := writeFile(t, "job.md", "# Backend engineer\n- Go\n")

	text, err := LoadJobRequirements(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "# Backend engineer\n- Go\n" {
		t.Fatalf("unexpected text: %q", text)
	}

	if _, err := LoadJobRequirements(filepath.Join(t.TempDir(), "absent.md")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestResumesDropKeepsOrder(t *testing.T) {
	set := &Resumes{Items: []*Resume{{ID: "1"}, {ID: "2"}, {ID: "3"}, {ID: "4"}}}

	removed := set.Exclude([]string{"3", "1", "99"})

	if diff := cmp.Diff([]string{"1", "3"}, removed); diff != "" {
		t.Fatalf("removed mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"2", "4"}, set.IDs()); diff != "" {
		t.Fatalf("left mismatch (-want +got):\n%s", diff)
	}
	if set.FindByID("2") == nil || set.FindByID("3") != nil {
		t.Fatalf("unexpected lookup results")
	}
}

func TestScreenedRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "screened.json")

	empty, err := LoadScreened(path)
	if err != nil {
		t.Fatalf("missing file must yield empty list, got %v", err)
	}
	if len(empty.Items) != 0 {
		t.Fatalf("expected empty list")
	}

	at := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	empty.Append(&Screened{Items: []*ScreenedResume{
		{ID: "1", Category: "FINANCE", FitScore: 72, Recommendation: "GOOD_FIT", ScreenedAt: at},
	}})
	if err := empty.ToFile(path); err != nil {
		t.Fatalf("writing screened file: %v", err)
	}

	loaded, err := LoadScreened(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff(empty, loaded); diff != "" {
		t.Fatalf("screened mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"1"}, loaded.IDs()); diff != "" {
		t.Fatalf("ids mismatch (-want +got):\n%s", diff)
	}
}
