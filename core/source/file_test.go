package source_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/gaurav-prasanna/reviewpipe/core"
	"github.com/gaurav-prasanna/reviewpipe/core/source"
)

const exportFixture = `{
  "export_info": {
    "source": "Confluence API - parent page 99811341",
    "total_pages": 2,
    "export_date": "2025-01-10",
    "parseable_pages": 2,
    "unparseable_pages": 0,
    "main_reviews": 1,
    "followup_visits": 1
  },
  "pages": [
    {
      "id": "101",
      "title": "Golden Duck",
      "body": "| Date | 11/6/2024 |",
      "format": "storage",
      "parent_id": "55"
    },
    {
      "id": "102",
      "title": "Golden Duck - Second Visit",
      "body": "| Date | 12/1/2024 |",
      "is_followup": true
    }
  ]
}`

func writeExport(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "export.json")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	return path
}

func TestFileSource_Fetch(t *testing.T) {
	src := source.NewFile(writeExport(t, exportFixture))

	pages, err := src.Fetch(context.Background())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(pages) != 2 {
		t.Fatalf("pages = %d", len(pages))
	}

	// Export bodies are intermediate text: the format tag is forced to
	// markdown regardless of what the file says.
	for _, p := range pages {
		if p.Format != core.FormatMarkdown {
			t.Fatalf("page %s format = %q", p.ID, p.Format)
		}
	}
	if pages[0].ID != "101" || pages[0].ParentID != "55" {
		t.Fatalf("page order or fields wrong: %+v", pages[0])
	}
	if !pages[1].IsFollowUp {
		t.Fatalf("follow-up flag lost: %+v", pages[1])
	}
}

func TestFileSource_Describe(t *testing.T) {
	src := source.NewFile(writeExport(t, exportFixture))

	info := src.Describe()
	if info.Source != "Confluence API - parent page 99811341" {
		t.Fatalf("source = %q", info.Source)
	}
	if info.TotalPages != 2 || info.ExportDate != "2025-01-10" {
		t.Fatalf("info = %+v", info)
	}
}

func TestFileSource_MalformedIsFatal(t *testing.T) {
	src := source.NewFile(writeExport(t, `{"pages": [`))

	if _, err := src.Fetch(context.Background()); err == nil {
		t.Fatalf("expected error for malformed export")
	}
}

func TestFileSource_MissingFile(t *testing.T) {
	src := source.NewFile(filepath.Join(t.TempDir(), "nope.json"))
	if _, err := src.Fetch(context.Background()); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
