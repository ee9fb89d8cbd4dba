package source

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gaurav-prasanna/reviewpipe/core"
)

// FileSource reads a previously captured batch export file. Bodies in an
// export are already in the intermediate text shape, so pages are tagged
// as markdown format.
type FileSource struct {
	path string
	doc  *core.ExportDocument
}

// NewFile creates a FileSource for the given export file path.
func NewFile(path string) *FileSource {
	return &FileSource{path: path}
}

// Fetch loads and decodes the export file. A malformed file is fatal:
// there is no partial batch load.
func (s *FileSource) Fetch(_ context.Context) ([]core.RawPage, error) {
	doc, err := s.load()
	if err != nil {
		return nil, err
	}

	pages := make([]core.RawPage, 0, len(doc.Pages))
	for _, p := range doc.Pages {
		page := p.RawPage
		page.Format = core.FormatMarkdown
		pages = append(pages, page)
	}
	return pages, nil
}

// Describe returns the export's own metadata when available.
func (s *FileSource) Describe() core.SourceInfo {
	doc, err := s.load()
	if err != nil || doc.ExportInfo.Source == "" {
		return core.SourceInfo{Source: "export file: " + filepath.Base(s.path)}
	}
	return doc.ExportInfo.SourceInfo
}

func (s *FileSource) load() (*core.ExportDocument, error) {
	if s.doc != nil {
		return s.doc, nil
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("reading export file: %w", err)
	}
	var doc core.ExportDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("malformed export file %s: %w", s.path, err)
	}
	s.doc = &doc
	return s.doc, nil
}
