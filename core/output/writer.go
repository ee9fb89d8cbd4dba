// Package output builds and writes batch export files.
package output

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gaurav-prasanna/reviewpipe/core"
)

// Writer writes export documents to disk.
type Writer struct {
	OutputDir string
}

// New creates a Writer targeting the given directory, defaulting to the
// current working directory.
func New(outputDir string) (*Writer, error) {
	if outputDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting working directory: %w", err)
		}
		outputDir = wd
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	return &Writer{OutputDir: outputDir}, nil
}

// WriteExport marshals the document and writes it under the output dir.
func (w *Writer) WriteExport(doc *core.ExportDocument, filename string) (string, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling export: %w", err)
	}
	path := filepath.Join(w.OutputDir, filename)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("writing file %s: %w", path, err)
	}
	return path, nil
}

// BuildExport trial-parses every page and assembles the export document
// with per-source counters. Pages that fail to parse are still included,
// marked so downstream consumers can see what to expect.
func BuildExport(pages []core.RawPage, info core.SourceInfo, parser core.Parser) *core.ExportDocument {
	doc := &core.ExportDocument{
		ExportInfo: core.ExportInfo{SourceInfo: info},
		Pages:      make([]core.ExportPage, 0, len(pages)),
	}

	for _, page := range pages {
		if page.IsFollowUp {
			doc.ExportInfo.FollowupVisits++
		} else {
			doc.ExportInfo.MainReviews++
		}

		entry := core.ExportPage{RawPage: page}
		if parsed, err := parser.Parse(page); err == nil {
			entry.ParseStatus = "success"
			entry.DishCount = len(parsed.Dishes)
			doc.ExportInfo.ParseablePages++
		} else {
			entry.ParseStatus = "failed"
			doc.ExportInfo.UnparseablePages++
		}
		doc.Pages = append(doc.Pages, entry)
	}

	return doc
}
