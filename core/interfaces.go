// Package core defines the pipeline types and interfaces for ReviewPipe.
// Each stage of the pipeline is a clean, testable interface.
package core

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Format identifies the markup format of a page body.
type Format string

const (
	// FormatStorage is the wiki's native XML/HTML-like storage markup.
	FormatStorage Format = "storage"
	// FormatMarkdown is the intermediate pipe-table-and-heading text shape.
	FormatMarkdown Format = "markdown"
)

// RawPage is one page as delivered by a Source, before any parsing.
type RawPage struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Body        string `json:"body"`
	Format      Format `json:"format"`
	ParentID    string `json:"parent_id,omitempty"`
	ParentTitle string `json:"parent_title,omitempty"`
	IsFollowUp  bool   `json:"is_followup,omitempty"`
}

// TimeOfDay is a wall-clock time with minute precision (24-hour).
type TimeOfDay struct {
	Hour   int
	Minute int
}

// Noon is the default entry time when a page carries no "Time of Entry" row.
var Noon = TimeOfDay{Hour: 12}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// ParsedDish is one dish section extracted from a review page.
// Rating is mandatory; a section without one never becomes a ParsedDish.
type ParsedDish struct {
	Name   string
	Rating int // 0-100
	Cost   *decimal.Decimal
	Notes  string
	Images []string // relative attachment paths, in page order
}

// ParsedReviewData is the assembled record for one review page.
type ParsedReviewData struct {
	RestaurantName   string
	VisitDate        time.Time // calendar date; time component is zero
	EntryTime        TimeOfDay
	PartySize        int // >= 1
	Rating           int // 0-100, overall
	Dishes           []ParsedDish
	Address          string
	Location         string
	Notes            string
	Website          string
	SourcePageID     string
	RestaurantImages []string
}

// SourceInfo describes where a batch of pages came from.
type SourceInfo struct {
	Source     string `json:"source"`
	TotalPages int    `json:"total_pages"`
	ExportDate string `json:"export_date"` // YYYY-MM-DD
}

// Source yields review pages from somewhere (remote API, export file).
// Implementations must be interchangeable without touching the parsing core.
type Source interface {
	Fetch(ctx context.Context) ([]RawPage, error)
	Describe() SourceInfo
}

// Parser turns one page into a normalized record.
// A failed parse is a reportable condition, not a failure of the run:
// the caller logs it and moves to the next page.
type Parser interface {
	Parse(page RawPage) (*ParsedReviewData, error)
	// CanParse probes whether a body looks like this parser's format.
	CanParse(body string) bool
}

// ImageDownloader resolves image markers against a page's binary
// attachments and places them on disk.
type ImageDownloader interface {
	DownloadPageImages(ctx context.Context, pageID string) (map[string]string, error)
}

// ReviewSink receives assembled records. The persistence layer implements
// this; the pipeline itself never touches a database.
type ReviewSink interface {
	Store(ctx context.Context, page RawPage, review *ParsedReviewData) error
}

// Stats accumulates per-run import counters. Owned by the driver,
// never shared between runs.
type Stats struct {
	PagesSeen    int
	Parsed       int
	Unparseable  int
	Dishes       int
	ImagesStored int
	SinkErrors   int
}
