package parse

import (
	"regexp"

	"github.com/gaurav-prasanna/reviewpipe/core"
	"github.com/gaurav-prasanna/reviewpipe/core/assemble"
	"github.com/gaurav-prasanna/reviewpipe/core/extract"
)

var (
	pipeRowProbe = regexp.MustCompile(`\|.*\|`)
	headingProbe = regexp.MustCompile(`#\s+`)
)

// MarkdownParser parses pages already in the intermediate text shape
// (batch exports, or normalizer output).
type MarkdownParser struct{}

// NewMarkdown creates a MarkdownParser.
func NewMarkdown() *MarkdownParser {
	return &MarkdownParser{}
}

// CanParse recognizes the intermediate shape by pipe-table rows or
// #-prefixed headings.
func (p *MarkdownParser) CanParse(body string) bool {
	return pipeRowProbe.MatchString(body) || headingProbe.MatchString(body)
}

// Parse runs the field extractor over the page body and assembles the
// record. The only hard failure is a missing visit date.
func (p *MarkdownParser) Parse(page core.RawPage) (*core.ParsedReviewData, error) {
	visit, err := extract.VisitHeader(page.Body)
	if err != nil {
		return nil, err
	}

	restaurantImages := extract.RestaurantImages(page.Body, page.ID)
	dishes := extract.Dishes(page.Body, page.ID)

	return assemble.Review(page.ID, page.Title, visit, dishes, restaurantImages), nil
}
