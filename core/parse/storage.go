package parse

import (
	"regexp"

	"github.com/gaurav-prasanna/reviewpipe/core"
	"github.com/gaurav-prasanna/reviewpipe/core/normalize"
)

var storageProbe = regexp.MustCompile(`<ac:|<ri:|<table`)

// StorageParser parses pages in the wiki's native storage markup by
// normalizing to the intermediate shape first, then reusing the markdown
// parser. One extractor implementation serves both formats.
type StorageParser struct {
	normalizer *normalize.StorageNormalizer
	markdown   *MarkdownParser
}

// NewStorage creates a StorageParser.
func NewStorage() *StorageParser {
	return &StorageParser{
		normalizer: normalize.New(),
		markdown:   NewMarkdown(),
	}
}

// CanParse recognizes storage markup by namespaced pseudo-tags or raw
// table tags.
func (p *StorageParser) CanParse(body string) bool {
	return storageProbe.MatchString(body)
}

// Parse normalizes the storage body and hands off to the markdown parser.
func (p *StorageParser) Parse(page core.RawPage) (*core.ParsedReviewData, error) {
	page.Body = p.normalizer.Normalize(page.Body)
	return p.markdown.Parse(page)
}
