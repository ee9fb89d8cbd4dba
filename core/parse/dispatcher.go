// Package parse selects and runs the parser strategy for a page: storage
// markup goes through the normalizer, intermediate text is parsed directly.
package parse

import (
	"errors"

	"github.com/gaurav-prasanna/reviewpipe/core"
)

// ErrUnknownFormat means a body matched neither supported format. The
// caller logs the page and continues; it is never fatal to a run.
var ErrUnknownFormat = errors.New("content matches no supported format")

// Dispatcher routes pages to the right parser strategy.
type Dispatcher struct {
	storage  *StorageParser
	markdown *MarkdownParser
}

// NewDispatcher creates a Dispatcher with both strategies.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		storage:  NewStorage(),
		markdown: NewMarkdown(),
	}
}

// For picks a parser from the page's format tag, falling back to content
// detection when the tag is absent.
func (d *Dispatcher) For(page core.RawPage) (core.Parser, error) {
	switch page.Format {
	case core.FormatStorage:
		return d.storage, nil
	case core.FormatMarkdown:
		return d.markdown, nil
	}
	return d.Detect(page.Body)
}

// Detect probes the body against each strategy, first match wins:
// storage markup is the more specific signal, so it is checked first.
func (d *Dispatcher) Detect(body string) (core.Parser, error) {
	if d.storage.CanParse(body) {
		return d.storage, nil
	}
	if d.markdown.CanParse(body) {
		return d.markdown, nil
	}
	return nil, ErrUnknownFormat
}

// Parse routes and parses in one step.
func (d *Dispatcher) Parse(page core.RawPage) (*core.ParsedReviewData, error) {
	parser, err := d.For(page)
	if err != nil {
		return nil, err
	}
	return parser.Parse(page)
}
