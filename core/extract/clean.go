package extract

import "regexp"

// Shared cleanup patterns for free-text candidates. The source pages carry
// leftover mini pipe-tables, stray HTML fragments, and zero-width joiners
// that must not survive into notes.
var (
	imageMarkerRe = regexp.MustCompile(`!\[IMAGE:[^\]]+\]`)
	mdImageRe     = regexp.MustCompile(`!\[.*?\]\(.*?\)`)
	htmlTagRe     = regexp.MustCompile(`<[^>]+>`)
	zeroWidthRe   = regexp.MustCompile(`\x{200C}`)

	// A run of pipe rows, optionally preceded by a short orphaned label
	// ("Ra", "Dish") left behind when a table was split mid-conversion.
	tableRunRe = regexp.MustCompile(`(?:[A-Z][a-z]{0,3}\s*)?\n(?:\|[^\n]*\|\s*\n)+`)
	// Separator-row fragments in either orientation.
	dashFragRe = regexp.MustCompile(`.*?---.*?\|.*?`)
	sepTailRe  = regexp.MustCompile(`\|\s*---.*`)

	blankRunsRe = regexp.MustCompile(`\n\s*\n\s*\n+`)
)

// truncate caps s at max runes without splitting a multibyte character.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
