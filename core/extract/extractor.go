// Package extract pulls the typed review fields out of intermediate text.
// Everything here is regex-over-text: the format is narrow enough that
// direct pattern matching beats a real parser, but every pattern tolerates
// optional bold-wrapping and whitespace variance. A pattern that fails to
// match leaves its field at the documented default; the only hard
// requirement is a resolvable visit date.
package extract

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/gaurav-prasanna/reviewpipe/core"
)

// ErrNoVisitDate rejects a page whose header has no resolvable date.
var ErrNoVisitDate = errors.New("no resolvable visit date")

// VisitInfo is the page-level header extracted from the visit-summary table.
type VisitInfo struct {
	Address   string
	Location  string
	Date      time.Time
	EntryTime core.TimeOfDay
	PartySize int
	Website   string
	Notes     string
}

var (
	addressRowRe = regexp.MustCompile(`(?i)\|\s*Address\s*\|\s*([^|]+)\s*\|`)
	dateRowRe    = regexp.MustCompile(`(?i)\|\s*Date\s*\|\s*(?:<custom[^>]*>)?([0-9]{1,2}[/\-][0-9]{1,2}[/\-][0-9]{2,4}|[A-Za-z]+\s+[0-9]{1,2}\s+[0-9]{4}|[0-9]{4}-[0-9]{2}-[0-9]{2})`)
	timeRowRe    = regexp.MustCompile(`(?i)\|\s*Time of Entry\s*\|\s*([0-9]{1,2}:[0-9]{2}\s*(?:AM|PM)?)`)
	partyRowRe   = regexp.MustCompile(`(?i)\|\s*Party\s*\|\s*([^|]+)\s*\|`)
	websiteRowRe = regexp.MustCompile(`(?i)\|\s*Website\s*\|.*?https?://([^\s<|]+)`)
	totalRowRe   = regexp.MustCompile(`(?s)\|\s*\*\*Total\*\*.*?\|\s*\n`)

	// A dish section opens with a top-level bold heading at line start.
	dishHeadingRe = regexp.MustCompile(`(?m)^#\s*\*\*([^*]+)\*\*`)

	imageCaptureRe = regexp.MustCompile(`!\[IMAGE:([^\]]+)\]`)
)

// VisitHeader extracts the visit-summary fields from the whole page text.
// Only the date is mandatory; every other field degrades to its default.
func VisitHeader(body string) (*VisitInfo, error) {
	info := &VisitInfo{
		EntryTime: core.Noon,
		PartySize: 1,
	}

	if m := addressRowRe.FindStringSubmatch(body); m != nil {
		info.Address = strings.TrimSpace(m[1])
		info.Location = info.Address
	}

	m := dateRowRe.FindStringSubmatch(body)
	if m == nil {
		return nil, ErrNoVisitDate
	}
	date, err := ParseDate(m[1])
	if err != nil {
		return nil, ErrNoVisitDate
	}
	info.Date = date

	if m := timeRowRe.FindStringSubmatch(body); m != nil {
		info.EntryTime = ParseTime(m[1])
	}
	if m := partyRowRe.FindStringSubmatch(body); m != nil {
		info.PartySize = ParsePartySize(m[1])
	}
	if m := websiteRowRe.FindStringSubmatch(body); m != nil {
		info.Website = "https://" + m[1]
	}

	info.Notes = visitNotes(body)

	return info, nil
}

// visitNotes finds free text strictly between the "Total" row of the
// visit-summary table and the first dish heading. Short or heading-shaped
// candidates are discarded.
func visitNotes(body string) string {
	total := totalRowRe.FindStringIndex(body)
	if total == nil {
		return ""
	}
	afterTotal := body[total[1]:]

	firstDish := dishHeadingRe.FindStringIndex(afterTotal)
	if firstDish == nil {
		return ""
	}
	candidate := strings.TrimSpace(afterTotal[:firstDish[0]])

	candidate = zeroWidthRe.ReplaceAllString(candidate, "")
	candidate = htmlTagRe.ReplaceAllString(candidate, "")
	candidate = mdImageRe.ReplaceAllString(candidate, "")
	candidate = imageMarkerRe.ReplaceAllString(candidate, "")
	candidate = tableRunRe.ReplaceAllString(candidate, "")
	candidate = dashFragRe.ReplaceAllString(candidate, "")
	candidate = sepTailRe.ReplaceAllString(candidate, "")
	candidate = blankRunsRe.ReplaceAllString(candidate, "\n\n")
	candidate = strings.TrimSpace(candidate)

	if len(candidate) <= 20 || strings.HasPrefix(candidate, "#") {
		return ""
	}
	return truncate(candidate, 1000)
}

// RestaurantImages lists the image markers appearing before the first dish
// heading, as paths relative to the media root. With no dish heading the
// whole body is scanned.
func RestaurantImages(body, pageID string) []string {
	scan := body
	if loc := dishHeadingRe.FindStringIndex(body); loc != nil {
		scan = body[:loc[0]]
	}
	var paths []string
	for _, m := range imageCaptureRe.FindAllStringSubmatch(scan, -1) {
		paths = append(paths, "reviews/"+pageID+"/"+m[1])
	}
	return paths
}
