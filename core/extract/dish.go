package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/gaurav-prasanna/reviewpipe/core"
)

var (
	inlineRatingRe = regexp.MustCompile(`(?i)\*\*Overall Rating\s*-\s*(\d+)(?:/100)?\*\*`)
	tableRatingRe  = regexp.MustCompile(`\|\s*\*\*Rating\*\*\s*\|\s*(\d+)\s*\|`)
	costRowRe      = regexp.MustCompile(`\|\s*\*\*Cost\*\*\s*\|\s*\$?\s*([0-9.]+)\s*\|`)

	ratingMarkerRe = regexp.MustCompile(`(?i)\*\*Overall Rating`)
)

// subRatings are the structured note sections a dish may carry instead of
// free text. Each is expected as `**Label - N/5**` followed by commentary.
var subRatings = []struct {
	label  string
	marker *regexp.Regexp
	body   *regexp.Regexp
}{
	{"Texture", regexp.MustCompile(`\*\*Texture\s*-`), regexp.MustCompile(`(?s)\*\*Texture\s*-\s*([0-9.]+/5)\*\*\s*\n\s*(.*?)(?:\n\*\*|$)`)},
	{"Taste", regexp.MustCompile(`\*\*Taste\s*-`), regexp.MustCompile(`(?s)\*\*Taste\s*-\s*([0-9.]+/5)\*\*\s*\n\s*(.*?)(?:\n\*\*|$)`)},
	{"Presentation", regexp.MustCompile(`\*\*Presentation\s*-`), regexp.MustCompile(`(?s)\*\*Presentation\s*-\s*([0-9.]+/5)\*\*\s*\n\s*(.*?)(?:\n\*\*|$)`)},
}

// Dishes extracts every dish section from the page text. A section is the
// span from one top-level bold heading to the next (or end of text).
// Sections without a resolvable rating are dropped entirely; that is a
// filtering rule, not an error.
func Dishes(body, pageID string) []core.ParsedDish {
	headings := dishHeadingRe.FindAllStringSubmatchIndex(body, -1)
	var dishes []core.ParsedDish

	for i, h := range headings {
		name := strings.TrimSpace(body[h[2]:h[3]])
		end := len(body)
		if i+1 < len(headings) {
			end = headings[i+1][0]
		}
		section := strings.TrimSpace(body[h[1]:end])

		rating, ok := dishRating(section)
		if !ok {
			continue
		}

		dish := core.ParsedDish{
			Name:   name,
			Rating: rating,
			Notes:  dishNotes(section),
		}

		if m := costRowRe.FindStringSubmatch(section); m != nil {
			if cost, err := decimal.NewFromString(m[1]); err == nil {
				dish.Cost = &cost
			}
		}

		for _, m := range imageCaptureRe.FindAllStringSubmatch(section, -1) {
			dish.Images = append(dish.Images, "reviews/"+pageID+"/"+m[1])
		}

		dishes = append(dishes, dish)
	}

	return dishes
}

// dishRating resolves a section's rating: the inline marker first, then the
// pipe-table row.
func dishRating(section string) (int, bool) {
	m := inlineRatingRe.FindStringSubmatch(section)
	if m == nil {
		m = tableRatingRe.FindStringSubmatch(section)
	}
	if m == nil {
		return 0, false
	}
	rating, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return rating, true
}

// dishNotes applies the two-tier notes strategy: free-form text before the
// rating marker wins unless it is short or actually carries structured
// sub-ratings, in which case the labeled sub-sections are joined instead.
func dishNotes(section string) string {
	var parts []string

	if loc := ratingMarkerRe.FindStringIndex(section); loc != nil {
		freeform := cleanFreeform(section[:loc[0]])
		if freeform != "" && len(freeform) > 20 && !hasSubRatings(freeform) {
			parts = append(parts, freeform)
		}
	}

	if len(parts) == 0 {
		for _, sub := range subRatings {
			if m := sub.body.FindStringSubmatch(section); m != nil {
				parts = append(parts, sub.label+" ("+m[1]+"): "+strings.TrimSpace(m[2]))
			}
		}
	}

	if len(parts) == 0 {
		return ""
	}

	notes := strings.Join(parts, "\n\n")
	notes = tableRunRe.ReplaceAllString(notes, "")
	notes = dashFragRe.ReplaceAllString(notes, "")
	notes = sepTailRe.ReplaceAllString(notes, "")
	notes = blankRunsRe.ReplaceAllString(notes, "\n\n")
	return truncate(strings.TrimSpace(notes), 2000)
}

// cleanFreeform strips markers, leftover tables, and joiners from a
// free-form notes candidate.
func cleanFreeform(text string) string {
	text = imageMarkerRe.ReplaceAllString(text, "")
	text = mdImageRe.ReplaceAllString(text, "")
	text = tableRunRe.ReplaceAllString(text, "")
	text = zeroWidthRe.ReplaceAllString(text, "")
	text = blankRunsRe.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

func hasSubRatings(text string) bool {
	for _, sub := range subRatings {
		if sub.marker.MatchString(text) {
			return true
		}
	}
	return false
}
