package normalize

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	tableBlockRe = regexp.MustCompile(`(?s)<table[^>]*>.*?</table>`)
	cellParaRe   = regexp.MustCompile(`<p>(.*?)</p>`)
	cellStrongRe = regexp.MustCompile(`<strong>(.*?)</strong>`)
	cellTagRe    = regexp.MustCompile(`<[^>]+>`)
)

// convertTables rewrites every <table> into pipe-delimited rows. A separator
// row of dashes follows any row whose cells carry bold markers, which is the
// closest thing the source format has to "this was the header row".
func convertTables(content string) string {
	return tableBlockRe.ReplaceAllStringFunc(content, func(table string) string {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(table))
		if err != nil {
			// Leave the table for the generic tag strip.
			return table
		}

		var rows []string
		doc.Find("tr").Each(func(_ int, tr *goquery.Selection) {
			var cells []string
			header := false
			tr.Find("th, td").Each(func(_ int, cell *goquery.Selection) {
				inner, err := cell.Html()
				if err != nil {
					inner = cell.Text()
				}
				text := cleanCell(inner)
				if strings.Contains(text, "**") {
					header = true
				}
				cells = append(cells, text)
			})
			if len(cells) == 0 {
				return
			}
			rows = append(rows, "| "+strings.Join(cells, " | ")+" |")
			if header {
				seps := make([]string, len(cells))
				for i := range seps {
					seps[i] = "---"
				}
				rows = append(rows, "| "+strings.Join(seps, " | ")+" |")
			}
		})

		return "\n" + strings.Join(rows, "\n") + "\n"
	})
}

// cleanCell flattens a cell's inner HTML to intermediate text.
func cleanCell(inner string) string {
	text := cellParaRe.ReplaceAllString(inner, "$1")
	text = cellStrongRe.ReplaceAllString(text, "**$1**")
	text = cellTagRe.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}
