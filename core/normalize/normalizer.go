// Package normalize converts wiki storage markup (XML/HTML-like) into the
// intermediate text shape the extractor works on: pipe tables, bold
// `# **Heading**` headings, `![IMAGE:name]` markers, **bold**/*italic*.
//
// The transform order is load-bearing. Date widgets and image containers
// must be substituted before the generic namespaced-tag strip, and heading
// conversion must run before the final tag strip, or their content is lost.
package normalize

import (
	"fmt"
	"html"
	"regexp"
	"strings"
)

var (
	timeWidgetRe   = regexp.MustCompile(`<time[^>]*/?>`)
	datetimeAttrRe = regexp.MustCompile(`datetime="([^"]+)"`)

	imageBlockRe   = regexp.MustCompile(`(?s)<ac:image[^>]*>.*?</ac:image>`)
	imageFileRe    = regexp.MustCompile(`ri:filename="([^"]+)"`)
	attachmentTag  = regexp.MustCompile(`<ri:attachment[^>]*/?>`)
	acOpenCloseTag = regexp.MustCompile(`</?ac:.*?>`)

	brTagRe     = regexp.MustCompile(`<br\s*/?>`)
	paraRe      = regexp.MustCompile(`<p>(.*?)</p>`)
	strongRe    = regexp.MustCompile(`<strong>(.*?)</strong>`)
	emRe        = regexp.MustCompile(`<em>(.*?)</em>`)
	anyTagRe    = regexp.MustCompile(`<[^>]+>`)
	blankRunsRe = regexp.MustCompile(`\n\s*\n\s*\n+`)
)

// headingRes[i] converts <h(i+1)> headings, bold-nested first so the bold
// markers are not doubled.
var headingRes = buildHeadingRes()

type headingRule struct {
	bold  *regexp.Regexp
	plain *regexp.Regexp
	repl  string
}

func buildHeadingRes() []headingRule {
	rules := make([]headingRule, 0, 6)
	for level := 1; level <= 6; level++ {
		rules = append(rules, headingRule{
			bold:  regexp.MustCompile(fmt.Sprintf(`<h%d><strong>(.*?)</strong></h%d>`, level, level)),
			plain: regexp.MustCompile(fmt.Sprintf(`<h%d>(.*?)</h%d>`, level, level)),
			repl:  "\n\n" + strings.Repeat("#", level) + " **$1**\n\n",
		})
	}
	return rules
}

// StorageNormalizer converts storage markup to the intermediate text shape.
type StorageNormalizer struct{}

// New creates a StorageNormalizer.
func New() *StorageNormalizer {
	return &StorageNormalizer{}
}

// Normalize runs the full storage-to-intermediate transform. It never
// fails: unrecognized markup is stripped, not reported.
func (n *StorageNormalizer) Normalize(storage string) string {
	content := storage

	// 1. Date widgets: <time datetime="2025-02-15" /> becomes "2025-02-15".
	content = timeWidgetRe.ReplaceAllStringFunc(content, func(tag string) string {
		if m := datetimeAttrRe.FindStringSubmatch(tag); m != nil {
			return m[1]
		}
		return ""
	})

	// 2. Image containers become literal markers:
	// <ac:image>...<ri:attachment ri:filename="a.jpg"/>...</ac:image>
	// becomes ![IMAGE:a.jpg].
	content = imageBlockRe.ReplaceAllStringFunc(content, func(block string) string {
		if m := imageFileRe.FindStringSubmatch(block); m != nil {
			return "![IMAGE:" + m[1] + "]"
		}
		return ""
	})

	// 3. Remaining namespaced pseudo-tags are stripped outright.
	content = attachmentTag.ReplaceAllString(content, "")
	content = acOpenCloseTag.ReplaceAllString(content, "")

	// 4. Headings h1-h6, bold-nested and plain shapes.
	for _, rule := range headingRes {
		content = rule.bold.ReplaceAllString(content, rule.repl)
		content = rule.plain.ReplaceAllString(content, rule.repl)
	}

	// 5. Tables become pipe-delimited rows.
	content = convertTables(content)

	// 6. Explicit line breaks.
	content = brTagRe.ReplaceAllString(content, "\n")

	// 7. Paragraphs and inline emphasis.
	content = paraRe.ReplaceAllString(content, "$1\n\n")
	content = strongRe.ReplaceAllString(content, "**$1**")
	content = emRe.ReplaceAllString(content, "*$1*")

	// 8. Anything still tag-shaped goes, content stays.
	content = anyTagRe.ReplaceAllString(content, "")

	// 9. Collapse 3+ newlines to exactly 2.
	content = blankRunsRe.ReplaceAllString(content, "\n\n")

	// 10. Entities last, so decoded "<" cannot be mistaken for markup.
	content = html.UnescapeString(content)

	return strings.TrimSpace(content)
}
