package cleaner

import (
	"regexp"
	"strings"
)

var (
	// brTag becomes a line break; the remaining stripped tags vanish.
	brTag = regexp.MustCompile(`(?i)<br\s*/?>`)

	// imageLink matches an image whose target was rewritten by the
	// converter to an absolute path with trailing Pandoc attributes, e.g.
	// ![](C:\out\media/media/image1.png){width=...}. Only the relative
	// media/media/... part survives.
	imageLink = regexp.MustCompile(`(!\[[^\]]*\]\()[^)]*?(media[\\/]media[\\/][^)]+)\)\s*\{[^}]*\}`)

	// leadingEscapedStar restores list bullets that the converter escaped.
	leadingEscapedStar = regexp.MustCompile(`^(\s*)\\\*`)

	entities = strings.NewReplacer(
		"&amp;", "&",
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", `"`,
		"&nbsp;", " ",
	)
)

// DefaultStripTags is the fixed allow-list of inline HTML tags removed from
// free text. This is direct pattern removal, not an HTML parser; malformed or
// nested markup is not guaranteed to be fully stripped.
var DefaultStripTags = []string{
	"em", "strong", "td", "tr", "tbody", "table", "colgroup", "col",
}

// stripPattern builds the removal pattern for the configured tag list.
func stripPattern(tags []string) *regexp.Regexp {
	if len(tags) == 0 {
		tags = DefaultStripTags
	}
	quoted := make([]string, len(tags))
	for i, t := range tags {
		quoted[i] = regexp.QuoteMeta(t)
	}
	return regexp.MustCompile(`(?i)</?(?:` + strings.Join(quoted, "|") + `)[^>]*>`)
}

// cleanLine rewrites one free-text line. Backslash stripping skips lines
// that read as table rows of either kind: a pipe row without an alignment
// row below it stays free text, and its backslashes may escape pipes.
func (c *Cleaner) cleanLine(line string) string {
	line = cleanImageLinks(line)
	line = leadingEscapedStar.ReplaceAllString(line, "$1*")
	if c.opts.StripBackslashes && !looksLikeTableRow(line) {
		line = strings.ReplaceAll(line, `\`, "")
	}
	line = brTag.ReplaceAllString(line, "\n")
	line = c.strip.ReplaceAllString(line, "")
	line = entities.Replace(line)
	return line
}

// looksLikeTableRow reports whether a line classifies as a Markdown table
// row or alignment row.
func looksLikeTableRow(line string) bool {
	switch Classify(line, LabelTableRow) {
	case LabelTableRow, LabelAlignmentRow:
		return true
	}
	return false
}

// cleanImageLinks trims converter attributes from image links and normalizes
// the extracted-media path to forward slashes.
func cleanImageLinks(line string) string {
	return imageLink.ReplaceAllStringFunc(line, func(m string) string {
		sub := imageLink.FindStringSubmatch(m)
		return sub[1] + strings.ReplaceAll(sub[2], `\`, "/") + ")"
	})
}
