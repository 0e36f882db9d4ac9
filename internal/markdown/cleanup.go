package markdown

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	boldPattern   = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	mdLinkPattern = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)
	mdURLPattern  = regexp.MustCompile(`\]\(([^)]+)\)`)
)

// cleanCell reduces a table cell to plain text: HTML tags stripped,
// markdown bold and links collapsed to their text, whitespace squashed.
func cleanCell(text string) string {
	if text == "" {
		return ""
	}

	if strings.Contains(text, "<") {
		if doc, err := goquery.NewDocumentFromReader(strings.NewReader(text)); err == nil {
			text = doc.Text()
		}
	}

	text = boldPattern.ReplaceAllString(text, "$1")
	text = mdLinkPattern.ReplaceAllString(text, "$1")

	return strings.Join(strings.Fields(text), " ")
}

// extractURL pulls the first URL out of a cell that may hold an HTML
// anchor, a markdown link, or a bare URL. Returns "" when nothing
// usable is found.
func extractURL(cell string) string {
	if cell == "" {
		return ""
	}

	if strings.Contains(cell, "<") {
		if doc, err := goquery.NewDocumentFromReader(strings.NewReader(cell)); err == nil {
			if href, ok := doc.Find("a[href]").First().Attr("href"); ok && href != "" {
				return href
			}
		}
	}

	if m := mdURLPattern.FindStringSubmatch(cell); m != nil {
		return m[1]
	}

	cell = strings.TrimSpace(cell)
	if strings.HasPrefix(cell, "http") {
		return cell
	}

	return ""
}
