package blocks

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var blankLinesPattern = regexp.MustCompile(`\n{3,}`)

// ExtractPlainText derives a text/plain alternative from generated email
// HTML. Anchors become "label (url)", block-level boundaries become line
// breaks, and everything invisible (style, MSO comments, images) is
// dropped. Best effort: when the HTML cannot be parsed the tag-stripped
// input is returned instead.
func ExtractPlainText(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return strings.TrimSpace(whitespacePattern.ReplaceAllString(stripTags(html), " "))
	}

	doc.Find("style, script, head").Remove()

	// Rewrite anchors so the URL survives the text extraction.
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		label := strings.TrimSpace(sel.Text())
		switch {
		case label == "" && href != "":
			sel.SetText(href)
		case href != "" && href != label:
			sel.SetText(label + " (" + href + ")")
		}
	})

	// Force a line break after every block-level element.
	doc.Find("p, h1, h2, h3, h4, h5, h6, tr, div, li").Each(func(_ int, sel *goquery.Selection) {
		sel.AppendHtml("\n")
	})

	text := doc.Text()
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		lines = append(lines, strings.TrimSpace(whitespacePattern.ReplaceAllString(line, " ")))
	}
	text = strings.Join(lines, "\n")
	text = blankLinesPattern.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
