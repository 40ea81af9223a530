package blocks

import (
	"fmt"
	"regexp"
	"strings"
)

// inlineableProperties is the fixed allow-list the inliner looks for in
// extracted <style> content.
var inlineableProperties = []string{
	"color",
	"font-size",
	"font-family",
	"font-weight",
	"text-align",
	"padding",
	"margin",
	"background-color",
	"border",
	"width",
	"height",
}

var (
	styleBlockPattern = regexp.MustCompile(`(?is)<style[^>]*>(.*?)</style>`)
	firstTagPattern   = regexp.MustCompile(`(?i)<([a-z][a-z0-9]*)((?:\s[^>]*)?)>`)
	styleAttrPattern  = regexp.MustCompile(`(?i)\bstyle\s*=\s*"([^"]*)"`)
)

// InlineCSS approximates CSS inlining with regexes rather than a cascade
// resolver. It pulls every <style> block out of the document, then for
// each allow-listed property takes the first declaration found anywhere
// in the extracted CSS and applies it inline to the first element tag of
// the remaining HTML. First-match-only, ignoring selectors and
// specificity: the pipeline's emitters already inline their styles at
// emission time, so this pass only mops up stray <style> content from
// custom-CSS block attributes.
func InlineCSS(html string) string {
	matches := styleBlockPattern.FindAllStringSubmatch(html, -1)
	if len(matches) == 0 {
		return html
	}

	var css strings.Builder
	for _, m := range matches {
		css.WriteString(m[1])
		css.WriteString("\n")
	}
	stripped := styleBlockPattern.ReplaceAllString(html, "")

	var declarations []string
	for _, prop := range inlineableProperties {
		declPattern := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(prop) + `\s*:\s*([^;}\n]+)`)
		if m := declPattern.FindStringSubmatch(css.String()); m != nil {
			declarations = append(declarations, fmt.Sprintf("%s: %s", prop, strings.TrimSpace(m[1])))
		}
	}
	if len(declarations) == 0 {
		return stripped
	}

	return applyInlineStyle(stripped, strings.Join(declarations, "; "))
}

// applyInlineStyle merges the declarations into the first element tag of
// the document, appending to an existing style attribute or adding one.
func applyInlineStyle(html, declarations string) string {
	applied := false
	return firstTagPattern.ReplaceAllStringFunc(html, func(tag string) string {
		if applied {
			return tag
		}
		applied = true

		if m := styleAttrPattern.FindStringSubmatch(tag); m != nil {
			existing := strings.TrimRight(strings.TrimSpace(m[1]), ";")
			merged := declarations
			if existing != "" {
				merged = existing + "; " + declarations
			}
			return styleAttrPattern.ReplaceAllString(tag, fmt.Sprintf(`style="%s"`, merged))
		}
		return strings.TrimSuffix(tag, ">") + fmt.Sprintf(` style="%s">`, declarations)
	})
}

const viewportMeta = `<meta name="viewport" content="width=device-width, initial-scale=1.0">`

const responsiveStyles = `<style>
@media only screen and (max-width: 600px) {
.email-container { width: 100% !important; max-width: 100% !important; }
.mobile-stack { display: block !important; width: 100% !important; }
.mobile-hide { display: none !important; }
td { padding-left: 10px !important; padding-right: 10px !important; }
}
</style>`

var (
	headOpenPattern  = regexp.MustCompile(`(?i)<head[^>]*>`)
	headClosePattern = regexp.MustCompile(`(?i)</head>`)
	maxWidthQuery    = regexp.MustCompile(`(?i)@media[^{]*max-width`)
)

// MakeResponsive injects the viewport meta right after <head> and the
// mobile media-query block right before </head>. Idempotent: each
// insertion is skipped when the document already carries it, so applying
// the pass twice yields the same output as once.
func MakeResponsive(html string, _ StructureOptions) string {
	if !strings.Contains(strings.ToLower(html), `name="viewport"`) {
		if loc := headOpenPattern.FindStringIndex(html); loc != nil {
			html = html[:loc[1]] + "\n" + viewportMeta + html[loc[1]:]
		}
	}
	if !maxWidthQuery.MatchString(html) {
		if loc := headClosePattern.FindStringIndex(html); loc != nil {
			html = html[:loc[0]] + responsiveStyles + "\n" + html[loc[0]:]
		}
	}
	return html
}
