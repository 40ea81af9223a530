package blocks

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// MapOfAny holds block attributes as decoded from JSON. Values are the
// usual JSON shapes: string, float64, bool, map[string]any, []any.
type MapOfAny map[string]any

// Block is one node of a parsed block tree. A block with a non-empty
// InnerBlocks slice is a container; a block with an empty Name is a
// structural placeholder (freeform content) and renders to nothing.
type Block struct {
	Name         string   `json:"blockName"`
	Attributes   MapOfAny `json:"attrs"`
	InnerContent []string `json:"innerContent"`
	InnerBlocks  []Block  `json:"innerBlocks"`
}

// Namespace returns the part of the block name before the slash, e.g.
// "core" for "core/paragraph". Empty for nameless blocks.
func (b *Block) Namespace() string {
	if idx := strings.IndexByte(b.Name, '/'); idx >= 0 {
		return b.Name[:idx]
	}
	return b.Name
}

// Kind returns the part of the block name after the slash, e.g.
// "paragraph" for "core/paragraph".
func (b *Block) Kind() string {
	if idx := strings.IndexByte(b.Name, '/'); idx >= 0 {
		return b.Name[idx+1:]
	}
	return ""
}

// IsContainer reports whether the block has child blocks.
func (b *Block) IsContainer() bool {
	return len(b.InnerBlocks) > 0
}

// JoinedContent concatenates the raw innerContent fragments of a block.
func (b *Block) JoinedContent() string {
	return strings.Join(b.InnerContent, "")
}

// --- Attribute accessors ---
//
// Every emitter reads attributes through these helpers so that a missing
// or malformed value degrades to the documented default instead of
// failing. JSON numbers arrive as float64; attribute payloads produced by
// the editor sometimes carry numbers as strings ("100px"), so the numeric
// accessors tolerate both.

func attrString(attrs MapOfAny, key, def string) string {
	if attrs == nil {
		return def
	}
	if v, ok := attrs[key]; ok && v != nil {
		switch val := v.(type) {
		case string:
			if val != "" {
				return val
			}
		case float64:
			if val == math.Trunc(val) {
				return strconv.FormatInt(int64(val), 10)
			}
			return strconv.FormatFloat(val, 'f', -1, 64)
		case bool:
			return strconv.FormatBool(val)
		}
	}
	return def
}

// attrRawString is like attrString but treats an explicit empty string as
// a present value. Used where the spec distinguishes "attribute absent"
// from "attribute set to empty".
func attrRawString(attrs MapOfAny, key string) (string, bool) {
	if attrs == nil {
		return "", false
	}
	if v, ok := attrs[key]; ok {
		if s, ok := v.(string); ok {
			return s, true
		}
	}
	return "", false
}

func attrInt(attrs MapOfAny, key string, def int) int {
	if attrs == nil {
		return def
	}
	if v, ok := attrs[key]; ok && v != nil {
		switch val := v.(type) {
		case float64:
			return int(val)
		case int:
			return val
		case int64:
			return int(val)
		case string:
			trimmed := strings.TrimSuffix(strings.TrimSpace(val), "px")
			if n, err := strconv.Atoi(trimmed); err == nil {
				return n
			}
		}
	}
	return def
}

func attrInt64(attrs MapOfAny, key string, def int64) int64 {
	if attrs == nil {
		return def
	}
	if v, ok := attrs[key]; ok && v != nil {
		switch val := v.(type) {
		case float64:
			return int64(val)
		case int:
			return int64(val)
		case int64:
			return val
		case string:
			if n, err := strconv.ParseInt(strings.TrimSpace(val), 10, 64); err == nil {
				return n
			}
		}
	}
	return def
}

func attrBool(attrs MapOfAny, key string, def bool) bool {
	if attrs == nil {
		return def
	}
	if v, ok := attrs[key]; ok && v != nil {
		switch val := v.(type) {
		case bool:
			return val
		case string:
			switch strings.ToLower(val) {
			case "true", "1", "yes":
				return true
			case "false", "0", "no":
				return false
			}
		case float64:
			return val != 0
		}
	}
	return def
}

func attrMap(attrs MapOfAny, key string) MapOfAny {
	if attrs == nil {
		return MapOfAny{}
	}
	if v, ok := attrs[key]; ok {
		if m, ok := v.(map[string]any); ok {
			return MapOfAny(m)
		}
		if m, ok := v.(MapOfAny); ok {
			return m
		}
	}
	return MapOfAny{}
}

// attrPath walks nested attribute maps, e.g. attrPath(attrs, "style",
// "color", "background") for the block editor's color-support payload.
func attrPath(attrs MapOfAny, keys ...string) string {
	current := attrs
	for i, key := range keys {
		if i == len(keys)-1 {
			return attrString(current, key, "")
		}
		current = attrMap(current, key)
	}
	return ""
}

// ExtractTemplateBackground returns the template-level background color
// when the first top-level block is a campaignbridge/container carrying a
// color-support background. This is a one-block lookahead, not a scan.
func ExtractTemplateBackground(list []Block) string {
	if len(list) == 0 {
		return ""
	}
	first := &list[0]
	if first.Name != "campaignbridge/container" {
		return ""
	}
	return attrPath(first.Attributes, "style", "color", "background")
}

// --- Escaping ---
//
// Every interpolated value in every emitter goes through one of these.

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

var attrEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

// escapeHTML escapes text content for placement between tags.
func escapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}

// escapeAttr escapes a value for placement inside a quoted attribute.
func escapeAttr(s string) string {
	return attrEscaper.Replace(s)
}

// escapeURL escapes a URL for use in href/src attributes. Ampersands in
// query strings still need entity form inside HTML attributes; quotes and
// angle brackets are neutralized like any other attribute value.
func escapeURL(s string) string {
	return attrEscaper.Replace(s)
}

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// stripTags removes HTML tags, leaving text content. Emitters use it to
// recover the plain text carried inside innerContent fragments.
func stripTags(s string) string {
	return tagPattern.ReplaceAllString(s, "")
}

var whitespacePattern = regexp.MustCompile(`\s+`)

// excerptWords returns the first n words of the tag-stripped input,
// appending an ellipsis when the input was truncated.
func excerptWords(s string, n int) string {
	text := strings.TrimSpace(whitespacePattern.ReplaceAllString(stripTags(s), " "))
	if text == "" || n <= 0 {
		return ""
	}
	words := strings.Split(text, " ")
	if len(words) <= n {
		return text
	}
	return strings.Join(words[:n], " ") + "…"
}
