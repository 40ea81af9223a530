package blocks

import (
	"strings"

	"github.com/tidwall/gjson"
)

// The serialized block format delimits blocks with HTML comments:
//
//	<!-- wp:campaignbridge/container {"style":{...}} -->
//	  ...inner HTML and nested blocks...
//	<!-- /wp:campaignbridge/container -->
//
// Self-closing blocks end with "/-->". A name without a namespace prefix
// is shorthand for the core namespace ("wp:paragraph" means
// "core/paragraph"). Freeform HTML between block comments becomes a
// nameless structural node, which the converter renders as an empty
// fragment.

type blockToken struct {
	start, end  int
	name        string
	attrs       MapOfAny
	closing     bool
	selfClosing bool
}

// ParseBlocks parses serialized block content into a block tree. The
// parser is lenient: malformed attribute JSON yields an empty attribute
// map, a stray closer is dropped, and blocks left open at the end of
// input are closed implicitly. It never fails.
func ParseBlocks(raw string) []Block {
	tokens := scanBlockTokens(raw)

	var top []Block
	var stack []*Block
	appendBlock := func(b Block) {
		if len(stack) == 0 {
			top = append(top, b)
			return
		}
		parent := stack[len(stack)-1]
		parent.InnerBlocks = append(parent.InnerBlocks, b)
	}
	appendText := func(text string) {
		if strings.TrimSpace(text) == "" {
			return
		}
		if len(stack) == 0 {
			top = append(top, Block{InnerContent: []string{text}})
			return
		}
		parent := stack[len(stack)-1]
		parent.InnerContent = append(parent.InnerContent, text)
	}

	cursor := 0
	for _, tok := range tokens {
		if tok.start > cursor {
			appendText(raw[cursor:tok.start])
		}
		cursor = tok.end

		switch {
		case tok.selfClosing:
			appendBlock(Block{Name: tok.name, Attributes: tok.attrs})
		case tok.closing:
			if len(stack) == 0 {
				continue
			}
			done := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			appendBlock(*done)
		default:
			stack = append(stack, &Block{Name: tok.name, Attributes: tok.attrs})
		}
	}
	if cursor < len(raw) {
		appendText(raw[cursor:])
	}

	// Close anything left open at end of input.
	for len(stack) > 0 {
		done := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if len(stack) == 0 {
			top = append(top, *done)
		} else {
			parent := stack[len(stack)-1]
			parent.InnerBlocks = append(parent.InnerBlocks, *done)
		}
	}
	return top
}

// scanBlockTokens finds every block delimiter comment in the input.
// Hand-rolled scanning instead of one big regex so attribute JSON
// containing braces or quotes cannot derail the match.
func scanBlockTokens(raw string) []blockToken {
	var tokens []blockToken
	offset := 0
	for {
		rel := strings.Index(raw[offset:], "<!--")
		if rel < 0 {
			return tokens
		}
		start := offset + rel
		endRel := strings.Index(raw[start:], "-->")
		if endRel < 0 {
			return tokens
		}
		end := start + endRel + len("-->")
		inner := strings.TrimSpace(raw[start+len("<!--") : start+endRel])
		offset = end

		tok, ok := parseBlockComment(inner)
		if !ok {
			continue
		}
		tok.start = start
		tok.end = end
		tokens = append(tokens, tok)
	}
}

// parseBlockComment interprets the inside of one comment. Returns false
// for ordinary comments that are not block delimiters.
func parseBlockComment(inner string) (blockToken, bool) {
	var tok blockToken

	if strings.HasPrefix(inner, "/wp:") {
		tok.closing = true
		tok.name = qualifyBlockName(strings.TrimSpace(inner[len("/wp:"):]))
		return tok, tok.name != ""
	}
	if !strings.HasPrefix(inner, "wp:") {
		return tok, false
	}

	rest := inner[len("wp:"):]
	if strings.HasSuffix(rest, "/") {
		tok.selfClosing = true
		rest = strings.TrimSpace(strings.TrimSuffix(rest, "/"))
	}

	name := rest
	if idx := strings.IndexAny(rest, " \t\n{"); idx >= 0 {
		name = rest[:idx]
		tok.attrs = parseBlockAttributes(strings.TrimSpace(rest[idx:]))
	}
	tok.name = qualifyBlockName(strings.TrimSpace(name))
	return tok, tok.name != ""
}

// qualifyBlockName expands the core-namespace shorthand and rejects
// names that are not valid block identifiers.
func qualifyBlockName(name string) string {
	if name == "" {
		return ""
	}
	if !strings.Contains(name, "/") {
		name = "core/" + name
	}
	for _, r := range name {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '-' || r == '_' || r == '/' {
			continue
		}
		return ""
	}
	return name
}

// parseBlockAttributes decodes the attribute JSON payload. Malformed
// payloads degrade to an empty map, never an error.
func parseBlockAttributes(jsonStr string) MapOfAny {
	if jsonStr == "" || !gjson.Valid(jsonStr) {
		return MapOfAny{}
	}
	value, ok := gjson.Parse(jsonStr).Value().(map[string]any)
	if !ok {
		return MapOfAny{}
	}
	return MapOfAny(value)
}
