package blocks

import (
	"regexp"
	"strconv"
	"strings"
)

// Merge tokens emitted by the static campaignbridge post blocks:
//
//	{post_title}        post title
//	{post_excerpt:N}    first N words of the excerpt or stripped content
//	{post_image:size}   featured image URL at the named size
//	{post_link}         post permalink
//
// MergePostTokens is the substitution step that resolves them against a
// concrete post once one is known.

var (
	excerptTokenPattern = regexp.MustCompile(`\{post_excerpt:(\d+)\}`)
	imageTokenPattern   = regexp.MustCompile(`\{post_image:([a-z0-9_-]+)\}`)
)

// MergePostTokens replaces every post token in the fragment with content
// from the given post. A nil post (or nil accessor for image tokens)
// replaces tokens with empty strings so no placeholder leaks into a sent
// email.
func MergePostTokens(html string, post *PostContent, content ContentAccessor) string {
	title, link := "", ""
	if post != nil {
		title = escapeHTML(post.Title)
		link = escapeURL(post.Permalink)
	}
	html = strings.ReplaceAll(html, "{post_title}", title)
	html = strings.ReplaceAll(html, "{post_link}", link)

	html = excerptTokenPattern.ReplaceAllStringFunc(html, func(token string) string {
		if post == nil {
			return ""
		}
		words := 40
		if m := excerptTokenPattern.FindStringSubmatch(token); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
				words = n
			}
		}
		source := post.Excerpt
		if source == "" {
			source = post.Content
		}
		return escapeHTML(excerptWords(source, words))
	})

	html = imageTokenPattern.ReplaceAllStringFunc(html, func(token string) string {
		if post == nil || content == nil {
			return ""
		}
		size := imageTokenPattern.FindStringSubmatch(token)[1]
		return escapeURL(content.FeaturedImageURL(post.ID, size))
	})

	return html
}
