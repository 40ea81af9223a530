package blocks

import (
	"fmt"
	"strings"
)

// The campaignbridge post blocks have two behaviors. Without a content
// accessor they are static emitters producing merge tokens ({post_title},
// {post_excerpt:N}, {post_image:size}, {post_link}) substituted by a
// later merge step. With a content accessor and an inherited
// RenderContext they resolve the post and emit the final fragment, the
// way the server-side render callbacks do for context-driven blocks.

func registerCampaignBridgeBlocks(r *Registry) {
	r.RegisterFunc("campaignbridge/container", renderContainer)
	r.RegisterFunc("campaignbridge/post-card", renderPostCard)
	r.RegisterFunc("campaignbridge/post-title", renderPostTitle)
	r.RegisterFunc("campaignbridge/post-excerpt", renderPostExcerpt)
	r.RegisterFunc("campaignbridge/post-image", renderPostImage)
	r.RegisterFunc("campaignbridge/post-button", renderPostButton)
	r.RegisterFunc(SlotBlockName, renderSlot)
}

func renderContainer(block Block, sess *RenderSession, rctx *RenderContext) string {
	bg := attrPath(block.Attributes, "style", "color", "background")
	if bg == "" {
		bg = "#ffffff"
	}
	return fmt.Sprintf(
		`<table role="presentation" width="100%%" border="0" cellpadding="0" cellspacing="0"><tr><td style="background-color:%s;">%s</td></tr></table>`,
		escapeAttr(bg), sess.RenderAll(block.InnerBlocks, rctx),
	)
}

// renderPostCard establishes the post context for its descendants. The
// card's own attributes win over any inherited context, so nested cards
// switch posts at their boundary.
func renderPostCard(block Block, sess *RenderSession, rctx *RenderContext) string {
	opts := sess.Options()

	cardCtx := &RenderContext{
		PostID:      attrInt64(block.Attributes, "postId", 0),
		PostType:    attrString(block.Attributes, "postType", "post"),
		ShowImage:   attrBool(block.Attributes, "showImage", true),
		ShowExcerpt: attrBool(block.Attributes, "showExcerpt", true),
	}
	if cardCtx.PostID == 0 && rctx != nil {
		cardCtx.PostID = rctx.PostID
		if cardCtx.PostType == "post" && rctx.PostType != "" {
			cardCtx.PostType = rctx.PostType
		}
	}

	if opts.Content == nil {
		// Static-content variant used by the bare converter: a
		// placeholder the editor preview can style, no post resolution.
		return `<table role="presentation" width="100%" border="0" cellpadding="0" cellspacing="0"><tr><td style="padding:16px;background-color:#f9f9f9;border:1px solid #eee;"><!-- post-card placeholder --></td></tr></table>`
	}

	var body string
	if len(block.InnerBlocks) > 0 {
		body = sess.RenderAll(block.InnerBlocks, cardCtx)
	} else {
		body = renderDefaultPostCard(sess, cardCtx, attrString(block.Attributes, "ctaLabel", ""))
	}

	return wrapSlotLink(body, block.Attributes, cardCtx, opts.Content)
}

// wrapSlotLink wraps rendered card content in a whole-card hyperlink when
// slotLinkEnabled is set and a post is resolved. The wrap is a pure
// envelope around the inner content: a single-cell table whose cell
// holds a display:block anchor.
func wrapSlotLink(inner string, attrs MapOfAny, rctx *RenderContext, content ContentAccessor) string {
	if inner == "" || rctx == nil || rctx.PostID <= 0 || content == nil {
		return inner
	}
	if !attrBool(attrs, "slotLinkEnabled", false) {
		return inner
	}
	post, ok := content.Post(rctx.PostID)
	if !ok {
		return inner
	}

	href := post.Permalink
	if attrString(attrs, "slotLinkTo", "post") == "postType" {
		if archive := content.ArchiveURL(post.PostType); archive != "" {
			href = archive
		}
	}
	if href == "" {
		return inner
	}
	return fmt.Sprintf(
		`<table role="presentation" width="100%%" border="0" cellpadding="0" cellspacing="0"><tr><td><a href="%s" target="_blank" style="display:block;text-decoration:none;color:inherit;">%s</a></td></tr></table>`,
		escapeURL(href), inner,
	)
}

func renderPostTitle(block Block, sess *RenderSession, rctx *RenderContext) string {
	level := attrInt(block.Attributes, "level", 3)
	if level < 1 || level > 6 {
		level = 3
	}
	post := contextPost(sess, rctx)
	if post == nil {
		return fmt.Sprintf(`<h%d style="margin:0 0 8px 0;font-size:20px;line-height:1.3;">{post_title}</h%d>`, level, level)
	}
	return fmt.Sprintf(
		`<h%d style="margin:0 0 8px 0;font-size:20px;line-height:1.3;">%s</h%d>`,
		level, escapeHTML(post.Title), level,
	)
}

func renderPostExcerpt(block Block, sess *RenderSession, rctx *RenderContext) string {
	words := attrInt(block.Attributes, "words", 40)
	if words <= 0 {
		words = 40
	}
	post := contextPost(sess, rctx)
	if post == nil {
		return fmt.Sprintf(`<p style="margin:0 0 16px 0;line-height:1.6;">{post_excerpt:%d}</p>`, words)
	}
	if rctx != nil && !rctx.ShowExcerpt {
		return ""
	}
	excerpt := post.Excerpt
	if excerpt == "" {
		excerpt = excerptWords(post.Content, words)
	} else {
		excerpt = excerptWords(excerpt, words)
	}
	if excerpt == "" {
		return ""
	}
	return fmt.Sprintf(`<p style="margin:0 0 16px 0;line-height:1.6;">%s</p>`, escapeHTML(excerpt))
}

func renderPostImage(block Block, sess *RenderSession, rctx *RenderContext) string {
	size := attrString(block.Attributes, "size", "large")
	post := contextPost(sess, rctx)
	if post == nil {
		return fmt.Sprintf(`<img src="{post_image:%s}" alt="" style="max-width:100%%;height:auto;display:block;border:0;" />`, escapeAttr(size))
	}
	if rctx != nil && !rctx.ShowImage {
		return ""
	}
	src := sess.Options().Content.FeaturedImageURL(post.ID, size)
	if src == "" {
		return ""
	}
	return fmt.Sprintf(
		`<img src="%s" alt="%s" width="100%%" style="max-width:100%%;height:auto;display:block;border:0;" />`,
		escapeURL(src), escapeAttr(post.Title),
	)
}

func renderPostButton(block Block, sess *RenderSession, rctx *RenderContext) string {
	label := attrString(block.Attributes, "text", "Read more")
	post := contextPost(sess, rctx)
	if post == nil {
		return ctaAnchor("{post_link}", label)
	}
	if post.Permalink == "" {
		return ""
	}
	return ctaAnchor(post.Permalink, label)
}

// ctaAnchor emits the anchor-styled-as-button used by post buttons and
// the default post card CTA. Simpler than the core/button dual render on
// purpose: post CTAs are text links in the source material.
func ctaAnchor(href, label string) string {
	return fmt.Sprintf(
		`<a href="%s" target="_blank" style="display:inline-block;padding:10px 20px;background-color:#007cba;color:#ffffff;font-family:Arial,sans-serif;font-size:14px;font-weight:bold;text-decoration:none;border-radius:4px;">%s</a>`,
		escapeURL(href), escapeHTML(label),
	)
}

// contextPost resolves the post for a context-consuming block. Returns
// nil when there is no content accessor or no inherited context, which
// switches the emitters to their token-producing static variants.
func contextPost(sess *RenderSession, rctx *RenderContext) *PostContent {
	content := sess.Options().Content
	if content == nil || rctx == nil || rctx.PostID <= 0 {
		return nil
	}
	post, ok := content.Post(rctx.PostID)
	if !ok {
		return nil
	}
	return post
}

// renderDefaultPostCard is the built-in card layout: featured image,
// title, excerpt, CTA, in one table. Used when a post card or slot has no
// custom nested layout.
func renderDefaultPostCard(sess *RenderSession, rctx *RenderContext, ctaLabel string) string {
	post := contextPost(sess, rctx)
	if post == nil {
		return ""
	}
	content := sess.Options().Content
	if ctaLabel == "" {
		ctaLabel = "Read more"
	}

	var sb strings.Builder
	sb.WriteString(`<table role="presentation" width="100%" border="0" cellpadding="0" cellspacing="0">`)
	if rctx.ShowImage {
		if src := content.FeaturedImageURL(post.ID, "large"); src != "" {
			fmt.Fprintf(&sb,
				`<tr><td style="padding:0 0 12px 0;"><img src="%s" alt="%s" width="100%%" style="max-width:100%%;height:auto;display:block;border:0;" /></td></tr>`,
				escapeURL(src), escapeAttr(post.Title),
			)
		}
	}
	fmt.Fprintf(&sb,
		`<tr><td><h3 style="margin:0 0 8px 0;font-size:20px;line-height:1.3;">%s</h3></td></tr>`,
		escapeHTML(post.Title),
	)
	if rctx.ShowExcerpt {
		excerpt := post.Excerpt
		if excerpt == "" {
			excerpt = excerptWords(post.Content, 40)
		} else {
			excerpt = excerptWords(excerpt, 40)
		}
		if excerpt != "" {
			fmt.Fprintf(&sb,
				`<tr><td><p style="margin:0 0 16px 0;line-height:1.6;">%s</p></td></tr>`,
				escapeHTML(excerpt),
			)
		}
	}
	if post.Permalink != "" {
		fmt.Fprintf(&sb, `<tr><td>%s</td></tr>`, ctaAnchor(post.Permalink, ctaLabel))
	}
	sb.WriteString(`</table>`)
	return sb.String()
}
