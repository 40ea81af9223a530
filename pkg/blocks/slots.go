package blocks

import (
	"fmt"
	"regexp"
	"strings"
)

// SlotBlockName is the block type marking "insert a dynamically chosen
// post here" inside a template.
const SlotBlockName = "campaignbridge/email-post-slot"

// SlotDescriptor describes one slot discovered in a template's block
// tree, in encounter order. Callers use the manifest to build the
// post-selection mapping handed back in as a slot map at render time.
type SlotDescriptor struct {
	Key             string `json:"key"`
	ShowImage       bool   `json:"show_image"`
	ShowExcerpt     bool   `json:"show_excerpt"`
	CTALabel        string `json:"cta_label"`
	HasCustomLayout bool   `json:"has_custom_layout"`
}

var slotKeyPattern = regexp.MustCompile(`[^a-z0-9_-]+`)

// sanitizeSlotKey lowercases an explicit slotId and strips everything
// outside [a-z0-9_-]. A key that sanitizes to empty counts as absent.
func sanitizeSlotKey(raw string) string {
	return slotKeyPattern.ReplaceAllString(strings.ToLower(strings.TrimSpace(raw)), "")
}

// slotKey resolves a slot block's key: the sanitized explicit slotId when
// present, otherwise the next sequential fallback key from the counter.
// Discovery and rendering share this rule so their keys line up.
func slotKey(attrs MapOfAny, next func() string) string {
	if raw, ok := attrRawString(attrs, "slotId"); ok {
		if key := sanitizeSlotKey(raw); key != "" {
			return key
		}
	}
	return next()
}

// DiscoverSlots walks the whole tree in pre-order collecting slot
// descriptors. Read-only; the fallback-key counter starts fresh at 1 for
// every call, matching a render pass over the same tree.
func DiscoverSlots(list []Block) []SlotDescriptor {
	seq := 0
	next := func() string {
		seq++
		return fmt.Sprintf("slot_%d", seq)
	}
	var out []SlotDescriptor
	var walk func(list []Block)
	walk = func(list []Block) {
		for i := range list {
			b := &list[i]
			if b.Name == SlotBlockName {
				out = append(out, SlotDescriptor{
					Key:             slotKey(b.Attributes, next),
					ShowImage:       attrBool(b.Attributes, "showImage", true),
					ShowExcerpt:     attrBool(b.Attributes, "showExcerpt", true),
					CTALabel:        attrString(b.Attributes, "ctaLabel", "Read more"),
					HasCustomLayout: len(b.InnerBlocks) > 0,
				})
			}
			walk(b.InnerBlocks)
		}
	}
	walk(list)
	return out
}

// RenderTemplateBlocks renders a template's top-level block list with
// slots resolved through the supplied slot map. A fresh session (and so a
// fresh slot-key counter) is created per call; nested slots share the
// session's counter in pre-order.
func RenderTemplateBlocks(list []Block, slotMap map[string]int64, opts Options) string {
	sess := NewRenderSession(NewRegistry(), slotMap, opts)
	return sess.RenderAll(list, nil)
}

// renderSlot resolves one slot block.
//
// Resolution order for the post: slot map entry for the key, then a
// postId attribute literally on the block, then none. A slot with a
// custom nested layout uses that layout when it renders non-empty;
// otherwise the default post card, which degrades to an empty body when
// the mapped post no longer exists. The data-cb-slot wrapper is emitted
// on every path.
func renderSlot(block Block, sess *RenderSession, rctx *RenderContext) string {
	key := slotKey(block.Attributes, sess.NextSlotKey)

	postID, ok := sess.SlotPost(key)
	if !ok {
		postID = attrInt64(block.Attributes, "postId", 0)
	}

	slotCtx := &RenderContext{
		PostID:      postID,
		ShowImage:   attrBool(block.Attributes, "showImage", true),
		ShowExcerpt: attrBool(block.Attributes, "showExcerpt", true),
	}
	content := sess.Options().Content
	postMissing := false
	if content != nil && postID > 0 {
		if post, found := content.Post(postID); found {
			slotCtx.PostType = post.PostType
		} else {
			postMissing = true
		}
	}

	var body string
	if len(block.InnerBlocks) > 0 {
		if custom := sess.RenderAll(block.InnerBlocks, slotCtx); strings.TrimSpace(custom) != "" {
			body = custom
		}
	}
	if body == "" && postID > 0 && !postMissing {
		body = renderDefaultPostCard(sess, slotCtx, attrString(block.Attributes, "ctaLabel", ""))
	}

	body = wrapSlotLink(body, block.Attributes, slotCtx, content)

	return fmt.Sprintf(`<div data-cb-slot="%s">%s</div>`, escapeAttr(key), body)
}
