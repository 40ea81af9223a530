package blocks

import (
	"fmt"
	"math"
	"strings"
)

// Font sizes for core/heading by level. Out-of-range levels fall back to
// the default heading size and the tag is clamped into h1..h6.
var headingFontSizes = map[int]int{
	1: 28,
	2: 24,
	3: 20,
	4: 18,
	5: 16,
	6: 14,
}

const defaultHeadingFontSize = 24

func registerCoreBlocks(r *Registry) {
	r.RegisterFunc("core/paragraph", renderParagraph)
	r.RegisterFunc("core/heading", renderHeading)
	r.RegisterFunc("core/image", renderImage)
	r.RegisterFunc("core/buttons", renderButtons)
	r.RegisterFunc("core/button", renderButton)
	r.RegisterFunc("core/columns", renderColumns)
	r.RegisterFunc("core/group", renderGroup)
	r.RegisterFunc("core/spacer", renderSpacer)
	r.RegisterFunc("core/separator", renderSeparator)
}

func renderParagraph(block Block, _ *RenderSession, _ *RenderContext) string {
	align := attrString(block.Attributes, "align", "left")
	lineHeight := attrPath(block.Attributes, "style", "typography", "lineHeight")
	if lineHeight == "" {
		lineHeight = "1.6"
	}
	text := escapeHTML(stripTags(block.JoinedContent()))
	return fmt.Sprintf(
		`<p style="margin:0 0 16px 0;text-align:%s;line-height:%s;">%s</p>`,
		escapeAttr(align), escapeAttr(lineHeight), text,
	)
}

func renderHeading(block Block, _ *RenderSession, _ *RenderContext) string {
	level := attrInt(block.Attributes, "level", 2)
	fontSize, ok := headingFontSizes[level]
	if !ok {
		fontSize = defaultHeadingFontSize
	}
	if level < 1 {
		level = 1
	} else if level > 6 {
		level = 6
	}
	align := attrString(block.Attributes, "textAlign", "left")
	text := escapeHTML(stripTags(block.JoinedContent()))
	return fmt.Sprintf(
		`<h%d style="margin:0 0 16px 0;font-size:%dpx;line-height:1.3;text-align:%s;">%s</h%d>`,
		level, fontSize, escapeAttr(align), text, level,
	)
}

func renderImage(block Block, _ *RenderSession, _ *RenderContext) string {
	src := attrString(block.Attributes, "url", "")
	if src == "" {
		return ""
	}
	alt := attrString(block.Attributes, "alt", "")
	dims := ""
	if width := attrInt(block.Attributes, "width", 0); width > 0 {
		dims += fmt.Sprintf(` width="%d"`, width)
	}
	if height := attrInt(block.Attributes, "height", 0); height > 0 {
		dims += fmt.Sprintf(` height="%d"`, height)
	}
	return fmt.Sprintf(
		`<img src="%s" alt="%s"%s style="max-width:100%%;height:auto;display:block;border:0;" />`,
		escapeURL(src), escapeAttr(alt), dims,
	)
}

// renderButton emits the dual-rendering pattern: a VML rounded rectangle
// inside an MSO conditional comment for Outlook desktop, immediately
// followed by a table-based button hidden from Outlook via mso-hide.
// Both carry the same label, colors, and URL.
func renderButton(block Block, _ *RenderSession, _ *RenderContext) string {
	text := attrString(block.Attributes, "text", "")
	href := attrString(block.Attributes, "url", "")
	if text == "" || href == "" {
		return ""
	}
	bg := attrString(block.Attributes, "backgroundColor", "#007cba")
	color := attrString(block.Attributes, "textColor", "#ffffff")
	radius := attrInt(block.Attributes, "borderRadius", 4)

	var sb strings.Builder
	fmt.Fprintf(&sb,
		`<!--[if mso]><v:roundrect xmlns:v="urn:schemas-microsoft-com:vml" xmlns:w="urn:schemas-microsoft-com:office:word" href="%s" style="height:44px;v-text-anchor:middle;width:220px;" arcsize="10%%" strokecolor="%s" fillcolor="%s"><w:anchorlock/><center style="color:%s;font-family:Arial,sans-serif;font-size:16px;font-weight:bold;">%s</center></v:roundrect><![endif]-->`,
		escapeURL(href), escapeAttr(bg), escapeAttr(bg), escapeAttr(color), escapeHTML(text),
	)
	fmt.Fprintf(&sb,
		`<table role="presentation" border="0" cellpadding="0" cellspacing="0" style="mso-hide:all;"><tr><td align="center" style="border-radius:%dpx;background-color:%s;"><a href="%s" target="_blank" style="display:inline-block;padding:12px 24px;font-family:Arial,sans-serif;font-size:16px;font-weight:bold;color:%s;text-decoration:none;border-radius:%dpx;">%s</a></td></tr></table>`,
		radius, escapeAttr(bg), escapeURL(href), escapeAttr(color), radius, escapeHTML(text),
	)
	return sb.String()
}

func renderButtons(block Block, sess *RenderSession, rctx *RenderContext) string {
	vertical := strings.EqualFold(attrPath(block.Attributes, "layout", "orientation"), "vertical")

	var sb strings.Builder
	for i := range block.InnerBlocks {
		child := block.InnerBlocks[i]
		if child.Name != "core/button" {
			continue
		}
		rendered := sess.Render(child, rctx)
		if rendered == "" {
			continue
		}
		if vertical {
			fmt.Fprintf(&sb,
				`<table role="presentation" width="100%%" border="0" cellpadding="0" cellspacing="0"><tr><td style="padding:0 0 12px 0;">%s</td></tr></table>`,
				rendered,
			)
		} else {
			sb.WriteString(rendered)
		}
	}
	return sb.String()
}

// renderColumns emits one table row with one cell per core/column child.
// Widths are round(100/n) percent; totals may drift from 100 due to
// rounding, which is the accepted tradeoff for integer widths.
func renderColumns(block Block, sess *RenderSession, rctx *RenderContext) string {
	var columns []Block
	for i := range block.InnerBlocks {
		if block.InnerBlocks[i].Name == "core/column" {
			columns = append(columns, block.InnerBlocks[i])
		}
	}
	if len(columns) == 0 {
		return ""
	}
	width := int(math.Round(100 / float64(len(columns))))

	var sb strings.Builder
	sb.WriteString(`<table role="presentation" width="100%" border="0" cellpadding="0" cellspacing="0"><tr>`)
	for i := range columns {
		fmt.Fprintf(&sb,
			`<td width="%d%%" valign="top" class="mobile-stack" style="width:%d%%;vertical-align:top;">%s</td>`,
			width, width, sess.RenderAll(columns[i].InnerBlocks, rctx),
		)
	}
	sb.WriteString(`</tr></table>`)
	return sb.String()
}

func renderGroup(block Block, sess *RenderSession, rctx *RenderContext) string {
	bg := attrPath(block.Attributes, "style", "color", "background")
	if bg == "" {
		bg = "transparent"
	}
	return fmt.Sprintf(
		`<table role="presentation" width="100%%" border="0" cellpadding="0" cellspacing="0"><tr><td style="background-color:%s;">%s</td></tr></table>`,
		escapeAttr(bg), sess.RenderAll(block.InnerBlocks, rctx),
	)
}

func renderSpacer(block Block, _ *RenderSession, _ *RenderContext) string {
	height := attrInt(block.Attributes, "height", 100)
	if height < 0 {
		height = 100
	}
	return fmt.Sprintf(
		`<table role="presentation" width="100%%" border="0" cellpadding="0" cellspacing="0"><tr><td height="%d" style="height:%dpx;font-size:0;line-height:0;">&nbsp;</td></tr></table>`,
		height, height,
	)
}

func renderSeparator(block Block, _ *RenderSession, _ *RenderContext) string {
	color := attrString(block.Attributes, "color", "#ddd")
	style := attrString(block.Attributes, "borderStyle", "solid")
	return fmt.Sprintf(
		`<table role="presentation" width="100%%" border="0" cellpadding="0" cellspacing="0"><tr><td style="border-top:1px %s %s;font-size:0;line-height:0;">&nbsp;</td></tr></table>`,
		escapeAttr(style), escapeAttr(color),
	)
}
