package blocks

import (
	"fmt"
	"strings"
)

// StructureOptions sizes and colors the fixed document scaffold.
type StructureOptions struct {
	EmailWidth      int
	MaxWidth        int
	BackgroundColor string
	TextColor       string
	FontFamily      string
	Title           string
}

// Defaults for the scaffold; used wherever an option is zero-valued.
const (
	DefaultEmailWidth      = 600
	DefaultMaxWidth        = 800
	DefaultBackgroundColor = "#f4f4f4"
	DefaultTextColor       = "#333333"
	DefaultFontFamily      = "Arial, Helvetica, sans-serif"
)

func (o StructureOptions) withDefaults() StructureOptions {
	if o.EmailWidth <= 0 {
		o.EmailWidth = DefaultEmailWidth
	}
	if o.MaxWidth <= 0 {
		o.MaxWidth = DefaultMaxWidth
	}
	if o.BackgroundColor == "" {
		o.BackgroundColor = DefaultBackgroundColor
	}
	if o.TextColor == "" {
		o.TextColor = DefaultTextColor
	}
	if o.FontFamily == "" {
		o.FontFamily = DefaultFontFamily
	}
	return o
}

// BuildHeader emits everything from the DOCTYPE through the open content
// cell: the MSO OfficeDocumentSettings block forcing 96 DPI in Outlook, a
// style reset for text-size-adjust / MSO table spacing / image
// interpolation, a width-capping media query, and the centered
// fixed-width container. BuildFooter closes what BuildHeader opens; the
// two are always paired around the body fragments, never emitted
// partially.
func BuildHeader(opts StructureOptions) string {
	o := opts.withDefaults()
	var sb strings.Builder

	sb.WriteString("<!DOCTYPE html>\n")
	sb.WriteString(`<html lang="en" xmlns="http://www.w3.org/1999/xhtml" xmlns:v="urn:schemas-microsoft-com:vml" xmlns:o="urn:schemas-microsoft-com:office:office">` + "\n")
	sb.WriteString("<head>\n")
	sb.WriteString(`<meta charset="utf-8">` + "\n")
	sb.WriteString(`<meta http-equiv="X-UA-Compatible" content="IE=edge">` + "\n")
	if o.Title != "" {
		fmt.Fprintf(&sb, "<title>%s</title>\n", escapeHTML(o.Title))
	}
	sb.WriteString("<!--[if mso]>\n<noscript>\n<xml>\n<o:OfficeDocumentSettings>\n<o:PixelsPerInch>96</o:PixelsPerInch>\n</o:OfficeDocumentSettings>\n</xml>\n</noscript>\n<![endif]-->\n")
	fmt.Fprintf(&sb, `<style>
body { margin: 0; padding: 0; -webkit-text-size-adjust: 100%%; -ms-text-size-adjust: 100%%; }
table, td { mso-table-lspace: 0pt; mso-table-rspace: 0pt; }
img { -ms-interpolation-mode: bicubic; border: 0; outline: none; text-decoration: none; }
@media only screen and (max-width: %dpx) {
.email-container { width: 100%% !important; }
}
</style>
`, o.EmailWidth)
	sb.WriteString("</head>\n")
	fmt.Fprintf(&sb, `<body style="margin:0;padding:0;background-color:%s;color:%s;font-family:%s;">`+"\n",
		escapeAttr(o.BackgroundColor), escapeAttr(o.TextColor), escapeAttr(o.FontFamily))
	fmt.Fprintf(&sb, `<table role="presentation" width="100%%" border="0" cellpadding="0" cellspacing="0" style="background-color:%s;">`+"\n",
		escapeAttr(o.BackgroundColor))
	sb.WriteString(`<tr><td align="center" style="padding:20px 0;">` + "\n")
	fmt.Fprintf(&sb, `<table role="presentation" class="email-container" width="%d" border="0" cellpadding="0" cellspacing="0" style="width:%dpx;max-width:%dpx;margin:0 auto;">`+"\n",
		o.EmailWidth, o.EmailWidth, o.MaxWidth)
	sb.WriteString("<tr><td>\n")
	return sb.String()
}

// BuildFooter closes every tag BuildHeader opened, in reverse nesting
// order.
func BuildFooter(StructureOptions) string {
	return "</td></tr>\n</table>\n</td></tr>\n</table>\n</body>\n</html>"
}
