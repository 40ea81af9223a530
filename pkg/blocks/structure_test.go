package blocks

import (
	"strings"
	"testing"
)

func TestBuildHeaderDefaults(t *testing.T) {
	got := BuildHeader(StructureOptions{})

	for _, want := range []string{
		"<!DOCTYPE html>",
		`xmlns:v="urn:schemas-microsoft-com:vml"`,
		"<!--[if mso]>",
		"<o:PixelsPerInch>96</o:PixelsPerInch>",
		"-webkit-text-size-adjust: 100%",
		"mso-table-lspace: 0pt",
		"@media only screen and (max-width: 600px)",
		`class="email-container" width="600"`,
		"width:600px;max-width:800px",
		"background-color:#f4f4f4",
		"color:#333333",
		"font-family:Arial, Helvetica, sans-serif",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("header missing %q", want)
		}
	}
	if strings.Contains(got, "<title>") {
		t.Errorf("title emitted without being set")
	}
}

func TestBuildHeaderCustomOptions(t *testing.T) {
	got := BuildHeader(StructureOptions{
		EmailWidth:      640,
		MaxWidth:        900,
		BackgroundColor: "#000000",
		TextColor:       "#eeeeee",
		FontFamily:      "Georgia, serif",
		Title:           "Weekly <Digest>",
	})

	for _, want := range []string{
		`width="640"`,
		"width:640px;max-width:900px",
		"@media only screen and (max-width: 640px)",
		"background-color:#000000",
		"color:#eeeeee",
		"font-family:Georgia, serif",
		"<title>Weekly &lt;Digest&gt;</title>",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("header missing %q\ngot: %s", want, got)
		}
	}
}

func TestHeaderFooterPairing(t *testing.T) {
	doc := BuildHeader(StructureOptions{}) + "<p>content</p>" + BuildFooter(StructureOptions{})

	pairs := [][2]string{
		{"<html", "</html>"},
		{"<head", "</head>"},
		{"<body", "</body>"},
		{"<table", "</table>"},
		{"<tr", "</tr>"},
		{"<td", "</td>"},
	}
	for _, p := range pairs {
		open, close := strings.Count(doc, p[0]), strings.Count(doc, p[1])
		if open != close {
			t.Errorf("%s opened %d times but closed %d times", p[0], open, close)
		}
	}
}

func TestBuildFooterClosesInReverseOrder(t *testing.T) {
	got := BuildFooter(StructureOptions{})
	want := "</td></tr>\n</table>\n</td></tr>\n</table>\n</body>\n</html>"
	if got != want {
		t.Errorf("footer = %q, want %q", got, want)
	}
}
