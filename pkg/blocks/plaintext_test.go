package blocks

import (
	"strings"
	"testing"
)

func TestExtractPlainTextAnchors(t *testing.T) {
	html := `<p>Read <a href="https://site.test/post">the announcement</a> today.</p>`
	got := ExtractPlainText(html)

	if !strings.Contains(got, "the announcement (https://site.test/post)") {
		t.Errorf("anchor not rewritten: %q", got)
	}
}

func TestExtractPlainTextAnchorWithoutLabel(t *testing.T) {
	got := ExtractPlainText(`<a href="https://site.test/x"><img src="i.png"></a>`)
	if !strings.Contains(got, "https://site.test/x") {
		t.Errorf("bare anchor lost its URL: %q", got)
	}
}

func TestExtractPlainTextDropsInvisibleContent(t *testing.T) {
	html := `<html><head><title>ignored</title><style>p{color:red}</style></head>` +
		`<body><p>visible</p><script>alert(1)</script></body></html>`
	got := ExtractPlainText(html)

	if got != "visible" {
		t.Errorf("expected only visible text, got %q", got)
	}
}

func TestExtractPlainTextBlockBoundaries(t *testing.T) {
	html := `<h1>Title</h1><p>First paragraph.</p><p>Second paragraph.</p>`
	got := ExtractPlainText(html)

	lines := strings.Split(got, "\n")
	var nonEmpty []string
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			nonEmpty = append(nonEmpty, l)
		}
	}
	want := []string{"Title", "First paragraph.", "Second paragraph."}
	if len(nonEmpty) != len(want) {
		t.Fatalf("expected %d lines, got %d: %q", len(want), len(nonEmpty), got)
	}
	for i, w := range want {
		if nonEmpty[i] != w {
			t.Errorf("line %d = %q, want %q", i, nonEmpty[i], w)
		}
	}
}

func TestExtractPlainTextCollapsesBlankLines(t *testing.T) {
	html := `<div></div><div></div><div></div><p>after the gap</p>`
	got := ExtractPlainText(html)

	if strings.Contains(got, "\n\n\n") {
		t.Errorf("blank lines not collapsed: %q", got)
	}
	if !strings.Contains(got, "after the gap") {
		t.Errorf("content lost: %q", got)
	}
}

func TestExtractPlainTextFromRenderedEmail(t *testing.T) {
	template := []Block{
		{Name: "core/heading", Attributes: MapOfAny{"level": float64(1)}, InnerContent: []string{"<h1>Welcome</h1>"}},
		slot(MapOfAny{"slotId": "feat"}),
	}
	html := BuildHeader(StructureOptions{Title: "Digest"}) +
		RenderTemplateBlocks(template, map[string]int64{"feat": 42}, Options{Content: testContent()}) +
		BuildFooter(StructureOptions{})

	got := ExtractPlainText(html)

	if strings.Contains(got, "Digest") {
		t.Errorf("head title leaked into plain text: %q", got)
	}
	for _, want := range []string{"Welcome", "Hello World", "Lorem ipsum dolor sit amet", "Read more (https://site.test/hello-world)"} {
		if !strings.Contains(got, want) {
			t.Errorf("plain text missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "<") {
		t.Errorf("markup leaked into plain text: %q", got)
	}
}
