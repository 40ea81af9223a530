package blocks

import (
	"strings"
	"testing"
)

// fakeContent implements ContentAccessor for tests.
type fakeContent struct {
	posts    map[int64]*PostContent
	images   map[int64]map[string]string
	archives map[string]string
}

func (f *fakeContent) Post(id int64) (*PostContent, bool) {
	post, ok := f.posts[id]
	return post, ok
}

func (f *fakeContent) FeaturedImageURL(id int64, size string) string {
	if sizes, ok := f.images[id]; ok {
		return sizes[size]
	}
	return ""
}

func (f *fakeContent) ArchiveURL(postType string) string {
	return f.archives[postType]
}

func testContent() *fakeContent {
	return &fakeContent{
		posts: map[int64]*PostContent{
			42: {
				ID:        42,
				Title:     "Hello World",
				Permalink: "https://site.test/hello-world",
				Excerpt:   "Lorem ipsum dolor sit amet",
				PostType:  "post",
			},
			7: {
				ID:        7,
				Title:     "Product Update",
				Permalink: "https://site.test/update",
				Content:   "<p>The long body of the update post with plenty of words to excerpt from.</p>",
				PostType:  "news",
			},
		},
		images: map[int64]map[string]string{
			7: {"large": "https://site.test/update-large.jpg"},
		},
		archives: map[string]string{
			"news": "https://site.test/news",
		},
	}
}

func slot(attrs MapOfAny, inner ...Block) Block {
	return Block{Name: SlotBlockName, Attributes: attrs, InnerBlocks: inner}
}

func TestSlotKeyDeterminism(t *testing.T) {
	// One unlabeled slot nested two levels deep before another at the
	// top level: keys are assigned in pre-order encounter order.
	tree := []Block{
		{Name: "core/group", InnerBlocks: []Block{
			{Name: "core/group", InnerBlocks: []Block{slot(nil)}},
		}},
		slot(nil),
	}

	got := RenderTemplateBlocks(tree, nil, Options{})
	first := strings.Index(got, `data-cb-slot="slot_1"`)
	second := strings.Index(got, `data-cb-slot="slot_2"`)
	if first < 0 || second < 0 || first > second {
		t.Fatalf("expected slot_1 before slot_2 in %s", got)
	}

	// A second independent render restarts the counter.
	again := RenderTemplateBlocks(tree, nil, Options{})
	if again != got {
		t.Errorf("render is not deterministic across sessions")
	}

	// Discovery uses the same key assignment rule.
	descriptors := DiscoverSlots(tree)
	if len(descriptors) != 2 {
		t.Fatalf("expected 2 slots, got %d", len(descriptors))
	}
	if descriptors[0].Key != "slot_1" || descriptors[1].Key != "slot_2" {
		t.Errorf("discovery keys %q, %q; want slot_1, slot_2", descriptors[0].Key, descriptors[1].Key)
	}
}

func TestSlotExplicitKeySanitized(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"feat", "feat"},
		{"Featured Story!", "featuredstory"},
		{"  lead-1  ", "lead-1"},
		// Sanitizes to empty: falls back to the counter.
		{"!!!", "slot_1"},
	}
	for _, tt := range tests {
		got := RenderTemplateBlocks([]Block{slot(MapOfAny{"slotId": tt.raw})}, nil, Options{})
		if !strings.Contains(got, `data-cb-slot="`+tt.want+`"`) {
			t.Errorf("slotId %q: expected key %q in %s", tt.raw, tt.want, got)
		}
	}
}

func TestSlotResolvesThroughSlotMap(t *testing.T) {
	content := testContent()
	got := RenderTemplateBlocks(
		[]Block{slot(MapOfAny{"slotId": "feat"})},
		map[string]int64{"feat": 42},
		Options{Content: content},
	)

	for _, want := range []string{
		`<div data-cb-slot="feat">`,
		"<h3", "Hello World",
		"Lorem ipsum dolor sit amet",
		">Read more</a>",
		`href="https://site.test/hello-world"`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q\ngot: %s", want, got)
		}
	}
	// Post 42 has no featured image.
	if strings.Contains(got, "<img") {
		t.Errorf("unexpected image in %s", got)
	}
}

func TestSlotFallsBackToPostIdAttribute(t *testing.T) {
	got := RenderTemplateBlocks(
		[]Block{slot(MapOfAny{"slotId": "feat", "postId": float64(7)})},
		nil,
		Options{Content: testContent()},
	)
	if !strings.Contains(got, "Product Update") {
		t.Errorf("expected postId attribute fallback, got %s", got)
	}
	if !strings.Contains(got, "https://site.test/update-large.jpg") {
		t.Errorf("expected featured image, got %s", got)
	}
}

func TestSlotWithoutPostRendersEmptyWrapper(t *testing.T) {
	got := RenderTemplateBlocks(
		[]Block{slot(MapOfAny{"slotId": "feat"})},
		nil,
		Options{Content: testContent()},
	)
	if got != `<div data-cb-slot="feat"></div>` {
		t.Errorf("expected empty wrapped slot, got %q", got)
	}
}

func TestSlotMappedToMissingPost(t *testing.T) {
	t.Run("card collapses to empty wrapper", func(t *testing.T) {
		got := RenderTemplateBlocks(
			[]Block{slot(MapOfAny{"slotId": "feat"})},
			map[string]int64{"feat": 999},
			Options{Content: testContent()},
		)
		if got != `<div data-cb-slot="feat"></div>` {
			t.Errorf("expected empty wrapped slot for vanished post, got %q", got)
		}
	})

	t.Run("custom layout survives the vanished post", func(t *testing.T) {
		got := RenderTemplateBlocks(
			[]Block{slot(
				MapOfAny{"slotId": "feat"},
				Block{Name: "core/paragraph", InnerContent: []string{"Editorial intro"}},
			)},
			map[string]int64{"feat": 999},
			Options{Content: testContent()},
		)
		if !strings.Contains(got, `<div data-cb-slot="feat">`) {
			t.Errorf("expected slot wrapper, got %s", got)
		}
		if !strings.Contains(got, "Editorial intro") {
			t.Errorf("expected custom layout body, got %s", got)
		}
	})
}

func TestSlotCustomLayoutWinsOverCard(t *testing.T) {
	custom := slot(
		MapOfAny{"slotId": "feat"},
		Block{Name: "campaignbridge/post-title"},
		Block{Name: "campaignbridge/post-button", Attributes: MapOfAny{"text": "Open"}},
	)
	got := RenderTemplateBlocks(
		[]Block{custom},
		map[string]int64{"feat": 42},
		Options{Content: testContent()},
	)

	if !strings.Contains(got, "Hello World") || !strings.Contains(got, ">Open</a>") {
		t.Errorf("custom layout not rendered: %s", got)
	}
	// The default card excerpt must not appear.
	if strings.Contains(got, "Lorem ipsum") {
		t.Errorf("default card leaked into custom layout: %s", got)
	}
}

func TestSlotEmptyCtaLabelDefaultsToReadMore(t *testing.T) {
	got := RenderTemplateBlocks(
		[]Block{slot(MapOfAny{"slotId": "feat", "ctaLabel": ""})},
		map[string]int64{"feat": 42},
		Options{Content: testContent()},
	)
	if !strings.Contains(got, ">Read more</a>") {
		t.Errorf("expected default CTA label, got %s", got)
	}
}

func TestSlotShowFlags(t *testing.T) {
	got := RenderTemplateBlocks(
		[]Block{slot(MapOfAny{"slotId": "s", "showImage": false, "showExcerpt": false})},
		map[string]int64{"s": 7},
		Options{Content: testContent()},
	)
	if strings.Contains(got, "<img") {
		t.Errorf("image should be suppressed: %s", got)
	}
	if strings.Contains(got, "long body of the update") {
		t.Errorf("excerpt should be suppressed: %s", got)
	}
	if !strings.Contains(got, "Product Update") {
		t.Errorf("title should render: %s", got)
	}
}

func TestSlotLinkWrapping(t *testing.T) {
	t.Run("link to post permalink", func(t *testing.T) {
		got := RenderTemplateBlocks(
			[]Block{slot(MapOfAny{"slotId": "s", "slotLinkEnabled": true})},
			map[string]int64{"s": 42},
			Options{Content: testContent()},
		)
		if !strings.Contains(got, `<a href="https://site.test/hello-world" target="_blank" style="display:block;`) {
			t.Errorf("expected whole-slot permalink wrap: %s", got)
		}
	})

	t.Run("link to post type archive", func(t *testing.T) {
		got := RenderTemplateBlocks(
			[]Block{slot(MapOfAny{"slotId": "s", "slotLinkEnabled": true, "slotLinkTo": "postType"})},
			map[string]int64{"s": 7},
			Options{Content: testContent()},
		)
		if !strings.Contains(got, `<a href="https://site.test/news" target="_blank" style="display:block;`) {
			t.Errorf("expected archive wrap: %s", got)
		}
	})

	t.Run("archive missing falls back to permalink", func(t *testing.T) {
		got := RenderTemplateBlocks(
			[]Block{slot(MapOfAny{"slotId": "s", "slotLinkEnabled": true, "slotLinkTo": "postType"})},
			map[string]int64{"s": 42},
			Options{Content: testContent()},
		)
		if !strings.Contains(got, `<a href="https://site.test/hello-world" target="_blank" style="display:block;`) {
			t.Errorf("expected permalink fallback: %s", got)
		}
	})

	t.Run("disabled leaves content unwrapped", func(t *testing.T) {
		got := RenderTemplateBlocks(
			[]Block{slot(MapOfAny{"slotId": "s"})},
			map[string]int64{"s": 42},
			Options{Content: testContent()},
		)
		if strings.Contains(got, "display:block;text-decoration:none;color:inherit") {
			t.Errorf("unexpected slot link wrap: %s", got)
		}
	})
}

func TestDiscoverSlotsDescriptors(t *testing.T) {
	tree := []Block{
		slot(MapOfAny{"slotId": "lead", "showExcerpt": false, "ctaLabel": "Open"}),
		{Name: "core/group", InnerBlocks: []Block{
			slot(nil, Block{Name: "campaignbridge/post-title"}),
		}},
	}
	got := DiscoverSlots(tree)
	if len(got) != 2 {
		t.Fatalf("expected 2 descriptors, got %d", len(got))
	}

	lead := got[0]
	if lead.Key != "lead" || lead.ShowExcerpt || !lead.ShowImage || lead.CTALabel != "Open" || lead.HasCustomLayout {
		t.Errorf("unexpected first descriptor: %+v", lead)
	}
	second := got[1]
	if second.Key != "slot_1" || !second.HasCustomLayout {
		t.Errorf("unexpected second descriptor: %+v", second)
	}
}

// The end-to-end shape from the rendering contract: heading followed by
// a mapped slot resolving to a post without a featured image.
func TestRenderTemplateBlocksEndToEnd(t *testing.T) {
	tree := []Block{
		{Name: "core/heading", Attributes: MapOfAny{"level": float64(1)}, InnerContent: []string{"Welcome"}},
		slot(MapOfAny{"slotId": "feat"}),
	}
	got := RenderTemplateBlocks(tree, map[string]int64{"feat": 42}, Options{Content: testContent()})

	headingIdx := strings.Index(got, "<h1")
	slotIdx := strings.Index(got, `<div data-cb-slot="feat">`)
	if headingIdx < 0 || slotIdx < 0 || headingIdx > slotIdx {
		t.Fatalf("expected heading before slot in %s", got)
	}
	for _, want := range []string{
		">Welcome</h1>",
		"<h3", "Hello World", "</h3>",
		"Lorem ipsum",
		">Read more</a>",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q\ngot: %s", want, got)
		}
	}
	if strings.Contains(got, "<img") {
		t.Errorf("no featured image expected: %s", got)
	}
}

func TestPostBlocksEmitTokensWithoutContent(t *testing.T) {
	tree := []Block{
		{Name: "campaignbridge/post-title"},
		{Name: "campaignbridge/post-excerpt", Attributes: MapOfAny{"words": float64(25)}},
		{Name: "campaignbridge/post-image", Attributes: MapOfAny{"size": "medium"}},
		{Name: "campaignbridge/post-button"},
	}
	got := ConvertBlocksToHTML(tree, Options{})

	for _, want := range []string{"{post_title}", "{post_excerpt:25}", "{post_image:medium}", "{post_link}"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing token %q\ngot: %s", want, got)
		}
	}
}

func TestPostCardEstablishesContext(t *testing.T) {
	card := Block{
		Name:       "campaignbridge/post-card",
		Attributes: MapOfAny{"postId": float64(7)},
		InnerBlocks: []Block{
			{Name: "campaignbridge/post-title"},
			{Name: "campaignbridge/post-excerpt"},
		},
	}
	got := ConvertBlocksToHTML([]Block{card}, Options{Content: testContent()})

	if !strings.Contains(got, "Product Update") {
		t.Errorf("title should resolve through card context: %s", got)
	}
	if !strings.Contains(got, "long body of the update") {
		t.Errorf("excerpt should derive from content: %s", got)
	}
}
