package blocks

// PostContent is the read-only view of a post the pipeline consumes.
// Hosts adapt their content store to this shape; the pipeline never
// writes back.
type PostContent struct {
	ID        int64
	Title     string
	Permalink string
	Content   string
	Excerpt   string
	PostType  string
}

// ContentAccessor resolves posts and related URLs for slot rendering and
// context-consuming blocks. Post lookups signal "no post" through the
// boolean return instead of an error so the pipeline can degrade to an
// empty fragment.
type ContentAccessor interface {
	// Post returns the post with the given ID, or false when it does not
	// exist or is not available for sending.
	Post(id int64) (*PostContent, bool)
	// FeaturedImageURL returns the post's featured image at the given
	// size, or empty when the post has no image.
	FeaturedImageURL(id int64, size string) string
	// ArchiveURL returns the archive URL for a post type, or empty when
	// the type has no archive.
	ArchiveURL(postType string) string
}
