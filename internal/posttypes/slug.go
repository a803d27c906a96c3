package posttypes

// ResolveSlug returns the path segment that identifies key in public URLs:
// the rewrite slug, else the registered name, else key itself. A nil post
// type resolves to key.
func ResolveSlug(pt *PostType, key string) string {
	if pt != nil {
		if pt.Rewrite.Slug != "" {
			return pt.Rewrite.Slug
		}
		if pt.Name != "" {
			return pt.Name
		}
	}
	return key
}
