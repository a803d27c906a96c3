// Package http provides optional HTTP adapters for slugless.
//
// PermalinkHandler serves public paths: GET resolves the path through the
// rewrite table and returns the post with its permalink.
//
// API mounts read endpoints under /api:
//   - Post types: /post-types, /post-types/{key}
//   - Posts: /posts?type=landing_page, /posts/{id}
//   - Rewrite rules: /rewrite/rules, /rewrite/flush
//
// Host applications can register handlers on their own mux/router as needed.
package http
