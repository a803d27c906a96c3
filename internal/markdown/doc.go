// Package markdown loads Markdown files with frontmatter from disk, renders
// them with goldmark and imports them as posts.
package markdown
