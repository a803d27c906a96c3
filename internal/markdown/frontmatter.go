package markdown

import (
	"bytes"
	"fmt"
	"maps"
	"time"

	"github.com/adrg/frontmatter"

	"github.com/goliatone/go-slugless/pkg/interfaces"
)

// ParseFrontMatter splits source into its frontmatter and Markdown body.
func ParseFrontMatter(source []byte) (interfaces.FrontMatter, []byte, error) {
	var meta frontMatterEnvelope

	body, err := frontmatter.Parse(bytes.NewReader(source), &meta)
	if err != nil {
		return interfaces.FrontMatter{}, nil, fmt.Errorf("parse frontmatter: %w", err)
	}

	return envelopeToFrontMatter(meta), body, nil
}

// BuildDocument parses source into a Document. BodyHTML is left empty.
func BuildDocument(path string, source []byte, modified time.Time) (*interfaces.Document, error) {
	fm, body, err := ParseFrontMatter(source)
	if err != nil {
		return nil, err
	}

	return &interfaces.Document{
		FilePath:     path,
		FrontMatter:  fm,
		Body:         body,
		LastModified: modified,
	}, nil
}

type frontMatterEnvelope struct {
	Title        string         `yaml:"title"`
	Slug         string         `yaml:"slug"`
	Status       string         `yaml:"status"`
	Thumbnail    string         `yaml:"thumbnail"`
	Draft        bool           `yaml:"draft"`
	CustomFields map[string]any `yaml:"custom_fields"`
	Extra        map[string]any `yaml:",inline"`
}

func envelopeToFrontMatter(env frontMatterEnvelope) interfaces.FrontMatter {
	raw := make(map[string]any, len(env.Extra)+6)
	maps.Copy(raw, cloneMap(env.Extra))

	if env.Title != "" {
		raw["title"] = env.Title
	}
	if env.Slug != "" {
		raw["slug"] = env.Slug
	}
	if env.Status != "" {
		raw["status"] = env.Status
	}
	if env.Thumbnail != "" {
		raw["thumbnail"] = env.Thumbnail
	}
	if len(env.CustomFields) > 0 {
		raw["custom_fields"] = cloneMap(env.CustomFields)
	}
	raw["draft"] = env.Draft

	return interfaces.FrontMatter{
		Title:        env.Title,
		Slug:         env.Slug,
		Status:       env.Status,
		Thumbnail:    env.Thumbnail,
		Draft:        env.Draft,
		CustomFields: cloneMap(env.CustomFields),
		Raw:          raw,
	}
}

// cloneMap copies input, converting nested YAML maps to map[string]any so the
// values survive JSON encoding.
func cloneMap(input map[string]any) map[string]any {
	if len(input) == 0 {
		return nil
	}
	out := make(map[string]any, len(input))
	for key, value := range input {
		out[key] = normalizeValue(value)
	}
	return out
}

func normalizeValue(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		return cloneMap(typed)
	case map[any]any:
		out := make(map[string]any, len(typed))
		for key, nested := range typed {
			out[fmt.Sprint(key)] = normalizeValue(nested)
		}
		return out
	case []any:
		out := make([]any, len(typed))
		for i, nested := range typed {
			out[i] = normalizeValue(nested)
		}
		return out
	default:
		return value
	}
}
