package openapi

import (
	"sort"
	"strings"
)

// Document represents a minimal OpenAPI document describing the module API.
type Document struct {
	OpenAPI    string         `json:"openapi"`
	Info       Info           `json:"info"`
	Paths      map[string]any `json:"paths"`
	Components Components     `json:"components,omitempty"`
	Extensions map[string]any `json:"-"`
}

// Info captures OpenAPI metadata.
type Info struct {
	Title   string `json:"title"`
	Version string `json:"version"`
}

// Components aggregates schema components.
type Components struct {
	Schemas map[string]any `json:"schemas,omitempty"`
}

// NewDocument constructs an empty document.
func NewDocument(title, version string) *Document {
	return &Document{
		OpenAPI: "3.0.3",
		Info: Info{
			Title:   title,
			Version: version,
		},
		Paths:      map[string]any{},
		Components: Components{Schemas: map[string]any{}},
		Extensions: map[string]any{},
	}
}

// AddOperation records method on path. Path parameters use the {name} form.
func (d *Document) AddOperation(method, path, summary string) {
	if d == nil || strings.TrimSpace(path) == "" || strings.TrimSpace(method) == "" {
		return
	}
	item, _ := d.Paths[path].(map[string]any)
	if item == nil {
		item = map[string]any{}
		d.Paths[path] = item
	}
	op := map[string]any{
		"summary":   summary,
		"responses": map[string]any{"200": map[string]any{"description": "OK"}},
	}
	if params := pathParameters(path); len(params) > 0 {
		op["parameters"] = params
	}
	item[strings.ToLower(method)] = op
}

// AddSchema registers a component schema. Empty schemas are ignored.
func (d *Document) AddSchema(name string, schema map[string]any) {
	if d == nil || name == "" || len(schema) == 0 {
		return
	}
	if d.Components.Schemas == nil {
		d.Components.Schemas = map[string]any{}
	}
	d.Components.Schemas[name] = schema
}

// SetExtension sets a vendor extension (x-*) on the document.
func (d *Document) SetExtension(key string, value any) {
	if d == nil || !strings.HasPrefix(key, "x-") {
		return
	}
	if d.Extensions == nil {
		d.Extensions = map[string]any{}
	}
	d.Extensions[key] = value
}

// AsMap returns the document as a map ready for JSON encoding.
func (d *Document) AsMap() map[string]any {
	if d == nil {
		return nil
	}
	out := map[string]any{
		"openapi": d.OpenAPI,
		"info": map[string]any{
			"title":   d.Info.Title,
			"version": d.Info.Version,
		},
		"paths": d.Paths,
	}
	if d.Paths == nil {
		out["paths"] = map[string]any{}
	}
	if len(d.Components.Schemas) > 0 {
		out["components"] = map[string]any{
			"schemas": d.Components.Schemas,
		}
	}
	for key, value := range d.Extensions {
		out[key] = value
	}
	return out
}

// SchemaName converts a post type key into a component name, e.g.
// "landing_page" becomes "LandingPageFields".
func SchemaName(key string) string {
	parts := strings.FieldsFunc(key, func(r rune) bool { return r == '_' || r == '-' })
	var b strings.Builder
	for _, part := range parts {
		b.WriteString(strings.ToUpper(part[:1]))
		b.WriteString(part[1:])
	}
	b.WriteString("Fields")
	return b.String()
}

func pathParameters(path string) []map[string]any {
	var names []string
	for _, segment := range strings.Split(path, "/") {
		if strings.HasPrefix(segment, "{") && strings.HasSuffix(segment, "}") {
			names = append(names, strings.Trim(segment, "{}"))
		}
	}
	sort.Strings(names)
	params := make([]map[string]any, 0, len(names))
	for _, name := range names {
		params = append(params, map[string]any{
			"name":     name,
			"in":       "path",
			"required": true,
			"schema":   map[string]any{"type": "string"},
		})
	}
	return params
}
