// Package template provides named document templates and the registry
// that manages them.
package template

import "encoding/json"

// DefaultCategory is assigned when a template is added without one.
const DefaultCategory = "general"

// Template describes a reusable document shape: styling values,
// layout hints, and a human description.
type Template struct {
	Name        string         `json:"name"`
	Category    string         `json:"category"`
	Style       map[string]any `json:"style,omitempty"`
	Layout      map[string]any `json:"layout,omitempty"`
	Description string         `json:"description,omitempty"`
}

// New creates a template. An empty category becomes DefaultCategory.
func New(name, category string) *Template {
	if category == "" {
		category = DefaultCategory
	}
	return &Template{
		Name:     name,
		Category: category,
		Style:    make(map[string]any),
		Layout:   make(map[string]any),
	}
}

// Clone returns a deep-enough copy: the maps are copied one level so
// callers cannot mutate registry state through a returned template.
func (t *Template) Clone() *Template {
	c := &Template{
		Name:        t.Name,
		Category:    t.Category,
		Description: t.Description,
		Style:       make(map[string]any, len(t.Style)),
		Layout:      make(map[string]any, len(t.Layout)),
	}
	for k, v := range t.Style {
		c.Style[k] = v
	}
	for k, v := range t.Layout {
		c.Layout[k] = v
	}
	return c
}

// Marshal serializes the template for storage.
func (t *Template) Marshal() ([]byte, error) {
	return json.MarshalIndent(t, "", "  ")
}

// Unmarshal deserializes a stored template blob. A blob with an empty
// category is normalized to DefaultCategory.
func Unmarshal(data []byte) (*Template, error) {
	var t Template
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, err
	}
	if t.Category == "" {
		t.Category = DefaultCategory
	}
	if t.Style == nil {
		t.Style = make(map[string]any)
	}
	if t.Layout == nil {
		t.Layout = make(map[string]any)
	}
	return &t, nil
}
