package querygate

import "encoding/json"

// Filter is a node in a filter expression tree. Source writes the node's
// JSON form for the given peer version; the shape a node renders to may
// depend on the version, its meaning never does.
type Filter interface {
	Source(b *ContentBuilder, v Version) error
}

// RenderFilter renders a filter tree to JSON for the given peer version.
// Rendering the same tree at the same version always yields identical
// bytes.
func RenderFilter(f Filter, v Version) ([]byte, error) {
	b := NewContent()
	if err := f.Source(b, v); err != nil {
		return nil, err
	}
	return b.Bytes()
}

// TermFilter matches documents whose field holds an exact value.
type TermFilter struct {
	field string
	value any
}

// NewTermFilter creates a term filter for a field/value pair.
func NewTermFilter(field string, value any) *TermFilter {
	return &TermFilter{field: field, value: value}
}

// Source renders {"term": {field: value}}.
func (f *TermFilter) Source(b *ContentBuilder, _ Version) error {
	b.StartObject().
		Key("term").StartObject().
		Field(f.field, f.value).
		EndObject().
		EndObject()
	return b.Err()
}

// RawFilter is an opaque, pre-rendered filter leaf. Its bytes pass
// through unchanged; they are never reinterpreted.
type RawFilter json.RawMessage

// Source writes the raw JSON verbatim.
func (f RawFilter) Source(b *ContentBuilder, _ Version) error {
	b.RawValue([]byte(f))
	return b.Err()
}
