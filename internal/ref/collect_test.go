package ref

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcncl/schemaref/internal/extract"
	"github.com/mcncl/schemaref/internal/models"
	"github.com/mcncl/schemaref/internal/parser"
	"github.com/mcncl/schemaref/internal/pointer"
)

const scopedSchema = `{
	"$id": "http://example.com/root.json",
	"properties": {
		"local": {"$ref": "#/definitions/a"},
		"sibling": {"$ref": "other.json#/b"},
		"absolute": {"$ref": "https://cdn.example.org/s.json"}
	},
	"definitions": {
		"a": {"type": "string"},
		"nested": {
			"$id": "nested/",
			"items": [
				{"$ref": "item.json"},
				{"$id": "deeper.json", "$ref": "#/x"}
			]
		}
	}
}`

func mustParse(t *testing.T, doc string) models.Value {
	t.Helper()
	v, err := parser.ParseString(doc)
	require.NoError(t, err)
	return v
}

func TestCollect(t *testing.T) {
	doc := mustParse(t, scopedSchema)

	refs, err := Collect(doc, DefaultOptions())
	require.NoError(t, err)

	want := []Reference{
		{
			Pointer:  "/properties/local",
			Raw:      "#/definitions/a",
			Kind:     KindInternal,
			Scope:    "http://example.com/root.json",
			Resolved: "http://example.com/root.json#/definitions/a",
		},
		{
			Pointer:  "/properties/sibling",
			Raw:      "other.json#/b",
			Kind:     KindRelative,
			Scope:    "http://example.com/root.json",
			Resolved: "http://example.com/other.json#/b",
		},
		{
			Pointer:  "/properties/absolute",
			Raw:      "https://cdn.example.org/s.json",
			Kind:     KindExternal,
			Scope:    "http://example.com/root.json",
			Resolved: "https://cdn.example.org/s.json",
		},
		{
			Pointer:  "/definitions/nested/items/0",
			Raw:      "item.json",
			Kind:     KindRelative,
			Scope:    "http://example.com/nested/",
			Resolved: "http://example.com/nested/item.json",
		},
		{
			Pointer:  "/definitions/nested/items/1",
			Raw:      "#/x",
			Kind:     KindInternal,
			Scope:    "http://example.com/nested/deeper.json",
			Resolved: "http://example.com/nested/deeper.json#/x",
		},
	}
	assert.Equal(t, want, refs)
}

func TestCollect_BaseScopeAndNoIdentifiers(t *testing.T) {
	doc := mustParse(t, `{"items": {"$ref": "defs.json#/a"}}`)

	opts := DefaultOptions()
	opts.BaseScope = "file:///schemas/root.json"
	refs, err := Collect(doc, opts)
	require.NoError(t, err)
	require.Len(t, refs, 1)
	assert.Equal(t, "file:///schemas/defs.json#/a", refs[0].Resolved)

	refs, err = Collect(doc, DefaultOptions())
	require.NoError(t, err)
	require.Len(t, refs, 1)
	assert.Equal(t, "defs.json#/a", refs[0].Resolved, "without a scope the reference is returned as is")
}

func TestCollect_CustomKeywords(t *testing.T) {
	doc := mustParse(t, `{"id": "http://x/root.json", "a": {"$ref": "ignored"}, "b": {"$link": "b.json"}}`)

	opts := Options{RefKeywords: []string{"$link"}, IDKeywords: []string{"id"}}
	refs, err := Collect(doc, opts)
	require.NoError(t, err)
	require.Len(t, refs, 1)
	assert.Equal(t, "/b", refs[0].Pointer)
	assert.Equal(t, "http://x/b.json", refs[0].Resolved)
}

func TestCollect_ResolutionErrorAborts(t *testing.T) {
	doc := mustParse(t, `{"$id": "http://x/root.json", "a": {"$ref": "ok.json"}, "b": {"$ref": "%zz"}}`)

	refs, err := Collect(doc, DefaultOptions())
	require.ErrorIs(t, err, ErrInvalidURI)
	assert.Nil(t, refs)
	assert.Contains(t, err.Error(), `"/b"`)
}

func TestCollect_MaxDepth(t *testing.T) {
	doc := mustParse(t, `{"a": {"b": {"c": {"$ref": "#"}}}}`)

	opts := DefaultOptions()
	opts.MaxDepth = 2
	_, err := Collect(doc, opts)
	assert.ErrorIs(t, err, extract.ErrTooDeep)
}

func TestIdentifiers(t *testing.T) {
	doc := mustParse(t, scopedSchema)

	ids, err := Identifiers(doc, DefaultOptions())
	require.NoError(t, err)

	var got [][2]string
	for pair := ids.Oldest(); pair != nil; pair = pair.Next() {
		got = append(got, [2]string{pair.Key, pair.Value})
	}
	assert.Equal(t, [][2]string{
		{"http://example.com/root.json", ""},
		{"http://example.com/nested/", "/definitions/nested"},
		{"http://example.com/nested/deeper.json", "/definitions/nested/items/1"},
	}, got)
}

func TestLookup(t *testing.T) {
	doc := mustParse(t, scopedSchema)

	v, err := Lookup(doc, "#/definitions/a")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"type": "string"}, models.ToNative(v))

	v, err = Lookup(doc, "#")
	require.NoError(t, err)
	assert.Equal(t, doc, v)

	_, err = Lookup(doc, "#/definitions/missing")
	assert.ErrorIs(t, err, pointer.ErrNotFound)

	_, err = Lookup(doc, "other.json#/b")
	assert.ErrorIs(t, err, ErrNotInternal)
}
