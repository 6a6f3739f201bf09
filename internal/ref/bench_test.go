package ref

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mcncl/schemaref/internal/parser"
)

// generateNestedSchema builds a schema where every level declares an
// identifier and width references
func generateNestedSchema(depth, width int) string {
	var b strings.Builder
	var write func(level int)
	write = func(level int) {
		fmt.Fprintf(&b, `{"$id": "level%d/", "type": "object"`, level)
		for i := 0; i < width; i++ {
			fmt.Fprintf(&b, `, "ref_%d": {"$ref": "item%d.json#/definitions/x"}`, i, i)
		}
		if level < depth {
			b.WriteString(`, "properties": {`)
			for i := 0; i < width; i++ {
				if i > 0 {
					b.WriteString(", ")
				}
				fmt.Fprintf(&b, `"nested_%d": `, i)
				write(level + 1)
			}
			b.WriteString("}")
		}
		b.WriteString("}")
	}
	write(0)
	return b.String()
}

// generateWideSchema builds a flat schema with fieldCount properties
func generateWideSchema(fieldCount int) string {
	var b strings.Builder
	b.WriteString(`{"$id": "http://example.com/wide.json", "properties": {`)
	for i := 0; i < fieldCount; i++ {
		if i > 0 {
			b.WriteString(", ")
		}
		switch i % 3 {
		case 0:
			fmt.Fprintf(&b, `"field_%d": {"$ref": "#/definitions/d%d"}`, i, i)
		case 1:
			fmt.Fprintf(&b, `"field_%d": {"type": "integer", "maximum": %d}`, i, i)
		default:
			fmt.Fprintf(&b, `"field_%d": {"items": [{"$ref": "other.json"}, {"type": "string"}]}`, i)
		}
	}
	b.WriteString("}}")
	return b.String()
}

func TestGeneratedSchemas(t *testing.T) {
	doc, err := parser.ParseString(generateNestedSchema(2, 2))
	require.NoError(t, err)
	refs, err := Collect(doc, Options{RefKeywords: []string{"$ref"}, IDKeywords: []string{"$id"}, BaseScope: "http://example.com/"})
	require.NoError(t, err)
	// 1 + 2 + 4 objects, two references each
	require.Len(t, refs, 14)
	require.Equal(t, "http://example.com/level0/level1/level2/item1.json#/definitions/x", refs[len(refs)-1].Resolved)

	doc, err = parser.ParseString(generateWideSchema(30))
	require.NoError(t, err)
	refs, err = Collect(doc, DefaultOptions())
	require.NoError(t, err)
	require.Len(t, refs, 20)
}

// BenchmarkCollectNested measures reference collection on deeply nested scopes
func BenchmarkCollectNested(b *testing.B) {
	depths := []struct {
		name  string
		depth int
		width int
	}{
		{"Depth3Width3", 3, 3},
		{"Depth5Width2", 5, 2},
		{"Depth2Width10", 2, 10},
	}

	for _, d := range depths {
		b.Run(d.name, func(b *testing.B) {
			doc, err := parser.ParseString(generateNestedSchema(d.depth, d.width))
			require.NoError(b, err)
			opts := DefaultOptions()
			opts.BaseScope = "http://example.com/"

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := Collect(doc, opts); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// BenchmarkCollectWide measures reference collection on schemas with many
// properties
func BenchmarkCollectWide(b *testing.B) {
	for _, fields := range []int{10, 100, 1000} {
		b.Run(fmt.Sprintf("Fields%d", fields), func(b *testing.B) {
			doc, err := parser.ParseString(generateWideSchema(fields))
			require.NoError(b, err)

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := Collect(doc, DefaultOptions()); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
