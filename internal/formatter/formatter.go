package formatter

import (
	"bytes"
	"fmt"
	"strings"

	json "github.com/goccy/go-json"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/mcncl/schemaref/internal/extract"
	"github.com/mcncl/schemaref/internal/models"
	"github.com/mcncl/schemaref/internal/ref"
)

// Format selects how results are rendered
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// ParseFormat validates a format name
func ParseFormat(name string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(name))) {
	case "", FormatJSON:
		return FormatJSON, nil
	case FormatText:
		return FormatText, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want json or text)", name)
	}
}

// Formatter renders traversal and resolution results
type Formatter struct {
	format Format
}

// NewFormatter creates a new Formatter instance
func NewFormatter(format Format) *Formatter {
	if format == "" {
		format = FormatJSON
	}
	return &Formatter{format: format}
}

// Field is one named value of a flat result
type Field struct {
	Name  string
	Value any
}

// AsString returns the compact JSON text of v with member order preserved
func AsString(v models.Value) string {
	return string(AppendJSON(nil, v))
}

// AppendJSON appends the compact JSON encoding of v to buf
func AppendJSON(buf []byte, v models.Value) []byte {
	switch val := v.(type) {
	case nil, models.Null:
		return append(buf, "null"...)
	case models.Bool:
		if val {
			return append(buf, "true"...)
		}
		return append(buf, "false"...)
	case models.Number:
		return append(buf, val.Text()...)
	case models.String:
		return appendString(buf, string(val))
	case models.Array:
		buf = append(buf, '[')
		for i, item := range val {
			if i > 0 {
				buf = append(buf, ',')
			}
			buf = AppendJSON(buf, item)
		}
		return append(buf, ']')
	case *models.Object:
		buf = append(buf, '{')
		first := true
		_ = val.Each(func(key string, item models.Value) error {
			if !first {
				buf = append(buf, ',')
			}
			first = false
			buf = appendString(buf, key)
			buf = append(buf, ':')
			buf = AppendJSON(buf, item)
			return nil
		})
		return append(buf, '}')
	default:
		return append(buf, "null"...)
	}
}

func appendString(buf []byte, s string) []byte {
	encoded, err := json.Marshal(s)
	if err != nil {
		// Strings always encode; keep the output well-formed regardless.
		return append(buf, `""`...)
	}
	return append(buf, encoded...)
}

// Value renders a single document value
func (f *Formatter) Value(v models.Value) (string, error) {
	if f.format == FormatText {
		if s, ok := v.(models.String); ok {
			return string(s), nil
		}
	}
	return indent(AppendJSON(nil, v))
}

// Matches renders a pointer-to-value match map
func (f *Formatter) Matches(m *extract.Matches) (string, error) {
	if f.format == FormatText {
		rows := make([][]string, 0, m.Len())
		_ = m.Each(func(ptr string, v models.Value) error {
			rows = append(rows, []string{displayPointer(ptr), AsString(v)})
			return nil
		})
		return table([]string{"POINTER", "VALUE"}, rows), nil
	}

	buf := []byte{'{'}
	first := true
	_ = m.Each(func(ptr string, v models.Value) error {
		if !first {
			buf = append(buf, ',')
		}
		first = false
		buf = appendString(buf, ptr)
		buf = append(buf, ':')
		buf = AppendJSON(buf, v)
		return nil
	})
	buf = append(buf, '}')
	return indent(buf)
}

type referenceJSON struct {
	Pointer  string `json:"pointer"`
	Ref      string `json:"ref"`
	Kind     string `json:"kind"`
	Scope    string `json:"scope,omitempty"`
	Resolved string `json:"resolved"`
}

// References renders collected references
func (f *Formatter) References(refs []ref.Reference) (string, error) {
	if f.format == FormatText {
		rows := make([][]string, 0, len(refs))
		for _, r := range refs {
			rows = append(rows, []string{displayPointer(r.Pointer), r.Kind.String(), r.Raw, r.Resolved})
		}
		return table([]string{"POINTER", "KIND", "REF", "RESOLVED"}, rows), nil
	}

	out := make([]referenceJSON, 0, len(refs))
	for _, r := range refs {
		out = append(out, referenceJSON{
			Pointer:  r.Pointer,
			Ref:      r.Raw,
			Kind:     r.Kind.String(),
			Scope:    r.Scope,
			Resolved: r.Resolved,
		})
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode references: %w", err)
	}
	return string(data), nil
}

// Identifiers renders an identifier-to-pointer map
func (f *Formatter) Identifiers(ids *orderedmap.OrderedMap[string, string]) (string, error) {
	if f.format == FormatText {
		rows := make([][]string, 0, ids.Len())
		for pair := ids.Oldest(); pair != nil; pair = pair.Next() {
			rows = append(rows, []string{pair.Key, displayPointer(pair.Value)})
		}
		return table([]string{"ID", "POINTER"}, rows), nil
	}

	data, err := json.Marshal(ids)
	if err != nil {
		return "", fmt.Errorf("failed to encode identifiers: %w", err)
	}
	return indent(data)
}

// Fields renders a flat record, keeping field order
func (f *Formatter) Fields(fields []Field) (string, error) {
	if f.format == FormatText {
		width := 0
		for _, fl := range fields {
			width = max(width, len(fl.Name))
		}
		lines := make([]string, 0, len(fields))
		for _, fl := range fields {
			lines = append(lines, fmt.Sprintf("%-*s  %v", width+1, fl.Name+":", fl.Value))
		}
		return strings.Join(lines, "\n"), nil
	}

	buf := []byte{'{'}
	for i, fl := range fields {
		if i > 0 {
			buf = append(buf, ',')
		}
		buf = appendString(buf, fl.Name)
		buf = append(buf, ':')
		encoded, err := json.Marshal(fl.Value)
		if err != nil {
			return "", fmt.Errorf("failed to encode field %q: %w", fl.Name, err)
		}
		buf = append(buf, encoded...)
	}
	buf = append(buf, '}')
	return indent(buf)
}

func indent(compact []byte) (string, error) {
	var out bytes.Buffer
	if err := json.Indent(&out, compact, "", "  "); err != nil {
		return "", fmt.Errorf("failed to indent JSON: %w", err)
	}
	return out.String(), nil
}

// displayPointer labels the empty root pointer so table cells are never blank
func displayPointer(ptr string) string {
	if ptr == "" {
		return "(root)"
	}
	return ptr
}

// table aligns rows under headers, two spaces between columns
func table(headers []string, rows [][]string) string {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], len(cell))
		}
	}

	var b strings.Builder
	writeRow := func(cells []string) {
		for i, cell := range cells {
			if i == len(cells)-1 {
				b.WriteString(cell)
				break
			}
			fmt.Fprintf(&b, "%-*s  ", widths[i], cell)
		}
		b.WriteByte('\n')
	}
	writeRow(headers)
	for _, row := range rows {
		writeRow(row)
	}
	return strings.TrimRight(b.String(), "\n")
}
