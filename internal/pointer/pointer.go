// Package pointer builds and follows RFC 6901 JSON Pointers.
//
// The empty pointer denotes the document root. Segments are escaped with
// Escape before they are appended, so two distinct locations never share a
// pointer.
package pointer

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/mcncl/schemaref/internal/models"
)

var (
	// ErrInvalidPointer is returned for pointers that do not start with '/'.
	ErrInvalidPointer = errors.New("invalid JSON pointer")
	// ErrNotFound is returned when a pointer does not address a value.
	ErrNotFound = errors.New("JSON pointer does not match a value")
)

// Both replacers make a single pass over the input, so output of one pair is
// never rewritten by another.
var (
	encoder = strings.NewReplacer("~", "~0", "/", "~1")
	decoder = strings.NewReplacer("~1", "/", "~0", "~")
)

// Escape encodes a reference token.
func Escape(token string) string {
	return encoder.Replace(token)
}

// Unescape decodes a reference token. Unescape(Escape(s)) == s for every s.
func Unescape(token string) string {
	return decoder.Replace(token)
}

// Push appends segment to pointer. The pointer is not normalized.
func Push(pointer, segment string) string {
	return pointer + "/" + Escape(segment)
}

// PushIndex appends an array index to pointer.
func PushIndex(pointer string, index int) string {
	return pointer + "/" + strconv.Itoa(index)
}

// Join builds a pointer from unescaped segments.
func Join(segments ...string) string {
	var b strings.Builder
	for _, s := range segments {
		b.WriteByte('/')
		b.WriteString(Escape(s))
	}
	return b.String()
}

// Split returns the unescaped segments of pointer. The root pointer yields
// no segments.
func Split(pointer string) ([]string, error) {
	if pointer == "" {
		return nil, nil
	}
	if pointer[0] != '/' {
		return nil, fmt.Errorf("%w: %q must start with '/'", ErrInvalidPointer, pointer)
	}
	parts := strings.Split(pointer[1:], "/")
	for i, p := range parts {
		parts[i] = Unescape(p)
	}
	return parts, nil
}

// Get returns the value addressed by pointer inside doc. A pointer in URI
// fragment form ("#/a/b") is accepted and percent-decoded first.
func Get(doc models.Value, pointer string) (models.Value, error) {
	if strings.HasPrefix(pointer, "#") {
		decoded, err := url.PathUnescape(pointer[1:])
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrInvalidPointer, pointer, err)
		}
		pointer = decoded
	}

	segments, err := Split(pointer)
	if err != nil {
		return nil, err
	}

	current := doc
	for i, seg := range segments {
		switch node := current.(type) {
		case *models.Object:
			next, ok := node.Get(seg)
			if !ok {
				return nil, fmt.Errorf("%w: %q has no member %q", ErrNotFound, Join(segments[:i]...), seg)
			}
			current = next
		case models.Array:
			idx, err := arrayIndex(seg)
			if err != nil || idx >= len(node) {
				return nil, fmt.Errorf("%w: %q has no index %q", ErrNotFound, Join(segments[:i]...), seg)
			}
			current = node[idx]
		default:
			return nil, fmt.Errorf("%w: %q is a %s", ErrNotFound, Join(segments[:i]...), kindOf(current))
		}
	}
	return current, nil
}

// arrayIndex parses an RFC 6901 array index: no sign, no leading zeros.
func arrayIndex(seg string) (int, error) {
	if seg == "" || (len(seg) > 1 && seg[0] == '0') {
		return 0, ErrInvalidPointer
	}
	for i := 0; i < len(seg); i++ {
		if seg[i] < '0' || seg[i] > '9' {
			return 0, ErrInvalidPointer
		}
	}
	return strconv.Atoi(seg)
}

func kindOf(v models.Value) string {
	if v == nil {
		return "null"
	}
	return v.Kind().String()
}
