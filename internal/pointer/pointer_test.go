package pointer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcncl/schemaref/internal/models"
)

func TestEscape(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "", want: ""},
		{in: "plain", want: "plain"},
		{in: "a/b", want: "a~1b"},
		{in: "x~y", want: "x~0y"},
		{in: "~1", want: "~01"},
		{in: "/~", want: "~1~0"},
		{in: "~/~/", want: "~0~1~0~1"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Escape(tt.in))
			assert.Equal(t, tt.in, Unescape(tt.want))
		})
	}
}

func TestPush(t *testing.T) {
	assert.Equal(t, "/a", Push("", "a"))
	assert.Equal(t, "/a/b~1c", Push("/a", "b/c"))
	assert.Equal(t, "/a/x~0y", Push("/a", "x~y"))
	assert.Equal(t, "/", Push("", ""))
	assert.Equal(t, "//", Push("/", ""))
	assert.Equal(t, "/items/3", PushIndex("/items", 3))
}

func TestJoinAndSplit(t *testing.T) {
	ptr := Join("definitions", "a/b", "~tilde", "0")
	assert.Equal(t, "/definitions/a~1b/~0tilde/0", ptr)

	segments, err := Split(ptr)
	require.NoError(t, err)
	assert.Equal(t, []string{"definitions", "a/b", "~tilde", "0"}, segments)

	segments, err = Split("")
	require.NoError(t, err)
	assert.Empty(t, segments)

	_, err = Split("definitions/a")
	assert.ErrorIs(t, err, ErrInvalidPointer)
}

func TestGet(t *testing.T) {
	doc := models.NewObject()
	defs := models.NewObject()
	defs.Set("a/b", models.String("slash"))
	defs.Set("m~n", models.String("tilde"))
	defs.Set("with space", models.String("space"))
	doc.Set("definitions", defs)
	doc.Set("list", models.Array{models.NewInt(10), models.NewInt(20)})
	doc.Set("", models.String("empty key"))

	tests := []struct {
		name    string
		pointer string
		want    models.Value
	}{
		{name: "root", pointer: "", want: doc},
		{name: "escaped slash", pointer: "/definitions/a~1b", want: models.String("slash")},
		{name: "escaped tilde", pointer: "/definitions/m~0n", want: models.String("tilde")},
		{name: "array index", pointer: "/list/1", want: models.NewInt(20)},
		{name: "empty key", pointer: "/", want: models.String("empty key")},
		{name: "fragment form", pointer: "#/definitions/with%20space", want: models.String("space")},
		{name: "fragment root", pointer: "#", want: doc},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Get(doc, tt.pointer)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGet_Errors(t *testing.T) {
	doc := models.NewObject()
	doc.Set("list", models.Array{models.NewInt(10)})
	doc.Set("name", models.String("x"))

	tests := []struct {
		name    string
		pointer string
		want    error
	}{
		{name: "missing member", pointer: "/nope", want: ErrNotFound},
		{name: "index out of range", pointer: "/list/1", want: ErrNotFound},
		{name: "leading zero index", pointer: "/list/01", want: ErrNotFound},
		{name: "negative index", pointer: "/list/-1", want: ErrNotFound},
		{name: "through scalar", pointer: "/name/first", want: ErrNotFound},
		{name: "no leading slash", pointer: "list", want: ErrInvalidPointer},
		{name: "bad percent escape", pointer: "#/%zz", want: ErrInvalidPointer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Get(doc, tt.pointer)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func FuzzEscapeRoundTrip(f *testing.F) {
	for _, seed := range []string{"", "~", "/", "~0", "~1", "a/b~c", "~~//"} {
		f.Add(seed)
	}
	f.Fuzz(func(t *testing.T, s string) {
		escaped := Escape(s)
		if strings.Contains(escaped, "/") {
			t.Fatalf("Escape(%q) = %q still contains '/'", s, escaped)
		}
		if got := Unescape(escaped); got != s {
			t.Fatalf("Unescape(Escape(%q)) = %q", s, got)
		}
	})
}
