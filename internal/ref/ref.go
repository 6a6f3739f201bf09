// Package ref classifies schema references and resolves identifiers against
// a resolution scope.
package ref

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/mcncl/schemaref/internal/models"
)

var (
	// ErrMissingPrefix is returned by ParseExternal for references without
	// a "scheme://" prefix.
	ErrMissingPrefix = errors.New("reference is missing a prefix")
	// ErrInvalidURI is returned when a scope or reference cannot be parsed
	// as a URI.
	ErrInvalidURI = errors.New("invalid URI")
)

// prefixed matches references carrying a "scheme://" prefix. Any non-empty
// run before "://" counts; this is not a full scheme grammar.
var prefixed = regexp.MustCompile(`^.+://`)

// Kind classifies a reference.
type Kind int

const (
	KindInternal Kind = iota
	KindRelative
	KindExternal
)

func (k Kind) String() string {
	switch k {
	case KindInternal:
		return "internal"
	case KindRelative:
		return "relative"
	case KindExternal:
		return "external"
	default:
		return "unknown"
	}
}

// Classify places ref in exactly one kind. Internal wins over relative.
func Classify(ref string) Kind {
	switch {
	case IsInternal(ref):
		return KindInternal
	case IsRelative(ref):
		return KindRelative
	default:
		return KindExternal
	}
}

// IsInternal reports whether value is a string starting with '#'.
func IsInternal(value any) bool {
	switch v := value.(type) {
	case string:
		return strings.HasPrefix(v, "#")
	case models.String:
		return strings.HasPrefix(string(v), "#")
	default:
		return false
	}
}

// IsRelative reports whether ref lacks a "scheme://" prefix. Fragment-only
// references are relative too; check IsInternal first to tell them apart.
func IsRelative(ref string) bool {
	return !prefixed.MatchString(ref)
}

// StripFragment removes the fragment and its '#' delimiter. References
// without a '#' are returned unchanged.
func StripFragment(ref string) string {
	before, _, _ := strings.Cut(ref, "#")
	return before
}

// ParseExternal splits an external reference into its prefix and path. The
// split happens at the first "://"; the fragment and any trailing '#' are
// dropped from the path.
func ParseExternal(ref string) (prefix, path string, err error) {
	if IsRelative(ref) {
		return "", "", fmt.Errorf(
			"%w: the path %q was expected to be an external reference; it should start with a prefix such as \"file://\"",
			ErrMissingPrefix, ref,
		)
	}
	prefix, rest, _ := strings.Cut(ref, "://")
	return prefix, strings.TrimRight(StripFragment(rest), "#"), nil
}

// Resolve resolves id against parentScope following RFC 3986 section 5. An
// empty scope leaves id untouched. The fragment of id is kept as written,
// including an empty one ("a.json#").
func Resolve(id, parentScope string) (string, error) {
	if parentScope == "" {
		return id, nil
	}

	base, err := url.Parse(parentScope)
	if err != nil {
		return "", fmt.Errorf("%w: scope %q: %v", ErrInvalidURI, parentScope, err)
	}
	reference, err := url.Parse(id)
	if err != nil {
		return "", fmt.Errorf("%w: reference %q: %v", ErrInvalidURI, id, err)
	}

	var resolved string
	if base.Opaque != "" && isPathOnly(reference) && reference.Path != "" {
		resolved = resolveOpaque(base, reference)
	} else {
		u := base.ResolveReference(reference)
		// net/url always roots merged paths. A relative scope such as
		// "schemas/root.json" must stay relative.
		if isRelativePath(base) && isRelativePath(reference) {
			u.Path = strings.TrimPrefix(u.Path, "/")
			u.RawPath = strings.TrimPrefix(u.RawPath, "/")
		}
		// RFC 3986 5.2.2 always takes the fragment from the reference; net/url
		// keeps the base fragment when the reference is empty.
		u.Fragment, u.RawFragment = "", ""
		resolved = u.String()
	}

	if _, fragment, ok := strings.Cut(id, "#"); ok {
		resolved += "#" + fragment
	}
	return resolved, nil
}

// resolveOpaque merges a path reference into a base without authority whose
// path does not start with '/', such as "urn:example:root". net/url would
// invent an empty authority ("urn:///a.json").
func resolveOpaque(base, reference *url.URL) string {
	path := reference.EscapedPath()
	if !strings.HasPrefix(path, "/") {
		dir := ""
		if i := strings.LastIndex(base.Opaque, "/"); i >= 0 {
			dir = base.Opaque[:i+1]
		}
		path = dir + path
	}

	var b strings.Builder
	b.WriteString(base.Scheme)
	b.WriteByte(':')
	b.WriteString(removeDotSegments(path))
	if reference.ForceQuery || reference.RawQuery != "" {
		b.WriteByte('?')
		b.WriteString(reference.RawQuery)
	}
	return b.String()
}

// removeDotSegments implements RFC 3986 section 5.2.4.
func removeDotSegments(path string) string {
	var out []string
	in := path
	for in != "" {
		switch {
		case strings.HasPrefix(in, "../"):
			in = in[3:]
		case strings.HasPrefix(in, "./"):
			in = in[2:]
		case strings.HasPrefix(in, "/./"):
			in = in[2:]
		case in == "/.":
			in = "/"
		case strings.HasPrefix(in, "/../"):
			in = in[3:]
			if len(out) > 0 {
				out = out[:len(out)-1]
			}
		case in == "/..":
			in = "/"
			if len(out) > 0 {
				out = out[:len(out)-1]
			}
		case in == "." || in == "..":
			in = ""
		default:
			next := strings.IndexByte(in[1:], '/')
			if next < 0 {
				out = append(out, in)
				in = ""
			} else {
				out = append(out, in[:next+1])
				in = in[next+1:]
			}
		}
	}
	return strings.Join(out, "")
}

// isPathOnly reports whether u has no scheme, authority or opaque part.
func isPathOnly(u *url.URL) bool {
	return u.Scheme == "" && u.Host == "" && u.User == nil && u.Opaque == ""
}

func isRelativePath(u *url.URL) bool {
	return u.Scheme == "" && u.Host == "" && u.User == nil && !strings.HasPrefix(u.Path, "/")
}
