package ref

import (
	"errors"
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/mcncl/schemaref/internal/extract"
	"github.com/mcncl/schemaref/internal/models"
	"github.com/mcncl/schemaref/internal/pointer"
)

// ErrNotInternal is returned by Lookup for references that leave the
// document.
var ErrNotInternal = errors.New("reference is not internal")

// Options controls which keywords Collect and Identifiers look for.
type Options struct {
	// RefKeywords name reference members, "$ref" by default.
	RefKeywords []string
	// IDKeywords name identifier members that open a new resolution scope.
	IDKeywords []string
	// BaseScope is the scope of the document root.
	BaseScope string
	// MaxDepth bounds the traversal; zero means extract.DefaultMaxDepth.
	MaxDepth int
}

// DefaultOptions returns the draft-04 through 2020-12 keyword set.
func DefaultOptions() Options {
	return Options{
		RefKeywords: []string{"$ref"},
		IDKeywords:  []string{"$id", "id"},
	}
}

// Reference is one reference found in a document.
type Reference struct {
	// Pointer locates the object holding the reference keyword.
	Pointer string
	Raw     string
	Kind    Kind
	// Scope is the resolution scope in effect at Pointer.
	Scope    string
	Resolved string
}

// Collect finds every reference in doc and resolves it against the scope in
// effect where it appears. Identifier members on the path from the root,
// including one beside the reference, each narrow the scope.
func Collect(doc models.Value, opts Options) ([]Reference, error) {
	scopes, err := newScopeIndex(doc, opts)
	if err != nil {
		return nil, err
	}

	matches, err := extract.Extract(doc, extract.StringKeyword(opts.RefKeywords...), extract.WithMaxDepth(opts.MaxDepth))
	if err != nil {
		return nil, err
	}

	refs := make([]Reference, 0, matches.Len())
	err = matches.Each(func(ptr string, v models.Value) error {
		raw := string(v.(models.String))
		scope, err := scopes.at(ptr)
		if err != nil {
			return err
		}
		resolved, err := Resolve(raw, scope)
		if err != nil {
			return fmt.Errorf("reference at %q: %w", ptr, err)
		}
		refs = append(refs, Reference{
			Pointer:  ptr,
			Raw:      raw,
			Kind:     Classify(raw),
			Scope:    scope,
			Resolved: resolved,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return refs, nil
}

// Identifiers maps every resolved identifier in doc to the pointer of the
// schema it names, in document order.
func Identifiers(doc models.Value, opts Options) (*orderedmap.OrderedMap[string, string], error) {
	scopes, err := newScopeIndex(doc, opts)
	if err != nil {
		return nil, err
	}
	out := orderedmap.New[string, string]()
	for _, ptr := range scopes.ids.Pointers() {
		scope, err := scopes.at(ptr)
		if err != nil {
			return nil, err
		}
		out.Set(scope, ptr)
	}
	return out, nil
}

// Lookup follows an internal reference within doc.
func Lookup(doc models.Value, reference string) (models.Value, error) {
	if !IsInternal(reference) {
		return nil, fmt.Errorf("%w: %q", ErrNotInternal, reference)
	}
	return pointer.Get(doc, reference)
}

// scopeIndex knows the identifier declared by each object in a document.
type scopeIndex struct {
	base string
	ids  *extract.Matches
}

func newScopeIndex(doc models.Value, opts Options) (*scopeIndex, error) {
	ids, err := extract.Extract(doc, extract.StringKeyword(opts.IDKeywords...), extract.WithMaxDepth(opts.MaxDepth))
	if err != nil {
		return nil, err
	}
	return &scopeIndex{base: opts.BaseScope, ids: ids}, nil
}

// at returns the scope in effect inside the object at ptr.
func (s *scopeIndex) at(ptr string) (string, error) {
	segments, err := pointer.Split(ptr)
	if err != nil {
		return "", err
	}

	scope := s.base
	current := ""
	for i := 0; ; i++ {
		if id, ok := s.ids.Get(current); ok {
			scope, err = Resolve(string(id.(models.String)), scope)
			if err != nil {
				return "", fmt.Errorf("identifier at %q: %w", current, err)
			}
		}
		if i == len(segments) {
			return scope, nil
		}
		current = pointer.Push(current, segments[i])
	}
}
