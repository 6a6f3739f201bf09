// Package extract walks a decoded schema and collects the values a predicate
// selects, keyed by JSON Pointer.
//
// Traversal is depth-first: object members in document order, array
// elements in index order. Containers are descended into; only scalar
// members are offered to the predicate. A match is recorded under the
// pointer of the container that holds the keyword, so the "$ref" in
// {"a": {"$ref": "#/x"}} is found at "/a", not at "/a/$ref".
package extract

import (
	"fmt"
	"strconv"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/mcncl/schemaref/internal/errors"
	"github.com/mcncl/schemaref/internal/models"
	"github.com/mcncl/schemaref/internal/pointer"
)

// DefaultMaxDepth matches the parser's nesting limit.
const DefaultMaxDepth = 512

// ErrTooDeep is returned when the document nests deeper than the limit.
var ErrTooDeep = errors.ErrTooDeep

// Predicate decides whether a scalar member is collected. It must be pure;
// a returned error aborts the traversal.
type Predicate func(keyword string, value models.Value) (bool, error)

// Keyword matches members named by any of names, whatever their value.
func Keyword(names ...string) Predicate {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return func(keyword string, _ models.Value) (bool, error) {
		_, ok := set[keyword]
		return ok, nil
	}
}

// StringKeyword is Keyword restricted to string values.
func StringKeyword(names ...string) Predicate {
	byName := Keyword(names...)
	return func(keyword string, value models.Value) (bool, error) {
		if _, ok := value.(models.String); !ok {
			return false, nil
		}
		return byName(keyword, value)
	}
}

// Matches is the result of one traversal: pointer to value, in the order the
// pointers were first recorded.
type Matches struct {
	m *orderedmap.OrderedMap[string, models.Value]
}

func newMatches() *Matches {
	return &Matches{m: orderedmap.New[string, models.Value]()}
}

// Get returns the value recorded at ptr.
func (m *Matches) Get(ptr string) (models.Value, bool) {
	return m.m.Get(ptr)
}

// Len returns the number of recorded pointers.
func (m *Matches) Len() int {
	return m.m.Len()
}

// Pointers returns the recorded pointers in traversal order.
func (m *Matches) Pointers() []string {
	out := make([]string, 0, m.m.Len())
	for pair := m.m.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Key)
	}
	return out
}

// Each calls fn for every match in traversal order.
func (m *Matches) Each(fn func(ptr string, v models.Value) error) error {
	for pair := m.m.Oldest(); pair != nil; pair = pair.Next() {
		if err := fn(pair.Key, pair.Value); err != nil {
			return err
		}
	}
	return nil
}

// Option configures Extract.
type Option func(*walker)

// WithMaxDepth overrides DefaultMaxDepth. Values below 1 are ignored.
func WithMaxDepth(depth int) Option {
	return func(w *walker) {
		if depth > 0 {
			w.maxDepth = depth
		}
	}
}

type walker struct {
	pred     Predicate
	maxDepth int
	matches  *Matches
}

// Extract walks v and returns every scalar member accepted by pred. A
// scalar root yields no matches. When several members of one container
// match, the last one wins. On error no partial result is returned.
func Extract(v models.Value, pred Predicate, opts ...Option) (*Matches, error) {
	w := &walker{
		pred:     pred,
		maxDepth: DefaultMaxDepth,
		matches:  newMatches(),
	}
	for _, opt := range opts {
		opt(w)
	}
	if err := w.walk(v, "", 1); err != nil {
		return nil, err
	}
	return w.matches, nil
}

func (w *walker) walk(v models.Value, ptr string, depth int) error {
	if depth > w.maxDepth {
		return fmt.Errorf("%w: more than %d levels at %q", ErrTooDeep, w.maxDepth, ptr)
	}

	switch node := v.(type) {
	case *models.Object:
		return node.Each(func(keyword string, child models.Value) error {
			return w.visit(ptr, keyword, child, depth)
		})
	case models.Array:
		for i, child := range node {
			if err := w.visit(ptr, strconv.Itoa(i), child, depth); err != nil {
				return err
			}
		}
		return nil
	default:
		return nil
	}
}

func (w *walker) visit(ptr, keyword string, v models.Value, depth int) error {
	switch child := v.(type) {
	case *models.Object:
		return w.walk(child, pointer.Push(ptr, keyword), depth+1)
	case models.Array:
		base := pointer.Push(ptr, keyword)
		for i, item := range child {
			if err := w.walk(item, pointer.PushIndex(base, i), depth+1); err != nil {
				return err
			}
		}
		return nil
	default:
		ok, err := w.pred(keyword, v)
		if err != nil {
			return fmt.Errorf("predicate failed for %q at %q: %w", keyword, ptr, err)
		}
		if ok {
			w.matches.m.Set(ptr, v)
		}
		return nil
	}
}
