// Package pattern matches property names against JSON Schema regular
// expressions, which use ECMA-262 syntax.
package pattern

import (
	"fmt"
	"time"

	"github.com/dlclark/regexp2"

	"github.com/mcncl/schemaref/internal/models"
)

// DefaultMatchTimeout bounds a single match. regexp2 backtracks, so a
// pattern taken from a schema can otherwise run for exponential time.
const DefaultMatchTimeout = time.Second

// Compile compiles an ECMA-262 pattern with DefaultMatchTimeout. JSON Schema
// patterns are not anchored.
func Compile(pattern string) (*regexp2.Regexp, error) {
	return CompileTimeout(pattern, DefaultMatchTimeout)
}

// CompileTimeout is Compile with an explicit match timeout.
func CompileTimeout(pattern string, timeout time.Duration) (*regexp2.Regexp, error) {
	re, err := regexp2.Compile(pattern, regexp2.ECMAScript)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}
	re.MatchTimeout = timeout
	return re, nil
}

// PropertiesMatching returns the member names of obj that match pattern, in
// document order.
func PropertiesMatching(pattern string, obj *models.Object) ([]string, error) {
	if obj == nil {
		return nil, nil
	}
	return NamesMatching(pattern, obj.Keys())
}

// NamesMatching filters names by pattern, keeping their order.
func NamesMatching(pattern string, names []string) ([]string, error) {
	re, err := Compile(pattern)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, name := range names {
		ok, err := re.MatchString(name)
		if err != nil {
			return nil, fmt.Errorf("matching %q against %q: %w", name, pattern, err)
		}
		if ok {
			out = append(out, name)
		}
	}
	return out, nil
}
