// Package textlen measures string length for length keywords. One Strategy
// is chosen at startup and passed to whoever needs it.
package textlen

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/rivo/uniseg"
)

// ErrUnknownStrategy is returned by Parse for unrecognized names.
var ErrUnknownStrategy = errors.New("unknown text length strategy")

// Strategy counts the length of a string.
type Strategy int

const (
	// Graphemes counts user-perceived characters.
	Graphemes Strategy = iota
	// Runes counts Unicode code points.
	Runes
	// Bytes counts UTF-8 bytes.
	Bytes
)

// Default is the strategy used when none is configured.
const Default = Graphemes

func (s Strategy) String() string {
	switch s {
	case Graphemes:
		return "graphemes"
	case Runes:
		return "runes"
	case Bytes:
		return "bytes"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

// Parse maps a configuration name to a Strategy. The empty name selects
// Default.
func Parse(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "graphemes", "grapheme":
		return Graphemes, nil
	case "runes", "rune", "codepoints":
		return Runes, nil
	case "bytes", "byte":
		return Bytes, nil
	default:
		return Default, fmt.Errorf("%w: %q (want graphemes, runes or bytes)", ErrUnknownStrategy, name)
	}
}

// Measure returns the length of text under s.
func (s Strategy) Measure(text string) int {
	switch s {
	case Runes:
		return utf8.RuneCountInString(text)
	case Bytes:
		return len(text)
	default:
		return uniseg.GraphemeClusterCount(text)
	}
}
