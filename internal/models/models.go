// Package models defines the decoded JSON value tree shared by every other
// package. Values are produced by the parser and only ever read afterwards.
package models

import (
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"strconv"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Kind identifies which variant a Value holds.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

// String returns the JSON type name for the kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Value is a node of a decoded JSON document. The set of implementations is
// closed: Null, Bool, Number, String, Array and *Object.
type Value interface {
	Kind() Kind
	isValue()
}

// Null is the JSON null literal.
type Null struct{}

// Bool is a JSON boolean.
type Bool bool

// String is a JSON string.
type String string

// Array is a JSON array.
type Array []Value

func (Null) Kind() Kind    { return KindNull }
func (Bool) Kind() Kind    { return KindBool }
func (String) Kind() Kind  { return KindString }
func (Array) Kind() Kind   { return KindArray }
func (Number) Kind() Kind  { return KindNumber }
func (*Object) Kind() Kind { return KindObject }

func (Null) isValue()    {}
func (Bool) isValue()    {}
func (String) isValue()  {}
func (Array) isValue()   {}
func (Number) isValue()  {}
func (*Object) isValue() {}

// NumberForm tells how a Number is represented.
type NumberForm int

const (
	// NumberInt is an integer that fits in an int64.
	NumberInt NumberForm = iota
	// NumberFloat is any number with a fraction or exponent.
	NumberFloat
	// NumberBigInt is an integer whose magnitude exceeds the int64 range.
	NumberBigInt
)

// Number is a JSON number. The literal text is kept so that big integers
// never pass through a fixed-width type.
type Number struct {
	form NumberForm
	i    int64
	f    float64
	text string
}

// NewInt returns an integer Number.
func NewInt(i int64) Number {
	return Number{form: NumberInt, i: i, text: strconv.FormatInt(i, 10)}
}

// NewFloat returns a floating point Number.
func NewFloat(f float64) Number {
	return Number{form: NumberFloat, f: f, text: strconv.FormatFloat(f, 'g', -1, 64)}
}

// ParseNumber classifies a JSON number literal. Integer literals that do not
// fit in an int64 become big integers; the digits are kept verbatim.
func ParseNumber(text string) (Number, error) {
	if isIntegerLiteral(text) {
		if i, err := strconv.ParseInt(text, 10, 64); err == nil {
			return Number{form: NumberInt, i: i, text: text}, nil
		}
		if _, ok := new(big.Int).SetString(text, 10); ok {
			return Number{form: NumberBigInt, text: text}, nil
		}
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return Number{}, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Number{}, fmt.Errorf("models: %q is not a finite JSON number", text)
	}
	return Number{form: NumberFloat, f: f, text: text}, nil
}

func isIntegerLiteral(text string) bool {
	if len(text) > 0 && text[0] == '-' {
		text = text[1:]
	}
	if text == "" {
		return false
	}
	for i := 0; i < len(text); i++ {
		if text[i] < '0' || text[i] > '9' {
			return false
		}
	}
	return true
}

// Form reports the representation of the number.
func (n Number) Form() NumberForm { return n.form }

// IsInteger reports whether the number is integral (native or big).
func (n Number) IsInteger() bool { return n.form != NumberFloat }

// Int64 returns the value of a native integer.
func (n Number) Int64() (int64, bool) { return n.i, n.form == NumberInt }

// Float64 returns the value of a native float.
func (n Number) Float64() (float64, bool) { return n.f, n.form == NumberFloat }

// Text returns the number as it appeared in the document.
func (n Number) Text() string { return n.text }

// BigInt returns the integer value at arbitrary precision.
func (n Number) BigInt() (*big.Int, bool) {
	switch n.form {
	case NumberInt:
		return big.NewInt(n.i), true
	case NumberBigInt:
		return new(big.Int).SetString(n.text, 10)
	default:
		return nil, false
	}
}

// Object is a JSON object whose keys keep document order.
type Object struct {
	m *orderedmap.OrderedMap[string, Value]
}

// NewObject returns an empty object.
func NewObject() *Object {
	return &Object{m: orderedmap.New[string, Value]()}
}

// Set adds or replaces a member. A replaced key keeps its original position.
func (o *Object) Set(key string, v Value) {
	o.m.Set(key, v)
}

// Get returns the member stored under key.
func (o *Object) Get(key string) (Value, bool) {
	return o.m.Get(key)
}

// Len returns the number of members.
func (o *Object) Len() int {
	return o.m.Len()
}

// Keys returns the member names in document order.
func (o *Object) Keys() []string {
	keys := make([]string, 0, o.m.Len())
	for pair := o.m.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// Each calls fn for every member in document order, stopping at the first
// error.
func (o *Object) Each(fn func(key string, v Value) error) error {
	for pair := o.m.Oldest(); pair != nil; pair = pair.Next() {
		if err := fn(pair.Key, pair.Value); err != nil {
			return err
		}
	}
	return nil
}

// ToNative converts a Value into plain Go values: nil, bool, string,
// json.Number, []any and map[string]any. Key order is lost.
func ToNative(v Value) any {
	switch val := v.(type) {
	case Null, nil:
		return nil
	case Bool:
		return bool(val)
	case String:
		return string(val)
	case Number:
		return json.Number(val.text)
	case Array:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = ToNative(item)
		}
		return out
	case *Object:
		out := make(map[string]any, val.Len())
		_ = val.Each(func(key string, item Value) error {
			out[key] = ToNative(item)
			return nil
		})
		return out
	default:
		return nil
	}
}

// FromNative builds a Value from plain Go values as produced by a standard
// JSON decoder. Map keys are inserted in Go map iteration order, so callers
// that need stable order should decode through the parser instead.
func FromNative(v any) (Value, error) {
	switch val := v.(type) {
	case nil:
		return Null{}, nil
	case bool:
		return Bool(val), nil
	case string:
		return String(val), nil
	case json.Number:
		n, err := ParseNumber(string(val))
		if err != nil {
			return nil, err
		}
		return n, nil
	case float64:
		return NewFloat(val), nil
	case int:
		return NewInt(int64(val)), nil
	case int64:
		return NewInt(val), nil
	case []any:
		out := make(Array, len(val))
		for i, item := range val {
			conv, err := FromNative(item)
			if err != nil {
				return nil, err
			}
			out[i] = conv
		}
		return out, nil
	case map[string]any:
		obj := NewObject()
		for key, item := range val {
			conv, err := FromNative(item)
			if err != nil {
				return nil, err
			}
			obj.Set(key, conv)
		}
		return obj, nil
	default:
		return nil, &UnsupportedTypeError{Value: v}
	}
}

// UnsupportedTypeError is returned by FromNative for Go values that have no
// JSON counterpart.
type UnsupportedTypeError struct {
	Value any
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("models: unsupported Go type %T", e.Value)
}
