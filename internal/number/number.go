// Package number classifies and compares JSON numbers without losing
// precision. Integers beyond the int64 range travel either as big-integer
// models.Number values or as strings of decimal digits; both are compared
// digit-exact rather than through a fixed-width type.
package number

import (
	"cmp"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"math/big"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/mcncl/schemaref/internal/models"
)

// ErrNotNumeric is returned by Compare for operands that are not numbers.
var ErrNotNumeric = errors.New("value is not numeric")

var maxInt = big.NewInt(math.MaxInt64)

// IsInteger reports whether value is a JSON integer. Digit strings count only
// when their magnitude is greater than math.MaxInt64: in-range strings are
// ordinary strings.
func IsInteger(value any) bool {
	switch v := value.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return true
	case models.Number:
		return v.IsInteger()
	case json.Number:
		n, err := models.ParseNumber(string(v))
		return err == nil && n.IsInteger()
	case string:
		return isBigDigitString(v)
	default:
		return false
	}
}

// IsNumber reports whether value is a float or a JSON integer.
func IsNumber(value any) bool {
	switch v := value.(type) {
	case float32, float64:
		return true
	case models.Number:
		return true
	case json.Number:
		_, err := models.ParseNumber(string(v))
		return err == nil
	default:
		return IsInteger(value)
	}
}

func isBigDigitString(s string) bool {
	if len(s) > 0 && s[0] == '-' {
		s = s[1:]
	}
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	n, ok := new(big.Int).SetString(s, 10)
	return ok && n.Cmp(maxInt) > 0
}

// operand is a comparison operand in the cheapest exact representation.
type operand struct {
	kind opKind
	i    int64
	f    float64
	d    decimal.Decimal
}

type opKind int

const (
	opInt opKind = iota
	opFloat
	opDecimal
)

// Compare orders two numeric operands and returns -1, 0 or 1. Operands may be
// Go integers and floats, models.Number, json.Number or numeric strings.
// Two in-range operands of the same native kind are compared natively;
// anything else is compared at arbitrary precision.
func Compare(left, right any) (int, error) {
	l, err := toOperand(left)
	if err != nil {
		return 0, err
	}
	r, err := toOperand(right)
	if err != nil {
		return 0, err
	}

	switch {
	case l.kind == opInt && r.kind == opInt:
		return cmp.Compare(l.i, r.i), nil
	case l.kind == opFloat && r.kind == opFloat:
		return cmp.Compare(l.f, r.f), nil
	default:
		return compareDecimal(l.decimal(), r.decimal()), nil
	}
}

// compareDecimal settles the order by sign and then by the position of the
// leading digit, so operands with far apart exponents are never rescaled.
// Cmp runs only when both leading digits share a position.
func compareDecimal(a, b decimal.Decimal) int {
	sa, sb := a.Sign(), b.Sign()
	if sa != sb {
		return cmp.Compare(sa, sb)
	}
	if sa == 0 {
		return 0
	}

	if c := cmp.Compare(magnitude(a), magnitude(b)); c != 0 {
		return c * sa
	}
	return a.Cmp(b)
}

// magnitude is the power of ten just above |d|.
func magnitude(d decimal.Decimal) int64 {
	return int64(d.NumDigits()) + int64(d.Exponent())
}

func (o operand) decimal() decimal.Decimal {
	switch o.kind {
	case opInt:
		return decimal.NewFromInt(o.i)
	case opFloat:
		return decimal.NewFromFloat(o.f)
	default:
		return o.d
	}
}

func toOperand(value any) (operand, error) {
	switch v := value.(type) {
	case int:
		return operand{kind: opInt, i: int64(v)}, nil
	case int8:
		return operand{kind: opInt, i: int64(v)}, nil
	case int16:
		return operand{kind: opInt, i: int64(v)}, nil
	case int32:
		return operand{kind: opInt, i: int64(v)}, nil
	case int64:
		return operand{kind: opInt, i: v}, nil
	case uint:
		return fromUint(uint64(v)), nil
	case uint8:
		return operand{kind: opInt, i: int64(v)}, nil
	case uint16:
		return operand{kind: opInt, i: int64(v)}, nil
	case uint32:
		return operand{kind: opInt, i: int64(v)}, nil
	case uint64:
		return fromUint(v), nil
	case float32:
		return fromFloat(float64(v))
	case float64:
		return fromFloat(v)
	case models.Number:
		if i, ok := v.Int64(); ok {
			return operand{kind: opInt, i: i}, nil
		}
		if f, ok := v.Float64(); ok {
			return fromFloat(f)
		}
		return fromText(v.Text())
	case json.Number:
		return fromText(string(v))
	case string:
		return fromText(v)
	default:
		return operand{}, fmt.Errorf("%w: %T", ErrNotNumeric, value)
	}
}

func fromUint(u uint64) operand {
	if u <= math.MaxInt64 {
		return operand{kind: opInt, i: int64(u)}
	}
	return operand{kind: opDecimal, d: decimal.NewFromBigInt(new(big.Int).SetUint64(u), 0)}
}

func fromFloat(f float64) (operand, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return operand{}, fmt.Errorf("%w: %v", ErrNotNumeric, f)
	}
	return operand{kind: opFloat, f: f}, nil
}

func fromText(s string) (operand, error) {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return operand{kind: opInt, i: i}, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return operand{}, fmt.Errorf("%w: %q", ErrNotNumeric, s)
	}
	return operand{kind: opDecimal, d: d}, nil
}
