package model

import (
	"math"
	"strconv"
)

// Kind identifies the concrete type stored in a Scalar.
type Kind uint8

const (
	// KindInvalid is the zero Kind; it never comes out of a successful lookup.
	KindInvalid Kind = iota
	// KindNull represents a JSON null.
	KindNull
	// KindBool represents a JSON boolean.
	KindBool
	// KindNumber represents a JSON number, held as float64.
	KindNumber
	// KindString represents a JSON string, unescaped.
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	default:
		return "invalid"
	}
}

// Scalar is a JSON leaf value.
type Scalar struct {
	Kind Kind    `json:"kind"`
	Str  string  `json:"str,omitempty"`
	Num  float64 `json:"num,omitempty"`
	Bool bool    `json:"bool,omitempty"`
}

// Null returns a null Scalar.
func Null() Scalar { return Scalar{Kind: KindNull} }

// Bool returns a boolean Scalar.
func Bool(v bool) Scalar { return Scalar{Kind: KindBool, Bool: v} }

// Number returns a numeric Scalar.
func Number(v float64) Scalar { return Scalar{Kind: KindNumber, Num: v} }

// String returns a string Scalar.
func String(v string) Scalar { return Scalar{Kind: KindString, Str: v} }

// AsString returns the string value if Kind is KindString.
func (s Scalar) AsString() (string, bool) {
	if s.Kind != KindString {
		return "", false
	}
	return s.Str, true
}

// AsFloat64 returns the numeric value if Kind is KindNumber.
func (s Scalar) AsFloat64() (float64, bool) {
	if s.Kind != KindNumber {
		return 0, false
	}
	return s.Num, true
}

// AsBool returns the boolean value if Kind is KindBool.
func (s Scalar) AsBool() (bool, bool) {
	if s.Kind != KindBool {
		return false, false
	}
	return s.Bool, true
}

// IsNull reports whether s is a JSON null.
func (s Scalar) IsNull() bool { return s.Kind == KindNull }

// Any returns s as the value encoding/json would decode it into.
func (s Scalar) Any() any {
	switch s.Kind {
	case KindBool:
		return s.Bool
	case KindNumber:
		return s.Num
	case KindString:
		return s.Str
	default:
		return nil
	}
}

// String renders s as JSON text.
func (s Scalar) String() string {
	switch s.Kind {
	case KindNull:
		return "null"
	case KindBool:
		return strconv.FormatBool(s.Bool)
	case KindNumber:
		return strconv.FormatFloat(s.Num, 'g', -1, 64)
	case KindString:
		return strconv.Quote(s.Str)
	default:
		return "<invalid>"
	}
}

// Equal reports whether a and b have the same kind and value.
// Numbers compare by value, so NaN is not equal to itself.
func (s Scalar) Equal(o Scalar) bool {
	if s.Kind != o.Kind {
		return false
	}
	switch s.Kind {
	case KindBool:
		return s.Bool == o.Bool
	case KindNumber:
		return s.Num == o.Num
	case KindString:
		return s.Str == o.Str
	default:
		return true
	}
}

// Compare orders two scalars of the same kind. ok is false when the kinds
// differ, when either side is null, or when a number is NaN.
// false orders before true.
func (s Scalar) Compare(o Scalar) (cmp int, ok bool) {
	if s.Kind != o.Kind {
		return 0, false
	}
	switch s.Kind {
	case KindNumber:
		if math.IsNaN(s.Num) || math.IsNaN(o.Num) {
			return 0, false
		}
		switch {
		case s.Num < o.Num:
			return -1, true
		case s.Num > o.Num:
			return 1, true
		}
		return 0, true
	case KindString:
		switch {
		case s.Str < o.Str:
			return -1, true
		case s.Str > o.Str:
			return 1, true
		}
		return 0, true
	case KindBool:
		switch {
		case s.Bool == o.Bool:
			return 0, true
		case !s.Bool:
			return -1, true
		}
		return 1, true
	default:
		return 0, false
	}
}

// FromAny converts a decoded JSON leaf (nil, bool, float64, string, or any Go
// integer/float) into a Scalar. ok is false for composite values.
func FromAny(v any) (Scalar, bool) {
	switch x := v.(type) {
	case nil:
		return Null(), true
	case bool:
		return Bool(x), true
	case string:
		return String(x), true
	case float64:
		return Number(x), true
	case float32:
		return Number(float64(x)), true
	case int:
		return Number(float64(x)), true
	case int64:
		return Number(float64(x)), true
	case int32:
		return Number(float64(x)), true
	case uint64:
		return Number(float64(x)), true
	case uint32:
		return Number(float64(x)), true
	default:
		return Scalar{}, false
	}
}
