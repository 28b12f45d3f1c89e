package expr

import (
	"strconv"
)

// ValueKind identifies the runtime type of a Value.
type ValueKind int

const (
	KindInt ValueKind = iota
	KindFloat
	KindBool
	KindText
)

// String returns a readable name for the value kind, used in error messages.
func (k ValueKind) String() string {
	switch k {
	case KindInt:
		return "integer"
	case KindFloat:
		return "float"
	case KindBool:
		return "boolean"
	case KindText:
		return "text"
	}
	return "unknown"
}

// Value is the only runtime representation the evaluator produces or
// consumes: a tagged variant over integer, float, boolean and text. There is
// no null. Text values remember whether they originated from a capture
// group, because only capture-origin text participates in numeric coercion.
type Value struct {
	kind        ValueKind
	i           int64
	f           float64
	b           bool
	s           string
	fromCapture bool
}

// IntValue creates an integer value.
func IntValue(v int64) Value { return Value{kind: KindInt, i: v} }

// FloatValue creates a float value.
func FloatValue(v float64) Value { return Value{kind: KindFloat, f: v} }

// BoolValue creates a boolean value.
func BoolValue(v bool) Value { return Value{kind: KindBool, b: v} }

// TextValue creates a text value from a string literal.
func TextValue(v string) Value { return Value{kind: KindText, s: v} }

// CaptureValue creates a text value originating from a named capture group.
func CaptureValue(v string) Value { return Value{kind: KindText, s: v, fromCapture: true} }

// Kind returns the runtime type tag.
func (v Value) Kind() ValueKind { return v.kind }

// Int returns the integer payload. Only meaningful when Kind is KindInt.
func (v Value) Int() int64 { return v.i }

// Float returns the float payload. Only meaningful when Kind is KindFloat.
func (v Value) Float() float64 { return v.f }

// Bool returns the boolean payload. Only meaningful when Kind is KindBool.
func (v Value) Bool() bool { return v.b }

// Text returns the text payload. Only meaningful when Kind is KindText.
func (v Value) Text() string { return v.s }

// FromCapture reports whether a text value was produced by group(...).
func (v Value) FromCapture() bool { return v.fromCapture }

// IsNumeric reports whether the value is an integer or a float.
func (v Value) IsNumeric() bool { return v.kind == KindInt || v.kind == KindFloat }

// AsFloat widens a numeric value to float64.
func (v Value) AsFloat() float64 {
	if v.kind == KindInt {
		return float64(v.i)
	}
	return v.f
}

// String renders the value for error messages and debug logs.
func (v Value) String() string {
	switch v.kind {
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.b)
	default:
		return strconv.Quote(v.s)
	}
}

// coerceNumeric attempts to reinterpret a capture-origin text value as a
// number: integer first, then float. Values that are already numeric pass
// through unchanged. Returns false when no numeric reading exists or the
// value is not eligible for coercion.
func coerceNumeric(v Value) (Value, bool) {
	if v.IsNumeric() {
		return v, true
	}
	if v.kind != KindText || !v.fromCapture {
		return Value{}, false
	}
	if i, err := strconv.ParseInt(v.s, 10, 64); err == nil {
		return IntValue(i), true
	}
	if f, err := strconv.ParseFloat(v.s, 64); err == nil {
		return FloatValue(f), true
	}
	return Value{}, false
}
