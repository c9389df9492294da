package domain

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Kind discriminates the variants of a Value.
type Kind int

const (
	// KindAbsent marks a value that was never assigned.
	KindAbsent Kind = iota
	KindNumber
	KindBool
	KindText
)

// Value is the dynamically-typed unit the interpreter passes between
// segments, verbs and scopes. It is a tagged union rather than `any` so that
// coercion happens in exactly one place (Parse) and rendering rules stay
// auditable.
type Value struct {
	kind Kind
	num  float64
	flag bool
	text string
}

// Absent returns the zero value explicitly.
func Absent() Value {
	return Value{}
}

// Number wraps a float.
func Number(n float64) Value {
	return Value{kind: KindNumber, num: n}
}

// Bool wraps a boolean.
func Bool(b bool) Value {
	return Value{kind: KindBool, flag: b}
}

// Text wraps a string.
func Text(s string) Value {
	return Value{kind: KindText, text: s}
}

// Parse coerces a literal token into a Value. Numeric-looking strings become
// numbers, "true"/"false" become booleans, everything else is kept as text.
// Coercion is applied once, at assignment time; values read back from a scope
// are never re-coerced.
func Parse(raw string) Value {
	trimmed := strings.TrimSpace(raw)
	switch trimmed {
	case "true":
		return Bool(true)
	case "false":
		return Bool(false)
	}
	if n, err := strconv.ParseFloat(trimmed, 64); err == nil && trimmed != "" {
		return Number(n)
	}
	return Text(raw)
}

// Kind reports the variant.
func (v Value) Kind() Kind { return v.kind }

// IsAbsent reports whether the value was never assigned.
func (v Value) IsAbsent() bool { return v.kind == KindAbsent }

// Num returns the numeric reading of the value. Absent and non-numeric text
// count as 0, booleans as 0/1.
func (v Value) Num() float64 {
	switch v.kind {
	case KindNumber:
		return v.num
	case KindBool:
		if v.flag {
			return 1
		}
		return 0
	case KindText:
		if n, err := strconv.ParseFloat(strings.TrimSpace(v.text), 64); err == nil {
			return n
		}
	}
	return 0
}

// Flag returns the boolean reading of the value. Absent is false.
func (v Value) Flag() bool {
	switch v.kind {
	case KindBool:
		return v.flag
	case KindNumber:
		return v.num != 0
	case KindText:
		return v.text == "true"
	}
	return false
}

// Render produces the string written into node content: numbers in minimal
// form, booleans as the literals "ON"/"OFF", absent as the empty string.
func (v Value) Render() string {
	switch v.kind {
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindBool:
		if v.flag {
			return "ON"
		}
		return "OFF"
	case KindText:
		return v.text
	}
	return ""
}

// String is the diagnostic form, used for logging. Booleans keep their
// true/false spelling here.
func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.flag)
	case KindText:
		return v.text
	}
	return "<absent>"
}

// MarshalJSON encodes the value by its natural JSON shape: numbers as
// numbers, booleans as booleans, text as strings, absent as null. Used by
// scope stores persisting entry scopes.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNumber:
		return json.Marshal(v.num)
	case KindBool:
		return json.Marshal(v.flag)
	case KindText:
		return json.Marshal(v.text)
	}
	return []byte("null"), nil
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch t := raw.(type) {
	case nil:
		*v = Absent()
	case float64:
		*v = Number(t)
	case bool:
		*v = Bool(t)
	case string:
		*v = Text(t)
	default:
		*v = Text(string(data))
	}
	return nil
}

// Equal compares two values by kind and payload.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNumber:
		return v.num == o.num
	case KindBool:
		return v.flag == o.flag
	case KindText:
		return v.text == o.text
	}
	return true
}
