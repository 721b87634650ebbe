package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// AnswerType is the expected kind of answer for a question node.
type AnswerType string

const (
	AnswerString  AnswerType = "STRING"
	AnswerBoolean AnswerType = "BOOLEAN"
	AnswerNumeric AnswerType = "NUMERIC"
	AnswerMulti   AnswerType = "MULTI"
	// AnswerNone marks informational nodes that collect nothing.
	AnswerNone AnswerType = "NONE"
)

// ParseAnswerType validates a declared answer-type tag.
// Tags are case sensitive.
func ParseAnswerType(s string) (AnswerType, error) {
	switch t := AnswerType(s); t {
	case AnswerString, AnswerBoolean, AnswerNumeric, AnswerMulti, AnswerNone:
		return t, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidAnswerType, s)
}

// Kind returns the value kind an answer of this type carries.
// NONE nodes collect nothing and report false.
func (t AnswerType) Kind() (ValueKind, bool) {
	switch t {
	case AnswerString:
		return KindString, true
	case AnswerBoolean:
		return KindBool, true
	case AnswerNumeric:
		return KindNumber, true
	case AnswerMulti:
		return KindMulti, true
	}
	return "", false
}

// ValueKind is the runtime tag carried by every answer value.
type ValueKind string

const (
	KindString ValueKind = "string"
	KindBool   ValueKind = "bool"
	KindNumber ValueKind = "number"
	KindMulti  ValueKind = "multi"
)

// Value is a single typed answer.
// The zero Value is invalid and never stored in an Answers record.
type Value struct {
	Kind  ValueKind
	Str   string
	Bool  bool
	Num   float64
	Multi []string
}

func String(s string) Value { return Value{Kind: KindString, Str: s} }
func Bool(b bool) Value { return Value{Kind: KindBool, Bool: b} }
func Number(n float64) Value { return Value{Kind: KindNumber, Num: n} }
func Multi(opts ...string) Value {
	return Value{Kind: KindMulti, Multi: slices.Clone(opts)}
}

// Native returns the plain Go value (string, bool, float64 or []string).
func (v Value) Native() any {
	switch v.Kind {
	case KindString:
		return v.Str
	case KindBool:
		return v.Bool
	case KindNumber:
		return v.Num
	case KindMulti:
		return slices.Clone(v.Multi)
	}
	return nil
}

// Equal compares two values of the same kind. Multi selections compare as sets.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case KindString:
		return v.Str == o.Str
	case KindBool:
		return v.Bool == o.Bool
	case KindNumber:
		return v.Num == o.Num
	case KindMulti:
		a, b := slices.Clone(v.Multi), slices.Clone(o.Multi)
		slices.Sort(a)
		slices.Sort(b)
		return slices.Equal(slices.Compact(a), slices.Compact(b))
	}
	return false
}

func (v Value) String() string {
	switch v.Kind {
	case KindString:
		return v.Str
	case KindBool:
		return strconv.FormatBool(v.Bool)
	case KindNumber:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	case KindMulti:
		return strings.Join(v.Multi, ", ")
	}
	return ""
}

// MarshalJSON encodes the value as its natural JSON form.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.Kind == KindMulti && v.Multi == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(v.Native())
}

// UnmarshalJSON infers the kind from the JSON type.
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		return fmt.Errorf("%w: null answer", ErrInvalidAnswer)
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = String(s)
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return err
		}
		*v = Bool(b)
	case '[':
		var opts []string
		if err := json.Unmarshal(data, &opts); err != nil {
			return fmt.Errorf("%w: multi answers must be a list of strings", ErrInvalidAnswer)
		}
		*v = Value{Kind: KindMulti, Multi: opts}
	default:
		var n float64
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("%w: %s", ErrInvalidAnswer, data)
		}
		*v = Number(n)
	}
	return nil
}

// ValueOf converts a plain Go value into a Value.
// Integers and floats become numbers; []string and []any of strings become multi selections.
func ValueOf(x any) (Value, error) {
	switch t := x.(type) {
	case Value:
		return t, nil
	case string:
		return String(t), nil
	case bool:
		return Bool(t), nil
	case int:
		return Number(float64(t)), nil
	case int64:
		return Number(float64(t)), nil
	case float64:
		return Number(t), nil
	case []string:
		return Multi(t...), nil
	case []any:
		opts := make([]string, 0, len(t))
		for _, e := range t {
			s, ok := e.(string)
			if !ok {
				return Value{}, fmt.Errorf("%w: multi selection holds %T", ErrInvalidAnswer, e)
			}
			opts = append(opts, s)
		}
		return Multi(opts...), nil
	}
	return Value{}, fmt.Errorf("%w: unsupported answer type %T", ErrInvalidAnswer, x)
}

// Answers is the accumulated-answer record of a session, keyed by field name.
type Answers map[string]Value

// Clone returns a copy safe to mutate without touching the original.
func (a Answers) Clone() Answers {
	out := make(Answers, len(a))
	for k, v := range a {
		if v.Kind == KindMulti {
			v.Multi = slices.Clone(v.Multi)
		}
		out[k] = v
	}
	return out
}

// Native flattens the record into plain Go values.
func (a Answers) Native() map[string]any {
	out := make(map[string]any, len(a))
	for k, v := range a {
		out[k] = v.Native()
	}
	return out
}
