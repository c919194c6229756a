package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/mail"
	"strconv"
	"strings"

	"github.com/Sanjeetkumar61/FormBuilder/internal/apperr"
)

type ValueKind uint8

const (
	ValueNone ValueKind = iota
	ValueText
	ValueList
	ValueBool
)

func (k ValueKind) String() string {
	switch k {
	case ValueText:
		return "text"
	case ValueList:
		return "list"
	case ValueBool:
		return "bool"
	default:
		return "none"
	}
}

// ParseValueKind is the inverse of ValueKind.String.
func ParseValueKind(s string) ValueKind {
	switch s {
	case "text":
		return ValueText
	case "list":
		return ValueList
	case "bool":
		return ValueBool
	default:
		return ValueNone
	}
}

// Value is one typed answer: text, a list of selected options, or a boolean.
// The zero Value means "no answer".
type Value struct {
	kind ValueKind
	text string
	list []string
	flag bool
}

func TextOf(s string) Value { return Value{kind: ValueText, text: s} }

func ListOf(items []string) Value {
	return Value{kind: ValueList, list: append([]string(nil), items...)}
}

func BoolOf(b bool) Value { return Value{kind: ValueBool, flag: b} }

func (v Value) Kind() ValueKind { return v.kind }
func (v Value) Text() string    { return v.text }
func (v Value) Bool() bool      { return v.flag }

func (v Value) List() []string { return append([]string(nil), v.list...) }

// Empty reports whether the value carries no answer.
func (v Value) Empty() bool {
	switch v.kind {
	case ValueText:
		return strings.TrimSpace(v.text) == ""
	case ValueList:
		return len(v.list) == 0
	case ValueBool:
		return false
	default:
		return true
	}
}

func (v Value) Equal(o Value) bool {
	if v.kind != o.kind || v.text != o.text || v.flag != o.flag || len(v.list) != len(o.list) {
		return false
	}
	for i := range v.list {
		if v.list[i] != o.list[i] {
			return false
		}
	}
	return true
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case ValueText:
		return json.Marshal(v.text)
	case ValueList:
		if v.list == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.list)
	case ValueBool:
		return json.Marshal(v.flag)
	default:
		return []byte("null"), nil
	}
}

func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*v = Value{}
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = TextOf(s)
	case len(data) > 0 && data[0] == '[':
		var items []string
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		*v = ListOf(items)
	default:
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return fmt.Errorf("answer value must be a string, list or boolean: %w", err)
		}
		*v = BoolOf(b)
	}
	return nil
}

// Coerce turns a decoded JSON answer into a typed value for the field. An empty string
// or null is "no answer" for every field type.
func (f Field) Coerce(raw any) (Value, error) {
	if raw == nil {
		return Value{}, nil
	}
	if s, ok := raw.(string); ok && strings.TrimSpace(s) == "" {
		return Value{}, nil
	}
	return f.Kind.coerce(f, raw)
}

// Missing reports whether v fails the field's required rule. A required checkbox must
// be checked.
func (f Field) Missing(v Value) bool {
	if _, ok := f.Kind.(Checkbox); ok {
		return !v.Bool()
	}
	return v.Empty()
}

func (p Plain) coerce(f Field, raw any) (Value, error) {
	switch p.T {
	case TypeNumber:
		switch n := raw.(type) {
		case float64:
			return TextOf(strconv.FormatFloat(n, 'f', -1, 64)), nil
		case json.Number:
			if _, err := n.Float64(); err != nil {
				return Value{}, apperr.InvalidAnswer("%q expects a number", f.Label)
			}
			return TextOf(n.String()), nil
		case string:
			s := strings.TrimSpace(n)
			if _, err := strconv.ParseFloat(s, 64); err != nil {
				return Value{}, apperr.InvalidAnswer("%q expects a number", f.Label)
			}
			return TextOf(s), nil
		}
		return Value{}, apperr.InvalidAnswer("%q expects a number", f.Label)
	case TypeEmail:
		s, ok := raw.(string)
		if !ok {
			return Value{}, apperr.InvalidAnswer("%q expects an email address", f.Label)
		}
		s = strings.TrimSpace(s)
		addr, err := mail.ParseAddress(s)
		if err != nil || addr.Address != s {
			return Value{}, apperr.InvalidAnswer("%q expects an email address", f.Label)
		}
		return TextOf(s), nil
	default:
		switch s := raw.(type) {
		case string:
			return TextOf(s), nil
		case json.Number:
			return TextOf(s.String()), nil
		case float64:
			return TextOf(strconv.FormatFloat(s, 'f', -1, 64)), nil
		}
		return Value{}, apperr.InvalidAnswer("%q expects text", f.Label)
	}
}

func (Checkbox) coerce(f Field, raw any) (Value, error) {
	switch b := raw.(type) {
	case bool:
		return BoolOf(b), nil
	case string:
		switch strings.ToLower(strings.TrimSpace(b)) {
		case "true", "on", "yes":
			return BoolOf(true), nil
		case "false", "off", "no":
			return BoolOf(false), nil
		}
	}
	return Value{}, apperr.InvalidAnswer("%q expects true or false", f.Label)
}

func (c Choice) coerce(f Field, raw any) (Value, error) {
	if !c.Multi() {
		s, ok := raw.(string)
		if !ok {
			return Value{}, apperr.InvalidAnswer("%q expects one of its options", f.Label)
		}
		if !c.Has(s) {
			return Value{}, apperr.InvalidAnswer("%q is not an option of %q", s, f.Label)
		}
		return TextOf(s), nil
	}

	var items []string
	switch v := raw.(type) {
	case string:
		items = []string{v}
	case []string:
		items = v
	case []any:
		items = make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return Value{}, apperr.InvalidAnswer("%q expects a list of options", f.Label)
			}
			items = append(items, s)
		}
	default:
		return Value{}, apperr.InvalidAnswer("%q expects a list of options", f.Label)
	}

	selected := make([]string, 0, len(items))
	seen := make(map[string]bool, len(items))
	for _, s := range items {
		if !c.Has(s) {
			return Value{}, apperr.InvalidAnswer("%q is not an option of %q", s, f.Label)
		}
		if seen[s] {
			continue
		}
		seen[s] = true
		selected = append(selected, s)
	}
	if len(selected) == 0 {
		return Value{}, nil
	}
	return ListOf(selected), nil
}

// File answers arrive as multipart parts, not in the answer map.
func (Upload) coerce(Field, any) (Value, error) { return Value{}, nil }
