// Package schema models form fields: the closed set of field types, the per-type
// constraints each type carries, and the rules for turning a respondent's raw answer
// into a typed value. Nothing here performs I/O.
package schema

import (
	"encoding/json"
	"fmt"

	"github.com/Sanjeetkumar61/FormBuilder/internal/apperr"
)

type Type string

const (
	TypeText          Type = "text"
	TypeEmail         Type = "email"
	TypeNumber        Type = "number"
	TypeTextarea      Type = "textarea"
	TypeCheckbox      Type = "checkbox"
	TypeCheckboxGroup Type = "checkbox-group"
	TypeRadio         Type = "radio"
	TypeDropdown      Type = "dropdown"
	TypeFile          Type = "file"
)

// Types lists every supported field type in display order.
var Types = []Type{
	TypeText, TypeEmail, TypeNumber, TypeTextarea, TypeCheckbox,
	TypeCheckboxGroup, TypeRadio, TypeDropdown, TypeFile,
}

func (t Type) Valid() bool {
	for _, known := range Types {
		if t == known {
			return true
		}
	}
	return false
}

// Definition is the flat shape of a field as it travels over the API and into storage.
// Attributes that do not apply to Type are ignored by Build.
type Definition struct {
	ID                int            `json:"id" bson:"id"`
	Label             string         `json:"label" bson:"label"`
	Type              Type           `json:"type" bson:"type"`
	Required          bool           `json:"required" bson:"required"`
	Options           []string       `json:"options,omitempty" bson:"options,omitempty"`
	AcceptedFileTypes []FileCategory `json:"acceptedFileTypes,omitempty" bson:"acceptedFileTypes,omitempty"`
	MaxFileSize       int64          `json:"maxFileSize,omitempty" bson:"maxFileSize,omitempty"`
}

// Kind holds the type-specific part of a field. The set of kinds is closed:
// Plain, Checkbox, Choice and Upload.
type Kind interface {
	Type() Type
	define(d *Definition)
	coerce(f Field, raw any) (Value, error)
}

// Field is one validated question of a form.
type Field struct {
	ID       int
	Label    string
	Required bool
	Kind     Kind
}

func (f Field) Type() Type { return f.Kind.Type() }

// Definition flattens the field back into its wire shape.
func (f Field) Definition() Definition {
	d := Definition{ID: f.ID, Label: f.Label, Type: f.Kind.Type(), Required: f.Required}
	f.Kind.define(&d)
	return d
}

// Upload returns the file constraints when the field is a file field.
func (f Field) Upload() (Upload, bool) {
	u, ok := f.Kind.(Upload)
	return u, ok
}

func (f Field) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.Definition())
}

func (f *Field) UnmarshalJSON(data []byte) error {
	var d Definition
	if err := json.Unmarshal(data, &d); err != nil {
		return err
	}
	built, err := Build(d)
	if err != nil {
		return err
	}
	*f = built
	return nil
}

// Plain covers the free-form types: text, email, number and textarea.
type Plain struct {
	T Type
}

func (p Plain) Type() Type { return p.T }

func (p Plain) define(*Definition) {}

// Checkbox is a single boolean answer.
type Checkbox struct{}

func (Checkbox) Type() Type { return TypeCheckbox }

func (Checkbox) define(*Definition) {}

// Choice covers dropdown, radio and checkbox-group. Answers must be drawn from Options.
type Choice struct {
	T       Type
	Options []string
}

func (c Choice) Type() Type { return c.T }

// Multi reports whether more than one option may be selected.
func (c Choice) Multi() bool { return c.T == TypeCheckboxGroup }

func (c Choice) Has(option string) bool {
	for _, o := range c.Options {
		if o == option {
			return true
		}
	}
	return false
}

func (c Choice) define(d *Definition) {
	d.Options = append([]string(nil), c.Options...)
}

// Build validates a definition and returns the field variant for its type.
func Build(d Definition) (Field, error) {
	label := Clean(d.Label)
	if label == "" {
		return Field{}, apperr.Validation("field label is required")
	}
	if d.ID <= 0 {
		return Field{}, apperr.Validation("field %q must have a positive id", label)
	}
	f := Field{ID: d.ID, Label: label, Required: d.Required}

	switch d.Type {
	case TypeText, TypeEmail, TypeNumber, TypeTextarea:
		f.Kind = Plain{T: d.Type}
	case TypeCheckbox:
		f.Kind = Checkbox{}
	case TypeDropdown, TypeRadio, TypeCheckboxGroup:
		options, err := buildOptions(label, d.Options)
		if err != nil {
			return Field{}, err
		}
		f.Kind = Choice{T: d.Type, Options: options}
	case TypeFile:
		u, err := buildUpload(label, d.AcceptedFileTypes, d.MaxFileSize)
		if err != nil {
			return Field{}, err
		}
		f.Kind = u
	default:
		return Field{}, apperr.Validation("field %q has unsupported type %q", label, d.Type)
	}
	return f, nil
}

// BuildAll validates an ordered field list. Ids and labels must be unique within it.
func BuildAll(defs []Definition) ([]Field, error) {
	if len(defs) == 0 {
		return nil, apperr.Validation("at least one field is required")
	}
	fields := make([]Field, 0, len(defs))
	ids := make(map[int]bool, len(defs))
	labels := make(map[string]bool, len(defs))
	for _, d := range defs {
		f, err := Build(d)
		if err != nil {
			return nil, err
		}
		if ids[f.ID] {
			return nil, apperr.Validation("duplicate field id %d", f.ID)
		}
		if labels[f.Label] {
			return nil, apperr.Validation("duplicate field label %q", f.Label)
		}
		ids[f.ID] = true
		labels[f.Label] = true
		fields = append(fields, f)
	}
	return fields, nil
}

// Definitions flattens a field list.
func Definitions(fields []Field) []Definition {
	defs := make([]Definition, len(fields))
	for i, f := range fields {
		defs[i] = f.Definition()
	}
	return defs
}

func buildOptions(label string, raw []string) ([]string, error) {
	if len(raw) == 0 {
		return nil, apperr.Validation("field %q needs at least one option", label)
	}
	options := make([]string, 0, len(raw))
	seen := make(map[string]bool, len(raw))
	for _, o := range raw {
		o = Clean(o)
		if o == "" {
			return nil, apperr.Validation("field %q has a blank option", label)
		}
		if seen[o] {
			return nil, apperr.Validation("field %q repeats option %q", label, o)
		}
		seen[o] = true
		options = append(options, o)
	}
	return options, nil
}

func (f Field) String() string {
	return fmt.Sprintf("%d:%s(%s)", f.ID, f.Label, f.Type())
}
