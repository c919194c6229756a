// Package binder turns one raw form submission (text answers plus uploaded file parts)
// into answers keyed by field and uploads bound to the field they were sent for.
package binder

import (
	"bytes"
	"encoding/json"
	"io"
	"strconv"
	"strings"

	"github.com/Sanjeetkumar61/FormBuilder/internal/apperr"
	"github.com/Sanjeetkumar61/FormBuilder/internal/models"
	"github.com/Sanjeetkumar61/FormBuilder/internal/schema"
)

// Part is one uploaded file as the transport received it.
type Part struct {
	// Name is the multipart field name, "<fieldId>_<fieldLabel>".
	Name        string
	FileName    string
	ContentType string
	Size        int64
	Open        func() (io.ReadCloser, error)
}

// Payload is a submission before binding. Answers holds the JSON-encoded answer object.
type Payload struct {
	FormID   string
	UserID   string
	UserName string
	Answers  []byte
	Parts    []Part
}

// Validate checks that every required top-level input is present.
func (p Payload) Validate() error {
	if strings.TrimSpace(p.FormID) == "" ||
		strings.TrimSpace(p.UserID) == "" ||
		strings.TrimSpace(p.UserName) == "" ||
		len(bytes.TrimSpace(p.Answers)) == 0 {
		return apperr.Validation("All fields are required: formId, userId, userName, answers")
	}
	return nil
}

// Upload is a file part with the field binding parsed from its name.
type Upload struct {
	Part
	FieldID    int
	FieldLabel string
}

type Result struct {
	Answers models.AnswerSet
	Uploads []Upload
}

// ParsePartName splits a part name on its first underscore. The left token is the field
// id, or 0 when it is not an integer; the rest (which may itself contain underscores)
// is the label, or the whole name when nothing follows the separator.
func ParsePartName(name string) (int, string) {
	head, rest, _ := strings.Cut(name, "_")
	id, err := strconv.Atoi(head)
	if err != nil || id < 0 {
		id = 0
	}
	if rest == "" {
		rest = name
	}
	return id, rest
}

// Bind validates the payload's answers and uploads against the form.
func Bind(form *models.Form, p Payload) (*Result, error) {
	raw, err := decodeAnswers(p.Answers)
	if err != nil {
		return nil, err
	}

	values := make(map[int]schema.Value, len(raw))
	for key, v := range raw {
		field, ok := resolve(form, key)
		if !ok {
			return nil, apperr.InvalidAnswer("%q is not a field of this form", key)
		}
		if _, dup := values[field.ID]; dup {
			return nil, apperr.Validation("field %q is answered twice", field.Label)
		}
		value, err := field.Coerce(v)
		if err != nil {
			return nil, err
		}
		values[field.ID] = value
	}

	uploads, counts, err := bindParts(form, p.Parts)
	if err != nil {
		return nil, err
	}

	answers := make(models.AnswerSet, 0, len(form.Fields))
	for _, field := range form.Fields {
		if _, isFile := field.Upload(); isFile {
			if field.Required && counts[field.ID] == 0 {
				return nil, apperr.Validation("required field missing: %s", field.Label)
			}
			continue
		}
		value := values[field.ID]
		if field.Required && field.Missing(value) {
			return nil, apperr.Validation("required field missing: %s", field.Label)
		}
		if value.Kind() == schema.ValueNone {
			continue
		}
		answers = append(answers, models.Answer{FieldID: field.ID, Label: field.Label, Value: value})
	}

	return &Result{Answers: answers, Uploads: uploads}, nil
}

// decodeAnswers keeps numbers as json.Number so long digit strings survive unrounded.
func decodeAnswers(data []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil || raw == nil {
		return nil, apperr.Validation("answers must be a JSON object")
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, apperr.Validation("answers must be a JSON object")
	}
	return raw, nil
}

// resolve finds the field an answer key refers to: its label, or its decimal id.
func resolve(form *models.Form, key string) (schema.Field, bool) {
	if f, ok := form.FieldByLabel(key); ok {
		return f, true
	}
	if f, ok := form.FieldByLabel(schema.Clean(key)); ok {
		return f, true
	}
	if id, err := strconv.Atoi(strings.TrimSpace(key)); err == nil {
		return form.FieldByID(id)
	}
	return schema.Field{}, false
}

// bindParts never fails on a malformed part name; such files are kept with the id the
// name yields. Files bound to a file field are checked against its constraints.
func bindParts(form *models.Form, parts []Part) ([]Upload, map[int]int, error) {
	uploads := make([]Upload, 0, len(parts))
	counts := make(map[int]int)
	for _, part := range parts {
		id, label := ParsePartName(part.Name)
		if field, ok := form.FieldByID(id); ok {
			if u, isFile := field.Upload(); isFile {
				if err := u.Check(part.FileName, part.ContentType, part.Size); err != nil {
					return nil, nil, err
				}
				counts[id]++
			}
		}
		uploads = append(uploads, Upload{Part: part, FieldID: id, FieldLabel: label})
	}
	return uploads, counts, nil
}
