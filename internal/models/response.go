package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Sanjeetkumar61/FormBuilder/internal/schema"
)

// Response is one respondent's submission. It is never edited after creation.
// UserID is whatever the client generated; it identifies nothing and authorizes nothing.
type Response struct {
	ID        string       `json:"_id"`
	FormID    string       `json:"formId"`
	UserID    string       `json:"userId"`
	UserName  string       `json:"userName"`
	Answers   AnswerSet    `json:"answers"`
	Files     []FileRecord `json:"files"`
	CreatedAt time.Time    `json:"createdAt"`
}

// Answer is keyed by field id. Label is the field's label when the answer was given and
// is refreshed from the current form when responses are read back.
type Answer struct {
	FieldID int
	Label   string
	Value   schema.Value
	// Detached is set by Relabel when the field no longer exists on the form.
	Detached bool
}

// AnswerSet keeps answers in form order. It renders as a JSON object keyed by label.
type AnswerSet []Answer

func (s AnswerSet) ByFieldID(id int) (Answer, bool) {
	for _, a := range s {
		if a.FieldID == id {
			return a, true
		}
	}
	return Answer{}, false
}

func (s AnswerSet) ByLabel(label string) (Answer, bool) {
	for _, a := range s {
		if a.Label == label {
			return a, true
		}
	}
	return Answer{}, false
}

// Relabel copies current labels from the form onto answers whose field still exists
// and marks the others detached.
func (s AnswerSet) Relabel(form *Form) AnswerSet {
	out := make(AnswerSet, len(s))
	for i, a := range s {
		if f, ok := form.FieldByID(a.FieldID); ok {
			a.Label = f.Label
			a.Detached = false
		} else {
			a.Detached = true
		}
		out[i] = a
	}
	return out
}

// keys returns one distinct object key per answer. A label held by several answers
// stays with the answer whose field still exists (or the first one); the others are
// written as "<label>#<fieldId>".
func (s AnswerSet) keys() []string {
	holder := make(map[string]int, len(s))
	for i, a := range s {
		j, taken := holder[a.Label]
		if !taken || (s[j].Detached && !a.Detached) {
			holder[a.Label] = i
		}
	}
	keys := make([]string, len(s))
	used := make(map[string]bool, len(s))
	for i, a := range s {
		key := a.Label
		if holder[key] != i {
			key = fmt.Sprintf("%s#%d", a.Label, a.FieldID)
		}
		for n := 2; used[key]; n++ {
			key = fmt.Sprintf("%s#%d.%d", a.Label, a.FieldID, n)
		}
		used[key] = true
		keys[i] = key
	}
	return keys
}

func (s AnswerSet) MarshalJSON() ([]byte, error) {
	keys := s.keys()
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, a := range s {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(keys[i])
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(a.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// FileRecord describes one uploaded file and the field it was submitted for.
// FieldID is 0 when the part name carried no usable id.
type FileRecord struct {
	FieldID          int       `json:"fieldId" bson:"fieldId"`
	FieldLabel       string    `json:"fieldLabel" bson:"fieldLabel"`
	FileName         string    `json:"fileName" bson:"fileName"`
	FilePath         string    `json:"filePath" bson:"filePath"`
	OriginalFileName string    `json:"originalFileName" bson:"originalFileName"`
	FileSize         int64     `json:"fileSize" bson:"fileSize"`
	MimeType         string    `json:"mimeType" bson:"mimeType"`
	UploadedAt       time.Time `json:"uploadedAt" bson:"uploadedAt"`
}
