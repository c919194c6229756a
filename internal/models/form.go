package models

import (
	"time"

	"github.com/Sanjeetkumar61/FormBuilder/internal/schema"
)

// Form is an admin-owned, ordered set of fields. Deleting a form only clears IsActive so
// responses keep pointing at a real record.
type Form struct {
	ID        string         `json:"_id"`
	AdminID   string         `json:"adminId"`
	Title     string         `json:"title"`
	Fields    []schema.Field `json:"fields"`
	IsActive  bool           `json:"isActive"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

// OwnerID satisfies guard.Owned.
func (f *Form) OwnerID() string { return f.AdminID }

func (f *Form) FieldByID(id int) (schema.Field, bool) {
	for _, field := range f.Fields {
		if field.ID == id {
			return field, true
		}
	}
	return schema.Field{}, false
}

func (f *Form) FieldByLabel(label string) (schema.Field, bool) {
	for _, field := range f.Fields {
		if field.Label == label {
			return field, true
		}
	}
	return schema.Field{}, false
}

// Clone returns a copy whose field slice can be modified independently.
func (f *Form) Clone() *Form {
	c := *f
	c.Fields = append([]schema.Field(nil), f.Fields...)
	return &c
}
