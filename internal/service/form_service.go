package service

import (
	"context"
	"time"

	"github.com/Sanjeetkumar61/FormBuilder/internal/apperr"
	"github.com/Sanjeetkumar61/FormBuilder/internal/guard"
	"github.com/Sanjeetkumar61/FormBuilder/internal/models"
	"github.com/Sanjeetkumar61/FormBuilder/internal/schema"
)

type FormService struct {
	forms     FormStore
	responses ResponseStore
	now       func() time.Time
}

func NewFormService(forms FormStore, responses ResponseStore) *FormService {
	return &FormService{forms: forms, responses: responses, now: time.Now}
}

// FormPatch carries a partial update. A nil Title or an empty title leaves the title
// as it is; a nil Fields leaves the fields, while a non-nil empty Fields is rejected.
type FormPatch struct {
	Title  *string
	Fields []schema.Definition
}

func (s *FormService) Create(ctx context.Context, adminID, title string, defs []schema.Definition) (*models.Form, error) {
	if adminID == "" {
		return nil, apperr.Auth("authentication required")
	}
	title = schema.Clean(title)
	if title == "" || len(defs) == 0 {
		return nil, apperr.Validation("Title and fields are required")
	}
	fields, err := schema.BuildAll(defs)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	form := &models.Form{
		AdminID:   adminID,
		Title:     title,
		Fields:    fields,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	id, err := s.forms.Create(ctx, form)
	if err != nil {
		return nil, apperr.Internal(err, "create form")
	}
	form.ID = id
	return form, nil
}

func (s *FormService) ListOwned(ctx context.Context, adminID string) ([]models.Form, error) {
	if adminID == "" {
		return nil, apperr.Auth("authentication required")
	}
	forms, err := s.forms.FindActive(ctx, adminID)
	if err != nil {
		return nil, apperr.Internal(err, "list forms")
	}
	return forms, nil
}

func (s *FormService) ListPublic(ctx context.Context) ([]models.Form, error) {
	forms, err := s.forms.FindActive(ctx, "")
	if err != nil {
		return nil, apperr.Internal(err, "list forms")
	}
	return forms, nil
}

// Get returns the form whether or not it was soft-deleted.
func (s *FormService) Get(ctx context.Context, id string) (*models.Form, error) {
	form, err := s.forms.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.Internal(err, "find form")
	}
	if form == nil {
		return nil, apperr.NotFound("Form not found")
	}
	return form, nil
}

// Update replaces the supplied parts of a form. Concurrent updates are last-write-wins.
func (s *FormService) Update(ctx context.Context, id, adminID string, patch FormPatch) (*models.Form, error) {
	form, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := guard.Authorize(form, adminID); err != nil {
		return nil, err
	}

	next := form.Clone()
	if patch.Title != nil {
		if title := schema.Clean(*patch.Title); title != "" {
			next.Title = title
		}
	}
	if patch.Fields != nil {
		if len(patch.Fields) == 0 {
			return nil, apperr.Validation("a form needs at least one field")
		}
		fields, err := schema.BuildAll(patch.Fields)
		if err != nil {
			return nil, err
		}
		next.Fields = fields
	}
	next.UpdatedAt = s.now().UTC()

	if err := s.forms.Update(ctx, id, next); err != nil {
		return nil, apperr.Internal(err, "update form")
	}
	return next, nil
}

// SoftDelete deactivates a form. Deleting an inactive form succeeds without a write.
func (s *FormService) SoftDelete(ctx context.Context, id, adminID string) error {
	form, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := guard.Authorize(form, adminID); err != nil {
		return err
	}
	if !form.IsActive {
		return nil
	}
	next := form.Clone()
	next.IsActive = false
	next.UpdatedAt = s.now().UTC()
	if err := s.forms.Update(ctx, id, next); err != nil {
		return apperr.Internal(err, "delete form")
	}
	return nil
}

type FormStats struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	FieldCount    int       `json:"fieldCount"`
	ResponseCount int64     `json:"responseCount"`
	CreatedAt     time.Time `json:"createdAt"`
}

type Dashboard struct {
	FormCount     int         `json:"formCount"`
	ResponseCount int64       `json:"responseCount"`
	Forms         []FormStats `json:"forms"`
}

// Dashboard summarizes an admin's active forms and their response counts.
func (s *FormService) Dashboard(ctx context.Context, adminID string) (*Dashboard, error) {
	forms, err := s.ListOwned(ctx, adminID)
	if err != nil {
		return nil, err
	}
	d := &Dashboard{FormCount: len(forms), Forms: make([]FormStats, 0, len(forms))}
	for _, f := range forms {
		count, err := s.responses.CountByFormID(ctx, f.ID)
		if err != nil {
			return nil, apperr.Internal(err, "count responses")
		}
		d.ResponseCount += count
		d.Forms = append(d.Forms, FormStats{
			ID:            f.ID,
			Title:         f.Title,
			FieldCount:    len(f.Fields),
			ResponseCount: count,
			CreatedAt:     f.CreatedAt,
		})
	}
	return d, nil
}
