package service

import (
	"context"

	"github.com/Sanjeetkumar61/FormBuilder/internal/models"
)

// Store contracts. Finders return (nil, nil) when the record does not exist, the way
// the repositories in internal/repository do.

type FormStore interface {
	Create(ctx context.Context, form *models.Form) (string, error)
	FindByID(ctx context.Context, id string) (*models.Form, error)
	// FindActive lists active forms newest first; an empty adminID lists every owner's.
	FindActive(ctx context.Context, adminID string) ([]models.Form, error)
	Update(ctx context.Context, id string, form *models.Form) error
}

type ResponseStore interface {
	Create(ctx context.Context, resp *models.Response) (string, error)
	FindByID(ctx context.Context, id string) (*models.Response, error)
	FindByFormID(ctx context.Context, formID string) ([]models.Response, error)
	CountByFormID(ctx context.Context, formID string) (int64, error)
}

type AdminStore interface {
	// Create fails with apperr.ErrConflict when the email is taken.
	Create(ctx context.Context, admin *models.Admin) (string, error)
	FindByEmail(ctx context.Context, email string) (*models.Admin, error)
	FindByID(ctx context.Context, id string) (*models.Admin, error)
}
