package repository

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/Sanjeetkumar61/FormBuilder/internal/apperr"
	"github.com/Sanjeetkumar61/FormBuilder/internal/models"
)

// The memory repos back the "memory" store driver and the tests. They hand out copies,
// so callers never share state with the store.

type memEntry[T any] struct {
	seq uint64
	val T
}

type MemoryFormRepo struct {
	mu    sync.RWMutex
	seq   uint64
	forms map[string]memEntry[models.Form]
}

func NewMemoryFormRepo() *MemoryFormRepo {
	return &MemoryFormRepo{forms: make(map[string]memEntry[models.Form])}
}

func (r *MemoryFormRepo) Create(_ context.Context, form *models.Form) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	id := uuid.New().String()
	f := form.Clone()
	f.ID = id
	r.forms[id] = memEntry[models.Form]{seq: r.seq, val: *f}
	return id, nil
}

func (r *MemoryFormRepo) FindByID(_ context.Context, id string) (*models.Form, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.forms[id]
	if !ok {
		return nil, nil
	}
	return e.val.Clone(), nil
}

func (r *MemoryFormRepo) FindActive(_ context.Context, adminID string) ([]models.Form, error) {
	r.mu.RLock()
	entries := make([]memEntry[models.Form], 0, len(r.forms))
	for _, e := range r.forms {
		if e.val.IsActive && (adminID == "" || e.val.AdminID == adminID) {
			entries = append(entries, e)
		}
	}
	r.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if !a.val.CreatedAt.Equal(b.val.CreatedAt) {
			return a.val.CreatedAt.After(b.val.CreatedAt)
		}
		return a.seq > b.seq
	})
	out := make([]models.Form, 0, len(entries))
	for _, e := range entries {
		out = append(out, *e.val.Clone())
	}
	return out, nil
}

func (r *MemoryFormRepo) Update(_ context.Context, id string, form *models.Form) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.forms[id]
	if !ok {
		return apperr.NotFound("form not found with ID: %s", id)
	}
	f := form.Clone()
	f.ID = id
	f.AdminID = e.val.AdminID
	f.CreatedAt = e.val.CreatedAt
	e.val = *f
	r.forms[id] = e
	return nil
}

type MemoryResponseRepo struct {
	mu        sync.RWMutex
	seq       uint64
	responses map[string]memEntry[models.Response]
}

func NewMemoryResponseRepo() *MemoryResponseRepo {
	return &MemoryResponseRepo{responses: make(map[string]memEntry[models.Response])}
}

func copyResponse(r models.Response) models.Response {
	r.Answers = append(models.AnswerSet{}, r.Answers...)
	r.Files = append([]models.FileRecord{}, r.Files...)
	return r
}

func (r *MemoryResponseRepo) Create(_ context.Context, resp *models.Response) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	id := uuid.New().String()
	c := copyResponse(*resp)
	c.ID = id
	r.responses[id] = memEntry[models.Response]{seq: r.seq, val: c}
	return id, nil
}

func (r *MemoryResponseRepo) FindByID(_ context.Context, id string) (*models.Response, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.responses[id]
	if !ok {
		return nil, nil
	}
	c := copyResponse(e.val)
	return &c, nil
}

func (r *MemoryResponseRepo) FindByFormID(_ context.Context, formID string) ([]models.Response, error) {
	r.mu.RLock()
	entries := make([]memEntry[models.Response], 0)
	for _, e := range r.responses {
		if e.val.FormID == formID {
			entries = append(entries, e)
		}
	}
	r.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if !a.val.CreatedAt.Equal(b.val.CreatedAt) {
			return a.val.CreatedAt.After(b.val.CreatedAt)
		}
		return a.seq > b.seq
	})
	out := make([]models.Response, 0, len(entries))
	for _, e := range entries {
		out = append(out, copyResponse(e.val))
	}
	return out, nil
}

func (r *MemoryResponseRepo) CountByFormID(_ context.Context, formID string) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var n int64
	for _, e := range r.responses {
		if e.val.FormID == formID {
			n++
		}
	}
	return n, nil
}

type MemoryAdminRepo struct {
	mu     sync.RWMutex
	admins map[string]models.Admin
}

func NewMemoryAdminRepo() *MemoryAdminRepo {
	return &MemoryAdminRepo{admins: make(map[string]models.Admin)}
}

func (r *MemoryAdminRepo) Create(_ context.Context, admin *models.Admin) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.admins {
		if strings.EqualFold(a.Email, admin.Email) {
			return "", apperr.Conflict("admin already exists with email: %s", admin.Email)
		}
	}
	id := uuid.New().String()
	a := *admin
	a.ID = id
	r.admins[id] = a
	return id, nil
}

func (r *MemoryAdminRepo) FindByEmail(_ context.Context, email string) (*models.Admin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, a := range r.admins {
		if a.Email == email {
			return &a, nil
		}
	}
	return nil, nil
}

func (r *MemoryAdminRepo) FindByID(_ context.Context, id string) (*models.Admin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.admins[id]
	if !ok {
		return nil, nil
	}
	return &a, nil
}
