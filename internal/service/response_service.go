package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Sanjeetkumar61/FormBuilder/internal/apperr"
	"github.com/Sanjeetkumar61/FormBuilder/internal/binder"
	"github.com/Sanjeetkumar61/FormBuilder/internal/guard"
	"github.com/Sanjeetkumar61/FormBuilder/internal/logging"
	"github.com/Sanjeetkumar61/FormBuilder/internal/metrics"
	"github.com/Sanjeetkumar61/FormBuilder/internal/models"
	"github.com/Sanjeetkumar61/FormBuilder/internal/storage"
)

type ResponseService struct {
	forms     FormStore
	responses ResponseStore
	files     storage.FileStore
	metrics   *metrics.Metrics
	now       func() time.Time
}

func NewResponseService(forms FormStore, responses ResponseStore, files storage.FileStore, m *metrics.Metrics) *ResponseService {
	return &ResponseService{forms: forms, responses: responses, files: files, metrics: m, now: time.Now}
}

// Submit binds a raw submission to its form, stores the uploaded files and persists the
// response. Files already stored are removed again when a later step fails.
func (s *ResponseService) Submit(ctx context.Context, p binder.Payload) (*models.Response, error) {
	resp, size, err := s.submit(ctx, p)
	switch {
	case err == nil:
		s.metrics.Submission(metrics.OutcomeAccepted)
		s.metrics.Uploaded(size)
	case apperr.KindOf(err) == apperr.KindInternal:
		s.metrics.Submission(metrics.OutcomeFailed)
	default:
		s.metrics.Submission(metrics.OutcomeRejected)
	}
	return resp, err
}

func (s *ResponseService) submit(ctx context.Context, p binder.Payload) (*models.Response, int64, error) {
	if err := p.Validate(); err != nil {
		return nil, 0, err
	}
	form, err := s.forms.FindByID(ctx, p.FormID)
	if err != nil {
		return nil, 0, apperr.Internal(err, "find form")
	}
	if form == nil {
		return nil, 0, apperr.NotFound("Form not found with ID: %s", p.FormID)
	}

	bound, err := binder.Bind(form, p)
	if err != nil {
		return nil, 0, err
	}

	now := s.now().UTC()
	files := make([]models.FileRecord, 0, len(bound.Uploads))
	var size int64
	for _, u := range bound.Uploads {
		rec, err := s.store(ctx, u, now)
		if err != nil {
			s.cleanup(ctx, files)
			return nil, 0, err
		}
		files = append(files, rec)
		size += rec.FileSize
	}

	resp := &models.Response{
		FormID:    form.ID,
		UserID:    strings.TrimSpace(p.UserID),
		UserName:  strings.TrimSpace(p.UserName),
		Answers:   bound.Answers,
		Files:     files,
		CreatedAt: now,
	}
	id, err := s.responses.Create(ctx, resp)
	if err != nil {
		s.cleanup(ctx, files)
		return nil, 0, apperr.Internal(err, "create response")
	}
	resp.ID = id
	return resp, size, nil
}

func (s *ResponseService) store(ctx context.Context, u binder.Upload, at time.Time) (models.FileRecord, error) {
	if u.Open == nil {
		return models.FileRecord{}, apperr.Internal(errors.New("part has no content"), "read upload "+u.Name)
	}
	rc, err := u.Open()
	if err != nil {
		return models.FileRecord{}, apperr.Internal(err, "read upload "+u.Name)
	}
	defer rc.Close()

	name := storage.NewName(u.FileName)
	path, err := s.files.Save(ctx, name, rc, u.Size, u.ContentType)
	if err != nil {
		return models.FileRecord{}, apperr.Internal(err, "store upload "+u.Name)
	}
	return models.FileRecord{
		FieldID:          u.FieldID,
		FieldLabel:       u.FieldLabel,
		FileName:         name,
		FilePath:         path,
		OriginalFileName: u.FileName,
		FileSize:         u.Size,
		MimeType:         u.ContentType,
		UploadedAt:       at,
	}, nil
}

func (s *ResponseService) cleanup(ctx context.Context, files []models.FileRecord) {
	// The request may already be cancelled; removal must still run.
	ctx = context.WithoutCancel(ctx)
	for _, f := range files {
		if err := s.files.Remove(ctx, f.FilePath); err != nil {
			logging.FromContext(ctx).Warn("upload cleanup failed",
				zap.String("path", f.FilePath), zap.Error(err))
		}
	}
}

// ListForForm returns a form's responses, newest first, to the form's owner. Answer
// labels come from the form as it is now.
func (s *ResponseService) ListForForm(ctx context.Context, formID, adminID string) ([]models.Response, error) {
	form, err := s.ownedForm(ctx, formID, adminID)
	if err != nil {
		return nil, err
	}
	list, err := s.responses.FindByFormID(ctx, formID)
	if err != nil {
		return nil, apperr.Internal(err, "list responses")
	}
	for i := range list {
		list[i].Answers = list[i].Answers.Relabel(form)
	}
	return list, nil
}

// Count is public: a bare count reveals nothing about the answers.
func (s *ResponseService) Count(ctx context.Context, formID string) (int64, error) {
	n, err := s.responses.CountByFormID(ctx, formID)
	if err != nil {
		return 0, apperr.Internal(err, "count responses")
	}
	return n, nil
}

// Get is unauthenticated: any caller holding a response id can read the response.
func (s *ResponseService) Get(ctx context.Context, id string) (*models.Response, error) {
	resp, err := s.responses.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.Internal(err, "find response")
	}
	if resp == nil {
		return nil, apperr.NotFound("Response not found")
	}
	form, err := s.forms.FindByID(ctx, resp.FormID)
	if err != nil {
		return nil, apperr.Internal(err, "find form")
	}
	if form != nil {
		resp.Answers = resp.Answers.Relabel(form)
	}
	return resp, nil
}

// OpenFile streams the index-th file of a response to the owner of its form.
func (s *ResponseService) OpenFile(ctx context.Context, responseID string, index int, adminID string) (io.ReadCloser, *models.FileRecord, error) {
	resp, err := s.responses.FindByID(ctx, responseID)
	if err != nil {
		return nil, nil, apperr.Internal(err, "find response")
	}
	if resp == nil {
		return nil, nil, apperr.NotFound("Response not found")
	}
	if _, err := s.ownedForm(ctx, resp.FormID, adminID); err != nil {
		return nil, nil, err
	}
	if index < 0 || index >= len(resp.Files) {
		return nil, nil, apperr.NotFound("File not found")
	}
	rec := resp.Files[index]
	rc, err := s.files.Open(ctx, rec.FilePath)
	if err != nil {
		return nil, nil, apperr.Internal(err, fmt.Sprintf("open file %s", rec.FileName))
	}
	return rc, &rec, nil
}

func (s *ResponseService) ownedForm(ctx context.Context, formID, adminID string) (*models.Form, error) {
	form, err := s.forms.FindByID(ctx, formID)
	if err != nil {
		return nil, apperr.Internal(err, "find form")
	}
	if form == nil {
		return nil, apperr.NotFound("Form not found")
	}
	if err := guard.Authorize(form, adminID); err != nil {
		return nil, err
	}
	return form, nil
}
