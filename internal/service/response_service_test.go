package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sanjeetkumar61/FormBuilder/internal/apperr"
	"github.com/Sanjeetkumar61/FormBuilder/internal/binder"
	"github.com/Sanjeetkumar61/FormBuilder/internal/metrics"
	"github.com/Sanjeetkumar61/FormBuilder/internal/models"
	"github.com/Sanjeetkumar61/FormBuilder/internal/repository"
	"github.com/Sanjeetkumar61/FormBuilder/internal/schema"
	"github.com/Sanjeetkumar61/FormBuilder/internal/storage"
)

type fixture struct {
	forms     *FormService
	responses *ResponseService
	dir       string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()
	files, err := storage.NewLocal(dir)
	require.NoError(t, err)
	formRepo := repository.NewMemoryFormRepo()
	respRepo := repository.NewMemoryResponseRepo()
	return &fixture{
		forms:     NewFormService(formRepo, respRepo),
		responses: NewResponseService(formRepo, respRepo, files, metrics.New()),
		dir:       dir,
	}
}

func payload(formID, answers string, parts ...binder.Part) binder.Payload {
	return binder.Payload{FormID: formID, UserID: "USER_1", UserName: "Ada", Answers: []byte(answers), Parts: parts}
}

func filePart(name, fileName, contentType string, data []byte) binder.Part {
	return binder.Part{
		Name:        name,
		FileName:    fileName,
		ContentType: contentType,
		Size:        int64(len(data)),
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}

func TestSubmit_FeedbackScenario(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	form, err := f.forms.Create(ctx, "a1", "Feedback", []schema.Definition{
		{ID: 1, Label: "Rating", Type: schema.TypeDropdown, Options: []string{"Good", "Bad"}},
	})
	require.NoError(t, err)

	resp, err := f.responses.Submit(ctx, payload(form.ID, `{"Rating":"Good"}`))
	require.NoError(t, err)
	assert.NotEmpty(t, resp.ID)
	assert.NotNil(t, resp.Files)
	assert.Empty(t, resp.Files)
	a, ok := resp.Answers.ByLabel("Rating")
	require.True(t, ok)
	assert.Equal(t, "Good", a.Value.Text())

	n, err := f.responses.Count(ctx, form.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	got, err := f.responses.Get(ctx, resp.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada", got.UserName)
}

func TestSubmit_Rejections(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	form, err := f.forms.Create(ctx, "a1", "Feedback", []schema.Definition{
		{ID: 1, Label: "Rating", Type: schema.TypeDropdown, Options: []string{"Good", "Bad"}, Required: true},
	})
	require.NoError(t, err)

	_, err = f.responses.Submit(ctx, binder.Payload{FormID: form.ID, UserID: "u", Answers: []byte(`{}`)})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = f.responses.Submit(ctx, payload("nope", `{"Rating":"Good"}`))
	require.ErrorIs(t, err, apperr.ErrNotFound)
	assert.Contains(t, err.Error(), "nope")

	_, err = f.responses.Submit(ctx, payload(form.ID, `{"Rating":"Meh"}`))
	assert.ErrorIs(t, err, apperr.ErrInvalidAnswer)

	_, err = f.responses.Submit(ctx, payload(form.ID, `{"Rating":""}`))
	assert.ErrorIs(t, err, apperr.ErrValidation)

	n, err := f.responses.Count(ctx, form.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSubmit_StoresFilesAndBindsThemToFields(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	form, err := f.forms.Create(ctx, "a1", "Apply", []schema.Definition{
		{ID: 1, Label: "Name", Type: schema.TypeText, Required: true},
		{ID: 3, Label: "Profile Picture", Type: schema.TypeFile, AcceptedFileTypes: []schema.FileCategory{schema.FileImage}, MaxFileSize: 16},
	})
	require.NoError(t, err)

	resp, err := f.responses.Submit(ctx, payload(form.ID, `{"Name":"Ada","Profile Picture":""}`,
		filePart("3_Profile Picture", "me.png", "image/png", []byte("png-bytes")),
		filePart("Profile Picture", "extra.txt", "text/plain", []byte("x")),
	))
	require.NoError(t, err)
	require.Len(t, resp.Files, 2)

	pic := resp.Files[0]
	assert.Equal(t, 3, pic.FieldID)
	assert.Equal(t, "Profile Picture", pic.FieldLabel)
	assert.Equal(t, "me.png", pic.OriginalFileName)
	assert.EqualValues(t, 9, pic.FileSize)
	assert.Equal(t, "image/png", pic.MimeType)
	assert.False(t, pic.UploadedAt.IsZero())

	assert.Equal(t, 0, resp.Files[1].FieldID)

	data, err := os.ReadFile(pic.FilePath)
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))

	rc, rec, err := f.responses.OpenFile(ctx, resp.ID, 0, "a1")
	require.NoError(t, err)
	defer rc.Close()
	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(body))
	assert.Equal(t, pic.FileName, rec.FileName)

	_, _, err = f.responses.OpenFile(ctx, resp.ID, 0, "intruder")
	assert.ErrorIs(t, err, apperr.ErrForbidden)
	_, _, err = f.responses.OpenFile(ctx, resp.ID, 5, "a1")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestSubmit_FileTooLargeStoresNothing(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	form, err := f.forms.Create(ctx, "a1", "Apply", []schema.Definition{
		{ID: 3, Label: "CV", Type: schema.TypeFile, MaxFileSize: 4},
	})
	require.NoError(t, err)

	_, err = f.responses.Submit(ctx, payload(form.ID, `{}`, filePart("3_CV", "cv.pdf", "application/pdf", []byte("12345"))))
	assert.ErrorIs(t, err, apperr.ErrFileTooLarge)

	entries, err := os.ReadDir(f.dir)
	require.NoError(t, err)
	assert.Empty(t, entries)

	_, err = f.responses.Submit(ctx, payload(form.ID, `{}`, filePart("3_CV", "cv.pdf", "application/pdf", []byte("1234"))))
	assert.NoError(t, err)
}

type failingResponses struct{ ResponseStore }

func (failingResponses) Create(context.Context, *models.Response) (string, error) {
	return "", errors.New("disk full")
}

func TestSubmit_RemovesStoredFilesWhenPersistFails(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	files, err := storage.NewLocal(dir)
	require.NoError(t, err)
	formRepo := repository.NewMemoryFormRepo()
	forms := NewFormService(formRepo, repository.NewMemoryResponseRepo())
	svc := NewResponseService(formRepo, failingResponses{repository.NewMemoryResponseRepo()}, files, nil)

	form, err := forms.Create(ctx, "a1", "Apply", []schema.Definition{{ID: 1, Label: "CV", Type: schema.TypeFile}})
	require.NoError(t, err)

	_, err = svc.Submit(ctx, payload(form.ID, `{}`, filePart("1_CV", "cv.pdf", "application/pdf", []byte("data"))))
	assert.ErrorIs(t, err, apperr.ErrInternal)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSubmit_ConcurrentUploadsNeverCollide(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	form, err := f.forms.Create(ctx, "a1", "Apply", []schema.Definition{{ID: 1, Label: "CV", Type: schema.TypeFile}})
	require.NoError(t, err)

	const n = 20
	var wg sync.WaitGroup
	results := make([]*models.Response, n)
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			content := []byte(fmt.Sprintf("file-%d", i))
			results[i], errs[i] = f.responses.Submit(ctx, payload(form.ID, `{}`, filePart("1_CV", "cv.pdf", "application/pdf", content)))
		}(i)
	}
	wg.Wait()

	seen := make(map[string]bool, n)
	for i := 0; i < n; i++ {
		require.NoError(t, errs[i])
		require.Len(t, results[i].Files, 1)
		name := results[i].Files[0].FileName
		assert.False(t, seen[name], "stored name %s reused", name)
		seen[name] = true

		data, err := os.ReadFile(results[i].Files[0].FilePath)
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("file-%d", i), string(data))
	}
}

func TestListForForm(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	form, err := f.forms.Create(ctx, "owner", "Survey", []schema.Definition{{ID: 1, Label: "Name", Type: schema.TypeText}})
	require.NoError(t, err)

	first, err := f.responses.Submit(ctx, payload(form.ID, `{"Name":"Ada"}`))
	require.NoError(t, err)
	second, err := f.responses.Submit(ctx, payload(form.ID, `{"Name":"Bob"}`))
	require.NoError(t, err)

	_, err = f.responses.ListForForm(ctx, form.ID, "intruder")
	assert.ErrorIs(t, err, apperr.ErrForbidden)
	_, err = f.responses.ListForForm(ctx, "missing", "owner")
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	// Relabeling the field keeps old answers attached to it.
	_, err = f.forms.Update(ctx, form.ID, "owner", FormPatch{Fields: []schema.Definition{{ID: 1, Label: "Full name", Type: schema.TypeText}}})
	require.NoError(t, err)

	list, err := f.responses.ListForForm(ctx, form.ID, "owner")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)
	a, ok := list[1].Answers.ByLabel("Full name")
	require.True(t, ok)
	assert.Equal(t, "Ada", a.Value.Text())
}
