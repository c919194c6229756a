package handler

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Sanjeetkumar61/FormBuilder/internal/binder"
	"github.com/Sanjeetkumar61/FormBuilder/internal/guard"
	"github.com/Sanjeetkumar61/FormBuilder/internal/logging"
	"github.com/Sanjeetkumar61/FormBuilder/internal/repository"
	"github.com/Sanjeetkumar61/FormBuilder/internal/schema"
	"github.com/Sanjeetkumar61/FormBuilder/internal/service"
	"github.com/Sanjeetkumar61/FormBuilder/internal/storage"
)

// brokenWriter accepts headers but fails every body write, like a client that hung up.
type brokenWriter struct {
	header http.Header
	status int
}

func (w *brokenWriter) Header() http.Header { return w.header }
func (w *brokenWriter) WriteHeader(status int) { w.status = status }
func (w *brokenWriter) Write([]byte) (int, error) { return 0, errors.New("connection reset") }

func TestDownload_LogsInterruptedCopy(t *testing.T) {
	ctx := context.Background()
	files, err := storage.NewLocal(t.TempDir())
	require.NoError(t, err)
	formRepo := repository.NewMemoryFormRepo()
	respRepo := repository.NewMemoryResponseRepo()
	forms := service.NewFormService(formRepo, respRepo)
	responses := service.NewResponseService(formRepo, respRepo, files, nil)

	form, err := forms.Create(ctx, "a1", "Apply", []schema.Definition{{ID: 1, Label: "CV", Type: schema.TypeFile}})
	require.NoError(t, err)
	data := []byte("%PDF-1.4 resume")
	resp, err := responses.Submit(ctx, binder.Payload{
		FormID: form.ID, UserID: "USER_1", UserName: "Ada", Answers: []byte(`{}`),
		Parts: []binder.Part{{
			Name: "1_CV", FileName: "cv.pdf", ContentType: "application/pdf", Size: int64(len(data)),
			Open: func() (io.ReadCloser, error) { return io.NopCloser(bytes.NewReader(data)), nil },
		}},
	})
	require.NoError(t, err)

	core, logs := observer.New(zapcore.WarnLevel)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("responseId", resp.ID)
	rctx.URLParams.Add("index", "0")
	reqCtx := context.WithValue(ctx, chi.RouteCtxKey, rctx)
	reqCtx = guard.WithPrincipal(reqCtx, guard.Principal{AdminID: "a1"})
	reqCtx = logging.WithLogger(reqCtx, zap.New(core))
	req := httptest.NewRequest(http.MethodGet, "/api/responses/single/"+resp.ID+"/files/0", nil).WithContext(reqCtx)

	w := &brokenWriter{header: http.Header{}}
	NewResponseHandler(responses, 1<<20).Download(w, req)

	assert.Equal(t, "application/pdf", w.header.Get("Content-Type"))
	entries := logs.FilterMessage("file download interrupted").All()
	require.Len(t, entries, 1)
	assert.Equal(t, resp.ID, entries[0].ContextMap()["responseId"])
}
