package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"sort"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/Sanjeetkumar61/FormBuilder/internal/apperr"
	"github.com/Sanjeetkumar61/FormBuilder/internal/binder"
	"github.com/Sanjeetkumar61/FormBuilder/internal/guard"
	"github.com/Sanjeetkumar61/FormBuilder/internal/logging"
	"github.com/Sanjeetkumar61/FormBuilder/internal/service"
	"github.com/Sanjeetkumar61/FormBuilder/internal/storage"
)

// Parts above this size are spooled to temporary files while the form is parsed.
const multipartMemory = 8 << 20

type ResponseHandler struct {
	svc            *service.ResponseService
	maxUploadBytes int64
}

func NewResponseHandler(svc *service.ResponseService, maxUploadBytes int64) *ResponseHandler {
	return &ResponseHandler{svc: svc, maxUploadBytes: maxUploadBytes}
}

// Submit accepts multipart/form-data (formId, userId, userName, answers as a JSON
// string, file parts named "<fieldId>_<label>") or the same fields as a JSON body.
func (h *ResponseHandler) Submit(w http.ResponseWriter, r *http.Request) {
	if r.ContentLength > h.maxUploadBytes {
		writeError(w, r, apperr.FileTooLarge("request body exceeds %d bytes", h.maxUploadBytes))
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	var (
		p   binder.Payload
		err error
	)
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		p, err = readMultipart(r)
		if r.MultipartForm != nil {
			defer r.MultipartForm.RemoveAll()
		}
	} else {
		p, err = readJSONPayload(r)
	}
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp, err := h.svc.Submit(r.Context(), p)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message":  "Response submitted successfully",
		"response": resp,
	})
}

func readMultipart(r *http.Request) (binder.Payload, error) {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return binder.Payload{}, err
		}
		return binder.Payload{}, apperr.Validation("invalid multipart body")
	}
	p := binder.Payload{
		FormID:   r.FormValue("formId"),
		UserID:   r.FormValue("userId"),
		UserName: r.FormValue("userName"),
		Answers:  []byte(r.FormValue("answers")),
	}

	names := make([]string, 0, len(r.MultipartForm.File))
	for name := range r.MultipartForm.File {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		for _, fh := range r.MultipartForm.File[name] {
			contentType := fh.Header.Get("Content-Type")
			if contentType == "" {
				contentType = storage.DetectContentType(fh.Filename)
			}
			p.Parts = append(p.Parts, binder.Part{
				Name:        name,
				FileName:    fh.Filename,
				ContentType: contentType,
				Size:        fh.Size,
				Open: func() (io.ReadCloser, error) {
					return fh.Open()
				},
			})
		}
	}
	return p, nil
}

// readJSONPayload reads a submission without files. answers may be an object or a
// JSON string holding one, as the multipart form sends it.
func readJSONPayload(r *http.Request) (binder.Payload, error) {
	var req struct {
		FormID   string          `json:"formId"`
		UserID   string          `json:"userId"`
		UserName string          `json:"userName"`
		Answers  json.RawMessage `json:"answers"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return binder.Payload{}, err
		}
		return binder.Payload{}, apperr.Validation("invalid request body")
	}
	answers := bytes.TrimSpace(req.Answers)
	if bytes.Equal(answers, []byte("null")) {
		answers = nil
	}
	if len(answers) > 0 && answers[0] == '"' {
		var s string
		if err := json.Unmarshal(answers, &s); err != nil {
			return binder.Payload{}, apperr.Validation("invalid answers")
		}
		answers = []byte(s)
	}
	return binder.Payload{
		FormID:   req.FormID,
		UserID:   req.UserID,
		UserName: req.UserName,
		Answers:  answers,
	}, nil
}

func (h *ResponseHandler) ListForForm(w http.ResponseWriter, r *http.Request) {
	p, err := guard.Require(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	list, err := h.svc.ListForForm(r.Context(), chi.URLParam(r, "formId"), p.AdminID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"responses": list})
}

func (h *ResponseHandler) Count(w http.ResponseWriter, r *http.Request) {
	n, err := h.svc.Count(r.Context(), chi.URLParam(r, "formId"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"count": n})
}

func (h *ResponseHandler) Get(w http.ResponseWriter, r *http.Request) {
	resp, err := h.svc.Get(r.Context(), chi.URLParam(r, "responseId"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"response": resp})
}

func (h *ResponseHandler) Download(w http.ResponseWriter, r *http.Request) {
	p, err := guard.Require(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeError(w, r, apperr.NotFound("File not found"))
		return
	}
	rc, rec, err := h.svc.OpenFile(r.Context(), chi.URLParam(r, "responseId"), index, p.AdminID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	defer rc.Close()

	contentType := rec.MimeType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": rec.OriginalFileName}))
	if rec.FileSize > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(rec.FileSize, 10))
	}
	if _, err := io.Copy(w, rc); err != nil {
		logging.FromContext(r.Context()).Warn("file download interrupted",
			zap.String("responseId", chi.URLParam(r, "responseId")),
			zap.String("path", rec.FilePath),
			zap.Error(err))
	}
}
