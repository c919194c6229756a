package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Sanjeetkumar61/FormBuilder/internal/guard"
	"github.com/Sanjeetkumar61/FormBuilder/internal/schema"
	"github.com/Sanjeetkumar61/FormBuilder/internal/service"
)

type FormHandler struct {
	svc *service.FormService
}

func NewFormHandler(svc *service.FormService) *FormHandler {
	return &FormHandler{svc: svc}
}

func (h *FormHandler) ListOwned(w http.ResponseWriter, r *http.Request) {
	p, err := guard.Require(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	forms, err := h.svc.ListOwned(r.Context(), p.AdminID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"forms": forms})
}

func (h *FormHandler) ListPublic(w http.ResponseWriter, r *http.Request) {
	forms, err := h.svc.ListPublic(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"forms": forms})
}

func (h *FormHandler) Create(w http.ResponseWriter, r *http.Request) {
	p, err := guard.Require(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req struct {
		Title  string              `json:"title"`
		Fields []schema.Definition `json:"fields"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	form, err := h.svc.Create(r.Context(), p.AdminID, req.Title, req.Fields)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Form created successfully",
		"form":    form,
	})
}

func (h *FormHandler) Get(w http.ResponseWriter, r *http.Request) {
	form, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"form": form})
}

func (h *FormHandler) Update(w http.ResponseWriter, r *http.Request) {
	p, err := guard.Require(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req struct {
		Title  *string             `json:"title"`
		Fields []schema.Definition `json:"fields"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	form, err := h.svc.Update(r.Context(), chi.URLParam(r, "id"), p.AdminID, service.FormPatch{
		Title:  req.Title,
		Fields: req.Fields,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Form updated successfully",
		"form":    form,
	})
}

func (h *FormHandler) Delete(w http.ResponseWriter, r *http.Request) {
	p, err := guard.Require(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.svc.SoftDelete(r.Context(), chi.URLParam(r, "id"), p.AdminID); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Form deleted successfully"})
}
