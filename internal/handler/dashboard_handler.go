package handler

import (
	"net/http"

	"github.com/Sanjeetkumar61/FormBuilder/internal/guard"
	"github.com/Sanjeetkumar61/FormBuilder/internal/service"
)

type DashboardHandler struct {
	formSvc *service.FormService
}

func NewDashboardHandler(formSvc *service.FormService) *DashboardHandler {
	return &DashboardHandler{formSvc: formSvc}
}

func (h *DashboardHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	p, err := guard.Require(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	d, err := h.formSvc.Dashboard(r.Context(), p.AdminID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"formCount":     d.FormCount,
		"responseCount": d.ResponseCount,
		"forms":         d.Forms,
	})
}
