package handler

import (
	"net/http"

	"github.com/Sanjeetkumar61/FormBuilder/internal/guard"
	"github.com/Sanjeetkumar61/FormBuilder/internal/service"
)

type AuthHandler struct {
	svc *service.AuthService
}

func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	result, err := h.svc.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Admin registered successfully",
		"token":   result.Token,
		"admin":   result.Admin,
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	result, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Admin login successful",
		"token":   result.Token,
		"admin":   result.Admin,
	})
}

func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	p, err := guard.Require(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	admin, err := h.svc.Profile(r.Context(), p.AdminID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"admin": admin})
}
