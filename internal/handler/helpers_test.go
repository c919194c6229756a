package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Sanjeetkumar61/FormBuilder/internal/apperr"
)

func TestWriteError_MapsKinds(t *testing.T) {
	tests := []struct {
		err    error
		status int
		msg    string
	}{
		{apperr.Validation("Title and fields are required"), http.StatusBadRequest, "Title and fields are required"},
		{apperr.InvalidAnswer("bad"), http.StatusBadRequest, "bad"},
		{apperr.Auth("Invalid admin credentials"), http.StatusUnauthorized, "Invalid admin credentials"},
		{apperr.Forbidden("Unauthorized"), http.StatusForbidden, "Unauthorized"},
		{apperr.NotFound("Form not found"), http.StatusNotFound, "Form not found"},
		{apperr.Conflict("taken"), http.StatusConflict, "taken"},
		{apperr.FileTooLarge("too big"), http.StatusRequestEntityTooLarge, "too big"},
		{apperr.Internal(errors.New("mongo: connection refused"), "find form"), http.StatusInternalServerError, "internal server error"},
		{errors.New("raw"), http.StatusInternalServerError, "internal server error"},
		{&http.MaxBytesError{Limit: 10}, http.StatusRequestEntityTooLarge, "request body exceeds 10 bytes"},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		writeError(rec, httptest.NewRequest(http.MethodGet, "/", nil), tt.err)
		assert.Equal(t, tt.status, rec.Code, tt.err.Error())
		assert.JSONEq(t, `{"success":false,"message":"`+tt.msg+`"}`, rec.Body.String())
	}
}

func TestWriteJSON_Envelope(t *testing.T) {
	rec := httptest.NewRecorder()
	writeJSON(rec, http.StatusCreated, map[string]any{"count": 2})
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"success":true,"count":2}`, rec.Body.String())
}
