package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/Sanjeetkumar61/FormBuilder/internal/apperr"
	"github.com/Sanjeetkumar61/FormBuilder/internal/logging"
)

const maxJSONBody = 1 << 20

func readJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxJSONBody))
	if err := dec.Decode(v); err != nil {
		return apperr.Validation("invalid request body")
	}
	return nil
}

// writeJSON writes the success envelope: {"success": true, ...payload}.
func writeJSON(w http.ResponseWriter, status int, payload map[string]any) {
	body := make(map[string]any, len(payload)+1)
	for k, v := range payload {
		body[k] = v
	}
	body["success"] = true
	send(w, status, body)
}

// writeError maps err to its status and writes {"success": false, "message": ...}.
// Internal errors are logged and reported without detail.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var tooBig *http.MaxBytesError
	if errors.As(err, &tooBig) {
		err = apperr.FileTooLarge("request body exceeds %d bytes", tooBig.Limit)
	}
	kind := apperr.KindOf(err)
	if kind == apperr.KindInternal {
		logging.FromContext(r.Context()).Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
	}
	send(w, kind.Status(), map[string]any{
		"success": false,
		"message": apperr.PublicMessage(err),
	})
}

func send(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
