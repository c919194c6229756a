package auth

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/Sanjeetkumar61/FormBuilder/internal/guard"
)

// Middleware rejects requests without a valid bearer token and puts the admin
// principal into the request context.
func Middleware(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			tokenStr, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || strings.TrimSpace(tokenStr) == "" {
				unauthorized(w, "No token, authorization denied")
				return
			}
			claims, err := ValidateToken(secret, strings.TrimSpace(tokenStr))
			if err != nil {
				unauthorized(w, "Token is not valid")
				return
			}
			ctx := guard.WithPrincipal(r.Context(), guard.Principal{AdminID: claims.AdminID, Email: claims.Email})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]any{"success": false, "message": msg})
}
