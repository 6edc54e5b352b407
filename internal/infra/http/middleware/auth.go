package middleware

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
)

// AdminAuth gates a route group behind the shared admin secret, taken from
// the x-admin-password header or the password query parameter. An empty
// configured secret denies everything rather than opening the gate.
func AdminAuth(password string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			supplied := r.Header.Get("x-admin-password")
			if supplied == "" {
				supplied = r.URL.Query().Get("password")
			}

			if password == "" || subtle.ConstantTimeCompare([]byte(supplied), []byte(password)) != 1 {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(map[string]any{
					"success": false,
					"message": "Unauthorized",
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
