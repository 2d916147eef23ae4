package middleware

import (
	"encoding/json"
	"net/http"
)

// SessionChecker reports whether a request belongs to a signed-in admin.
type SessionChecker interface {
	HasSession(r *http.Request) bool
}

// RequireSession redirects requests without a session to loginPath.
func RequireSession(checker SessionChecker, loginPath string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !checker.HasSession(r) {
				http.Redirect(w, r, loginPath, http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAPISession answers 401 {"error":"Unauthorized"} to requests without
// a session.
func RequireAPISession(checker SessionChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !checker.HasSession(r) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_ = json.NewEncoder(w).Encode(map[string]string{"error": "Unauthorized"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
