package middleware

import (
	"net/http"
	"os"
)

// DevModeEnabled reports whether the process runs in development mode.
// Checks the APP_ENV environment variable; only "development" counts.
func DevModeEnabled() bool {
	return os.Getenv("APP_ENV") == "development"
}

// DevModeOnly returns middleware that restricts access to development
// environment. The session inspector endpoints sit behind it.
func DevModeOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !DevModeEnabled() {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"error":"endpoint only available in development mode (APP_ENV=development)"}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}
