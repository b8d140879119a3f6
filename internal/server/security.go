// security.go - Response hardening headers
package server

import "net/http"

// securityHeadersMiddleware adds security headers to all responses.
// Stored images are meant to be embedded by other origins, so the resource
// policy is cross-origin and no frame or script policy is imposed on them.
func securityHeadersMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Prevent MIME sniffing
		w.Header().Set("X-Content-Type-Options", "nosniff")

		// Referrer Policy - don't leak URLs
		w.Header().Set("Referrer-Policy", "no-referrer")

		w.Header().Set("Cross-Origin-Resource-Policy", "cross-origin")

		next.ServeHTTP(w, r)
	})
}
