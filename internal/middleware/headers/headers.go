// Package headers applies hardening headers to API responses.
package headers

import "net/http"

// Config holds the emitted header values. Empty values suppress the
// corresponding header.
type Config struct {
	XFrameOptions       string
	XContentTypeOptions string
	ReferrerPolicy      string
	CrossOriginResource string
	CacheControl        string
}

// DefaultConfig returns defaults for a JSON API that serves no
// embeddable content and should never be cached.
func DefaultConfig() Config {
	return Config{
		XFrameOptions:       "DENY",
		XContentTypeOptions: "nosniff",
		ReferrerPolicy:      "strict-origin-when-cross-origin",
		CrossOriginResource: "same-origin",
		CacheControl:        "no-store",
	}
}

// Middleware returns HTTP middleware that sets the configured headers
// on every response.
func Middleware(cfg Config) func(http.Handler) http.Handler {
	set := func(h http.Header, key, value string) {
		if value != "" {
			h.Set(key, value)
		}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			set(h, "X-Frame-Options", cfg.XFrameOptions)
			set(h, "X-Content-Type-Options", cfg.XContentTypeOptions)
			set(h, "Referrer-Policy", cfg.ReferrerPolicy)
			set(h, "Cross-Origin-Resource-Policy", cfg.CrossOriginResource)
			set(h, "Cache-Control", cfg.CacheControl)
			next.ServeHTTP(w, r)
		})
	}
}
