package middleware

import (
	"net/http"
)

// APIContentSecurityPolicy fits a JSON-only API: nothing may be loaded or
// framed.
const APIContentSecurityPolicy = "default-src 'none'; frame-ancestors 'none'"

var baseSecurityHeaders = map[string]string{
	"X-Frame-Options":        "DENY",
	"X-Content-Type-Options": "nosniff",
	"Referrer-Policy":        "no-referrer",
	"Cache-Control":          "no-store",
}

// SecurityHeadersWithCSP sets hardening headers on every response. HSTS is
// only sent when the service sits behind TLS; an empty csp omits the header.
// Auth responses carry tokens, so they are never cached.
func SecurityHeadersWithCSP(isHTTPS bool, csp string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			headers := w.Header()
			for k, v := range baseSecurityHeaders {
				headers.Set(k, v)
			}
			if csp != "" {
				headers.Set("Content-Security-Policy", csp)
			}
			if isHTTPS {
				headers.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
			}
			next.ServeHTTP(w, r)
		})
	}
}
