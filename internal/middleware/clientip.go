package middleware

import (
	"net/http"
	"strings"
)

// UnknownClient is reported when no trusted proxy header identifies the caller.
const UnknownClient = "0.0.0.0"

// ClientIP resolves the caller's address from edge proxy headers.
// CF-Connecting-IP wins, then the first hop of X-Forwarded-For. The socket
// address is deliberately ignored; behind the edge it is always the proxy.
func ClientIP(r *http.Request) string {
	if ip := strings.TrimSpace(r.Header.Get("CF-Connecting-IP")); ip != "" {
		return ip
	}
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	return UnknownClient
}
