package web

import (
	"context"
	"net"
	"net/http"

	"github.com/JonMunkholm/bdcrecon/internal/core"
)

// WithRequestMetadata adds IP and User-Agent to context for the run history.
func WithRequestMetadata(ctx context.Context, r *http.Request) context.Context {
	ctx = core.ContextWithIPAddress(ctx, clientIP(r))
	ctx = core.ContextWithUserAgent(ctx, r.UserAgent())
	return ctx
}

// clientIP strips the port from RemoteAddr, which TrustedRealIP may already
// have replaced with a bare address.
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
