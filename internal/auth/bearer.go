// Package auth extracts the caller's bearer credential. The gateway never
// validates the token itself; it is forwarded to the HR backend as-is.
package auth

import (
	"context"
	"net/http"
	"strings"
)

type contextKey string

const tokenContextKey contextKey = "bearerToken"

const bearerPrefix = "bearer "

// BearerToken returns the token from an Authorization header value. The
// scheme is matched case-insensitively; a missing scheme or empty token
// yields ok == false.
func BearerToken(header string) (token string, ok bool) {
	if len(header) < len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return "", false
	}
	token = strings.TrimSpace(header[len(bearerPrefix):])
	return token, token != ""
}

// WithToken stores token on ctx.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenContextKey, token)
}

// TokenFromContext retrieves the bearer token stored by Middleware.
func TokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(tokenContextKey).(string)
	return token
}

// Middleware rejects requests without a usable bearer token by calling
// reject, and otherwise stores the token on the request context.
func Middleware(reject http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := BearerToken(r.Header.Get("Authorization"))
			if !ok {
				reject(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithToken(r.Context(), token)))
		})
	}
}
