package middleware

import (
	"net/http"
	"strings"

	"github.com/Cheertaboi/eliteshop/internal/auth"
)

// Authenticate attaches the bearer token's Principal to the request context.
// A missing, malformed or expired token leaves the request anonymous; the
// services reject anonymous callers where an account is required.
func Authenticate(tokens *auth.TokenIssuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			scheme, token, ok := strings.Cut(strings.TrimSpace(r.Header.Get("Authorization")), " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") {
				next.ServeHTTP(w, r)
				return
			}
			p, err := tokens.Parse(strings.TrimSpace(token))
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(auth.WithPrincipal(r.Context(), p)))
		})
	}
}
