package middleware

import (
	"net/http"
	"strings"

	"github.com/filmhaus/payment-service/internal/application"
)

// Auth enforces a bearer credential on mutating endpoints. Every failure mode
// gets the same generic 401; nothing about the token is leaked.
func Auth(verifier application.TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			scheme, token, found := strings.Cut(r.Header.Get("Authorization"), " ")
			if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
				writeUnauthorized(w)
				return
			}

			if err := verifier.Verify(token); err != nil {
				writeUnauthorized(w)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"detail":"Invalid or missing token"}`))
}
