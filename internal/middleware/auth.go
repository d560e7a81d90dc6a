package middleware

import (
	"context"
	"net/http"
	"strings"

	"identity-service/internal/auth/token"
)

// unexported, collision-proof context key
type emailContextKeyType struct{}

var emailKey = emailContextKeyType{}

// EmailFromContext extracts the authenticated email from context.
func EmailFromContext(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(emailKey).(string)
	return email, ok
}

type AuthMiddleware struct {
	Tokens *token.Service
}

func NewAuthMiddleware(tokens *token.Service) *AuthMiddleware {
	return &AuthMiddleware{Tokens: tokens}
}

// bearerToken reads the token from the Authorization header, falling
// back to the token query parameter the redirect flow hands out.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if after, ok := strings.CutPrefix(header, "Bearer "); ok && after != "" {
		return after
	}
	return r.URL.Query().Get("token")
}

func (a *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		presented := bearerToken(r)
		if presented == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		claims, err := a.Tokens.Verify(presented)
		if err != nil {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), emailKey, claims.Email)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
