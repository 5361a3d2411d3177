package middleware

import (
	"context"
	"net/http"

	"github.com/ayush/devconnector/backend/internal/respond"
)

// TokenHeader carries the raw token on authenticated requests.
const TokenHeader = "x-auth-token"

type ctxKey struct{}

// TokenVerifier resolves a token to the user id it was issued for.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// RequireAuth is middleware that validates the token header and
// injects the user id into the request context.
func RequireAuth(tokens TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := r.Header.Get(TokenHeader)
			if token == "" {
				respond.Msg(w, http.StatusUnauthorized, "No token, Authorization denied.")
				return
			}

			userID, err := tokens.Verify(token)
			if err != nil {
				respond.Msg(w, http.StatusUnauthorized, "Invalid token")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}

// WithUserID returns a context carrying the authenticated user id.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, ctxKey{}, userID)
}

// UserID returns the authenticated user id, or "" outside RequireAuth.
func UserID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}
