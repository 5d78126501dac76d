package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/hanwool/handoff-api/internal/auth"
	"github.com/hanwool/handoff-api/internal/models"
)

type ctxKey string

const userKey ctxKey = "current_user"

// BearerToken extracts the token from "Authorization: Bearer <token>".
// Returns "" when the header is absent or not a bearer scheme.
func BearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	token := strings.TrimPrefix(header, "Bearer ")
	if token == header {
		return ""
	}
	return strings.TrimSpace(token)
}

// UserFrom returns the authenticated user placed in the context by
// RequireAuth.
func UserFrom(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userKey).(*models.User)
	return user, ok
}

// WithUser attaches the resolved user to the context. Handler tests use it
// to stand in for the guard.
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// RequireAuth guards a route group: it verifies the bearer token once and
// resolves the account, so handlers never re-parse the header themselves.
// 401 for a missing/invalid/expired token, 404 when the token is valid but
// the account row is gone (deleted after issuance).
func RequireAuth(svc *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := BearerToken(r)
			if token == "" {
				denyJSON(w, "missing bearer token", http.StatusUnauthorized)
				return
			}

			user, err := svc.Authorize(r.Context(), token)
			if err != nil {
				switch {
				case errors.Is(err, auth.ErrNotFound):
					denyJSON(w, "account not found", http.StatusNotFound)
				case errors.Is(err, auth.ErrUnauthorized):
					denyJSON(w, "invalid or expired token", http.StatusUnauthorized)
				default:
					denyJSON(w, "internal server error", http.StatusInternalServerError)
				}
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

func denyJSON(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}
