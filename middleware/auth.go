package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/techbridge/movies/backend/models"
	"github.com/techbridge/movies/backend/token"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type contextKey string

const userKey contextKey = "user"

// TokenCookie is the cookie the auth endpoints set alongside the JSON token.
const TokenCookie = "token"

// UserLoader resolves a token's subject to a user record.
type UserLoader interface {
	UserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}

// Auth authenticates the request and attaches the resolved user to the
// request context. The token is read from the Authorization header first,
// falling back to the session cookie when no bearer token is present.
func Auth(issuer *token.Issuer, users UserLoader) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tok := tokenFromRequest(r)
			if tok == "" {
				http.Error(w, `{"message":"Authentication required"}`, http.StatusUnauthorized)
				return
			}
			userID, err := issuer.Verify(tok)
			if err != nil {
				http.Error(w, `{"message":"Invalid or expired token"}`, http.StatusUnauthorized)
				return
			}
			id, err := primitive.ObjectIDFromHex(userID)
			if err != nil {
				http.Error(w, `{"message":"Invalid or expired token"}`, http.StatusUnauthorized)
				return
			}
			user, err := users.UserByID(r.Context(), id)
			if err != nil {
				http.Error(w, `{"message":"Server error"}`, http.StatusInternalServerError)
				return
			}
			if user == nil {
				// Account deleted after the token was issued.
				http.Error(w, `{"message":"Invalid or expired token"}`, http.StatusUnauthorized)
				return
			}
			ctx := context.WithValue(r.Context(), userKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole rejects authenticated callers whose role differs from role.
// It must be composed after Auth.
func RequireRole(role string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := CurrentUser(r.Context())
			if !ok {
				http.Error(w, `{"message":"Authentication required"}`, http.StatusUnauthorized)
				return
			}
			if user.Role != role {
				http.Error(w, `{"message":"Access denied"}`, http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// CurrentUser returns the user resolved by Auth for this request.
func CurrentUser(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userKey).(*models.User)
	return user, ok
}

// WithUser is used by handler tests to install a user without running Auth.
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

func tokenFromRequest(r *http.Request) string {
	if auth := r.Header.Get("Authorization"); auth != "" {
		parts := strings.SplitN(auth, " ", 2)
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
		return ""
	}
	if c, err := r.Cookie(TokenCookie); err == nil {
		return c.Value
	}
	return ""
}
