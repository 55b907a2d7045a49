package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/wexford-labs/widgetry/internal/models"
	pkghttp "github.com/wexford-labs/widgetry/pkg/http"
)

// contextKey is a custom type for context keys
type contextKey string

const principalContextKey contextKey = "principal"

// UserFetcher resolves the token's user id against the identity store.
type UserFetcher interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
}

// Protect validates the bearer token from the Authorization header or the
// token cookie, resolves the principal, and injects it into the request
// context. The principal carries no password hash.
func Protect(tm *TokenManager, users UserFetcher) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := bearerToken(r)
			if tokenString == "" {
				pkghttp.WriteUnauthorized(w, "Not authorized to access this route")
				return
			}

			claims, err := tm.Validate(tokenString)
			if err != nil {
				pkghttp.WriteUnauthorized(w, "Not authorized to access this route")
				return
			}

			user, err := users.GetByID(r.Context(), claims.UserID)
			if err != nil {
				if errors.Is(err, models.ErrNotFound) {
					pkghttp.WriteUnauthorized(w, "Not authorized to access this route")
					return
				}
				pkghttp.WriteInternalError(w, "Internal server error")
				return
			}

			principal := *user
			principal.PasswordHash = ""
			principal.ResetTokenHash = nil
			principal.ResetTokenExpires = nil

			ctx := context.WithValue(r.Context(), principalContextKey, &principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Authorize enforces role-based access. Must run after Protect. Pure
// check against the already-resolved principal, no I/O.
func Authorize(roles ...string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal := PrincipalFromContext(r)
			if principal == nil {
				pkghttp.WriteUnauthorized(w, "Not authorized to access this route")
				return
			}

			for _, role := range roles {
				if principal.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}

			pkghttp.WriteForbidden(w, "User role "+principal.Role+" is not authorized to access this route")
		})
	}
}

// PrincipalFromContext extracts the authenticated principal, or nil.
func PrincipalFromContext(r *http.Request) *models.User {
	principal, ok := r.Context().Value(principalContextKey).(*models.User)
	if !ok {
		return nil
	}
	return principal
}

// WithPrincipal returns a context carrying the principal. Exposed for
// handler tests.
func WithPrincipal(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, principalContextKey, user)
}

// CanModify is the single ownership predicate: a principal may modify a
// resource it owns, and admins may modify anything.
func CanModify(principal *models.User, ownerID string) bool {
	if principal == nil {
		return false
	}
	return principal.ID == ownerID || principal.IsAdmin()
}

// bearerToken pulls the token from "Authorization: Bearer ..." or, failing
// that, from the token cookie.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
		return ""
	}

	if token, err := TokenFromCookie(r); err == nil {
		return token
	}
	return ""
}
