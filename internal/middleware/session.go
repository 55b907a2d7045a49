package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
)

type sessionContextKey struct{}

const sessionCookieName = "sid"

// Session assigns every client an opaque session identifier, carried in a
// cookie and exposed via SessionID. The throttling counters key off it.
func Session(ttl time.Duration, secure bool) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var sid string
			if cookie, err := r.Cookie(sessionCookieName); err == nil && cookie.Value != "" {
				sid = cookie.Value
			} else {
				sid = uuid.New().String()
				http.SetCookie(w, &http.Cookie{
					Name:     sessionCookieName,
					Value:    sid,
					Path:     "/",
					Expires:  time.Now().Add(ttl),
					HttpOnly: true,
					Secure:   secure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			ctx := context.WithValue(r.Context(), sessionContextKey{}, sid)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionID returns the request's session identifier, empty if the
// Session middleware did not run.
func SessionID(r *http.Request) string {
	sid, _ := r.Context().Value(sessionContextKey{}).(string)
	return sid
}
