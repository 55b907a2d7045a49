package auth

import (
	"net/http"
	"time"
)

const tokenCookieName = "token"

// SetTokenCookie stores the bearer token in an httpOnly cookie. The secure
// flag is only set under the production configuration.
func SetTokenCookie(w http.ResponseWriter, token string, expireDays int, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     tokenCookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(time.Duration(expireDays) * 24 * time.Hour),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearTokenCookie overwrites the token cookie with a short-lived dummy
// value. The bearer token itself stays valid until expiry; logout only
// clears the client-side holder.
func ClearTokenCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     tokenCookieName,
		Value:    "none",
		Path:     "/",
		Expires:  time.Now().Add(10 * time.Second),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// TokenFromCookie retrieves the bearer token from the request cookie.
func TokenFromCookie(r *http.Request) (string, error) {
	cookie, err := r.Cookie(tokenCookieName)
	if err != nil {
		return "", err
	}
	return cookie.Value, nil
}
