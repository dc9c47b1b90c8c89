package session

import (
	"net/http"
	"time"
)

const CookieName = "X-Session-Token"

// DefaultTTL applies when the remote token carries no expiry and none is configured.
const DefaultTTL = 12 * time.Hour

// SessionCookie builds the session cookie. maxAge < 0 deletes it.
func SessionCookie(value string, maxAge int, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   secure,
	}
}

// CookieFor builds a cookie that lives until expiresAt.
func CookieFor(value string, expiresAt time.Time, secure bool) *http.Cookie {
	maxAge := int(time.Until(expiresAt).Seconds())
	if maxAge <= 0 {
		maxAge = -1
	}
	return SessionCookie(value, maxAge, secure)
}

// ClearCookie expires the session cookie in the browser.
func ClearCookie(secure bool) *http.Cookie {
	return SessionCookie("", -1, secure)
}
