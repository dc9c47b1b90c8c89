package apiclient

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenExpiry returns the exp claim of a JWT bearer token.
//
// The signature is not checked: the remote API validates its own tokens and
// the claim is only used to expire the local session no later than the token.
func TokenExpiry(token string) (time.Time, bool) {
	if token == "" {
		return time.Time{}, false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// SessionExpiry picks the earlier of the token expiry and now+ttl.
func SessionExpiry(token string, now time.Time, ttl time.Duration) time.Time {
	fallback := now.Add(ttl)
	exp, ok := TokenExpiry(token)
	if !ok || exp.After(fallback) {
		return fallback
	}
	return exp
}
