package login

import (
	"context"
	"time"

	"leafdesk/infrastructure/apiclient"
	sessioncookie "leafdesk/infrastructure/session"
	"leafdesk/models"
)

// establishSession stores the remote user and its bearer token as a session.
// The session ends at the token's exp claim when it has one, else after ttl.
func establishSession(ctx context.Context, sessions *sessioncookie.Store, user models.User, ttl time.Duration) (models.Session, error) {
	if ttl <= 0 {
		ttl = sessioncookie.DefaultTTL
	}
	expiresAt := apiclient.SessionExpiry(user.Token, time.Now(), ttl)
	return sessions.Create(ctx, user, expiresAt)
}
