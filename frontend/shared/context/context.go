package context

import (
	"context"

	"leafdesk/models"
)

type sessionKey struct{}

func NewContextWithSession(ctx context.Context, session models.Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, session)
}

func GetSessionFromContext(ctx context.Context) (models.Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(models.Session)
	return s, ok
}

// FactoryID returns the factory the signed-in user belongs to, or "".
func FactoryID(ctx context.Context) string {
	s, ok := GetSessionFromContext(ctx)
	if !ok {
		return ""
	}
	if s.FactoryID != "" {
		return s.FactoryID
	}
	return s.User.FactoryID.String()
}

// FactoryRef is FactoryID in the wire form the remote API used at login.
func FactoryRef(ctx context.Context) models.ID {
	s, ok := GetSessionFromContext(ctx)
	if !ok {
		return models.ID{}
	}
	if s.FactoryID != "" && s.FactoryID != s.User.FactoryID.String() {
		return models.NewID(s.FactoryID)
	}
	return s.User.FactoryID
}
