package session

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/uptrace/bun"

	"leafdesk/infrastructure/apiclient"
	"leafdesk/infrastructure/cache"
	"leafdesk/infrastructure/sqlite"
	"leafdesk/models"
)

// ErrNoSession is returned when a token has no live session.
var ErrNoSession = errors.New("session not found")

// Store persists sessions in sqlite behind an in-memory cache.
type Store struct {
	DB           *sqlite.DB
	Cache        *cache.UserSessionCache
	SecureCookie bool
}

func NewStore(db *sqlite.DB, c *cache.UserSessionCache, secureCookie bool) *Store {
	if c == nil {
		c = cache.NewUserSessionCache()
	}
	return &Store{DB: db, Cache: c, SecureCookie: secureCookie}
}

// NewToken returns a random opaque cookie token.
func NewToken() string {
	buf := make([]byte, 24)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}

// Create stores a new session for the remote user and returns it.
func (s *Store) Create(ctx context.Context, user models.User, expiresAt time.Time) (models.Session, error) {
	userJSON, err := json.Marshal(user)
	if err != nil {
		return models.Session{}, fmt.Errorf("encode session user: %w", err)
	}
	sess := models.Session{
		ID:        NewToken(),
		UserJSON:  string(userJSON),
		User:      user,
		APIToken:  user.Token,
		FactoryID: user.FactoryID.String(),
		ExpiresAt: expiresAt.UTC(),
	}
	err = s.DB.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewInsert().Model(&sess).Exec(ctx)
		return err
	})
	if err != nil {
		return models.Session{}, fmt.Errorf("persist session: %w", err)
	}
	s.Cache.AddSession(sess)
	return sess, nil
}

// Load resolves a cookie token, first from the cache then from sqlite.
// Expired sessions are deleted and reported as ErrNoSession.
func (s *Store) Load(ctx context.Context, token string) (models.Session, error) {
	if strings.TrimSpace(token) == "" {
		return models.Session{}, ErrNoSession
	}
	if cached, ok := s.Cache.FindSessionBySessionToken(token); ok {
		if cached.Expired() {
			s.deleteQuietly(ctx, token)
			return models.Session{}, ErrNoSession
		}
		return cached, nil
	}

	var sess models.Session
	err := s.DB.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewSelect().Model(&sess).Where("s.id = ?", token).Limit(1).Scan(ctx)
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Session{}, ErrNoSession
		}
		return models.Session{}, fmt.Errorf("load session: %w", err)
	}
	if sess.Expired() {
		s.deleteQuietly(ctx, token)
		return models.Session{}, ErrNoSession
	}
	if err := sess.DecodeUser(); err != nil {
		return models.Session{}, err
	}
	s.Cache.AddSession(sess)
	return sess, nil
}

// Delete removes the session everywhere. Unknown tokens are not an error.
func (s *Store) Delete(ctx context.Context, token string) error {
	if strings.TrimSpace(token) == "" {
		return nil
	}
	s.Cache.DeleteSessionBySessionToken(token)
	return s.DB.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewDelete().Model((*models.Session)(nil)).Where("id = ?", token).Exec(ctx)
		return err
	})
}

// PruneExpired deletes expired sessions from sqlite and the cache.
func (s *Store) PruneExpired(ctx context.Context, now time.Time) (int64, error) {
	now = now.UTC()
	s.Cache.PurgeExpired(now)
	var affected int64
	err := s.DB.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewDelete().Model((*models.Session)(nil)).Where("expires_at < ?", now).Exec(ctx)
		if err != nil {
			return err
		}
		affected, _ = res.RowsAffected()
		return nil
	})
	return affected, err
}

func (s *Store) deleteQuietly(ctx context.Context, token string) {
	if err := s.Delete(ctx, token); err != nil {
		slog.Error("cannot delete expired session", slog.String("session_id", token), slog.Any("err", err))
	}
}

// TokenSource resolves the remote bearer token of the caller's session on
// every call. current extracts the session the request was authenticated
// with; a session removed since then yields an empty token.
func (s *Store) TokenSource(current func(context.Context) (models.Session, bool)) apiclient.TokenSource {
	return apiclient.TokenFunc(func(ctx context.Context) (string, error) {
		sess, ok := current(ctx)
		if !ok {
			return "", nil
		}
		live, err := s.Load(ctx, sess.ID)
		if errors.Is(err, ErrNoSession) {
			return "", nil
		}
		if err != nil {
			return "", err
		}
		return live.APIToken, nil
	})
}
