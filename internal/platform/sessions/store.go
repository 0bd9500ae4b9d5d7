package sessions

import (
	"context"
	"errors"
	"fmt"
	"time"
	"user_mgmt/internal/platform/config"

	"github.com/redis/go-redis/v9"
)

var ErrSessionNotFound = errors.New("refresh session not found")

// Store tracks live refresh-token sessions keyed by token JTI.
// A refresh token is only honored while its JTI is present here,
// which makes revocation and rotation possible with stateless JWTs.
type Store struct {
	rdb *redis.Client
}

func NewStore(rdb *redis.Client) *Store {
	return &Store{rdb: rdb}
}

func (s *Store) key(jti string) string {
	return config.AppConfig.SessionKeyPrefix + jti
}

// Register records a refresh session until the token itself expires.
func (s *Store) Register(ctx context.Context, jti, userID string, ttl time.Duration) error {
	if err := s.rdb.Set(ctx, s.key(jti), userID, ttl).Err(); err != nil {
		return fmt.Errorf("sessions.Store.Register: %w", err)
	}
	return nil
}

// Lookup returns the user ID bound to a live refresh session.
func (s *Store) Lookup(ctx context.Context, jti string) (string, error) {
	userID, err := s.rdb.Get(ctx, s.key(jti)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrSessionNotFound
		}
		return "", fmt.Errorf("sessions.Store.Lookup: %w", err)
	}
	return userID, nil
}

// Revoke drops a refresh session, invalidating the token immediately.
func (s *Store) Revoke(ctx context.Context, jti string) error {
	if err := s.rdb.Del(ctx, s.key(jti)).Err(); err != nil {
		return fmt.Errorf("sessions.Store.Revoke: %w", err)
	}
	return nil
}
