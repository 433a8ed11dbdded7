package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const sessionPrefix = "session:"

// ErrNoCachedSession indicates no session is cached for the user.
var ErrNoCachedSession = errors.New("no cached session")

// RedisTokenCache persists materialized sessions between runs of the
// client. It is a convenience mirror of the auth provider's bundle, not
// an authorization store; entries expire with the access token.
type RedisTokenCache struct {
	client *redis.Client
}

// NewRedisTokenCache creates a cache over the redis client.
func NewRedisTokenCache(client *redis.Client) *RedisTokenCache {
	return &RedisTokenCache{client: client}
}

// CheckHealth verifies redis connectivity.
func (c *RedisTokenCache) CheckHealth(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis health check failed: %w", err)
	}
	return nil
}

// Save stores the session under the user's key with a TTL matching the
// token expiry. Expired sessions are not written.
func (c *RedisTokenCache) Save(ctx context.Context, sess *Session) error {
	ttl := time.Until(sess.ExpiresAt)
	if ttl <= 0 {
		return errors.New("session has already expired")
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshaling session: %w", err)
	}

	key := sessionPrefix + sess.Identity.UserID
	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	return nil
}

// Load retrieves the cached session for a user. A missing or expired
// entry returns ErrNoCachedSession.
func (c *RedisTokenCache) Load(ctx context.Context, userID string) (*Session, error) {
	data, err := c.client.Get(ctx, sessionPrefix+userID).Bytes()
	if err == redis.Nil {
		return nil, ErrNoCachedSession
	}
	if err != nil {
		return nil, fmt.Errorf("loading session: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("unmarshaling session: %w", err)
	}
	if sess.Expired(time.Now()) {
		return nil, ErrNoCachedSession
	}
	return &sess, nil
}

// Delete removes the cached session for a user.
func (c *RedisTokenCache) Delete(ctx context.Context, userID string) error {
	if err := c.client.Del(ctx, sessionPrefix+userID).Err(); err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	return nil
}
