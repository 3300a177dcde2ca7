package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// CookieName is the session cookie set on login.
const CookieName = "campus_session"

// ErrNotFound means the token is unknown or expired.
var ErrNotFound = errors.New("session not found")

// Session is the server-side payload referenced by the cookie token.
type Session struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

// Store persists sessions keyed by opaque token.
type Store interface {
	Create(ctx context.Context, sess Session) (string, error)
	Get(ctx context.Context, token string) (Session, error)
	Destroy(ctx context.Context, token string) error
}

// RedisStore keeps sessions in Redis with a sliding TTL.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisStore creates a store; ttl bounds how long an idle session survives.
func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func key(token string) string { return "session:" + token }

// Create stores the session and returns its opaque token.
func (s *RedisStore) Create(ctx context.Context, sess Session) (string, error) {
	if sess.UserID == "" {
		return "", errors.New("session requires a user id")
	}
	payload, err := json.Marshal(sess)
	if err != nil {
		return "", err
	}
	token := uuid.NewString()
	if err := s.rdb.Set(ctx, key(token), payload, s.ttl).Err(); err != nil {
		return "", err
	}
	return token, nil
}

// Get resolves a token and extends its TTL.
func (s *RedisStore) Get(ctx context.Context, token string) (Session, error) {
	if token == "" {
		return Session{}, ErrNotFound
	}
	payload, err := s.rdb.Get(ctx, key(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Session{}, ErrNotFound
		}
		return Session{}, err
	}
	var sess Session
	if err := json.Unmarshal(payload, &sess); err != nil {
		return Session{}, err
	}
	_ = s.rdb.Expire(ctx, key(token), s.ttl).Err()
	return sess, nil
}

// Destroy removes the session; unknown tokens are not an error.
func (s *RedisStore) Destroy(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.rdb.Del(ctx, key(token)).Err()
}
