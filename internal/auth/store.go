package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Session holds the upstream API token for one gateway session. The token is
// opaque and never leaves the server.
type Session struct {
	Token     string `json:"token"`
	TeacherID int64  `json:"teacher_id"`
	Role      string `json:"role"`
}

// SessionStore keeps sessions in redis under a TTL matching the session
// token lifetime.
type SessionStore struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{redis: client, ttl: ttl}
}

func (s *SessionStore) Save(ctx context.Context, sessionID string, session Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return s.redis.Set(ctx, sessionKey(sessionID), data, s.ttl).Err()
}

func (s *SessionStore) Get(ctx context.Context, sessionID string) (Session, bool, error) {
	data, err := s.redis.Get(ctx, sessionKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Session{}, false, nil
	}
	if err != nil {
		return Session{}, false, err
	}
	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return Session{}, false, err
	}
	return session, true, nil
}

func (s *SessionStore) Delete(ctx context.Context, sessionID string) error {
	return s.redis.Del(ctx, sessionKey(sessionID)).Err()
}

func sessionKey(id string) string {
	return fmt.Sprintf("session:%s", id)
}
