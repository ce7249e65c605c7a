package editor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DraftStore persists week drafts per (session, group) under a TTL so an
// unsaved edit survives page reloads but not abandonment.
type DraftStore struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewDraftStore(client *redis.Client, ttl time.Duration) *DraftStore {
	return &DraftStore{redis: client, ttl: ttl}
}

func (s *DraftStore) Save(ctx context.Context, sessionID string, week *Week) error {
	data, err := json.Marshal(week)
	if err != nil {
		return err
	}
	return s.redis.Set(ctx, draftKey(sessionID, week.GroupID), data, s.ttl).Err()
}

func (s *DraftStore) Get(ctx context.Context, sessionID string, groupID int64) (*Week, bool, error) {
	data, err := s.redis.Get(ctx, draftKey(sessionID, groupID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var week Week
	if err := json.Unmarshal(data, &week); err != nil {
		return nil, false, err
	}
	if week.Days == nil {
		week.Days = make(map[int][]DraftPair)
	}
	return &week, true, nil
}

func (s *DraftStore) Delete(ctx context.Context, sessionID string, groupID int64) error {
	return s.redis.Del(ctx, draftKey(sessionID, groupID)).Err()
}

func draftKey(sessionID string, groupID int64) string {
	return fmt.Sprintf("draft:%s:%d", sessionID, groupID)
}
