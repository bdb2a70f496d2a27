package editor

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/p-n-ai/pai-topics/internal/platform/cache"
	"github.com/p-n-ai/pai-topics/internal/topic"
)

const cacheTimeout = 2 * time.Second

// CachedStore is a read-through Redis cache in front of another TopicStore.
// Cache failures are logged and fall through to the wrapped store.
type CachedStore struct {
	next  TopicStore
	cache *cache.Cache
}

// NewCachedStore wraps next with c.
func NewCachedStore(next TopicStore, c *cache.Cache) *CachedStore {
	return &CachedStore{next: next, cache: c}
}

func (s *CachedStore) GetTopic(id string) (*StoredTopic, error) {
	if st, ok := s.cached(id); ok {
		return st, nil
	}

	st, err := s.next.GetTopic(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), cacheTimeout)
	defer cancel()
	if err := s.cache.SetJSON(ctx, topicKey(id), st); err != nil {
		slog.Warn("topic cache write failed", "topic_id", id, "error", err)
	}
	return st, nil
}

func (s *CachedStore) cached(id string) (*StoredTopic, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), cacheTimeout)
	defer cancel()

	var st StoredTopic
	err := s.cache.GetJSON(ctx, topicKey(id), &st)
	if err == nil {
		return &st, true
	}
	if !errors.Is(err, cache.ErrMiss) {
		slog.Warn("topic cache read failed", "topic_id", id, "error", err)
	}
	return nil, false
}

func (s *CachedStore) ListTopics() ([]TopicSummary, error) {
	return s.next.ListTopics()
}

func (s *CachedStore) SaveTopic(rec topic.Record, skillDescriptions map[string]string) (int, error) {
	version, err := s.next.SaveTopic(rec, skillDescriptions)
	if err != nil {
		return 0, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), cacheTimeout)
	defer cancel()
	if err := s.cache.Delete(ctx, topicKey(rec.RecordID())); err != nil {
		slog.Warn("topic cache invalidation failed", "topic_id", rec.RecordID(), "error", err)
	}
	return version, nil
}

func topicKey(id string) string {
	return "topic:" + id
}
