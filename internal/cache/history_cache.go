package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redisv9 "github.com/redis/go-redis/v9"

	"ipodeck/internal/model"
)

// HistoryCache is a read-through cache of conversation history. It only ever
// holds derived data: the in-memory conversation store stays the state of
// record, and every cached entry expires on its own TTL.
type HistoryCache struct {
	client         *redisv9.Client
	historyTTL     time.Duration
	dirtyMarkerTTL time.Duration
}

func NewHistoryCache(client *redisv9.Client, historyTTL, dirtyMarkerTTL time.Duration) *HistoryCache {
	if historyTTL <= 0 {
		historyTTL = 60 * time.Second
	}
	if dirtyMarkerTTL <= 0 {
		dirtyMarkerTTL = 5 * time.Second
	}
	return &HistoryCache{
		client:         client,
		historyTTL:     historyTTL,
		dirtyMarkerTTL: dirtyMarkerTTL,
	}
}

func (c *HistoryCache) GetHistory(ctx context.Context, conversationID string) ([]model.Message, bool, error) {
	raw, err := c.client.Get(ctx, c.historyKey(conversationID)).Result()
	if err == redisv9.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get history failed: %w", err)
	}

	var messages []model.Message
	if err := json.Unmarshal([]byte(raw), &messages); err != nil {
		return nil, false, fmt.Errorf("unmarshal cached history failed: %w", err)
	}
	return messages, true, nil
}

func (c *HistoryCache) SetHistory(ctx context.Context, conversationID string, messages []model.Message) error {
	payload, err := json.Marshal(messages)
	if err != nil {
		return fmt.Errorf("marshal history cache failed: %w", err)
	}
	if err := c.client.Set(ctx, c.historyKey(conversationID), payload, c.historyTTL).Err(); err != nil {
		return fmt.Errorf("redis set history failed: %w", err)
	}
	return nil
}

func (c *HistoryCache) DeleteHistory(ctx context.Context, conversationID string) error {
	if err := c.client.Del(ctx, c.historyKey(conversationID)).Err(); err != nil {
		return fmt.Errorf("redis delete history failed: %w", err)
	}
	return nil
}

func (c *HistoryCache) MarkDirty(ctx context.Context, conversationID string) error {
	if err := c.client.Set(ctx, c.dirtyKey(conversationID), "1", c.dirtyMarkerTTL).Err(); err != nil {
		return fmt.Errorf("redis set dirty marker failed: %w", err)
	}
	return nil
}

func (c *HistoryCache) IsDirty(ctx context.Context, conversationID string) (bool, error) {
	exists, err := c.client.Exists(ctx, c.dirtyKey(conversationID)).Result()
	if err != nil {
		return false, fmt.Errorf("redis check dirty marker failed: %w", err)
	}
	return exists > 0, nil
}

func (c *HistoryCache) historyKey(conversationID string) string {
	return "chat:history:" + conversationID
}

func (c *HistoryCache) dirtyKey(conversationID string) string {
	return "chat:history:dirty:" + conversationID
}
