package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"wolfs_web/internal/game"
)

// SessionCache 存放遊戲狀態快照，供查詢類操作使用
type SessionCache interface {
	Get(ctx context.Context, id uint) (*game.State, bool)
	Set(ctx context.Context, state game.State) error
	Delete(ctx context.Context, id uint) error
}

type redisSessionCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisSessionCache 以 Redis 作為快取，key 格式為 "session:{id}"
func NewRedisSessionCache(client *redis.Client, ttl time.Duration) SessionCache {
	return &redisSessionCache{client: client, ttl: ttl}
}

func sessionKey(id uint) string {
	return fmt.Sprintf("session:%d", id)
}

func (c *redisSessionCache) Get(ctx context.Context, id uint) (*game.State, bool) {
	data, err := c.client.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		return nil, false
	}
	var state game.State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, false
	}
	return &state, true
}

func (c *redisSessionCache) Set(ctx context.Context, state game.State) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("error marshaling session %d: %v", state.ID, err)
	}
	return c.client.Set(ctx, sessionKey(state.ID), data, c.ttl).Err()
}

func (c *redisSessionCache) Delete(ctx context.Context, id uint) error {
	err := c.client.Del(ctx, sessionKey(id)).Err()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("error deleting session %d: %v", id, err)
	}
	return nil
}

type noopSessionCache struct{}

// NewNoopSessionCache 未設定 Redis 時使用，永遠不命中
func NewNoopSessionCache() SessionCache {
	return noopSessionCache{}
}

func (noopSessionCache) Get(context.Context, uint) (*game.State, bool) { return nil, false }
func (noopSessionCache) Set(context.Context, game.State) error         { return nil }
func (noopSessionCache) Delete(context.Context, uint) error            { return nil }
