// Package presence tracks which connections are currently inside a
// conversation, backed by Redis sets so the API service can read the
// membership the chat service writes.
package presence

import (
	"context"

	"github.com/redis/go-redis/v9"
)

type Tracker struct {
	redis *redis.Client
}

func NewTracker(addr string) *Tracker {
	return &Tracker{redis: redis.NewClient(&redis.Options{Addr: addr})}
}

func key(orderID string) string {
	return "conversation:" + orderID + ":participants"
}

func (t *Tracker) Join(ctx context.Context, orderID, connID string) error {
	return t.redis.SAdd(ctx, key(orderID), connID).Err()
}

func (t *Tracker) Leave(ctx context.Context, orderID, connID string) error {
	return t.redis.SRem(ctx, key(orderID), connID).Err()
}

func (t *Tracker) Participants(ctx context.Context, orderID string) ([]string, error) {
	return t.redis.SMembers(ctx, key(orderID)).Result()
}

func (t *Tracker) Close() error {
	return t.redis.Close()
}
