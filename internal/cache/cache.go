// Package cache is a redis cache-aside layer for the read-heavy paths: the
// public event lookup behind the check-in page and the dashboard stats. The
// check-in write path never reads from here.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/eventpulse/eventpulse-api/internal/domain"
)

// ErrMiss is returned when a key is absent; callers fall through to the
// store.
var ErrMiss = errors.New("cache miss")

type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

func New(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{
		client: client,
		ttl:    ttl,
	}
}

func (c *Cache) GetStats(ctx context.Context, organizerID string) (domain.EventStats, error) {
	data, err := c.client.Get(ctx, "stats:"+organizerID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.EventStats{}, ErrMiss
		}

		return domain.EventStats{}, err
	}

	var stats domain.EventStats
	if err = json.Unmarshal([]byte(data), &stats); err != nil {
		return domain.EventStats{}, err
	}

	return stats, nil
}

func (c *Cache) SetStats(ctx context.Context, organizerID string, stats domain.EventStats) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return err
	}

	return c.client.Set(ctx, "stats:"+organizerID, data, c.ttl).Err()
}

func (c *Cache) InvalidateStats(ctx context.Context, organizerID string) error {
	return c.client.Del(ctx, "stats:"+organizerID).Err()
}

func (c *Cache) GetPublicEvent(ctx context.Context, code string) (domain.Event, error) {
	data, err := c.client.Get(ctx, "event:"+code).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.Event{}, ErrMiss
		}

		return domain.Event{}, err
	}

	var event domain.Event
	if err = json.Unmarshal([]byte(data), &event); err != nil {
		return domain.Event{}, err
	}

	return event, nil
}

func (c *Cache) SetPublicEvent(ctx context.Context, event domain.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return c.client.Set(ctx, "event:"+event.CheckInCode, data, c.ttl).Err()
}

func (c *Cache) InvalidatePublicEvent(ctx context.Context, code string) error {
	return c.client.Del(ctx, "event:"+code).Err()
}
