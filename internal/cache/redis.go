package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"shop-orders/internal/domain"
)

type RedisCache struct {
	client  *redis.Client
	baseTTL time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, baseTTL: ttl}
}

func (r *RedisCache) Get(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	data, err := r.client.Get(ctx, cacheKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var order domain.Order
	if err := json.Unmarshal(data, &order); err != nil {
		return nil, fmt.Errorf("unmarshal order failed: %w", err)
	}
	return &order, nil
}

func (r *RedisCache) Set(ctx context.Context, order *domain.Order) error {
	data, err := json.Marshal(order)
	if err != nil {
		return fmt.Errorf("marshal order failed: %w", err)
	}

	// jitter spreads expiry of orders cached in the same burst
	ttl := r.baseTTL + time.Duration(rand.Intn(60))*time.Second
	if err := r.client.Set(ctx, cacheKey(order.ID), data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func cacheKey(id uuid.UUID) string {
	return fmt.Sprintf("order:%s", id)
}
