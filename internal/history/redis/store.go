package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "storefront:recently_viewed:"

// Store implements history.Store with one Redis list per visitor.
type Store struct {
	client *redis.Client
	limit  int
	ttl    time.Duration
}

// NewStore creates a Redis-backed store keeping at most limit ids per
// visitor, each list expiring ttl after the last view.
func NewStore(client *redis.Client, limit int, ttl time.Duration) *Store {
	return &Store{client: client, limit: limit, ttl: ttl}
}

// Record moves productID to the head of the visitor's list, dropping any
// earlier occurrence and anything past the limit.
func (s *Store) Record(ctx context.Context, visitorID string, productID int) error {
	key := keyPrefix + visitorID
	id := strconv.Itoa(productID)

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.LRem(ctx, key, 0, id)
		pipe.LPush(ctx, key, id)
		pipe.LTrim(ctx, key, 0, int64(s.limit-1))
		if s.ttl > 0 {
			pipe.Expire(ctx, key, s.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis record recently viewed: %w", err)
	}
	return nil
}

// Recent returns the visitor's ids, newest first. An unknown visitor has an
// empty list.
func (s *Store) Recent(ctx context.Context, visitorID string) ([]string, error) {
	ids, err := s.client.LRange(ctx, keyPrefix+visitorID, 0, int64(s.limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis list recently viewed: %w", err)
	}
	return ids, nil
}
