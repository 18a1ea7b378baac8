package repository

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const consumedCodePrefix = "auth:code:consumed:"

// CodeStore tracks confirmation codes that have already been exchanged for a
// token. Codes carry no TTL: a consumed entry only stops mattering when the
// user's profile state changes and the derived code rotates with it.
type CodeStore interface {
	MarkConsumed(ctx context.Context, code string) error
	IsConsumed(ctx context.Context, code string) (bool, error)
}

type redisCodeStore struct {
	client *redis.Client
}

func NewCodeStore(client *redis.Client) CodeStore {
	return &redisCodeStore{client: client}
}

func (s *redisCodeStore) MarkConsumed(ctx context.Context, code string) error {
	key := consumedCodePrefix + code
	if err := s.client.Set(ctx, key, 1, 0).Err(); err != nil {
		return fmt.Errorf("mark code consumed: %w", err)
	}
	return nil
}

func (s *redisCodeStore) IsConsumed(ctx context.Context, code string) (bool, error) {
	key := consumedCodePrefix + code
	n, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("check code consumed: %w", err)
	}
	return n > 0, nil
}
