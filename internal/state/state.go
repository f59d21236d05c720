package state

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// StateManager persists per-category crawl progress so an interrupted run
// resumes from the last enqueued page instead of re-probing from page 1.
type StateManager interface {
	GetLastProcessedPage(ctx context.Context, categorySlug string) (int, error)
	SetLastProcessedPage(ctx context.Context, categorySlug string, pageNumber int) error
}

type redisStateManager struct {
	redisClient *redis.Client
	keyPrefix   string
}

func NewRedisStateManager(redisClient *redis.Client) StateManager {
	return &redisStateManager{
		redisClient: redisClient,
		keyPrefix:   "fixprice:progress:page:",
	}
}

func (s *redisStateManager) GetLastProcessedPage(ctx context.Context, categorySlug string) (int, error) {
	key := s.keyPrefix + categorySlug
	val, err := s.redisClient.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return 0, nil // No progress saved yet
		}
		return 0, fmt.Errorf("failed to get last processed page for category %s: %w", categorySlug, err)
	}

	page, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("failed to parse page number for category %s: %w", categorySlug, err)
	}

	return page, nil
}

func (s *redisStateManager) SetLastProcessedPage(ctx context.Context, categorySlug string, pageNumber int) error {
	key := s.keyPrefix + categorySlug
	err := s.redisClient.Set(ctx, key, pageNumber, 0).Err() // No expiration
	if err != nil {
		return fmt.Errorf("failed to set last processed page for category %s: %w", categorySlug, err)
	}
	return nil
}
