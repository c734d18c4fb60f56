package dedup

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sfutchko/seanpicks-sub001/pkg/models"
)

// Deduplicator suppresses repeat publications of the same pick at the
// same line using Redis TTL keys.
type Deduplicator struct {
	client *redis.Client
	ttl    time.Duration
}

// NewDeduplicator creates a new deduplicator
func NewDeduplicator(client *redis.Client, ttlMinutes int) *Deduplicator {
	return &Deduplicator{
		client: client,
		ttl:    time.Duration(ttlMinutes) * time.Minute,
	}
}

// ShouldPublish returns true if this bet hasn't been published at this
// line recently.
func (d *Deduplicator) ShouldPublish(ctx context.Context, bet *models.TrackedBet) (bool, error) {
	dedupKey := d.generateDedupKey(bet)

	exists, err := d.client.Exists(ctx, dedupKey).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check dedup key: %w", err)
	}

	if exists > 0 {
		// Already published recently
		return false, nil
	}

	if err := d.client.Set(ctx, dedupKey, "1", d.ttl).Err(); err != nil {
		return false, fmt.Errorf("failed to set dedup key: %w", err)
	}

	return true, nil
}

// generateDedupKey builds a deterministic key for a bet at its line.
// A line move on the same pick produces a new key, so improved numbers
// republish.
func (d *Deduplicator) generateDedupKey(bet *models.TrackedBet) string {
	return fmt.Sprintf("picks:dedup:%s:%s:%+.1f", bet.GameID, bet.Pick, bet.BestSpread)
}

// Clear removes a dedup entry (for testing)
func (d *Deduplicator) Clear(ctx context.Context, bet *models.TrackedBet) error {
	return d.client.Del(ctx, d.generateDedupKey(bet)).Err()
}
