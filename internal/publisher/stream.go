package publisher

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/sfutchko/seanpicks-sub001/pkg/models"
)

// StreamPublisher publishes surfaced best bets to Redis Streams
type StreamPublisher struct {
	client *redis.Client
}

// NewStreamPublisher creates a new stream publisher
func NewStreamPublisher(client *redis.Client) *StreamPublisher {
	return &StreamPublisher{
		client: client,
	}
}

// PublishBestBet publishes a best bet to the sport-specific
// picks.best.<sport> stream.
func (p *StreamPublisher) PublishBestBet(ctx context.Context, sportKey string, bet *models.TrackedBet) error {
	betJSON, err := json.Marshal(bet)
	if err != nil {
		return fmt.Errorf("failed to marshal best bet: %w", err)
	}

	streamKey := fmt.Sprintf("picks.best.%s", sportKey)

	_, err = p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: streamKey,
		Values: map[string]interface{}{
			"bet": string(betJSON),
		},
	}).Result()

	if err != nil {
		return fmt.Errorf("failed to publish to stream %s: %w", streamKey, err)
	}

	return nil
}

// PublishToGlobalStream also publishes to the unsuffixed picks.best
// stream for consumers that want every sport.
func (p *StreamPublisher) PublishToGlobalStream(ctx context.Context, bet *models.TrackedBet) error {
	betJSON, err := json.Marshal(bet)
	if err != nil {
		return fmt.Errorf("failed to marshal best bet: %w", err)
	}

	_, err = p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: "picks.best",
		Values: map[string]interface{}{
			"bet": string(betJSON),
		},
	}).Result()

	if err != nil {
		return fmt.Errorf("failed to publish to global stream: %w", err)
	}

	return nil
}

// Publish sends the bet to both the sport-specific and global streams
func (p *StreamPublisher) Publish(ctx context.Context, bet *models.TrackedBet) error {
	if err := p.PublishBestBet(ctx, bet.SportKey, bet); err != nil {
		return err
	}

	if err := p.PublishToGlobalStream(ctx, bet); err != nil {
		return err
	}

	return nil
}
