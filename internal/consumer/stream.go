package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sfutchko/seanpicks-sub001/pkg/models"
)

// StreamConsumer consumes final scores from Redis Streams using a
// consumer group, so multiple engine instances split the work.
type StreamConsumer struct {
	client     *redis.Client
	streamKey  string
	consumerID string
	groupName  string
}

// NewStreamConsumer creates a consumer for the given scores stream
func NewStreamConsumer(client *redis.Client, streamKey, consumerID, groupName string) *StreamConsumer {
	return &StreamConsumer{
		client:     client,
		streamKey:  streamKey,
		consumerID: consumerID,
		groupName:  groupName,
	}
}

// Scores starts consuming and returns channels for scores and errors.
// Both channels close when ctx is cancelled. Messages are acknowledged
// after they are delivered on the channel.
func (c *StreamConsumer) Scores(ctx context.Context) (<-chan models.FinalScore, <-chan error) {
	scoreCh := make(chan models.FinalScore, 100)
	errorCh := make(chan error, 10)

	// Create consumer group if it doesn't exist
	err := c.client.XGroupCreateMkStream(ctx, c.streamKey, c.groupName, "0").Err()
	if err != nil && err.Error() != "BUSYGROUP Consumer Group name already exists" {
		errorCh <- fmt.Errorf("failed to create consumer group: %w", err)
		close(scoreCh)
		close(errorCh)
		return scoreCh, errorCh
	}

	go func() {
		defer close(scoreCh)
		defer close(errorCh)

		for {
			select {
			case <-ctx.Done():
				return
			default:
				streams, err := c.client.XReadGroup(ctx, &redis.XReadGroupArgs{
					Group:    c.groupName,
					Consumer: c.consumerID,
					Streams:  []string{c.streamKey, ">"},
					Count:    10,
					Block:    1 * time.Second,
				}).Result()

				if err != nil {
					if err == redis.Nil {
						continue
					}
					if ctx.Err() != nil {
						return
					}
					errorCh <- fmt.Errorf("error reading from stream: %w", err)
					time.Sleep(1 * time.Second)
					continue
				}

				for _, stream := range streams {
					for _, message := range stream.Messages {
						score, err := parseScore(message)
						if err != nil {
							errorCh <- fmt.Errorf("error parsing message %s: %w", message.ID, err)
							continue
						}

						select {
						case scoreCh <- score:
						case <-ctx.Done():
							return
						}

						if err := c.ack(ctx, message.ID); err != nil {
							errorCh <- fmt.Errorf("error acking message %s: %w", message.ID, err)
						}
					}
				}
			}
		}
	}()

	return scoreCh, errorCh
}

func parseScore(xmsg redis.XMessage) (models.FinalScore, error) {
	scoreJSON, ok := xmsg.Values["score"].(string)
	if !ok {
		return models.FinalScore{}, fmt.Errorf("missing 'score' field in message")
	}

	var score models.FinalScore
	if err := json.Unmarshal([]byte(scoreJSON), &score); err != nil {
		return models.FinalScore{}, fmt.Errorf("failed to parse score JSON: %w", err)
	}

	return score, nil
}

func (c *StreamConsumer) ack(ctx context.Context, messageID string) error {
	return c.client.XAck(ctx, c.streamKey, c.groupName, messageID).Err()
}
