package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sfutchko/seanpicks-sub001/pkg/models"
)

// TTL constants
const (
	AnalysisTTL     = 2 * time.Hour
	BestBetsListTTL = 24 * time.Hour
)

// RedisWriter caches the latest analysis per game so dashboards read
// without re-scoring.
type RedisWriter struct {
	client *redis.Client
}

// NewRedisWriter creates a new Redis writer
func NewRedisWriter(client *redis.Client) *RedisWriter {
	return &RedisWriter{
		client: client,
	}
}

// WriteAnalysis stores the latest analysis for a game
func (w *RedisWriter) WriteAnalysis(ctx context.Context, analysis *models.AnalysisResult) error {
	key := fmt.Sprintf("analysis:%s:latest", analysis.GameID)

	data, err := json.Marshal(analysis)
	if err != nil {
		return fmt.Errorf("marshaling analysis: %w", err)
	}

	return w.client.Set(ctx, key, data, AnalysisTTL).Err()
}

// ReadAnalysis retrieves the cached analysis for a game. Returns
// redis.Nil when none is cached.
func (w *RedisWriter) ReadAnalysis(ctx context.Context, gameID string) (*models.AnalysisResult, error) {
	key := fmt.Sprintf("analysis:%s:latest", gameID)

	data, err := w.client.Get(ctx, key).Result()
	if err != nil {
		return nil, err
	}

	var analysis models.AnalysisResult
	if err := json.Unmarshal([]byte(data), &analysis); err != nil {
		return nil, fmt.Errorf("unmarshaling analysis: %w", err)
	}

	return &analysis, nil
}

// WriteBestBetsList stores the day's best-bet game IDs for a sport
func (w *RedisWriter) WriteBestBetsList(ctx context.Context, sportKey string, date time.Time, gameIDs []string) error {
	key := fmt.Sprintf("picks:best:%s:%s", sportKey, date.Format("2006-01-02"))

	values := make([]interface{}, len(gameIDs))
	for i, id := range gameIDs {
		values[i] = id
	}

	pipe := w.client.Pipeline()
	pipe.Del(ctx, key)
	if len(values) > 0 {
		pipe.RPush(ctx, key, values...)
	}
	pipe.Expire(ctx, key, BestBetsListTTL)

	_, err := pipe.Exec(ctx)
	return err
}

// ReadBestBetsList retrieves the day's best-bet game IDs
func (w *RedisWriter) ReadBestBetsList(ctx context.Context, sportKey string, date time.Time) ([]string, error) {
	key := fmt.Sprintf("picks:best:%s:%s", sportKey, date.Format("2006-01-02"))

	return w.client.LRange(ctx, key, 0, -1).Result()
}
