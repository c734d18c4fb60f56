package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Addr string
}

// DatabaseConfig holds Postgres connection configuration
type DatabaseConfig struct {
	URL string
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	URL      string
	Password string
}

// StreamConfig defines which Redis streams to consume and publish
type StreamConfig struct {
	// Sport-specific final score streams (e.g., scores.final.americanfootball_nfl)
	ScoreStreams []string

	// Consumer group and ID
	ConsumerGroup string
	ConsumerID    string
}

// EngineConfig holds analysis and tracking tunables
type EngineConfig struct {
	Sports           []string
	LineHistoryPath  string
	DedupTTLMinutes  int
	SnapshotSchedule string
}

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Stream   StreamConfig
	Engine   EngineConfig
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	sports := loadSports()

	scoreStreams := make([]string, 0, len(sports))
	for _, sport := range sports {
		scoreStreams = append(scoreStreams, fmt.Sprintf("scores.final.%s", sport))
	}

	return &Config{
		Server: ServerConfig{
			Addr: getEnv("SERVER_ADDR", ":8090"),
		},
		Database: DatabaseConfig{
			URL: getEnv("DATABASE_URL", "postgres://localhost:5432/seanpicks?sslmode=disable"),
		},
		Redis: RedisConfig{
			URL:      getEnv("REDIS_URL", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
		},
		Stream: StreamConfig{
			ScoreStreams:  scoreStreams,
			ConsumerGroup: getEnv("CONSUMER_GROUP", "pick-engine"),
			ConsumerID:    getEnv("CONSUMER_ID", "engine-1"),
		},
		Engine: EngineConfig{
			Sports:           sports,
			LineHistoryPath:  getEnv("LINE_HISTORY_PATH", "line_history.db"),
			DedupTTLMinutes:  getEnvInt("DEDUP_TTL_MINUTES", 120),
			SnapshotSchedule: getEnv("SNAPSHOT_SCHEDULE", "0 * * * *"),
		},
	}
}

// loadSports reads the comma-separated SPORTS environment variable
func loadSports() []string {
	sportsStr := getEnv("SPORTS", "americanfootball_nfl")
	parts := strings.Split(sportsStr, ",")

	sports := make([]string, 0, len(parts))
	for _, sport := range parts {
		sport = strings.TrimSpace(sport)
		if sport != "" {
			sports = append(sports, sport)
		}
	}
	return sports
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an integer environment variable or returns a default
func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
