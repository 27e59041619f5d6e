package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"

	"github.com/crlabs/royale-retention/pkg/model"
)

const (
	// DefaultTTL is the default TTL for cached analyses in Redis (30 days)
	DefaultTTL = 30 * 24 * time.Hour
	// KeyPrefix is the prefix for all retention analysis keys
	KeyPrefix = "royale_retention:analysis:"
)

// ErrNotFound is returned when no analysis exists for a player tag.
var ErrNotFound = errors.New("analysis not found")

// PlayerAnalysis is the persisted result of one analysis run for a player.
type PlayerAnalysis struct {
	Profile    model.PlayerProfile       `json:"profile"`
	Prediction model.RetentionPrediction `json:"prediction"`
	AnalyzedAt time.Time                 `json:"analyzedAt"`
}

// InitRedisClient initializes and returns a Redis client with retry logic
func InitRedisClient(ctx context.Context, addr, password string, maxRetries int, retryDelay time.Duration) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           0, // use default DB
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	// Retry connection with increasing delay
	for i := 0; i < maxRetries; i++ {
		_, err := client.Ping(ctx).Result()
		if err == nil {
			logrus.Infof("connected to Redis at %s (attempt %d/%d)", addr, i+1, maxRetries)
			return client, nil
		}

		if i < maxRetries-1 {
			delay := retryDelay * time.Duration(i+1)
			logrus.Warnf("Redis connection failed (attempt %d/%d): %v, retrying in %v...",
				i+1, maxRetries, err, delay)
			time.Sleep(delay)
		}
	}

	return nil, fmt.Errorf("failed to connect to Redis at %s after %d attempts", addr, maxRetries)
}

// makeKey creates a Redis key for a player tag
func makeKey(tag string) string {
	return fmt.Sprintf("%s%s", KeyPrefix, tag)
}

// GetAnalysis retrieves the cached analysis for a player from Redis.
// Returns ErrNotFound when the player has never been analyzed.
func GetAnalysis(ctx context.Context, client *redis.Client, tag string) (*PlayerAnalysis, error) {
	key := makeKey(tag)

	data, err := client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		logrus.Errorf("failed to get analysis for player %s: %v", tag, err)
		return nil, fmt.Errorf("failed to get analysis: %w", err)
	}

	var analysis PlayerAnalysis
	if err := json.Unmarshal([]byte(data), &analysis); err != nil {
		logrus.Errorf("failed to unmarshal analysis for player %s: %v", tag, err)
		return nil, fmt.Errorf("failed to unmarshal analysis: %w", err)
	}

	logrus.Debugf("retrieved analysis for player %s", tag)
	return &analysis, nil
}

// SaveAnalysis stores the analysis for a player in Redis
func SaveAnalysis(ctx context.Context, client *redis.Client, tag string, analysis *PlayerAnalysis) error {
	key := makeKey(tag)

	data, err := json.Marshal(analysis)
	if err != nil {
		logrus.Errorf("failed to marshal analysis for player %s: %v", tag, err)
		return fmt.Errorf("failed to marshal analysis: %w", err)
	}

	if err := client.Set(ctx, key, data, DefaultTTL).Err(); err != nil {
		logrus.Errorf("failed to set analysis for player %s: %v", tag, err)
		return fmt.Errorf("failed to set analysis: %w", err)
	}

	logrus.Infof("saved analysis for player %s with TTL %v", tag, DefaultTTL)
	return nil
}

// DeleteAnalysis deletes the cached analysis for a player from Redis
func DeleteAnalysis(ctx context.Context, client *redis.Client, tag string) error {
	key := makeKey(tag)

	if err := client.Del(ctx, key).Err(); err != nil {
		logrus.Errorf("failed to delete analysis for player %s: %v", tag, err)
		return fmt.Errorf("failed to delete analysis: %w", err)
	}

	logrus.Infof("deleted analysis for player %s", tag)
	return nil
}
