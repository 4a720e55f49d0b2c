package database

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"
)

// Notifier definition pub/sub notifications for job status transitions
type Notifier interface {
	PublishStatus(ctx context.Context, jobID, status string) error
}

type redisNotifier struct {
	client  *redis.Client
	channel string
}

// NewRedisClient init Redis Sentinel connection
func NewRedisClient(masterName string, sentinelAddrs []string, db int) (*redis.Client, error) {
	rdb := redis.NewFailoverClient(&redis.FailoverOptions{
		MasterName:    masterName,
		SentinelAddrs: sentinelAddrs,
		Password:      "",
		DB:            db,
	})

	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis sentinel: %w", err)
	}

	return rdb, nil
}

// NewRedisNotifier create a Notifier publishing to the given channel
func NewRedisNotifier(client *redis.Client, channel string) Notifier {
	return &redisNotifier{client: client, channel: channel}
}

// statusEvent wire shape for the pub/sub payload
type statusEvent struct {
	JobID  string `json:"job_id"`
	Status string `json:"status"`
}

// PublishStatus push one status transition onto the channel
func (r *redisNotifier) PublishStatus(ctx context.Context, jobID, status string) error {
	data, err := json.Marshal(statusEvent{JobID: jobID, Status: status})
	if err != nil {
		return fmt.Errorf("failed to marshal status event: %w", err)
	}
	return r.client.Publish(ctx, r.channel, data).Err()
}
