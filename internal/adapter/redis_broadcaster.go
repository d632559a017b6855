package adapter

import (
	"context"
	"encoding/json"

	"hiremate/internal/cache"
	"hiremate/internal/domain"
	"hiremate/internal/logger"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisBroadcaster publishes live report updates over Redis pub/sub.
// Publish failures are logged and swallowed so the ingest path never
// blocks on a subscriber.
type RedisBroadcaster struct {
	client *redis.Client
}

// NewRedisBroadcaster creates a new instance of RedisBroadcaster.
func NewRedisBroadcaster(client *redis.Client) domain.Broadcaster {
	return &RedisBroadcaster{client: client}
}

// PublishReportUpdate implements domain.Broadcaster.
func (b *RedisBroadcaster) PublishReportUpdate(ctx context.Context, attemptID string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		logger.Get().Warn("failed to marshal report update",
			zap.String("attempt_id", attemptID), zap.Error(err))
		return
	}
	channel := cache.ReportUpdateChannel(attemptID)
	if err := b.client.Publish(ctx, channel, data).Err(); err != nil {
		logger.Get().Warn("failed to publish report update",
			zap.String("attempt_id", attemptID), zap.String("channel", channel), zap.Error(err))
	}
}

// NoopBroadcaster is used when Redis is not configured.
type NoopBroadcaster struct{}

// PublishReportUpdate implements domain.Broadcaster.
func (NoopBroadcaster) PublishReportUpdate(ctx context.Context, attemptID string, payload interface{}) {
}
