// Package clicks records affiliate clicks. The sink is fire-and-forget:
// it must never block or fail the UI action it is attached to.
package clicks

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sammenlign/pricefeed/internal/domain"
	"github.com/sammenlign/pricefeed/internal/logger"
)

// DefaultPushTimeout bounds one click write.
const DefaultPushTimeout = 2 * time.Second

// Click is one recorded affiliate click.
type Click struct {
	ProviderID   string          `json:"provider_id"`
	ProviderName string          `json:"provider_name"`
	Category     domain.Category `json:"category"`
	TargetURL    string          `json:"target_url"`
	ClickedAt    time.Time       `json:"clicked_at"`
}

// Sink accepts clicks for recording.
type Sink interface {
	Log(click Click)
}

// listPusher is the slice of the Redis client the sink needs.
type listPusher interface {
	LPush(ctx context.Context, key string, values ...any) *redis.IntCmd
}

// RedisSink pushes click events onto a Redis list for downstream
// consumption. Failures are logged and dropped.
type RedisSink struct {
	client listPusher
	key    string
	log    logger.Interface
}

// NewRedisSink creates a Redis-backed click sink.
func NewRedisSink(client *redis.Client, key string, log logger.Interface) *RedisSink {
	return newRedisSink(client, key, log)
}

func newRedisSink(client listPusher, key string, log logger.Interface) *RedisSink {
	return &RedisSink{
		client: client,
		key:    key,
		log:    log.WithComponent("clicks"),
	}
}

// NewRedisClient parses url and verifies connectivity.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return client, nil
}

// Log records a click asynchronously. The caller returns immediately.
func (s *RedisSink) Log(click Click) {
	if click.ClickedAt.IsZero() {
		click.ClickedAt = time.Now().UTC()
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), DefaultPushTimeout)
		defer cancel()

		payload, err := json.Marshal(click)
		if err != nil {
			s.log.Error("Failed to marshal click", "error", err)
			return
		}

		if pushErr := s.client.LPush(ctx, s.key, payload).Err(); pushErr != nil {
			s.log.Error("Failed to record click",
				"provider", click.ProviderID,
				"error", pushErr)
		}
	}()
}

// NoopSink discards clicks. Used in tests.
type NoopSink struct{}

// Log discards the click.
func (NoopSink) Log(Click) {}
