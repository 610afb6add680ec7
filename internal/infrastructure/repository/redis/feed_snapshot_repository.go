package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"
	"github.com/riskibarqy/sports-calendar/internal/domain/event"
)

const DefaultFeedSnapshotKey = "sports-calendar:feed:snapshot"

// Connect parses a redis:// URL and verifies the server answers PING.
func Connect(ctx context.Context, rawURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(strings.TrimSpace(rawURL))
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

type FeedSnapshotRepository struct {
	client redis.Cmdable
	key    string
}

func NewFeedSnapshotRepository(client redis.Cmdable, key string) *FeedSnapshotRepository {
	key = strings.TrimSpace(key)
	if key == "" {
		key = DefaultFeedSnapshotKey
	}
	return &FeedSnapshotRepository{client: client, key: key}
}

// Load returns the stored feed; a missing or expired key is a miss, not an error.
func (r *FeedSnapshotRepository) Load(ctx context.Context) (event.Feed, bool, error) {
	if r == nil || r.client == nil {
		return event.Feed{}, false, nil
	}

	raw, err := r.client.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return event.Feed{}, false, nil
	}
	if err != nil {
		return event.Feed{}, false, fmt.Errorf("get feed snapshot: %w", err)
	}

	var model feedSnapshotModel
	if err := sonic.Unmarshal(raw, &model); err != nil {
		return event.Feed{}, false, fmt.Errorf("decode feed snapshot: %w", err)
	}
	if model.Version != snapshotVersion {
		return event.Feed{}, false, nil
	}
	return model.toDomain(), true, nil
}

func (r *FeedSnapshotRepository) Save(ctx context.Context, feed event.Feed, ttl time.Duration) error {
	if r == nil || r.client == nil {
		return nil
	}
	if ttl <= 0 {
		return fmt.Errorf("save feed snapshot: ttl must be positive, got %s", ttl)
	}

	raw, err := sonic.Marshal(toFeedSnapshotModel(feed))
	if err != nil {
		return fmt.Errorf("encode feed snapshot: %w", err)
	}
	if err := r.client.Set(ctx, r.key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("set feed snapshot: %w", err)
	}
	return nil
}
