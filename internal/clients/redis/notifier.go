package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/mevlabs/engagement-backend/internal/config"
	"github.com/mevlabs/engagement-backend/internal/pkg/logger"
	"github.com/mevlabs/engagement-backend/internal/types"
)

// NotificationBus fans persisted notification events out to downstream
// delivery channels over redis pub/sub. Publishing is best effort and
// happens after the database transaction commits; subscribers that miss a
// message still see the row in notification_events.
type NotificationBus interface {
	Publish(ctx context.Context, event *types.NotificationEvent) error
	Close() error
}

type notificationBus struct {
	log     *logger.Logger
	rdb     *goredis.Client
	channel string
}

func NewNotificationBus(cfg config.RedisConfig, log *logger.Logger) (NotificationBus, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if cfg.Addr == "" {
		return nil, fmt.Errorf("missing redis addr")
	}
	channel := cfg.Channel
	if channel == "" {
		channel = "notifications"
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        cfg.Addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &notificationBus{
		log:     log.With("service", "RedisNotificationBus"),
		rdb:     rdb,
		channel: channel,
	}, nil
}

func (b *notificationBus) Publish(ctx context.Context, event *types.NotificationEvent) error {
	if b == nil || b.rdb == nil {
		return fmt.Errorf("notification bus not initialized")
	}
	raw, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return b.rdb.Publish(ctx, b.channel, raw).Err()
}

func (b *notificationBus) Close() error {
	if b == nil || b.rdb == nil {
		return nil
	}
	return b.rdb.Close()
}
