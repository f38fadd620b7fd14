package redis

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/aretw0/canvas/internal/logging"
	"github.com/aretw0/canvas/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// Feed fans document changes out to every replica over Redis Pub/Sub.
type Feed struct {
	client  *backend.Client
	channel string
	logger  *slog.Logger
}

// NewFeed publishes on prefix+"changes". logger may be nil.
func NewFeed(client *backend.Client, prefix string, logger *slog.Logger) *Feed {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Feed{client: client, channel: prefix + "changes", logger: logger}
}

// Publish sends diff to subscribers. Failures are logged, not returned.
func (f *Feed) Publish(diff *domain.GraphDiff) {
	if diff == nil {
		return
	}
	data, err := json.Marshal(diff)
	if err != nil {
		f.logger.Error("failed to encode change", "canvas_id", diff.CanvasID, "err", err)
		return
	}
	if err := f.client.Publish(context.Background(), f.channel, data).Err(); err != nil {
		f.logger.Warn("failed to publish change", "canvas_id", diff.CanvasID, "err", err)
	}
}

// Subscribe calls fn for every change published by any replica until ctx is
// canceled. It returns once the subscription is confirmed.
func (f *Feed) Subscribe(ctx context.Context, fn func(*domain.GraphDiff)) error {
	sub := f.client.Subscribe(ctx, f.channel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return err
	}

	go func() {
		defer sub.Close()
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var diff domain.GraphDiff
				if err := json.Unmarshal([]byte(msg.Payload), &diff); err != nil {
					f.logger.Warn("dropping malformed change", "err", err)
					continue
				}
				fn(&diff)
			}
		}
	}()
	return nil
}
