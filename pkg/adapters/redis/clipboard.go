package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/canvas/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// Clipboard implements ports.Clipboard on a single Redis key, so that a copy
// on one replica can be pasted through another.
type Clipboard struct {
	client *backend.Client
	key    string
	ttl    time.Duration
}

// NewClipboard stores clipboard text under prefix+"clipboard:"+name.
// A zero ttl keeps the text until it is overwritten.
func NewClipboard(client *backend.Client, prefix, name string, ttl time.Duration) *Clipboard {
	return &Clipboard{
		client: client,
		key:    prefix + "clipboard:" + name,
		ttl:    ttl,
	}
}

// WriteText replaces the clipboard text.
func (c *Clipboard) WriteText(ctx context.Context, text string) error {
	if err := c.client.Set(ctx, c.key, text, c.ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrClipboardUnavailable, err)
	}
	return nil
}

// ReadText returns the clipboard text, or domain.ErrClipboardEmpty.
func (c *Clipboard) ReadText(ctx context.Context) (string, error) {
	text, err := c.client.Get(ctx, c.key).Result()
	if errors.Is(err, backend.Nil) {
		return "", domain.ErrClipboardEmpty
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrClipboardUnavailable, err)
	}
	return text, nil
}
