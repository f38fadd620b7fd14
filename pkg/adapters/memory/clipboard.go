package memory

import (
	"context"
	"sync"

	"github.com/aretw0/canvas/pkg/domain"
)

// Clipboard implements ports.Clipboard in memory. Safe for concurrent use.
// A Clipboard can be switched to a failing mode to simulate a platform that
// denies clipboard access.
type Clipboard struct {
	mu          sync.Mutex
	text        string
	unavailable bool
}

// NewClipboard creates an empty clipboard.
func NewClipboard() *Clipboard {
	return &Clipboard{}
}

// NewClipboardWithText creates a clipboard pre-filled with text.
func NewClipboardWithText(text string) *Clipboard {
	return &Clipboard{text: text}
}

// SetUnavailable makes every subsequent call fail with domain.ErrClipboardUnavailable.
func (c *Clipboard) SetUnavailable(unavailable bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.unavailable = unavailable
}

// WriteText stores text.
func (c *Clipboard) WriteText(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.unavailable {
		return domain.ErrClipboardUnavailable
	}
	c.text = text
	return nil
}

// ReadText returns the stored text.
func (c *Clipboard) ReadText(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.unavailable {
		return "", domain.ErrClipboardUnavailable
	}
	return c.text, nil
}
