package ports

import "context"

// Clipboard is the platform clipboard. It may be unavailable or reject access
// (permissions); every call site falls back to an internal clipboard.
type Clipboard interface {
	WriteText(ctx context.Context, text string) error
	ReadText(ctx context.Context) (string, error)
}
