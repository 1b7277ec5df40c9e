// Package notify delivers the share text of a saved report. Sharing is
// an optional convenience: a missing or broken notifier must never
// block a save.
package notify

import (
	"context"
	"log/slog"
)

// Notifier sends the rendered share text somewhere an operator can
// grab it. Share failures are reported to the caller for logging but
// are never treated as save failures.
type Notifier interface {
	// Available reports whether a real delivery channel is configured.
	Available() bool
	Share(ctx context.Context, text string) error
}

// Nop is the fallback when no channel is configured. It logs the text
// at debug level so it can still be copied from the logs.
type Nop struct{}

func (Nop) Available() bool { return false }

func (Nop) Share(ctx context.Context, text string) error {
	slog.DebugContext(ctx, "No share channel configured, share text follows", "text", text)
	return nil
}
