package logger

import (
	"context"
	"io"
	"log/slog"
)

// ColorTextHandler wraps slog.TextHandler, prefixing each message with a
// colored three-letter level tag so the CLI's diagnostics are easy to scan
// among the emulator server's own output on a terminal.
type ColorTextHandler struct {
	*slog.TextHandler
}

// NewColorTextHandler creates a new ColorTextHandler
func NewColorTextHandler(w io.Writer, opts *slog.HandlerOptions) *ColorTextHandler {
	return &ColorTextHandler{TextHandler: slog.NewTextHandler(w, opts)}
}

// Handle implements slog.Handler
func (h *ColorTextHandler) Handle(ctx context.Context, r slog.Record) error {
	r.Message = levelTag(r.Level) + " " + r.Message
	return h.TextHandler.Handle(ctx, r)
}

// levelTag maps a level to its colored tag. Custom levels round down to
// the nearest standard one.
func levelTag(l slog.Level) string {
	switch {
	case l >= slog.LevelError:
		return "\033[31mERR\033[0m" // Red
	case l >= slog.LevelWarn:
		return "\033[33mWRN\033[0m" // Yellow
	case l >= slog.LevelInfo:
		return "\033[32mINF\033[0m" // Green
	default:
		return "\033[36mDBG\033[0m" // Cyan
	}
}
