package logging

import (
	"context"
	"log/slog"
)

// ContextProvider returns attributes describing the live match, such as the
// current turn and player. It may return nothing before a match starts.
type ContextProvider func() []slog.Attr

// ContextHandler stamps every record with a "match" group holding the
// provider's attributes as they are when the record is handled.
type ContextHandler struct {
	slog.Handler
	provider ContextProvider
}

func NewContextHandler(inner slog.Handler, provider ContextProvider) *ContextHandler {
	return &ContextHandler{Handler: inner, provider: provider}
}

func (h *ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	if h.provider != nil {
		if attrs := h.provider(); len(attrs) > 0 {
			r.AddAttrs(slog.Attr{Key: "match", Value: slog.GroupValue(attrs...)})
		}
	}
	return h.Handler.Handle(ctx, r)
}

func (h *ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return NewContextHandler(h.Handler.WithAttrs(attrs), h.provider)
}

func (h *ContextHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return NewContextHandler(h.Handler.WithGroup(name), h.provider)
}
