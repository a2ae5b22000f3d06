package logging

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aretw0/hexwire/pkg/domain"
	"github.com/aretw0/hexwire/pkg/ports"
)

// StoreHandler is a slog.Handler that persists every record at or above its
// level into a log store and then passes the record on to the next handler.
// Store errors are dropped so that logging never fails the caller.
type StoreHandler struct {
	store  ports.LogStore
	source string
	level  slog.Leveler
	next   slog.Handler
	attrs  []slog.Attr
	group  string
}

// NewStoreHandler tees records into store, tagging them with source.
// next may be nil, in which case records are only persisted.
func NewStoreHandler(store ports.LogStore, source string, level slog.Leveler, next slog.Handler) *StoreHandler {
	if level == nil {
		level = slog.LevelInfo
	}
	return &StoreHandler{store: store, source: source, level: level, next: next}
}

func (h *StoreHandler) Enabled(ctx context.Context, l slog.Level) bool {
	if l >= h.level.Level() {
		return true
	}
	return h.next != nil && h.next.Enabled(ctx, l)
}

func (h *StoreHandler) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= h.level.Level() {
		entry := domain.LogEntry{
			Time:    r.Time,
			Level:   LevelName(r.Level),
			Source:  h.source,
			Message: h.format(r),
		}
		// The store may itself log; detach from the caller's cancellation.
		_ = h.store.Append(context.WithoutCancel(ctx), entry)
	}
	if h.next != nil && h.next.Enabled(ctx, r.Level) {
		return h.next.Handle(ctx, r)
	}
	return nil
}

func (h *StoreHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = append(append([]slog.Attr{}, h.attrs...), h.qualify(attrs)...)
	if h.next != nil {
		clone.next = h.next.WithAttrs(attrs)
	}
	return &clone
}

func (h *StoreHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	if h.group != "" {
		clone.group = h.group + "." + name
	} else {
		clone.group = name
	}
	if h.next != nil {
		clone.next = h.next.WithGroup(name)
	}
	return &clone
}

func (h *StoreHandler) qualify(attrs []slog.Attr) []slog.Attr {
	if h.group == "" {
		return attrs
	}
	out := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		out[i] = slog.Attr{Key: h.group + "." + a.Key, Value: a.Value}
	}
	return out
}

// format renders "message key=value ..." on one line.
func (h *StoreHandler) format(r slog.Record) string {
	var sb strings.Builder
	sb.WriteString(r.Message)
	write := func(a slog.Attr) {
		a.Value = a.Value.Resolve()
		if a.Equal(slog.Attr{}) {
			return
		}
		if a.Value.Kind() == slog.KindGroup {
			for _, g := range a.Value.Group() {
				sb.WriteString(" ")
				sb.WriteString(a.Key + "." + g.Key + "=" + quote(g.Value.String()))
			}
			return
		}
		sb.WriteString(" ")
		key := a.Key
		if key == "error" {
			key = "err"
		}
		sb.WriteString(key + "=" + quote(a.Value.String()))
	}
	for _, a := range h.attrs {
		write(a)
	}
	r.Attrs(func(a slog.Attr) bool {
		for _, q := range h.qualify([]slog.Attr{a}) {
			write(q)
		}
		return true
	})
	return sb.String()
}

func quote(s string) string {
	if s == "" || strings.ContainsAny(s, " \t\n\"=") {
		return fmt.Sprintf("%q", s)
	}
	return s
}
