package build

import (
	"context"
	"log/slog"

	"github.com/btcsuite/btclog"
	btclogv2 "github.com/btcsuite/btclog/v2"
)

// handlerSet fans each log record out to several underlying handlers. The
// daemon uses it to write every record to the console and to the rotating
// log file at the same time.
type handlerSet struct {
	level btclog.Level
	set   []btclogv2.Handler
}

// newHandlerSet groups the given handlers behind a single btclog handler.
func newHandlerSet(handlers ...btclogv2.Handler) *handlerSet {
	h := &handlerSet{
		set:   handlers,
		level: defaultLogLevel,
	}
	h.SetLevel(h.level)

	return h
}

// Enabled reports whether every member handles records at the given level.
//
// NOTE: this is part of the slog.Handler interface.
func (h *handlerSet) Enabled(ctx context.Context, level slog.Level) bool {
	for _, handler := range h.set {
		if !handler.Enabled(ctx, level) {
			return false
		}
	}

	return true
}

// Handle dispatches the record to every member handler.
//
// NOTE: this is part of the slog.Handler interface.
func (h *handlerSet) Handle(ctx context.Context, record slog.Record) error {
	for _, handler := range h.set {
		if err := handler.Handle(ctx, record); err != nil {
			return err
		}
	}

	return nil
}

// WithAttrs returns a new handler whose members all carry the given
// attributes in addition to their existing ones.
//
// NOTE: this is part of the slog.Handler interface.
func (h *handlerSet) WithAttrs(attrs []slog.Attr) slog.Handler {
	members := make([]slog.Handler, len(h.set))
	for i, handler := range h.set {
		members[i] = handler.WithAttrs(attrs)
	}

	return &plainSet{set: members}
}

// WithGroup returns a new handler whose members all have the given group
// appended to their existing groups.
//
// NOTE: this is part of the slog.Handler interface.
func (h *handlerSet) WithGroup(name string) slog.Handler {
	members := make([]slog.Handler, len(h.set))
	for i, handler := range h.set {
		members[i] = handler.WithGroup(name)
	}

	return &plainSet{set: members}
}

// SubSystem returns a new set whose members are all tagged with the given
// subsystem.
//
// NOTE: this is part of the btclog.Handler interface.
func (h *handlerSet) SubSystem(tag string) btclogv2.Handler {
	members := make([]btclogv2.Handler, len(h.set))
	for i, handler := range h.set {
		members[i] = handler.SubSystem(tag)
	}

	return newHandlerSet(members...)
}

// SetLevel changes the logging level on every member handler.
//
// NOTE: this is part of the btclog.Handler interface.
func (h *handlerSet) SetLevel(level btclog.Level) {
	for _, handler := range h.set {
		handler.SetLevel(level)
	}
	h.level = level
}

// Level returns the current logging level.
//
// NOTE: this is part of the btclog.Handler interface.
func (h *handlerSet) Level() btclog.Level {
	return h.level
}

// WithPrefix returns a new set whose members all prefix their messages with
// the given string.
//
// NOTE: this is part of the btclog.Handler interface.
func (h *handlerSet) WithPrefix(prefix string) btclogv2.Handler {
	members := make([]btclogv2.Handler, len(h.set))
	for i, handler := range h.set {
		members[i] = handler.WithPrefix(prefix)
	}

	return newHandlerSet(members...)
}

var _ btclogv2.Handler = (*handlerSet)(nil)

// plainSet is a fan-out over bare slog.Handlers. WithAttrs and WithGroup
// produce slog.Handlers rather than btclog ones, so the result of those
// calls on a handlerSet lands here.
type plainSet struct {
	set []slog.Handler
}

// Enabled reports whether every member handles records at the given level.
//
// NOTE: this is part of the slog.Handler interface.
func (p *plainSet) Enabled(ctx context.Context, level slog.Level) bool {
	for _, handler := range p.set {
		if !handler.Enabled(ctx, level) {
			return false
		}
	}

	return true
}

// Handle dispatches the record to every member handler.
//
// NOTE: this is part of the slog.Handler interface.
func (p *plainSet) Handle(ctx context.Context, record slog.Record) error {
	for _, handler := range p.set {
		if err := handler.Handle(ctx, record); err != nil {
			return err
		}
	}

	return nil
}

// WithAttrs returns a new handler whose members all carry the given
// attributes.
//
// NOTE: this is part of the slog.Handler interface.
func (p *plainSet) WithAttrs(attrs []slog.Attr) slog.Handler {
	members := make([]slog.Handler, len(p.set))
	for i, handler := range p.set {
		members[i] = handler.WithAttrs(attrs)
	}

	return &plainSet{set: members}
}

// WithGroup returns a new handler whose members all carry the given group.
//
// NOTE: this is part of the slog.Handler interface.
func (p *plainSet) WithGroup(name string) slog.Handler {
	members := make([]slog.Handler, len(p.set))
	for i, handler := range p.set {
		members[i] = handler.WithGroup(name)
	}

	return &plainSet{set: members}
}

var _ slog.Handler = (*plainSet)(nil)
