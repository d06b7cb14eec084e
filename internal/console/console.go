package console

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Caller identifies the subsystem that wrote a message.
type Caller int

const (
	Engine Caller = iota
	File
	Input
	Shutdown
)

func (c Caller) String() string {
	switch c {
	case Engine:
		return "engine"
	case File:
		return "file"
	case Input:
		return "input"
	case Shutdown:
		return "shutdown"
	}
	return "unknown"
}

// CallerKey is the attribute key every subsystem logger is tagged with.
const CallerKey = "caller"

// For returns the default logger tagged with the given subsystem.
func For(c Caller) *slog.Logger {
	return slog.Default().With(slog.String(CallerKey, c.String()))
}

// Message is one line kept for the in-editor console.
type Message struct {
	Time   time.Time
	Level  slog.Level
	Caller string
	Text   string
}

// ring is shared between a Buffer and the handlers derived from it.
type ring struct {
	mu       sync.Mutex
	messages []Message
	next     int
	full     bool
}

func (r *ring) add(m Message) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages[r.next] = m
	r.next = (r.next + 1) % len(r.messages)
	if r.next == 0 {
		r.full = true
	}
}

// Buffer is a slog.Handler that forwards records to another handler and
// keeps the most recent ones for display.
type Buffer struct {
	next   slog.Handler
	ring   *ring
	caller string
}

func NewBuffer(next slog.Handler, capacity int) *Buffer {
	if capacity < 1 {
		capacity = 1
	}
	return &Buffer{
		next: next,
		ring: &ring{messages: make([]Message, capacity)},
	}
}

func (b *Buffer) Enabled(ctx context.Context, level slog.Level) bool {
	return b.next.Enabled(ctx, level)
}

func (b *Buffer) Handle(ctx context.Context, r slog.Record) error {
	caller := b.caller
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == CallerKey {
			caller = a.Value.String()
			return false
		}
		return true
	})
	b.ring.add(Message{Time: r.Time, Level: r.Level, Caller: caller, Text: r.Message})
	return b.next.Handle(ctx, r)
}

func (b *Buffer) WithAttrs(attrs []slog.Attr) slog.Handler {
	caller := b.caller
	for _, a := range attrs {
		if a.Key == CallerKey {
			caller = a.Value.String()
		}
	}
	return &Buffer{next: b.next.WithAttrs(attrs), ring: b.ring, caller: caller}
}

func (b *Buffer) WithGroup(name string) slog.Handler {
	return &Buffer{next: b.next.WithGroup(name), ring: b.ring, caller: b.caller}
}

// Messages returns the kept messages, oldest first.
func (b *Buffer) Messages() []Message {
	r := b.ring
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.full {
		return append([]Message(nil), r.messages[:r.next]...)
	}
	out := make([]Message, 0, len(r.messages))
	out = append(out, r.messages[r.next:]...)
	return append(out, r.messages[:r.next]...)
}

func (b *Buffer) Clear() {
	r := b.ring
	r.mu.Lock()
	defer r.mu.Unlock()
	clear(r.messages)
	r.next = 0
	r.full = false
}
