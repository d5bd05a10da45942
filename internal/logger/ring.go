// internal/logger/ring.go
package logger

import (
	"sync"
	"time"

	"go.uber.org/zap/zapcore"
)

// LogEntry is one line kept for the in-app log panel.
type LogEntry struct {
	Timestamp time.Time
	Level     zapcore.Level
	Message   string
}

// Ring keeps the last N formatted log entries in memory. It is a zapcore.Core so
// it can be teed next to a file sink.
type Ring struct {
	level zapcore.LevelEnabler
	buf   *ringBuffer
	with  []zapcore.Field
}

type ringBuffer struct {
	mu      sync.Mutex
	entries []LogEntry
	next    int
	wrapped bool
	total   uint64
}

// NewRing возвращает кольцевой буфер на size записей.
func NewRing(size int, level zapcore.LevelEnabler) *Ring {
	if size <= 0 {
		size = 100
	}
	return &Ring{level: level, buf: &ringBuffer{entries: make([]LogEntry, size)}}
}

func (r *Ring) Enabled(l zapcore.Level) bool {
	return r.level.Enabled(l)
}

func (r *Ring) With(fields []zapcore.Field) zapcore.Core {
	merged := append(append([]zapcore.Field{}, r.with...), fields...)
	return &Ring{level: r.level, buf: r.buf, with: merged}
}

func (r *Ring) Check(entry zapcore.Entry, checked *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if r.Enabled(entry.Level) {
		return checked.AddCore(entry, r)
	}
	return checked
}

func (r *Ring) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	all := append(append([]zapcore.Field{}, r.with...), fields...)
	msg := stripColors(FormatMessage(entry.Message, all))
	if entry.Level >= zapcore.WarnLevel {
		if errText := extractField(all, "error"); errText != "" {
			msg += ": " + errText
		}
	}
	r.buf.add(LogEntry{Timestamp: entry.Time, Level: entry.Level, Message: msg})
	return nil
}

func (r *Ring) Sync() error { return nil }

// Recent returns up to limit entries, oldest first. A non-positive limit returns
// everything retained.
func (r *Ring) Recent(limit int) []LogEntry {
	return r.buf.recent(limit)
}

// Total is the number of entries ever written.
func (r *Ring) Total() uint64 {
	r.buf.mu.Lock()
	defer r.buf.mu.Unlock()
	return r.buf.total
}

func (b *ringBuffer) add(e LogEntry) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.entries[b.next] = e
	b.next = (b.next + 1) % len(b.entries)
	if b.next == 0 {
		b.wrapped = true
	}
	b.total++
}

func (b *ringBuffer) recent(limit int) []LogEntry {
	b.mu.Lock()
	defer b.mu.Unlock()

	count, start := b.next, 0
	if b.wrapped {
		count, start = len(b.entries), b.next
	}
	if limit > 0 && limit < count {
		start += count - limit
		count = limit
	}

	out := make([]LogEntry, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, b.entries[(start+i)%len(b.entries)])
	}
	return out
}

func stripColors(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\033' {
			for i < len(s) && s[i] != 'm' {
				i++
			}
			continue
		}
		out = append(out, s[i])
	}
	return string(out)
}
