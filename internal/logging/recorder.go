package logging

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// Entry is one captured log record, flattened.
type Entry struct {
	Level   slog.Level
	Message string
	Attrs   map[string]string
}

// Tag returns the entry's tag attribute, or "" for untagged records.
func (e Entry) Tag() string {
	return e.Attrs[TagKey]
}

// Line renders the entry as "LEVEL [tag] message".
func (e Entry) Line() string {
	return fmt.Sprintf("%s [%s] %s", e.Level, e.Tag(), e.Message)
}

type recordStore struct {
	mu      sync.Mutex
	entries []Entry
}

// Recorder is an slog.Handler that captures records in memory.
//
// Handlers derived through WithAttrs/WithGroup share the same store, so a
// logger tree built from one Recorder reports into a single ordered stream.
//
// Thread-safety: Recorder is safe for concurrent use.
type Recorder struct {
	store *recordStore
	attrs []slog.Attr
	group string
	level slog.Leveler
}

// NewRecorder creates a Recorder that keeps records at or above Info.
func NewRecorder() *Recorder {
	return NewRecorderAt(slog.LevelInfo)
}

// NewRecorderAt creates a Recorder with a custom minimum level.
func NewRecorderAt(level slog.Leveler) *Recorder {
	return &Recorder{store: &recordStore{}, level: level}
}

// Logger returns a logger backed by this recorder.
func (r *Recorder) Logger() *slog.Logger {
	return slog.New(r)
}

// Enabled implements slog.Handler.
func (r *Recorder) Enabled(_ context.Context, level slog.Level) bool {
	return level >= r.level.Level()
}

// Handle implements slog.Handler.
func (r *Recorder) Handle(_ context.Context, rec slog.Record) error {
	attrs := make(map[string]string, len(r.attrs)+rec.NumAttrs())
	for _, a := range r.attrs {
		attrs[a.Key] = a.Value.String()
	}
	rec.Attrs(func(a slog.Attr) bool {
		attrs[r.key(a.Key)] = a.Value.String()
		return true
	})

	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.entries = append(r.store.entries, Entry{
		Level:   rec.Level,
		Message: rec.Message,
		Attrs:   attrs,
	})
	return nil
}

// WithAttrs implements slog.Handler.
func (r *Recorder) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *r
	next.attrs = make([]slog.Attr, 0, len(r.attrs)+len(attrs))
	next.attrs = append(next.attrs, r.attrs...)
	for _, a := range attrs {
		next.attrs = append(next.attrs, slog.Attr{Key: r.key(a.Key), Value: a.Value})
	}
	return &next
}

// WithGroup implements slog.Handler. Group names prefix attribute keys.
func (r *Recorder) WithGroup(name string) slog.Handler {
	if name == "" {
		return r
	}
	next := *r
	next.group = r.key(name)
	return &next
}

func (r *Recorder) key(k string) string {
	if r.group == "" {
		return k
	}
	return r.group + "." + k
}

// Entries returns a copy of every captured record in arrival order.
func (r *Recorder) Entries() []Entry {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	out := make([]Entry, len(r.store.entries))
	copy(out, r.store.entries)
	return out
}

// Tagged returns only the diagnostic entries (those carrying a tag).
func (r *Recorder) Tagged() []Entry {
	var out []Entry
	for _, e := range r.Entries() {
		if e.Tag() != "" {
			out = append(out, e)
		}
	}
	return out
}

// Lines renders the diagnostic entries with Entry.Line.
func (r *Recorder) Lines() []string {
	tagged := r.Tagged()
	lines := make([]string, len(tagged))
	for i, e := range tagged {
		lines[i] = e.Line()
	}
	return lines
}

// Reset drops all captured records.
func (r *Recorder) Reset() {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.entries = nil
}
