package intercept

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/roach88/reporter/internal/logging"
)

type registered struct {
	patch   Patch
	matched bool
}

// Interceptor holds registered patches and applies them to module sources.
//
// Thread-safety: Interceptor is safe for concurrent use.
type Interceptor struct {
	mu      sync.Mutex
	patches []*registered
	logger  *slog.Logger
}

// Option configures an Interceptor.
type Option func(*Interceptor)

// WithLogger sets the logger for rewrite progress.
func WithLogger(logger *slog.Logger) Option {
	return func(i *Interceptor) {
		i.logger = logger
	}
}

// New creates an empty interceptor.
func New(opts ...Option) *Interceptor {
	i := &Interceptor{logger: logging.Discard()}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// AddPatch implements Registry.
func (i *Interceptor) AddPatch(p Patch) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("add patch: %w", err)
	}

	i.mu.Lock()
	defer i.mu.Unlock()
	i.patches = append(i.patches, &registered{patch: p})
	return nil
}

// Rewrite applies every patch whose Find occurs in source and returns the
// rewritten source. Each replacement rewrites its first match only.
//
// A patch counts as matched as soon as its Find selects a module, even if
// none of its replacements change anything.
func (i *Interceptor) Rewrite(moduleID, source string) string {
	i.mu.Lock()
	defer i.mu.Unlock()

	for _, r := range i.patches {
		if !strings.Contains(source, r.patch.Find) {
			continue
		}
		r.matched = true

		for n, rep := range r.patch.Replacements {
			out, ok := replaceFirst(rep.Match, source, rep.Replace)
			if !ok {
				i.logger.Debug("replacement had no effect",
					"module", moduleID,
					"owner", r.patch.Owner,
					"replacement", n,
				)
				continue
			}
			source = out
		}
		i.logger.Debug("patched module", "module", moduleID, "owner", r.patch.Owner)
	}
	return source
}

// Records returns every registered patch in registration order.
func (i *Interceptor) Records() []PatchRecord {
	i.mu.Lock()
	defer i.mu.Unlock()

	out := make([]PatchRecord, len(i.patches))
	for n, r := range i.patches {
		out[n] = PatchRecord{
			Owner:            r.patch.Owner,
			Find:             r.patch.Find,
			MatchedAnyModule: r.matched,
		}
	}
	return out
}

// Unmatched returns the patches that never selected a module, in
// registration order.
func (i *Interceptor) Unmatched() []PatchRecord {
	var out []PatchRecord
	for _, r := range i.Records() {
		if !r.MatchedAnyModule {
			out = append(out, r)
		}
	}
	return out
}

// Len returns the number of registered patches.
func (i *Interceptor) Len() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return len(i.patches)
}
