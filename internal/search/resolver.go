package search

import (
	"context"
	"reflect"
	"sync"
)

// Resolver is the external module-lookup API.
//
// Arguments are passed through exactly as recorded; each method defines its
// own argument contract and reports violations as errors. A nil result with
// a nil error means "not found".
type Resolver interface {
	Find(args ...any) (any, error)
	FindByProps(args ...any) (any, error)
	FindByCode(args ...any) (any, error)
	FindStore(args ...any) (any, error)
	FindComponentByCode(args ...any) (any, error)
	MapMangledModule(args ...any) (any, error)

	// ExtractAndLoadChunks suspends until the referenced chunks are loaded.
	// A literal false result means "definitely absent".
	ExtractAndLoadChunks(ctx context.Context, code, matcher any) (any, error)
}

// Factory is a zero-argument probe captured by the lazy entry points.
// Desc is its textual form in diagnostics.
type Factory struct {
	Desc string
	Fn   func() any
}

// String implements fmt.Stringer.
func (f Factory) String() string {
	return f.Desc
}

// LazyTarget is implemented by lazy proxy results. ResolveTarget is the
// liveness accessor: a nil return means the underlying target was never
// found, however non-nil the proxy itself looks.
type LazyTarget interface {
	ResolveTarget() any
}

// HasLivenessCheck reports whether v exposes a liveness accessor.
func HasLivenessCheck(v any) (LazyTarget, bool) {
	lt, ok := v.(LazyTarget)
	if !ok || isNil(v) {
		return nil, false
	}
	return lt, true
}

// Lazy is a lazy proxy around a factory. The factory is retried until it
// yields a non-nil value, which is then cached.
type Lazy struct {
	mu      sync.Mutex
	desc    string
	factory func() any
	value   any
}

// NewLazy creates a lazy proxy. desc is used for its textual form.
func NewLazy(desc string, factory func() any) *Lazy {
	return &Lazy{desc: desc, factory: factory}
}

// ResolveTarget implements LazyTarget.
func (l *Lazy) ResolveTarget() any {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !isNil(l.value) {
		return l.value
	}
	v := l.factory()
	if !isNil(v) {
		l.value = v
	}
	return v
}

// String implements fmt.Stringer.
func (l *Lazy) String() string {
	return l.desc
}

// isNil reports whether v is nil or a typed nil.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Interface, reflect.Chan:
		return rv.IsNil()
	default:
		return false
	}
}

// FactoryArg extracts a factory from args[i]. Both Factory and a bare
// func() any are accepted.
func FactoryArg(m Method, args []any, i int) (func() any, error) {
	if i >= len(args) {
		return nil, &ArgError{Method: m, Index: i, Want: "factory"}
	}
	switch f := args[i].(type) {
	case Factory:
		if f.Fn != nil {
			return f.Fn, nil
		}
	case *Factory:
		if f != nil && f.Fn != nil {
			return f.Fn, nil
		}
	case func() any:
		if f != nil {
			return f, nil
		}
	}
	return nil, &ArgError{Method: m, Index: i, Want: "factory", Got: args[i]}
}

// FilterArg extracts a Filter from args[i]. A bare func(any) bool is wrapped.
func FilterArg(m Method, args []any, i int) (Filter, error) {
	if i >= len(args) {
		return Filter{}, &ArgError{Method: m, Index: i, Want: "filter"}
	}
	switch f := args[i].(type) {
	case Filter:
		if f.match != nil {
			return f, nil
		}
	case func(any) bool:
		if f != nil {
			return NewFilter("[function]", f), nil
		}
	}
	return Filter{}, &ArgError{Method: m, Index: i, Want: "filter", Got: args[i]}
}

// StringArg extracts a string from args[i].
func StringArg(m Method, args []any, i int) (string, error) {
	if i >= len(args) {
		return "", &ArgError{Method: m, Index: i, Want: "string"}
	}
	s, ok := args[i].(string)
	if !ok {
		return "", &ArgError{Method: m, Index: i, Want: "string", Got: args[i]}
	}
	return s, nil
}

// StringArgs requires every argument to be a string, and at least one.
func StringArgs(m Method, args []any) ([]string, error) {
	if len(args) == 0 {
		return nil, &ArgError{Method: m, Index: 0, Want: "string"}
	}
	out := make([]string, len(args))
	for i := range args {
		s, err := StringArg(m, args, i)
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}
