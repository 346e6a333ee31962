package search

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roach88/reporter/internal/logging"
)

// Engine replays recorded lookups against a Resolver.
//
// Records are processed strictly in order and one at a time: resolvers may
// share a module cache, and diagnostics must follow the original call order.
type Engine struct {
	resolver Resolver
	logger   *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for per-record debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// NewEngine creates a replay engine over resolver.
func NewEngine(resolver Resolver, opts ...Option) *Engine {
	e := &Engine{
		resolver: resolver,
		logger:   logging.Discard(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Replay executes every record in order and returns one outcome per record.
//
// Per-record failures never stop the replay. The only early exit is context
// cancellation, which returns the outcomes gathered so far with ctx.Err().
// A record interrupted by cancellation is dropped, not classified.
func (e *Engine) Replay(ctx context.Context, history []Record) ([]Outcome, error) {
	outcomes := make([]Outcome, 0, len(history))
	for i, rec := range history {
		if err := ctx.Err(); err != nil {
			return outcomes, err
		}
		o := e.Execute(ctx, rec)
		if err := ctx.Err(); err != nil {
			e.logger.Debug("search interrupted", "type", string(rec.Type), "index", i)
			return outcomes, err
		}
		o.Index = i
		outcomes = append(outcomes, o)
	}
	return outcomes, nil
}

// Execute normalizes, dispatches and classifies a single record.
func (e *Engine) Execute(ctx context.Context, rec Record) Outcome {
	out := Outcome{Record: rec}

	method, err := Normalize(rec)
	out.Method = method
	if err != nil {
		out.Status = StatusErrored
		out.Err = err
		return out
	}

	e.logger.Debug("replaying search",
		"type", string(rec.Type),
		"method", method.String(),
		"args", len(rec.Args),
	)

	out.Status, out.Err = e.call(ctx, method, rec.Args)
	if out.Failed() {
		e.logger.Debug("search failed",
			"type", string(rec.Type),
			"status", out.Status.String(),
			"error", out.Err,
		)
	}
	return out
}

// call runs dispatch and classification under one recover, so a panic in a
// resolver, a factory or a liveness accessor is contained to this record.
func (e *Engine) call(ctx context.Context, method Method, args []any) (status Status, err error) {
	defer func() {
		if r := recover(); r != nil {
			status = StatusErrored
			err = &PanicError{Value: r}
		}
	}()

	result, err := e.dispatch(ctx, method, args)
	if err != nil {
		return StatusErrored, err
	}
	return classify(result), nil
}

func (e *Engine) dispatch(ctx context.Context, method Method, args []any) (any, error) {
	switch method {
	case MethodFind:
		return e.resolver.Find(args...)
	case MethodFindByProps:
		return e.resolver.FindByProps(args...)
	case MethodFindByCode:
		return e.resolver.FindByCode(args...)
	case MethodFindStore:
		return e.resolver.FindStore(args...)
	case MethodFindComponentByCode:
		return e.resolver.FindComponentByCode(args...)
	case MethodMapMangledModule:
		return e.resolver.MapMangledModule(args...)

	case MethodProxyLazy, MethodLazyComponent:
		factory, err := FactoryArg(method, args, 0)
		if err != nil {
			return nil, err
		}
		return factory(), nil

	case MethodExtractAndLoadChunks:
		var code, matcher any
		if len(args) > 0 {
			code = args[0]
		}
		if len(args) > 1 {
			matcher = args[1]
		}
		result, err := e.resolver.ExtractAndLoadChunks(ctx, code, matcher)
		if err != nil {
			return nil, err
		}
		if b, ok := result.(bool); ok && !b {
			result = nil
		}
		return result, nil

	}
	return nil, fmt.Errorf("dispatch: unhandled method %s", method)
}

// classify maps a resolver result onto a status.
func classify(result any) Status {
	if isNil(result) {
		return StatusNotFound
	}
	if lt, ok := HasLivenessCheck(result); ok && isNil(lt.ResolveTarget()) {
		return StatusNotFound
	}
	return StatusSuccess
}
