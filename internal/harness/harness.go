package harness

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/roach88/reporter/internal/hook"
	"github.com/roach88/reporter/internal/hostsim"
	"github.com/roach88/reporter/internal/intercept"
	"github.com/roach88/reporter/internal/logging"
	"github.com/roach88/reporter/internal/pipeline"
	"github.com/roach88/reporter/internal/scheduler"
	"github.com/roach88/reporter/internal/search"
)

// Option configures a scenario run.
type Option func(*options)

type options struct {
	logger *slog.Logger
}

// WithLogger sets the logger for host and pipeline debug progress.
// Diagnostic lines are always captured separately.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// Run executes a scenario and evaluates its expectations.
//
// Each scenario runs against a fresh host, interceptor, hook table and
// scheduler loop. An error is returned only when the scenario cannot be set
// up; a run that aborts or hangs is reported in the Result.
func Run(scenario *Scenario, opts ...Option) (*Result, error) {
	return RunContext(context.Background(), scenario, opts...)
}

// RunContext is Run with a parent context.
func RunContext(ctx context.Context, scenario *Scenario, opts ...Option) (*Result, error) {
	o := options{logger: logging.Discard()}
	for _, opt := range opts {
		opt(&o)
	}

	bundle, err := hostsim.LoadBundle(scenario.Bundle)
	if err != nil {
		return nil, fmt.Errorf("failed to load bundle: %w", err)
	}

	loop := scheduler.NewLoop(scheduler.WithLogger(o.logger))
	interceptor := intercept.New(intercept.WithLogger(o.logger))
	slots := hook.NewSlots()
	host := hostsim.New(bundle, loop, interceptor, slots, hostsim.WithLogger(o.logger))
	resolver := host.Resolver()

	if err := registerPatches(interceptor, scenario.Patches); err != nil {
		return nil, err
	}
	history, err := recordSearches(scenario.Searches, resolver)
	if err != nil {
		return nil, err
	}

	runID := scenario.RunID
	if runID == "" {
		runID = DefaultRunID
	}

	recorder := logging.NewRecorder()
	p, err := pipeline.New(pipeline.Config{
		Patches:   interceptor,
		Slots:     slots,
		Scheduler: loop,
		Loader:    host,
		Resolver:  resolver,
		History:   history,
		Logger:    slog.New(logging.Tee(recorder, o.logger.Handler())),
		RunIDs:    pipeline.NewFixedGenerator(runID),
	})
	if err != nil {
		return nil, err
	}

	result := NewResult()
	result.RunID = runID

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return loop.Run(gctx)
	})
	g.Go(func() error {
		defer loop.Stop()

		if err := p.Start(); err != nil {
			result.Fatal = err.Error()
			return nil
		}
		if err := host.Boot(); err != nil {
			return err
		}

		waitCtx, cancel := context.WithTimeout(gctx, time.Duration(scenario.Timeout())*time.Millisecond)
		defer cancel()

		summary, err := p.Wait(waitCtx)
		for _, rec := range summary.UnmatchedPatches {
			result.UnmatchedPatches = append(result.UnmatchedPatches, rec.Owner)
		}

		switch {
		case err == nil:
			result.Completed = true
			for _, f := range summary.Failures() {
				result.Failures = append(result.Failures, f.Diagnostic())
			}
		case pipeline.IsFatal(err):
			result.Fatal = err.Error()
		case errors.Is(err, context.DeadlineExceeded):
			o.logger.Debug("scenario did not complete", "scenario", scenario.Name, "timeout_ms", scenario.Timeout())
		default:
			return err
		}
		return nil
	})
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	result.Lines = recorder.Lines()
	for _, msg := range EvaluateExpectations(result, scenario.Expect) {
		result.AddError(msg)
	}
	return result, nil
}

func registerPatches(reg intercept.Registry, specs []PatchSpec) error {
	for i, spec := range specs {
		p := intercept.Patch{Owner: spec.Owner, Find: spec.Find}
		for j, r := range spec.Replacements {
			re, err := regexp.Compile(r.Match)
			if err != nil {
				return fmt.Errorf("patches[%d].replacements[%d]: %w", i, j, err)
			}
			p.Replacements = append(p.Replacements, intercept.Replacement{Match: re, Replace: r.Replace})
		}
		if err := reg.AddPatch(p); err != nil {
			return fmt.Errorf("patches[%d]: %w", i, err)
		}
	}
	return nil
}

func recordSearches(specs []SearchSpec, r search.Resolver) (*search.History, error) {
	history := search.NewHistory()
	for i, spec := range specs {
		args := make([]any, len(spec.Args))
		for j, a := range spec.Args {
			v, err := a.Build(r)
			if err != nil {
				return nil, fmt.Errorf("searches[%d].args[%d]: %w", i, j, err)
			}
			args[j] = v
		}
		history.Record(search.SearchType(spec.Type), args...)
	}
	return history, nil
}
