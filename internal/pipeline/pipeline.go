package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/roach88/reporter/internal/chunks"
	"github.com/roach88/reporter/internal/hook"
	"github.com/roach88/reporter/internal/intercept"
	"github.com/roach88/reporter/internal/logging"
	"github.com/roach88/reporter/internal/report"
	"github.com/roach88/reporter/internal/search"
)

// Patches is the patch registry as seen by the pipeline.
type Patches interface {
	intercept.Registry
	Records() []intercept.PatchRecord
}

// HistorySource yields the recorded lookups in call order.
type HistorySource interface {
	Snapshot() []search.Record
}

// Config wires a pipeline to its host.
type Config struct {
	Patches   Patches
	Slots     *hook.Slots
	Scheduler chunks.Poster
	Loader    chunks.Loader
	Resolver  search.Resolver
	History   HistorySource

	// Logger receives diagnostic lines and debug progress.
	// Defaults to a discarding logger.
	Logger *slog.Logger

	// RunIDs defaults to UUIDv7Generator.
	RunIDs RunIDGenerator
}

func (c Config) validate() error {
	switch {
	case c.Patches == nil:
		return errors.New("pipeline: Patches is required")
	case c.Slots == nil:
		return errors.New("pipeline: Slots is required")
	case c.Scheduler == nil:
		return errors.New("pipeline: Scheduler is required")
	case c.Loader == nil:
		return errors.New("pipeline: Loader is required")
	case c.Resolver == nil:
		return errors.New("pipeline: Resolver is required")
	case c.History == nil:
		return errors.New("pipeline: History is required")
	}
	return nil
}

// Summary is what a finished run observed.
type Summary struct {
	RunID            string
	UnmatchedPatches []intercept.PatchRecord
	Outcomes         []search.Outcome
}

// Failures returns the failed lookups in replay order.
func (s Summary) Failures() []search.Outcome {
	return search.Failures(s.Outcomes)
}

// Pipeline is one reporter run. It is not reusable.
type Pipeline struct {
	cfg      Config
	runID    string
	logger   *slog.Logger
	reporter *report.Reporter
	coord    *chunks.Coordinator
	engine   *search.Engine

	started  atomic.Bool
	startErr error
}

// New creates a pipeline for one run.
func New(cfg Config) (*Pipeline, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Discard()
	}
	if cfg.RunIDs == nil {
		cfg.RunIDs = UUIDv7Generator{}
	}

	runID := cfg.RunIDs.Generate()
	logger := cfg.Logger.With(logging.RunKey, runID)

	return &Pipeline{
		cfg:      cfg,
		runID:    runID,
		logger:   logger,
		reporter: report.New(logger),
		coord:    chunks.NewCoordinator(cfg.Scheduler, cfg.Loader, chunks.WithLogger(logger)),
		engine:   search.NewEngine(cfg.Resolver, search.WithLogger(logger)),
	}, nil
}

// RunID returns the id attached to this run's lines.
func (p *Pipeline) RunID() string {
	return p.runID
}

// Coordinator exposes the chunk-load coordinator.
func (p *Pipeline) Coordinator() *chunks.Coordinator {
	return p.coord
}

// Start emits the start marker and installs the bootstrap hook. It must be
// called before the host boots. A failure is reported as the run's fatal
// line and returned again by Wait.
func (p *Pipeline) Start() error {
	if !p.started.CompareAndSwap(false, true) {
		return errors.New("pipeline already started")
	}

	p.reporter.Start()
	if err := InstallBootstrapHook(p.cfg.Patches, p.cfg.Slots, p.coord.Hook); err != nil {
		p.startErr = p.fatal(StageInject, err)
		return p.startErr
	}
	p.logger.Debug("bootstrap hook installed", "slot", HookName)
	return nil
}

// Wait suspends until lazy chunk loading completes, then reports unmatched
// patches and failed lookups.
//
// Wait returns a *FatalError if the run aborted, or ctx.Err() if the context
// ended first. Neither a completion marker nor a fatal line is emitted for a
// cancelled run.
func (p *Pipeline) Wait(ctx context.Context) (summary Summary, err error) {
	summary.RunID = p.runID

	if !p.started.Load() {
		return summary, ErrNotStarted
	}
	if p.startErr != nil {
		return summary, p.startErr
	}

	stage := StageWait
	defer func() {
		if r := recover(); r != nil {
			err = p.fatal(stage, fmt.Errorf("panic: %v", r))
		}
	}()

	if err := p.coord.Wait(ctx); err != nil {
		if ctx.Err() != nil {
			p.logger.Debug("run abandoned", "stage", string(stage), "error", ctx.Err())
			return summary, ctx.Err()
		}
		return summary, p.fatal(stage, err)
	}

	stage = StagePatch
	for _, rec := range p.cfg.Patches.Records() {
		if rec.MatchedAnyModule {
			continue
		}
		summary.UnmatchedPatches = append(summary.UnmatchedPatches, rec)
		p.reporter.UnmatchedPatch(rec)
	}

	stage = StageReplay
	history := p.cfg.History.Snapshot()
	p.logger.Debug("replaying search history", "records", len(history))

	outcomes, err := p.engine.Replay(ctx, history)
	summary.Outcomes = outcomes
	if err != nil {
		p.logger.Debug("run abandoned", "stage", string(stage), "error", err)
		return summary, err
	}
	for _, o := range search.Failures(outcomes) {
		p.reporter.SearchFailure(o)
	}

	p.reporter.Finished()
	return summary, nil
}

// Run is Start followed by Wait.
func (p *Pipeline) Run(ctx context.Context) (Summary, error) {
	if err := p.Start(); err != nil {
		return Summary{RunID: p.runID}, err
	}
	return p.Wait(ctx)
}

func (p *Pipeline) fatal(stage Stage, err error) error {
	fe := &FatalError{Stage: stage, Err: err}
	p.reporter.Fatal(fe)
	return fe
}
