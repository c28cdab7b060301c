package sieve

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/aretw0/sieve/pkg/check"
	"github.com/aretw0/sieve/pkg/component"
	"github.com/aretw0/sieve/pkg/interact"
	"github.com/aretw0/sieve/pkg/trace"
)

// Runner executes scenarios. It holds no run-scoped state: a single Runner
// is safe to use from any number of goroutines, each run owning its own
// trace and run context.
type Runner struct {
	logger *slog.Logger
	hooks  Hooks
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the structured logger used by the runner.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithHooks registers observability callbacks.
func WithHooks(hooks Hooks) Option {
	return func(r *Runner) {
		r.hooks = hooks
	}
}

// NewRunner creates a runner. Without options it logs nowhere.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		logger: slog.New(slog.NewJSONHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes the scenario from an empty trace and a fresh run context.
func (r *Runner) Run(ctx context.Context, sc *Scenario) (*Result, error) {
	return r.RunWithTrace(ctx, sc, trace.NewWithAnnotations(sc.Annotations), component.NewContext())
}

// RunWithTrace executes the scenario starting from a pre-seeded trace and
// run context.
//
// Components execute strictly in order. Interaction specs grow the trace,
// each generated interaction appended before the next generation step runs.
// Checks validate the current trace; the first failed check halts the run,
// the first errored check (including captured faults) stops it as errored,
// and the remaining checks are recorded as skipped. Faults raised during
// interaction generation (and cancellation) abort the run with a *RunError
// carrying the partial result; the trace inside it is valid up to the last
// fully appended interaction.
func (r *Runner) RunWithTrace(ctx context.Context, sc *Scenario, tr *trace.Trace, rc *component.Context) (*Result, error) {
	start := time.Now()
	runID := uuid.NewString()
	logger := r.logger.With("scenario", sc.Name, "run_id", runID)

	state := StateRunning
	logger.Debug("scenario starting", "components", len(sc.Sequence))
	if r.hooks.OnScenarioStart != nil {
		r.hooks.OnScenarioStart(ctx, sc.Name, runID)
	}

	result := &Result{
		RunID:    runID,
		Scenario: sc.Name,
		State:    state,
		Context:  rc,
	}
	finish := func(state State) *Result {
		result.State = state
		result.FinalTrace = tr
		result.Duration = time.Since(start)
		logger.Debug("scenario finished", "state", state, "interactions", tr.Len(), "duration", result.Duration)
		if r.hooks.OnScenarioEnd != nil {
			r.hooks.OnScenarioEnd(ctx, result)
		}
		return result
	}
	abort := func(position int, c component.Component, err error) (*Result, error) {
		return nil, &RunError{
			Component: componentLabel(c),
			Partial:   finish(StateErrored),
			Err:       fmt.Errorf("sequence position %d: %w", position, err),
		}
	}

	for i := 0; i < len(sc.Sequence); i++ {
		c := sc.Sequence[i]

		if err := ctx.Err(); err != nil {
			// Completed-until-cancelled: the trace keeps everything
			// appended so far.
			return abort(i, c, err)
		}

		switch cm := c.(type) {
		case interact.Spec:
			grown, err := r.drive(ctx, sc.Name, cm, tr, rc, logger)
			if err != nil {
				tr = grown
				return abort(i, c, err)
			}
			tr = grown

		case check.Check:
			record := r.runCheck(ctx, cm, tr, rc, logger)
			if isCancellation(ctx, record) {
				return abort(i, c, ctx.Err())
			}
			result.Checks = append(result.Checks, record)
			if r.hooks.OnCheck != nil {
				r.hooks.OnCheck(ctx, sc.Name, record)
			}

			if record.Result.Failed() {
				result.Checks = append(result.Checks, r.skipRemaining(ctx, sc, i+1)...)
				return finish(StateHalted), nil
			}
			if record.Result.Errored() {
				result.Checks = append(result.Checks, r.skipRemaining(ctx, sc, i+1)...)
				return finish(StateErrored), nil
			}

		default:
			return abort(i, c, fmt.Errorf("component kind %q is neither an interaction spec nor a check", c.Kind()))
		}
	}

	return finish(StateCompleted), nil
}

// drive runs one generation to completion, appending every yielded
// interaction to the trace before computing the next step. The returned
// trace is valid even when an error is returned.
func (r *Runner) drive(ctx context.Context, scenario string, spec interact.Spec, tr *trace.Trace, rc *component.Context, logger *slog.Logger) (*trace.Trace, error) {
	gen := spec.Generate(ctx, tr, rc)
	count := 0
	for {
		in, ok, err := gen.Next(ctx, tr)
		if err != nil {
			return tr, err
		}
		if !ok {
			break
		}
		tr = tr.Append(in)
		count++
		logger.Debug("interaction recorded", "spec", componentLabel(spec), "total", tr.Len())
		if r.hooks.OnInteraction != nil {
			r.hooks.OnInteraction(ctx, scenario, in)
		}
	}
	if count == 0 {
		return tr, &interact.ArityError{Spec: componentLabel(spec), Reason: "generation yielded no interactions"}
	}
	return tr, nil
}

// runCheck invokes the check and captures any fault as an errored result so
// the raw fault never crosses the runner boundary.
func (r *Runner) runCheck(ctx context.Context, cm check.Check, tr *trace.Trace, rc *component.Context, logger *slog.Logger) CheckRecord {
	res, err := cm.Run(ctx, tr, rc)
	if err != nil {
		logger.Warn("check faulted", "check", componentLabel(cm), "err", err)
		res = check.Error(
			fmt.Sprintf("%v", err),
			check.WithDetails(map[string]any{"fault": fmt.Sprintf("%T", err)}),
		)
	}
	logger.Debug("check finished", "check", componentLabel(cm), "status", res.Status)
	return CheckRecord{Kind: cm.Kind(), Name: cm.Name(), Result: res}
}

// skipRemaining records a skipped result for every check after the halt
// position. The interaction specs among them never run.
func (r *Runner) skipRemaining(ctx context.Context, sc *Scenario, from int) []CheckRecord {
	var skipped []CheckRecord
	for _, c := range sc.Sequence[from:] {
		cm, ok := c.(check.Check)
		if !ok {
			continue
		}
		record := CheckRecord{
			Kind:   cm.Kind(),
			Name:   cm.Name(),
			Result: check.Skip("skipped: an earlier check did not pass"),
		}
		skipped = append(skipped, record)
		if r.hooks.OnCheck != nil {
			r.hooks.OnCheck(ctx, sc.Name, record)
		}
	}
	return skipped
}

// isCancellation tells a captured fault apart from the calling context being
// cancelled: cancellation propagates outward instead of becoming an errored
// check result.
func isCancellation(ctx context.Context, record CheckRecord) bool {
	if ctx.Err() == nil {
		return false
	}
	return record.Result.Errored() &&
		(errors.Is(ctx.Err(), context.Canceled) || errors.Is(ctx.Err(), context.DeadlineExceeded))
}

func componentLabel(c component.Component) string {
	if c.Name() != "" {
		return c.Name()
	}
	return c.Kind()
}
