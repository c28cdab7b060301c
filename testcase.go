package sieve

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aretw0/sieve/pkg/check"
	"github.com/aretw0/sieve/pkg/component"
	"github.com/aretw0/sieve/pkg/interact"
	"github.com/aretw0/sieve/pkg/trace"
)

// TestCase is a degenerate scenario: one interaction spec followed by a set
// of checks, optionally repeated. Repetitions are independent runs, each
// starting from the seed trace (or an empty one) with its own run context —
// useful for probing non-deterministic systems.
type TestCase struct {
	Name    string
	Spec    interact.Spec
	Checks  []check.Check
	MaxRuns int          // number of repetitions; 0 means 1
	Seed    *trace.Trace // optional starting trace for every run
}

// TestCaseResult aggregates the outcomes of a test case's runs.
type TestCaseResult struct {
	Name    string
	Runs    []*Result
	Passed  int
	Failed  int
	Errored int
}

// AllPassed reports whether every run completed with all checks passing.
func (r *TestCaseResult) AllPassed() bool {
	return r.Passed == len(r.Runs) && len(r.Runs) > 0
}

// Durations returns the per-run durations in run order.
func (r *TestCaseResult) Durations() []time.Duration {
	out := make([]time.Duration, len(r.Runs))
	for i, run := range r.Runs {
		out[i] = run.Duration
	}
	return out
}

// Failures renders the non-passing checks of all runs as readable messages.
func (r *TestCaseResult) Failures() []string {
	var out []string
	for i, run := range r.Runs {
		for _, f := range run.Failures() {
			out = append(out, fmt.Sprintf("run %d: %s", i+1, f))
		}
	}
	return out
}

// Err returns nil when the test case passed, or an error summarizing every
// failure otherwise. Handy in Go tests:
//
//	if err := result.Err(); err != nil { t.Fatal(err) }
func (r *TestCaseResult) Err() error {
	if r.AllPassed() {
		return nil
	}
	return fmt.Errorf("test case %q did not pass:\n%s", r.Name, strings.Join(r.Failures(), "\n"))
}

// Run executes the test case. Runs are sequential; a generation fault in
// any repetition aborts the whole test case with that fault.
func (tc *TestCase) Run(ctx context.Context, opts ...Option) (*TestCaseResult, error) {
	runner := NewRunner(opts...)

	runs := tc.MaxRuns
	if runs <= 0 {
		runs = 1
	}

	sequence := make([]component.Component, 0, 1+len(tc.Checks))
	sequence = append(sequence, tc.Spec)
	for _, c := range tc.Checks {
		sequence = append(sequence, c)
	}
	sc := NewScenario(tc.Name, sequence...)

	result := &TestCaseResult{Name: tc.Name}
	for i := 0; i < runs; i++ {
		seed := tc.Seed
		if seed == nil {
			seed = trace.New()
		}

		run, err := runner.RunWithTrace(ctx, sc, seed, component.NewContext())
		if err != nil {
			return result, err
		}

		result.Runs = append(result.Runs, run)
		switch {
		case run.Passed():
			result.Passed++
		case run.Errored():
			result.Errored++
		default:
			result.Failed++
		}
	}
	return result, nil
}
