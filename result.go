package sieve

import (
	"fmt"
	"time"

	"github.com/aretw0/sieve/pkg/check"
	"github.com/aretw0/sieve/pkg/component"
	"github.com/aretw0/sieve/pkg/trace"
)

// State is the lifecycle state of a scenario run.
type State string

const (
	// StatePending is the state before the runner starts.
	StatePending State = "pending"
	// StateRunning is the state while components execute.
	StateRunning State = "running"
	// StateCompleted means the sequence was exhausted and every check passed.
	StateCompleted State = "completed"
	// StateHalted means a check failed and the remaining components were skipped.
	StateHalted State = "halted"
	// StateErrored means a check errored (or faulted) and the remaining
	// components were skipped.
	StateErrored State = "errored"
)

// CheckRecord is the recorded outcome of one check position in the
// sequence, including checks that were skipped after an early stop.
type CheckRecord struct {
	Kind   string       `json:"kind"`
	Name   string       `json:"name,omitempty"`
	Result check.Result `json:"result"`
}

// Result is the aggregate outcome of one scenario run.
//
// FinalTrace is the trace as grown up to the halt point; it is never rolled
// back, and after cancellation it holds everything completed until then.
type Result struct {
	RunID      string             `json:"run_id"`
	Scenario   string             `json:"scenario"`
	State      State              `json:"state"`
	Checks     []CheckRecord      `json:"checks"`
	FinalTrace *trace.Trace       `json:"-"`
	Context    *component.Context `json:"-"`
	Duration   time.Duration      `json:"duration"`
}

// Passed reports whether every check passed and none errored.
func (r *Result) Passed() bool { return r.State == StateCompleted }

// Failed reports whether at least one check failed and none errored.
func (r *Result) Failed() bool { return r.State == StateHalted }

// Errored reports whether at least one check errored.
func (r *Result) Errored() bool { return r.State == StateErrored }

// Failures renders the non-passing check records as readable messages.
func (r *Result) Failures() []string {
	var out []string
	for _, rec := range r.Checks {
		if rec.Result.Failed() || rec.Result.Errored() {
			name := rec.Name
			if name == "" {
				name = rec.Kind
			}
			message := rec.Result.Message
			if message == "" {
				message = "no message provided"
			}
			out = append(out, fmt.Sprintf("%s %s: %s", name, rec.Result.Status, message))
		}
	}
	return out
}

// Document renders the result as a plain serializable structure, including
// the final trace.
func (r *Result) Document() map[string]any {
	checks := make([]any, len(r.Checks))
	for i, rec := range r.Checks {
		entry := map[string]any{
			"kind":   rec.Kind,
			"result": rec.Result,
		}
		if rec.Name != "" {
			entry["name"] = rec.Name
		}
		checks[i] = entry
	}

	doc := map[string]any{
		"run_id":      r.RunID,
		"scenario":    r.Scenario,
		"state":       string(r.State),
		"checks":      checks,
		"duration_ms": r.Duration.Milliseconds(),
	}
	for k, v := range r.FinalTrace.Document() {
		doc[k] = v
	}
	return doc
}

// RunError wraps a fault raised during interaction generation (or a
// cancellation) and carries the partial result accumulated up to that
// point. Check faults never produce a RunError; they are captured as
// errored check results instead.
type RunError struct {
	Component string
	Partial   *Result
	Err       error
}

func (e *RunError) Error() string {
	return fmt.Sprintf("scenario %q: component %q: %v", e.Partial.Scenario, e.Component, e.Err)
}

func (e *RunError) Unwrap() error { return e.Err }
