// Package check defines the validation protocol of the scenario engine and
// its built-in checks. A check inspects the current trace and yields exactly
// one result; it never mutates the trace.
package check

import (
	"context"
	"fmt"

	"github.com/aretw0/sieve/pkg/component"
	"github.com/aretw0/sieve/pkg/extraction"
	"github.com/aretw0/sieve/pkg/trace"
)

// Check validates the current trace state.
//
// Run returns the check verdict. A non-nil error is a fault (a bug or an
// unavailable collaborator, not a verdict); the runner converts faults into
// errored results and never lets them escape. Checks that can classify their
// own problems (e.g. a path that matches nothing) return an errored Result
// directly instead.
type Check interface {
	component.Component
	Run(ctx context.Context, tr *trace.Trace, rc *component.Context) (Result, error)
}

// extract resolves a single-value path and classifies failures: an
// extraction problem indicates a malformed scenario, so it surfaces as an
// errored result rather than a failed one.
func extract(tr *trace.Trace, key string) (any, Result, bool) {
	value, err := extraction.ResolveOne(tr, key)
	if err != nil {
		return nil, Error(
			fmt.Sprintf("extraction failed: %v", err),
			WithDetails(map[string]any{"key": key}),
		), false
	}
	return value, Result{}, true
}
