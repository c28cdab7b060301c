package sieve

import (
	"context"

	"github.com/aretw0/sieve/pkg/trace"
)

// Hooks are observability callbacks invoked by the runner. All fields are
// optional. Hooks run synchronously on the runner's goroutine and must not
// mutate the trace or the result.
type Hooks struct {
	OnScenarioStart func(ctx context.Context, scenario, runID string)
	OnInteraction   func(ctx context.Context, scenario string, in trace.Interaction)
	OnCheck         func(ctx context.Context, scenario string, record CheckRecord)
	OnScenarioEnd   func(ctx context.Context, result *Result)
}
