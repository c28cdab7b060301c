// Package interact defines the interaction-generation protocol of the
// scenario engine and its default spec, Interact.
//
// A spec produces one or more interactions for a position in a scenario
// sequence. The protocol is bidirectional: after each yielded interaction is
// appended to the shared trace, the refreshed trace is handed back to the
// producer before the next step is computed, so multi-turn specs can react
// to what the system actually answered.
package interact

import (
	"context"
	"fmt"

	"github.com/aretw0/sieve/pkg/component"
	"github.com/aretw0/sieve/pkg/trace"
)

// Spec produces interactions for one position in a scenario sequence.
type Spec interface {
	component.Component
	// Generate starts a fresh generation. Generations are finite and not
	// restartable; call Generate again for a new sequence.
	Generate(ctx context.Context, tr *trace.Trace, rc *component.Context) Generation
}

// Generation is one in-flight production of interactions, modeled as an
// explicit step machine.
//
// The trace passed to Next reflects every interaction appended so far,
// including the one this generation yielded on the previous call. Next
// returns ok=false once the generation is exhausted; the runner appends each
// yielded interaction to the trace before calling Next again.
type Generation interface {
	Next(ctx context.Context, tr *trace.Trace) (trace.Interaction, bool, error)
}

// ArityError reports a generation whose step counts do not line up: paired
// input/output streams of different lengths, or a generation that yielded no
// interaction at all.
type ArityError struct {
	Spec   string
	Reason string
}

func (e *ArityError) Error() string {
	return fmt.Sprintf("interaction spec %q: %s", e.Spec, e.Reason)
}

// ValueStream is a generator of endpoint values following the bidirectional
// protocol: each Next receives the trace refreshed with the previously
// produced interaction.
type ValueStream interface {
	Next(ctx context.Context, tr *trace.Trace) (any, bool, error)
}

// StreamFunc adapts a function to the ValueStream interface.
type StreamFunc func(ctx context.Context, tr *trace.Trace) (any, bool, error)

func (f StreamFunc) Next(ctx context.Context, tr *trace.Trace) (any, bool, error) {
	return f(ctx, tr)
}

// StreamFactory produces a fresh ValueStream. Streaming endpoints are given
// as factories so a spec stays reusable: every generation derives its own
// stream and starts the sequence from the beginning.
type StreamFactory func() ValueStream

// Values returns a stream factory yielding the given values in order.
func Values(values ...any) StreamFactory {
	return func() ValueStream {
		i := 0
		return StreamFunc(func(ctx context.Context, tr *trace.Trace) (any, bool, error) {
			if i >= len(values) {
				return nil, false, nil
			}
			v := values[i]
			i++
			return v, true, nil
		})
	}
}

// InputFunc computes an interaction input from the trace so far.
type InputFunc func(ctx context.Context, tr *trace.Trace, rc *component.Context) (any, error)

// OutputFunc computes an interaction output from the freshly produced input
// and the trace so far. This is where a live system under test is usually
// called.
type OutputFunc func(ctx context.Context, inputs any, tr *trace.Trace, rc *component.Context) (any, error)
