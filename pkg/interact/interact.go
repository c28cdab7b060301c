package interact

import (
	"context"

	"github.com/aretw0/sieve/pkg/component"
	"github.com/aretw0/sieve/pkg/trace"
)

func init() {
	component.MustRegister("interact", func() component.Component { return &Interact{} })
}

// Interact is the default interaction spec.
//
// Inputs and Outputs each accept:
//   - a static value: used as-is;
//   - a function (InputFunc / OutputFunc): invoked fresh per step;
//   - a StreamFactory (Values, or any func() ValueStream): each generation
//     derives a fresh stream yielding one value per step, receiving the
//     refreshed trace between steps;
//   - a bare ValueStream: consumed by its first generation only, for specs
//     built around a one-off stateful iterator.
//
// With no stream on either end, exactly one interaction is produced. With a
// stream, one interaction is produced per yield and inputs/outputs are
// paired positionally; mismatched stream lengths are an *ArityError.
//
// Only static endpoints survive serialization: an Interact carrying
// functions or streams is built programmatically and cannot round-trip
// through the registry.
type Interact struct {
	component.Base `mapstructure:",squash"`

	Inputs   any            `json:"inputs" mapstructure:"inputs"`
	Outputs  any            `json:"outputs,omitempty" mapstructure:"outputs,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty" mapstructure:"metadata,omitempty"`
}

func (s *Interact) Kind() string { return "interact" }

// Generate starts a fresh generation for this spec. Streaming endpoints are
// resolved here, so factory-backed specs restart from the first value.
func (s *Interact) Generate(ctx context.Context, tr *trace.Trace, rc *component.Context) Generation {
	return &interactGeneration{
		spec:      s,
		rc:        rc,
		inStream:  newStream(s.Inputs),
		outStream: newStream(s.Outputs),
	}
}

// newStream derives the per-generation stream for an endpoint, or nil when
// the endpoint does not stream.
func newStream(v any) ValueStream {
	switch t := v.(type) {
	case StreamFactory:
		return t()
	case func() ValueStream:
		return t()
	case ValueStream:
		return t
	}
	return nil
}

type interactGeneration struct {
	spec      *Interact
	rc        *component.Context
	inStream  ValueStream
	outStream ValueStream
	done      bool
}

func (g *interactGeneration) Next(ctx context.Context, tr *trace.Trace) (trace.Interaction, bool, error) {
	if g.done {
		return trace.Interaction{}, false, nil
	}
	if err := ctx.Err(); err != nil {
		return trace.Interaction{}, false, err
	}

	// Neither end streams: exactly one interaction.
	if g.inStream == nil && g.outStream == nil {
		g.done = true
		in, err := g.resolveInput(ctx, g.spec.Inputs, tr)
		if err != nil {
			return trace.Interaction{}, false, err
		}
		out, err := g.resolveOutput(ctx, g.spec.Outputs, in, tr)
		if err != nil {
			return trace.Interaction{}, false, err
		}
		return g.interaction(in, out), true, nil
	}

	// Input-driven streaming: the input stream decides the step count.
	if g.inStream != nil {
		in, ok, err := g.inStream.Next(ctx, tr)
		if err != nil {
			return trace.Interaction{}, false, err
		}
		if !ok {
			g.done = true
			if g.outStream != nil {
				// The output stream must be exhausted at the same step.
				if _, more, err := g.outStream.Next(ctx, tr); err != nil {
					return trace.Interaction{}, false, err
				} else if more {
					return trace.Interaction{}, false, &ArityError{
						Spec:   g.spec.Name(),
						Reason: "outputs stream yielded more steps than inputs stream",
					}
				}
			}
			return trace.Interaction{}, false, nil
		}

		var out any
		if g.outStream != nil {
			var more bool
			out, more, err = g.outStream.Next(ctx, tr)
			if err != nil {
				return trace.Interaction{}, false, err
			}
			if !more {
				return trace.Interaction{}, false, &ArityError{
					Spec:   g.spec.Name(),
					Reason: "inputs stream yielded more steps than outputs stream",
				}
			}
		} else {
			out, err = g.resolveOutput(ctx, g.spec.Outputs, in, tr)
			if err != nil {
				return trace.Interaction{}, false, err
			}
		}

		return g.interaction(in, out), true, nil
	}

	// Output-driven streaming: inputs resolved fresh per step.
	out, ok, err := g.outStream.Next(ctx, tr)
	if err != nil {
		return trace.Interaction{}, false, err
	}
	if !ok {
		g.done = true
		return trace.Interaction{}, false, nil
	}
	in, err := g.resolveInput(ctx, g.spec.Inputs, tr)
	if err != nil {
		return trace.Interaction{}, false, err
	}

	return g.interaction(in, out), true, nil
}

func (g *interactGeneration) resolveInput(ctx context.Context, v any, tr *trace.Trace) (any, error) {
	if fn, ok := v.(InputFunc); ok {
		return fn(ctx, tr, g.rc)
	}
	if fn, ok := v.(func(ctx context.Context, tr *trace.Trace, rc *component.Context) (any, error)); ok {
		return fn(ctx, tr, g.rc)
	}
	return v, nil
}

func (g *interactGeneration) resolveOutput(ctx context.Context, v any, in any, tr *trace.Trace) (any, error) {
	if fn, ok := v.(OutputFunc); ok {
		return fn(ctx, in, tr, g.rc)
	}
	if fn, ok := v.(func(ctx context.Context, inputs any, tr *trace.Trace, rc *component.Context) (any, error)); ok {
		return fn(ctx, in, tr, g.rc)
	}
	return v, nil
}

func (g *interactGeneration) interaction(in, out any) trace.Interaction {
	return trace.Interaction{
		Inputs:   in,
		Outputs:  out,
		Metadata: g.spec.Metadata,
	}
}
