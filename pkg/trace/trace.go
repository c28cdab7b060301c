// Package trace holds the immutable interaction history shared by the
// components of a scenario run.
package trace

import (
	"errors"
	"fmt"
)

// ErrEmptyTrace is returned when the last interaction of an empty trace is requested.
var ErrEmptyTrace = errors.New("trace is empty")

// Interaction is one recorded exchange with the system under test.
// It is immutable once constructed; the owning Trace is the only holder
// allowed to reference it.
type Interaction struct {
	Inputs   any            `json:"inputs" mapstructure:"inputs"`
	Outputs  any            `json:"outputs,omitempty" mapstructure:"outputs"`
	Metadata map[string]any `json:"metadata,omitempty" mapstructure:"metadata"`
}

// Trace is an ordered, append-only sequence of interactions.
// Append returns a new Trace value; previously held references remain valid
// and never observe later growth.
type Trace struct {
	interactions []Interaction
	annotations  map[string]any
}

// New creates an empty trace.
func New() *Trace {
	return &Trace{}
}

// NewWithAnnotations creates an empty trace carrying scenario-level annotations.
func NewWithAnnotations(annotations map[string]any) *Trace {
	return &Trace{annotations: annotations}
}

// FromInteractions creates a pre-seeded trace.
func FromInteractions(interactions ...Interaction) *Trace {
	tr := New()
	for _, in := range interactions {
		tr = tr.Append(in)
	}
	return tr
}

// Append returns a new trace with the interaction added at the end.
// The receiver is not modified.
func (t *Trace) Append(in Interaction) *Trace {
	grown := make([]Interaction, len(t.interactions), len(t.interactions)+1)
	copy(grown, t.interactions)
	return &Trace{
		interactions: append(grown, in),
		annotations:  t.annotations,
	}
}

// Len returns the number of recorded interactions.
func (t *Trace) Len() int {
	return len(t.interactions)
}

// Last returns the most recent interaction.
// It returns ErrEmptyTrace when the trace has no interactions.
func (t *Trace) Last() (Interaction, error) {
	if len(t.interactions) == 0 {
		return Interaction{}, ErrEmptyTrace
	}
	return t.interactions[len(t.interactions)-1], nil
}

// At returns the interaction at the given index.
func (t *Trace) At(i int) (Interaction, error) {
	if i < 0 || i >= len(t.interactions) {
		return Interaction{}, fmt.Errorf("interaction index %d out of range (len %d)", i, len(t.interactions))
	}
	return t.interactions[i], nil
}

// Interactions returns a copy of the recorded interactions in order.
func (t *Trace) Interactions() []Interaction {
	out := make([]Interaction, len(t.interactions))
	copy(out, t.interactions)
	return out
}

// Annotations returns the scenario-level annotations attached to this trace.
func (t *Trace) Annotations() map[string]any {
	return t.annotations
}

// Document renders the trace as a plain data structure rooted at "trace",
// suitable for path extraction. "last" mirrors the final interaction, or is
// absent for an empty trace.
func (t *Trace) Document() map[string]any {
	interactions := make([]any, len(t.interactions))
	for i, in := range t.interactions {
		interactions[i] = in.document()
	}

	doc := map[string]any{
		"interactions": interactions,
	}
	if len(t.interactions) > 0 {
		doc["last"] = interactions[len(t.interactions)-1]
	}
	if t.annotations != nil {
		doc["annotations"] = t.annotations
	}

	return map[string]any{"trace": doc}
}

func (in Interaction) document() map[string]any {
	doc := map[string]any{
		"inputs":  in.Inputs,
		"outputs": in.Outputs,
	}
	if in.Metadata != nil {
		doc["metadata"] = in.Metadata
	}
	return doc
}
