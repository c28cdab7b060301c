package sieve

import (
	"context"
	"fmt"

	"github.com/aretw0/sieve/pkg/check"
	"github.com/aretw0/sieve/pkg/component"
	"github.com/aretw0/sieve/pkg/interact"
)

// Scenario is an ordered sequence of components sharing one trace.
// Components carry no run-scoped state, so a scenario value can be run any
// number of times; each run owns a fresh trace and run context.
type Scenario struct {
	Name        string
	Sequence    []component.Component
	Annotations map[string]any
}

// NewScenario creates a scenario with an optional initial sequence.
func NewScenario(name string, components ...component.Component) *Scenario {
	return &Scenario{Name: name, Sequence: components}
}

// Append adds components to the end of the sequence.
func (s *Scenario) Append(components ...component.Component) *Scenario {
	s.Sequence = append(s.Sequence, components...)
	return s
}

// Interact appends a default interaction spec with the given endpoints.
// Endpoints follow the interact.Interact contract: static values, functions
// or value streams.
func (s *Scenario) Interact(inputs, outputs any) *Scenario {
	return s.Append(&interact.Interact{Inputs: inputs, Outputs: outputs})
}

// Check appends a check to the sequence.
func (s *Scenario) Check(c check.Check) *Scenario {
	return s.Append(c)
}

// Annotate attaches a scenario-level annotation, visible on the trace under
// "trace.annotations".
func (s *Scenario) Annotate(key string, value any) *Scenario {
	if s.Annotations == nil {
		s.Annotations = make(map[string]any)
	}
	s.Annotations[key] = value
	return s
}

// Run executes the scenario on a default runner.
func (s *Scenario) Run(ctx context.Context, opts ...Option) (*Result, error) {
	return NewRunner(opts...).Run(ctx, s)
}

// Document renders the scenario as a serializable document:
// {name, sequence: [component payloads...], annotations}. Components whose
// configuration is programmatic (functions, streams) do not serialize.
func (s *Scenario) Document() (map[string]any, error) {
	sequence := make([]any, len(s.Sequence))
	for i, c := range s.Sequence {
		payload, err := component.Serialize(c)
		if err != nil {
			return nil, fmt.Errorf("component %d: %w", i, err)
		}
		sequence[i] = payload
	}

	doc := map[string]any{
		"name":     s.Name,
		"sequence": sequence,
	}
	if len(s.Annotations) > 0 {
		doc["annotations"] = s.Annotations
	}
	return doc, nil
}

// ScenarioFromDocument rehydrates a scenario from a document produced by
// Document (or hand-written YAML/JSON), resolving component kinds against
// the given registry. Pass component.Default() for the process registry.
func ScenarioFromDocument(doc map[string]any, reg *component.Registry) (*Scenario, error) {
	name, _ := doc["name"].(string)
	if name == "" {
		return nil, fmt.Errorf("scenario document has no name")
	}

	rawSequence, ok := doc["sequence"].([]any)
	if !ok {
		return nil, fmt.Errorf("scenario %q: document has no sequence", name)
	}

	sc := NewScenario(name)
	if annotations, ok := doc["annotations"].(map[string]any); ok {
		sc.Annotations = annotations
	}

	for i, raw := range rawSequence {
		payload, ok := raw.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("scenario %q: sequence entry %d is %T, expected a mapping", name, i, raw)
		}
		c, err := reg.ConstructAny(payload)
		if err != nil {
			return nil, fmt.Errorf("scenario %q: sequence entry %d: %w", name, i, err)
		}
		sc.Append(c)
	}
	return sc, nil
}
