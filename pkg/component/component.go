// Package component defines the polymorphic component model shared by
// interaction specs and checks, the kind-keyed registry that makes them
// serializable, and the mutable context scoped to a single run.
package component

// Component is anything that can be placed in a scenario sequence.
// Concrete types declare a unique kind discriminator used for registry
// lookup and serialization. Components carry no run-scoped mutable state of
// their own, so a single value is safely reusable across scenarios.
type Component interface {
	// Kind returns the discriminator identifying the concrete type.
	Kind() string
	// Name returns the optional human label for this component.
	Name() string
}

// Base carries the optional label shared by every component.
// Embed it (with a squash mapstructure tag) to satisfy the Name method.
type Base struct {
	Label string `json:"name,omitempty" mapstructure:"name,omitempty"`
}

// Name returns the component label.
func (b Base) Name() string { return b.Label }
