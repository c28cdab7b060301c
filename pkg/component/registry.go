package component

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"sync"

	"github.com/mitchellh/mapstructure"
)

// AllowDuplicateKindsEnv disables kind uniqueness enforcement on the default
// registry when set to a true value. Later registrations then win, with a
// warning logged.
const AllowDuplicateKindsEnv = "SIEVE_ALLOW_DUPLICATE_KINDS"

// Factory creates a zero value of a concrete component type, ready to be
// populated from a payload.
type Factory func() Component

// Registry maps kind discriminators to component factories.
// Registrations are expected to happen at package init, before any
// concurrent use; lookups are safe to race with the odd late registration.
type Registry struct {
	mu              sync.RWMutex
	factories       map[string]Factory
	allowDuplicates bool
	logger          *slog.Logger
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithAllowDuplicateKinds disables uniqueness enforcement: a duplicate
// registration overwrites the previous one and logs a warning.
func WithAllowDuplicateKinds(allow bool) RegistryOption {
	return func(r *Registry) {
		r.allowDuplicates = allow
	}
}

// WithLogger sets the logger used for duplicate-registration warnings.
func WithLogger(logger *slog.Logger) RegistryOption {
	return func(r *Registry) {
		r.logger = logger
	}
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		factories: make(map[string]Factory),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register binds a kind to a factory.
// Returns a *DuplicateKindError when the kind exists and uniqueness is
// enforced; otherwise the later registration wins and a warning is logged.
func (r *Registry) Register(kind string, factory Factory) error {
	if kind == "" {
		return fmt.Errorf("component kind must not be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[kind]; exists {
		if !r.allowDuplicates {
			return &DuplicateKindError{Kind: kind}
		}
		r.logger.Warn("overwriting component registration", "kind", kind)
	}
	r.factories[kind] = factory
	return nil
}

// MustRegister is Register, panicking on error. Intended for package init.
func (r *Registry) MustRegister(kind string, factory Factory) {
	if err := r.Register(kind, factory); err != nil {
		panic(err)
	}
}

// Lookup returns the factory bound to kind.
func (r *Registry) Lookup(kind string) (Factory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.factories[kind]
	return f, ok
}

// Kinds returns every registered discriminator.
func (r *Registry) Kinds() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	kinds := make([]string, 0, len(r.factories))
	for k := range r.factories {
		kinds = append(kinds, k)
	}
	return kinds
}

// Construct builds a component of the given kind from a payload.
// Returns an *UnknownKindError when the kind is not registered.
func (r *Registry) Construct(kind string, payload map[string]any) (Component, error) {
	factory, ok := r.Lookup(kind)
	if !ok {
		return nil, &UnknownKindError{Kind: kind}
	}

	c := factory()
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  c,
		TagName: "mapstructure",
	})
	if err != nil {
		return nil, fmt.Errorf("building decoder for kind %q: %w", kind, err)
	}

	// The discriminator is routing information, not component state.
	data := make(map[string]any, len(payload))
	for k, v := range payload {
		if k == "kind" {
			continue
		}
		data[k] = v
	}

	if err := decoder.Decode(data); err != nil {
		return nil, fmt.Errorf("decoding payload for kind %q: %w", kind, err)
	}
	return c, nil
}

// ConstructAny builds a component from a payload that carries its own kind.
func (r *Registry) ConstructAny(payload map[string]any) (Component, error) {
	rawKind, ok := payload["kind"]
	if !ok {
		return nil, fmt.Errorf("payload has no kind discriminator")
	}
	kind, ok := rawKind.(string)
	if !ok {
		return nil, fmt.Errorf("kind discriminator must be a string, got %T", rawKind)
	}
	return r.Construct(kind, payload)
}

// Serialize renders a component as a payload including its kind, so it can
// be reconstructed later without external type hints.
func Serialize(c Component) (map[string]any, error) {
	payload := make(map[string]any)
	if err := mapstructure.Decode(c, &payload); err != nil {
		return nil, fmt.Errorf("serializing component kind %q: %w", c.Kind(), err)
	}
	payload["kind"] = c.Kind()
	return payload, nil
}

var defaultRegistry = func() *Registry {
	allow, _ := strconv.ParseBool(os.Getenv(AllowDuplicateKindsEnv))
	return NewRegistry(WithAllowDuplicateKinds(allow))
}()

// Default returns the process-wide registry populated by package init calls.
func Default() *Registry {
	return defaultRegistry
}

// Register binds a kind on the default registry.
func Register(kind string, factory Factory) error {
	return defaultRegistry.Register(kind, factory)
}

// MustRegister binds a kind on the default registry, panicking on error.
// This is the registration entry point used from package init.
func MustRegister(kind string, factory Factory) {
	defaultRegistry.MustRegister(kind, factory)
}

// Construct builds a component of the given kind on the default registry.
func Construct(kind string, payload map[string]any) (Component, error) {
	return defaultRegistry.Construct(kind, payload)
}

// ConstructAny builds a component from a self-describing payload on the
// default registry.
func ConstructAny(payload map[string]any) (Component, error) {
	return defaultRegistry.ConstructAny(payload)
}
