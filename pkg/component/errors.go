package component

import "fmt"

// UnknownKindError is returned when a payload references a kind that has not
// been registered.
type UnknownKindError struct {
	Kind string
}

func (e *UnknownKindError) Error() string {
	return fmt.Sprintf("unknown component kind %q (is the defining package imported?)", e.Kind)
}

// DuplicateKindError is returned at registration time when a kind is already
// taken and uniqueness enforcement is enabled.
type DuplicateKindError struct {
	Kind string
}

func (e *DuplicateKindError) Error() string {
	return fmt.Sprintf("component kind %q is already registered", e.Kind)
}
