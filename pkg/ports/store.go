package ports

import (
	"context"
	"errors"
)

// ErrResultNotFound is returned by stores when no result exists for an ID.
var ErrResultNotFound = errors.New("result not found")

// StoredResult is the persisted form of a scenario outcome. Stores treat it
// as an opaque document keyed by run ID.
type StoredResult struct {
	RunID    string `json:"run_id"`
	Scenario string `json:"scenario"`
	Document []byte `json:"document"`
}

// ResultStore persists scenario results for later inspection. Persistence is
// an embedding concern; the runner itself never requires a store.
type ResultStore interface {
	Save(ctx context.Context, result StoredResult) error
	Load(ctx context.Context, runID string) (StoredResult, error)
	List(ctx context.Context) ([]string, error)
}
