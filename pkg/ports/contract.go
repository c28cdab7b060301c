package ports

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunResultStoreContract exercises the ResultStore behavior every adapter
// must satisfy. Adapter test suites call it against a fresh store.
func RunResultStoreContract(t *testing.T, store ResultStore) {
	t.Helper()
	ctx := context.Background()

	t.Run("load missing", func(t *testing.T) {
		_, err := store.Load(ctx, "no-such-run")
		assert.ErrorIs(t, err, ErrResultNotFound)
	})

	t.Run("save and load", func(t *testing.T) {
		in := StoredResult{
			RunID:    "run-1",
			Scenario: "greeting",
			Document: []byte(`{"state":"completed"}`),
		}
		require.NoError(t, store.Save(ctx, in))

		out, err := store.Load(ctx, "run-1")
		require.NoError(t, err)
		assert.Equal(t, in, out)
	})

	t.Run("save overwrites", func(t *testing.T) {
		first := StoredResult{RunID: "run-2", Scenario: "a", Document: []byte(`1`)}
		second := StoredResult{RunID: "run-2", Scenario: "b", Document: []byte(`2`)}
		require.NoError(t, store.Save(ctx, first))
		require.NoError(t, store.Save(ctx, second))

		out, err := store.Load(ctx, "run-2")
		require.NoError(t, err)
		assert.Equal(t, second, out)
	})

	t.Run("list", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, StoredResult{RunID: "run-3", Scenario: "c", Document: []byte(`3`)}))

		ids, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, ids, "run-1")
		assert.Contains(t, ids, "run-2")
		assert.Contains(t, ids, "run-3")
	})

	t.Run("loaded document is isolated", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, StoredResult{RunID: "run-4", Scenario: "d", Document: []byte(`{"k":1}`)}))

		out, err := store.Load(ctx, "run-4")
		require.NoError(t, err)
		out.Document[0] = 'X'

		again, err := store.Load(ctx, "run-4")
		require.NoError(t, err)
		assert.Equal(t, byte('{'), again.Document[0])
	})
}
