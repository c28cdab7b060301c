package extraction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/sieve/pkg/trace"
)

func sampleTrace() *trace.Trace {
	return trace.FromInteractions(
		trace.Interaction{
			Inputs:  "What is the capital of France?",
			Outputs: map[string]any{"text": "Paris", "confidence": 0.9},
		},
		trace.Interaction{
			Inputs:   "And of Italy?",
			Outputs:  map[string]any{"text": "Rome", "confidence": 0.8},
			Metadata: map[string]any{"turn": 2},
		},
	)
}

func TestResolveOne_Last(t *testing.T) {
	got, err := ResolveOne(sampleTrace(), "trace.last.outputs.text")
	require.NoError(t, err)
	assert.Equal(t, "Rome", got)
}

func TestResolveOne_ByIndex(t *testing.T) {
	got, err := ResolveOne(sampleTrace(), "trace.interactions[0].outputs.text")
	require.NoError(t, err)
	assert.Equal(t, "Paris", got)
}

func TestResolveOne_Metadata(t *testing.T) {
	got, err := ResolveOne(sampleTrace(), "trace.last.metadata.turn")
	require.NoError(t, err)
	assert.Equal(t, 2, got)
}

func TestResolveOne_NotFound(t *testing.T) {
	_, err := ResolveOne(sampleTrace(), "trace.last.outputs.missing")

	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "trace.last.outputs.missing", notFound.Path)
}

func TestResolveOne_AmbiguousWildcard(t *testing.T) {
	_, err := ResolveOne(sampleTrace(), "trace.interactions[*].outputs.text")

	var ambiguous *AmbiguousError
	require.ErrorAs(t, err, &ambiguous)
	assert.Equal(t, 2, ambiguous.Count)
}

// The single-match wildcard case still counts as ambiguous: the expression
// can address more than one node, so a single-value check must reject it.
func TestResolveOne_AmbiguousWithOneMatch(t *testing.T) {
	tr := trace.FromInteractions(trace.Interaction{Inputs: "a", Outputs: "b"})

	_, err := ResolveOne(tr, "trace.interactions[*].outputs")

	var ambiguous *AmbiguousError
	assert.ErrorAs(t, err, &ambiguous)
}

func TestResolveOne_NotFoundAndAmbiguousAreDistinct(t *testing.T) {
	tr := sampleTrace()

	_, errMissing := ResolveOne(tr, "trace.last.nothing")
	_, errMany := ResolveOne(tr, "trace.interactions[*].inputs")

	var notFound *NotFoundError
	var ambiguous *AmbiguousError
	assert.ErrorAs(t, errMissing, &notFound)
	assert.NotErrorAs(t, errMissing, &ambiguous)
	assert.ErrorAs(t, errMany, &ambiguous)
	assert.NotErrorAs(t, errMany, &notFound)
}

func TestResolve_AllMatches(t *testing.T) {
	got, err := Resolve(sampleTrace(), "trace.interactions[*].outputs.text")
	require.NoError(t, err)
	assert.ElementsMatch(t, []any{"Paris", "Rome"}, got)
}

func TestResolve_EmptyTraceLast(t *testing.T) {
	_, err := Resolve(trace.New(), "trace.last.outputs")

	var notFound *NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestParse_RequiresTracePrefix(t *testing.T) {
	_, err := ResolveOne(sampleTrace(), "last.outputs")

	var pathErr *PathError
	require.ErrorAs(t, err, &pathErr)
	assert.Contains(t, pathErr.Error(), "trace.")
}

func TestParse_InvalidSyntax(t *testing.T) {
	_, err := ResolveOne(sampleTrace(), "trace.interactions[")

	var pathErr *PathError
	assert.ErrorAs(t, err, &pathErr)
}
