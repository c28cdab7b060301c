package check

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/sieve/pkg/component"
	"github.com/aretw0/sieve/pkg/ports"
)

func staticJudge(passed bool, reason string) ports.Generator {
	return ports.GeneratorFunc(func(ctx context.Context, req ports.CompletionRequest) (*ports.CompletionReply, error) {
		return &ports.CompletionReply{
			Value: map[string]any{"passed": passed, "reason": reason},
		}, nil
	})
}

func TestJudge_Pass(t *testing.T) {
	c := (&Judge{Rubric: "The answer must be polite."}).WithGenerator(staticJudge(true, "polite enough"))

	res, err := c.Run(context.Background(), singleTurn("Hi there!"), component.NewContext())
	require.NoError(t, err)
	assert.Equal(t, StatusPassed, res.Status)
	assert.Equal(t, "polite enough", res.Message)
}

func TestJudge_Fail(t *testing.T) {
	c := (&Judge{Rubric: "The answer must be polite."}).WithGenerator(staticJudge(false, "rude"))

	res, err := c.Run(context.Background(), singleTurn("Go away."), component.NewContext())
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, res.Status)
	assert.Equal(t, "rude", res.Message)
}

func TestJudge_PromptCarriesRubricAndTranscript(t *testing.T) {
	var captured ports.CompletionRequest
	gen := ports.GeneratorFunc(func(ctx context.Context, req ports.CompletionRequest) (*ports.CompletionReply, error) {
		captured = req
		return &ports.CompletionReply{Value: map[string]any{"passed": true}}, nil
	})

	c := (&Judge{Rubric: "Mentions Paris."}).WithGenerator(gen)
	_, err := c.Run(context.Background(), singleTurn("Paris is the capital."), component.NewContext())
	require.NoError(t, err)

	require.Len(t, captured.Messages, 2)
	assert.Contains(t, captured.Messages[1].Content, "Mentions Paris.")
	assert.Contains(t, captured.Messages[1].Content, "Paris is the capital.")
	require.NotNil(t, captured.Schema)
}

func TestJudge_TextFallback(t *testing.T) {
	gen := ports.GeneratorFunc(func(ctx context.Context, req ports.CompletionRequest) (*ports.CompletionReply, error) {
		return &ports.CompletionReply{Text: `{"passed": true, "reason": "ok"}`}, nil
	})
	c := (&Judge{Rubric: "anything"}).WithGenerator(gen)

	res, err := c.Run(context.Background(), singleTurn("x"), component.NewContext())
	require.NoError(t, err)
	assert.Equal(t, StatusPassed, res.Status)
}

func TestJudge_UnparseableReply(t *testing.T) {
	gen := ports.GeneratorFunc(func(ctx context.Context, req ports.CompletionRequest) (*ports.CompletionReply, error) {
		return &ports.CompletionReply{Text: "definitely not json"}, nil
	})
	c := (&Judge{Rubric: "anything"}).WithGenerator(gen)

	res, err := c.Run(context.Background(), singleTurn("x"), component.NewContext())
	require.NoError(t, err)
	assert.Equal(t, StatusErrored, res.Status)
}

// Generator faults are returned as errors so the runner can capture them.
func TestJudge_GeneratorFault(t *testing.T) {
	gen := ports.GeneratorFunc(func(ctx context.Context, req ports.CompletionRequest) (*ports.CompletionReply, error) {
		return nil, errors.New("rate limited")
	})
	c := (&Judge{Rubric: "anything"}).WithGenerator(gen)

	_, err := c.Run(context.Background(), singleTurn("x"), component.NewContext())
	assert.ErrorContains(t, err, "rate limited")
}

func TestJudge_NoGeneratorConfigured(t *testing.T) {
	SetDefaultGenerator(nil)
	c := &Judge{Rubric: "anything"}

	res, err := c.Run(context.Background(), singleTurn("x"), component.NewContext())
	require.NoError(t, err)
	assert.Equal(t, StatusErrored, res.Status)
}

func TestJudge_DefaultGenerator(t *testing.T) {
	SetDefaultGenerator(staticJudge(true, "ok"))
	t.Cleanup(func() { SetDefaultGenerator(nil) })

	c := &Judge{Rubric: "anything"}
	res, err := c.Run(context.Background(), singleTurn("x"), component.NewContext())
	require.NoError(t, err)
	assert.Equal(t, StatusPassed, res.Status)
}
