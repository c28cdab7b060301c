package check

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aretw0/sieve/pkg/component"
	"github.com/aretw0/sieve/pkg/ports"
	"github.com/aretw0/sieve/pkg/trace"
)

func init() {
	component.MustRegister("judge", func() component.Component { return &Judge{} })
}

const judgeSystemPrompt = `You are a strict evaluator of conversations with an AI system.
Judge the conversation transcript against the rubric. Reply with a JSON object
of the form {"passed": <bool>, "reason": "<short explanation>"} and nothing else.`

// Judge asks an LLM to evaluate the trace against a rubric.
//
// The generator is an external collaborator (see ports.Generator); it is not
// part of the serialized payload. When no generator is set on the check, the
// process-wide default from SetDefaultGenerator is used.
type Judge struct {
	component.Base `mapstructure:",squash"`

	// Rubric states what the transcript must satisfy, in plain language.
	Rubric string `json:"rubric" mapstructure:"rubric"`

	generator ports.Generator
}

func (c *Judge) Kind() string { return "judge" }

// WithGenerator returns a copy of the check bound to a specific generator.
func (c *Judge) WithGenerator(g ports.Generator) *Judge {
	bound := *c
	bound.generator = g
	return &bound
}

func (c *Judge) Run(ctx context.Context, tr *trace.Trace, rc *component.Context) (Result, error) {
	gen := c.generator
	if gen == nil {
		gen = DefaultGenerator()
	}
	if gen == nil {
		return Error("no generator configured for judge check"), nil
	}
	if c.Rubric == "" {
		return Error("judge check requires a rubric"), nil
	}

	reply, err := gen.Complete(ctx, ports.CompletionRequest{
		Messages: []ports.Message{
			{Role: "system", Content: judgeSystemPrompt},
			{Role: "user", Content: fmt.Sprintf("Rubric:\n%s\n\nTranscript:\n%s", c.Rubric, transcript(tr))},
		},
		Schema: &ports.OutputSchema{
			Name: "verdict",
			Properties: map[string]any{
				"passed": "boolean",
				"reason": "string",
			},
		},
	})
	if err != nil {
		// Generator faults surface to the runner, which records them as
		// errored results.
		return Result{}, fmt.Errorf("judge completion: %w", err)
	}

	verdict, err := parseVerdict(reply)
	if err != nil {
		return Error(fmt.Sprintf("unparseable judge reply: %v", err),
			WithDetails(map[string]any{"reply": reply.Text})), nil
	}

	details := map[string]any{"reason": verdict.Reason, "rubric": c.Rubric}
	if verdict.Passed {
		return Pass(verdict.Reason, WithDetails(details)), nil
	}
	return Fail(verdict.Reason, WithDetails(details)), nil
}

type judgeVerdict struct {
	Passed bool   `json:"passed"`
	Reason string `json:"reason"`
}

func parseVerdict(reply *ports.CompletionReply) (judgeVerdict, error) {
	if reply.Value != nil {
		passed, ok := reply.Value["passed"].(bool)
		if !ok {
			return judgeVerdict{}, fmt.Errorf("structured reply has no boolean 'passed' field")
		}
		reason, _ := reply.Value["reason"].(string)
		return judgeVerdict{Passed: passed, Reason: reason}, nil
	}

	var verdict judgeVerdict
	if err := json.Unmarshal([]byte(strings.TrimSpace(reply.Text)), &verdict); err != nil {
		return judgeVerdict{}, err
	}
	return verdict, nil
}

// transcript renders the trace as a plain exchange log for the judge prompt.
func transcript(tr *trace.Trace) string {
	var b strings.Builder
	for i, in := range tr.Interactions() {
		fmt.Fprintf(&b, "[%d] user: %s\n", i+1, renderValue(in.Inputs))
		fmt.Fprintf(&b, "[%d] system: %s\n", i+1, renderValue(in.Outputs))
	}
	return b.String()
}

func renderValue(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(raw)
}
