package check

import (
	"context"
	"fmt"
	"reflect"

	"github.com/aretw0/sieve/pkg/component"
	"github.com/aretw0/sieve/pkg/trace"
)

func init() {
	component.MustRegister("equals", func() component.Component { return &Equals{} })
}

// Equals extracts a single value from the trace and compares it for deep
// equality against an expected value. The expected value is either given
// literally or extracted from the trace through a second path.
type Equals struct {
	component.Base `mapstructure:",squash"`

	// Key addresses the actual value, e.g. "trace.last.outputs".
	Key string `json:"key" mapstructure:"key"`
	// Expected is the literal expected value. Ignored when ExpectedKey is set.
	Expected any `json:"expected,omitempty" mapstructure:"expected,omitempty"`
	// ExpectedKey addresses the expected value within the trace.
	ExpectedKey string `json:"expected_key,omitempty" mapstructure:"expected_key,omitempty"`
}

func (c *Equals) Kind() string { return "equals" }

func (c *Equals) Run(ctx context.Context, tr *trace.Trace, rc *component.Context) (Result, error) {
	actual, res, ok := extract(tr, c.Key)
	if !ok {
		return res, nil
	}

	expected := c.Expected
	if c.ExpectedKey != "" {
		var res Result
		expected, res, ok = extract(tr, c.ExpectedKey)
		if !ok {
			return res, nil
		}
	}

	details := map[string]any{
		"actual":   actual,
		"expected": expected,
	}

	if reflect.DeepEqual(normalize(actual), normalize(expected)) {
		return Pass(
			fmt.Sprintf("value at %q equals %v", c.Key, expected),
			WithDetails(details),
		), nil
	}

	return Fail(
		fmt.Sprintf("expected %v at %q but got %v", expected, c.Key, actual),
		WithDetails(details),
	), nil
}
