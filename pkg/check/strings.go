package check

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/aretw0/sieve/pkg/component"
	"github.com/aretw0/sieve/pkg/trace"
)

func init() {
	component.MustRegister("contains", func() component.Component { return &Contains{} })
	component.MustRegister("regex", func() component.Component { return &Regex{} })
}

// Contains verifies that the string extracted from the trace contains a
// substring.
type Contains struct {
	component.Base `mapstructure:",squash"`

	Key   string `json:"key" mapstructure:"key"`
	Value string `json:"value" mapstructure:"value"`
	// IgnoreCase folds case before matching.
	IgnoreCase bool `json:"ignore_case,omitempty" mapstructure:"ignore_case,omitempty"`
}

func (c *Contains) Kind() string { return "contains" }

func (c *Contains) Run(ctx context.Context, tr *trace.Trace, rc *component.Context) (Result, error) {
	actual, res, ok := extract(tr, c.Key)
	if !ok {
		return res, nil
	}

	text, ok := actual.(string)
	if !ok {
		return Error(
			fmt.Sprintf("value at %q is %T, expected a string", c.Key, actual),
			WithDetails(map[string]any{"actual": actual}),
		), nil
	}

	haystack, needle := text, c.Value
	if c.IgnoreCase {
		haystack = strings.ToLower(haystack)
		needle = strings.ToLower(needle)
	}

	details := map[string]any{"actual": text, "value": c.Value}
	if strings.Contains(haystack, needle) {
		return Pass(fmt.Sprintf("value at %q contains %q", c.Key, c.Value), WithDetails(details)), nil
	}
	return Fail(fmt.Sprintf("value at %q does not contain %q", c.Key, c.Value), WithDetails(details)), nil
}

// Regex verifies that the string extracted from the trace matches a regular
// expression.
type Regex struct {
	component.Base `mapstructure:",squash"`

	Key     string `json:"key" mapstructure:"key"`
	Pattern string `json:"pattern" mapstructure:"pattern"`
}

func (c *Regex) Kind() string { return "regex" }

func (c *Regex) Run(ctx context.Context, tr *trace.Trace, rc *component.Context) (Result, error) {
	re, err := regexp.Compile(c.Pattern)
	if err != nil {
		// A broken pattern is a scenario defect, not a verdict.
		return Error(fmt.Sprintf("invalid pattern %q: %v", c.Pattern, err)), nil
	}

	actual, res, ok := extract(tr, c.Key)
	if !ok {
		return res, nil
	}

	text, ok := actual.(string)
	if !ok {
		return Error(
			fmt.Sprintf("value at %q is %T, expected a string", c.Key, actual),
			WithDetails(map[string]any{"actual": actual}),
		), nil
	}

	details := map[string]any{"actual": text, "pattern": c.Pattern}
	if re.MatchString(text) {
		return Pass(fmt.Sprintf("value at %q matches %q", c.Key, c.Pattern), WithDetails(details)), nil
	}
	return Fail(fmt.Sprintf("value at %q does not match %q", c.Key, c.Pattern), WithDetails(details)), nil
}
