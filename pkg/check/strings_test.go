package check

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/sieve/pkg/component"
)

func TestContains(t *testing.T) {
	tests := []struct {
		name   string
		check  Contains
		output any
		want   Status
	}{
		{
			name:   "substring present",
			check:  Contains{Key: "trace.last.outputs", Value: "Paris"},
			output: "The capital of France is Paris.",
			want:   StatusPassed,
		},
		{
			name:   "substring absent",
			check:  Contains{Key: "trace.last.outputs", Value: "Berlin"},
			output: "The capital of France is Paris.",
			want:   StatusFailed,
		},
		{
			name:   "case sensitive by default",
			check:  Contains{Key: "trace.last.outputs", Value: "paris"},
			output: "Paris",
			want:   StatusFailed,
		},
		{
			name:   "case folded",
			check:  Contains{Key: "trace.last.outputs", Value: "PARIS", IgnoreCase: true},
			output: "The capital is Paris",
			want:   StatusPassed,
		},
		{
			name:   "non-string value errors",
			check:  Contains{Key: "trace.last.outputs", Value: "x"},
			output: 42,
			want:   StatusErrored,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := tt.check.Run(context.Background(), singleTurn(tt.output), component.NewContext())
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.Status)
		})
	}
}

func TestRegex(t *testing.T) {
	tests := []struct {
		name   string
		check  Regex
		output any
		want   Status
	}{
		{
			name:   "match",
			check:  Regex{Key: "trace.last.outputs", Pattern: `^order #\d+$`},
			output: "order #123",
			want:   StatusPassed,
		},
		{
			name:   "no match",
			check:  Regex{Key: "trace.last.outputs", Pattern: `^order #\d+$`},
			output: "no order here",
			want:   StatusFailed,
		},
		{
			name:   "invalid pattern errors",
			check:  Regex{Key: "trace.last.outputs", Pattern: `([`},
			output: "anything",
			want:   StatusErrored,
		},
		{
			name:   "non-string value errors",
			check:  Regex{Key: "trace.last.outputs", Pattern: `.*`},
			output: map[string]any{"text": "x"},
			want:   StatusErrored,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := tt.check.Run(context.Background(), singleTurn(tt.output), component.NewContext())
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.Status)
		})
	}
}
