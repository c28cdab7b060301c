// Package extraction resolves path expressions against a trace.
//
// Expressions use JSONPath syntax (via ojg) and must be rooted at "trace",
// e.g. "trace.last.outputs" or "trace.interactions[0].inputs.text". The
// package distinguishes three failure modes: invalid expressions, paths that
// match nothing, and paths that match more than one node when a single value
// was required.
package extraction

import (
	"fmt"
	"strings"

	"github.com/ohler55/ojg/jp"

	"github.com/aretw0/sieve/pkg/trace"
)

// PathError reports an expression that could not be parsed or is not rooted
// at "trace".
type PathError struct {
	Path   string
	Reason string
}

func (e *PathError) Error() string {
	return fmt.Sprintf("invalid path %q: %s", e.Path, e.Reason)
}

// NotFoundError reports a path that matched no node.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("path %q matched no value", e.Path)
}

// AmbiguousError reports a path that matched more than one node where a
// single value was required.
type AmbiguousError struct {
	Path  string
	Count int
}

func (e *AmbiguousError) Error() string {
	return fmt.Sprintf("path %q matched %d values, expected exactly one", e.Path, e.Count)
}

// Resolve evaluates the expression against the trace and returns every match
// in document order. It returns a *PathError for malformed expressions and a
// *NotFoundError when nothing matches. The trace is never mutated.
func Resolve(tr *trace.Trace, path string) ([]any, error) {
	expr, err := parse(path)
	if err != nil {
		return nil, err
	}

	matches := expr.Get(tr.Document())
	if len(matches) == 0 {
		return nil, &NotFoundError{Path: path}
	}
	return matches, nil
}

// ResolveOne evaluates the expression and requires exactly one match.
// Zero matches yield a *NotFoundError; multiple matches, or an expression
// that is inherently multi-valued (wildcards, slices, descents), yield an
// *AmbiguousError.
func ResolveOne(tr *trace.Trace, path string) (any, error) {
	expr, err := parse(path)
	if err != nil {
		return nil, err
	}

	matches := expr.Get(tr.Document())
	if len(matches) == 0 {
		return nil, &NotFoundError{Path: path}
	}
	if len(matches) > 1 || isMultiValued(expr) {
		return nil, &AmbiguousError{Path: path, Count: len(matches)}
	}
	return matches[0], nil
}

func parse(path string) (jp.Expr, error) {
	if !strings.HasPrefix(path, "trace.") && path != "trace" {
		return nil, &PathError{Path: path, Reason: "path must start with 'trace.'"}
	}
	expr, err := jp.ParseString(path)
	if err != nil {
		return nil, &PathError{Path: path, Reason: err.Error()}
	}
	return expr, nil
}

// isMultiValued reports whether the expression can address more than one
// node regardless of the data it is applied to.
func isMultiValued(expr jp.Expr) bool {
	for _, frag := range expr {
		switch frag.(type) {
		case jp.Wildcard, jp.Descent, jp.Union, jp.Slice, *jp.Filter:
			return true
		}
	}
	return false
}
