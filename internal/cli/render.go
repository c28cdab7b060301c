package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/aretw0/sieve"
	"github.com/aretw0/sieve/pkg/check"
)

var statusGlyphs = map[check.Status]string{
	check.StatusPassed:  "✔",
	check.StatusFailed:  "✘",
	check.StatusErrored: "!",
	check.StatusSkipped: "-",
}

// RenderResult writes a human-readable run summary to w.
func RenderResult(w io.Writer, result *sieve.Result) {
	fmt.Fprintf(w, "scenario %q: %s (%d interactions, %s)\n",
		result.Scenario, result.State, result.FinalTrace.Len(), result.Duration.Round(1e6))

	for _, rec := range result.Checks {
		glyph, ok := statusGlyphs[rec.Result.Status]
		if !ok {
			glyph = "?"
		}
		name := rec.Name
		if name == "" {
			name = rec.Kind
		}
		fmt.Fprintf(w, "  %s %s", glyph, name)
		if rec.Result.Message != "" {
			fmt.Fprintf(w, ": %s", rec.Result.Message)
		}
		fmt.Fprintln(w)
	}
}

// RenderJSON writes the full result document as indented JSON.
func RenderJSON(w io.Writer, result *sieve.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result.Document())
}

// ExitCode maps a run outcome to a process exit code: 0 passed, 1 failed,
// 2 errored.
func ExitCode(result *sieve.Result) int {
	switch {
	case result.Passed():
		return 0
	case result.Failed():
		return 1
	default:
		return 2
	}
}
