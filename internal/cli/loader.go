// Package cli holds the scenario document loading and result rendering used
// by the sieve command.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/sieve"
	"github.com/aretw0/sieve/pkg/component"
)

// LoadScenario reads a scenario document from a YAML or JSON file and
// rehydrates it against the registry. JSON is a subset of YAML, so one
// decoder covers both.
func LoadScenario(path string, reg *component.Registry) (*sieve.Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}

	doc, ok := normalize(raw).(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%s: scenario document must be a mapping, got %T", filepath.Base(path), raw)
	}

	return sieve.ScenarioFromDocument(doc, reg)
}

// normalize rewrites the map[any]any trees yaml.v3 can produce into the
// map[string]any shape the registry decodes.
func normalize(v any) any {
	switch t := v.(type) {
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fmt.Sprintf("%v", k)] = normalize(val)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = normalize(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = normalize(val)
		}
		return out
	default:
		return v
	}
}
