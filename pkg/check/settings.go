package check

import (
	"sync"

	"github.com/aretw0/sieve/pkg/ports"
)

var (
	defaultGeneratorMu sync.RWMutex
	defaultGenerator   ports.Generator
)

// SetDefaultGenerator installs the process-wide generator used by
// model-judged checks that have no generator of their own. Call it once
// during application startup, before running scenarios.
func SetDefaultGenerator(g ports.Generator) {
	defaultGeneratorMu.Lock()
	defer defaultGeneratorMu.Unlock()
	defaultGenerator = g
}

// DefaultGenerator returns the process-wide generator, or nil when none has
// been configured.
func DefaultGenerator() ports.Generator {
	defaultGeneratorMu.RLock()
	defer defaultGeneratorMu.RUnlock()
	return defaultGenerator
}
