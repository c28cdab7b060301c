// Package sieve is a scenario engine for evaluating conversational and
// tool-using systems. A scenario is an ordered sequence of components
// sharing one trace: interaction specs record exchanges with the system
// under test, and checks validate the accumulated history. Execution halts
// at the first check that does not pass.
//
// The smallest useful scenario records one exchange and validates it:
//
//	result, err := sieve.NewScenario("greeting").
//		Interact("Hello", "Hi").
//		Check(&check.Equals{Key: "trace.last.outputs", Expected: "Hi"}).
//		Run(context.Background())
//
// Components are polymorphic and serializable: every kind is registered in a
// process-wide registry (pkg/component), so scenarios round-trip through
// plain JSON or YAML documents and can be executed by the sieve CLI or the
// HTTP adapter.
package sieve
