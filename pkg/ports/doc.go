// Package ports declares the boundaries between the scenario engine and its
// external collaborators: the LLM generator used by model-judged checks and
// the optional store for persisted results. Implementations live in
// pkg/adapters or in the embedding application.
package ports
