package ports

import "context"

// Message is one entry of a structured prompt.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// OutputSchema describes the structured value a completion should conform
// to. The descriptor is opaque to the core; generators translate it to
// whatever their backend supports (JSON schema, tool definitions, ...).
type OutputSchema struct {
	Name       string         `json:"name,omitempty"`
	Properties map[string]any `json:"properties,omitempty"`
}

// CompletionRequest is the input to a Generator call.
type CompletionRequest struct {
	Messages []Message
	// Schema, when set, asks the generator for a structured value in
	// addition to (or instead of) plain text.
	Schema *OutputSchema
}

// CompletionReply is the outcome of a Generator call: plain text, a
// structured value conforming to the requested schema, or both.
type CompletionReply struct {
	Text  string
	Value map[string]any
}

// Generator turns prompts into model replies. The core treats this purely
// as an opaque asynchronous call; rate limiting, retries and model choice
// belong to implementations.
type Generator interface {
	Complete(ctx context.Context, req CompletionRequest) (*CompletionReply, error)
}

// GeneratorFunc adapts a function to the Generator interface.
type GeneratorFunc func(ctx context.Context, req CompletionRequest) (*CompletionReply, error)

func (f GeneratorFunc) Complete(ctx context.Context, req CompletionRequest) (*CompletionReply, error) {
	return f(ctx, req)
}
