package llm

import (
	"context"
)

// Provider is the core abstraction for LLM interaction.
// One Generate call is exactly one request to the vendor; providers never
// retry on their own.
type Provider interface {
	// Generate sends a prompt to the model named in req.Model (or the
	// provider's default model when empty) and returns its text output.
	// Errors are mapped onto the typed errors in errors.go so callers can
	// tell transient overload apart from everything else.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the default model identifier this provider uses.
	ModelID() string
}

// Request describes what to send to the LLM.
type Request struct {
	// Model selects the model for this call. Friendly aliases are resolved
	// per vendor; empty means the provider default.
	Model string

	// System is the system prompt. Optional.
	System string

	// Messages is the conversation. Generation in pathwise is single-turn,
	// so this normally holds one user message.
	Messages []Message

	// Schema, when set, asks the vendor for native JSON output shaped like
	// the schema. Vendors without support ignore it; the response is still
	// treated as opaque text.
	Schema *Schema

	// MaxTokens is the maximum number of tokens in the response.
	MaxTokens int

	// Temperature controls randomness. Range: 0.0 - 2.0.
	Temperature float64
}

// Message represents a single message in the conversation.
type Message struct {
	Role    Role
	Content string
}

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema defines the JSON structure expected from the LLM.
type Schema struct {
	// Name identifies this schema, kebab-case, e.g. "learning-roadmap".
	// Compiled schemas are cached by name.
	Name string

	// Description is a human-readable description of the payload.
	Description string

	// Definition is the JSON Schema definition as a map.
	Definition map[string]any
}

// Response holds the LLM's output.
type Response struct {
	// Text is the raw text the model produced.
	Text string

	// Usage reports token consumption for this request.
	Usage Usage

	// Model is the actual model that served the request.
	Model string

	// StopReason indicates why generation stopped.
	// Normalized to: "end", "max_tokens", "error"
	StopReason string
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// UserPrompt builds a single-turn request for the given model.
func UserPrompt(model, prompt string) Request {
	return Request{
		Model:    model,
		Messages: []Message{{Role: RoleUser, Content: prompt}},
	}
}

// resolveModel maps a friendly model name to a provider model ID. An empty
// name selects fallback.
func resolveModel(name, fallback string, models map[string]string) string {
	if name == "" {
		name = fallback
	}
	if id, ok := models[name]; ok {
		return id
	}
	// Unknown names are used as-is so direct model IDs work.
	return name
}
