package llm

import "context"

// Provider is the core abstraction over a text-generation service.
// Each generation tier (primary, fallback) is backed by one Provider.
type Provider interface {
	// Generate sends the request to the service and returns the text of the
	// first completion. Services that return no completions report
	// ErrNoCompletion.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier this provider is configured to use.
	ModelID() string
}

// Request describes what to send to the service.
type Request struct {
	// System is an optional system prompt.
	System string

	// Messages is the conversation. Exploratorium always sends a single
	// user message holding the prompt.
	Messages []Message

	// MaxTokens caps the length of the completion.
	MaxTokens int

	// Temperature controls sampling. Nil leaves the service default in
	// place; a non-nil zero is sent explicitly.
	Temperature *float64
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

// Response holds the service's output.
type Response struct {
	// Text is the content of the first completion.
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

// Float returns a pointer to v, for use as Request.Temperature.
func Float(v float64) *float64 {
	return &v
}

// UserPrompt builds a single-turn request carrying prompt as the user message.
func UserPrompt(prompt string, maxTokens int, temperature *float64) Request {
	return Request{
		Messages:    []Message{{Role: RoleUser, Content: prompt}},
		MaxTokens:   maxTokens,
		Temperature: temperature,
	}
}
