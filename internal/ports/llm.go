package ports

import "context"

// Message is one role-tagged block of a chat-completion prompt.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// GenerateInput holds everything the text-generation call needs.
type GenerateInput struct {
	Model       string
	Temperature float64
	MaxTokens   int
	Messages    []Message
}

// GenerateOutput is the plain-text completion result.
type GenerateOutput struct {
	Text  string
	Model string
}

// Generator produces a reading via a chat-completion API. It is treated as
// an untrusted, latency-variable, occasionally-failing dependency.
type Generator interface {
	Generate(ctx context.Context, in GenerateInput) (GenerateOutput, error)
}
