// File: internal/services/ai/interface.go
package ai

import "context"

// Message is one turn of conversation history sent to the provider.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// File is an attachment forwarded with a completion request.
type File struct {
	Filename    string
	ContentType string
	Data        []byte
}

type Completion struct {
	Content string `json:"content"`
}

type Model struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CompletionProvider turns a conversation plus attachments into a reply.
type CompletionProvider interface {
	GetCompletion(ctx context.Context, model string, messages []Message, files []File) (*Completion, error)
}

// ModelLister returns the models the provider offers.
type ModelLister interface {
	ListModels(ctx context.Context) ([]Model, error)
}

// Provider combines completion and model listing capabilities
type Provider interface {
	CompletionProvider
	ModelLister
}

// Logger interface for dependency injection
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}
