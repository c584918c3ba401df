// File: internal/services/ai/openai_provider.go
package ai

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIProvider speaks the OpenAI chat completions protocol to any
// compatible endpoint.
type OpenAIProvider struct {
	config *Config
	client *openai.Client
	logger Logger
}

func NewOpenAIProvider(config *Config, logger Logger) *OpenAIProvider {
	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}

	return &OpenAIProvider{
		config: config,
		client: openai.NewClientWithConfig(clientConfig),
		logger: logger,
	}
}

func (p *OpenAIProvider) GetCompletion(ctx context.Context, model string, messages []Message, files []File) (*Completion, error) {
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    model,
		Messages: toChatMessages(messages, files),
	})
	if err != nil {
		return nil, p.wrapError("completion", model, err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return nil, &AIError{
			Type:      ErrTypeProvider,
			Operation: "completion",
			Model:     model,
			Message:   "empty completion response",
		}
	}

	return &Completion{Content: resp.Choices[0].Message.Content}, nil
}

func (p *OpenAIProvider) ListModels(ctx context.Context) ([]Model, error) {
	list, err := p.client.ListModels(ctx)
	if err != nil {
		return nil, p.wrapError("models", "", err)
	}

	models := make([]Model, 0, len(list.Models))
	for _, m := range list.Models {
		models = append(models, Model{ID: m.ID, Name: m.ID})
	}
	return models, nil
}

func (p *OpenAIProvider) wrapError(operation, model string, err error) *AIError {
	aiErr := NewProviderError(operation, "provider request failed", err)
	aiErr.Model = model

	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	switch {
	case errors.As(err, &apiErr):
		aiErr.Code = apiErr.HTTPStatusCode
	case errors.As(err, &reqErr):
		aiErr.Code = reqErr.HTTPStatusCode
	default:
		aiErr.Type = ErrTypeNetwork
	}
	if aiErr.Code == 429 {
		aiErr.Type = ErrTypeRateLimit
	}
	return aiErr
}

// toChatMessages converts history and attaches files to the final message.
// Images become image parts; UTF-8 files are inlined as text.
func toChatMessages(messages []Message, files []File) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		out = append(out, openai.ChatCompletionMessage{Role: m.Role, Content: m.Content})
	}
	if len(files) == 0 || len(out) == 0 {
		return out
	}

	last := &out[len(out)-1]
	parts := []openai.ChatMessagePart{{Type: openai.ChatMessagePartTypeText, Text: last.Content}}
	for _, f := range files {
		parts = append(parts, fileToPart(f))
	}
	last.Content = ""
	last.MultiContent = parts
	return out
}

func fileToPart(f File) openai.ChatMessagePart {
	if strings.HasPrefix(f.ContentType, "image/") {
		dataURL := fmt.Sprintf("data:%s;base64,%s", f.ContentType, base64.StdEncoding.EncodeToString(f.Data))
		return openai.ChatMessagePart{
			Type:     openai.ChatMessagePartTypeImageURL,
			ImageURL: &openai.ChatMessageImageURL{URL: dataURL, Detail: openai.ImageURLDetailAuto},
		}
	}

	if utf8.Valid(f.Data) {
		return openai.ChatMessagePart{
			Type: openai.ChatMessagePartTypeText,
			Text: fmt.Sprintf("Attached file %s:\n%s", f.Filename, f.Data),
		}
	}

	return openai.ChatMessagePart{
		Type: openai.ChatMessagePartTypeText,
		Text: fmt.Sprintf("Attached file %s (%s, %d bytes) could not be inlined.", f.Filename, f.ContentType, len(f.Data)),
	}
}
