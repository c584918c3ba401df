// File: internal/services/ai/redpill_provider.go
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
)

// maxErrorBody bounds how much of a failed response is read for logging.
const maxErrorBody = 4 << 10

// RedPillProvider talks to the RedPill API: completions are a multipart form
// carrying the model, the JSON encoded history and files as file0..fileN.
type RedPillProvider struct {
	config *Config
	client *http.Client
	logger Logger
}

func NewRedPillProvider(config *Config, client *http.Client, logger Logger) *RedPillProvider {
	if client == nil {
		client = &http.Client{Timeout: config.Timeout}
	}
	return &RedPillProvider{config: config, client: client, logger: logger}
}

func (p *RedPillProvider) GetCompletion(ctx context.Context, model string, messages []Message, files []File) (*Completion, error) {
	body, contentType, err := buildCompletionForm(model, messages, files)
	if err != nil {
		return nil, &AIError{Type: ErrTypeProvider, Operation: "completion", Model: model, Message: "failed to encode request", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint("/completions"), body)
	if err != nil {
		return nil, NewNetworkError("completion", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+p.config.APIKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, NewNetworkError("completion", err)
	}
	defer resp.Body.Close()

	if err := p.checkStatus(resp, "completion"); err != nil {
		err.Model = model
		return nil, err
	}

	var payload completionResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, &AIError{Type: ErrTypeDecode, Operation: "completion", Model: model, Message: "invalid response body", Cause: err}
	}

	content := payload.text()
	if content == "" {
		return nil, &AIError{Type: ErrTypeProvider, Operation: "completion", Model: model, Message: "empty completion response"}
	}

	p.logger.Debug("Completion received", "model", model, "files", len(files), "chars", len(content))
	return &Completion{Content: content}, nil
}

func (p *RedPillProvider) ListModels(ctx context.Context) ([]Model, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.endpoint("/models"), nil)
	if err != nil {
		return nil, NewNetworkError("models", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.config.APIKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, NewNetworkError("models", err)
	}
	defer resp.Body.Close()

	if err := p.checkStatus(resp, "models"); err != nil {
		return nil, err
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, NewNetworkError("models", err)
	}

	models, err := decodeModelList(raw)
	if err != nil {
		return nil, &AIError{Type: ErrTypeDecode, Operation: "models", Message: "invalid response body", Cause: err}
	}
	return models, nil
}

func (p *RedPillProvider) endpoint(path string) string {
	return strings.TrimRight(p.config.BaseURL, "/") + path
}

func (p *RedPillProvider) checkStatus(resp *http.Response, operation string) *AIError {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	p.logger.Warn("Provider returned error status",
		"operation", operation,
		"status", resp.StatusCode,
		"body", string(snippet))

	return NewStatusError(operation, resp.StatusCode)
}

func buildCompletionForm(model string, messages []Message, files []File) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if err := w.WriteField("model", model); err != nil {
		return nil, "", err
	}

	history, err := json.Marshal(messages)
	if err != nil {
		return nil, "", err
	}
	if err := w.WriteField("messages", string(history)); err != nil {
		return nil, "", err
	}

	for i, f := range files {
		contentType := f.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}

		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file%d"; filename=%q`, i, f.Filename))
		h.Set("Content-Type", contentType)

		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(f.Data); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

// completionResponse accepts the plain {"content": ...} body as well as the
// OpenAI style choices array some deployments return.
type completionResponse struct {
	Content string `json:"content"`
	Choices []struct {
		Text    string `json:"text"`
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (r completionResponse) text() string {
	if r.Content != "" {
		return r.Content
	}
	if len(r.Choices) > 0 {
		if r.Choices[0].Message.Content != "" {
			return r.Choices[0].Message.Content
		}
		return r.Choices[0].Text
	}
	return ""
}

// decodeModelList reads either {"data": [...]} or a bare array. A missing
// name falls back to the id.
func decodeModelList(raw []byte) ([]Model, error) {
	trimmed := bytes.TrimSpace(raw)

	var items []Model
	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, err
		}
	} else {
		var wrapped struct {
			Data []Model `json:"data"`
		}
		if err := json.Unmarshal(trimmed, &wrapped); err != nil {
			return nil, err
		}
		items = wrapped.Data
	}

	models := make([]Model, 0, len(items))
	for _, m := range items {
		if m.ID == "" {
			continue
		}
		if m.Name == "" {
			m.Name = m.ID
		}
		models = append(models, m)
	}
	return models, nil
}
