package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
)

const defaultOllamaServerURL = "http://localhost:11434"

// OllamaProvider implements Provider against a local Ollama server through
// langchaingo.
type OllamaProvider struct {
	client *ollama.LLM
	model  string
}

// NewOllamaProvider creates a provider for a local or self-hosted Ollama
// server. No API key is needed.
func NewOllamaProvider(cfg OllamaConfig) (*OllamaProvider, error) {
	if cfg.Model == "" {
		return nil, fmt.Errorf("ollama model is required")
	}

	serverURL := cfg.ServerURL
	if serverURL == "" {
		serverURL = defaultOllamaServerURL
	}

	client, err := ollama.New(
		ollama.WithModel(cfg.Model),
		ollama.WithServerURL(serverURL),
	)
	if err != nil {
		return nil, fmt.Errorf("create Ollama client: %w", err)
	}

	return &OllamaProvider{client: client, model: cfg.Model}, nil
}

func (p *OllamaProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	model := req.Model
	if model == "" {
		model = p.model
	}

	opts := []llms.CallOption{llms.WithModel(model)}
	if req.MaxTokens > 0 {
		opts = append(opts, llms.WithMaxTokens(req.MaxTokens))
	}
	if req.Temperature > 0 {
		opts = append(opts, llms.WithTemperature(req.Temperature))
	}
	if req.Schema != nil {
		opts = append(opts, llms.WithJSONMode())
	}

	resp, err := p.client.GenerateContent(ctx, buildOllamaMessages(req), opts...)
	if err != nil {
		return nil, mapOllamaError(err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Content == "" {
		return nil, &ErrInvalidResponse{Err: fmt.Errorf("no content in Ollama response")}
	}

	return &Response{
		Text:       resp.Choices[0].Content,
		Model:      model,
		StopReason: "end",
	}, nil
}

func (p *OllamaProvider) ModelID() string {
	return p.model
}

func buildOllamaMessages(req Request) []llms.MessageContent {
	var out []llms.MessageContent
	if req.System != "" {
		out = append(out, llms.TextParts(llms.ChatMessageTypeSystem, req.System))
	}
	for _, m := range req.Messages {
		role := llms.ChatMessageTypeHuman
		if m.Role == RoleAssistant {
			role = llms.ChatMessageTypeAI
		}
		out = append(out, llms.TextParts(role, m.Content))
	}
	return out
}

// mapOllamaError classifies Ollama failures. The langchaingo client does
// not expose a typed status error, so overload is detected from the
// status text the server returns.
func mapOllamaError(err error) error {
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "503") || strings.Contains(msg, "service unavailable") || strings.Contains(msg, "server busy") {
		return &ErrProviderUnavailable{Status: http.StatusServiceUnavailable, Err: err}
	}
	return &ErrProviderFailed{Err: err}
}
