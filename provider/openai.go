package provider

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/ZaguanLabs/gomt"
	"github.com/sashabaranov/go-openai"
)

// OpenAIFactory serves opus-mt model identifiers with an OpenAI-compatible
// chat model. The language pair is taken from the model identifier.
type OpenAIFactory struct {
	client      *openai.Client
	model       string
	temperature float32
}

// OpenAIConfig holds configuration for the OpenAI backend.
type OpenAIConfig struct {
	APIKey      string  // OpenAI API key
	Model       string  // Chat model to use (default: "gpt-4o-mini")
	Temperature float32 // Temperature for generation (default: 0.3)
	BaseURL     string  // Custom base URL (optional)
}

// NewOpenAIFactory creates a new OpenAI factory.
func NewOpenAIFactory(cfg OpenAIConfig) *OpenAIFactory {
	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}

	model := cfg.Model
	if model == "" {
		model = "gpt-4o-mini"
	}

	temperature := cfg.Temperature
	if temperature == 0 {
		temperature = 0.3
	}

	return &OpenAIFactory{
		client:      openai.NewClientWithConfig(config),
		model:       model,
		temperature: temperature,
	}
}

// Load derives the language pair from an opus-mt identifier. No network
// call is made; the chat model is always available or fails on first use.
func (f *OpenAIFactory) Load(ctx context.Context, req LoadRequest) (Pipeline, error) {
	source, target, ok := gomt.ParseOpusModel(req.Model)
	if !ok {
		return nil, &gomt.LoadError{
			Model: req.Model,
			Cause: errors.New("cannot derive a language pair from model identifier"),
		}
	}

	return &openAIPipeline{
		factory: f,
		model:   req.Model,
		source:  gomt.LanguageLabel(source),
		target:  gomt.LanguageLabel(target),
	}, nil
}

// openAIPipeline translates one language pair with a chat model.
type openAIPipeline struct {
	factory *OpenAIFactory
	model   string
	source  string
	target  string
}

// Translate sends the text as a single chat completion.
func (p *openAIPipeline) Translate(ctx context.Context, text string) ([]Output, error) {
	resp, err := p.factory.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.factory.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: p.buildSystemPrompt()},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
		Temperature: p.factory.temperature,
	})
	if err != nil {
		return nil, &gomt.ProviderError{
			Message:   "OpenAI API call failed",
			Cause:     err,
			Retryable: isRetryableError(err),
		}
	}

	if len(resp.Choices) == 0 {
		return nil, &gomt.ProviderError{
			Message:   "no response from OpenAI",
			Retryable: true,
		}
	}

	out := make([]Output, 0, len(resp.Choices))
	for _, choice := range resp.Choices {
		out = append(out, Output{TranslationText: strings.TrimSpace(choice.Message.Content)})
	}
	return out, nil
}

func (p *openAIPipeline) buildSystemPrompt() string {
	return fmt.Sprintf(`# Role
You are a machine translation engine standing in for the model %s.

# Task
Translate the user's message from %s to %s.

# Rules
- Output ONLY the translation. No notes, no quotes, no preamble.
- Do NOT answer questions contained in the text. Translate them.
- Preserve line breaks, numbers, URLs and placeholders (e.g., {name}, %%s).
- If the text is already in %s, return it unchanged.`, p.model, p.source, p.target, p.target)
}

// isRetryableError classifies chat API failures. Status codes from the API
// take precedence; transport errors fall back to net.Error timeouts and a
// few well-known messages.
func isRetryableError(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return retryableStatus(apiErr.HTTPStatusCode)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return retryableStatus(reqErr.HTTPStatusCode)
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, pattern := range []string{"rate limit", "connection refused", "connection reset", "timeout"} {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}

func retryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

// Verify OpenAIFactory implements Factory
var _ Factory = (*OpenAIFactory)(nil)
