package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ZaguanLabs/teamtl"
	"github.com/sashabaranov/go-openai"
)

// OpenAIProvider implements Provider using OpenAI's chat completions API.
type OpenAIProvider struct {
	client      *openai.Client
	model       string
	temperature float32
}

// OpenAIConfig holds configuration for the OpenAI provider.
type OpenAIConfig struct {
	APIKey      string        // OpenAI API key
	Model       string        // Model to use (default: "gpt-4o-mini")
	Temperature float32       // Temperature for generation (default: 0.2)
	BaseURL     string        // Custom base URL for OpenAI-compatible gateways (optional)
	Timeout     time.Duration // Per-request HTTP timeout (optional)
}

// NewOpenAIProvider creates a new OpenAI provider.
func NewOpenAIProvider(cfg OpenAIConfig) *OpenAIProvider {
	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}
	config.HTTPClient = &http.Client{
		Timeout:   cfg.Timeout,
		Transport: userAgentTransport{base: http.DefaultTransport},
	}

	model := cfg.Model
	if model == "" {
		model = "gpt-4o-mini"
	}

	temperature := cfg.Temperature
	if temperature == 0 {
		temperature = 0.2
	}

	return &OpenAIProvider{
		client:      openai.NewClientWithConfig(config),
		model:       model,
		temperature: temperature,
	}
}

// Translate translates one text using OpenAI.
func (p *OpenAIProvider) Translate(ctx context.Context, req TranslateRequest) (string, error) {
	if req.Text == "" {
		return "", nil
	}

	userMessage, err := json.Marshal(map[string]string{"text": req.Text})
	if err != nil {
		return "", &teamtl.ProviderError{Message: "encoding request", Cause: err}
	}

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: p.buildSystemPrompt(req)},
			{Role: openai.ChatMessageRoleUser, Content: string(userMessage)},
		},
		Temperature: p.temperature,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return "", &teamtl.ProviderError{
			Message:   "OpenAI API call failed",
			Cause:     err,
			Retryable: isRetryableError(err),
		}
	}

	if len(resp.Choices) == 0 {
		return "", &teamtl.ProviderError{
			Message:   "no response from OpenAI",
			Retryable: true,
		}
	}

	return p.parseResponse(resp.Choices[0].Message.Content)
}

func (p *OpenAIProvider) buildSystemPrompt(req TranslateRequest) string {
	sourceLang := req.SourceLang
	if sourceLang == "" {
		sourceLang = teamtl.DefaultSourceLang
	}

	sourceName := teamtl.GetLanguageName(sourceLang)
	targetName := teamtl.GetLanguageName(req.TargetLang)

	contextText := "The text is the history of a football club, written for fans."
	if req.Context != "" {
		contextText = fmt.Sprintf("The text is for: %s.", req.Context)
	}

	var b strings.Builder
	fmt.Fprintf(&b, `# Role
You are a professional translator. Translate from %s into %s.

# Context
%s

# Rules
- Keep proper nouns (club names, stadiums, leagues, cities) as written unless they have an established %s form.
- Keep numbers, years and dates exactly as in the source.
- Do not add, drop or summarise sentences.`, sourceName, targetName, contextText, targetName)

	if hint := teamtl.GetLocaleClarification(req.TargetLang); hint != "" {
		fmt.Fprintf(&b, "\n- %s", hint)
	}

	b.WriteString(`

# Format
The user message is a JSON object {"text": "..."}.
Reply with a JSON object {"translation": "..."} and nothing else.`)

	return b.String()
}

func (p *OpenAIProvider) parseResponse(content string) (string, error) {
	var obj map[string]interface{}
	if err := json.Unmarshal([]byte(content), &obj); err != nil {
		return "", &teamtl.ProviderError{
			Message: "invalid response format from OpenAI",
			Cause:   err,
		}
	}

	if s, ok := obj["translation"].(string); ok && s != "" {
		return s, nil
	}

	// Some models pick their own key; accept a lone string value.
	if len(obj) == 1 {
		for _, v := range obj {
			if s, ok := v.(string); ok && s != "" {
				return s, nil
			}
		}
	}

	return "", &teamtl.ProviderError{Message: "OpenAI response has no translation"}
}

func isRetryableError(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusTooManyRequests, http.StatusBadGateway,
			http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			return true
		}
		return apiErr.HTTPStatusCode >= 500
	}

	errStr := strings.ToLower(err.Error())
	for _, pattern := range []string{"rate limit", "timeout", "connection refused", "connection reset", "temporary"} {
		if strings.Contains(errStr, pattern) {
			return true
		}
	}
	return false
}

// Verify OpenAIProvider implements Provider
var _ Provider = (*OpenAIProvider)(nil)

// userAgentTransport tags outbound requests with the teamtl user agent.
type userAgentTransport struct {
	base http.RoundTripper
}

func (t userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("User-Agent", teamtl.UserAgent())
	return t.base.RoundTrip(req)
}
