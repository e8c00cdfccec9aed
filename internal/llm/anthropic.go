package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	anthropic "github.com/liushuangls/go-anthropic/v2"

	"medlookup/pkg"
)

// AnthropicClient calls the Anthropic Messages API.
type AnthropicClient struct {
	client    *anthropic.Client
	model     string
	maxTokens int
}

// NewAnthropicClient creates a completer backed by Anthropic. The Messages
// API requires an explicit output budget, so maxTokens must be positive.
func NewAnthropicClient(apiKey, model string, maxTokens int, timeout time.Duration, opts ...anthropic.ClientOption) *AnthropicClient {
	if maxTokens <= 0 {
		maxTokens = 1024
	}
	opts = append([]anthropic.ClientOption{anthropic.WithHTTPClient(&http.Client{Timeout: timeout})}, opts...)
	return &AnthropicClient{
		client:    anthropic.NewClient(apiKey, opts...),
		model:     model,
		maxTokens: maxTokens,
	}
}

func (c *AnthropicClient) Model() string { return c.model }

// Complete sends the system prompt as the system block and the user prompt
// as the only message, and joins the text blocks of the reply.
func (c *AnthropicClient) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	resp, err := c.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model:     anthropic.Model(c.model),
		System:    systemPrompt,
		Messages:  []anthropic.Message{anthropic.NewUserTextMessage(userPrompt)},
		MaxTokens: c.maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", pkg.ErrCompletionService, err)
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == anthropic.MessagesContentTypeText && block.Text != nil {
			sb.WriteString(*block.Text)
		}
	}
	if strings.TrimSpace(sb.String()) == "" {
		return "", fmt.Errorf("%w: malformed response: no text content", pkg.ErrCompletionService)
	}
	return sb.String(), nil
}
