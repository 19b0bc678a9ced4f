// Package enrich implements the optional AI enrichment collaborator on top
// of an OpenAI-compatible chat API. It rephrases the deterministic digest;
// the caller treats every failure as recoverable.
package enrich

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/dd3vahmad/tenskee/internal/config"
)

const systemPrompt = "You are Tenskee, a magical class group assistant for students. " +
	"Rewrite the following schedule digest in your dramatic, encouraging voice. " +
	"Keep every fact, date, and item exactly as given. Output plain text only."

// Client calls a chat model to rephrase digests.
type Client struct {
	client *openai.Client
	model  string
}

// New creates an enrichment client from config. Returns nil when no API key
// is configured; callers leave their Enricher unset in that case, which the
// digest layer treats as a no-op.
func New(cfg config.AIConfig) *Client {
	if cfg.APIKey == "" {
		return nil
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	return &Client{
		client: openai.NewClientWithConfig(clientConfig),
		model:  cfg.Model,
	}
}

// Enrich asks the model to rephrase text. At most one retry with a short
// backoff; the context deadline set by the caller bounds the whole call.
func (c *Client) Enrich(ctx context.Context, text string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
	}

	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		if attempt > 0 {
			slog.Debug("enrichment retrying", "error", lastErr)
			select {
			case <-time.After(time.Second):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}

		resp, err := c.client.CreateChatCompletion(ctx, req)
		if err != nil {
			lastErr = err
			continue
		}
		if len(resp.Choices) == 0 {
			lastErr = fmt.Errorf("empty chat response")
			continue
		}
		return resp.Choices[0].Message.Content, nil
	}
	return "", lastErr
}
