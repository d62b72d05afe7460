// Package anthropic provides an inference.Client backed by the Anthropic
// Messages API.
package anthropic

import (
	"context"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/sarib95965/llm-agent/inference"
)

// Options configure the Anthropic client (model id, max tokens, API key).
type Options struct {
	APIKey        string
	Model         anthropic.Model
	MaxTokens     int64
	SystemMessage string
}

// Client wraps the Anthropic Messages API behind the inference.Client interface.
type Client struct {
	client *anthropic.Client
	opts   Options
}

var _ inference.Client = (*Client)(nil)

// New creates an Anthropic inference client using the official SDK.
func New(optFns ...func(o *Options)) *Client {
	opts := Options{
		Model:     anthropic.ModelClaude3_5Sonnet20241022,
		MaxTokens: 512,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	var clientOpts []option.RequestOption
	if opts.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(opts.APIKey))
	}

	client := anthropic.NewClient(clientOpts...)

	return &Client{client: &client, opts: opts}
}

// NewFromClient creates an Anthropic inference client from an existing client.
func NewFromClient(client *anthropic.Client, optFns ...func(o *Options)) *Client {
	opts := Options{
		Model:     anthropic.ModelClaude3_5Sonnet20241022,
		MaxTokens: 512,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Client{client: client, opts: opts}
}

func (c *Client) buildParams(prompt string, temperature float64) anthropic.MessageNewParams {
	params := anthropic.MessageNewParams{
		Model:       c.opts.Model,
		MaxTokens:   c.opts.MaxTokens,
		Temperature: anthropic.Float(temperature),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}
	if c.opts.SystemMessage != "" {
		params.System = []anthropic.TextBlockParam{{Text: c.opts.SystemMessage}}
	}
	return params
}

// Complete implements inference.Client.
func (c *Client) Complete(ctx context.Context, prompt string, temperature float64) (string, error) {
	resp, err := c.client.Messages.New(ctx, c.buildParams(prompt, temperature))
	if err != nil {
		return "", inference.NewInferenceError("anthropic", "message create failed", err)
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.AsText().Text)
		}
	}

	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", inference.NewInferenceError("anthropic", "empty completion", nil)
	}

	return text, nil
}

// CompleteStream implements inference.Client.
func (c *Client) CompleteStream(ctx context.Context, prompt string, temperature float64) (<-chan string, <-chan error) {
	out := make(chan string, 32)
	errCh := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errCh)

		stream := c.client.Messages.NewStreaming(ctx, c.buildParams(prompt, temperature))
		defer stream.Close()

		for stream.Next() {
			event := stream.Current()
			switch ev := event.AsAny().(type) {
			case anthropic.ContentBlockDeltaEvent:
				delta, ok := ev.Delta.AsAny().(anthropic.TextDelta)
				if !ok || delta.Text == "" {
					continue
				}
				select {
				case <-ctx.Done():
					errCh <- inference.NewInferenceError("anthropic", "stream cancelled", ctx.Err())
					return
				case out <- delta.Text:
				}
			}
		}
		if err := stream.Err(); err != nil {
			errCh <- inference.NewInferenceError("anthropic", "streaming message failed", err)
		}
	}()

	return out, errCh
}

// Provider implements inference.Client.
func (c *Client) Provider() string { return "anthropic" }
