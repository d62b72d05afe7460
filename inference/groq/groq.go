// Package groq provides an inference.Client backed by Groq's OpenAI-compatible
// Chat Completions API, using the official openai-go client pointed at the
// Groq endpoint.
package groq

import (
	"context"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/sarib95965/llm-agent/inference"
)

const defaultBaseURL = "https://api.groq.com/openai/v1"

// Options configure the Groq client. Fields mirror a minimal subset of Chat
// Completion parameters; extend via functional options without breaking callers.
type Options struct {
	APIKey        string
	BaseURL       string
	Model         string
	MaxTokens     int64
	SystemMessage string
}

// Client wraps the Chat Completions API behind the inference.Client interface.
type Client struct {
	client *openai.Client
	opts   Options
}

var _ inference.Client = (*Client)(nil)

// New creates a Groq inference client.
func New(optFns ...func(o *Options)) *Client {
	opts := Options{
		BaseURL:   defaultBaseURL,
		Model:     "llama-3.3-70b-versatile",
		MaxTokens: 512,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	clientOpts := []option.RequestOption{option.WithBaseURL(opts.BaseURL)}
	if opts.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(opts.APIKey))
	}

	client := openai.NewClient(clientOpts...)

	return &Client{client: &client, opts: opts}
}

// NewFromClient creates a Groq inference client from an existing openai client.
func NewFromClient(client *openai.Client, optFns ...func(o *Options)) *Client {
	opts := Options{
		Model:     "llama-3.3-70b-versatile",
		MaxTokens: 512,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Client{client: client, opts: opts}
}

func (c *Client) buildParams(prompt string, temperature float64) openai.ChatCompletionNewParams {
	var messages []openai.ChatCompletionMessageParamUnion
	if c.opts.SystemMessage != "" {
		messages = append(messages, openai.SystemMessage(c.opts.SystemMessage))
	}
	messages = append(messages, openai.UserMessage(prompt))

	return openai.ChatCompletionNewParams{
		Messages:            messages,
		Model:               openai.ChatModel(c.opts.Model),
		Temperature:         openai.Float(temperature),
		MaxCompletionTokens: openai.Int(c.opts.MaxTokens),
	}
}

// Complete implements inference.Client.
func (c *Client) Complete(ctx context.Context, prompt string, temperature float64) (string, error) {
	resp, err := c.client.Chat.Completions.New(ctx, c.buildParams(prompt, temperature))
	if err != nil {
		return "", inference.NewInferenceError("groq", "chat completion failed", err)
	}
	if len(resp.Choices) == 0 {
		return "", inference.NewInferenceError("groq", "no choices returned", nil)
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", inference.NewInferenceError("groq", "empty completion", nil)
	}

	return text, nil
}

// CompleteStream implements inference.Client. Fragments are forwarded in
// delivery order; cancelling ctx closes the underlying SSE stream.
func (c *Client) CompleteStream(ctx context.Context, prompt string, temperature float64) (<-chan string, <-chan error) {
	out := make(chan string, 32)
	errCh := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errCh)

		stream := c.client.Chat.Completions.NewStreaming(ctx, c.buildParams(prompt, temperature))
		defer stream.Close()

		for stream.Next() {
			chunk := stream.Current()
			for _, choice := range chunk.Choices {
				if choice.Delta.Content == "" {
					continue
				}
				select {
				case <-ctx.Done():
					errCh <- inference.NewInferenceError("groq", "stream cancelled", ctx.Err())
					return
				case out <- choice.Delta.Content:
				}
			}
		}
		if err := stream.Err(); err != nil {
			errCh <- inference.NewInferenceError("groq", "streaming completion failed", err)
		}
	}()

	return out, errCh
}

// Provider implements inference.Client.
func (c *Client) Provider() string { return "groq" }
