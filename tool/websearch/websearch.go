// Package websearch provides a web search tool backed by the Tavily search API.
package websearch

import (
	"context"
	"fmt"
	"net/http"
	"time"

	tavilygo "github.com/diverged/tavily-go"
	tavilymodels "github.com/diverged/tavily-go/models"

	"github.com/sarib95965/llm-agent/tool"
)

// Name is the tool identifier used in invocation plans.
const Name = "websearch"

// DefaultMaxResults bounds the number of results returned when the plan does
// not specify one.
const DefaultMaxResults = 5

// SearchResult is a single normalized hit returned to the synthesis stage.
type SearchResult struct {
	Title   string  `json:"title"`
	URL     string  `json:"link"`
	Snippet string  `json:"snippet"`
	Score   float64 `json:"score,omitempty"`
}

// Result is the payload recorded for a successful search.
type Result struct {
	Query   string         `json:"query"`
	Answer  string         `json:"answer,omitempty"`
	Results []SearchResult `json:"results"`
	Source  string         `json:"source"`
}

// Options configure the websearch tool.
type Options struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
}

// Tool performs a real web search via Tavily. It holds no per-request state
// and is safe for concurrent use.
type Tool struct {
	opts Options
}

var _ tool.Tool = (*Tool)(nil)

// New creates a websearch tool.
func New(optFns ...func(o *Options)) *Tool {
	opts := Options{
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Tool{opts: opts}
}

// Name returns the unique tool name.
func (t *Tool) Name() string { return Name }

// Description returns the description shown to the decision stage.
func (t *Tool) Description() string {
	return "Perform a real web search using the Tavily search API. " +
		"Arguments: 'query' (string, required) and optional 'max_results' (integer, default 5)."
}

// Parameters returns the argument schema.
func (t *Tool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"query":       map[string]any{"type": "string", "description": "The search query"},
			"max_results": map[string]any{"type": "integer", "description": "Maximum number of results to return"},
		},
		"required": []string{"query"},
	}
}

// Call executes a web search. Missing arguments and upstream failures are
// reported as *tool.ToolError.
func (t *Tool) Call(ctx context.Context, args map[string]any) (any, error) {
	query, _ := args["query"].(string)
	if query == "" {
		return nil, tool.NewToolError(Name, "missing required argument 'query'", "VALIDATION_ERROR")
	}

	maxResults := DefaultMaxResults
	switch v := args["max_results"].(type) {
	case float64: // JSON numbers decode as float64
		if v > 0 {
			maxResults = int(v)
		}
	case int:
		if v > 0 {
			maxResults = v
		}
	}

	client := tavilygo.NewClient(t.opts.APIKey)
	if t.opts.BaseURL != "" {
		client.BaseURL = t.opts.BaseURL
	}
	if t.opts.HTTPClient != nil {
		client.HTTPClient = t.opts.HTTPClient
	}

	resp, err := tavilygo.Search(client, tavilymodels.SearchRequest{
		Query:         query,
		SearchDepth:   "basic",
		IncludeAnswer: true,
		MaxResults:    maxResults,
	})
	if err != nil {
		return nil, tool.NewToolError(Name, fmt.Sprintf("tavily search failed: %v", err), "UPSTREAM_ERROR")
	}

	results := make([]SearchResult, 0, len(resp.Results))
	for _, r := range resp.Results {
		results = append(results, SearchResult{
			Title:   r.Title,
			URL:     r.URL,
			Snippet: r.Content,
			Score:   r.Score,
		})
	}

	return &Result{Query: query, Answer: resp.Answer, Results: results, Source: "tavily"}, nil
}
