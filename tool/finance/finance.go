// Package finance provides a market data tool backed by the Finnhub quote API.
package finance

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sarib95965/llm-agent/tool"
)

// Name is the tool identifier used in invocation plans.
const Name = "finance"

const defaultBaseURL = "https://finnhub.io/api/v1"

// Quote mirrors the fields of Finnhub's /quote response.
type Quote struct {
	Current       float64 `json:"c"`
	Change        float64 `json:"d"`
	PercentChange float64 `json:"dp"`
	High          float64 `json:"h"`
	Low           float64 `json:"l"`
	Open          float64 `json:"o"`
	PreviousClose float64 `json:"pc"`
	Timestamp     int64   `json:"t"`
}

// Result is the payload recorded for a successful quote lookup.
type Result struct {
	Symbol string `json:"symbol"`
	Type   string `json:"type"`
	Data   Quote  `json:"data"`
	Source string `json:"source"`
}

// Options configure the finance tool.
type Options struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
}

// Tool fetches real-time quotes for stocks, crypto and forex pairs.
// It has no mutable state and is safe for concurrent use.
type Tool struct {
	opts Options
}

var _ tool.Tool = (*Tool)(nil)

// New creates a finance tool. A dedicated HTTP client with a timeout is used
// by default so a hung upstream cannot stall tool execution indefinitely.
func New(optFns ...func(o *Options)) *Tool {
	opts := Options{
		BaseURL:    defaultBaseURL,
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
	return "Fetch real-time financial market data (stocks, crypto, forex) using the Finnhub API. " +
		"Arguments: 'type' ('stock' | 'crypto' | 'forex', default 'stock') and 'symbol' (e.g. 'AAPL', 'BTC', 'EUR/USD')."
}

// Parameters returns the argument schema.
func (t *Tool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"type":   map[string]any{"type": "string", "description": "Asset class: stock, crypto or forex"},
			"symbol": map[string]any{"type": "string", "description": "Ticker symbol, e.g. AAPL or BTC"},
		},
		"required": []string{"symbol"},
	}
}

// Call executes a quote lookup. Missing or malformed arguments and upstream
// failures are reported as *tool.ToolError.
func (t *Tool) Call(ctx context.Context, args map[string]any) (any, error) {
	symbol, _ := args["symbol"].(string)
	if symbol == "" {
		return nil, tool.NewToolError(Name, "missing required argument 'symbol'", "VALIDATION_ERROR")
	}

	queryType := "stock"
	if v, ok := args["type"].(string); ok && v != "" {
		queryType = v
	}
	switch queryType {
	case "stock", "crypto", "forex":
	default:
		return nil, tool.NewToolError(Name, fmt.Sprintf("unsupported type %q", queryType), "VALIDATION_ERROR")
	}

	quote, err := t.fetchQuote(ctx, symbol)
	if err != nil {
		return nil, err
	}

	return &Result{Symbol: symbol, Type: queryType, Data: *quote, Source: "finnhub"}, nil
}

func (t *Tool) fetchQuote(ctx context.Context, symbol string) (*Quote, error) {
	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("token", t.opts.APIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.opts.BaseURL+"/quote?"+params.Encode(), nil)
	if err != nil {
		return nil, tool.NewToolError(Name, err.Error(), "EXECUTION_ERROR")
	}

	resp, err := t.opts.HTTPClient.Do(req)
	if err != nil {
		return nil, tool.NewToolError(Name, fmt.Sprintf("finnhub request failed: %v", err), "UPSTREAM_ERROR")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, tool.NewToolError(Name, fmt.Sprintf("finnhub returned status %d", resp.StatusCode), "UPSTREAM_ERROR")
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, tool.NewToolError(Name, fmt.Sprintf("reading finnhub response: %v", err), "UPSTREAM_ERROR")
	}

	var quote Quote
	if err := json.Unmarshal(body, &quote); err != nil {
		return nil, tool.NewToolError(Name, fmt.Sprintf("malformed finnhub payload: %v", err), "UPSTREAM_ERROR")
	}

	return &quote, nil
}
