package prompt

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sarib95965/llm-agent/tool"
)

func stubTool(name, description string) tool.Tool {
	return tool.NewFunctionTool(name, description, map[string]any{
		"type": "object",
		"properties": map[string]any{
			"q": map[string]any{"type": "string"},
		},
		"required": []string{"q"},
	}, func(context.Context, map[string]any) (any, error) { return nil, nil })
}

func TestDecision_EmbedsCatalog(t *testing.T) {
	p := Decision("What is the price of BTC?", []tool.Tool{
		stubTool("finance", "Fetch market data"),
		stubTool("websearch", "Search the web"),
	})

	assert.Contains(t, p, "finance: Fetch market data")
	assert.Contains(t, p, "websearch: Search the web")
	assert.Contains(t, p, `"What is the price of BTC?"`)
	assert.Contains(t, p, `{"plans":`)
}

func TestSynthesis_EmbedsInputAndResults(t *testing.T) {
	p := Synthesis("What is the price of BTC?", `{"finance": {"status": "success"}}`)

	assert.Contains(t, p, `"What is the price of BTC?"`)
	assert.Contains(t, p, `"finance"`)
}

func TestSynthesis_EmptyResults(t *testing.T) {
	p := Synthesis("Hello", "")

	assert.Contains(t, p, NoToolOutput)
	assert.NotContains(t, p, "status")
}
