package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePlan_Envelope(t *testing.T) {
	plan, err := parsePlan(`{"plans": [{"tool": "finance", "args": {"type": "crypto", "symbol": "BTC"}}]}`)
	require.NoError(t, err)
	require.Len(t, plan, 1)
	assert.Equal(t, "finance", plan[0].Tool)
	assert.Equal(t, "BTC", plan[0].Args["symbol"])
}

func TestParsePlan_PreservesOrder(t *testing.T) {
	plan, err := parsePlan(`{"plans": [{"tool": "websearch", "args": {}}, {"tool": "finance", "args": {}}]}`)
	require.NoError(t, err)
	require.Len(t, plan, 2)
	assert.Equal(t, "websearch", plan[0].Tool)
	assert.Equal(t, "finance", plan[1].Tool)
}

func TestParsePlan_BareArray(t *testing.T) {
	plan, err := parsePlan(`[{"tool": "finance", "args": {"symbol": "AAPL"}}]`)
	require.NoError(t, err)
	require.Len(t, plan, 1)
	assert.Equal(t, "finance", plan[0].Tool)
}

func TestParsePlan_SingleEntry(t *testing.T) {
	plan, err := parsePlan(`{"tool": "websearch", "args": {"query": "golang"}}`)
	require.NoError(t, err)
	require.Len(t, plan, 1)
	assert.Equal(t, "websearch", plan[0].Tool)
}

func TestParsePlan_SurroundingProse(t *testing.T) {
	plan, err := parsePlan("Sure! Here is the plan you asked for:\n" +
		`{"plans": [{"tool": "finance", "args": {"symbol": "BTC"}}]}` +
		"\nLet me know if you need anything else.")
	require.NoError(t, err)
	require.Len(t, plan, 1)
	assert.Equal(t, "finance", plan[0].Tool)
}

func TestParsePlan_CodeFence(t *testing.T) {
	plan, err := parsePlan("```json\n{\"plans\": [{\"tool\": \"finance\", \"args\": {}}]}\n```")
	require.NoError(t, err)
	require.Len(t, plan, 1)
}

func TestParsePlan_EmptyVariants(t *testing.T) {
	for _, raw := range []string{
		"",
		"none",
		"None",
		`{"plans": []}`,
		`{"tool": null, "args": {}}`,
		"No tool is needed, none apply here.",
	} {
		plan, err := parsePlan(raw)
		require.NoError(t, err, "input %q", raw)
		assert.Empty(t, plan, "input %q", raw)
	}
}

func TestParsePlan_Garbage(t *testing.T) {
	_, err := parsePlan("buy low, sell high")
	require.Error(t, err)
	var parseErr *PlanParseError
	assert.ErrorAs(t, err, &parseErr)
}

func TestParsePlan_BrokenJSON(t *testing.T) {
	_, err := parsePlan(`{"plans": [{"tool": "finance", `)
	require.Error(t, err)
	var parseErr *PlanParseError
	assert.ErrorAs(t, err, &parseErr)
}
