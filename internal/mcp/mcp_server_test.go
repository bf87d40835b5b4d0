package mcp_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vishal-mourya/Dynamic-Test-Identifier-And-Runner/internal/contract"
	mcp_internal "github.com/vishal-mourya/Dynamic-Test-Identifier-And-Runner/internal/mcp"
	"github.com/vishal-mourya/Dynamic-Test-Identifier-And-Runner/schema"
)

func callTool(t *testing.T, cfg *contract.Config, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	// No stores: tracking and index caching are skipped
	var mgr contract.CacheManager
	s := mcp_internal.NewMCPServer(cfg, mgr)

	tool := s.GetTool(name)
	require.NotNil(t, tool, "Tool %s should exist", name)

	res, err := tool.Handler(context.Background(), mcp.CallToolRequest{
		Params: mcp.CallToolParams{Name: name, Arguments: args},
	})
	require.NoError(t, err, "The MCP handler should not return a raw error for tool logic failures")
	require.NotNil(t, res)
	return res
}

func textOf(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func baseConfig() *contract.Config {
	return &contract.Config{
		RepoPath:     ".",
		ResultLimit:  contract.DefaultResultLimit,
		MinRelevance: contract.DefaultMinRelevance,
		Excludes:     contract.DefaultExcludes,
	}
}

func TestMCPServerHandlers_ValidationErrors(t *testing.T) {
	tests := []struct {
		name     string
		tool     string
		args     map[string]any
		contains string
	}{
		{"identify_tests missing base_ref", "identify_tests", map[string]any{"base_ref": ""}, "base_ref is required"},
		{"identify_tests limit too large", "identify_tests", map[string]any{"base_ref": "main", "limit": 5000.0}, "limit must be between"},
		{"analyze_changes empty document", "analyze_changes", map[string]any{"changes": ""}, "invalid change document"},
		{"analyze_changes missing changedFiles", "analyze_changes", map[string]any{"changes": `{"limit": 3}`}, "invalid change document"},
		{"synthesize_template unknown language", "synthesize_template", map[string]any{"name": "parse", "language": "cobol"}, "template failed"},
		{"synthesize_template empty name", "synthesize_template", map[string]any{"name": "", "language": "go"}, "template failed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := callTool(t, baseConfig(), tt.tool, tt.args)
			assert.True(t, res.IsError, "The response should indicate an error state")
			assert.Contains(t, textOf(t, res), tt.contains)
		})
	}
}

func TestMCPAnalyzeChanges(t *testing.T) {
	doc := `{
  "changedFiles": [
    {"path": "src/cart.js", "status": "modified", "additions": 12},
    {"path": "src/cart.test.js", "status": "modified", "additions": 3}
  ],
  "repositoryFiles": ["src/cart.js", "src/cart.test.js"]
}`
	res := callTool(t, baseConfig(), "analyze_changes", map[string]any{"changes": doc})
	require.False(t, res.IsError, textOf(t, res))

	var got schema.EnrichedAnalysisResult
	require.NoError(t, json.Unmarshal([]byte(textOf(t, res)), &got))
	assert.Equal(t, schema.IndexMode, got.Mode)
	require.NotEmpty(t, got.IdentifiedTests)
	assert.Equal(t, "src/cart.test.js", got.IdentifiedTests[0].TestPath)
	assert.Equal(t, 1, got.IdentifiedTests[0].Rank)
	assert.Equal(t, 100, got.CoverageEstimatePercent)
}

func TestMCPSynthesizeTemplate(t *testing.T) {
	res := callTool(t, baseConfig(), "synthesize_template", map[string]any{"name": "parse_order", "language": "go"})
	require.False(t, res.IsError)
	assert.Contains(t, textOf(t, res), "func TestParseOrder(t *testing.T)")
}

func TestMCPListLanguages(t *testing.T) {
	res := callTool(t, baseConfig(), "list_languages", nil)
	require.False(t, res.IsError)

	var profiles []schema.LanguageProfile
	require.NoError(t, json.Unmarshal([]byte(textOf(t, res)), &profiles))
	var ids []string
	for _, p := range profiles {
		ids = append(ids, p.ID)
	}
	assert.Contains(t, ids, "go")
	assert.Contains(t, ids, "python")
}

func TestMCPAnalyzeChangesRepositoryFiles(t *testing.T) {
	doc := "changedFiles:\n  - path: app/billing.py\n    additions: 4\n"
	res := callTool(t, baseConfig(), "analyze_changes", map[string]any{
		"changes":          doc,
		"repository_files": "app/billing.py\napp/tests/billing.py\n",
	})
	require.False(t, res.IsError, textOf(t, res))

	var got schema.EnrichedAnalysisResult
	require.NoError(t, json.Unmarshal([]byte(textOf(t, res)), &got))
	assert.Equal(t, schema.IndexMode, got.Mode)
	require.NotEmpty(t, got.IdentifiedTests)
	assert.Equal(t, "app/tests/billing.py", got.IdentifiedTests[0].TestPath)
	assert.Equal(t, schema.OriginExisting, got.IdentifiedTests[0].Origin)
}
