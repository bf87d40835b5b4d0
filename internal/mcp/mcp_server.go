// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/vishal-mourya/Dynamic-Test-Identifier-And-Runner/internal/contract"
)

// NewMCPServer initializes and configures the test identifier MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.CacheManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Test Identifier Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	// --- 1. Tool: identify_tests ---
	s.AddTool(mcp.NewTool("identify_tests",
		mcp.WithDescription("Identify the tests relevant to the changes between two Git references."),
		mcp.WithString("base_ref", mcp.Description("The base reference, usually the target branch of the pull request."), mcp.Required()),
		mcp.WithString("target_ref", mcp.Description("The reference holding the changes. Defaults to HEAD.")),
		mcp.WithString("repo_path", mcp.Description("Path to the Git repository (defaults to current directory if not specified).")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of tests returned.")),
		mcp.WithBoolean("use_index", mcp.Description("Check candidates against the repository tree. Defaults to true.")),
	), h.handleIdentifyTests)

	// --- 2. Tool: analyze_changes ---
	s.AddTool(mcp.NewTool("analyze_changes",
		mcp.WithDescription("Identify relevant tests for a change document (JSON or YAML with changedFiles)."),
		mcp.WithString("changes", mcp.Description("The change document. Must contain a changedFiles array."), mcp.Required()),
		mcp.WithString("repository_files", mcp.Description("Newline separated repository listing. Overrides repositoryFiles from the document.")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of tests returned.")),
	), h.handleAnalyzeChanges)

	// --- 3. Tool: synthesize_template ---
	s.AddTool(mcp.NewTool("synthesize_template",
		mcp.WithDescription("Generate an empty test skeleton for a function or file."),
		mcp.WithString("name", mcp.Description("The function or file name to test."), mcp.Required()),
		mcp.WithString("language", mcp.Description("Language id or file extension (e.g. go, python, .ts)."), mcp.Required()),
	), h.handleSynthesizeTemplate)

	// --- 4. Tool: list_languages ---
	s.AddTool(mcp.NewTool("list_languages",
		mcp.WithDescription("List the supported languages with their test file conventions and frameworks."),
	), h.handleListLanguages)

	return s
}

// StartMCPServer starts the test identifier MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.CacheManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
