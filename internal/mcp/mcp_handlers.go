package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/vishal-mourya/Dynamic-Test-Identifier-And-Runner/core"
	"github.com/vishal-mourya/Dynamic-Test-Identifier-And-Runner/core/recommend"
	"github.com/vishal-mourya/Dynamic-Test-Identifier-And-Runner/core/registry"
	"github.com/vishal-mourya/Dynamic-Test-Identifier-And-Runner/internal/contract"
	"github.com/vishal-mourya/Dynamic-Test-Identifier-And-Runner/internal/input"
	"github.com/vishal-mourya/Dynamic-Test-Identifier-And-Runner/schema"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.CacheManager
}

// applyLimit copies a positive limit argument onto the config.
func applyLimit(cfg *contract.Config, request mcp.CallToolRequest) error {
	l := request.GetInt("limit", 0)
	if l < 0 || l > contract.MaxResultLimit {
		return fmt.Errorf("limit must be between 1 and %d", contract.MaxResultLimit)
	}
	if l > 0 {
		cfg.ResultLimit = l
	}
	return nil
}

func (h *toolHandler) handleIdentifyTests(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	cfg.InputFile, cfg.DiffFile = "", ""
	cfg.BaseRef = request.GetString("base_ref", "")
	cfg.TargetRef = request.GetString("target_ref", "HEAD")
	cfg.NoIndex = !request.GetBool("use_index", true)
	if p := request.GetString("repo_path", ""); p != "" {
		cfg.RepoPath = p
		cfg.HasRepo = true
	}

	if cfg.BaseRef == "" {
		return mcp.NewToolResultError("invalid parameters: base_ref is required"), nil
	}
	if err := applyLimit(cfg, request); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}

	result, _, err := core.GetAnalysisResults(core.WithSuppressHeader(ctx), cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(schema.EnrichAnalysis(*result), "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleAnalyzeChanges(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if err := applyLimit(cfg, request); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}

	doc, err := input.Parse([]byte(request.GetString("changes", "")))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}

	cs := core.ChangeSetFromDocument(doc)
	if listing := request.GetString("repository_files", ""); listing != "" {
		paths, err := input.ReadIndex(strings.NewReader(listing))
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
		}
		cs.Index = schema.NewFileIndex(paths)
	}

	var client contract.GitClient
	if cfg.HasRepo {
		client = contract.NewLocalGitClient()
	}
	result, err := core.AnalyzeChangeSet(ctx, cfg, cs, client, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(schema.EnrichAnalysis(*result), "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleSynthesizeTemplate(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := request.GetString("name", "")
	language := request.GetString("language", "")

	text, err := recommend.SynthesizeTemplate(name, language, registry.Default())
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("template failed: %v", err)), nil
	}
	return mcp.NewToolResultText(text), nil
}

func (h *toolHandler) handleListLanguages(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	jsonData, _ := json.MarshalIndent(registry.Default().AllProfiles(), "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
