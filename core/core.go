// Package core wires change loading, the relevance engine, history tracking,
// and output together for each command.
package core

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/vishal-mourya/Dynamic-Test-Identifier-And-Runner/core/recommend"
	"github.com/vishal-mourya/Dynamic-Test-Identifier-And-Runner/core/registry"
	"github.com/vishal-mourya/Dynamic-Test-Identifier-And-Runner/internal/contract"
	"github.com/vishal-mourya/Dynamic-Test-Identifier-And-Runner/internal/outwriter"
	"github.com/vishal-mourya/Dynamic-Test-Identifier-And-Runner/schema"
)

// ExecutorFunc defines the function signature for executing an analysis command.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error

// ExecuteAnalyze identifies the tests relevant to the configured change set
// and prints them. It serves as the main entry point for the 'analyze' command.
func ExecuteAnalyze(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	return executeAnalyze(ctx, cfg, contract.NewLocalGitClient(), mgr)
}

func executeAnalyze(ctx context.Context, cfg *contract.Config, client contract.GitClient, mgr contract.CacheManager) error {
	start := time.Now()
	output, err := getAnalysisOutput(ctx, cfg, client, mgr)
	if err != nil {
		return err
	}
	duration := time.Since(start)
	return outwriter.NewOutWriter().WriteAnalysis(&output.Result, cfg, duration)
}

// ExecuteLanguages prints the language profiles known to the registry.
func ExecuteLanguages(_ context.Context, cfg *contract.Config) error {
	return outwriter.NewOutWriter().WriteLanguages(registry.Default().AllProfiles(), cfg)
}

// ExecuteTemplate prints a test skeleton for the named unit. Without a
// language the name is taken as a source path and its extension decides.
func ExecuteTemplate(_ context.Context, cfg *contract.Config, name, language string) error {
	var text string
	var err error
	if language == "" {
		text, err = recommend.TemplateForSource(name, registry.Default())
	} else {
		text, err = recommend.SynthesizeTemplate(name, language, registry.Default())
	}
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteTemplate(text, cfg)
}

// printAnalysisHeader prints a concise, 2-line header for an analysis.
// Machine-readable formats skip it so stdout stays parseable.
func printAnalysisHeader(cfg *contract.Config) {
	if cfg.Output != schema.TextOut {
		return
	}
	repoName := filepath.Base(cfg.RepoPath)
	if repoName == "" || repoName == "." {
		repoName = "current"
	}

	index := "git"
	switch {
	case cfg.NoIndex:
		index = "none"
	case cfg.IndexFile != "":
		index = cfg.IndexFile
	case !cfg.HasRepo:
		index = "none"
	}
	fmt.Printf("🔎 Repo: %s (Index: %s)\n", repoName, index)

	switch {
	case cfg.InputFile != "":
		fmt.Printf("📄 Changes: %s\n", cfg.InputFile)
	case cfg.DiffFile != "":
		fmt.Printf("📄 Diff: %s\n", cfg.DiffFile)
	default:
		fmt.Printf("🔀 Range: %s...%s\n", cfg.BaseRef, cfg.TargetRef)
	}
}
