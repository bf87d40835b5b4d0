package core

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vishal-mourya/Dynamic-Test-Identifier-And-Runner/internal/contract"
	"github.com/vishal-mourya/Dynamic-Test-Identifier-And-Runner/internal/input"
	"github.com/vishal-mourya/Dynamic-Test-Identifier-And-Runner/schema"
)

// ChangeSet is everything known about one pull request before analysis.
type ChangeSet struct {
	Files       []schema.ChangedFile
	PullRequest *schema.PullRequestMeta
	Index       schema.FileIndex // listing supplied alongside the changes, if any
	Limit       int              // per-request override of the result limit
}

// ChangeSetFromDocument adapts a parsed change document.
func ChangeSetFromDocument(doc *input.Document) *ChangeSet {
	return &ChangeSet{
		Files:       doc.ChangedFiles,
		PullRequest: doc.PullRequest,
		Index:       doc.Index(),
		Limit:       doc.Limit,
	}
}

// AnalysisOutput is a finished analysis with the context it ran in.
type AnalysisOutput struct {
	Result      schema.AnalysisResult
	PullRequest *schema.PullRequestMeta
}

// loadChangeSet reads the change set from a change document, a diff file, or Git.
func loadChangeSet(ctx context.Context, cfg *contract.Config, client contract.GitClient) (*ChangeSet, error) {
	switch {
	case cfg.InputFile != "":
		doc, err := input.Load(cfg.InputFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load change document %q: %w", cfg.InputFile, err)
		}
		return ChangeSetFromDocument(doc), nil
	case cfg.DiffFile != "":
		files, err := input.LoadDiff(cfg.DiffFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load diff %q: %w", cfg.DiffFile, err)
		}
		return &ChangeSet{Files: files}, nil
	default:
		files, err := client.GetChangedFiles(ctx, cfg.RepoPath, cfg.BaseRef, cfg.TargetRef)
		if err != nil {
			return nil, fmt.Errorf("failed to get changed files between %q and %q: %w. Verify both refs exist in the repository", cfg.BaseRef, cfg.TargetRef, err)
		}
		return &ChangeSet{Files: files}, nil
	}
}

// AnalyzeChangeSet runs one analysis over a change set. The repository index
// comes from the change set when it carries one, otherwise from LoadIndex.
// A nil client is allowed when cfg.HasRepo is false.
func AnalyzeChangeSet(ctx context.Context, cfg *contract.Config, cs *ChangeSet, client contract.GitClient, mgr contract.CacheManager) (*schema.AnalysisResult, error) {
	files, excluded := contract.FilterExcluded(cs.Files, cfg.Excludes)
	if len(excluded) > 0 {
		contract.Logger.Debug("Excluded changed files", "count", len(excluded))
	}

	var index schema.FileIndex
	if !cfg.NoIndex {
		index = cs.Index
		if index == nil {
			var err error
			index, err = LoadIndex(ctx, cfg, client, mgr)
			if err != nil {
				return nil, err
			}
		}
	}

	limit := cfg.ResultLimit
	if cs.Limit > 0 {
		limit = min(cs.Limit, contract.MaxResultLimit)
	}

	runID := uuid.New().String()
	tracker := beginAnalysisTracking(cfg, mgr, runID, limit)

	result := Analyze(files, index, AnalyzeOptions{
		MaxResults:   limit,
		MinRelevance: cfg.MinRelevance,
		RunID:        runID,
	})
	for _, p := range result.RejectedPaths {
		contract.Logger.Warn("Rejected changed path", "path", p)
	}

	tracker.finish(&result)
	return &result, nil
}

// getAnalysisOutput loads the configured change set and analyzes it.
func getAnalysisOutput(ctx context.Context, cfg *contract.Config, client contract.GitClient, mgr contract.CacheManager) (*AnalysisOutput, error) {
	if !shouldSuppressHeader(ctx) {
		printAnalysisHeader(cfg)
	}

	cs, err := loadChangeSet(ctx, cfg, client)
	if err != nil {
		return nil, err
	}
	result, err := AnalyzeChangeSet(ctx, cfg, cs, client, mgr)
	if err != nil {
		return nil, err
	}
	return &AnalysisOutput{Result: *result, PullRequest: cs.PullRequest}, nil
}

// GetAnalysisResults runs the analysis without printing results.
// It returns the result and the time it took.
func GetAnalysisResults(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) (*schema.AnalysisResult, time.Duration, error) {
	start := time.Now()
	output, err := getAnalysisOutput(ctx, cfg, contract.NewLocalGitClient(), mgr)
	if err != nil {
		return nil, 0, err
	}
	return &output.Result, time.Since(start), nil
}

// analysisTracker records a single run in the analysis store.
// A nil tracker is valid and records nothing.
type analysisTracker struct {
	store contract.AnalysisStore
	id    int64
}

// beginAnalysisTracking opens a run when an analysis store is configured.
func beginAnalysisTracking(cfg *contract.Config, mgr contract.CacheManager, runID string, limit int) *analysisTracker {
	if mgr == nil {
		return nil
	}
	store := mgr.GetAnalysisStore()
	if store == nil {
		return nil
	}

	configParams := map[string]any{
		"repo_path":     cfg.RepoPath,
		"base_ref":      cfg.BaseRef,
		"target_ref":    cfg.TargetRef,
		"input":         cfg.InputFile,
		"diff":          cfg.DiffFile,
		"no_index":      cfg.NoIndex,
		"result_limit":  limit,
		"min_relevance": cfg.MinRelevance,
	}
	id, err := store.BeginAnalysis(runID, time.Now(), configParams)
	if err != nil {
		contract.LogWarn("Analysis tracking initialization failed", err)
		return nil
	}
	if id <= 0 {
		return nil
	}
	return &analysisTracker{store: store, id: id}
}

// finish stores the outcome and closes the run.
func (t *analysisTracker) finish(result *schema.AnalysisResult) {
	if t == nil {
		return
	}
	if err := t.store.RecordCandidates(t.id, result.IdentifiedTests); err != nil {
		contract.LogWarn("Failed to record test candidates", err)
	}
	if err := t.store.RecordRecommendations(t.id, result.Recommendations); err != nil {
		contract.LogWarn("Failed to record recommendations", err)
	}
	summary := schema.RunSummary{
		Mode:            result.Mode,
		TotalFiles:      result.TotalChangedFiles,
		CoveragePercent: result.CoverageEstimatePercent,
		RiskScore:       result.RiskScore,
	}
	if err := t.store.EndAnalysis(t.id, time.Now(), summary); err != nil {
		contract.LogWarn("Failed to finalize analysis tracking", err)
	}
}
