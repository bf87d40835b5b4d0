// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/vishal-mourya/Dynamic-Test-Identifier-And-Runner/schema"
)

// GitClient defines the Git operations the analysis needs.
// This allows the core analysis logic to be tested without needing a real git executable.
type GitClient interface {
	// --- Generic / Low-Level ---

	// Run executes a git command and returns its output.
	// Its use should be minimized in favor of the explicit methods below.
	Run(ctx context.Context, repoPath string, args ...string) ([]byte, error)

	// --- Reference Resolution ---

	// GetRepoHash returns the current HEAD commit hash of the repository.
	GetRepoHash(ctx context.Context, repoPath string) (string, error)

	// GetRepoRoot returns the absolute path to the root of the Git repository
	// containing the given context path.
	GetRepoRoot(ctx context.Context, contextPath string) (string, error)

	// ResolveRef returns the commit hash a reference points to.
	ResolveRef(ctx context.Context, repoPath string, ref string) (string, error)

	// --- File State / Content ---

	// ListFilesAtRef returns every tracked file in the repository at a specific reference.
	ListFilesAtRef(ctx context.Context, repoPath string, ref string) ([]string, error)

	// --- Change Sets ---

	// GetDiff returns the unified diff between two references.
	GetDiff(ctx context.Context, repoPath string, baseRef string, targetRef string) ([]byte, error)

	// GetChangedFiles returns the parsed change set between two references.
	GetChangedFiles(ctx context.Context, repoPath string, baseRef string, targetRef string) ([]schema.ChangedFile, error)
}

// CacheManager defines the interface for managing stores.
// This allows the cache layer to be mocked for testing.
type CacheManager interface {
	GetIndexStore() CacheStore
	GetAnalysisStore() AnalysisStore
}

// CacheStore defines the interface for cache data storage.
// This allows mocking the store for testing.
type CacheStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	GetStatus() (schema.CacheStatus, error)
	Close() error
}

// AnalysisStore defines the interface for tracking analysis runs and their outcomes.
type AnalysisStore interface {
	// BeginAnalysis creates a new analysis run and returns its unique ID
	BeginAnalysis(runUUID string, startTime time.Time, configParams map[string]any) (int64, error)

	// EndAnalysis updates the analysis run with completion data
	EndAnalysis(analysisID int64, endTime time.Time, summary schema.RunSummary) error

	// RecordCandidates stores the identified tests of a run
	RecordCandidates(analysisID int64, candidates []schema.TestCandidate) error

	// RecordRecommendations stores the recommendations of a run
	RecordRecommendations(analysisID int64, recs []schema.Recommendation) error

	// GetStatus returns status information about the analysis store
	GetStatus() (schema.AnalysisStatus, error)

	// GetAllAnalysisRuns returns every recorded run, newest first
	GetAllAnalysisRuns() ([]schema.AnalysisRunRecord, error)

	// GetAllCandidates returns every recorded candidate
	GetAllCandidates() ([]schema.CandidateRecord, error)

	// Close closes the underlying connection
	Close() error
}

// CITrigger hands a set of tests to a continuous integration system.
type CITrigger interface {
	// Name identifies the provider in receipts and logs.
	Name() string

	// Trigger queues a run of the requested tests.
	Trigger(ctx context.Context, req schema.TriggerRequest) (schema.TriggerReceipt, error)
}
