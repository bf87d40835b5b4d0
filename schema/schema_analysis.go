package schema

// ChangedFile is one entry of a pull request change set.
type ChangedFile struct {
	Path         string       `json:"path" yaml:"path"`
	Status       ChangeStatus `json:"status" yaml:"status"`
	Additions    int          `json:"additions" yaml:"additions"`
	Deletions    int          `json:"deletions" yaml:"deletions"`
	PreviousPath string       `json:"previousPath,omitempty" yaml:"previousPath,omitempty"`
	DiffText     string       `json:"diffText,omitempty" yaml:"diffText,omitempty"`
}

// ChangedLines returns the number of lines touched by the change.
func (c ChangedFile) ChangedLines() int {
	return c.Additions + c.Deletions
}

// LanguageProfile describes the test conventions of one language.
type LanguageProfile struct {
	ID           string   `json:"id"`
	Extensions   []string `json:"extensions"`
	TestPatterns []string `json:"testPatterns"`
	Frameworks   []string `json:"frameworks"`

	// FrameworkMarkers maps a framework label to substrings that reveal it in diff text.
	FrameworkMarkers map[string][]string `json:"-"`
}

// ClassifiedFile is the result of classifying a single path.
type ClassifiedFile struct {
	Path        string `json:"path"`
	Language    string `json:"language"`
	Role        Role   `json:"role"`
	ViaFallback bool   `json:"viaFallback,omitempty"`
}

// ClassifiedChange pairs a classification with the change metadata it came from.
type ClassifiedChange struct {
	ClassifiedFile
	Status    ChangeStatus `json:"status"`
	Additions int          `json:"additions"`
	Deletions int          `json:"deletions"`
	DiffText  string       `json:"-"`
}

// ChangedLines returns the number of lines touched by the change.
func (c ClassifiedChange) ChangedLines() int {
	return c.Additions + c.Deletions
}

// Deleted reports whether the file was removed by the change.
func (c ClassifiedChange) Deleted() bool {
	return c.Status == StatusDeleted
}

// TestCandidate is a test file deemed relevant to a change.
type TestCandidate struct {
	TestPath   string  `json:"testPath"`
	SourcePath string  `json:"sourcePath,omitempty"`
	Origin     Origin  `json:"origin"`
	Confidence float64 `json:"confidence"`
	Reason     string  `json:"reason"`
}

// Recommendation is an actionable suggestion for an uncovered source file.
type Recommendation struct {
	SourcePath        string   `json:"sourcePath"`
	Severity          Severity `json:"severity"`
	Message           string   `json:"message"`
	SuggestedTestPath string   `json:"suggestedTestPath"`
}

// Estimate holds the coverage and risk estimates for a change set.
type Estimate struct {
	CoveragePercent int `json:"coverageEstimatePercent"`
	RiskScore       int `json:"riskScore"`
}

// LanguageSummary aggregates the classified files of one language.
type LanguageSummary struct {
	Language    string   `json:"language"`
	SourceFiles int      `json:"sourceFiles"`
	TestFiles   int      `json:"testFiles"`
	Frameworks  []string `json:"frameworks"`
	Detected    bool     `json:"frameworksDetected"`
}

// AnalysisResult is the complete output of one analysis.
type AnalysisResult struct {
	RunID                   string             `json:"runId"`
	Mode                    MatchMode          `json:"mode"`
	IdentifiedTests         []TestCandidate    `json:"identifiedTests"`
	SourceFiles             []ClassifiedChange `json:"sourceFiles"`
	CoverageEstimatePercent int                `json:"coverageEstimatePercent"`
	RiskScore               int                `json:"riskScore"`
	Recommendations         []Recommendation   `json:"recommendations"`
	Languages               []LanguageSummary  `json:"languages,omitempty"`
	RejectedPaths           []string           `json:"rejectedPaths,omitempty"`
	IgnoredPaths            []string           `json:"ignoredPaths,omitempty"`
	FallbackApplied         bool               `json:"fallbackApplied,omitempty"`
	TotalChangedFiles       int                `json:"totalChangedFiles"`
}

// TestPaths flattens the identified tests into a list of paths.
// Suggested tests do not exist yet and are only included on request.
func (r AnalysisResult) TestPaths(includeSuggested bool) []string {
	paths := make([]string, 0, len(r.IdentifiedTests))
	for _, c := range r.IdentifiedTests {
		if c.Origin == OriginSuggested && !includeSuggested {
			continue
		}
		paths = append(paths, c.TestPath)
	}
	return paths
}

// FileIndex is the set of every path present in the repository.
// A nil index means no listing is available.
type FileIndex map[string]struct{}

// NewFileIndex builds an index from a list of paths.
func NewFileIndex(paths []string) FileIndex {
	idx := make(FileIndex, len(paths))
	for _, p := range paths {
		if p != "" {
			idx[p] = struct{}{}
		}
	}
	return idx
}

// Has reports whether the path is present.
func (f FileIndex) Has(path string) bool {
	_, ok := f[path]
	return ok
}

// PullRequestMeta carries optional context about the pull request under analysis.
type PullRequestMeta struct {
	Number    string `json:"number,omitempty" yaml:"number,omitempty"`
	Title     string `json:"title,omitempty" yaml:"title,omitempty"`
	Branch    string `json:"branch,omitempty" yaml:"branch,omitempty"`
	BaseRef   string `json:"baseRef,omitempty" yaml:"baseRef,omitempty"`
	TargetRef string `json:"targetRef,omitempty" yaml:"targetRef,omitempty"`
	URL       string `json:"url,omitempty" yaml:"url,omitempty"`
}
