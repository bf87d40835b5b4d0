package schema

// CheckViolation records a single policy that the change set broke.
type CheckViolation struct {
	Rule      string `json:"rule"`
	Observed  int    `json:"observed"`
	Threshold int    `json:"threshold"`
}

// CheckResult represents the result of a CI/CD policy check.
type CheckResult struct {
	Passed          bool               `json:"passed"`
	Violations      []CheckViolation   `json:"violations"`
	TotalFiles      int                `json:"totalFiles"`
	BaseRef         string             `json:"baseRef,omitempty"`
	TargetRef       string             `json:"targetRef,omitempty"`
	CoveragePercent int                `json:"coverageEstimatePercent"`
	RiskScore       int                `json:"riskScore"`
	MinCoverage     int                `json:"minCoverage"`
	MaxRisk         int                `json:"maxRisk"`
	IdentifiedTests int                `json:"identifiedTests"`
	Uncovered       []Recommendation   `json:"uncovered"`
	Sources         []ClassifiedChange `json:"-"`
}

// TriggerRequest is the payload handed to a CI provider.
type TriggerRequest struct {
	RunID     string   `json:"runId"`
	Tests     []string `json:"tests"`
	Branch    string   `json:"branch,omitempty"`
	BaseRef   string   `json:"baseRef,omitempty"`
	TargetRef string   `json:"targetRef,omitempty"`
	PRNumber  string   `json:"prNumber,omitempty"`
}

// TriggerReceipt describes how a CI provider accepted a trigger.
type TriggerReceipt struct {
	Provider   string `json:"provider"`
	QueueURL   string `json:"queueUrl,omitempty"`
	StatusCode int    `json:"statusCode,omitempty"`
	DryRun     bool   `json:"dryRun"`
	TestCount  int    `json:"testCount"`
}
