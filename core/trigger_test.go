package core

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/vishal-mourya/Dynamic-Test-Identifier-And-Runner/internal/citrigger"
	"github.com/vishal-mourya/Dynamic-Test-Identifier-And-Runner/internal/contract"
	"github.com/vishal-mourya/Dynamic-Test-Identifier-And-Runner/schema"
)

func sampleOutput() *AnalysisOutput {
	return &AnalysisOutput{
		Result: schema.AnalysisResult{
			RunID: "run-9",
			IdentifiedTests: []schema.TestCandidate{
				{TestPath: "src/user.test.js", Origin: schema.OriginExisting},
				{TestPath: "src/order.test.js", Origin: schema.OriginSuggested},
			},
		},
		PullRequest: &schema.PullRequestMeta{Number: "17", Branch: "feature/orders", BaseRef: "develop"},
	}
}

func TestBuildTriggerRequest(t *testing.T) {
	tests := []struct {
		name     string
		cfg      contract.Config
		expected schema.TriggerRequest
	}{
		{
			name: "metadata from pull request",
			cfg:  contract.Config{},
			expected: schema.TriggerRequest{
				RunID:    "run-9",
				Tests:    []string{"src/user.test.js"},
				Branch:   "feature/orders",
				BaseRef:  "develop",
				PRNumber: "17",
			},
		},
		{
			name: "flags win and suggested included",
			cfg:  contract.Config{Branch: "hotfix", PRNumber: "99", BaseRef: "main", TargetRef: "HEAD", IncludeSuggested: true},
			expected: schema.TriggerRequest{
				RunID:     "run-9",
				Tests:     []string{"src/user.test.js", "src/order.test.js"},
				Branch:    "hotfix",
				BaseRef:   "main",
				TargetRef: "HEAD",
				PRNumber:  "99",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, BuildTriggerRequest(&tt.cfg, sampleOutput()))
		})
	}
}

func TestTriggerTests(t *testing.T) {
	t.Run("sends request", func(t *testing.T) {
		trigger := &citrigger.MockCITrigger{}
		trigger.On("Name").Return(contract.JenkinsProvider).Maybe()
		trigger.On("Trigger", mock.Anything, mock.MatchedBy(func(req schema.TriggerRequest) bool {
			return req.RunID == "run-9" && len(req.Tests) == 1
		})).Return(schema.TriggerReceipt{Provider: contract.JenkinsProvider, StatusCode: 201, TestCount: 1}, nil)

		cfg := &contract.Config{CITimeout: time.Second}
		req, receipt, err := TriggerTests(context.Background(), cfg, sampleOutput(), trigger)
		require.NoError(t, err)
		assert.Equal(t, []string{"src/user.test.js"}, req.Tests)
		assert.Equal(t, 201, receipt.StatusCode)
		trigger.AssertExpectations(t)
	})

	t.Run("nothing to send", func(t *testing.T) {
		trigger := &citrigger.MockCITrigger{}
		trigger.On("Name").Return(contract.JenkinsProvider)

		output := &AnalysisOutput{Result: schema.AnalysisResult{RunID: "run-0"}}
		req, receipt, err := TriggerTests(context.Background(), &contract.Config{}, output, trigger)
		require.NoError(t, err)
		assert.Empty(t, req.Tests)
		assert.Equal(t, contract.JenkinsProvider, receipt.Provider)
		trigger.AssertNotCalled(t, "Trigger", mock.Anything, mock.Anything)
	})

	t.Run("provider error", func(t *testing.T) {
		trigger := &citrigger.MockCITrigger{}
		trigger.On("Name").Return(contract.JenkinsProvider)
		trigger.On("Trigger", mock.Anything, mock.Anything).Return(schema.TriggerReceipt{}, assert.AnError)

		_, _, err := TriggerTests(context.Background(), &contract.Config{}, sampleOutput(), trigger)
		require.Error(t, err)
		assert.ErrorIs(t, err, assert.AnError)
		assert.Contains(t, err.Error(), "failed to trigger jenkins")
	})
}

func TestExecuteTrigger(t *testing.T) {
	client := &contract.MockGitClient{}
	client.On("GetChangedFiles", mock.Anything, "/test/repo", "main", "HEAD").Return(userChange(), nil)

	trigger := &citrigger.MockCITrigger{}
	trigger.On("Name").Return(contract.DryRunProvider).Maybe()
	trigger.On("Trigger", mock.Anything, mock.MatchedBy(func(req schema.TriggerRequest) bool {
		return req.BaseRef == "main" && req.TargetRef == "HEAD"
	})).Return(schema.TriggerReceipt{Provider: contract.DryRunProvider, DryRun: true}, nil)

	cfg := gitConfig()
	cfg.NoIndex = true
	cfg.IncludeSuggested = true
	cfg.OutputFile = t.TempDir() + "/trigger.json"

	require.NoError(t, executeTrigger(context.Background(), cfg, client, noStores(), trigger))
	trigger.AssertExpectations(t)
}
