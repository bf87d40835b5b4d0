package core

import (
	"context"
	"fmt"
	"time"

	"github.com/vishal-mourya/Dynamic-Test-Identifier-And-Runner/internal/contract"
	"github.com/vishal-mourya/Dynamic-Test-Identifier-And-Runner/internal/outwriter"
	"github.com/vishal-mourya/Dynamic-Test-Identifier-And-Runner/schema"
)

// BuildTriggerRequest flattens an analysis into the payload for a CI provider.
// Explicit configuration wins over pull request metadata from the change document.
func BuildTriggerRequest(cfg *contract.Config, output *AnalysisOutput) schema.TriggerRequest {
	req := schema.TriggerRequest{
		RunID:     output.Result.RunID,
		Tests:     output.Result.TestPaths(cfg.IncludeSuggested),
		Branch:    cfg.Branch,
		BaseRef:   cfg.BaseRef,
		TargetRef: cfg.TargetRef,
		PRNumber:  cfg.PRNumber,
	}
	if pr := output.PullRequest; pr != nil {
		req.Branch = firstNonEmpty(req.Branch, pr.Branch)
		req.BaseRef = firstNonEmpty(req.BaseRef, pr.BaseRef)
		req.TargetRef = firstNonEmpty(req.TargetRef, pr.TargetRef)
		req.PRNumber = firstNonEmpty(req.PRNumber, pr.Number)
	}
	return req
}

// TriggerTests hands the identified tests of an analysis to the CI provider.
// An empty test list is not sent and yields a zero receipt.
func TriggerTests(ctx context.Context, cfg *contract.Config, output *AnalysisOutput, trigger contract.CITrigger) (schema.TriggerRequest, schema.TriggerReceipt, error) {
	req := BuildTriggerRequest(cfg, output)
	if len(req.Tests) == 0 {
		return req, schema.TriggerReceipt{Provider: trigger.Name()}, nil
	}

	if cfg.CITimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.CITimeout)
		defer cancel()
	}

	receipt, err := trigger.Trigger(ctx, req)
	if err != nil {
		return req, schema.TriggerReceipt{}, fmt.Errorf("failed to trigger %s: %w", trigger.Name(), err)
	}
	contract.Logger.Info("Triggered tests", "provider", receipt.Provider, "run", req.RunID, "tests", receipt.TestCount)
	return req, receipt, nil
}

// ExecuteTrigger analyzes the change set and queues the identified tests in CI.
func ExecuteTrigger(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager, trigger contract.CITrigger) error {
	return executeTrigger(ctx, cfg, contract.NewLocalGitClient(), mgr, trigger)
}

func executeTrigger(ctx context.Context, cfg *contract.Config, client contract.GitClient, mgr contract.CacheManager, trigger contract.CITrigger) error {
	start := time.Now()
	output, err := getAnalysisOutput(WithSuppressHeader(ctx), cfg, client, mgr)
	if err != nil {
		return err
	}

	req, receipt, err := TriggerTests(ctx, cfg, output, trigger)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteTrigger(req, receipt, cfg, time.Since(start))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
