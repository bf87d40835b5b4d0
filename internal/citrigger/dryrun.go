package citrigger

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/vishal-mourya/Dynamic-Test-Identifier-And-Runner/internal/contract"
	"github.com/vishal-mourya/Dynamic-Test-Identifier-And-Runner/schema"
)

// DryRunTrigger prints the request instead of contacting a CI server.
type DryRunTrigger struct {
	w io.Writer
}

var _ contract.CITrigger = &DryRunTrigger{} // Compile-time check

// NewDryRunTrigger creates a trigger that writes requests to w.
func NewDryRunTrigger(w io.Writer) *DryRunTrigger {
	return &DryRunTrigger{w: w}
}

// Name implements the CITrigger interface.
func (d *DryRunTrigger) Name() string {
	return contract.DryRunProvider
}

// Trigger implements the CITrigger interface.
func (d *DryRunTrigger) Trigger(_ context.Context, req schema.TriggerRequest) (schema.TriggerReceipt, error) {
	data, err := json.MarshalIndent(req, "", "  ")
	if err != nil {
		return schema.TriggerReceipt{}, fmt.Errorf("failed to encode trigger request: %w", err)
	}
	if _, err := fmt.Fprintf(d.w, "%s\n", data); err != nil {
		return schema.TriggerReceipt{}, err
	}
	return schema.TriggerReceipt{
		Provider:  contract.DryRunProvider,
		DryRun:    true,
		TestCount: len(req.Tests),
	}, nil
}
