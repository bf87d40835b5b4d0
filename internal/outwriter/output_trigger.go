package outwriter

import (
	"fmt"
	"io"
	"time"

	"github.com/vishal-mourya/Dynamic-Test-Identifier-And-Runner/internal/contract"
	"github.com/vishal-mourya/Dynamic-Test-Identifier-And-Runner/schema"
)

// TriggerOutput is the JSON shape of a trigger outcome.
type TriggerOutput struct {
	Request schema.TriggerRequest `json:"request"`
	Receipt schema.TriggerReceipt `json:"receipt"`
}

// WriteTriggerResults outputs the trigger outcome in the configured format.
func WriteTriggerResults(req schema.TriggerRequest, receipt schema.TriggerReceipt, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, TriggerOutput{Request: req, Receipt: receipt})
		}, "Wrote JSON")
	case schema.PathsOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeLines(w, req.Tests)
		}, "Wrote paths")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeTriggerText(w, req, receipt, cfg, duration)
		}, "Wrote summary")
	}
}

func writeTriggerText(w io.Writer, req schema.TriggerRequest, receipt schema.TriggerReceipt, cfg *contract.Config, duration time.Duration) error {
	var err error
	switch {
	case len(req.Tests) == 0:
		_, err = fmt.Fprintln(w, "No tests identified - nothing to trigger")
	case receipt.DryRun:
		_, err = fmt.Fprintf(w, "%sDry run: %d tests would be triggered\n", emoji(cfg, "🧪 "), receipt.TestCount)
	default:
		_, err = fmt.Fprintf(w, "%sTriggered %d tests via %s (HTTP %d)\n", emoji(cfg, "🚀 "), receipt.TestCount, receipt.Provider, receipt.StatusCode)
		if err == nil && receipt.QueueURL != "" {
			_, err = fmt.Fprintf(w, "Queue: %s\n", receipt.QueueURL)
		}
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "Run %s completed in %v\n", req.RunID, duration)
	return err
}
