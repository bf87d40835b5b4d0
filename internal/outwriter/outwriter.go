// Package outwriter has output and writer logic.
package outwriter

import (
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/term"

	"github.com/vishal-mourya/Dynamic-Test-Identifier-And-Runner/internal/contract"
	"github.com/vishal-mourya/Dynamic-Test-Identifier-And-Runner/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteAnalysis prints an analysis result using the configured output format.
func (ow *OutWriter) WriteAnalysis(result *schema.AnalysisResult, cfg *contract.Config, duration time.Duration) error {
	return WriteAnalysisResults(result, cfg, duration)
}

// WriteCheck prints a check result as JSON.
func (ow *OutWriter) WriteCheck(result *schema.CheckResult, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeJSON(w, result)
	}, "Wrote JSON")
}

// WriteTrigger prints the outcome of a CI trigger.
func (ow *OutWriter) WriteTrigger(req schema.TriggerRequest, receipt schema.TriggerReceipt, cfg *contract.Config, duration time.Duration) error {
	return WriteTriggerResults(req, receipt, cfg, duration)
}

// WriteLanguages prints the registered language profiles.
func (ow *OutWriter) WriteLanguages(profiles []schema.LanguageProfile, cfg *contract.Config) error {
	return WriteLanguageProfiles(profiles, cfg)
}

// WriteTemplate prints a synthesized test skeleton verbatim.
func (ow *OutWriter) WriteTemplate(text string, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		_, err := fmt.Fprint(w, text)
		return err
	}, "Wrote template")
}

// GetMaxTablePathWidth calculates the maximum width of each path column in
// the test table based on terminal width. The table shows two path columns.
func GetMaxTablePathWidth(cfg *contract.Config) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 { // Not set by override
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			termWidth = 80 // Conservative default for narrow terminals and CI
		} else {
			termWidth = detectedWidth
		}
	}

	// Rank + Origin + Confidence + Label with borders/padding
	baseWidth := 45

	available := (termWidth - baseWidth) / 2
	if available < 15 {
		return 15
	}
	if available > 70 {
		return 70
	}
	return available
}
