package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/vishal-mourya/Dynamic-Test-Identifier-And-Runner/internal/contract"
	"github.com/vishal-mourya/Dynamic-Test-Identifier-And-Runner/schema"
)

// WriteAnalysisResults outputs an analysis, dispatching based on the output format configured.
func WriteAnalysisResults(result *schema.AnalysisResult, cfg *contract.Config, duration time.Duration) error {
	fmtFloat := createFormatter(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, schema.EnrichAnalysis(*result))
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeAnalysisCSV(w, result, fmtFloat)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.PathsOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeLines(w, result.TestPaths(cfg.IncludeSuggested))
		}, "Wrote paths")
	default:
		// Default to human-readable table
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeAnalysisTable(w, result, cfg, fmtFloat, duration)
		}, "Wrote table")
	}
	return nil
}

// writeAnalysisCSV writes one row per identified test.
func writeAnalysisCSV(w io.Writer, result *schema.AnalysisResult, fmtFloat func(float64) string) error {
	header := []string{"rank", "test_path", "source_path", "origin", "confidence", "label", "reason"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, c := range schema.EnrichCandidates(result.IdentifiedTests) {
			rec := []string{
				strconv.Itoa(c.Rank),
				c.TestPath,
				c.SourcePath,
				string(c.Origin),
				fmtFloat(c.Confidence),
				c.Label,
				c.Reason,
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

// writeAnalysisTable generates the human-readable report.
func writeAnalysisTable(w io.Writer, result *schema.AnalysisResult, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration) error {
	maxWidth := GetMaxTablePathWidth(cfg)

	if len(result.IdentifiedTests) == 0 {
		if _, err := fmt.Fprintln(w, "No relevant tests identified"); err != nil {
			return err
		}
	} else {
		rows := make([][]string, 0, len(result.IdentifiedTests))
		for _, c := range schema.EnrichCandidates(result.IdentifiedTests) {
			rows = append(rows, []string{
				strconv.Itoa(c.Rank),
				contract.TruncatePath(c.TestPath, maxWidth),
				contract.TruncatePath(c.SourcePath, maxWidth),
				string(c.Origin),
				fmtFloat(c.Confidence),
				contract.GetColorLabel(c.Confidence),
			})
		}
		if err := renderTable(w, []string{"Rank", "Test", "Source", "Origin", "Confidence", "Label"}, rows); err != nil {
			return err
		}
	}

	if len(result.Recommendations) > 0 {
		if _, err := fmt.Fprintf(w, "\n%sRecommendations (%d):\n", emoji(cfg, "💡 "), len(result.Recommendations)); err != nil {
			return err
		}
		rows := make([][]string, 0, len(result.Recommendations))
		for _, rec := range result.Recommendations {
			rows = append(rows, []string{
				contract.GetSeverityLabel(rec.Severity),
				contract.TruncatePath(rec.SourcePath, maxWidth),
				contract.TruncatePath(rec.SuggestedTestPath, maxWidth),
			})
		}
		if err := renderTable(w, []string{"Severity", "Source", "Suggested Test"}, rows); err != nil {
			return err
		}
	}

	if langs := formatLanguages(result.Languages); langs != "" {
		if _, err := fmt.Fprintf(w, "Languages: %s\n", langs); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "Coverage estimate: %d%%, risk: %s (%s mode)\n",
		result.CoverageEstimatePercent, contract.GetRiskLabel(result.RiskScore), result.Mode); err != nil {
		return err
	}
	if result.FallbackApplied {
		if _, err := fmt.Fprintln(w, "No file matched a test pattern; tests were detected by name heuristics."); err != nil {
			return err
		}
	}
	if len(result.IgnoredPaths) > 0 {
		if _, err := fmt.Fprintf(w, "Ignored %d vendored or unrecognized files\n", len(result.IgnoredPaths)); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "Identified %d tests for %d changed files in %v. Cache backend: %s\n",
		len(result.IdentifiedTests), result.TotalChangedFiles, duration, cfg.CacheBackend); err != nil {
		return err
	}
	return nil
}

// formatLanguages renders the per-language summary on one line.
func formatLanguages(langs []schema.LanguageSummary) string {
	parts := make([]string, 0, len(langs))
	for _, l := range langs {
		part := fmt.Sprintf("%s (%d src, %d test", l.Language, l.SourceFiles, l.TestFiles)
		if l.Detected {
			part += "; " + strings.Join(l.Frameworks, ", ")
		}
		parts = append(parts, part+")")
	}
	return strings.Join(parts, ", ")
}

// emoji returns prefix only when emojis are enabled.
func emoji(cfg *contract.Config, prefix string) string {
	if cfg.UseEmojis {
		return prefix
	}
	return ""
}
