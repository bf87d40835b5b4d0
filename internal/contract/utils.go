package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"

	"github.com/vishal-mourya/Dynamic-Test-Identifier-And-Runner/schema"
)

// Color variables for console output.
var (
	HighColor   = color.New(color.FgRed, color.Bold) // HighColor marks urgent gaps and strong matches.
	MediumColor = color.New(color.FgYellow)          // MediumColor marks heuristic matches and moderate gaps.
	LowColor    = color.New(color.FgCyan)            // LowColor is informational.
	PassColor   = color.New(color.FgGreen, color.Bold)
)

// GetColorLabel returns a colored confidence label for console output (table).
// It uses schema.GetConfidenceLabel to determine the string.
func GetColorLabel(confidence float64) string {
	text := schema.GetConfidenceLabel(confidence)
	switch text {
	case schema.ConfidenceHigh:
		return PassColor.Sprint(text)
	case schema.ConfidenceMedium:
		return MediumColor.Sprint(text)
	default:
		return LowColor.Sprint(text)
	}
}

// GetSeverityLabel returns a colored severity label for console output.
func GetSeverityLabel(severity schema.Severity) string {
	if severity == schema.SeverityHigh {
		return HighColor.Sprint(string(severity))
	}
	return MediumColor.Sprint(string(severity))
}

// GetRiskLabel returns a colored risk score for console output.
func GetRiskLabel(risk int) string {
	text := fmt.Sprintf("%d", risk)
	switch {
	case risk >= 60:
		return HighColor.Sprint(text)
	case risk >= 30:
		return MediumColor.Sprint(text)
	default:
		return LowColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. It falls back to os.Stdout when no path is given.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// ShouldIgnore returns true if the given path matches any of the exclude patterns.
// It supports simple glob patterns (using filepath.Match) when the pattern
// contains wildcard characters (*, ?, [ ]). Patterns ending with '/' are treated
// as prefixes. Patterns starting with '.' are treated as suffix (extension) matches.
// A user can provide patterns like "docs/", "fixtures/", "*.min.js".
func ShouldIgnore(path string, excludes []string) bool {
	for _, ex := range excludes {
		ex = strings.TrimSpace(ex)
		if ex == "" {
			continue
		}

		// If the pattern contains glob characters, try filepath.Match.
		if strings.ContainsAny(ex, "*?[") {
			pat := strings.ReplaceAll(ex, "**", "*")
			if ok, err := filepath.Match(pat, path); err == nil && ok {
				return true
			}
			// Also try matching against the base filename (e.g. *.min.js)
			if ok, err := filepath.Match(pat, filepath.Base(path)); err == nil && ok {
				return true
			}
			continue
		}

		// Handle prefix, suffix, or substring matches
		switch {
		case strings.HasSuffix(ex, "/"):
			if strings.HasPrefix(path, ex) {
				return true
			}
		case strings.HasPrefix(ex, "."):
			if strings.HasSuffix(path, ex) {
				return true
			}
		case strings.Contains(path, ex):
			return true
		}
	}
	return false
}

// FilterExcluded drops changed files matching the exclude patterns and
// returns the dropped paths separately.
func FilterExcluded(files []schema.ChangedFile, excludes []string) (kept []schema.ChangedFile, dropped []string) {
	kept = make([]schema.ChangedFile, 0, len(files))
	for _, f := range files {
		if ShouldIgnore(f.Path, excludes) {
			dropped = append(dropped, f.Path)
			continue
		}
		kept = append(kept, f)
	}
	return kept, dropped
}

// GetCacheDBFilePath returns the path to the SQLite DB file for cache storage.
func GetCacheDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".testid_cache.db"
	}
	return filepath.Join(homeDir, ".testid_cache.db")
}

// GetAnalysisDBFilePath returns the path to the SQLite DB file for analysis storage.
func GetAnalysisDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".testid_analysis.db"
	}
	return filepath.Join(homeDir, ".testid_analysis.db")
}

// TruncatePath truncates a file path to a maximum width with ellipsis prefix.
// Requires maxWidth > 3 to ensure there's space for both the "..." prefix and at least one character of content.
func TruncatePath(path string, maxWidth int) string {
	runes := []rune(path)
	if len(runes) > maxWidth && maxWidth > 3 {
		return "..." + string(runes[len(runes)-maxWidth+3:])
	}
	return path
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
