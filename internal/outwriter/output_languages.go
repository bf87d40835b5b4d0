package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/vishal-mourya/Dynamic-Test-Identifier-And-Runner/internal/contract"
	"github.com/vishal-mourya/Dynamic-Test-Identifier-And-Runner/schema"
)

// WriteLanguageProfiles outputs the registry contents in the configured format.
func WriteLanguageProfiles(profiles []schema.LanguageProfile, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, profiles)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeLanguagesCSV(w, profiles)
		}, "Wrote CSV")
	case schema.PathsOut:
		ids := make([]string, len(profiles))
		for i, p := range profiles {
			ids[i] = p.ID
		}
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeLines(w, ids)
		}, "Wrote languages")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeLanguagesTable(w, profiles)
		}, "Wrote table")
	}
}

func writeLanguagesCSV(w io.Writer, profiles []schema.LanguageProfile) error {
	header := []string{"language", "extensions", "test_patterns", "frameworks"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, p := range profiles {
			rec := []string{
				p.ID,
				strings.Join(p.Extensions, "|"),
				strings.Join(p.TestPatterns, "|"),
				strings.Join(p.Frameworks, "|"),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

func writeLanguagesTable(w io.Writer, profiles []schema.LanguageProfile) error {
	rows := make([][]string, 0, len(profiles))
	for _, p := range profiles {
		rows = append(rows, []string{
			p.ID,
			strings.Join(p.Extensions, ", "),
			strings.Join(p.TestPatterns, ", "),
			strings.Join(p.Frameworks, ", "),
		})
	}
	if err := renderTable(w, []string{"Language", "Extensions", "Test Patterns", "Frameworks"}, rows); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%d languages registered\n", len(profiles))
	return err
}
