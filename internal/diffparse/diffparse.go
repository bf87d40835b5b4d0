// Package diffparse converts unified diffs into change records.
package diffparse

import (
	"bytes"
	"fmt"
	"strings"

	godiff "github.com/sourcegraph/go-diff/diff"

	"github.com/vishal-mourya/Dynamic-Test-Identifier-And-Runner/schema"
)

const devNull = "/dev/null"

// Parse parses a unified (optionally git-extended) diff. Files appear in
// the order the diff lists them. Empty input yields an empty slice.
func Parse(diffContent []byte) ([]schema.ChangedFile, error) {
	if len(bytes.TrimSpace(diffContent)) == 0 {
		return []schema.ChangedFile{}, nil
	}

	fileDiffs, err := godiff.ParseMultiFileDiff(diffContent)
	if err != nil {
		return nil, fmt.Errorf("failed to parse diff: %w", err)
	}

	files := make([]schema.ChangedFile, 0, len(fileDiffs))
	for _, fd := range fileDiffs {
		cf, ok := parseFileDiff(fd)
		if !ok {
			continue
		}
		files = append(files, cf)
	}
	return files, nil
}

// parseFileDiff converts a go-diff FileDiff to a ChangedFile.
func parseFileDiff(fd *godiff.FileDiff) (schema.ChangedFile, bool) {
	origPath := cleanPath(fd.OrigName)
	newPath := cleanPath(fd.NewName)

	renameFrom, renameTo := "", ""
	newFile, deletedFile := false, false
	for _, line := range fd.Extended {
		switch {
		case strings.HasPrefix(line, "rename from "):
			renameFrom = strings.TrimPrefix(line, "rename from ")
		case strings.HasPrefix(line, "rename to "):
			renameTo = strings.TrimPrefix(line, "rename to ")
		case strings.HasPrefix(line, "new file mode"):
			newFile = true
		case strings.HasPrefix(line, "deleted file mode"):
			deletedFile = true
		}
	}
	if renameFrom != "" {
		origPath = renameFrom
	}
	if renameTo != "" {
		newPath = renameTo
	}

	cf := schema.ChangedFile{Status: schema.StatusModified, Path: newPath}
	switch {
	case newFile || fd.OrigName == devNull || origPath == "":
		cf.Status = schema.StatusAdded
	case deletedFile || fd.NewName == devNull || newPath == "":
		cf.Status = schema.StatusDeleted
		cf.Path = origPath
	case origPath != newPath:
		cf.Status = schema.StatusRenamed
		cf.PreviousPath = origPath
	}
	if cf.Path == "" {
		return schema.ChangedFile{}, false
	}

	var text strings.Builder
	for _, h := range fd.Hunks {
		adds, dels := countLines(h.Body)
		cf.Additions += adds
		cf.Deletions += dels
		text.Write(h.Body)
	}
	cf.DiffText = text.String()
	return cf, true
}

// countLines counts added and removed lines in a hunk body.
func countLines(body []byte) (adds, dels int) {
	for line := range bytes.SplitSeq(body, []byte("\n")) {
		if len(line) == 0 {
			continue
		}
		switch line[0] {
		case '+':
			adds++
		case '-':
			dels++
		}
	}
	return adds, dels
}

// CountLines counts added and removed lines in free-form diff text,
// skipping the ---/+++ file headers.
func CountLines(diffText string) (adds, dels int) {
	for line := range strings.SplitSeq(diffText, "\n") {
		if strings.HasPrefix(line, "+++ ") || strings.HasPrefix(line, "--- ") {
			continue
		}
		switch {
		case strings.HasPrefix(line, "+"):
			adds++
		case strings.HasPrefix(line, "-"):
			dels++
		}
	}
	return adds, dels
}

// cleanPath removes the a/ or b/ prefix git puts on diff paths.
func cleanPath(p string) string {
	if p == "" || p == devNull {
		return ""
	}
	if strings.HasPrefix(p, "a/") || strings.HasPrefix(p, "b/") {
		return p[2:]
	}
	return p
}
