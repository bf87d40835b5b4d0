package algo

import (
	"path"
	"strings"
	"unicode"
)

// Pair scoring weights, in hundredths.
const (
	basenameWeight  = 50
	directoryWeight = 30
	tokenWeight     = 20
	maxPoints       = 100
)

// testSuffixes are stripped from a test basename before comparison, longest first.
var testSuffixes = []string{".test", ".spec", "_test", "_spec", "-test", "-spec", "Tests", "Test", "Spec"}

// pairPoints returns how strongly a changed test relates to a changed source file.
func pairPoints(sourcePath, testPath string) int {
	points := 0
	if strings.EqualFold(stem(sourcePath), testSubject(testPath)) {
		points += basenameWeight
	}
	if relatedDirs(path.Dir(sourcePath), path.Dir(testPath)) {
		points += directoryWeight
	}
	points += tokenWeight * sharedTokens(sourcePath, testPath)
	return min(points, maxPoints)
}

// stem returns the basename without its extension.
func stem(p string) string {
	base := path.Base(p)
	return strings.TrimSuffix(base, path.Ext(base))
}

// testSubject returns the basename of a test with test markers removed.
func testSubject(p string) string {
	s := stem(p)
	for _, suffix := range testSuffixes {
		if trimmed, ok := strings.CutSuffix(s, suffix); ok && trimmed != "" {
			s = trimmed
			break
		}
	}
	if trimmed, ok := strings.CutPrefix(s, "test_"); ok && trimmed != "" {
		s = trimmed
	}
	return s
}

// relatedDirs reports whether two directories are equal or one contains the other.
func relatedDirs(a, b string) bool {
	if a == b || a == "." || b == "." {
		return true
	}
	return strings.HasPrefix(b, a+"/") || strings.HasPrefix(a, b+"/")
}

// tokens splits a path into its lowercase alphanumeric runs. Directory
// names and the extension count like any other identifier.
func tokens(p string) map[string]struct{} {
	fields := strings.FieldsFunc(strings.ToLower(p), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	out := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		out[f] = struct{}{}
	}
	return out
}

func sharedTokens(a, b string) int {
	ta, tb := tokens(a), tokens(b)
	n := 0
	for tok := range ta {
		if _, ok := tb[tok]; ok {
			n++
		}
	}
	return n
}
