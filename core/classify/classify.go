// Package classify assigns each changed path a language and a role.
package classify

import (
	"path"
	"strings"

	"github.com/vishal-mourya/Dynamic-Test-Identifier-And-Runner/core/registry"
	"github.com/vishal-mourya/Dynamic-Test-Identifier-And-Runner/schema"
)

// ignoredSegments short-circuit classification when any path segment matches.
var ignoredSegments = map[string]struct{}{
	"node_modules":     {},
	"vendor":           {},
	"bower_components": {},
	"third_party":      {},
	".git":             {},
	".hg":              {},
	".svn":             {},
	"dist":             {},
	"build":            {},
	"target":           {},
	"coverage":         {},
	".next":            {},
	".venv":            {},
	"venv":             {},
	"__pycache__":      {},
	".gradle":          {},
	".idea":            {},
}

// lockfiles are ignored wherever they appear.
var lockfiles = map[string]struct{}{
	"package-lock.json":  {},
	"yarn.lock":          {},
	"pnpm-lock.yaml":     {},
	"go.sum":             {},
	"Cargo.lock":         {},
	"Gemfile.lock":       {},
	"poetry.lock":        {},
	"Pipfile.lock":       {},
	"composer.lock":      {},
	"packages.lock.json": {},
}

// Valid reports whether a path is acceptable classifier input.
// Empty paths, absolute paths, and paths with a ".." segment are rejected.
func Valid(p string) bool {
	if p == "" || strings.HasPrefix(p, "/") {
		return false
	}
	for _, seg := range strings.Split(p, "/") {
		if seg == ".." {
			return false
		}
	}
	return true
}

// Ignored reports whether the path sits under an ignored segment or is a lockfile.
func Ignored(p string) bool {
	segments := strings.Split(p, "/")
	for _, seg := range segments[:len(segments)-1] {
		if _, ok := ignoredSegments[seg]; ok {
			return true
		}
	}
	_, ok := lockfiles[segments[len(segments)-1]]
	return ok
}

// Classify returns the strict classification of a single path.
func Classify(p string, reg *registry.Registry) schema.ClassifiedFile {
	out := schema.ClassifiedFile{Path: p, Language: schema.UnknownLanguage, Role: schema.RoleIgnored}
	if !Valid(p) || Ignored(p) {
		return out
	}
	if lang, ok := reg.MatchTest(p); ok {
		out.Language = lang
		out.Role = schema.RoleTest
		return out
	}
	if lang, ok := reg.LanguageOf(p); ok {
		out.Language = lang
		out.Role = schema.RoleSource
	}
	return out
}

// LooksLikeTest is the narrower rule used by the fallback pass.
// The path must mention test or spec and either carry a .test/.spec
// infix before its extension or live under a test directory.
func LooksLikeTest(p string) bool {
	lower := strings.ToLower(p)
	if !strings.Contains(lower, "test") && !strings.Contains(lower, "spec") {
		return false
	}
	base := path.Base(lower)
	if ext := path.Ext(base); ext != "" && ext != base {
		stem := strings.TrimSuffix(base, ext)
		if strings.HasSuffix(stem, ".test") || strings.HasSuffix(stem, ".spec") {
			return true
		}
	}
	segments := strings.Split(lower, "/")
	for _, seg := range segments[:len(segments)-1] {
		switch seg {
		case "test", "tests", "__tests__":
			return true
		}
	}
	return false
}
