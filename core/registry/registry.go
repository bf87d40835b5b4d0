// Package registry holds the per-language test conventions used to classify paths.
package registry

import (
	"path"
	"regexp"
	"slices"
	"strings"
	"sync"

	"github.com/vishal-mourya/Dynamic-Test-Identifier-And-Runner/schema"
)

// Registry is an immutable lookup over language profiles.
// Test globs are compiled once at construction.
type Registry struct {
	profiles []schema.LanguageProfile
	globs    []compiledGlob
	byExt    map[string]int
	byID     map[string]int
}

type compiledGlob struct {
	language string
	re       *regexp.Regexp
}

// New builds a registry from profiles, keeping their order.
// Invalid globs are reported as an error.
func New(profiles []schema.LanguageProfile) (*Registry, error) {
	r := &Registry{
		profiles: slices.Clone(profiles),
		byExt:    make(map[string]int),
		byID:     make(map[string]int),
	}
	for i, p := range r.profiles {
		if _, ok := r.byID[p.ID]; !ok {
			r.byID[p.ID] = i
		}
		for _, ext := range p.Extensions {
			key := normalizeExt(ext)
			if _, taken := r.byExt[key]; !taken {
				r.byExt[key] = i
			}
		}
		for _, pattern := range p.TestPatterns {
			re, err := CompileGlob(pattern)
			if err != nil {
				return nil, err
			}
			r.globs = append(r.globs, compiledGlob{language: p.ID, re: re})
		}
	}
	return r, nil
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the shared registry built from DefaultProfiles.
func Default() *Registry {
	defaultOnce.Do(func() {
		reg, err := New(DefaultProfiles())
		if err != nil {
			panic(err)
		}
		defaultRegistry = reg
	})
	return defaultRegistry
}

// AllProfiles returns every profile in registry order.
func (r *Registry) AllProfiles() []schema.LanguageProfile {
	return slices.Clone(r.profiles)
}

// ProfileFor returns the profile claiming the extension.
// The lookup ignores case and a leading dot.
func (r *Registry) ProfileFor(ext string) (schema.LanguageProfile, bool) {
	i, ok := r.byExt[normalizeExt(ext)]
	if !ok {
		return schema.LanguageProfile{}, false
	}
	return r.profiles[i], true
}

// Profile returns the profile with the given identifier.
func (r *Registry) Profile(id string) (schema.LanguageProfile, bool) {
	i, ok := r.byID[strings.ToLower(strings.TrimSpace(id))]
	if !ok {
		return schema.LanguageProfile{}, false
	}
	return r.profiles[i], true
}

// LanguageOf returns the language of a path by its extension.
func (r *Registry) LanguageOf(p string) (string, bool) {
	ext := path.Ext(p)
	if ext == "" {
		return "", false
	}
	prof, ok := r.ProfileFor(ext)
	if !ok {
		return "", false
	}
	return prof.ID, true
}

// MatchTest returns the language of the first test glob matching the path.
func (r *Registry) MatchTest(p string) (string, bool) {
	for _, g := range r.globs {
		if g.re.MatchString(p) {
			return g.language, true
		}
	}
	return "", false
}

// DetectFrameworks returns the frameworks of a language whose markers
// appear in the diff text, in profile order.
func (r *Registry) DetectFrameworks(language, diffText string) []string {
	prof, ok := r.Profile(language)
	if !ok || diffText == "" {
		return nil
	}
	var found []string
	for _, fw := range prof.Frameworks {
		for _, marker := range prof.FrameworkMarkers[fw] {
			if strings.Contains(diffText, marker) {
				found = append(found, fw)
				break
			}
		}
	}
	return found
}

func normalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
}
