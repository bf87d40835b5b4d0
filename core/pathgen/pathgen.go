// Package pathgen proposes conventional test file locations for a source file.
package pathgen

import (
	"path"
	"strings"
)

// CandidatePaths returns the conventional test paths for a source file,
// most preferred first. Paths without an extension yield nothing.
func CandidatePaths(sourcePath string) []string {
	dir, file := path.Split(sourcePath)
	ext := path.Ext(file)
	if ext == "" || ext == file {
		return nil
	}
	stem := strings.TrimSuffix(file, ext)

	paths := []string{
		dir + stem + ".test" + ext,
		dir + stem + ".spec" + ext,
		dir + "__tests__/" + file,
		dir + "__tests__/" + stem + ".test" + ext,
		dir + "tests/" + file,
		dir + "test/" + file,
	}
	if mirrored, ok := replaceSegment(sourcePath, "src", "test"); ok {
		paths = append(paths, mirrored)
	}
	if mirrored, ok := replaceSegment(sourcePath, "src", "tests"); ok {
		paths = append(paths, mirrored)
	}
	return paths
}

// FirstCandidate returns the most preferred test path, or "" when none exists.
func FirstCandidate(sourcePath string) string {
	paths := CandidatePaths(sourcePath)
	if len(paths) == 0 {
		return ""
	}
	return paths[0]
}

// replaceSegment substitutes the leftmost directory segment equal to from.
func replaceSegment(p, from, to string) (string, bool) {
	segments := strings.Split(p, "/")
	for i := 0; i < len(segments)-1; i++ {
		if segments[i] == from {
			segments[i] = to
			return strings.Join(segments, "/"), true
		}
	}
	return "", false
}
