package classify

import (
	"github.com/vishal-mourya/Dynamic-Test-Identifier-And-Runner/core/registry"
	"github.com/vishal-mourya/Dynamic-Test-Identifier-And-Runner/schema"
)

// Batch is the classification of a whole change set.
type Batch struct {
	// Files holds the valid entries in input order.
	Files []schema.ClassifiedChange
	// Rejected holds malformed paths that were skipped.
	Rejected []string
	// FallbackApplied is set when the strict pass found no tests
	// and the looser heuristic reclassified at least one path.
	FallbackApplied bool
}

// ClassifyBatch classifies every changed file. The fallback heuristic only
// runs when no path in the batch matches a strict test glob.
func ClassifyBatch(changes []schema.ChangedFile, reg *registry.Registry) Batch {
	var b Batch
	b.Files = make([]schema.ClassifiedChange, 0, len(changes))
	strictTests := 0
	for _, c := range changes {
		if !Valid(c.Path) {
			b.Rejected = append(b.Rejected, c.Path)
			continue
		}
		cf := Classify(c.Path, reg)
		if cf.Role == schema.RoleTest {
			strictTests++
		}
		status := c.Status
		if status == "" {
			status = schema.StatusModified
		}
		b.Files = append(b.Files, schema.ClassifiedChange{
			ClassifiedFile: cf,
			Status:         status,
			Additions:      c.Additions,
			Deletions:      c.Deletions,
			DiffText:       c.DiffText,
		})
	}

	if strictTests > 0 {
		return b
	}
	for i := range b.Files {
		f := &b.Files[i]
		if f.Role != schema.RoleSource || !LooksLikeTest(f.Path) {
			continue
		}
		f.Role = schema.RoleTest
		f.ViaFallback = true
		b.FallbackApplied = true
	}
	return b
}

// Sources returns the files classified as source, in input order.
func (b Batch) Sources() []schema.ClassifiedChange {
	return b.byRole(schema.RoleSource)
}

// Tests returns the files classified as test, in input order.
func (b Batch) Tests() []schema.ClassifiedChange {
	return b.byRole(schema.RoleTest)
}

// Ignored returns the files classified as ignored, in input order.
func (b Batch) Ignored() []schema.ClassifiedChange {
	return b.byRole(schema.RoleIgnored)
}

func (b Batch) byRole(role schema.Role) []schema.ClassifiedChange {
	out := make([]schema.ClassifiedChange, 0, len(b.Files))
	for _, f := range b.Files {
		if f.Role == role {
			out = append(out, f)
		}
	}
	return out
}
