// Package input loads change sets supplied as JSON or YAML documents,
// unified diffs, or plain repository listings.
package input

import (
	"bufio"
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"

	"github.com/vishal-mourya/Dynamic-Test-Identifier-And-Runner/internal/diffparse"
	"github.com/vishal-mourya/Dynamic-Test-Identifier-And-Runner/schema"
)

// Schema is the JSON Schema every change document must satisfy.
//
//go:embed changes.schema.json
var Schema string

const schemaURL = "changes.schema.json"

// ErrInvalidChanges reports a change document that does not match Schema.
var ErrInvalidChanges = errors.New("invalid change document")

// Document is a change set supplied as a file or request body.
type Document struct {
	PullRequest     *schema.PullRequestMeta `json:"pullRequest,omitempty" yaml:"pullRequest,omitempty"`
	ChangedFiles    []schema.ChangedFile    `json:"changedFiles" yaml:"changedFiles"`
	RepositoryFiles []string                `json:"repositoryFiles,omitempty" yaml:"repositoryFiles,omitempty"`
	Limit           int                     `json:"limit,omitempty" yaml:"limit,omitempty"`
}

// Index returns the repository listing as an index, or nil when the
// document carries none.
func (d *Document) Index() schema.FileIndex {
	if d.RepositoryFiles == nil {
		return nil
	}
	return schema.NewFileIndex(d.RepositoryFiles)
}

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

func changeSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(strings.NewReader(Schema))
		if err != nil {
			compileErr = fmt.Errorf("parse change schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, doc); err != nil {
			compileErr = fmt.Errorf("add change schema: %w", err)
			return
		}
		compiled, compileErr = c.Compile(schemaURL)
	})
	return compiled, compileErr
}

// Parse decodes a JSON or YAML change document, validates it, and fills
// defaults: a missing status means modified, and missing line counts are
// derived from diffText when present.
func Parse(data []byte) (*Document, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidChanges, err)
	}
	if raw == nil {
		return nil, fmt.Errorf("%w: document is empty", ErrInvalidChanges)
	}

	// Round-trip through JSON so YAML and JSON input validate identically.
	normalized, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidChanges, err)
	}
	if err := Validate(normalized); err != nil {
		return nil, err
	}

	var doc Document
	if err := json.Unmarshal(normalized, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidChanges, err)
	}
	applyDefaults(&doc)
	return &doc, nil
}

// Validate checks a JSON document against Schema.
func Validate(jsonDoc []byte) error {
	sch, err := changeSchema()
	if err != nil {
		return err
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(jsonDoc))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidChanges, err)
	}
	if err := sch.Validate(inst); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidChanges, err)
	}
	return nil
}

func applyDefaults(doc *Document) {
	if doc.ChangedFiles == nil {
		doc.ChangedFiles = []schema.ChangedFile{}
	}
	for i := range doc.ChangedFiles {
		f := &doc.ChangedFiles[i]
		if f.Status == "" {
			f.Status = schema.StatusModified
		}
		if f.Additions == 0 && f.Deletions == 0 && f.DiffText != "" {
			f.Additions, f.Deletions = diffparse.CountLines(f.DiffText)
		}
	}
}

// Load reads and parses a change document. A path of "-" reads stdin.
func Load(path string) (*Document, error) {
	data, err := readSource(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// LoadDiff reads a unified diff and converts it to changed files.
// A path of "-" reads stdin.
func LoadDiff(path string) ([]schema.ChangedFile, error) {
	data, err := readSource(path)
	if err != nil {
		return nil, err
	}
	return diffparse.Parse(data)
}

// LoadIndexFile reads a newline separated repository listing, such as the
// output of git ls-files. Blank lines and lines starting with # are skipped.
func LoadIndexFile(path string) ([]string, error) {
	data, err := readSource(path)
	if err != nil {
		return nil, err
	}
	return ReadIndex(bytes.NewReader(data))
}

// ReadIndex parses a newline separated listing from r.
func ReadIndex(r io.Reader) ([]string, error) {
	var paths []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		paths = append(paths, strings.TrimPrefix(line, "./"))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read index: %w", err)
	}
	return paths, nil
}

func readSource(path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}
