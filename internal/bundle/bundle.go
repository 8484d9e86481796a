// Package bundle reads the JSON question files shipped with the service. Each category lives
// in <category>.json and is checked against schema.json before use.
package bundle

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"trivia-quiz-service/internal/domain"
)

//go:embed questions/*.json
var embedded embed.FS

//go:embed schema.json
var schemaJSON []byte

const schemaURL = "bundle.schema.json"

// File is the on-disk shape of one category bundle.
type File struct {
	Category    string            `json:"category"`
	Description string            `json:"description"`
	Questions   []domain.Question `json:"questions"`
}

// Bundle reads validated category files from a filesystem.
type Bundle struct {
	fsys   fs.FS
	schema *jsonschema.Schema
}

// New builds a bundle over fsys, whose root holds the <category>.json files.
func New(fsys fs.FS) (*Bundle, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
		return nil, fmt.Errorf("add bundle schema: %w", err)
	}
	schema, err := compiler.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile bundle schema: %w", err)
	}
	return &Bundle{fsys: fsys, schema: schema}, nil
}

// Embedded returns the bundle compiled into the binary.
func Embedded() (*Bundle, error) {
	sub, err := fs.Sub(embedded, "questions")
	if err != nil {
		return nil, err
	}
	return New(sub)
}

// Dir returns a bundle reading from a directory on disk.
func Dir(path string) (*Bundle, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("question dir: %w", err)
	}
	return New(os.DirFS(path))
}

// Read loads and validates one category. A missing file yields domain.ErrBundleNotFound.
func (b *Bundle) Read(category string) (File, error) {
	name := category + ".json"
	if category == "" || strings.ContainsAny(category, `/\`) || !fs.ValidPath(name) {
		return File{}, domain.ErrBundleNotFound
	}
	data, err := fs.ReadFile(b.fsys, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return File{}, domain.ErrBundleNotFound
		}
		return File{}, fmt.Errorf("read %s: %w", name, err)
	}
	return b.Parse(data)
}

// Parse validates raw bundle JSON against the schema and the question invariants.
func (b *Bundle) Parse(data []byte) (File, error) {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return File{}, fmt.Errorf("parse bundle: %w", err)
	}
	if err := b.schema.Validate(raw); err != nil {
		return File{}, fmt.Errorf("bundle schema: %w", err)
	}
	var file File
	if err := json.Unmarshal(data, &file); err != nil {
		return File{}, fmt.Errorf("decode bundle: %w", err)
	}
	seen := make(map[string]struct{}, len(file.Questions))
	for i, q := range file.Questions {
		if err := domain.ValidateQuestion(q); err != nil {
			return File{}, fmt.Errorf("questions[%d]: %w", i, err)
		}
		if _, dup := seen[q.ID]; dup {
			return File{}, fmt.Errorf("questions[%d]: duplicate id %q", i, q.ID)
		}
		seen[q.ID] = struct{}{}
	}
	return file, nil
}

// Categories lists the category ids present in the bundle.
func (b *Bundle) Categories() ([]string, error) {
	entries, err := fs.ReadDir(b.fsys, ".")
	if err != nil {
		return nil, err
	}
	var ids []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(entry.Name(), ".json"))
	}
	return ids, nil
}
