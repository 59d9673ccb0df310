// Package testutil provides test utilities and fixtures for unit tests.
package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"go.yaml.in/yaml/v4"

	"github.com/erraggy/oasgate/parser"
)

// Fixture names under the repository testdata directory.
const (
	// BasicFixture declares GET /status returning {"status": string}.
	BasicFixture = "basic.json"
	// PetStoreFixture is a YAML pet store with basePath /v2 and a nullable Pet.age.
	PetStoreFixture = "petstore.yaml"
	// RefsFixture declares POST /person whose body and response are $ref definitions.
	RefsFixture = "refs.json"
)

// FixturePath returns the absolute path of a file in the repository testdata directory.
func FixturePath(name string) string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "..", "testdata", name)
}

// ParseFixture parses a testdata fixture and fails the test on any parse error.
func ParseFixture(t *testing.T, name string) *parser.ParseResult {
	t.Helper()
	result, err := parser.ParseWithOptions(parser.WithFilePath(FixturePath(name)))
	if err != nil {
		t.Fatalf("failed to parse fixture %s: %v", name, err)
	}
	if len(result.Errors) > 0 {
		t.Fatalf("fixture %s has errors: %v", name, result.Errors)
	}
	return result
}

// ParseString parses an inline YAML or JSON document.
func ParseString(t *testing.T, doc string) *parser.ParseResult {
	t.Helper()
	result, err := parser.ParseWithOptions(parser.WithBytes([]byte(doc)))
	if err != nil {
		t.Fatalf("failed to parse document: %v", err)
	}
	return result
}

// WriteTempYAML marshals a value to YAML and writes it to a temporary file.
// Returns the path to the temporary file.
// The file is automatically cleaned up when the test completes (via t.TempDir).
func WriteTempYAML(t *testing.T, v any) string {
	t.Helper()
	data, err := yaml.Marshal(v)
	if err != nil {
		t.Fatalf("failed to marshal YAML: %v", err)
	}
	return WriteTempFile(t, "doc.yaml", data)
}

// WriteTempJSON marshals a value to JSON and writes it to a temporary file.
func WriteTempJSON(t *testing.T, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("failed to marshal JSON: %v", err)
	}
	return WriteTempFile(t, "doc.json", data)
}

// WriteTempFile writes data to name inside a per-test temporary directory.
func WriteTempFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}
	return path
}
