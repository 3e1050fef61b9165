// Package testutil provides helper functions for testing uxscan components
package testutil

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/uxscan/uxscan/internal/snapshot"
)

// ParseTestPage parses an HTML snapshot from source, failing the test on error
func ParseTestPage(t *testing.T, source string) *snapshot.Page {
	t.Helper()
	page, err := snapshot.Parse("test.html", []byte(source))
	if err != nil {
		t.Fatalf("Failed to parse test snapshot: %v", err)
	}
	return page
}

// WriteSnapshotFile writes an HTML snapshot into dir and returns its path
func WriteSnapshotFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("Failed to create snapshot dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write snapshot file: %v", err)
	}
	return path
}

// QueryOne queries the page and fails unless exactly one element matches
func QueryOne(t *testing.T, page *snapshot.Page, selector string) interface{ Tag() string } {
	t.Helper()
	elements, err := page.Query(context.Background(), selector)
	if err != nil {
		t.Fatalf("Query %q failed: %v", selector, err)
	}
	if len(elements) != 1 {
		t.Fatalf("Query %q matched %d elements, want 1", selector, len(elements))
	}
	return elements[0]
}

// AssertNoError fails the test if err is not nil
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("Expected error but got nil")
	}
}

// AssertEqual fails the test if expected != actual
func AssertEqual(t *testing.T, expected, actual any) {
	t.Helper()
	if expected != actual {
		t.Errorf("Expected %v, got %v", expected, actual)
	}
}

// AssertTrue fails the test if condition is false
func AssertTrue(t *testing.T, condition bool, msg string) {
	t.Helper()
	if !condition {
		t.Error(msg)
	}
}

// AssertFalse fails the test if condition is true
func AssertFalse(t *testing.T, condition bool, msg string) {
	t.Helper()
	if condition {
		t.Error(msg)
	}
}

// AssertNotNil fails the test if value is nil
func AssertNotNil(t *testing.T, value any) {
	t.Helper()
	if value == nil {
		t.Error("Expected non-nil value")
	}
}

// AssertNil fails the test if value is not nil
func AssertNil(t *testing.T, value any) {
	t.Helper()
	if value != nil {
		t.Errorf("Expected nil, got %v", value)
	}
}
