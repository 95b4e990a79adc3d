// Package testutil provides shared test utilities and fixtures.
//
// This package centralises common test helpers to reduce code duplication
// across test files and improve test maintainability.
package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

// WriteCSV writes a CSV fixture built from lines into a temp dir and returns its path.
func WriteCSV(t *testing.T, lines ...string) string {
	t.Helper()
	return WriteFile(t, "tracks.csv", strings.Join(lines, "\n")+"\n")
}

// WriteFile writes content to name inside a fresh temp dir and returns the path.
func WriteFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture %s: %v", name, err)
	}
	return path
}

// DroneCSV is a small two-track fixture with the plugin's required columns.
var DroneCSV = []string{
	"drone_id,longitude,latitude,depth,timestamp",
	"1,5.00,43.00,10,2024-01-01T00:00:00",
	"1,5.01,43.01,12,2024-01-01T00:10:00",
	"1,5.03,43.02,15,2024-01-01T00:20:00",
	"2,6.00,44.00,5,2024-01-01T00:05:00",
	"2,6.02,44.00,7,2024-01-01T00:25:00",
}
