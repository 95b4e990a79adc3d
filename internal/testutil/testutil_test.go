package testutil

import (
	"errors"
	"os"
	"strings"
	"testing"
)

func TestAssertNoError(t *testing.T) {
	t.Parallel()
	AssertNoError(t, nil)
}

func TestAssertError(t *testing.T) {
	t.Parallel()
	AssertError(t, errors.New("boom"))
}

func TestWriteCSV(t *testing.T) {
	t.Parallel()

	path := WriteCSV(t, DroneCSV...)
	data, err := os.ReadFile(path)
	AssertNoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != len(DroneCSV) {
		t.Fatalf("got %d lines, want %d", len(lines), len(DroneCSV))
	}
	if lines[0] != DroneCSV[0] {
		t.Errorf("header = %q", lines[0])
	}
}
