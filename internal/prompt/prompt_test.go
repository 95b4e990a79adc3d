package prompt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumberedColumns(t *testing.T) {
	assert.Equal(t, "1. x\n2. y\n3. time", NumberedColumns([]string{"x", "y", "time"}))
	assert.Equal(t, "", NumberedColumns(nil))
}

func TestScriptedAnswersInOrder(t *testing.T) {
	s := NewScripted("tracks.csv", "1", "2", "3", "", "")

	path, err := s.OpenFile("Select CSV", nil)
	require.NoError(t, err)
	assert.Equal(t, "tracks.csv", path)

	for _, want := range []string{"1", "2", "3", ""} {
		got, err := s.SelectColumn("t", "x", []string{"a"}, true)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	crs, err := s.Entry("Projection", "Enter projection", "EPSG:4326")
	require.NoError(t, err)
	assert.Equal(t, "EPSG:4326", crs, "empty answer keeps the initial value")

	_, err = s.Entry("again", "", "x")
	assert.ErrorIs(t, err, ErrCancelled, "exhausted queue cancels")
}

func TestScriptedCancel(t *testing.T) {
	s := NewScripted(Cancel, "")

	_, err := s.SelectColumn("", "", nil, false)
	assert.ErrorIs(t, err, ErrCancelled)

	_, err = s.OpenFile("", nil)
	assert.ErrorIs(t, err, ErrCancelled, "empty path is a cancelled file dialog")

	s.Error("Error", "bad input")
	assert.Equal(t, []string{"Error: bad input"}, s.Errors)
}
