package contract

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetPlainLabel(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected string
	}{
		{"growth", 12.5, UpValue},
		{"tiny growth", 1e-12, UpValue},
		{"decline", -3, DownValue},
		{"no change", 0, FlatValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetPlainLabel(tt.input))
		})
	}
}

func TestGetColorLabel(t *testing.T) {
	tests := []struct {
		change float64
		label  string
	}{
		{10, UpValue},
		{-10, DownValue},
		{0, FlatValue},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			assert.Contains(t, GetColorLabel(tt.change), tt.label)
		})
	}
}

func TestSelectOutputFile(t *testing.T) {
	t.Run("empty path returns stdout", func(t *testing.T) {
		file, err := SelectOutputFile("")
		require.NoError(t, err)
		assert.Equal(t, os.Stdout, file)
	})

	t.Run("valid path creates file", func(t *testing.T) {
		tempFile := filepath.Join(t.TempDir(), "test_output.txt")

		file, err := SelectOutputFile(tempFile)
		require.NoError(t, err)
		assert.NotNil(t, file)
		_ = file.Close()

		_, err = os.Stat(tempFile)
		assert.NoError(t, err)
	})
}

func TestGetHistoryDBFilePath(t *testing.T) {
	path := GetHistoryDBFilePath()
	assert.True(t, strings.HasSuffix(path, ".forecast_history.db"))
}

func TestFormatExact(t *testing.T) {
	tests := []struct {
		input    float64
		expected string
	}{
		{110, "110"},
		{0.1 + 0.2, "0.30000000000000004"},
		{1220.5, "1220.5"},
		{-3, "-3"},
		{1e21, "1000000000000000000000"},
	}
	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatExact(tt.input))
		})
	}
	assert.Equal(t, "3.14", FormatFixed(3.14159, 2))
	assert.Equal(t, "3", FormatFixed(3.14159, 0))
}

func TestTruncateText(t *testing.T) {
	assert.Equal(t, "savings", TruncateText("savings", 10))
	assert.Equal(t, "sav...", TruncateText("savings account", 6))
	assert.Equal(t, "savings", TruncateText("savings", 3), "no room for an ellipsis")
}

func TestParseBoolString(t *testing.T) {
	for _, s := range []string{"yes", "TRUE", "1"} {
		v, err := ParseBoolString(s)
		require.NoError(t, err)
		assert.True(t, v, s)
	}
	for _, s := range []string{"no", "False", "0"} {
		v, err := ParseBoolString(s)
		require.NoError(t, err)
		assert.False(t, v, s)
	}
	_, err := ParseBoolString("maybe")
	assert.Error(t, err)
}
