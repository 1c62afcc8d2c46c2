package contract

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tharaga/propmatch/schema"
)

func TestGetColorLabel(t *testing.T) {
	tests := []struct {
		name    string
		percent int
		label   string
	}{
		{"weak", 30, schema.WeakValue},
		{"fair", 50, schema.FairValue},
		{"strong", 70, schema.StrongValue},
		{"excellent", 90, schema.ExcellentValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := GetColorLabel(tt.percent)
			// Should contain the plain label
			assert.Contains(t, result, tt.label)
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

func TestGetDBFilePath(t *testing.T) {
	path := GetDBFilePath()
	assert.Contains(t, path, ".propmatch_store.db")

	homeDir, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(path, homeDir), "path %s should start with home dir %s", path, homeDir)

	assert.NotEqual(t, path, GetListingsDBFilePath())
}

func TestIsURL(t *testing.T) {
	assert.True(t, IsURL("https://example.com/listings.json"))
	assert.True(t, IsURL("http://localhost:8080/api"))
	assert.False(t, IsURL("./data/listings.json"))
	assert.False(t, IsURL("/tmp/sheet.csv"))
	assert.False(t, IsURL("ftp://example.com/x"))
	assert.False(t, IsURL(""))
}

func TestTruncateText(t *testing.T) {
	assert.Equal(t, "Sunrise...", TruncateText("Sunrise Apartments", 10))
	assert.Equal(t, "short", TruncateText("short", 10))
	assert.Equal(t, "abcdef", TruncateText("abcdef", 3))
	assert.Equal(t, "₹₹₹...", TruncateText("₹₹₹₹₹₹₹₹", 6))
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
