package contract

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"

	"github.com/tharaga/propmatch/schema"
)

// Color variables for console output.
var (
	ExcellentColor = color.New(color.FgGreen, color.Bold) // strongest matches
	StrongColor    = color.New(color.FgCyan, color.Bold)
	FairColor      = color.New(color.FgYellow)
	WeakColor      = color.New(color.FgWhite)
)

// GetColorLabel returns a colored match label for console output (table).
// It uses schema.GetPlainLabel to determine the string, and then applies the appropriate color.
func GetColorLabel(percent int) string {
	text := schema.GetPlainLabel(percent)

	switch text {
	case schema.ExcellentValue:
		return ExcellentColor.Sprint(text)
	case schema.StrongValue:
		return StrongColor.Sprint(text)
	case schema.FairValue:
		return FairColor.Sprint(text)
	default:
		return WeakColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. An empty path means stdout.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetDBFilePath returns the path to the SQLite DB file for the weights store.
func GetDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".propmatch_store.db"
	}
	return filepath.Join(homeDir, ".propmatch_store.db")
}

// GetListingsDBFilePath returns the path to the SQLite DB file holding the properties table.
func GetListingsDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".propmatch_listings.db"
	}
	return filepath.Join(homeDir, ".propmatch_listings.db")
}

// IsURL reports whether a location names an http(s) resource rather than a file.
func IsURL(location string) bool {
	u, err := url.Parse(location)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// TruncateText truncates text to a maximum width with an ellipsis suffix.
// Requires maxWidth > 3 so there's room for the "..." and one character.
func TruncateText(text string, maxWidth int) string {
	runes := []rune(text)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return text
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
