package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fatih/color"
)

// Trend label constants.
const (
	UpValue   = "Up"   // Value grew over the run
	DownValue = "Down" // Value shrank over the run
	FlatValue = "Flat" // Value ended where it started
)

// Color variables for console output.
var (
	UpColor   = color.New(color.FgGreen, color.Bold) // UpColor represents growth.
	DownColor = color.New(color.FgRed, color.Bold)   // DownColor represents decline.
	FlatColor = color.New(color.FgCyan)              // FlatColor represents no net change.
)

// GetPlainLabel returns a plain text label describing the direction of a change.
// This is the core logic used for CSV, JSON, and table printing.
func GetPlainLabel(change float64) string {
	switch {
	case change > 0:
		return UpValue
	case change < 0:
		return DownValue
	default:
		return FlatValue
	}
}

// GetColorLabel returns a colored text label for console output (table).
// It uses GetPlainLabel to determine the string, and then applies the appropriate color.
func GetColorLabel(change float64) string {
	text := GetPlainLabel(change)

	switch text {
	case UpValue:
		return UpColor.Sprint(text)
	case DownValue:
		return DownColor.Sprint(text)
	default:
		return FlatColor.Sprint(text)
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

// GetHistoryDBFilePath returns the path to the SQLite DB file for run history.
func GetHistoryDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".forecast_history.db"
	}
	return filepath.Join(homeDir, ".forecast_history.db")
}

// FormatExact renders v in the shortest form that parses back to the same float64.
func FormatExact(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatFixed renders v with a fixed number of decimals.
func FormatFixed(v float64, precision int) string {
	return strconv.FormatFloat(v, 'f', precision, 64)
}

// TruncateText truncates text to a maximum width with an ellipsis suffix.
// Requires maxWidth > 3 so there is room for the ellipsis and at least one character.
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
