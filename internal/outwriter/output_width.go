package outwriter

import (
	"os"

	"github.com/huangsam/forecast/internal/contract"
	"golang.org/x/term"
)

// defaultTermWidth is used when the terminal size can't be detected (pipes, CI).
const defaultTermWidth = 80

// GetTermWidth returns the width override from config, else the detected
// terminal width, else a conservative default.
func GetTermWidth(cfg *contract.Config) int {
	if cfg.Width > 0 {
		return cfg.Width
	}
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return defaultTermWidth
	}
	return width
}

// GetMaxTableNameWidth calculates the maximum width for item names in the summary
// table, leaving room for the numeric columns.
func GetMaxTableNameWidth(cfg *contract.Config) int {
	// Initial, Final, Change, Min, Max, Samples, Trend plus borders and padding
	baseWidth := 6*(cfg.Precision+12) + 10 + 20

	available := GetTermWidth(cfg) - baseWidth
	if available < 10 {
		return 10
	}
	if available > 40 {
		return 40
	}
	return available
}
