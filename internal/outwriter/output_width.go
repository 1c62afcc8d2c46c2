package outwriter

import (
	"os"

	"golang.org/x/term"

	"github.com/tharaga/propmatch/internal/contract"
)

const (
	fallbackTermWidth = 80 // CI and pipes report no size

	// Rank, Match, Label, Price, BHK, Area and Walk with borders/padding.
	fixedColumnsWidth = 70
	locationWidth     = 22

	minTitleWidth = 15
	maxTitleWidth = 60
)

// terminalWidth prefers the configured width, then the size of stdout.
func terminalWidth(cfg *contract.Config) int {
	if cfg.Width > 0 {
		return cfg.Width
	}
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return fallbackTermWidth
}

// GetMaxTableTitleWidth returns how many columns the listing title may use
// once the fixed columns of the results table are laid out.
func GetMaxTableTitleWidth(cfg *contract.Config) int {
	available := terminalWidth(cfg) - fixedColumnsWidth - locationWidth
	return min(max(available, minTitleWidth), maxTitleWidth)
}
