package outwriter

import (
	"os"

	"github.com/huangsam/depshield/internal/contract"
	"golang.org/x/term"
)

// terminalWidth returns the configured width override, the detected terminal
// width, or 80 when neither is available (pipes, CI).
func terminalWidth(cfg *contract.Config) int {
	if cfg.Width > 0 {
		return cfg.Width
	}
	detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || detectedWidth <= 0 {
		return 80
	}
	return detectedWidth
}

// getMaxNameWidth calculates the maximum width of the package name column.
func getMaxNameWidth(cfg *contract.Config) int {
	// Rank + Version + Score + Grade + Risk + Alerts + Bus + License with borders/padding
	baseWidth := 85

	available := terminalWidth(cfg) - baseWidth
	if available < 15 {
		return 15
	}
	if available > 50 {
		return 50
	}
	return available
}

// getMaxTextWidth calculates the width of free-text columns such as alert titles.
func getMaxTextWidth(cfg *contract.Config, reserved int) int {
	available := terminalWidth(cfg) - reserved
	if available < 20 {
		return 20
	}
	if available > 100 {
		return 100
	}
	return available
}
