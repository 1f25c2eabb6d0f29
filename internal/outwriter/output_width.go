package outwriter

import (
	"os"

	"github.com/huangsam/madu/internal/contract"
	"github.com/huangsam/madu/schema"
	"golang.org/x/term"
)

// terminalWidth returns the --width override, the detected width of stdout,
// or 80 when neither is available.
func terminalWidth(cfg *contract.Config) int {
	if cfg.Width > 0 {
		return cfg.Width
	}
	detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || detectedWidth <= 0 {
		return 80 // Conservative default for narrow terminals and CI
	}
	return detectedWidth
}

// GetMaxTablePathWidth calculates the maximum width for keys in table output
// based on terminal width and the columns that are shown.
func GetMaxTablePathWidth(cfg *contract.Config) int {
	// Rank + Value + Heat with borders/padding
	baseWidth := 30

	switch cfg.Group {
	case schema.SummaryGroup:
		baseWidth += 25 // Language + Files
	case schema.DirsGroup:
		baseWidth += 10 // Files
	default:
		if cfg.ShowAuthor {
			baseWidth += 25 // Author
		}
	}

	// Watch frames carry two delta columns
	if cfg.WatchInterval > 0 {
		baseWidth += 20
	}

	// Reserve generous space for table borders, separators, and padding
	baseWidth += 15

	available := terminalWidth(cfg) - baseWidth
	if available < 15 {
		return 15
	}
	if available > 70 {
		return 70
	}
	return available
}
