// Package progress draws the stderr spinner shown during one-shot scans.
package progress

import (
	"io"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
)

// Spinner wraps a progress bar of unknown length.
// A disabled spinner is a no-op.
type Spinner struct {
	bar *progressbar.ProgressBar
}

// NewSpinner starts a spinner on stderr labelled with desc.
func NewSpinner(desc string, enabled bool) *Spinner {
	return newSpinner(os.Stderr, desc, enabled)
}

func newSpinner(w io.Writer, desc string, enabled bool) *Spinner {
	if !enabled {
		return &Spinner{}
	}
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetWidth(20),
		progressbar.OptionSetDescription(desc),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetRenderBlankState(true),
		progressbar.OptionThrottle(65*time.Millisecond),
	)
	return &Spinner{bar: bar}
}

// Tick advances the spinner by one step.
func (s *Spinner) Tick() {
	if s.bar != nil {
		_ = s.bar.Add(1)
	}
}

// Finish stops the spinner and clears its line.
func (s *Spinner) Finish() {
	if s.bar == nil {
		return
	}
	_ = s.bar.Finish()
	_ = s.bar.Clear()
}
