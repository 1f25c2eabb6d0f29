package core

import (
	"context"
	"errors"
	"time"

	"github.com/huangsam/madu/schema"
)

// PassFunc runs one complete analysis pass.
type PassFunc func(ctx context.Context) (*schema.AnalysisResult, error)

// FrameRenderer draws one watch frame.
type FrameRenderer interface {
	Render(frame schema.WatchFrame) error
}

// WatchState is the lifecycle state of the watch loop.
type WatchState int

// Watch loop states.
const (
	WatchIdle WatchState = iota
	WatchRunning
	WatchSleeping
	WatchCancelled
)

func (s WatchState) String() string {
	switch s {
	case WatchIdle:
		return "idle"
	case WatchRunning:
		return "running"
	case WatchSleeping:
		return "sleeping"
	case WatchCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Watcher re-runs a pass on a fixed interval and renders the differences.
// Passes never overlap: the timer is armed only after a pass has been rendered.
type Watcher struct {
	Interval time.Duration
	Pass     PassFunc
	Renderer FrameRenderer

	state     WatchState
	iteration int
	started   time.Time
	prev      []schema.KeyedValue
	base      []schema.KeyedValue
	hasBase   bool
}

// Watch runs the watch loop until ctx is cancelled.
func Watch(ctx context.Context, interval time.Duration, pass PassFunc, r FrameRenderer) error {
	w := &Watcher{Interval: interval, Pass: pass, Renderer: r}
	return w.Run(ctx)
}

// State returns the current lifecycle state.
func (w *Watcher) State() WatchState {
	return w.state
}

// Run drives the loop. Cancellation ends it cleanly with a nil error; only a
// renderer failure is returned.
func (w *Watcher) Run(ctx context.Context) error {
	if w.Interval <= 0 {
		return errors.New("watch interval must be positive")
	}
	w.started = nowFromContext(ctx)

	timer := time.NewTimer(w.Interval)
	timer.Stop()
	defer timer.Stop()

	for {
		if ctx.Err() != nil {
			w.state = WatchCancelled
			return nil
		}

		w.state = WatchRunning
		res, err := w.Pass(ctx)
		if ctx.Err() != nil {
			// A pass cut short by cancellation is never shown
			w.state = WatchCancelled
			return nil
		}

		if rerr := w.Renderer.Render(w.nextFrame(ctx, res, err)); rerr != nil {
			w.state = WatchCancelled
			return rerr
		}

		w.state = WatchSleeping
		timer.Reset(w.Interval)
		select {
		case <-ctx.Done():
			w.state = WatchCancelled
			return nil
		case <-timer.C:
		}
	}
}

// nextFrame builds the frame for one pass and advances the snapshots.
// A failed pass keeps the previous snapshot.
func (w *Watcher) nextFrame(ctx context.Context, res *schema.AnalysisResult, err error) schema.WatchFrame {
	w.iteration++
	frame := schema.WatchFrame{
		Iteration: w.iteration,
		Started:   w.started,
		At:        nowFromContext(ctx),
		Interval:  w.Interval,
	}
	if err != nil {
		frame.Err = err
		return frame
	}
	if res == nil {
		frame.Err = errors.New("pass returned no result")
		return frame
	}

	curr := res.Entries()
	if !w.hasBase {
		w.base = curr
		w.hasBase = true
	}
	frame.Result = res
	frame.Deltas = DiffSnapshots(w.prev, curr, w.base)
	w.prev = curr
	return frame
}
