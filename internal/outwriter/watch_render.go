package outwriter

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/huangsam/madu/internal/contract"
	"github.com/huangsam/madu/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// ANSI control sequences used by the watch screen.
const (
	clearScreen = "\x1b[2J\x1b[1;1H"
	hideCursor  = "\x1b[?25l"
	showCursor  = "\x1b[?25h"
	resetAttrs  = "\x1b[0m"
)

// WatchRenderer redraws the whole screen for every watch frame.
type WatchRenderer struct {
	w       io.Writer
	cfg     *contract.Config
	started bool
}

// NewWatchRenderer creates a renderer writing to w.
func NewWatchRenderer(w io.Writer, cfg *contract.Config) *WatchRenderer {
	return &WatchRenderer{w: w, cfg: cfg}
}

// Render draws one frame. The cursor is hidden on the first frame.
func (r *WatchRenderer) Render(frame schema.WatchFrame) error {
	var buf bytes.Buffer
	if !r.started {
		buf.WriteString(hideCursor)
		r.started = true
	}
	buf.WriteString(clearScreen)

	fmt.Fprintf(&buf, "Started: %s ago | Iterations: %d\n",
		frame.At.Sub(frame.Started).Round(time.Second), frame.Iteration)
	fmt.Fprintf(&buf, "Last update: %s | Watching %s every %s (Ctrl+C to stop)\n\n",
		frame.At.Format(time.TimeOnly), filepath.Base(r.cfg.RootPath), frame.Interval)

	if frame.Err != nil {
		fmt.Fprintf(&buf, "Pass failed: %v\n", frame.Err)
	} else if frame.Result != nil {
		if err := r.writeFrameTable(&buf, frame); err != nil {
			return err
		}
	}

	_, err := r.w.Write(buf.Bytes())
	return err
}

// Close restores the cursor and resets attributes.
func (r *WatchRenderer) Close() error {
	if !r.started {
		return nil
	}
	_, err := io.WriteString(r.w, resetAttrs+showCursor)
	return err
}

func (r *WatchRenderer) writeFrameTable(w io.Writer, frame schema.WatchFrame) error {
	result := frame.Result
	cfg := r.cfg
	grouped := result.Group != schema.NoGroup
	showAuthor := !grouped && cfg.ShowAuthor

	authors := make(map[string]string, len(result.Rows))
	for _, row := range result.Rows {
		authors[row.Path] = schema.FormatAuthor(row.Author())
	}
	files := make(map[string]int, len(result.Groups))
	for _, g := range result.Groups {
		files[g.Key] = g.Count
	}

	table := tablewriter.NewWriter(w)
	headers := []string{"Rank", keyHeader(result.Group), result.Metric.Label(), "Change", "Since start"}
	if showAuthor {
		headers = append(headers, "Author")
	}
	table.Header(headers)
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var red, green, gray func(...any) string
	if cfg.UseColors {
		red = color.New(color.FgRed).SprintFunc()
		green = color.New(color.FgGreen).SprintFunc()
		gray = color.New(color.FgHiBlack).SprintFunc()
	} else {
		red, green, gray = fmt.Sprint, fmt.Sprint, fmt.Sprint
	}
	signed := func(v float64) string {
		text := formatValue(result.Metric, v, cfg.Precision, false)
		switch {
		case v > 0:
			return red("+" + text + " ▲")
		case v < 0:
			return green(text + " ▼")
		default:
			return ""
		}
	}

	heat := heatScale(cfg, result)
	averaged := grouped && result.Metric.Aggregation() == schema.MeanAgg
	pathWidth := GetMaxTablePathWidth(cfg)

	var data [][]string
	for i, d := range frame.Deltas {
		rank := strconv.Itoa(cfg.Skip + i + 1)
		value := formatValue(result.Metric, d.Value, cfg.Precision, averaged)
		if cfg.UseColors {
			value = contract.Colorize(value, heat(d.Value, files[d.Key]))
		}

		// The first frame has nothing to compare against
		var change, sinceStart string
		switch {
		case frame.Iteration <= 1:
		case d.Status == schema.NewStatus:
			change = red("new")
			sinceStart = signed(d.SinceStart)
		case d.Status == schema.RemovedStatus:
			rank = "-"
			change = gray("removed")
			sinceStart = signed(d.SinceStart)
		default:
			change = signed(d.Delta)
			sinceStart = signed(d.SinceStart)
		}

		row := []string{rank, contract.TruncatePath(d.Key, pathWidth), value, change, sinceStart}
		if showAuthor {
			row = append(row, authors[d.Key])
		}
		data = append(data, row)
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	return writeSummary(w, result, cfg)
}
