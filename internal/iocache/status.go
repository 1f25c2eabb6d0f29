package iocache

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/huangsam/madu/schema"
)

// PrintCacheStatus prints cache status information.
func PrintCacheStatus(w io.Writer, status schema.CacheStatus) {
	printCacheStatus(w, status, time.Now())
}

func printCacheStatus(w io.Writer, status schema.CacheStatus, now time.Time) {
	_, _ = fmt.Fprintf(w, "Cache Backend: %s\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	_, _ = fmt.Fprintf(w, "Total Entries: %d\n", status.TotalEntries)
	if status.TotalEntries > 0 {
		_, _ = fmt.Fprintf(w, "Last Entry: %s (%s)\n",
			status.LastEntryTime.Format(time.DateTime), humanize.RelTime(status.LastEntryTime, now, "ago", "from now"))
		_, _ = fmt.Fprintf(w, "Oldest Entry: %s (%s)\n",
			status.OldestEntryTime.Format(time.DateTime), humanize.RelTime(status.OldestEntryTime, now, "ago", "from now"))
	}
	_, _ = fmt.Fprintf(w, "Table Size: %s\n", humanize.IBytes(uint64(max(status.TableSizeBytes, 0))))
}
