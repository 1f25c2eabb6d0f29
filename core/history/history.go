package history

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/huangsam/madu/schema"
	"gonum.org/v1/gonum/stat"
)

// LogFunc fetches the raw commit log for root since the given instant.
type LogFunc func(ctx context.Context, root string, since time.Time) ([]byte, error)

// ErrTimeout is returned by Build when the log query outlives its deadline.
var ErrTimeout = errors.New("history query timed out")

// Build runs the single log query for root and groups it per file.
// On any failure it returns an empty map together with the reason, so the
// caller can carry on with structural metrics only.
func Build(ctx context.Context, fetch LogFunc, root string, window time.Duration, author string, now time.Time) (map[string]schema.FileHistory, error) {
	empty := map[string]schema.FileHistory{}

	out, err := fetch(ctx, root, now.Add(-window))
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return empty, ErrTimeout
		}
		return empty, fmt.Errorf("history unavailable for %s: %w", root, err)
	}
	if ctx.Err() != nil {
		return empty, ctx.Err()
	}

	return Group(ParseLog(out), now, window, author), nil
}

// fileAcc accumulates the commits touching one path.
type fileAcc struct {
	times       []time.Time
	authors     map[string]int
	firstByAuth map[string]time.Time
	isolated    int
}

// Group derives one FileHistory per path from the records that fall inside
// the window and match the author filter. Paths left with no commits are absent.
func Group(records []schema.CommitRecord, now time.Time, window time.Duration, author string) map[string]schema.FileHistory {
	cutoff := now.Add(-window)
	needle := strings.ToLower(strings.TrimSpace(author))

	acc := make(map[string]*fileAcc)
	for _, rec := range records {
		if rec.Timestamp.Before(cutoff) {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(rec.Author), needle) {
			continue
		}
		for _, path := range rec.Files {
			a, ok := acc[path]
			if !ok {
				a = &fileAcc{authors: make(map[string]int), firstByAuth: make(map[string]time.Time)}
				acc[path] = a
			}
			a.times = append(a.times, rec.Timestamp)
			a.authors[rec.Author]++
			if first, seen := a.firstByAuth[rec.Author]; !seen || rec.Timestamp.Before(first) {
				a.firstByAuth[rec.Author] = rec.Timestamp
			}
			if len(rec.Files) == 1 {
				a.isolated++
			}
		}
	}

	result := make(map[string]schema.FileHistory, len(acc))
	for path, a := range acc {
		result[path] = a.finalize(path, now)
	}
	return result
}

func (a *fileAcc) finalize(path string, now time.Time) schema.FileHistory {
	slices.SortFunc(a.times, func(x, y time.Time) int { return x.Compare(y) })
	churn := len(a.times)
	primary := primaryAuthor(a.authors, a.firstByAuth)
	last := a.times[churn-1]

	return schema.FileHistory{
		Path:          path,
		Churn:         churn,
		PrimaryAuthor: primary,
		Ownership:     float64(a.authors[primary]) / float64(churn) * 100,
		Isolation:     float64(a.isolated) / float64(churn) * 100,
		Rhythm:        Rhythm(a.times),
		AgeDays:       AgeDays(last, now),
		Authors:       len(a.authors),
		FirstCommit:   a.times[0],
		LastCommit:    last,
	}
}

// primaryAuthor picks the author with the most commits. Ties go to the
// author whose first commit came earliest, then to the smaller name.
func primaryAuthor(counts map[string]int, first map[string]time.Time) string {
	best := ""
	for name, n := range counts {
		if best == "" {
			best = name
			continue
		}
		switch {
		case n > counts[best]:
			best = name
		case n < counts[best]:
		case first[name].Before(first[best]):
			best = name
		case first[name].Equal(first[best]) && name < best:
			best = name
		}
	}
	return best
}

// Rhythm is the coefficient of variation of the gaps between sorted commit times.
// It is 0 with fewer than two commits or when every gap is zero.
func Rhythm(sorted []time.Time) float64 {
	if len(sorted) < 2 {
		return 0
	}
	gaps := make([]float64, 0, len(sorted)-1)
	for i := 1; i < len(sorted); i++ {
		gaps = append(gaps, sorted[i].Sub(sorted[i-1]).Hours())
	}
	mean, std := stat.PopMeanStdDev(gaps, nil)
	if mean == 0 || math.IsNaN(std) {
		return 0
	}
	return std / mean
}

// AgeDays returns the whole days elapsed since last, never negative.
func AgeDays(last, now time.Time) int {
	if !now.After(last) {
		return 0
	}
	return int(now.Sub(last) / (24 * time.Hour))
}
