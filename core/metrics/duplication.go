package metrics

import (
	"bytes"
	"strings"
	"unicode"

	"github.com/cespare/xxhash/v2"
)

// Duplication returns the percentage of normalized lines that sit in a window
// already seen earlier in the same content.
// Windows do not overlap and a trailing partial window is ignored.
// Blank lines are dropped first, so the denominator is the non-blank line count.
func Duplication(content []byte, window int) float64 {
	if window <= 0 {
		return 0
	}
	lines := normalizedLines(content)
	if len(lines) < window {
		return 0
	}

	seen := make(map[uint64]struct{}, len(lines)/window)
	dupWindows := 0
	for start := 0; start+window <= len(lines); start += window {
		h := xxhash.Sum64String(strings.Join(lines[start:start+window], "\n"))
		if _, ok := seen[h]; ok {
			dupWindows++
			continue
		}
		seen[h] = struct{}{}
	}

	pct := float64(dupWindows*window) / float64(len(lines)) * 100
	return min(pct, 100)
}

// normalizedLines trims each line, removes inner whitespace and drops blanks.
func normalizedLines(content []byte) []string {
	var out []string
	for raw := range bytes.Lines(content) {
		line := strings.Map(func(r rune) rune {
			if unicode.IsSpace(r) {
				return -1
			}
			return r
		}, string(raw))
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}
