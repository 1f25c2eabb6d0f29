// Package metrics has the structural metric engine for file contents.
package metrics

import (
	"bytes"
	"unicode"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
	"github.com/huangsam/madu/schema"
)

// Options tunes the structural heuristics.
type Options struct {
	IndentWidth int // Spaces per indent level
	DupWindow   int // Lines per duplication window
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{IndentWidth: 4, DupWindow: 4}
}

// Compute returns every structural metric for one file entry.
// It never fails: invalid UTF-8 and binary content are scanned best-effort.
func Compute(entry schema.FileEntry, opts Options) schema.MetricSet {
	content := entry.Content
	if opts.IndentWidth <= 0 {
		opts.IndentWidth = DefaultOptions().IndentWidth
	}
	if opts.DupWindow <= 0 {
		opts.DupWindow = DefaultOptions().DupWindow
	}

	return schema.MetricSet{
		Lines:         Lines(content),
		SizeBytes:     int64(len(content)),
		Chars:         Chars(content),
		Indent:        Indent(content, opts.IndentWidth),
		Complexity:    Complexity(content),
		Density:       Density(content),
		DuplicatesPct: Duplication(content, opts.DupWindow),
		Emoji:         Emoji(content),
	}
}

// FormatSize renders a byte count with base-1024 units.
func FormatSize(n int64) string {
	if n < 0 {
		n = 0
	}
	return humanize.IBytes(uint64(n))
}

// Lines counts newline-terminated lines plus an unterminated tail.
func Lines(content []byte) int {
	n := bytes.Count(content, []byte{'\n'})
	if len(content) > 0 && content[len(content)-1] != '\n' {
		n++
	}
	return n
}

// Chars counts runes that are not whitespace.
// A multi-byte character counts once; SizeBytes carries the byte count.
func Chars(content []byte) int {
	count := 0
	for len(content) > 0 {
		r, size := utf8.DecodeRune(content)
		content = content[size:]
		if r == utf8.RuneError || !unicode.IsSpace(r) {
			count++
		}
	}
	return count
}

// Indent returns the deepest leading indentation level over all non-blank lines.
// Each tab is one level and spaces are rounded to the nearest multiple of width.
func Indent(content []byte, width int) int {
	maxLevel := 0
	for line := range bytes.Lines(content) {
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		tabs, spaces := 0, 0
	lead:
		for _, b := range line {
			switch b {
			case '\t':
				tabs++
			case ' ':
				spaces++
			default:
				break lead
			}
		}
		maxLevel = max(maxLevel, tabs+(spaces+width/2)/width)
	}
	return maxLevel
}
