// Package history derives per-file statistics from the repository commit log.
package history

import (
	"bufio"
	"bytes"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/madu/internal/contract"
	"github.com/huangsam/madu/schema"
)

// ParseLog turns raw numstat log output into commit records in log order.
// Lines that are neither a commit header nor a numstat entry are skipped.
func ParseLog(out []byte) []schema.CommitRecord {
	var records []schema.CommitRecord
	var current *schema.CommitRecord

	scanner := bufio.NewScanner(bytes.NewReader(out))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		l := strings.Trim(scanner.Text(), " \t\r\n'")
		if l == "" {
			continue
		}

		if strings.HasPrefix(l, contract.LogHeaderPrefix) {
			rec, ok := parseCommitHeader(l)
			if !ok {
				current = nil
				continue
			}
			records = append(records, rec)
			current = &records[len(records)-1]
			continue
		}
		if current == nil {
			continue
		}

		path, ok := parseFileStatsLine(l)
		if !ok {
			continue
		}
		if !slices.Contains(current.Files, path) {
			current.Files = append(current.Files, path)
		}
	}
	return records
}

// parseCommitHeader extracts hash, author and date from "--hash|author|date".
// The author may itself contain '|', so the hash ends at the first separator
// and the date starts after the last one.
func parseCommitHeader(line string) (schema.CommitRecord, bool) {
	body := strings.TrimPrefix(line, contract.LogHeaderPrefix)
	first := strings.Index(body, "|")
	last := strings.LastIndex(body, "|")
	if first <= 0 || last == first {
		return schema.CommitRecord{}, false
	}

	date, err := time.Parse(time.RFC3339, strings.TrimSpace(body[last+1:]))
	if err != nil {
		return schema.CommitRecord{}, false
	}
	return schema.CommitRecord{
		ID:        body[:first],
		Author:    strings.TrimSpace(body[first+1 : last]),
		Timestamp: date,
	}, true
}

// parseFileStatsLine parses "added\tdeleted\tpath" and resolves renames to the new path.
func parseFileStatsLine(line string) (string, bool) {
	parts := strings.SplitN(line, "\t", 3)
	if len(parts) < 3 {
		return "", false
	}
	if !isChurnValue(parts[0]) || !isChurnValue(parts[1]) {
		return "", false
	}

	path := parts[2]
	if strings.Contains(path, " => ") {
		_, newPath := parseRenamePath(path)
		path = newPath
	}
	if path == "" {
		return "", false
	}
	return path, true
}

// isChurnValue accepts a non-negative count or "-" for binary files.
func isChurnValue(s string) bool {
	if s == "-" {
		return true
	}
	n, err := strconv.Atoi(s)
	return err == nil && n >= 0
}

// parseRenamePath extracts old and new paths from a rename string.
func parseRenamePath(path string) (string, string) {
	if !strings.Contains(path, "{") {
		// Simple format: "old => new"
		parts := strings.SplitN(path, " => ", 2)
		if len(parts) == 2 {
			return parts[0], parts[1]
		}
		return "", ""
	}

	// Braced format: prefix{old => new}suffix
	braceStart := strings.Index(path, "{")
	braceEnd := strings.Index(path, "}")
	if braceEnd == -1 || braceStart >= braceEnd {
		return "", ""
	}

	prefix := path[:braceStart]
	renamePart := path[braceStart+1 : braceEnd]
	suffix := path[braceEnd+1:]

	renameParts := strings.SplitN(renamePart, " => ", 2)
	if len(renameParts) != 2 {
		return "", ""
	}
	return joinRenamed(prefix, renameParts[0], suffix), joinRenamed(prefix, renameParts[1], suffix)
}

// joinRenamed glues a brace part back together, collapsing the double slash
// git leaves when one side of the rename is empty ("a/{ => b}/c.go").
func joinRenamed(prefix, middle, suffix string) string {
	if middle == "" {
		p, s := strings.TrimSuffix(prefix, "/"), strings.TrimPrefix(suffix, "/")
		switch {
		case p == "":
			return s
		case s == "":
			return p
		}
		return p + "/" + s
	}
	return prefix + middle + suffix
}
