package history

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLog_Sample(t *testing.T) {
	records := ParseLog(sampleLog)
	require.Len(t, records, 5, "the malformed header and its files are dropped")

	assert.Equal(t, "a1b2c3d4e5f6", records[0].ID)
	assert.Equal(t, "Alice Developer", records[0].Author)
	assert.Equal(t, []string{"core/analysis.go", "core/core.go"}, records[0].Files)
	assert.True(t, records[0].Timestamp.Equal(time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)))

	assert.Equal(t, []string{"core/analysis.go", "assets/logo.png"}, records[2].Files, "binary numstat lines keep their path")

	assert.Equal(t, "Carol | Ops", records[3].Author, "author may contain the separator")
	assert.Equal(t, []string{"src/helpers/helper.go", "new_name.go"}, records[3].Files, "renames resolve to the new path")

	assert.Equal(t, []string{"core/analysis.go"}, records[4].Files, "paths are deduplicated and junk is skipped")
}

func TestParseLog_Generated(t *testing.T) {
	base := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	out := generateTestGitLog([]gitLogScenario{
		{"abc123", "Alice", base, []string{"a.go", "b.go"}},
		{"def456", "Bob", base.Add(time.Hour), []string{"a.go"}},
	})

	records := ParseLog(out)
	require.Len(t, records, 2)
	assert.Equal(t, "def456", records[1].ID)
	assert.Equal(t, []string{"a.go"}, records[1].Files)
}

func TestParseLog_EdgeCases(t *testing.T) {
	assert.Empty(t, ParseLog(nil))
	assert.Empty(t, ParseLog([]byte("\n\n")))
	assert.Empty(t, ParseLog([]byte("1\t2\torphan.go\n")), "numstat before any header is ignored")
	assert.Empty(t, ParseLog([]byte("--abc|Alice|not-a-date\n1\t1\ta.go\n")))

	records := ParseLog([]byte("--abc|Alice|2024-01-01T00:00:00Z\r\n1\t1\ta.go\r\n"))
	require.Len(t, records, 1)
	assert.Equal(t, []string{"a.go"}, records[0].Files, "CRLF output is tolerated")
}

func TestParseCommitHeader(t *testing.T) {
	tests := []struct {
		name   string
		line   string
		ok     bool
		id     string
		author string
	}{
		{"valid", "--abc|Alice|2024-01-01T00:00:00Z", true, "abc", "Alice"},
		{"author with pipe", "--abc|A | B|2024-01-01T00:00:00+02:00", true, "abc", "A | B"},
		{"missing date", "--abc|Alice", false, "", ""},
		{"missing hash", "--|Alice|2024-01-01T00:00:00Z", false, "", ""},
		{"bad date", "--abc|Alice|yesterday", false, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, ok := parseCommitHeader(tt.line)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.id, rec.ID)
				assert.Equal(t, tt.author, rec.Author)
			}
		})
	}
}

func TestParseRenamePath(t *testing.T) {
	tests := []struct {
		input   string
		oldPath string
		newPath string
	}{
		{"old.go => new.go", "old.go", "new.go"},
		{"src/{a => b}/file.go", "src/a/file.go", "src/b/file.go"},
		{"src/{ => nested}/file.go", "src/file.go", "src/nested/file.go"},
		{"{ => pkg}/file.go", "file.go", "pkg/file.go"},
		{"src/{old => }/file.go", "src/old/file.go", "src/file.go"},
		{"src/{a => b/file.go", "", ""},
		{"src/}a => b{/file.go", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			oldPath, newPath := parseRenamePath(tt.input)
			assert.Equal(t, tt.oldPath, oldPath)
			assert.Equal(t, tt.newPath, newPath)
		})
	}
}
