package history

import (
	_ "embed"
	"fmt"
	"strings"
	"time"
)

//go:embed testdata/sample.log
var sampleLog []byte

// sampleNow is two days after the last commit in sampleLog.
var sampleNow = time.Date(2024, 3, 11, 10, 0, 0, 0, time.UTC)

// gitLogScenario represents a single commit scenario for test data generation.
type gitLogScenario struct {
	commitHash string
	author     string
	date       time.Time
	files      []string
}

// generateTestGitLog creates a programmatic git log fixture for testing.
func generateTestGitLog(scenarios []gitLogScenario) []byte {
	var lines []string
	for _, scenario := range scenarios {
		lines = append(lines, fmt.Sprintf("--%s|%s|%s", scenario.commitHash, scenario.author, scenario.date.Format(time.RFC3339)))
		for i, file := range scenario.files {
			lines = append(lines, fmt.Sprintf("%d\t%d\t%s", i+1, i, file))
		}
		lines = append(lines, "") // Empty line between commits
	}
	return []byte(strings.Join(lines, "\n"))
}
