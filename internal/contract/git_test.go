package contract

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// skipIfGitNotAvailable skips the test if git binary is not found in PATH
func skipIfGitNotAvailable(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skipf("git binary not found in PATH: %v", err)
	}
}

// initTestRepo creates a throwaway repository with one commit touching main.go.
func initTestRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	git := func(args ...string) {
		cmd := exec.Command("git", append([]string{"-C", dir}, args...)...)
		cmd.Env = append(os.Environ(),
			"GIT_AUTHOR_NAME=Ada", "GIT_AUTHOR_EMAIL=ada@example.com",
			"GIT_COMMITTER_NAME=Ada", "GIT_COMMITTER_EMAIL=ada@example.com",
		)
		out, err := cmd.CombinedOutput()
		require.NoError(t, err, string(out))
	}
	git("init", "-q")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.go"), []byte("package main\n"), 0o644))
	git("add", "main.go")
	git("commit", "-q", "-m", "initial")
	return dir
}

// TestMockGitClient_Run ensures the mock correctly records and returns
// expected values when its Run method is called.
func TestMockGitClient_Run(t *testing.T) {
	mockClient := new(MockGitClient)

	const expectedRepoPath = "/path/to/repo"
	expectedArgs := []string{"log", "-1", "--oneline"}
	expectedOutput := []byte("a1b2c3d commit message")
	expectedError := errors.New("mocked git error")

	// Prepare the exact arguments that will be passed to m.Called() inside MockGitClient.Run()
	ctx := context.Background()
	calledArgs := []any{ctx, expectedRepoPath}
	for _, arg := range expectedArgs {
		calledArgs = append(calledArgs, arg)
	}

	mockClient.
		On("Run", calledArgs...).
		Return(expectedOutput, expectedError).
		Once()

	actualOutput, actualError := mockClient.Run(ctx, expectedRepoPath, expectedArgs...)

	assert.Equal(t, expectedOutput, actualOutput, "Run should return the programmed output")
	assert.Equal(t, expectedError, actualError, "Run should return the programmed error")
	mockClient.AssertExpectations(t)
}

func TestMockGitClient_GetCommitLog(t *testing.T) {
	mockClient := new(MockGitClient)
	ctx := context.Background()
	since := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	mockClient.On("GetCommitLog", ctx, "/repo", since).Return([]byte("--abc|Ada|2024-01-02T00:00:00Z\n"), nil)

	out, err := mockClient.GetCommitLog(ctx, "/repo", since)
	require.NoError(t, err)
	assert.Contains(t, string(out), "Ada")
	mockClient.AssertExpectations(t)
}

// TestNewLocalGitClient tests the constructor for LocalGitClient.
func TestNewLocalGitClient(t *testing.T) {
	client := NewLocalGitClient()
	assert.NotNil(t, client, "NewLocalGitClient should return a non-nil client")
	assert.IsType(t, &LocalGitClient{}, client, "NewLocalGitClient should return a LocalGitClient instance")
}

// TestLocalGitClient_Run tests the Run method with various scenarios.
func TestLocalGitClient_Run(t *testing.T) {
	skipIfGitNotAvailable(t)

	client := NewLocalGitClient()
	ctx := context.Background()
	repoRoot := initTestRepo(t)

	tests := []struct {
		name        string
		repoPath    string
		args        []string
		expectError bool
	}{
		{
			name:        "valid command",
			repoPath:    repoRoot,
			args:        []string{"status", "--short"},
			expectError: false,
		},
		{
			name:        "invalid repo path",
			repoPath:    "/nonexistent/path",
			args:        []string{"status"},
			expectError: true,
		},
		{
			name:        "invalid git command",
			repoPath:    repoRoot,
			args:        []string{"invalid-command"},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.Run(ctx, tt.repoPath, tt.args...)
			if tt.expectError {
				assert.Error(t, err, "Run should return an error for %s", tt.name)
			} else {
				assert.NoError(t, err, "Run should not return an error for %s", tt.name)
			}
		})
	}
}

// TestLocalGitClient_GetRepoRoot tests the GetRepoRoot method.
func TestLocalGitClient_GetRepoRoot(t *testing.T) {
	skipIfGitNotAvailable(t)

	client := NewLocalGitClient()
	ctx := context.Background()
	repoRoot := initTestRepo(t)

	root, err := client.GetRepoRoot(ctx, repoRoot)
	assert.NoError(t, err, "GetRepoRoot should not return an error for a repository")
	assert.NotEmpty(t, root, "GetRepoRoot should return a non-empty root path")

	root2, err := client.GetRepoRoot(ctx, root)
	assert.NoError(t, err)
	assert.Equal(t, root, root2, "GetRepoRoot should return the same root for its own output")

	_, err = client.GetRepoRoot(ctx, t.TempDir())
	assert.Error(t, err, "GetRepoRoot should return an error for non-git directory")
}

func TestLocalGitClient_GetRepoHash(t *testing.T) {
	skipIfGitNotAvailable(t)

	client := NewLocalGitClient()
	hash, err := client.GetRepoHash(context.Background(), initTestRepo(t))
	require.NoError(t, err)
	assert.Len(t, hash, 40)
}

// TestLocalGitClient_GetCommitLog checks the header format the history parser relies on.
func TestLocalGitClient_GetCommitLog(t *testing.T) {
	skipIfGitNotAvailable(t)

	client := NewLocalGitClient()
	ctx := context.Background()
	repoRoot := initTestRepo(t)

	out, err := client.GetCommitLog(ctx, repoRoot, time.Now().AddDate(0, 0, -30))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.NotEmpty(t, lines)
	assert.True(t, strings.HasPrefix(lines[0], LogHeaderPrefix), "first line should be a header: %q", lines[0])
	assert.Contains(t, lines[0], "|Ada|")
	assert.Contains(t, string(out), "main.go")

	// A window in the future yields nothing but is not an error
	out, err = client.GetCommitLog(ctx, repoRoot, time.Now().Add(48*time.Hour))
	require.NoError(t, err)
	assert.Empty(t, strings.TrimSpace(string(out)))

	_, err = client.GetCommitLog(ctx, t.TempDir(), time.Time{})
	assert.Error(t, err)
}
