package contract

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vishal-mourya/Dynamic-Test-Identifier-And-Runner/schema"
)

// skipIfGitNotAvailable skips the test if git binary is not found in PATH
func skipIfGitNotAvailable(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skipf("git binary not found in PATH: %v", err)
	}
}

// git runs a git command inside dir and fails the test on error.
func git(t *testing.T, dir string, args ...string) {
	t.Helper()
	cmd := exec.Command("git", append([]string{"-C", dir}, args...)...)
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, "git %v: %s", args, out)
}

// writeFile creates a file with parents under dir.
func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	full := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
}

// newTestRepo creates a repository with a "main" branch and a "feature"
// branch that modifies one source file and adds another.
func newTestRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	git(t, dir, "init", "-q", "-b", "main")
	git(t, dir, "config", "user.email", "dev@example.com")
	git(t, dir, "config", "user.name", "Dev")
	git(t, dir, "config", "commit.gpgsign", "false")

	writeFile(t, dir, "src/user.js", "module.exports = {};\n")
	writeFile(t, dir, "src/user.test.js", "test('x', () => {});\n")
	git(t, dir, "add", ".")
	git(t, dir, "commit", "-q", "-m", "initial")

	git(t, dir, "checkout", "-q", "-b", "feature")
	writeFile(t, dir, "src/user.js", "module.exports = { name: 'a' };\nconst b = 1;\n")
	writeFile(t, dir, "src/order.js", "module.exports = 1;\n")
	git(t, dir, "add", ".")
	git(t, dir, "commit", "-q", "-m", "feature")
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

	// Run flattens (ctx, repoPath, args...) into a single argument list.
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

func TestMockGitClient_GetChangedFiles(t *testing.T) {
	mockClient := new(MockGitClient)
	ctx := context.Background()
	files := []schema.ChangedFile{{Path: "a.go", Status: schema.StatusAdded}}
	mockClient.On("GetChangedFiles", ctx, "/repo", "main", "HEAD").Return(files, nil)

	got, err := mockClient.GetChangedFiles(ctx, "/repo", "main", "HEAD")
	require.NoError(t, err)
	assert.Equal(t, files, got)
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
	repoRoot := newTestRepo(t)

	tests := []struct {
		name        string
		repoPath    string
		args        []string
		expectError bool
	}{
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
		{
			name:     "valid command",
			repoPath: repoRoot,
			args:     []string{"status", "--short"},
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
	repo := newTestRepo(t)

	root, err := client.GetRepoRoot(ctx, filepath.Join(repo, "src"))
	assert.NoError(t, err, "GetRepoRoot should not return an error for a subdirectory")
	assert.NotEmpty(t, root)

	root2, err := client.GetRepoRoot(ctx, root)
	assert.NoError(t, err)
	assert.Equal(t, root, root2, "GetRepoRoot should return the same root for the root itself")

	_, err = client.GetRepoRoot(ctx, t.TempDir())
	assert.Error(t, err, "GetRepoRoot should return an error for non-git directory")
}

func TestLocalGitClient_ResolveRef(t *testing.T) {
	skipIfGitNotAvailable(t)

	client := NewLocalGitClient()
	ctx := context.Background()
	repo := newTestRepo(t)

	head, err := client.GetRepoHash(ctx, repo)
	require.NoError(t, err)
	assert.Len(t, head, 40)

	feature, err := client.ResolveRef(ctx, repo, "feature")
	require.NoError(t, err)
	assert.Equal(t, head, feature)

	base, err := client.ResolveRef(ctx, repo, "main")
	require.NoError(t, err)
	assert.NotEqual(t, head, base)

	_, err = client.ResolveRef(ctx, repo, "no-such-branch")
	assert.Error(t, err)
}

// TestLocalGitClient_ListFilesAtRef tests the ListFilesAtRef method.
func TestLocalGitClient_ListFilesAtRef(t *testing.T) {
	skipIfGitNotAvailable(t)

	client := NewLocalGitClient()
	ctx := context.Background()
	repo := newTestRepo(t)

	files, err := client.ListFilesAtRef(ctx, repo, "HEAD")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"src/order.js", "src/user.js", "src/user.test.js"}, files)

	files, err = client.ListFilesAtRef(ctx, repo, "main")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"src/user.js", "src/user.test.js"}, files)

	_, err = client.ListFilesAtRef(ctx, repo, "invalid-ref")
	assert.Error(t, err, "ListFilesAtRef should return an error for invalid ref")
}

func TestLocalGitClient_GetChangedFiles(t *testing.T) {
	skipIfGitNotAvailable(t)

	client := NewLocalGitClient()
	ctx := context.Background()
	repo := newTestRepo(t)

	raw, err := client.GetDiff(ctx, repo, "main", "feature")
	require.NoError(t, err)
	assert.Contains(t, string(raw), "src/order.js")

	files, err := client.GetChangedFiles(ctx, repo, "main", "feature")
	require.NoError(t, err)
	require.Len(t, files, 2)

	byPath := map[string]schema.ChangedFile{}
	for _, f := range files {
		byPath[f.Path] = f
	}
	assert.Equal(t, schema.StatusAdded, byPath["src/order.js"].Status)
	assert.Equal(t, 1, byPath["src/order.js"].Additions)
	assert.Equal(t, schema.StatusModified, byPath["src/user.js"].Status)
	assert.Equal(t, 2, byPath["src/user.js"].Additions)
	assert.Equal(t, 1, byPath["src/user.js"].Deletions)

	_, err = client.GetChangedFiles(ctx, repo, "main", "missing")
	assert.Error(t, err)
}
