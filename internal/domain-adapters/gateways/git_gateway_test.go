package gateways

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ochairo/assetverify/internal/domain/interfaces/gateways"
)

func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
}

func runGit(t *testing.T, dir string, args ...string) {
	t.Helper()
	full := append([]string{"-C", dir}, args...)
	out, err := exec.Command("git", full...).CombinedOutput()
	require.NoError(t, err, "git %v: %s", args, out)
}

// initFixtureRepo creates a repo on main and commits each message with one file change
func initFixtureRepo(t *testing.T, files map[string]string, messages ...string) string {
	t.Helper()
	dir := t.TempDir()
	runGit(t, dir, "init", "-b", "main")
	runGit(t, dir, "config", "user.email", "test@test.com")
	runGit(t, dir, "config", "user.name", "Test")
	runGit(t, dir, "config", "commit.gpgsign", "false")

	for path, content := range files {
		full := filepath.Join(dir, path)
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0750))
		require.NoError(t, os.WriteFile(full, []byte(content), 0600))
	}
	runGit(t, dir, "add", "-A")

	for _, msg := range messages {
		runGit(t, dir, "commit", "--allow-empty", "-m", msg)
	}
	return dir
}

func TestGitCLIGateway_GetFileContent(t *testing.T) {
	requireGit(t)
	dir := initFixtureRepo(t, map[string]string{
		"docs/analysis-report.md": "# 项目分析报告\n",
	}, "init")

	g := NewGitCLIGateway(dir, nil)

	got, err := g.GetFileContent(context.Background(), "acme", "fixtures", "docs/analysis-report.md", "main")
	require.NoError(t, err)
	assert.Equal(t, "# 项目分析报告\n", string(got))

	// Working tree edits are not visible until committed
	require.NoError(t, os.WriteFile(filepath.Join(dir, "docs/analysis-report.md"), []byte("changed"), 0600))
	got, err = g.GetFileContent(context.Background(), "", "", "docs/analysis-report.md", "main")
	require.NoError(t, err)
	assert.Equal(t, "# 项目分析报告\n", string(got))
}

func TestGitCLIGateway_GetFileContent_NotFound(t *testing.T) {
	requireGit(t)
	dir := initFixtureRepo(t, map[string]string{"a.md": "a"}, "init")

	_, err := NewGitCLIGateway(dir, nil).GetFileContent(context.Background(), "", "", "missing.md", "main")
	require.Error(t, err)
	assert.True(t, errors.Is(err, gateways.ErrNotFound), "expected ErrNotFound, got %v", err)

	_, err = NewGitCLIGateway(dir, nil).GetFileContent(context.Background(), "", "", "a.md", "no-such-branch")
	assert.True(t, errors.Is(err, gateways.ErrNotFound), "expected ErrNotFound, got %v", err)
}

func TestGitCLIGateway_GetFileContent_NotARepo(t *testing.T) {
	requireGit(t)

	_, err := NewGitCLIGateway(t.TempDir(), nil).GetFileContent(context.Background(), "", "", "a.md", "main")
	require.Error(t, err)
	assert.False(t, errors.Is(err, gateways.ErrNotFound))
}

func TestGitCLIGateway_ListCommits(t *testing.T) {
	requireGit(t)
	dir := initFixtureRepo(t, map[string]string{"a.md": "a"},
		"init", "添加Claude AI协作分析报告", "fix: typo\n\nlonger body")

	commits, err := NewGitCLIGateway(dir, nil).ListCommits(context.Background(), "", "", 10)
	require.NoError(t, err)
	require.Len(t, commits, 3)

	assert.Equal(t, "fix: typo\n\nlonger body", commits[0].Message)
	assert.Equal(t, "添加Claude AI协作分析报告", commits[1].Message)
	assert.Equal(t, "init", commits[2].Message)
	assert.Equal(t, "Test", commits[0].Author)
	assert.Len(t, commits[0].SHA, 40)
	assert.False(t, commits[0].Timestamp.IsZero())
	assert.False(t, commits[0].Signed())

	limited, err := NewGitCLIGateway(dir, nil).ListCommits(context.Background(), "", "", 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestGitCLIGateway_ListCommits_EmptyRepo(t *testing.T) {
	requireGit(t)
	dir := t.TempDir()
	runGit(t, dir, "init", "-b", "main")

	commits, err := NewGitCLIGateway(dir, nil).ListCommits(context.Background(), "", "", 10)
	require.NoError(t, err)
	assert.Empty(t, commits)
}

func TestSplitSignature(t *testing.T) {
	raw := "tree 4b825dc642cb6eb9a060e54bf8d69288fbee4904\n" +
		"author Test <test@test.com> 1700000000 +0000\n" +
		"committer Test <test@test.com> 1700000000 +0000\n" +
		"gpgsig -----BEGIN PGP SIGNATURE-----\n" +
		" \n" +
		" iQEzBAABCAAdFiEE\n" +
		" -----END PGP SIGNATURE-----\n" +
		"\n" +
		"signed commit\n"

	sig, payload := splitSignature(raw)

	assert.Equal(t, "-----BEGIN PGP SIGNATURE-----\n\niQEzBAABCAAdFiEE\n-----END PGP SIGNATURE-----\n", sig)
	assert.Equal(t, "tree 4b825dc642cb6eb9a060e54bf8d69288fbee4904\n"+
		"author Test <test@test.com> 1700000000 +0000\n"+
		"committer Test <test@test.com> 1700000000 +0000\n"+
		"\n"+
		"signed commit\n", payload)

	sig, payload = splitSignature("tree abc\nauthor x\n\nunsigned\n")
	assert.Empty(t, sig)
	assert.Empty(t, payload)
}

func TestParseLog(t *testing.T) {
	out := "abc\x1fdev\x1f1700000000\x1fhello\n\x1e\ndef\x1fdev\x1fbad\x1fworld\n\x1e\n"

	commits := parseLog(out)
	require.Len(t, commits, 2)
	assert.Equal(t, "hello", commits[0].Message)
	assert.Equal(t, int64(1700000000), commits[0].Timestamp.Unix())
	assert.True(t, commits[1].Timestamp.IsZero())
}
