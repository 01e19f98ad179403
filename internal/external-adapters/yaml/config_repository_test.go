package yaml

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigRepository_Load_Default(t *testing.T) {
	cfg, err := NewConfigRepository().Load(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, "example-repo", cfg.TargetRepo)
	assert.Equal(t, "docs/analysis-report.md", cfg.TargetFile.Path)
	assert.Len(t, cfg.ContentRules, 3)
	require.NotNil(t, cfg.CommitVerification)
	assert.Equal(t, "更新分析报告", cfg.CommitVerification.MsgPattern)
}

func TestConfigRepository_Load_ResolvesKeyring(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "verify.yaml")
	content := `target_repo: r
target_file: {path: a.md}
commit_verification:
  msg_pattern: x
  require_signed: true
  keyring: keys/maintainers.asc
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg, err := NewConfigRepository().Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "keys", "maintainers.asc"), cfg.CommitVerification.KeyringPath)
}

func TestConfigRepository_Load_NotFound(t *testing.T) {
	_, err := NewConfigRepository().Load(context.Background(), filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config not found")
}
