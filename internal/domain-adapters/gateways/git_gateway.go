package gateways

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/ochairo/assetverify/internal/domain/entities"
	"github.com/ochairo/assetverify/internal/domain/interfaces"
	"github.com/ochairo/assetverify/internal/domain/interfaces/gateways"
)

const (
	fieldSep  = "\x1f"
	recordSep = "\x1e"
)

// GitCLIGateway implements RepositoryGateway against a local checkout by shelling out to git.
// owner and repo are informational only; every call reads repoDir.
type GitCLIGateway struct {
	repoDir string
	logger  interfaces.Logger
}

// NewGitCLIGateway creates a gateway reading the checkout at repoDir
func NewGitCLIGateway(repoDir string, logger interfaces.Logger) *GitCLIGateway {
	if logger == nil {
		logger = &interfaces.NoOpLogger{}
	}
	return &GitCLIGateway{repoDir: repoDir, logger: logger}
}

// Describe returns the checkout path
func (g *GitCLIGateway) Describe(_, _ string) string {
	abs, err := filepath.Abs(g.repoDir)
	if err != nil {
		return g.repoDir
	}
	return abs
}

// GetFileContent returns path as committed at ref, not as it is in the working tree
func (g *GitCLIGateway) GetFileContent(ctx context.Context, _, _, path, ref string) ([]byte, error) {
	object := ref + ":" + strings.TrimPrefix(path, "/")

	// cat-file -e exits non-zero without output when the object is missing
	if _, err := g.git(ctx, "cat-file", "-e", object); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && !strings.Contains(err.Error(), "not a git repository") {
			return nil, fmt.Errorf("failed to get %s@%s: %w", path, ref, gateways.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get %s@%s: %w", path, ref, err)
	}

	out, err := g.git(ctx, "cat-file", "blob", object)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s@%s: %w", path, ref, err)
	}
	return out, nil
}

// ListCommits returns up to limit commits reachable from HEAD, newest first
func (g *GitCLIGateway) ListCommits(ctx context.Context, _, _ string, limit int) ([]entities.Commit, error) {
	if limit <= 0 {
		limit = entities.DefaultMaxCommits
	}

	format := strings.Join([]string{"%H", "%an", "%at", "%B"}, fieldSep) + recordSep
	out, err := g.git(ctx, "log", "-n", strconv.Itoa(limit), "--format="+format)
	if err != nil {
		if strings.Contains(err.Error(), "does not have any commits") {
			return []entities.Commit{}, nil
		}
		return nil, fmt.Errorf("git log failed: %w", err)
	}

	commits := parseLog(string(out))
	for i := range commits {
		raw, err := g.git(ctx, "cat-file", "commit", commits[i].SHA)
		if err != nil {
			return nil, fmt.Errorf("git cat-file %s failed: %w", commits[i].SHA, err)
		}
		commits[i].Signature, commits[i].Payload = splitSignature(string(raw))
	}

	g.logger.Debug("read local history", interfaces.F("repo", g.repoDir), interfaces.F("commits", len(commits)))
	return commits, nil
}

// parseLog splits git log output produced with fieldSep/recordSep separators
func parseLog(out string) []entities.Commit {
	commits := make([]entities.Commit, 0)
	for _, record := range strings.Split(out, recordSep) {
		record = strings.TrimLeft(record, "\n")
		if record == "" {
			continue
		}
		fields := strings.SplitN(record, fieldSep, 4)
		if len(fields) != 4 {
			continue
		}
		c := entities.Commit{
			SHA:     fields[0],
			Author:  fields[1],
			Message: strings.TrimRight(fields[3], "\n"),
		}
		if ts, err := strconv.ParseInt(fields[2], 10, 64); err == nil {
			c.Timestamp = time.Unix(ts, 0).UTC()
		}
		commits = append(commits, c)
	}
	return commits
}

// splitSignature separates the gpgsig header from a raw commit object.
// The payload is the object without that header, which is what was signed.
func splitSignature(raw string) (signature, payload string) {
	headerEnd := strings.Index(raw, "\n\n")
	if headerEnd < 0 {
		return "", ""
	}
	headers := strings.Split(raw[:headerEnd], "\n")

	var sig strings.Builder
	kept := make([]string, 0, len(headers))
	inSig := false
	for _, h := range headers {
		switch {
		case strings.HasPrefix(h, "gpgsig "):
			inSig = true
			sig.WriteString(strings.TrimPrefix(h, "gpgsig "))
			sig.WriteString("\n")
		case inSig && strings.HasPrefix(h, " "):
			sig.WriteString(strings.TrimPrefix(h, " "))
			sig.WriteString("\n")
		default:
			inSig = false
			kept = append(kept, h)
		}
	}

	if sig.Len() == 0 {
		return "", ""
	}
	return sig.String(), strings.Join(kept, "\n") + raw[headerEnd:]
}

// git runs a git subcommand in the checkout and returns stdout.
// Errors carry stderr for context.
func (g *GitCLIGateway) git(ctx context.Context, args ...string) ([]byte, error) {
	full := append([]string{"-C", g.repoDir}, args...)
	//nolint:gosec // G204: arguments are built from config values, not a shell string
	cmd := exec.CommandContext(ctx, "git", full...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if stderr.Len() > 0 {
			return nil, fmt.Errorf("%w: %s", err, strings.TrimSpace(stderr.String()))
		}
		return nil, err
	}
	return stdout.Bytes(), nil
}
