// Package gateways defines interfaces for external service adapters.
package gateways

import (
	"context"
	"errors"

	"github.com/ochairo/assetverify/internal/domain/entities"
)

// ErrNotFound is returned when a file, ref or repository does not exist
var ErrNotFound = errors.New("not found")

// RepositoryGateway reads files and history from a fixture repository
type RepositoryGateway interface {
	// GetFileContent returns the content of path at ref
	GetFileContent(ctx context.Context, owner, repo, path, ref string) ([]byte, error)

	// ListCommits returns up to limit commits, newest first
	ListCommits(ctx context.Context, owner, repo string, limit int) ([]entities.Commit, error)

	// Describe returns a human readable location for owner/repo
	Describe(owner, repo string) string
}

// SignatureVerifier checks OpenPGP signatures on commits
type SignatureVerifier interface {
	// VerifyCommit returns nil if the commit signature is valid for the loaded keyring
	VerifyCommit(commit entities.Commit) error
}

// ChecksumVerifier checks content against an expected SHA256
type ChecksumVerifier interface {
	VerifyContent(content []byte, expectedSum string) error
}
