// Package gpg provides OpenPGP commit signature verification.
package gpg

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ProtonMail/go-crypto/openpgp"

	"github.com/ochairo/assetverify/internal/domain/entities"
)

// Verifier implements SignatureVerifier using ProtonMail's go-crypto
// A maintained, modern fork of golang.org/x/crypto/openpgp
// This is in external-adapters to isolate the external dependency
type Verifier struct {
	keyring openpgp.EntityList
}

// NewVerifier creates a new verifier with an empty keyring
func NewVerifier() *Verifier {
	return &Verifier{
		keyring: make(openpgp.EntityList, 0),
	}
}

// ImportKeyFromFile imports OpenPGP keys from an armored or binary keyring file
func (v *Verifier) ImportKeyFromFile(keyPath string) error {
	//nolint:gosec // G304: keyPath is the keyring configured for commit verification
	f, err := os.Open(keyPath)
	if err != nil {
		return fmt.Errorf("failed to open key file: %w", err)
	}
	//nolint:errcheck // Defer close
	defer f.Close()

	if err := v.ImportArmoredKeyRing(f); err == nil {
		return nil
	}

	// Not armored, try reading as binary
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("failed to reset file: %w", err)
	}
	keys, err := openpgp.ReadKeyRing(f)
	if err != nil {
		return fmt.Errorf("failed to read key: %w", err)
	}
	if len(keys) == 0 {
		return fmt.Errorf("no keys found in file")
	}

	v.keyring = append(v.keyring, keys...)
	return nil
}

// ImportArmoredKeyRing imports all keys from an armored keyring.
// The keyring is left unchanged on error.
func (v *Verifier) ImportArmoredKeyRing(r io.Reader) error {
	// Limit keyring size to 10MB (some projects have large keyring files)
	keys, err := openpgp.ReadArmoredKeyRing(io.LimitReader(r, 10*1024*1024))
	if err != nil {
		return fmt.Errorf("failed to parse keyring: %w", err)
	}
	if len(keys) == 0 {
		return fmt.Errorf("no keys found in keyring")
	}

	v.keyring = append(v.keyring, keys...)
	return nil
}

// VerifyCommit verifies the commit's detached signature over its payload
func (v *Verifier) VerifyCommit(commit entities.Commit) error {
	if len(v.keyring) == 0 {
		return fmt.Errorf("no OpenPGP keys imported, call ImportKeyFromFile first")
	}
	if !commit.Signed() {
		return fmt.Errorf("commit %s is not signed", shortSHA(commit.SHA))
	}

	// Git only writes armored signatures
	if !strings.HasPrefix(strings.TrimSpace(commit.Signature), "-----BEGIN PGP SIGNATURE-----") {
		return fmt.Errorf("commit %s carries a non-OpenPGP signature", shortSHA(commit.SHA))
	}

	signer, err := openpgp.CheckArmoredDetachedSignature(
		v.keyring,
		strings.NewReader(commit.Payload),
		strings.NewReader(commit.Signature),
		nil,
	)
	if err != nil {
		return fmt.Errorf("signature verification failed for commit %s: %w", shortSHA(commit.SHA), err)
	}
	if signer == nil {
		return fmt.Errorf("signature verification failed for commit %s: unknown signer", shortSHA(commit.SHA))
	}

	return nil
}

// GetKeyringSize returns the number of keys in the keyring
func (v *Verifier) GetKeyringSize() int {
	return len(v.keyring)
}

func shortSHA(sha string) string {
	if len(sha) > 7 {
		return sha[:7]
	}
	return sha
}
