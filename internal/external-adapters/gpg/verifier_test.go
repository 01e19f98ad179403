package gpg

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ProtonMail/go-crypto/openpgp"
	"github.com/ProtonMail/go-crypto/openpgp/armor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ochairo/assetverify/internal/domain/entities"
)

const testPayload = "tree 4b825dc642cb6eb9a060e54bf8d69288fbee4904\n" +
	"author Test <test@test.com> 1700000000 +0000\n" +
	"committer Test <test@test.com> 1700000000 +0000\n" +
	"\n" +
	"更新分析报告\n"

func newSigner(t *testing.T) *openpgp.Entity {
	t.Helper()
	entity, err := openpgp.NewEntity("Test", "", "test@test.com", nil)
	require.NoError(t, err)
	return entity
}

func armoredPublicKey(t *testing.T, entity *openpgp.Entity) []byte {
	t.Helper()
	var buf bytes.Buffer
	w, err := armor.Encode(&buf, openpgp.PublicKeyType, nil)
	require.NoError(t, err)
	require.NoError(t, entity.Serialize(w))
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func signedCommit(t *testing.T, entity *openpgp.Entity, payload string) entities.Commit {
	t.Helper()
	var sig bytes.Buffer
	require.NoError(t, openpgp.ArmoredDetachSign(&sig, entity, strings.NewReader(payload), nil))
	return entities.Commit{SHA: "0123456789abcdef", Message: "更新分析报告", Signature: sig.String(), Payload: payload}
}

func TestVerifier_VerifyCommit(t *testing.T) {
	signer := newSigner(t)
	v := NewVerifier()
	require.NoError(t, v.ImportArmoredKeyRing(bytes.NewReader(armoredPublicKey(t, signer))))
	assert.Equal(t, 1, v.GetKeyringSize())

	commit := signedCommit(t, signer, testPayload)
	assert.NoError(t, v.VerifyCommit(commit))

	t.Run("tampered payload", func(t *testing.T) {
		tampered := commit
		tampered.Payload = strings.Replace(testPayload, "更新", "删除", 1)
		err := v.VerifyCommit(tampered)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "signature verification failed for commit 0123456")
	})

	t.Run("unknown signer", func(t *testing.T) {
		other := signedCommit(t, newSigner(t), testPayload)
		assert.Error(t, v.VerifyCommit(other))
	})

	t.Run("unsigned", func(t *testing.T) {
		err := v.VerifyCommit(entities.Commit{SHA: "abc", Message: "init"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "is not signed")
	})

	t.Run("ssh signature", func(t *testing.T) {
		err := v.VerifyCommit(entities.Commit{SHA: "abc", Signature: "-----BEGIN SSH SIGNATURE-----", Payload: testPayload})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "non-OpenPGP")
	})
}

func TestVerifier_VerifyCommit_EmptyKeyring(t *testing.T) {
	err := NewVerifier().VerifyCommit(entities.Commit{SHA: "abc"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no OpenPGP keys imported")
}

func TestVerifier_ImportKeyFromFile(t *testing.T) {
	signer := newSigner(t)
	dir := t.TempDir()

	armored := filepath.Join(dir, "maintainers.asc")
	require.NoError(t, os.WriteFile(armored, armoredPublicKey(t, signer), 0600))

	var raw bytes.Buffer
	require.NoError(t, signer.Serialize(&raw))
	binary := filepath.Join(dir, "maintainers.gpg")
	require.NoError(t, os.WriteFile(binary, raw.Bytes(), 0600))

	v := NewVerifier()
	require.NoError(t, v.ImportKeyFromFile(armored))
	require.NoError(t, v.ImportKeyFromFile(binary))
	assert.Equal(t, 2, v.GetKeyringSize())
	assert.NoError(t, v.VerifyCommit(signedCommit(t, signer, testPayload)))
}

func TestVerifier_ImportKeyFromFile_Invalid(t *testing.T) {
	v := NewVerifier()

	err := v.ImportKeyFromFile("/nonexistent/key.asc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open key file")

	garbage := filepath.Join(t.TempDir(), "garbage.asc")
	require.NoError(t, os.WriteFile(garbage, []byte("not a key"), 0600))
	err = v.ImportKeyFromFile(garbage)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read key")
	assert.Equal(t, 0, v.GetKeyringSize())
}
