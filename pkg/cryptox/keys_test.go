package cryptox_test

import (
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/woavlite/woav/pkg/cryptox"
)

func TestGenerateAndParseKeys(t *testing.T) {
	edPEM, err := cryptox.GenerateEd25519Key()
	require.NoError(t, err)
	ed, err := cryptox.ParsePrivateKeyPEM(edPEM)
	require.NoError(t, err)
	require.IsType(t, ed25519.PrivateKey{}, ed)

	ecPEM, err := cryptox.GenerateES256Key()
	require.NoError(t, err)
	ec, err := cryptox.ParsePrivateKeyPEM(ecPEM)
	require.NoError(t, err)
	require.Equal(t, elliptic.P256(), ec.(*ecdsa.PrivateKey).Curve)
}

func TestParsePrivateKeyPEMRejects(t *testing.T) {
	_, err := cryptox.ParsePrivateKeyPEM([]byte("not pem"))
	require.Error(t, err)

	rsaKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	der, err := x509.MarshalPKCS8PrivateKey(rsaKey)
	require.NoError(t, err)
	_, err = cryptox.ParsePrivateKeyPEM(pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der}))
	require.ErrorIs(t, err, cryptox.ErrUnsupportedKey)

	p384, err := ecdsa.GenerateKey(elliptic.P384(), rand.Reader)
	require.NoError(t, err)
	der, err = x509.MarshalPKCS8PrivateKey(p384)
	require.NoError(t, err)
	_, err = cryptox.ParsePrivateKeyPEM(pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der}))
	require.ErrorIs(t, err, cryptox.ErrUnsupportedKey)
}

func useMasterKey(t *testing.T, value string) {
	t.Setenv(cryptox.MasterKeyEnv, value)
	cryptox.ResetMasterKey()
	t.Cleanup(cryptox.ResetMasterKey)
}

func TestSealOpenRoundTrip(t *testing.T) {
	useMasterKey(t, "seal-open-master")

	keyPEM, err := cryptox.GenerateEd25519Key()
	require.NoError(t, err)

	sealed, err := cryptox.SealPrivateKey(keyPEM)
	require.NoError(t, err)
	require.NotContains(t, string(sealed), "PRIVATE KEY")

	again, err := cryptox.SealPrivateKey(keyPEM)
	require.NoError(t, err)
	require.NotEqual(t, sealed, again, "nonce must differ per seal")

	opened, err := cryptox.OpenPrivateKey(sealed)
	require.NoError(t, err)
	require.Equal(t, keyPEM, opened)
}

func TestOpenRejectsTamperingAndWrongKey(t *testing.T) {
	useMasterKey(t, "first-master")

	sealed, err := cryptox.SealPrivateKey([]byte("secret"))
	require.NoError(t, err)

	tampered := append([]byte(nil), sealed...)
	tampered[len(tampered)-1] ^= 0xff
	_, err = cryptox.OpenPrivateKey(tampered)
	require.Error(t, err)

	_, err = cryptox.OpenPrivateKey([]byte("short"))
	require.ErrorIs(t, err, cryptox.ErrSealedTooShort)

	useMasterKey(t, "second-master")
	_, err = cryptox.OpenPrivateKey(sealed)
	require.Error(t, err)
}

func TestMasterKeyFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "master.key")
	require.NoError(t, os.WriteFile(path, []byte("file-master-key"), 0o600))

	cryptox.SetMasterKeyPath(path)
	t.Cleanup(func() { cryptox.SetMasterKeyPath("") })

	sealed, err := cryptox.SealPrivateKey([]byte("data"))
	require.NoError(t, err)

	// Same file material after a reset still opens it.
	cryptox.ResetMasterKey()
	opened, err := cryptox.OpenPrivateKey(sealed)
	require.NoError(t, err)
	require.Equal(t, []byte("data"), opened)

	cryptox.SetMasterKeyPath(filepath.Join(t.TempDir(), "missing"))
	_, err = cryptox.SealPrivateKey([]byte("data"))
	require.Error(t, err)
}

func TestTokens(t *testing.T) {
	tok, err := cryptox.GenerateToken(cryptox.TokenSize128)
	require.NoError(t, err)
	require.Len(t, tok, 22)

	_, err = cryptox.GenerateToken(0)
	require.Error(t, err)

	require.Equal(t, cryptox.FingerprintToken("a"), cryptox.FingerprintToken("a"))
	require.NotEqual(t, cryptox.FingerprintToken("a"), cryptox.FingerprintToken("b"))
	require.Len(t, cryptox.FingerprintToken("a"), 43)
}
