package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"os"
	"sync"
)

// MasterKeyEnv holds the master key material when no key file is configured.
const MasterKeyEnv = "WOAV_MASTER_KEY"

var ErrSealedTooShort = errors.New("cryptox: sealed data too short")

var (
	masterMu   sync.Mutex
	masterKey  []byte
	masterPath string
)

// SetMasterKeyPath makes the master key load from a file instead of the
// environment. Any key already loaded is dropped.
func SetMasterKeyPath(path string) {
	masterMu.Lock()
	defer masterMu.Unlock()

	masterPath = path
	masterKey = nil
}

// ResetMasterKey drops the cached master key so the next seal or open reloads
// it. Tests use it after changing WOAV_MASTER_KEY.
func ResetMasterKey() {
	masterMu.Lock()
	defer masterMu.Unlock()

	masterKey = nil
}

// master returns the AES-256 key derived from the configured material. With
// neither a file nor the env var set an ephemeral key is generated, so sealed
// signing keys do not survive a restart.
func master() ([]byte, error) {
	masterMu.Lock()
	defer masterMu.Unlock()

	if masterKey != nil {
		return masterKey, nil
	}

	var material []byte
	switch {
	case masterPath != "":
		data, err := os.ReadFile(masterPath)
		if err != nil {
			return nil, fmt.Errorf("cryptox: read master key: %w", err)
		}
		material = data
	case os.Getenv(MasterKeyEnv) != "":
		material = []byte(os.Getenv(MasterKeyEnv))
	default:
		material = make([]byte, 32)
		if _, err := rand.Read(material); err != nil {
			return nil, fmt.Errorf("cryptox: generate master key: %w", err)
		}
	}

	sum := sha256.Sum256(material)
	masterKey = sum[:]
	return masterKey, nil
}

func masterAEAD() (cipher.AEAD, error) {
	key, err := master()
	if err != nil {
		return nil, err
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("cryptox: aes: %w", err)
	}
	return cipher.NewGCM(block)
}

// SealPrivateKey encrypts PEM key material with AES-256-GCM under the master
// key. Output layout is nonce || ciphertext || tag.
func SealPrivateKey(plain []byte) ([]byte, error) {
	aead, err := masterAEAD()
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("cryptox: nonce: %w", err)
	}

	return aead.Seal(nonce, nonce, plain, nil), nil
}

// OpenPrivateKey reverses SealPrivateKey.
func OpenPrivateKey(sealed []byte) ([]byte, error) {
	aead, err := masterAEAD()
	if err != nil {
		return nil, err
	}

	ns := aead.NonceSize()
	if len(sealed) < ns+aead.Overhead() {
		return nil, ErrSealedTooShort
	}

	plain, err := aead.Open(nil, sealed[:ns], sealed[ns:], nil)
	if err != nil {
		return nil, fmt.Errorf("cryptox: open sealed key: %w", err)
	}
	return plain, nil
}
