package jwtx

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/woavlite/woav/pkg/cryptox"
)

// Supported signing algorithms.
const (
	AlgorithmEdDSA = "EdDSA"
	AlgorithmES256 = "ES256"
)

// Signer signs claims with one private key.
type Signer interface {
	Alg() string
	KID() string
	Sign(Claims) (string, error)
	PublicJWK() JWK
}

type keySigner struct {
	kid    string
	method jwt.SigningMethod
	key    crypto.Signer
	jwk    JWK
}

// NewSigner builds a Signer from a PKCS#8 PEM private key. The algorithm
// follows the key type.
func NewSigner(kid string, pemKey []byte) (Signer, error) {
	key, err := cryptox.ParsePrivateKeyPEM(pemKey)
	if err != nil {
		return nil, err
	}

	var method jwt.SigningMethod
	switch key.(type) {
	case ed25519.PrivateKey:
		method = jwt.SigningMethodEdDSA
	case *ecdsa.PrivateKey:
		method = jwt.SigningMethodES256
	default:
		return nil, fmt.Errorf("jwtx: no signing method for %T", key)
	}

	jwk, err := publicJWK(kid, key.Public())
	if err != nil {
		return nil, err
	}

	return &keySigner{kid: kid, method: method, key: key, jwk: jwk}, nil
}

// GenerateSigner creates a fresh key for alg. The PEM is returned so callers
// can persist it.
func GenerateSigner(alg, kid string) (Signer, []byte, error) {
	var (
		pemKey []byte
		err    error
	)
	switch alg {
	case AlgorithmEdDSA:
		pemKey, err = cryptox.GenerateEd25519Key()
	case AlgorithmES256:
		pemKey, err = cryptox.GenerateES256Key()
	default:
		return nil, nil, fmt.Errorf("jwtx: unsupported algorithm %q (supported: EdDSA, ES256)", alg)
	}
	if err != nil {
		return nil, nil, err
	}

	s, err := NewSigner(kid, pemKey)
	if err != nil {
		return nil, nil, err
	}
	return s, pemKey, nil
}

// NewKeyID returns a random kid.
func NewKeyID() string {
	return "woav-" + cryptox.MustGenerateToken(cryptox.TokenSize128)
}

func (s *keySigner) Alg() string    { return s.method.Alg() }
func (s *keySigner) KID() string    { return s.kid }
func (s *keySigner) PublicJWK() JWK { return s.jwk }

func (s *keySigner) Sign(claims Claims) (string, error) {
	t := jwt.NewWithClaims(s.method, claims)
	t.Header["kid"] = s.kid
	return t.SignedString(s.key)
}
