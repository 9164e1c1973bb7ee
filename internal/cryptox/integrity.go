package cryptox

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/sha512"
	"crypto/x509"
	"encoding/base64"
	"encoding/hex"
	"encoding/pem"
	"strings"

	"github.com/dmitrijs2005/rosterkeeper/internal/shared"
)

// NormalizeEmail lowercases the address and trims surrounding whitespace.
// It is applied to hash input only; stored emails keep their original form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// HashEmail returns the SHA-384 digest of the normalized email as 96
// lowercase hex characters. The digest is the privacy-preserving identity of
// the address and is deliberately computed with a different algorithm than
// the signature scheme layered on top of it.
func HashEmail(email string) (string, error) {
	if email == "" {
		return "", shared.ErrorInvalidInput
	}

	sum := sha512.Sum384([]byte(NormalizeEmail(email)))
	return hex.EncodeToString(sum[:]), nil
}

// Sign produces a base64 RSA signature (PKCS#1 v1.5, SHA-256) over the UTF-8
// bytes of the hex digest string, not over the raw digest bytes.
func (m *KeyManager) Sign(hash string) (string, error) {
	if m.privateKey == nil {
		return "", shared.ErrorUninitializedKey
	}
	if hash == "" {
		return "", shared.ErrorInvalidInput
	}

	digest := sha256.Sum256([]byte(hash))
	sig, err := rsa.SignPKCS1v15(rand.Reader, m.privateKey, crypto.SHA256, digest[:])
	if err != nil {
		return "", err
	}

	return base64.StdEncoding.EncodeToString(sig), nil
}

// VerifySignature reports whether signatureB64 is a valid signature of hash
// under the PEM-encoded public key. It never returns an error: malformed
// keys, signatures, or inputs all read as false, so callers can use it as a
// plain boolean guard.
func VerifySignature(hash, signatureB64, publicKeyPEM string) bool {
	if hash == "" || signatureB64 == "" {
		return false
	}

	block, _ := pem.Decode([]byte(publicKeyPEM))
	if block == nil {
		return false
	}

	parsed, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return false
	}
	pub, ok := parsed.(*rsa.PublicKey)
	if !ok {
		return false
	}

	sig, err := base64.StdEncoding.DecodeString(signatureB64)
	if err != nil {
		return false
	}

	digest := sha256.Sum256([]byte(hash))
	return rsa.VerifyPKCS1v15(pub, crypto.SHA256, digest[:], sig) == nil
}
