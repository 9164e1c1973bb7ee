// Package cryptox implements the record integrity pipeline: a process-wide
// RSA keypair with a durable PEM representation, a deterministic email
// digest, and signing/verification of that digest.
//
// The KeyManager is constructed once by the composition root and passed by
// handle to everything that signs; nothing in this package reads ambient
// global state, so tests can substitute a fixed keypair.
package cryptox

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/rosterkeeper/internal/filex"
	"github.com/dmitrijs2005/rosterkeeper/internal/shared"
)

const (
	privateKeyFile = "private.pem"
	publicKeyFile  = "public.pem"

	rsaKeyBits = 2048
)

// KeyManager owns the process keypair. EnsureKeys must complete before any
// signing or public-key access; afterwards the keypair is read-only and safe
// for concurrent use without locking.
type KeyManager struct {
	dir          string
	privateKey   *rsa.PrivateKey
	publicKeyPEM string
}

// NewKeyManager returns a manager that stores key material under dir. No
// keys are loaded or generated until EnsureKeys is called.
func NewKeyManager(dir string) *KeyManager {
	return &KeyManager{dir: dir}
}

// EnsureKeys makes exactly one valid keypair available: an existing PEM pair
// is loaded from disk, otherwise a fresh RSA-2048 pair is generated and
// persisted. The key directory is created if missing. Calling EnsureKeys
// again after it has succeeded is a no-op.
//
// Any I/O or generation failure here must be treated as fatal by the caller;
// the server must not accept traffic without a keypair.
func (m *KeyManager) EnsureKeys() error {
	if m.privateKey != nil {
		return nil
	}

	dir, err := filex.EnsureDir(m.dir)
	if err != nil {
		return fmt.Errorf("key dir: %w", err)
	}
	m.dir = dir

	privPath := filepath.Join(dir, privateKeyFile)
	pubPath := filepath.Join(dir, publicKeyFile)

	if _, err := os.Stat(privPath); err == nil {
		return m.loadKeys(privPath, pubPath)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat %s: %w", privPath, err)
	}

	return m.generateKeys(privPath, pubPath)
}

// PublicKeyPEM returns the public half in PEM (PKIX) encoding.
func (m *KeyManager) PublicKeyPEM() (string, error) {
	if m.publicKeyPEM == "" {
		return "", shared.ErrorUninitializedKey
	}
	return m.publicKeyPEM, nil
}

func (m *KeyManager) loadKeys(privPath, pubPath string) error {
	privPEM, err := os.ReadFile(privPath)
	if err != nil {
		return fmt.Errorf("read private key: %w", err)
	}

	block, _ := pem.Decode(privPEM)
	if block == nil {
		return fmt.Errorf("private key %s: no PEM block", privPath)
	}
	key, err := x509.ParsePKCS1PrivateKey(block.Bytes)
	if err != nil {
		return fmt.Errorf("parse private key: %w", err)
	}

	pubPEM, err := os.ReadFile(pubPath)
	if err != nil {
		return fmt.Errorf("read public key: %w", err)
	}
	if block, _ := pem.Decode(pubPEM); block == nil {
		return fmt.Errorf("public key %s: no PEM block", pubPath)
	}

	m.privateKey = key
	m.publicKeyPEM = string(pubPEM)
	return nil
}

func (m *KeyManager) generateKeys(privPath, pubPath string) error {
	key, err := rsa.GenerateKey(rand.Reader, rsaKeyBits)
	if err != nil {
		return fmt.Errorf("generate keypair: %w", err)
	}

	privPEM := pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	})

	pubDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		return fmt.Errorf("encode public key: %w", err)
	}
	pubPEM := pem.EncodeToMemory(&pem.Block{
		Type:  "PUBLIC KEY",
		Bytes: pubDER,
	})

	// Private key material is never world-readable.
	if err := os.WriteFile(privPath, privPEM, 0o600); err != nil {
		return fmt.Errorf("write private key: %w", err)
	}
	if err := os.WriteFile(pubPath, pubPEM, 0o644); err != nil {
		return fmt.Errorf("write public key: %w", err)
	}

	m.privateKey = key
	m.publicKeyPEM = string(pubPEM)
	return nil
}
