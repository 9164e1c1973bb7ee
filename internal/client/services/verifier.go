// Package services contains application services for the roster verifier
// client. This file defines the verifier service: fetching the signed roster
// export, validating every record against the server's public key, and
// filtering out records that fail verification.
package services

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/rosterkeeper/internal/client/client"
	"github.com/dmitrijs2005/rosterkeeper/internal/cryptox"
	"github.com/dmitrijs2005/rosterkeeper/internal/export"
)

// VerifierService defines the read-side operations of the CLI.
//
// Contract:
//   - List: fetch the roster export and return only records whose signature
//     verifies against the server's public key.
//   - PublicKey: return the server's verification key as PEM text.
//   - SaveExport: download the raw export snapshot into a local file.
//   - Ping: check server liveness.
//   - Close: release underlying client resources.
//
// All methods must honor context cancellation/timeouts.
type VerifierService interface {
	List(ctx context.Context) ([]export.User, error)
	PublicKey(ctx context.Context) (string, error)
	SaveExport(ctx context.Context, path string) error
	Ping(ctx context.Context) error
	Close() error
}

// verifierService is the concrete VerifierService backed by a remote Client.
// The public key is fetched once and cached for the lifetime of the service.
type verifierService struct {
	client    client.Client
	publicKey string
}

// NewVerifierService constructs a VerifierService bound to the given API client.
func NewVerifierService(client client.Client) VerifierService {
	return &verifierService{client: client}
}

// getPublicKey returns the cached verification key, fetching it on first use.
func (s *verifierService) getPublicKey(ctx context.Context) (string, error) {
	if s.publicKey != "" {
		return s.publicKey, nil
	}

	key, err := s.client.PublicKey(ctx)
	if err != nil {
		return "", fmt.Errorf("public key fetch error: %w", err)
	}
	s.publicKey = key

	return key, nil
}

// List downloads the current export, checks every record's signature against
// the server's public key, and returns the records that pass. Records failing
// verification are dropped from the result without comment; only transport and
// decode failures surface as errors.
func (s *verifierService) List(ctx context.Context) ([]export.User, error) {
	key, err := s.getPublicKey(ctx)
	if err != nil {
		return nil, err
	}

	data, err := s.client.FetchExport(ctx)
	if err != nil {
		return nil, fmt.Errorf("export fetch error: %w", err)
	}

	snapshot, err := export.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("export decode error: %w", err)
	}

	verified := make([]export.User, 0, len(snapshot.Users))
	for _, u := range snapshot.Users {
		if cryptox.VerifySignature(u.EmailHash, u.Signature, key) {
			verified = append(verified, u)
		}
	}

	return verified, nil
}

// PublicKey exposes the cached verification key for display.
func (s *verifierService) PublicKey(ctx context.Context) (string, error) {
	return s.getPublicKey(ctx)
}

// SaveExport writes the raw export snapshot to path, byte for byte.
func (s *verifierService) SaveExport(ctx context.Context, path string) error {
	data, err := s.client.FetchExport(ctx)
	if err != nil {
		return fmt.Errorf("export fetch error: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("export save error: %w", err)
	}

	return nil
}

func (s *verifierService) Ping(ctx context.Context) error {
	return s.client.Ping(ctx)
}

func (s *verifierService) Close() error {
	return s.client.Close()
}
