package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/rosterkeeper/internal/cryptox"
	"github.com/dmitrijs2005/rosterkeeper/internal/shared"
)

// Signer produces integrity signatures over email hashes. Satisfied by
// cryptox.KeyManager.
type Signer interface {
	Sign(hash string) (string, error)
}

type Service struct {
	repo   Repository
	signer Signer
}

func NewService(repo Repository, signer Signer) *Service {
	return &Service{repo: repo, signer: signer}
}

// UpdateParams carries a partial update. Nil fields are left untouched.
type UpdateParams struct {
	Email  *string
	Role   *string
	Status *string
}

// Stats summarizes the user table for dashboards.
type Stats struct {
	Total    int64
	ByRole   map[string]int64
	ByStatus map[string]int64
}

// Create validates the input, runs the integrity pipeline and persists one
// row. Empty role and status fall back to their defaults. A user with the
// same raw email yields ErrorConflict.
func (s *Service) Create(ctx context.Context, email, role, status string) (*User, error) {
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", shared.ErrorInvalidInput)
	}
	if role == "" {
		role = RoleUser
	}
	if status == "" {
		status = StatusActive
	}
	if !ValidRole(role) {
		return nil, fmt.Errorf("%w: unknown role %q", shared.ErrorInvalidInput, role)
	}
	if !ValidStatus(status) {
		return nil, fmt.Errorf("%w: unknown status %q", shared.ErrorInvalidInput, status)
	}

	if err := s.checkEmailFree(ctx, email, 0); err != nil {
		return nil, err
	}

	user := &User{Email: email, Role: role, Status: status}
	if err := s.applyIntegrity(user); err != nil {
		return nil, err
	}

	return s.repo.Create(ctx, user)
}

func (s *Service) Get(ctx context.Context, id uint) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]User, error) {
	return s.repo.List(ctx)
}

// Update applies a partial update. When the email actually changes, the hash
// and signature are recomputed and stored in the same write; an unchanged
// email leaves both byte-identical.
func (s *Service) Update(ctx context.Context, id uint, params UpdateParams) (*User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if params.Role != nil {
		if !ValidRole(*params.Role) {
			return nil, fmt.Errorf("%w: unknown role %q", shared.ErrorInvalidInput, *params.Role)
		}
		user.Role = *params.Role
	}
	if params.Status != nil {
		if !ValidStatus(*params.Status) {
			return nil, fmt.Errorf("%w: unknown status %q", shared.ErrorInvalidInput, *params.Status)
		}
		user.Status = *params.Status
	}

	if params.Email != nil && *params.Email != user.Email {
		if *params.Email == "" {
			return nil, fmt.Errorf("%w: email is required", shared.ErrorInvalidInput)
		}
		if err := s.checkEmailFree(ctx, *params.Email, id); err != nil {
			return nil, err
		}
		user.Email = *params.Email
		if err := s.applyIntegrity(user); err != nil {
			return nil, err
		}
	}

	return s.repo.Update(ctx, user)
}

func (s *Service) Delete(ctx context.Context, id uint) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, err
	}
	byRole, err := s.repo.CountByRole(ctx)
	if err != nil {
		return nil, err
	}
	byStatus, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}

	return &Stats{Total: total, ByRole: byRole, ByStatus: byStatus}, nil
}

// applyIntegrity recomputes the derived columns from user.Email.
func (s *Service) applyIntegrity(user *User) error {
	hash, err := cryptox.HashEmail(user.Email)
	if err != nil {
		return err
	}
	sig, err := s.signer.Sign(hash)
	if err != nil {
		return err
	}

	user.EmailHash = hash
	user.Signature = sig
	return nil
}

// checkEmailFree rejects an email already held by another user. Emails are
// compared exactly as submitted; the unique index backs this check up under
// concurrency.
func (s *Service) checkEmailFree(ctx context.Context, email string, selfID uint) error {
	other, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, shared.ErrorNotFound) {
			return nil
		}
		return err
	}
	if other.ID != selfID {
		return shared.ErrorConflict
	}
	return nil
}
