package users

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/rosterkeeper/internal/cryptox"
	"github.com/dmitrijs2005/rosterkeeper/internal/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*Service, *cryptox.KeyManager) {
	t.Helper()

	km := cryptox.NewKeyManager(t.TempDir())
	require.NoError(t, km.EnsureKeys())

	return NewService(NewGormRepository(newTestDB(t)), km), km
}

type failingSigner struct {
	err error
}

func (f *failingSigner) Sign(string) (string, error) { return "", f.err }

func TestServiceCreate_DefaultsAndIntegrity(t *testing.T) {
	svc, km := newTestService(t)
	ctx := context.Background()

	u, err := svc.Create(ctx, "alice@example.com", "", "")
	require.NoError(t, err)

	assert.Equal(t, RoleUser, u.Role)
	assert.Equal(t, StatusActive, u.Status)
	assert.Equal(t, "alice@example.com", u.Email)

	wantHash, err := cryptox.HashEmail("alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, wantHash, u.EmailHash)
	assert.Len(t, u.EmailHash, 96)

	pub, err := km.PublicKeyPEM()
	require.NoError(t, err)
	assert.True(t, cryptox.VerifySignature(u.EmailHash, u.Signature, pub),
		"the stored signature must verify against the stored hash")
}

func TestServiceCreate_PreservesEmailCasing(t *testing.T) {
	svc, km := newTestService(t)

	u, err := svc.Create(context.Background(), "Alice@Example.com", "", "")
	require.NoError(t, err)

	assert.Equal(t, "Alice@Example.com", u.Email, "stored email must keep the submitted casing")

	wantHash, err := cryptox.HashEmail("alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, wantHash, u.EmailHash, "hash input is normalized even when the stored email is not")

	pub, err := km.PublicKeyPEM()
	require.NoError(t, err)
	assert.True(t, cryptox.VerifySignature(u.EmailHash, u.Signature, pub))
}

func TestServiceCreate_ExplicitRoleAndStatus(t *testing.T) {
	svc, _ := newTestService(t)

	u, err := svc.Create(context.Background(), "root@example.com", RoleAdmin, StatusInactive)
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, u.Role)
	assert.Equal(t, StatusInactive, u.Status)
}

func TestServiceCreate_Validation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		email  string
		role   string
		status string
	}{
		{"empty email", "", "", ""},
		{"unknown role", "x@example.com", "owner", ""},
		{"unknown status", "x@example.com", "", "paused"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tt.email, tt.role, tt.status)
			assert.ErrorIs(t, err, shared.ErrorInvalidInput)
		})
	}
}

func TestServiceCreate_DuplicateEmail(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, "alice@example.com", "", "")
	require.NoError(t, err)

	_, err = svc.Create(ctx, "alice@example.com", "", "")
	assert.ErrorIs(t, err, shared.ErrorConflict)

	all, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1, "a rejected create must not persist a second record")
}

func TestServiceCreate_CaseVariantsAreDistinctButHashEqual(t *testing.T) {
	// Uniqueness compares raw emails; hashing normalizes. Two case variants
	// may coexist and will carry the same digest.
	svc, _ := newTestService(t)
	ctx := context.Background()

	u1, err := svc.Create(ctx, "alice@example.com", "", "")
	require.NoError(t, err)
	u2, err := svc.Create(ctx, "Alice@Example.com", "", "")
	require.NoError(t, err)

	assert.NotEqual(t, u1.Email, u2.Email)
	assert.Equal(t, u1.EmailHash, u2.EmailHash)
}

func TestServiceCreate_SignerFailure(t *testing.T) {
	svc := NewService(NewGormRepository(newTestDB(t)), &failingSigner{err: shared.ErrorUninitializedKey})

	_, err := svc.Create(context.Background(), "alice@example.com", "", "")
	assert.ErrorIs(t, err, shared.ErrorUninitializedKey)
}

func TestServiceUpdate_RoleOnlyKeepsIntegrityColumns(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	u, err := svc.Create(ctx, "alice@example.com", "", "")
	require.NoError(t, err)
	hash, sig := u.EmailHash, u.Signature

	role := RoleAdmin
	updated, err := svc.Update(ctx, u.ID, UpdateParams{Role: &role})
	require.NoError(t, err)

	assert.Equal(t, RoleAdmin, updated.Role)
	assert.Equal(t, hash, updated.EmailHash, "hash must not change when email is untouched")
	assert.Equal(t, sig, updated.Signature, "signature must not change when email is untouched")
}

func TestServiceUpdate_EmailChangeRecomputesIntegrity(t *testing.T) {
	svc, km := newTestService(t)
	ctx := context.Background()

	u, err := svc.Create(ctx, "alice@example.com", "", "")
	require.NoError(t, err)
	oldHash := u.EmailHash

	email := "alice.new@example.com"
	updated, err := svc.Update(ctx, u.ID, UpdateParams{Email: &email})
	require.NoError(t, err)

	assert.Equal(t, email, updated.Email)
	assert.NotEqual(t, oldHash, updated.EmailHash)

	wantHash, err := cryptox.HashEmail(email)
	require.NoError(t, err)
	assert.Equal(t, wantHash, updated.EmailHash)

	pub, err := km.PublicKeyPEM()
	require.NoError(t, err)
	assert.True(t, cryptox.VerifySignature(updated.EmailHash, updated.Signature, pub))
}

func TestServiceUpdate_SameEmailIsNoop(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	u, err := svc.Create(ctx, "alice@example.com", "", "")
	require.NoError(t, err)

	email := "alice@example.com"
	updated, err := svc.Update(ctx, u.ID, UpdateParams{Email: &email})
	require.NoError(t, err)

	assert.Equal(t, u.EmailHash, updated.EmailHash)
	assert.Equal(t, u.Signature, updated.Signature)
}

func TestServiceUpdate_EmailConflict(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, "taken@example.com", "", "")
	require.NoError(t, err)
	u, err := svc.Create(ctx, "free@example.com", "", "")
	require.NoError(t, err)

	email := "taken@example.com"
	_, err = svc.Update(ctx, u.ID, UpdateParams{Email: &email})
	assert.ErrorIs(t, err, shared.ErrorConflict)
}

func TestServiceUpdate_Validation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	u, err := svc.Create(ctx, "alice@example.com", "", "")
	require.NoError(t, err)

	badRole := "owner"
	_, err = svc.Update(ctx, u.ID, UpdateParams{Role: &badRole})
	assert.ErrorIs(t, err, shared.ErrorInvalidInput)

	empty := ""
	_, err = svc.Update(ctx, u.ID, UpdateParams{Email: &empty})
	assert.ErrorIs(t, err, shared.ErrorInvalidInput)
}

func TestServiceUpdate_Missing(t *testing.T) {
	svc, _ := newTestService(t)

	role := RoleAdmin
	_, err := svc.Update(context.Background(), 999, UpdateParams{Role: &role})
	assert.ErrorIs(t, err, shared.ErrorNotFound)
}

func TestServiceDelete(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	u, err := svc.Create(ctx, "alice@example.com", "", "")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, u.ID))
	assert.ErrorIs(t, svc.Delete(ctx, u.ID), shared.ErrorNotFound)

	_, err = svc.Get(ctx, u.ID)
	assert.ErrorIs(t, err, shared.ErrorNotFound)
}

func TestServiceStats(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, "a@example.com", RoleAdmin, StatusActive)
	require.NoError(t, err)
	_, err = svc.Create(ctx, "b@example.com", RoleUser, StatusActive)
	require.NoError(t, err)
	_, err = svc.Create(ctx, "c@example.com", RoleUser, StatusInactive)
	require.NoError(t, err)

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)

	assert.Equal(t, int64(3), stats.Total)
	assert.Equal(t, map[string]int64{RoleAdmin: 1, RoleUser: 2}, stats.ByRole)
	assert.Equal(t, map[string]int64{StatusActive: 2, StatusInactive: 1}, stats.ByStatus)
}

func TestServiceList(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, "a@example.com", "", "")
	require.NoError(t, err)
	_, err = svc.Create(ctx, "b@example.com", "", "")
	require.NoError(t, err)

	users, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "a@example.com", users[0].Email)
	assert.Equal(t, "b@example.com", users[1].Email)
}
