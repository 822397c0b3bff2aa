package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pizzeria/internal/adapter/storage"
	"pizzeria/internal/core/domain"
)

func newTestAccounts() *AccountService {
	return NewAccountService(storage.NewMemoryStore().Users, nil, nil)
}

func TestRegisterAndAuthenticate(t *testing.T) {
	ctx := context.Background()
	svc := newTestAccounts()

	user, err := svc.Register(ctx, "alice", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleCustomer, user.Role)
	assert.NotEqual(t, "s3cret", string(user.PasswordHash), "password must not be stored in plaintext")

	got, err := svc.Authenticate(ctx, "alice", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = svc.Authenticate(ctx, "alice", "wrong")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = svc.Authenticate(ctx, "nobody", "s3cret")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestRegister_DuplicateUsername(t *testing.T) {
	ctx := context.Background()
	svc := newTestAccounts()

	_, err := svc.Register(ctx, "alice", "s3cret")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "alice", "other")
	assert.ErrorIs(t, err, domain.ErrUsernameTaken)
}

func TestSetNickname(t *testing.T) {
	ctx := context.Background()
	svc := newTestAccounts()

	_, err := svc.Register(ctx, "alice", "s3cret")
	require.NoError(t, err)

	require.NoError(t, svc.SetNickname(ctx, "alice", "ally"))

	got, err := svc.Authenticate(ctx, "alice", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "ally", got.Nickname)

	err = svc.SetNickname(ctx, "nobody", "ghost")
	assert.ErrorIs(t, err, domain.ErrUnknownUser)
}

func TestSetNickname_AdminProtected(t *testing.T) {
	ctx := context.Background()
	svc := newTestAccounts()

	require.NoError(t, svc.EnsureAdmin(ctx, "admin", "admin_password"))

	err := svc.SetNickname(ctx, "admin", "boss")
	assert.ErrorIs(t, err, domain.ErrAdminProtectedField)
}

func TestEnsureAdmin_Idempotent(t *testing.T) {
	ctx := context.Background()
	svc := newTestAccounts()

	require.NoError(t, svc.EnsureAdmin(ctx, "admin", "admin_password"))
	require.NoError(t, svc.EnsureAdmin(ctx, "admin", "admin_password"))

	admin, err := svc.Authenticate(ctx, "admin", "admin_password")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, admin.Role)
}
