package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmlog/farmlog-api/internal/domain"
)

func TestUserService_UpdateProfile(t *testing.T) {
	repo := newFakeUserRepo()
	auth := NewAuthService(repo)
	svc := NewUserService(repo)
	ctx := context.Background()

	alice := registerAlice(t, auth)
	_, err := auth.Register(ctx, domain.User{Username: "bob", Email: "bob@example.com", Password: "hunter22"})
	require.NoError(t, err)

	name := "Alicia"
	_, err = svc.UpdateProfile(ctx, alice.ID, domain.ProfileUpdate{FirstName: &name, CurrentPassword: "nope"})
	assert.ErrorIs(t, err, ErrWrongPassword)

	taken := "BOB@example.com"
	_, err = svc.UpdateProfile(ctx, alice.ID, domain.ProfileUpdate{Email: &taken, CurrentPassword: "hunter22"})
	assert.ErrorIs(t, err, ErrUserEmailExists)

	same := "alice@example.com"
	updated, err := svc.UpdateProfile(ctx, alice.ID, domain.ProfileUpdate{
		FirstName:       &name,
		Email:           &same,
		CurrentPassword: "hunter22",
		NewPassword:     "changed123",
	})
	require.NoError(t, err)
	assert.Equal(t, "Alicia", updated.FirstName)
	assert.True(t, checkHash(updated.Password, "changed123"))
}

func TestUserService_DeleteAccount(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo)
	alice := registerAlice(t, NewAuthService(repo))
	ctx := context.Background()

	assert.ErrorIs(t, svc.DeleteAccount(ctx, alice.ID, "wrong"), ErrWrongPassword)
	require.NoError(t, svc.DeleteAccount(ctx, alice.ID, "hunter22"))

	_, err := svc.GetUser(ctx, alice.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserService_SetStaff(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo)
	ctx := context.Background()

	alice := registerAlice(t, NewAuthService(repo))
	assert.False(t, alice.IsStaff)

	require.NoError(t, svc.SetStaff(ctx, "ALICE", true))
	got, err := svc.GetUser(ctx, alice.ID)
	require.NoError(t, err)
	assert.True(t, got.IsStaff)

	name := "Alicia"
	updated, err := svc.UpdateProfile(ctx, alice.ID, domain.ProfileUpdate{FirstName: &name, CurrentPassword: "hunter22"})
	require.NoError(t, err)
	assert.True(t, updated.IsStaff)

	assert.ErrorIs(t, svc.SetStaff(ctx, "nobody", true), ErrUserNotFound)
}
