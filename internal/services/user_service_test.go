package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/accesshub/accesshub/pkg/errors"
)

func TestUserServiceCreateAndLookup(t *testing.T) {
	db := openServiceTestDB(t)
	svc, err := NewUserService(db)
	require.NoError(t, err)

	ctx := context.Background()

	user, err := svc.Create(ctx, CreateUserInput{
		Email:     "alice@example.com",
		FirstName: "Alice",
		LastName:  "Smith",
		Username:  "alice",
		Password:  "plain-secret",
		IsAdmin:   true,
	})
	require.NoError(t, err)
	require.NotZero(t, user.ID)

	byEmail, err := svc.GetByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)

	// The password is stored verbatim; this layer never hashes.
	assert.Equal(t, "plain-secret", byEmail.Password)

	byID, err := svc.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", byID.Username)
}

func TestUserServiceRejectsDuplicateEmail(t *testing.T) {
	db := openServiceTestDB(t)
	svc, err := NewUserService(db)
	require.NoError(t, err)

	ctx := context.Background()

	input := CreateUserInput{
		Email:    "alice@example.com",
		Username: "alice",
		Password: "pw",
	}
	_, err = svc.Create(ctx, input)
	require.NoError(t, err)

	input.Username = "alice2"
	_, err = svc.Create(ctx, input)
	require.ErrorIs(t, err, apperrors.ErrUniqueConstraintViolation)
}

func TestUserServiceValidatesInput(t *testing.T) {
	db := openServiceTestDB(t)
	svc, err := NewUserService(db)
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), CreateUserInput{
		Email:    "not-an-email",
		Username: "x",
		Password: "pw",
	})
	require.ErrorIs(t, err, apperrors.ErrBadRequest)
}

func TestUserServiceUpdateAndDelete(t *testing.T) {
	db := openServiceTestDB(t)
	svc, err := NewUserService(db)
	require.NoError(t, err)

	ctx := context.Background()

	user, err := svc.Create(ctx, CreateUserInput{
		Email:    "bob@example.com",
		Username: "bob",
		Password: "pw",
	})
	require.NoError(t, err)

	first := "Bob"
	isAdmin := true
	updated, err := svc.Update(ctx, user.ID, UpdateUserInput{FirstName: &first, IsAdmin: &isAdmin})
	require.NoError(t, err)
	assert.Equal(t, "Bob", updated.FirstName)
	assert.True(t, updated.IsAdmin)

	require.NoError(t, svc.Delete(ctx, user.ID))

	_, err = svc.GetByID(ctx, user.ID)
	require.ErrorIs(t, err, ErrUserNotFound)

	err = svc.Delete(ctx, user.ID)
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserServiceList(t *testing.T) {
	db := openServiceTestDB(t)
	svc, err := NewUserService(db)
	require.NoError(t, err)

	ctx := context.Background()

	for _, email := range []string{"a@example.com", "b@example.com"} {
		_, err := svc.Create(ctx, CreateUserInput{Email: email, Username: email, Password: "pw"})
		require.NoError(t, err)
	}

	users, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "a@example.com", users[0].Email)
}
