package service

import (
	"context"
	"testing"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	profile, err := env.auth.Register(ctx, "Rae", "Nguyen", "rae@test.dev", "s3cret-pw")
	require.NoError(t, err)
	assert.Empty(t, profile.Role, "self-registered users have no role until an admin assigns one")
	assert.Empty(t, profile.PasswordHash)

	token, logged, err := env.auth.Login(ctx, "rae@test.dev", "s3cret-pw")
	require.NoError(t, err)
	assert.Equal(t, profile.ID, logged.ID)
	assert.Empty(t, logged.PasswordHash)

	claims := &jwtClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(env.auth.GetJWTSecret()), nil
	})
	require.NoError(t, err)
	assert.True(t, parsed.Valid)
	assert.Equal(t, profile.ID.Hex(), claims.UserID)
	assert.Equal(t, "coaching-app", claims.Issuer)
}

func TestLoginWrongPassword(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.auth.Register(ctx, "Rae", "", "rae@test.dev", "s3cret-pw")
	require.NoError(t, err)

	_, _, err = env.auth.Login(ctx, "rae@test.dev", "wrong")
	assert.ErrorIs(t, err, ErrAuthenticationFailed)

	_, _, err = env.auth.Login(ctx, "nobody@test.dev", "wrong")
	assert.ErrorIs(t, err, ErrAuthenticationFailed)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.auth.Register(ctx, "Rae", "", "rae@test.dev", "pw-one")
	require.NoError(t, err)

	_, err = env.auth.Register(ctx, "Ray", "", "rae@test.dev", "pw-two")
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
}
