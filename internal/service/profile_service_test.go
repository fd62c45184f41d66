package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateMyDetails(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	updated, err := env.account.UpdateMyDetails(ctx, env.studentA.ID, "  Samuel ", "Able-Jones", "https://storage.test/public/avatars/x.png")
	require.NoError(t, err)

	assert.Equal(t, "Samuel", updated.Name)
	assert.Equal(t, "Able-Jones", updated.LastName)
	assert.Equal(t, "https://storage.test/public/avatars/x.png", updated.AvatarURL)
	assert.Empty(t, updated.PasswordHash)

	stored, err := env.profiles.GetByID(ctx, env.studentA.ID)
	require.NoError(t, err)
	assert.Equal(t, "Samuel", stored.Name)
}

func TestUpdateMyDetailsRequiresName(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.account.UpdateMyDetails(context.Background(), env.studentA.ID, "   ", "Able", "")
	assert.ErrorIs(t, err, ErrMissingName)
}

func TestRequestAvatarUploadURL(t *testing.T) {
	env := newTestEnv(t)

	uploadURL, avatarURL, err := env.account.RequestAvatarUploadURL(context.Background(), env.studentA.ID, "me.png", "image/png")
	require.NoError(t, err)

	prefix := "avatars/" + env.studentA.ID.Hex() + "/"
	assert.True(t, strings.HasPrefix(uploadURL, "https://storage.test/upload/"+prefix), uploadURL)
	assert.True(t, strings.HasSuffix(uploadURL, ".png"), uploadURL)
	assert.True(t, strings.HasPrefix(avatarURL, "https://storage.test/public/"+prefix), avatarURL)
}

func TestRequestAvatarUploadURLRequiresContentType(t *testing.T) {
	env := newTestEnv(t)

	_, _, err := env.account.RequestAvatarUploadURL(context.Background(), env.studentA.ID, "me.png", "")
	assert.Error(t, err)
}
