package service

import (
	"context"
	"testing"

	"fitcoach/coaching-app/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInviteUserCreatesProfileAndSendsEmail(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	profile, err := env.admin.InviteUser(ctx, "new.coach@test.dev", "Nina van Berg", domain.RoleCoach)
	require.NoError(t, err)
	assert.Equal(t, "Nina", profile.Name)
	assert.Equal(t, "van Berg", profile.LastName)
	assert.Equal(t, domain.RoleCoach, profile.Role)
	assert.Empty(t, profile.PasswordHash)

	require.Len(t, env.mail.sent, 1)
	inv := env.mail.sent[0]
	assert.Equal(t, "new.coach@test.dev", inv.Email)
	assert.Equal(t, "https://app.test/login", inv.LoginURL)
	assert.NotEmpty(t, inv.TempPassword)

	// The invitee can log in with the temporary password right away.
	_, logged, err := env.auth.Login(ctx, "new.coach@test.dev", inv.TempPassword)
	require.NoError(t, err)
	assert.Equal(t, profile.ID, logged.ID)
}

func TestInviteUserRejectsDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.admin.InviteUser(context.Background(), env.coachA.Email, "Someone Else", domain.RoleCoach)
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
	assert.Empty(t, env.mail.sent)
}

func TestInviteUserRejectsUnknownRole(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.admin.InviteUser(context.Background(), "x@test.dev", "X Y", domain.Role("SUPERUSER"))
	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestInviteUserSurfacesMailFailure(t *testing.T) {
	env := newTestEnv(t)
	env.mail.fail = true

	_, err := env.admin.InviteUser(context.Background(), "bounce@test.dev", "Bo Unce", domain.RoleStudent)
	assert.ErrorIs(t, err, ErrInvitationSendFailed)
}

func TestUpdateUserRole(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.admin.UpdateUserRole(ctx, env.studentB.ID, domain.RoleCoach))

	stored, err := env.profiles.GetByID(ctx, env.studentB.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleCoach, stored.Role)

	err = env.admin.UpdateUserRole(ctx, env.studentB.ID, domain.Role("nope"))
	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestAssignCoachEnforcesRoles(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// Student in the coach seat.
	_, err := env.admin.AssignCoachToStudent(ctx, env.studentB.ID, env.studentA.ID)
	assert.ErrorIs(t, err, ErrCoachRoleRequired)

	// Coach in the student seat.
	_, err = env.admin.AssignCoachToStudent(ctx, env.coachA.ID, env.coachB.ID)
	assert.ErrorIs(t, err, ErrStudentRoleRequired)

	// Admins may hold the coach seat.
	_, err = env.admin.AssignCoachToStudent(ctx, env.adminUser.ID, env.studentB.ID)
	require.NoError(t, err)

	// Duplicate pair.
	_, err = env.admin.AssignCoachToStudent(ctx, env.coachA.ID, env.studentA.ID)
	assert.ErrorIs(t, err, ErrAlreadyAssigned)
}

func TestRemoveCoachFromStudent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.admin.RemoveCoachFromStudent(ctx, env.coachA.ID, env.studentA.ID))
	err := env.admin.RemoveCoachFromStudent(ctx, env.coachA.ID, env.studentA.ID)
	assert.ErrorIs(t, err, ErrAssignmentNotFound)
}

func TestGetAllProfilesStripsPasswordHashes(t *testing.T) {
	env := newTestEnv(t)

	profiles, err := env.admin.GetAllProfiles(context.Background())
	require.NoError(t, err)
	require.Len(t, profiles, 5)
	for _, p := range profiles {
		assert.Empty(t, p.PasswordHash)
	}
}
