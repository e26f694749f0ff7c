package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkearsley/madness-pool/models"
)

func TestCreateUserTrimsUsername(t *testing.T) {
	f := newFixture(t)

	user := &models.User{Username: "  alice  "}
	require.NoError(t, f.user.Create(f.ctx, user))
	assert.Equal(t, "alice", user.Username)

	stored, err := f.user.GetByID(f.ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", stored.Username)
}

func TestCreateUserDuplicateUsernameConflicts(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.user.Create(f.ctx, &models.User{Username: "alice"}))

	err := f.user.Create(f.ctx, &models.User{Username: "alice"})
	assert.ErrorIs(t, err, ErrUsernameConflict)
}

func TestGetUserByIDNotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.user.GetByID(f.ctx, 999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
