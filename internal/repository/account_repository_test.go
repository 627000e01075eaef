package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/cinema-session-booking/internal/utils"
)

func TestAccountCreateAndLookup(t *testing.T) {
	db := newTestDB(t)
	repo := NewAccountRepo(db)
	ctx := context.Background()

	id, err := repo.Create(ctx, "alice", "hunter2", 4)
	require.NoError(t, err)
	require.NotZero(t, id)

	byName, err := repo.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, id, byName.ID)
	assert.True(t, utils.VerifyPassword(byName.PasswordHash, "hunter2"))
	assert.False(t, utils.VerifyPassword(byName.PasswordHash, "wrong"))

	byID, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "alice", byID.Username)
}

func TestAccountDuplicateUsername(t *testing.T) {
	db := newTestDB(t)
	repo := NewAccountRepo(db)
	ctx := context.Background()

	_, err := repo.Create(ctx, "alice", "hunter2", 4)
	require.NoError(t, err)
	_, err = repo.Create(ctx, "alice", "otherpass", 4)
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestAccountLookupMissing(t *testing.T) {
	db := newTestDB(t)
	repo := NewAccountRepo(db)
	ctx := context.Background()

	_, err := repo.GetByUsername(ctx, "ghost")
	assert.ErrorIs(t, err, ErrAccountNotFound)
	_, err = repo.GetByID(ctx, 404)
	assert.ErrorIs(t, err, ErrAccountNotFound)
}
