package repository

import (
	"context"
	"testing"

	"devconnector/internal/models"
	"devconnector/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_CreateAndLookup(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := &models.User{Name: "Alice", Email: "alice@example.com", Password: "hash"}
	require.NoError(t, repo.Create(ctx, user))
	assert.True(t, models.IsValidID(user.ID))

	byID, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", byID.Name)

	byEmail, err := repo.GetByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	require.NotNil(t, byEmail)
	assert.Equal(t, user.ID, byEmail.ID)

	missing, err := repo.GetByEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestUserRepository_DuplicateEmail(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.User{Name: "A", Email: "dup@example.com", Password: "x"}))
	err := repo.Create(ctx, &models.User{Name: "B", Email: "dup@example.com", Password: "y"})

	assert.True(t, models.HasCode(err, models.CodeConflict), "got %v", err)

	first, err := repo.GetByEmail(ctx, "dup@example.com")
	require.NoError(t, err)
	assert.Equal(t, "A", first.Name)
}

func TestUserRepository_GetByID_NotFound(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewUserRepository(db)

	for _, id := range []string{"not-a-uuid", models.NewID()} {
		_, err := repo.GetByID(context.Background(), id)
		assert.True(t, models.HasCode(err, models.CodeNotFound), "id %q: %v", id, err)
	}
}
