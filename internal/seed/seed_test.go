package seed

import (
	"context"
	"testing"

	"devconnector/internal/models"
	"devconnector/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestFactory_BuildPost(t *testing.T) {
	f, err := NewFactory(42)
	require.NoError(t, err)

	crowd := []*models.User{f.BuildUser(0), f.BuildUser(1), f.BuildUser(2)}
	for i := 0; i < 20; i++ {
		post := f.BuildPost(crowd[0], crowd)

		assert.Equal(t, crowd[0].ID, post.UserID)
		assert.Equal(t, crowd[0].Name, post.Name)
		assert.NotEmpty(t, post.Text)

		seen := map[string]bool{}
		for _, l := range post.Likes {
			assert.False(t, seen[l.User], "duplicate like by %s", l.User)
			seen[l.User] = true
		}
		for j := 1; j < len(post.Comments); j++ {
			assert.True(t, post.Comments[j-1].Date.After(post.Comments[j].Date), "comments are newest first")
		}
	}
}

func TestFactory_BuildUser(t *testing.T) {
	f, err := NewFactory(7)
	require.NoError(t, err)

	u := f.BuildUser(3)
	assert.True(t, models.IsValidID(u.ID))
	assert.Contains(t, u.Email, ".3@example.com")
	assert.Contains(t, u.Avatar, "gravatar.com/avatar/")
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(DefaultPassword)))

	p := f.BuildProfile(u)
	assert.Equal(t, u.ID, p.UserID)
	assert.NotEmpty(t, p.Status)
	assert.NotEmpty(t, p.Skills)
	assert.Len(t, p.Experience, 1)
	assert.Len(t, p.Education, 1)
}

func TestSeeder_Run(t *testing.T) {
	db := testutil.NewTestDB(t)
	s := NewSeeder(db)
	ctx := context.Background()

	summary, err := s.Run(ctx, Options{Users: 4, Posts: 10, Seed: 1})
	require.NoError(t, err)
	assert.Equal(t, Summary{Users: 4, Profiles: 4, Posts: 10}, summary)

	var users, profiles, posts int64
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	require.NoError(t, db.Model(&models.Profile{}).Count(&profiles).Error)
	require.NoError(t, db.Model(&models.Post{}).Count(&posts).Error)
	assert.Equal(t, []int64{4, 4, 10}, []int64{users, profiles, posts})

	summary, err = s.Run(ctx, Options{Users: 2, Clean: true, Seed: 2})
	require.NoError(t, err)
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	require.NoError(t, db.Model(&models.Post{}).Count(&posts).Error)
	assert.EqualValues(t, 2, users)
	assert.Zero(t, posts)
	assert.Equal(t, 0, summary.Posts)

	_, err = s.Run(ctx, Options{})
	assert.Error(t, err)
}
