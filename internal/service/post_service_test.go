package service

import (
	"context"
	"testing"
	"time"

	"devconnector/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// postStore is a postRepoStub backed by a single post that records updates.
func postStore(post *models.Post) (*postRepoStub, *int) {
	updates := 0
	repo := noopPostRepo()
	repo.getByIDFn = func(_ context.Context, id string) (*models.Post, error) {
		if id != post.ID {
			return nil, models.NewNotFoundError("Post not found")
		}
		cp := *post
		cp.Likes = append([]models.Like{}, post.Likes...)
		cp.Comments = append([]models.Comment{}, post.Comments...)
		return &cp, nil
	}
	repo.updateFn = func(_ context.Context, p *models.Post) error {
		updates++
		*post = *p
		return nil
	}
	return repo, &updates
}

func TestPostService_CreatePost_SnapshotsAuthor(t *testing.T) {
	t.Parallel()

	var created *models.Post
	posts := noopPostRepo()
	posts.createFn = func(_ context.Context, p *models.Post) error {
		p.ID = "p1"
		created = p
		return nil
	}
	svc := NewPostService(posts, noopUserRepo())

	post, err := svc.CreatePost(context.Background(), CreatePostInput{AuthorID: "u1", Text: "  hello  "})
	require.NoError(t, err)
	assert.Same(t, created, post)
	assert.Equal(t, "u1", post.UserID)
	assert.Equal(t, "hello", post.Text)
	assert.Equal(t, "Alice", post.Name)
	assert.Equal(t, "//gravatar/alice", post.Avatar)
}

func TestPostService_CreatePost_Validation(t *testing.T) {
	t.Parallel()

	svc := NewPostService(noopPostRepo(), noopUserRepo())
	_, err := svc.CreatePost(context.Background(), CreatePostInput{AuthorID: "u1", Text: "   "})
	assertAppError(t, err, models.CodeValidation, "Text is required")
}

func TestPostService_DeletePost(t *testing.T) {
	t.Parallel()

	deleted := ""
	posts := noopPostRepo()
	posts.getByIDFn = func(_ context.Context, id string) (*models.Post, error) {
		return &models.Post{ID: id, UserID: "owner"}, nil
	}
	posts.deleteFn = func(_ context.Context, id string) error {
		deleted = id
		return nil
	}
	svc := NewPostService(posts, noopUserRepo())
	ctx := context.Background()

	err := svc.DeletePost(ctx, DeletePostInput{UserID: "intruder", PostID: "p1"})
	assertAppError(t, err, models.CodeForbidden, "User not authorized")
	assert.Empty(t, deleted)

	require.NoError(t, svc.DeletePost(ctx, DeletePostInput{UserID: "owner", PostID: "p1"}))
	assert.Equal(t, "p1", deleted)
}

func TestPostService_DeletePost_NotFound(t *testing.T) {
	t.Parallel()

	posts := noopPostRepo()
	posts.getByIDFn = func(_ context.Context, _ string) (*models.Post, error) {
		return nil, models.NewNotFoundError("Post not found")
	}
	svc := NewPostService(posts, noopUserRepo())

	err := svc.DeletePost(context.Background(), DeletePostInput{UserID: "u1", PostID: "nope"})
	assertAppError(t, err, models.CodeNotFound, "Post not found")
}

func TestPostService_LikeSequence(t *testing.T) {
	t.Parallel()

	post := &models.Post{ID: "p1", Likes: []models.Like{}}
	repo, updates := postStore(post)
	svc := NewPostService(repo, noopUserRepo())
	ctx := context.Background()

	likes, err := svc.LikePost(ctx, LikeInput{UserID: "alice", PostID: "p1"})
	require.NoError(t, err)
	assert.Equal(t, []models.Like{{User: "alice"}}, likes)

	likes, err = svc.LikePost(ctx, LikeInput{UserID: "bob", PostID: "p1"})
	require.NoError(t, err)
	assert.Equal(t, []models.Like{{User: "bob"}, {User: "alice"}}, likes)

	_, err = svc.LikePost(ctx, LikeInput{UserID: "alice", PostID: "p1"})
	assertAppError(t, err, models.CodeConflict, "Post already liked")
	assert.Equal(t, 2, *updates)

	likes, err = svc.UnlikePost(ctx, LikeInput{UserID: "alice", PostID: "p1"})
	require.NoError(t, err)
	assert.Equal(t, []models.Like{{User: "bob"}}, likes)

	_, err = svc.UnlikePost(ctx, LikeInput{UserID: "alice", PostID: "p1"})
	assertAppError(t, err, models.CodeConflict, "Post has not yet been liked")
	assert.Equal(t, 3, *updates)
}

func TestPostService_LikePost_StaleWrite(t *testing.T) {
	t.Parallel()

	posts := noopPostRepo()
	posts.getByIDFn = func(_ context.Context, id string) (*models.Post, error) {
		return &models.Post{ID: id, Likes: []models.Like{}}, nil
	}
	posts.updateFn = func(_ context.Context, _ *models.Post) error {
		return models.NewStaleWriteError("Post")
	}
	svc := NewPostService(posts, noopUserRepo())

	_, err := svc.LikePost(context.Background(), LikeInput{UserID: "alice", PostID: "p1"})
	assertAppError(t, err, models.CodeStaleWrite, "")
}

func TestPostService_AddComment(t *testing.T) {
	t.Parallel()

	post := &models.Post{ID: "p1", Comments: []models.Comment{{ID: "c0", User: "bob", Text: "first"}}}
	repo, _ := postStore(post)
	svc := NewPostService(repo, noopUserRepo())
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	comments, err := svc.AddComment(context.Background(), AddCommentInput{AuthorID: "alice", PostID: "p1", Text: "nice"})
	require.NoError(t, err)
	require.Len(t, comments, 2)

	c := comments[0]
	assert.NotEmpty(t, c.ID)
	assert.Equal(t, "alice", c.User)
	assert.Equal(t, "nice", c.Text)
	assert.Equal(t, "Alice", c.Name)
	assert.Equal(t, "//gravatar/alice", c.Avatar)
	assert.Equal(t, fixed, c.Date)
	assert.Equal(t, "c0", comments[1].ID)
}

func TestPostService_AddComment_Errors(t *testing.T) {
	t.Parallel()

	repo, _ := postStore(&models.Post{ID: "p1"})
	svc := NewPostService(repo, noopUserRepo())
	ctx := context.Background()

	_, err := svc.AddComment(ctx, AddCommentInput{AuthorID: "alice", PostID: "p1", Text: ""})
	assertAppError(t, err, models.CodeValidation, "Text is required")

	_, err = svc.AddComment(ctx, AddCommentInput{AuthorID: "alice", PostID: "missing", Text: "hi"})
	assertAppError(t, err, models.CodeValidation, "Post not found")
}

func TestPostService_RemoveComment(t *testing.T) {
	t.Parallel()

	post := &models.Post{ID: "p1", Comments: []models.Comment{
		{ID: "c2", User: "bob", Text: "newest"},
		{ID: "c1", User: "alice", Text: "middle"},
		{ID: "c0", User: "bob", Text: "oldest"},
	}}
	repo, _ := postStore(post)
	svc := NewPostService(repo, noopUserRepo())
	ctx := context.Background()

	_, err := svc.RemoveComment(ctx, RemoveCommentInput{UserID: "alice", PostID: "p1", CommentID: "missing"})
	assertAppError(t, err, models.CodeNotFound, "Comment does not exist")

	_, err = svc.RemoveComment(ctx, RemoveCommentInput{UserID: "alice", PostID: "p1", CommentID: "c2"})
	assertAppError(t, err, models.CodeForbidden, "User not authorized")

	// bob owns c2 and c0; only the requested one goes.
	comments, err := svc.RemoveComment(ctx, RemoveCommentInput{UserID: "bob", PostID: "p1", CommentID: "c0"})
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "c2", comments[0].ID)
	assert.Equal(t, "c1", comments[1].ID)

	comments, err = svc.RemoveComment(ctx, RemoveCommentInput{UserID: "alice", PostID: "p1", CommentID: "c1"})
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "c2", comments[0].ID)
	assert.Equal(t, "newest", comments[0].Text)
}

func TestPostService_ListAndGet(t *testing.T) {
	t.Parallel()

	posts := noopPostRepo()
	posts.listFn = func(_ context.Context) ([]*models.Post, error) {
		return []*models.Post{{ID: "p2"}, {ID: "p1"}}, nil
	}
	posts.getByIDFn = func(_ context.Context, id string) (*models.Post, error) {
		return nil, models.NewNotFoundError("Post not found")
	}
	svc := NewPostService(posts, noopUserRepo())
	ctx := context.Background()

	list, err := svc.ListPosts(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	_, err = svc.GetPost(ctx, "not-an-id")
	assertAppError(t, err, models.CodeNotFound, "Post not found")
}
