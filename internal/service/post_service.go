package service

import (
	"context"
	"strings"
	"time"

	"devconnector/internal/models"
	"devconnector/internal/observability"
	"devconnector/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

type PostService struct {
	postRepo repository.PostRepository
	userRepo repository.UserRepository
	now      func() time.Time
}

type CreatePostInput struct {
	AuthorID string
	Text     string
}

type DeletePostInput struct {
	UserID string
	PostID string
}

type LikeInput struct {
	UserID string
	PostID string
}

type AddCommentInput struct {
	AuthorID string
	PostID   string
	Text     string
}

type RemoveCommentInput struct {
	UserID    string
	PostID    string
	CommentID string
}

func NewPostService(postRepo repository.PostRepository, userRepo repository.UserRepository) *PostService {
	return &PostService{
		postRepo: postRepo,
		userRepo: userRepo,
		now:      time.Now,
	}
}

// CreatePost stores a post carrying a snapshot of the author's name and avatar.
func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (post *models.Post, err error) {
	ctx, span := observability.StartSpan(ctx, "PostService.CreatePost")
	defer func() { observability.EndSpan(span, err) }()

	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, models.NewValidationError("Text is required")
	}

	author, err := s.userRepo.GetByID(ctx, in.AuthorID)
	if err != nil {
		return nil, err
	}

	post = &models.Post{
		UserID: author.ID,
		Text:   text,
		Name:   author.Name,
		Avatar: author.Avatar,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("post.id", post.ID))
	return post, nil
}

// ListPosts returns every post, newest first.
func (s *PostService) ListPosts(ctx context.Context) ([]*models.Post, error) {
	return s.postRepo.List(ctx)
}

func (s *PostService) GetPost(ctx context.Context, id string) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, id)
}

// DeletePost removes a post. Only its author may do so.
func (s *PostService) DeletePost(ctx context.Context, in DeletePostInput) (err error) {
	ctx, span := observability.StartSpan(ctx, "PostService.DeletePost", attribute.String("post.id", in.PostID))
	defer func() { observability.EndSpan(span, err) }()

	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return err
	}
	if post.UserID != in.UserID {
		return models.NewForbiddenError("User not authorized")
	}
	return s.postRepo.Delete(ctx, post.ID)
}

// LikePost adds the caller's like to the front of the likes list and returns the list.
func (s *PostService) LikePost(ctx context.Context, in LikeInput) (likes []models.Like, err error) {
	ctx, span := observability.StartSpan(ctx, "PostService.LikePost", attribute.String("post.id", in.PostID))
	defer func() { observability.EndSpan(span, err) }()

	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return nil, err
	}
	if !post.AddLike(in.UserID) {
		observability.MutationConflicts.WithLabelValues("post", "already_liked").Inc()
		return nil, models.NewConflictError("Post already liked")
	}
	if err := s.update(ctx, post); err != nil {
		return nil, err
	}
	return post.Likes, nil
}

// UnlikePost removes the caller's like and returns the remaining likes.
func (s *PostService) UnlikePost(ctx context.Context, in LikeInput) (likes []models.Like, err error) {
	ctx, span := observability.StartSpan(ctx, "PostService.UnlikePost", attribute.String("post.id", in.PostID))
	defer func() { observability.EndSpan(span, err) }()

	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return nil, err
	}
	if !post.RemoveLike(in.UserID) {
		observability.MutationConflicts.WithLabelValues("post", "not_liked").Inc()
		return nil, models.NewConflictError("Post has not yet been liked")
	}
	if err := s.update(ctx, post); err != nil {
		return nil, err
	}
	return post.Likes, nil
}

// AddComment prepends a comment by the caller and returns the comments list.
func (s *PostService) AddComment(ctx context.Context, in AddCommentInput) (comments []models.Comment, err error) {
	ctx, span := observability.StartSpan(ctx, "PostService.AddComment", attribute.String("post.id", in.PostID))
	defer func() { observability.EndSpan(span, err) }()

	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, models.NewValidationError("Text is required")
	}

	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		if models.HasCode(err, models.CodeNotFound) {
			return nil, models.NewValidationError("Post not found")
		}
		return nil, err
	}
	author, err := s.userRepo.GetByID(ctx, in.AuthorID)
	if err != nil {
		return nil, err
	}

	comment := models.Comment{
		ID:     models.NewID(),
		User:   author.ID,
		Text:   text,
		Name:   author.Name,
		Avatar: author.Avatar,
		Date:   s.now().UTC(),
	}
	post.Comments = append([]models.Comment{comment}, post.Comments...)
	if err := s.update(ctx, post); err != nil {
		return nil, err
	}
	return post.Comments, nil
}

// RemoveComment deletes one comment. Only the comment's author may remove it.
func (s *PostService) RemoveComment(ctx context.Context, in RemoveCommentInput) (comments []models.Comment, err error) {
	ctx, span := observability.StartSpan(ctx, "PostService.RemoveComment",
		attribute.String("post.id", in.PostID),
		attribute.String("comment.id", in.CommentID),
	)
	defer func() { observability.EndSpan(span, err) }()

	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return nil, err
	}
	i := post.CommentIndex(in.CommentID)
	if i < 0 {
		return nil, models.NewNotFoundError("Comment does not exist")
	}
	if post.Comments[i].User != in.UserID {
		return nil, models.NewForbiddenError("User not authorized")
	}
	post.RemoveCommentAt(i)
	if err := s.update(ctx, post); err != nil {
		return nil, err
	}
	return post.Comments, nil
}

func (s *PostService) update(ctx context.Context, post *models.Post) error {
	err := s.postRepo.Update(ctx, post)
	if models.HasCode(err, models.CodeStaleWrite) {
		observability.MutationConflicts.WithLabelValues("post", "stale_write").Inc()
	}
	return err
}
