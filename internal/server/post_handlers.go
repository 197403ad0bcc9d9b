package server

import (
	"devconnector/internal/middleware"
	"devconnector/internal/service"

	"github.com/gofiber/fiber/v2"
)

type textRequest struct {
	Text string `json:"text" validate:"required" msg:"Text is required"`
}

// CreatePost handles POST /api/posts
// @Summary Create post
// @Tags posts
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body textRequest true "Post text"
// @Success 200 {object} models.Post
// @Failure 400 {object} models.ErrorResponse
// @Router /posts [post]
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req textRequest
	if err := s.parseBody(c, &req); err != nil {
		return s.respondError(c, err)
	}

	post, err := s.postService.CreatePost(c.UserContext(), service.CreatePostInput{
		AuthorID: middleware.UserID(c),
		Text:     req.Text,
	})
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(post)
}

// GetPosts handles GET /api/posts
// @Summary List posts, newest first
// @Tags posts
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {array} models.Post
// @Router /posts [get]
func (s *Server) GetPosts(c *fiber.Ctx) error {
	posts, err := s.postService.ListPosts(c.UserContext())
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(posts)
}

// GetPost handles GET /api/posts/:id
// @Summary Get post
// @Tags posts
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Post ID"
// @Success 200 {object} models.Post
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{id} [get]
func (s *Server) GetPost(c *fiber.Ctx) error {
	post, err := s.postService.GetPost(c.UserContext(), c.Params("id"))
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(post)
}

// DeletePost handles DELETE /api/posts/:id
// @Summary Delete own post
// @Tags posts
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Post ID"
// @Success 200 {object} MessageResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{id} [delete]
func (s *Server) DeletePost(c *fiber.Ctx) error {
	err := s.postService.DeletePost(c.UserContext(), service.DeletePostInput{
		UserID: middleware.UserID(c),
		PostID: c.Params("id"),
	})
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(MessageResponse{Msg: "Post removed"})
}

// LikePost handles PUT /api/posts/like/:id
// @Summary Like post
// @Tags posts
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Post ID"
// @Success 200 {array} models.Like
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /posts/like/{id} [put]
func (s *Server) LikePost(c *fiber.Ctx) error {
	likes, err := s.postService.LikePost(c.UserContext(), service.LikeInput{
		UserID: middleware.UserID(c),
		PostID: c.Params("id"),
	})
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(likes)
}

// UnlikePost handles PUT /api/posts/unlike/:id
// @Summary Unlike post
// @Tags posts
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Post ID"
// @Success 200 {array} models.Like
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /posts/unlike/{id} [put]
func (s *Server) UnlikePost(c *fiber.Ctx) error {
	likes, err := s.postService.UnlikePost(c.UserContext(), service.LikeInput{
		UserID: middleware.UserID(c),
		PostID: c.Params("id"),
	})
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(likes)
}

// AddComment handles POST /api/posts/comment/:id
// @Summary Comment on post
// @Tags posts
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Post ID"
// @Param request body textRequest true "Comment text"
// @Success 200 {array} models.Comment
// @Failure 400 {object} models.ErrorResponse
// @Router /posts/comment/{id} [post]
func (s *Server) AddComment(c *fiber.Ctx) error {
	var req textRequest
	if err := s.parseBody(c, &req); err != nil {
		return s.respondError(c, err)
	}

	comments, err := s.postService.AddComment(c.UserContext(), service.AddCommentInput{
		AuthorID: middleware.UserID(c),
		PostID:   c.Params("id"),
		Text:     req.Text,
	})
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(comments)
}

// RemoveComment handles DELETE /api/posts/comment/:id/:comment_id
// @Summary Remove own comment
// @Tags posts
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Post ID"
// @Param comment_id path string true "Comment ID"
// @Success 200 {array} models.Comment
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/comment/{id}/{comment_id} [delete]
func (s *Server) RemoveComment(c *fiber.Ctx) error {
	comments, err := s.postService.RemoveComment(c.UserContext(), service.RemoveCommentInput{
		UserID:    middleware.UserID(c),
		PostID:    c.Params("id"),
		CommentID: c.Params("comment_id"),
	})
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(comments)
}
