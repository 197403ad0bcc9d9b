package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"devconnector/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	getByIDFn    func(context.Context, string) (*models.User, error)
	getByEmailFn func(context.Context, string) (*models.User, error)
	createFn     func(context.Context, *models.User) error
}

func (s *userRepoStub) GetByID(ctx context.Context, id string) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn: func(_ context.Context, id string) (*models.User, error) {
			return &models.User{ID: id, Name: "Alice", Avatar: "//gravatar/alice"}, nil
		},
		getByEmailFn: func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		createFn:     func(_ context.Context, _ *models.User) error { return nil },
	}
}

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn  func(context.Context, *models.Post) error
	getByIDFn func(context.Context, string) (*models.Post, error)
	listFn    func(context.Context) ([]*models.Post, error)
	updateFn  func(context.Context, *models.Post) error
	deleteFn  func(context.Context, string) error
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id string) (*models.Post, error) {
	return s.getByIDFn(ctx, id)
}
func (s *postRepoStub) List(ctx context.Context) ([]*models.Post, error) {
	return s.listFn(ctx)
}
func (s *postRepoStub) Update(ctx context.Context, post *models.Post) error {
	return s.updateFn(ctx, post)
}
func (s *postRepoStub) Delete(ctx context.Context, id string) error {
	return s.deleteFn(ctx, id)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn:  func(_ context.Context, _ *models.Post) error { return nil },
		getByIDFn: func(_ context.Context, _ string) (*models.Post, error) { return &models.Post{}, nil },
		listFn:    func(_ context.Context) ([]*models.Post, error) { return []*models.Post{}, nil },
		updateFn:  func(_ context.Context, _ *models.Post) error { return nil },
		deleteFn:  func(_ context.Context, _ string) error { return nil },
	}
}

// profileRepoStub is a stub for repository.ProfileRepository.
type profileRepoStub struct {
	getByOwnerFn      func(context.Context, string) (*models.Profile, error)
	listFn            func(context.Context) ([]*models.Profile, error)
	createFn          func(context.Context, *models.Profile) error
	updateFn          func(context.Context, *models.Profile) error
	deleteWithOwnerFn func(context.Context, string) error
}

func (s *profileRepoStub) GetByOwner(ctx context.Context, ownerID string) (*models.Profile, error) {
	return s.getByOwnerFn(ctx, ownerID)
}
func (s *profileRepoStub) List(ctx context.Context) ([]*models.Profile, error) {
	return s.listFn(ctx)
}
func (s *profileRepoStub) Create(ctx context.Context, profile *models.Profile) error {
	return s.createFn(ctx, profile)
}
func (s *profileRepoStub) Update(ctx context.Context, profile *models.Profile) error {
	return s.updateFn(ctx, profile)
}
func (s *profileRepoStub) DeleteWithOwner(ctx context.Context, ownerID string) error {
	return s.deleteWithOwnerFn(ctx, ownerID)
}

func noopProfileRepo() *profileRepoStub {
	return &profileRepoStub{
		getByOwnerFn: func(_ context.Context, _ string) (*models.Profile, error) {
			return nil, models.NewNotFoundError("Profile not found")
		},
		listFn:            func(_ context.Context) ([]*models.Profile, error) { return []*models.Profile{}, nil },
		createFn:          func(_ context.Context, _ *models.Profile) error { return nil },
		updateFn:          func(_ context.Context, _ *models.Profile) error { return nil },
		deleteWithOwnerFn: func(_ context.Context, _ string) error { return nil },
	}
}

type tokenIssuerStub struct {
	issueFn func(string) (string, error)
}

func (s *tokenIssuerStub) Issue(userID string) (string, error) {
	if s.issueFn == nil {
		return "token-for-" + userID, nil
	}
	return s.issueFn(userID)
}

type revokerStub struct {
	calls []string
	ttl   time.Duration
	err   error
}

func (s *revokerStub) RevokeUser(_ context.Context, userID string, ttl time.Duration) error {
	s.calls = append(s.calls, userID)
	s.ttl = ttl
	return s.err
}

// assertAppError asserts that err is an AppError with the given code and message.
func assertAppError(t *testing.T, err error, code, msg string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
	if msg != "" {
		assert.Equal(t, msg, appErr.Message)
	}
}

// assertValidationError asserts that err is an AppError with code VALIDATION_ERROR.
func assertValidationError(t *testing.T, err error) {
	t.Helper()
	assertAppError(t, err, models.CodeValidation, "")
}
