// Package service holds the business rules for accounts, profiles and posts.
package service

import (
	"context"
	"strings"
	"sync"

	"devconnector/internal/models"
	"devconnector/internal/observability"
	"devconnector/internal/repository"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/crypto/bcrypt"
)

// PasswordHashCost is the bcrypt cost used for new accounts.
const PasswordHashCost = 10

// TokenIssuer signs identity tokens.
type TokenIssuer interface {
	Issue(userID string) (string, error)
}

type AuthService struct {
	userRepo repository.UserRepository
	tokens   TokenIssuer
	hashCost int

	dummyOnce sync.Once
	dummyHash []byte
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

type LoginInput struct {
	Email    string
	Password string
}

func NewAuthService(userRepo repository.UserRepository, tokens TokenIssuer) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		tokens:   tokens,
		hashCost: PasswordHashCost,
	}
}

// NormalizeEmail trims and lower-cases an email for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates an account and returns a token for it.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (token string, err error) {
	ctx, span := observability.StartSpan(ctx, "AuthService.Register")
	defer func() { observability.EndSpan(span, err) }()

	name := strings.TrimSpace(in.Name)
	email := NormalizeEmail(in.Email)
	if name == "" {
		return "", models.NewValidationError("Name is required")
	}
	if email == "" {
		return "", models.NewValidationError("Please include a valid email")
	}
	if len(in.Password) < MinPasswordLength {
		return "", models.NewValidationError("Please enter a password with 5 or more characters")
	}

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if existing != nil {
		return "", models.NewConflictError("User already exists")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.hashCost)
	if err != nil {
		return "", models.NewInternalError(err)
	}

	user := &models.User{
		Name:     name,
		Email:    email,
		Password: string(hashed),
		Avatar:   GravatarURL(email),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return "", err
	}
	span.SetAttributes(attribute.String("user.id", user.ID))

	return s.issue(user.ID)
}

// MinPasswordLength is the shortest password accepted at registration.
const MinPasswordLength = 5

// Login returns a token for valid credentials. Unknown emails and wrong passwords
// fail with the same error.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (token string, err error) {
	ctx, span := observability.StartSpan(ctx, "AuthService.Login")
	defer func() { observability.EndSpan(span, err) }()

	user, err := s.userRepo.GetByEmail(ctx, NormalizeEmail(in.Email))
	if err != nil {
		return "", err
	}
	if user == nil {
		// Spend the same bcrypt work as a real comparison.
		_ = bcrypt.CompareHashAndPassword(s.placeholderHash(), []byte(in.Password))
		observability.AuthFailures.WithLabelValues("invalid_credentials").Inc()
		return "", models.NewInvalidCredentialsError()
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.Password)); err != nil {
		observability.AuthFailures.WithLabelValues("invalid_credentials").Inc()
		return "", models.NewInvalidCredentialsError()
	}

	return s.issue(user.ID)
}

// CurrentUser returns the account behind an authenticated request.
func (s *AuthService) CurrentUser(ctx context.Context, userID string) (*models.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

func (s *AuthService) issue(userID string) (string, error) {
	token, err := s.tokens.Issue(userID)
	if err != nil {
		return "", models.NewInternalError(err)
	}
	return token, nil
}

func (s *AuthService) placeholderHash() []byte {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("placeholder-password"), s.hashCost)
	})
	return s.dummyHash
}
