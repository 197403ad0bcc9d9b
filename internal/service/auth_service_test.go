package service

import (
	"context"
	"errors"
	"testing"

	"devconnector/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// memoryUsers backs a userRepoStub with a map keyed by email.
func memoryUsers() (*userRepoStub, map[string]*models.User) {
	byEmail := map[string]*models.User{}
	repo := &userRepoStub{
		getByIDFn: func(_ context.Context, id string) (*models.User, error) {
			for _, u := range byEmail {
				if u.ID == id {
					return u, nil
				}
			}
			return nil, models.NewNotFoundError("User not found")
		},
		getByEmailFn: func(_ context.Context, email string) (*models.User, error) {
			return byEmail[email], nil
		},
		createFn: func(_ context.Context, u *models.User) error {
			u.ID = models.NewID()
			byEmail[u.Email] = u
			return nil
		},
	}
	return repo, byEmail
}

func TestAuthService_Register(t *testing.T) {
	t.Parallel()

	repo, users := memoryUsers()
	svc := NewAuthService(repo, &tokenIssuerStub{})

	token, err := svc.Register(context.Background(), RegisterInput{
		Name:     "Alice",
		Email:    " Alice@Example.com",
		Password: "secret1",
	})
	require.NoError(t, err)

	stored := users["alice@example.com"]
	require.NotNil(t, stored)
	assert.Equal(t, "token-for-"+stored.ID, token)
	assert.Equal(t, "Alice", stored.Name)
	assert.Equal(t, GravatarURL("alice@example.com"), stored.Avatar)
	assert.NotEqual(t, "secret1", stored.Password)

	cost, err := bcrypt.Cost([]byte(stored.Password))
	require.NoError(t, err)
	assert.Equal(t, PasswordHashCost, cost)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("secret1")))
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	t.Parallel()

	repo, _ := memoryUsers()
	svc := NewAuthService(repo, &tokenIssuerStub{})
	svc.hashCost = bcrypt.MinCost
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Name: "Alice", Email: "alice@example.com", Password: "secret1"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterInput{Name: "Other", Email: "ALICE@example.com", Password: "secret2"})
	assertAppError(t, err, models.CodeConflict, "User already exists")
}

func TestAuthService_Register_Validation(t *testing.T) {
	t.Parallel()

	svc := NewAuthService(noopUserRepo(), &tokenIssuerStub{})
	ctx := context.Background()

	tests := []struct {
		name  string
		input RegisterInput
	}{
		{"missing name", RegisterInput{Email: "a@example.com", Password: "secret1"}},
		{"missing email", RegisterInput{Name: "A", Password: "secret1"}},
		{"short password", RegisterInput{Name: "A", Email: "a@example.com", Password: "1234"}},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := svc.Register(ctx, tc.input)
			assertValidationError(t, err)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	t.Parallel()

	repo, _ := memoryUsers()
	svc := NewAuthService(repo, &tokenIssuerStub{})
	svc.hashCost = bcrypt.MinCost
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Name: "Alice", Email: "alice@example.com", Password: "secret1"})
	require.NoError(t, err)

	token, err := svc.Login(ctx, LoginInput{Email: "Alice@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	_, wrongPassword := svc.Login(ctx, LoginInput{Email: "alice@example.com", Password: "nope"})
	_, unknownUser := svc.Login(ctx, LoginInput{Email: "bob@example.com", Password: "secret1"})

	assertAppError(t, wrongPassword, models.CodeInvalidCredentials, "Invalid Credentials")
	assert.Equal(t, wrongPassword, unknownUser)
}

func TestAuthService_IssueFailureIsInternal(t *testing.T) {
	t.Parallel()

	repo, _ := memoryUsers()
	issuer := &tokenIssuerStub{issueFn: func(string) (string, error) { return "", errors.New("signing failed") }}
	svc := NewAuthService(repo, issuer)
	svc.hashCost = bcrypt.MinCost

	_, err := svc.Register(context.Background(), RegisterInput{Name: "A", Email: "a@example.com", Password: "secret1"})
	assertAppError(t, err, models.CodeInternal, "")
}

func TestAuthService_CurrentUser(t *testing.T) {
	t.Parallel()

	svc := NewAuthService(noopUserRepo(), &tokenIssuerStub{})
	user, err := svc.CurrentUser(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)
}
