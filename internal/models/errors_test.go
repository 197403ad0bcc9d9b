package models

import (
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err    error
		status int
	}{
		{NewValidationError("bad"), fiber.StatusBadRequest},
		{NewConflictError("Post already liked"), fiber.StatusBadRequest},
		{NewInvalidCredentialsError(), fiber.StatusBadRequest},
		{NewUnauthorizedError("no"), fiber.StatusUnauthorized},
		{NewForbiddenError("User not authorized"), fiber.StatusUnauthorized},
		{NewNotFoundError("Post not found"), fiber.StatusNotFound},
		{NewStaleWriteError("Post"), fiber.StatusConflict},
		{NewInternalError(errors.New("boom")), fiber.StatusInternalServerError},
		{errors.New("plain"), fiber.StatusInternalServerError},
		{fmt.Errorf("wrapped: %w", NewNotFoundError("x")), fiber.StatusNotFound},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.status, StatusFor(tt.err), tt.err.Error())
	}
}

func TestRespondWithError_HidesInternalCause(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return RespondWithError(c, fiber.StatusInternalServerError, errors.New("pq: password authentication failed"))
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)

	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.JSONEq(t, `{"errors":[{"msg":"Server error","code":"INTERNAL_ERROR"}]}`, string(body))
}

func TestRespondWithError_ListsDetails(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return RespondWithError(c, fiber.StatusBadRequest,
			NewValidationError("Name is required", "Please include a valid email"))
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)

	assert.JSONEq(t, `{"errors":[
		{"msg":"Name is required","code":"VALIDATION_ERROR"},
		{"msg":"Please include a valid email","code":"VALIDATION_ERROR"}
	]}`, string(body))
}
