package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

func TestErrorKindMatching(t *testing.T) {
	err := BadRequest("invalid identifier %q", "abc")
	require.True(t, errors.Is(err, BadRequest("anything")))
	require.False(t, errors.Is(err, NotFound("user", "")))
	require.Equal(t, KindBadRequest, KindOf(err))
}

func TestErrorWrapping(t *testing.T) {
	cause := errors.New("connection reset")
	err := Internal("find user", cause)

	require.ErrorIs(t, err, cause)
	require.Contains(t, err.Error(), "find user failed")
	require.Contains(t, err.Error(), "connection reset")
}

func TestWrappedErrorKeepsKind(t *testing.T) {
	err := fmt.Errorf("create user: %w", NotFound("user", "665f1f1f1f1f1f1f1f1f1f1f"))
	require.Equal(t, KindNotFound, KindOf(err))
	require.Equal(t, fiber.StatusNotFound, StatusOf(err))
}

func TestStatusOf(t *testing.T) {
	require.Equal(t, fiber.StatusBadRequest, StatusOf(BadRequest("bad")))
	require.Equal(t, fiber.StatusUnprocessableEntity, StatusOf(Validation("invalid", nil)))
	require.Equal(t, fiber.StatusNotFound, StatusOf(NotFound("user", "")))
	require.Equal(t, fiber.StatusUnauthorized, StatusOf(Unauthorized("no token")))
	require.Equal(t, fiber.StatusForbidden, StatusOf(Forbidden("wrong role")))
	require.Equal(t, fiber.StatusInternalServerError, StatusOf(errors.New("boom")))
}

func TestValidationFields(t *testing.T) {
	err := Validation("invalid payload", map[string]string{"username": "required"})
	require.Equal(t, "required", err.Fields["username"])
	require.Equal(t, SeverityLow, err.Severity)
	require.Equal(t, CategoryValidation, err.Category)
}

func TestUserMessageOf(t *testing.T) {
	require.Equal(t, "user not found in the system.", UserMessageOf(NotFound("user", "x")))
	require.Equal(t, "An error occurred. Please try again or contact support.", UserMessageOf(errors.New("boom")))
	require.Equal(t, "The username is already taken.", UserMessageOf(BadRequest("username exists").WithUserMessage("The username is already taken.")))
}
