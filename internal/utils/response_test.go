package utils

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/edudesk/edudesk-api/internal/apperr"
)

func performRequest(t *testing.T, handler fiber.Handler) (int, APIResponse) {
	t.Helper()

	app := fiber.New()
	app.Get("/", handler)

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var parsed APIResponse
	require.NoError(t, json.Unmarshal(body, &parsed))
	return resp.StatusCode, parsed
}

func TestSendSuccessDefaultsMessage(t *testing.T) {
	status, parsed := performRequest(t, func(c *fiber.Ctx) error {
		return SendSuccess(c, "", map[string]string{"key": "value"})
	})

	require.Equal(t, fiber.StatusOK, status)
	require.True(t, parsed.Success)
	require.Equal(t, "success", parsed.Message)
	require.NotNil(t, parsed.Data)
}

func TestSendErrorShape(t *testing.T) {
	status, parsed := performRequest(t, func(c *fiber.Ctx) error {
		return SendError(c, fiber.StatusForbidden, "insufficient permissions")
	})

	require.Equal(t, fiber.StatusForbidden, status)
	require.False(t, parsed.Success)
	require.Equal(t, "insufficient permissions", parsed.Message)
}

func TestSendAppErrorMapsStatus(t *testing.T) {
	status, parsed := performRequest(t, func(c *fiber.Ctx) error {
		return SendAppError(c, apperr.NotFound("user", "abc"))
	})

	require.Equal(t, fiber.StatusNotFound, status)
	require.False(t, parsed.Success)
	require.Equal(t, "user not found in the system.", parsed.Message)
}

func TestSendAppErrorValidationFields(t *testing.T) {
	status, parsed := performRequest(t, func(c *fiber.Ctx) error {
		return SendAppError(c, apperr.Validation("invalid payload", map[string]string{"username": "required"}))
	})

	require.Equal(t, fiber.StatusUnprocessableEntity, status)
	require.NotNil(t, parsed.Errors)
}

func TestSendAppErrorHidesInternalDetail(t *testing.T) {
	status, parsed := performRequest(t, func(c *fiber.Ctx) error {
		return SendAppError(c, apperr.Internal("find user", io.ErrUnexpectedEOF))
	})

	require.Equal(t, fiber.StatusInternalServerError, status)
	require.NotContains(t, parsed.Message, "EOF")
}
