package apperr

import (
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus(t *testing.T) {
	assert.Equal(t, 400, Validation("x").Status())
	assert.Equal(t, 401, Unauthorized("x").Status())
	assert.Equal(t, 404, NotFound("x").Status())
	assert.Equal(t, 409, Conflict("x").Status())
}

func TestErrorHandler(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Get("/conflict", func(c *fiber.Ctx) error {
		return Conflict("User already exists")
	})
	app.Get("/boom", func(c *fiber.Ctx) error {
		return errors.New("pq: connection refused")
	})

	t.Run("taxonomy error maps to status and body", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/conflict", nil))
		require.NoError(t, err)
		assert.Equal(t, 409, resp.StatusCode)

		var body map[string]string
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "User already exists", body["error"])
	})

	t.Run("unknown error becomes generic 500", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/boom", nil))
		require.NoError(t, err)
		assert.Equal(t, 500, resp.StatusCode)

		raw, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.NotContains(t, string(raw), "connection refused")
		assert.Contains(t, string(raw), "Internal server error")
	})
}
