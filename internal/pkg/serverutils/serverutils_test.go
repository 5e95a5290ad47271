package serverutils

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"scitech-bot/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Name string `json:"name" validate:"required,max=5"`
}

func TestValidateRequest(t *testing.T) {
	assert.NoError(t, ValidateRequest(sampleRequest{Name: "ok"}))

	err := ValidateRequest(sampleRequest{})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Fields, 1)
	assert.Equal(t, "Name", verr.Fields[0].Field)
	assert.Equal(t, "required", verr.Fields[0].Rule)

	err = ValidateRequest(sampleRequest{Name: "toolong"})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "max", verr.Fields[0].Rule)
	assert.Equal(t, "5", verr.Fields[0].Param)
}

func decode(t *testing.T, app *fiber.App, path string) (int, Response[any]) {
	t.Helper()
	res, err := app.Test(httptest.NewRequest("GET", path, nil))
	require.NoError(t, err)
	defer res.Body.Close()

	var body Response[any]
	require.NoError(t, json.NewDecoder(res.Body).Decode(&body))
	return res.StatusCode, body
}

func TestErrorHandlerMiddleware(t *testing.T) {
	log := logger.New(logger.Options{FilePath: filepath.Join(t.TempDir(), "http.log")})
	app := fiber.New()
	app.Use(ErrorHandlerMiddleware(log))
	app.Get("/ok", func(c *fiber.Ctx) error {
		return c.JSON(SuccessResponse("fine", fiber.Map{"a": 1}))
	})
	app.Get("/validation", func(c *fiber.Ctx) error {
		return ValidateRequest(sampleRequest{})
	})
	app.Get("/fiber", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusTooManyRequests, "slow down")
	})
	app.Get("/internal", func(c *fiber.Ctx) error {
		return errors.New("db password is hunter2")
	})
	app.Get("/panic", func(c *fiber.Ctx) error {
		panic("boom")
	})

	code, body := decode(t, app, "/ok")
	assert.Equal(t, 200, code)
	assert.True(t, body.Success)
	assert.Equal(t, "fine", body.Message)

	code, body = decode(t, app, "/validation")
	assert.Equal(t, 400, code)
	assert.False(t, body.Success)
	assert.NotNil(t, body.Errors)

	code, body = decode(t, app, "/fiber")
	assert.Equal(t, 429, code)
	assert.Equal(t, "slow down", body.Message)

	code, body = decode(t, app, "/internal")
	assert.Equal(t, 500, code)
	assert.NotContains(t, body.Message, "hunter2")

	code, body = decode(t, app, "/panic")
	assert.Equal(t, 500, code)
	assert.False(t, body.Success)

	require.NoError(t, log.Sync())
	entries, err := log.GetLogs("ERROR", 0, 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "Panic while serving request", entries[0].Message)
	assert.Equal(t, "HTTP", entries[0].Module)
	assert.Equal(t, "/panic", entries[0].Details["path"])
	assert.Equal(t, "boom", entries[0].Details["error"])

	assert.Equal(t, "Request failed", entries[1].Message)
	assert.Equal(t, "/internal", entries[1].Details["path"])
	assert.Equal(t, "db password is hunter2", entries[1].Details["error"])
}

func TestErrorHandlerMiddleware_NilLogger(t *testing.T) {
	app := fiber.New()
	app.Use(ErrorHandlerMiddleware(nil))
	app.Get("/panic", func(c *fiber.Ctx) error {
		panic("boom")
	})

	code, body := decode(t, app, "/panic")
	assert.Equal(t, 500, code)
	assert.Equal(t, "Internal server error", body.Message)
}
