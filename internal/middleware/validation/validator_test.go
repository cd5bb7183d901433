package validation

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(cfg Config) *fiber.App {
	app := fiber.New()
	app.Use(Middleware(cfg))
	app.Post("/api/v1/chat", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"ok": true})
	})
	app.Get("/api/v1/analytics", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"ok": true})
	})
	return app
}

func postChat(t *testing.T, app *fiber.App, body string) int {
	t.Helper()
	req := httptest.NewRequest("POST", "/api/v1/chat", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	resp.Body.Close()
	return resp.StatusCode
}

func TestMiddlewareAcceptsValidMessage(t *testing.T) {
	app := newTestApp(Config{})
	assert.Equal(t, fiber.StatusOK, postChat(t, app, `{"message":"hello"}`))
}

func TestMiddlewareRejectsMalformedBodies(t *testing.T) {
	app := newTestApp(Config{})

	tests := []struct {
		name string
		body string
	}{
		{"invalid json", `{"message":`},
		{"missing message", `{"session_id":"abc"}`},
		{"blank message", `{"message":"   "}`},
		{"non-string message", `{"message":42}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, fiber.StatusBadRequest, postChat(t, app, tt.body))
		})
	}
}

func TestMiddlewareRejectsOversizedMessage(t *testing.T) {
	app := newTestApp(Config{MaxMessageLength: 10})
	body := `{"message":"` + strings.Repeat("a", 11) + `"}`
	assert.Equal(t, fiber.StatusBadRequest, postChat(t, app, body))
}

func TestMiddlewareIgnoresOtherRoutes(t *testing.T) {
	app := newTestApp(Config{})
	req := httptest.NewRequest("GET", "/api/v1/analytics", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"trims whitespace", "  hello  ", "hello"},
		{"strips nul bytes", "hel\x00lo", "hello"},
		{"strips other control chars", "hel\x07\x1blo", "hello"},
		{"keeps interior newlines and tabs", "line one\n\tline two", "line one\n\tline two"},
		{"whitespace only becomes empty", " \t\n ", ""},
		{"plain text untouched", "I am furious about these fees", "I am furious about these fees"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Sanitize(tt.input))
		})
	}
}
