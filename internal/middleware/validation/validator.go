package validation

import (
	"strings"
	"unicode"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type Config struct {
	MaxMessageLength int
	Logger           *zap.Logger
}

// Middleware rejects malformed chat requests before they reach the
// orchestrator: invalid JSON, missing messages, oversized messages. Control
// characters are handled by Sanitize in the handlers, not rejected here.
func Middleware(cfg Config) fiber.Handler {
	if cfg.MaxMessageLength == 0 {
		cfg.MaxMessageLength = 4000
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	return func(c *fiber.Ctx) error {
		if c.Method() != fiber.MethodPost || !strings.Contains(c.Path(), "/api/v1/chat") {
			return c.Next()
		}

		var req map[string]interface{}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid JSON format",
			})
		}

		message, ok := req["message"].(string)
		if !ok || strings.TrimSpace(message) == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Message is required and must be a non-empty string",
			})
		}

		if len(message) > cfg.MaxMessageLength {
			cfg.Logger.Warn("Oversized chat message rejected",
				zap.String("ip", c.IP()),
				zap.Int("length", len(message)),
			)
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Message exceeds maximum length",
			})
		}

		return c.Next()
	}
}

// Sanitize trims whitespace and strips control characters, keeping newlines
// and tabs. Handlers apply it to the message before it enters the pipeline so
// stored records stay clean.
func Sanitize(input string) string {
	input = strings.TrimSpace(input)
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, input)
}
