package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/paulson-ai/backend/internal/conversation"
	"github.com/paulson-ai/backend/internal/emotion"
	"github.com/paulson-ai/backend/internal/generator"
	"github.com/paulson-ai/backend/internal/interaction"
	"github.com/paulson-ai/backend/internal/metrics"
	"github.com/paulson-ai/backend/internal/middleware/validation"
	"github.com/paulson-ai/backend/internal/tone"
	"github.com/paulson-ai/backend/pkg/logger"
)

type ChatHandler struct {
	sessions *conversation.Manager
	journal  *interaction.Logger
}

func NewChatHandler(sessions *conversation.Manager, journal *interaction.Logger) *ChatHandler {
	return &ChatHandler{
		sessions: sessions,
		journal:  journal,
	}
}

// HandleChat runs one conversational turn. A failed turn returns an error
// category and leaves both transcript and log untouched; a logging failure
// still returns the reply, flagged with log_error.
func (h *ChatHandler) HandleChat(c *fiber.Ctx) error {
	var req struct {
		Message   string `json:"message"`
		SessionID string `json:"session_id"`
	}

	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse chat request", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	req.Message = validation.Sanitize(req.Message)
	if req.Message == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Message is required",
		})
	}

	session := h.sessions.Get(req.SessionID)

	result, err := session.Orchestrator.ProcessMessage(c.Context(), req.Message)
	if err != nil {
		status, category := classifyTurnError(err)
		logger.Error("Turn failed",
			zap.Error(err),
			zap.String("session_id", session.ID),
			zap.String("category", category),
		)
		return c.Status(status).JSON(fiber.Map{
			"error":      "Turn failed",
			"category":   category,
			"session_id": session.ID,
		})
	}

	resp := fiber.Map{
		"session_id":     session.ID,
		"reply":          result.Reply,
		"emotion":        result.Emotion,
		"emotion_scores": result.Scores,
		"placeholder":    result.Placeholder,
		"logged":         result.Logged,
	}
	if result.LogError != nil {
		resp["log_error"] = result.LogError.Error()
	}

	return c.JSON(resp)
}

// HandleAnalytics returns the summary over the full persisted history. A
// degraded read still answers 200 with the error embedded.
func (h *ChatHandler) HandleAnalytics(c *fiber.Ctx) error {
	summary := h.journal.Analytics(c.Context())

	if summary.Error != "" {
		metrics.AnalyticsRequests.WithLabelValues("degraded").Inc()
	} else {
		metrics.AnalyticsRequests.WithLabelValues("ok").Inc()
	}

	return c.JSON(summary)
}

// HandleHistory returns the in-memory transcript for a session.
func (h *ChatHandler) HandleHistory(c *fiber.Ctx) error {
	sessionID := c.Query("session_id")
	if sessionID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "session_id is required",
		})
	}

	session, ok := h.sessions.Lookup(sessionID)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Unknown session",
		})
	}

	return c.JSON(fiber.Map{
		"session_id": session.ID,
		"turns":      session.Orchestrator.Transcript().Turns(),
	})
}

// HandleResetSession drops a session and its transcript.
func (h *ChatHandler) HandleResetSession(c *fiber.Ctx) error {
	id := c.Params("id")
	if !h.sessions.Remove(id) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Unknown session",
		})
	}

	return c.JSON(fiber.Map{
		"session_id": id,
		"removed":    true,
	})
}

func classifyTurnError(err error) (int, string) {
	switch {
	case errors.Is(err, emotion.ErrEmptyInput):
		return fiber.StatusBadRequest, "empty_input"
	case errors.Is(err, emotion.ErrUnknownLabel), errors.Is(err, emotion.ErrClassification):
		return fiber.StatusBadGateway, "classification_error"
	case errors.Is(err, generator.ErrAuth):
		return fiber.StatusBadGateway, "authentication_error"
	case errors.Is(err, generator.ErrService), errors.Is(err, generator.ErrEmptyCompletion):
		return fiber.StatusBadGateway, "generation_error"
	case errors.Is(err, tone.ErrUnknownEmotion):
		return fiber.StatusInternalServerError, "configuration_error"
	default:
		return fiber.StatusInternalServerError, "internal_error"
	}
}
