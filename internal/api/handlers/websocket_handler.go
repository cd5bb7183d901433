package handlers

import (
	"context"

	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/paulson-ai/backend/internal/conversation"
	"github.com/paulson-ai/backend/internal/middleware/validation"
	"github.com/paulson-ai/backend/pkg/logger"
)

// WebSocketHandler streams replies over a socket. The reply is generated in
// full first and then chunked word by word; token-level streaming from the
// model is out of scope.
type WebSocketHandler struct {
	sessions *conversation.Manager
}

func NewWebSocketHandler(sessions *conversation.Manager) *WebSocketHandler {
	return &WebSocketHandler{sessions: sessions}
}

func (h *WebSocketHandler) HandleConnection(c *websocket.Conn) {
	logger.Info("WebSocket connection established")

	defer func() {
		c.Close()
		logger.Info("WebSocket connection closed")
	}()

	for {
		var msg struct {
			Type      string `json:"type"`
			Content   string `json:"content"`
			SessionID string `json:"session_id"`
		}

		if err := c.ReadJSON(&msg); err != nil {
			logger.Debug("WebSocket read ended", zap.Error(err))
			break
		}

		if msg.Type != "message" {
			continue
		}

		if err := h.streamTurn(c, msg.Content, msg.SessionID); err != nil {
			logger.Error("Failed to stream turn", zap.Error(err))
			h.sendError(c, err)
		}
	}
}

func (h *WebSocketHandler) streamTurn(c *websocket.Conn, content, sessionID string) error {
	content = validation.Sanitize(content)
	session := h.sessions.Get(sessionID)

	h.send(c, map[string]interface{}{
		"type":       "status",
		"content":    "Analyzing...",
		"session_id": session.ID,
	})

	result, err := session.Orchestrator.ProcessMessage(context.Background(), content)
	if err != nil {
		return err
	}

	for _, chunk := range splitIntoWords(result.Reply) {
		if err := h.send(c, map[string]interface{}{
			"type":    "chunk",
			"content": chunk,
		}); err != nil {
			return err
		}
	}

	complete := map[string]interface{}{
		"type":        "complete",
		"session_id":  session.ID,
		"emotion":     result.Emotion,
		"placeholder": result.Placeholder,
		"logged":      result.Logged,
	}
	if result.LogError != nil {
		complete["log_error"] = result.LogError.Error()
	}

	return h.send(c, complete)
}

func (h *WebSocketHandler) send(c *websocket.Conn, msg map[string]interface{}) error {
	return c.WriteJSON(msg)
}

func (h *WebSocketHandler) sendError(c *websocket.Conn, err error) {
	_, category := classifyTurnError(err)
	c.WriteJSON(map[string]interface{}{
		"type":     "error",
		"error":    "Turn failed",
		"category": category,
	})
}

func splitIntoWords(text string) []string {
	words := []string{}
	current := ""

	for _, char := range text {
		if char == ' ' || char == '\n' {
			if current != "" {
				words = append(words, current+" ")
				current = ""
			}
			if char == '\n' {
				words = append(words, "\n")
			}
		} else {
			current += string(char)
		}
	}

	if current != "" {
		words = append(words, current)
	}

	return words
}
