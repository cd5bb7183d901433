// Package generator produces emotion-conditioned replies through an
// OpenAI-compatible chat completion service.
package generator

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/paulson-ai/backend/internal/emotion"
	"github.com/paulson-ai/backend/internal/tone"
	"github.com/paulson-ai/backend/pkg/circuitbreaker"
	"github.com/paulson-ai/backend/pkg/logger"
)

// PlaceholderResponse is returned verbatim when no API key is configured.
// Missing credentials degrade the turn instead of failing it.
const PlaceholderResponse = "API client not initialized. Please provide an API key."

var (
	// ErrService covers transport failures, timeouts, and an open circuit.
	ErrService = errors.New("generation service unavailable")
	// ErrAuth is an authentication rejection from the service.
	ErrAuth = errors.New("generation service rejected credentials")
	// ErrEmptyCompletion means the service answered with no choices.
	ErrEmptyCompletion = errors.New("generation service returned no completion")
)

// Reply is one generated response. Placeholder marks the degraded
// missing-credential path so callers can flag it distinctly.
type Reply struct {
	Content     string
	Placeholder bool
}

type Client struct {
	api         *openai.Client
	model       string
	temperature float32
	maxTokens   int
	timeout     time.Duration
	company     tone.CompanyProfile
	policy      *tone.Policy
	cb          *circuitbreaker.CircuitBreaker
}

// NewClient builds a generator against an OpenAI-compatible endpoint. An
// empty apiKey leaves the underlying client nil; GenerateResponse then
// returns the fixed placeholder instead of calling out.
func NewClient(baseURL, apiKey, model string, temperature float32, maxTokens, timeoutSec int, company tone.CompanyProfile, policy *tone.Policy) *Client {
	var api *openai.Client
	if apiKey != "" {
		cfg := openai.DefaultConfig(apiKey)
		if baseURL != "" {
			cfg.BaseURL = baseURL
		}
		api = openai.NewClientWithConfig(cfg)
	}

	timeout := time.Duration(timeoutSec) * time.Second
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	cb := circuitbreaker.New("generation", circuitbreaker.Config{
		OpenTimeout:      30 * time.Second,
		FailureThreshold: 5,
		SuccessThreshold: 2,
		Logger:           logger.GetLogger(),
	})

	logger.Info("Response generator initialized",
		zap.String("model", model),
		zap.Bool("credentialed", api != nil),
	)

	return &Client{
		api:         api,
		model:       model,
		temperature: temperature,
		maxTokens:   maxTokens,
		timeout:     timeout,
		company:     company,
		policy:      policy,
		cb:          cb,
	}
}

// GenerateResponse issues exactly one chat completion request conditioned on
// the detected emotion's tone policy. No retries.
func (c *Client) GenerateResponse(ctx context.Context, userInput string, detected emotion.Label) (*Reply, error) {
	if c.api == nil {
		logger.Warn("Generation skipped, no API key configured")
		return &Reply{Content: PlaceholderResponse, Placeholder: true}, nil
	}

	entry, err := c.policy.For(detected)
	if err != nil {
		return nil, err
	}

	systemPrompt := buildSystemPrompt(c.company, entry)

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var resp openai.ChatCompletionResponse
	err = c.cb.Execute(ctx, func() error {
		var callErr error
		resp, callErr = c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:       c.model,
			Temperature: c.temperature,
			MaxTokens:   c.maxTokens,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
				{Role: openai.ChatMessageRoleUser, Content: userInput},
			},
		})
		return callErr
	})

	if err != nil {
		return nil, classifyError(err)
	}

	if len(resp.Choices) == 0 {
		return nil, ErrEmptyCompletion
	}

	content := resp.Choices[0].Message.Content

	logger.Debug("Reply generated",
		zap.String("emotion", detected.String()),
		zap.String("tone", entry.Tone),
		zap.Int("response_length", len(content)),
	)

	return &Reply{Content: content}, nil
}

func classifyError(err error) error {
	if errors.Is(err, circuitbreaker.ErrCircuitOpen) {
		return fmt.Errorf("%w: %v", ErrService, err)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.HTTPStatusCode == http.StatusUnauthorized || apiErr.HTTPStatusCode == http.StatusForbidden {
			return fmt.Errorf("%w: %v", ErrAuth, err)
		}
	}

	return fmt.Errorf("%w: %v", ErrService, err)
}
