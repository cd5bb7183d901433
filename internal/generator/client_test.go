package generator

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paulson-ai/backend/internal/emotion"
	"github.com/paulson-ai/backend/internal/tone"
)

var testCompany = tone.CompanyProfile{
	Name:      "Paulson & Partners",
	Expertise: []string{"wealth management", "tax planning", "corporate solutions"},
	Values:    []string{"integrity", "client success"},
}

type capturedRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func completionServer(t *testing.T, captured *capturedRequest, reply string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if captured != nil {
			require.NoError(t, json.NewDecoder(r.Body).Decode(captured))
		}
		w.Header().Set("Content-Type", "application/json")
		resp := map[string]interface{}{
			"id":     "cmpl-1",
			"object": "chat.completion",
			"choices": []map[string]interface{}{
				{
					"index":   0,
					"message": map[string]string{"role": "assistant", "content": reply},
				},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestMissingCredentialReturnsPlaceholder(t *testing.T) {
	c := NewClient("", "", "test-model", 0.7, 256, 5, testCompany, tone.NewPolicy())

	reply, err := c.GenerateResponse(context.Background(), "Can you help with my taxes?", emotion.Neutral)
	require.NoError(t, err)
	assert.Equal(t, PlaceholderResponse, reply.Content)
	assert.True(t, reply.Placeholder)
}

func TestGenerateResponseInterpolatesTonePolicy(t *testing.T) {
	var captured capturedRequest
	srv := completionServer(t, &captured, "Let me walk you through those fees calmly.")

	c := NewClient(srv.URL, "test-key", "test-model", 0.7, 256, 5, testCompany, tone.NewPolicy())

	reply, err := c.GenerateResponse(context.Background(), "I am furious about these fees", emotion.Anger)
	require.NoError(t, err)
	assert.False(t, reply.Placeholder)
	assert.Equal(t, "Let me walk you through those fees calmly.", reply.Content)

	require.Len(t, captured.Messages, 2)
	assert.Equal(t, "system", captured.Messages[0].Role)
	assert.Equal(t, "user", captured.Messages[1].Role)
	assert.Equal(t, "I am furious about these fees", captured.Messages[1].Content)
	assert.Equal(t, "test-model", captured.Model)

	system := captured.Messages[0].Content
	assert.Contains(t, system, "calming")
	assert.Contains(t, system, "reassuring, professional, solution-focused")
	assert.Contains(t, system, "wealth management, tax planning, corporate solutions")
	assert.Contains(t, system, "Paulson & Partners")
}

func TestSystemPromptContainsRefusalContract(t *testing.T) {
	policy := tone.NewPolicy()
	entry, err := policy.For(emotion.Neutral)
	require.NoError(t, err)

	prompt := buildSystemPrompt(testCompany, entry)
	assert.Contains(t, prompt, `"I'm sorry, I can only help with wealth management, tax planning, corporate solutions."`)
	assert.Contains(t, prompt, "integrity, client success")
}

func TestEmptyCompletionSurfaced(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"cmpl-2","object":"chat.completion","choices":[]}`))
	}))
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL, "test-key", "test-model", 0.7, 256, 5, testCompany, tone.NewPolicy())

	_, err := c.GenerateResponse(context.Background(), "hello", emotion.Joy)
	assert.ErrorIs(t, err, ErrEmptyCompletion)
}

func TestAuthRejectionIsDistinct(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"invalid api key","type":"invalid_request_error"}}`))
	}))
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL, "bad-key", "test-model", 0.7, 256, 5, testCompany, tone.NewPolicy())

	_, err := c.GenerateResponse(context.Background(), "hello", emotion.Joy)
	assert.ErrorIs(t, err, ErrAuth)
}

func TestServiceFailureIsServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL, "test-key", "test-model", 0.7, 256, 5, testCompany, tone.NewPolicy())

	_, err := c.GenerateResponse(context.Background(), "hello", emotion.Joy)
	assert.ErrorIs(t, err, ErrService)
}

func TestOpenBreakerShortCircuitsAsServiceError(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL, "test-key", "test-model", 0.7, 256, 5, testCompany, tone.NewPolicy())

	// Five consecutive failures trip the breaker.
	for i := 0; i < 5; i++ {
		_, err := c.GenerateResponse(context.Background(), "hello", emotion.Joy)
		require.ErrorIs(t, err, ErrService)
	}
	require.Equal(t, 5, hits)

	_, err := c.GenerateResponse(context.Background(), "hello", emotion.Joy)
	assert.ErrorIs(t, err, ErrService)
	assert.Equal(t, 5, hits, "an open breaker must not reach the service")
}

func TestUnknownEmotionFailsBeforeRequest(t *testing.T) {
	hit := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hit = true
	}))
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL, "test-key", "test-model", 0.7, 256, 5, testCompany, tone.NewPolicy())

	_, err := c.GenerateResponse(context.Background(), "hello", emotion.Label("stoicism"))
	assert.ErrorIs(t, err, tone.ErrUnknownEmotion)
	assert.False(t, hit, "no request should be sent for an unknown emotion")
}

func TestPromptLineShape(t *testing.T) {
	policy := tone.NewPolicy()
	entry, _ := policy.For(emotion.Sadness)

	prompt := buildSystemPrompt(testCompany, entry)
	lines := strings.Split(prompt, "\n")
	assert.Len(t, lines, 5)
	assert.Contains(t, lines[3], "empathetic")
}
