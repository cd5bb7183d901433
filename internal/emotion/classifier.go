package emotion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/paulson-ai/backend/pkg/logger"
)

// ScoreCache lets a classifier reuse a prior score distribution for the same
// text. Cache failures must degrade to a miss, never to a classification
// error.
type ScoreCache interface {
	GetScores(ctx context.Context, text string) (Distribution, bool)
	SetScores(ctx context.Context, text string, dist Distribution)
}

// Classifier adapts a remote text-classification capability that scores text
// against the seven-label set. Classification failures are fatal for the
// calling turn; there is no retry and no default label.
type Classifier struct {
	endpoint string
	apiToken string
	timeout  time.Duration
	http     *http.Client
	cache    ScoreCache
}

type Option func(*Classifier)

// WithCache attaches a score cache so that DetectEmotion followed by
// ScoreDistribution for the same text costs one inference call.
func WithCache(cache ScoreCache) Option {
	return func(c *Classifier) {
		c.cache = cache
	}
}

func WithHTTPClient(client *http.Client) Option {
	return func(c *Classifier) {
		c.http = client
	}
}

func NewClassifier(endpoint, apiToken string, timeoutSec int, opts ...Option) *Classifier {
	c := &Classifier{
		endpoint: endpoint,
		apiToken: apiToken,
		timeout:  time.Duration(timeoutSec) * time.Second,
		http:     &http.Client{},
	}
	if c.timeout == 0 {
		c.timeout = 15 * time.Second
	}

	for _, opt := range opts {
		opt(c)
	}

	logger.Info("Emotion classifier initialized",
		zap.String("endpoint", endpoint),
		zap.Bool("cache", c.cache != nil),
	)

	return c
}

// DetectEmotion returns the arg-max label for the text.
func (c *Classifier) DetectEmotion(ctx context.Context, text string) (Label, error) {
	dist, err := c.ScoreDistribution(ctx, text)
	if err != nil {
		return "", err
	}

	top, ok := dist.Top()
	if !ok {
		return "", fmt.Errorf("%w: empty score distribution", ErrClassification)
	}

	return top, nil
}

// ScoreDistribution returns the full per-label confidence scores for the
// text. Empty or whitespace-only input is rejected before any network call.
func (c *Classifier) ScoreDistribution(ctx context.Context, text string) (Distribution, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyInput
	}

	if c.cache != nil {
		if dist, ok := c.cache.GetScores(ctx, text); ok {
			return dist, nil
		}
	}

	dist, err := c.infer(ctx, text)
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		c.cache.SetScores(ctx, text, dist)
	}

	return dist, nil
}

func (c *Classifier) infer(ctx context.Context, text string) (Distribution, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, err := json.Marshal(map[string]string{"inputs": text})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrClassification, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrClassification, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiToken)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrClassification, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return nil, fmt.Errorf("%w: inference endpoint returned %d: %s", ErrClassification, resp.StatusCode, snippet)
	}

	// The inference endpoint wraps the scores in one outer array per input.
	var payload [][]Score
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: malformed response: %v", ErrClassification, err)
	}
	if len(payload) == 0 || len(payload[0]) == 0 {
		return nil, fmt.Errorf("%w: empty prediction set", ErrClassification)
	}

	dist := Distribution(payload[0])
	for _, s := range dist {
		if !s.Label.Valid() {
			return nil, fmt.Errorf("%w: %q", ErrUnknownLabel, s.Label)
		}
	}

	logger.Debug("Emotion scores fetched", zap.Int("labels", len(dist)))

	return dist, nil
}
