// Package conversation sequences one turn: classify the message, generate an
// emotion-conditioned reply, persist the interaction, update the transcript.
package conversation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/paulson-ai/backend/internal/emotion"
	"github.com/paulson-ai/backend/internal/generator"
	"github.com/paulson-ai/backend/internal/metrics"
	"github.com/paulson-ai/backend/pkg/logger"
)

// Classifier is the emotion capability consumed by the orchestrator.
type Classifier interface {
	DetectEmotion(ctx context.Context, text string) (emotion.Label, error)
	ScoreDistribution(ctx context.Context, text string) (emotion.Distribution, error)
}

// Generator produces the reply for a message given its detected emotion.
type Generator interface {
	GenerateResponse(ctx context.Context, userInput string, detected emotion.Label) (*generator.Reply, error)
}

// Recorder persists completed turns.
type Recorder interface {
	Log(ctx context.Context, userInput string, detected emotion.Label, scores emotion.Distribution, response string) error
}

// TurnResult is the outcome of one successful turn. LogError is set when the
// reply was produced but could not be persisted; the turn still counts as
// successful and the transcript keeps the reply.
type TurnResult struct {
	Reply       string
	Emotion     emotion.Label
	Scores      emotion.Distribution
	Placeholder bool
	Logged      bool
	LogError    error
}

// Orchestrator drives turns for one session, strictly sequentially. A
// classification or generation failure aborts the turn before anything is
// logged or added to the transcript, so both stay consistent.
type Orchestrator struct {
	classifier Classifier
	generator  Generator
	recorder   Recorder
	transcript *Transcript

	// turnMu guarantees a new turn's classification never starts while a
	// previous turn is still generating or logging.
	turnMu chan struct{}
}

func NewOrchestrator(classifier Classifier, gen Generator, recorder Recorder) *Orchestrator {
	o := &Orchestrator{
		classifier: classifier,
		generator:  gen,
		recorder:   recorder,
		transcript: NewTranscript(),
		turnMu:     make(chan struct{}, 1),
	}
	o.turnMu <- struct{}{}
	return o
}

func (o *Orchestrator) Transcript() *Transcript {
	return o.transcript
}

// ProcessMessage runs one turn: classify, generate, log, then append the
// user and assistant turns to the transcript, in that order.
func (o *Orchestrator) ProcessMessage(ctx context.Context, text string) (*TurnResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, emotion.ErrEmptyInput
	}

	select {
	case <-o.turnMu:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	defer func() { o.turnMu <- struct{}{} }()

	classifyStart := time.Now()
	detected, err := o.classifier.DetectEmotion(ctx, text)
	if err != nil {
		metrics.TurnsTotal.WithLabelValues("classification_error").Inc()
		return nil, fmt.Errorf("classify: %w", err)
	}

	scores, err := o.classifier.ScoreDistribution(ctx, text)
	if err != nil {
		metrics.TurnsTotal.WithLabelValues("classification_error").Inc()
		return nil, fmt.Errorf("score: %w", err)
	}
	metrics.ClassifierDuration.Observe(time.Since(classifyStart).Seconds())
	metrics.EmotionsDetected.WithLabelValues(detected.String()).Inc()

	generateStart := time.Now()
	reply, err := o.generator.GenerateResponse(ctx, text, detected)
	if err != nil {
		metrics.TurnsTotal.WithLabelValues("generation_error").Inc()
		return nil, fmt.Errorf("generate: %w", err)
	}
	metrics.GenerationDuration.Observe(time.Since(generateStart).Seconds())

	if reply.Placeholder {
		metrics.PlaceholderReplies.Inc()
	}

	result := &TurnResult{
		Reply:       reply.Content,
		Emotion:     detected,
		Scores:      scores,
		Placeholder: reply.Placeholder,
	}

	// A persistence failure is reported, not fatal: the reply the user saw
	// is never rolled back.
	if err := o.recorder.Log(ctx, text, detected, scores, reply.Content); err != nil {
		logger.Warn("Failed to log interaction",
			zap.Error(err),
			zap.String("emotion", detected.String()),
		)
		metrics.LogFailures.Inc()
		result.LogError = err
	} else {
		result.Logged = true
	}

	o.transcript.append(
		Turn{Role: RoleUser, Content: text},
		Turn{Role: RoleAssistant, Content: reply.Content, Emotion: detected},
	)

	metrics.TurnsTotal.WithLabelValues("ok").Inc()

	return result, nil
}
