// Package interaction records completed turns and derives analytics over the
// full persisted history.
package interaction

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/paulson-ai/backend/internal/emotion"
	"github.com/paulson-ai/backend/internal/metrics"
	"github.com/paulson-ai/backend/internal/storage"
	"github.com/paulson-ai/backend/internal/storage/models"
	"github.com/paulson-ai/backend/pkg/logger"
)

// Logger appends one record per completed turn to the store. The caller
// decides whether an append failure is surfaced; it must never roll back a
// reply already shown to the user.
type Logger struct {
	store storage.Store
	now   func() time.Time
}

func NewLogger(store storage.Store) *Logger {
	return &Logger{
		store: store,
		now:   time.Now,
	}
}

// Log appends exactly one interaction record stamped with the current time.
func (l *Logger) Log(ctx context.Context, userInput string, detected emotion.Label, scores emotion.Distribution, response string) error {
	record := models.InteractionRecord{
		Timestamp:       l.now(),
		UserInput:       userInput,
		DetectedEmotion: detected,
		EmotionScores:   models.ScoresFromDistribution(scores),
		Response:        response,
	}

	if err := l.store.Append(ctx, record); err != nil {
		return err
	}

	metrics.InteractionsLogged.Inc()
	logger.Info("Interaction logged", zap.String("emotion", detected.String()))

	return nil
}

// Analytics recomputes the summary from the full record set. An empty store
// yields the zero summary; an unreadable or corrupt store degrades to the
// zero summary with the error embedded, and never fails the caller.
func (l *Logger) Analytics(ctx context.Context) models.AnalyticsSummary {
	records, err := l.store.All(ctx)
	if err != nil {
		logger.Error("Failed to read interaction history", zap.Error(err))
		return models.AnalyticsSummary{Error: err.Error()}
	}

	summary := models.AnalyticsSummary{TotalInteractions: len(records)}
	if len(records) == 0 {
		return summary
	}

	summary.EmotionDistribution = make(map[string]int)
	for _, r := range records {
		summary.EmotionDistribution[r.DetectedEmotion.String()]++
	}

	return summary
}
