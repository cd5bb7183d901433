package models

import (
	"time"

	"github.com/paulson-ai/backend/internal/emotion"
)

// InteractionRecord is the durable log entry for one completed turn. Records
// are append-only: never rewritten or deleted by the running system.
type InteractionRecord struct {
	Timestamp       time.Time      `json:"timestamp"`
	UserInput       string         `json:"user_input"`
	DetectedEmotion emotion.Label  `json:"detected_emotion"`
	EmotionScores   []EmotionScore `json:"emotion_scores"`
	Response        string         `json:"response"`
}

// EmotionScore mirrors emotion.Score on the wire, kept separate so the
// persisted format does not drift with internal types.
type EmotionScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// ScoresFromDistribution converts classifier output to the persisted shape,
// preserving the classifier's ordering.
func ScoresFromDistribution(dist emotion.Distribution) []EmotionScore {
	scores := make([]EmotionScore, 0, len(dist))
	for _, s := range dist {
		scores = append(scores, EmotionScore{Label: s.Label.String(), Score: s.Score})
	}
	return scores
}

// AnalyticsSummary is derived from the full record set on every request.
// Error is set only when the store could not be read and the summary
// degraded to zero values.
type AnalyticsSummary struct {
	TotalInteractions   int            `json:"total_interactions"`
	EmotionDistribution map[string]int `json:"emotion_distribution,omitempty"`
	Error               string         `json:"error,omitempty"`
}
