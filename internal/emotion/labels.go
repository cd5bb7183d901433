// Package emotion classifies the affective tone of user text against a fixed
// seven-label set by calling a remote text-classification service.
package emotion

import "errors"

type Label string

const (
	Anger    Label = "anger"
	Disgust  Label = "disgust"
	Fear     Label = "fear"
	Joy      Label = "joy"
	Neutral  Label = "neutral"
	Sadness  Label = "sadness"
	Surprise Label = "surprise"
)

// labels is the canonical order. Arg-max ties resolve to the earlier entry.
var labels = []Label{Anger, Disgust, Fear, Joy, Neutral, Sadness, Surprise}

var (
	ErrClassification = errors.New("emotion classification failed")
	ErrEmptyInput     = errors.New("input text is empty")
	ErrUnknownLabel   = errors.New("classifier returned a label outside the known set")
)

// Labels returns the seven known labels in canonical order.
func Labels() []Label {
	out := make([]Label, len(labels))
	copy(out, labels)
	return out
}

func (l Label) Valid() bool {
	for _, known := range labels {
		if l == known {
			return true
		}
	}
	return false
}

func (l Label) String() string {
	return string(l)
}

// Score is one classifier confidence for one label.
type Score struct {
	Label Label   `json:"label"`
	Score float64 `json:"score"`
}

// Distribution holds one score per label, in the order the classifier
// returned them. Scores need not sum to 1.
type Distribution []Score

// Top returns the highest-scoring label. On a tie the label appearing first
// in canonical order wins, so the result is deterministic for any input.
func (d Distribution) Top() (Label, bool) {
	if len(d) == 0 {
		return "", false
	}

	byLabel := make(map[Label]float64, len(d))
	for _, s := range d {
		byLabel[s.Label] = s.Score
	}

	var (
		best      Label
		bestScore float64
		found     bool
	)
	for _, l := range labels {
		score, ok := byLabel[l]
		if !ok {
			continue
		}
		if !found || score > bestScore {
			best = l
			bestScore = score
			found = true
		}
	}

	return best, found
}
