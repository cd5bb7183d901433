package conversation

import (
	"sync"

	"github.com/paulson-ai/backend/internal/emotion"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one transcript entry. Assistant turns always carry the emotion
// detected for the message they answer, so rendering never needs a default.
type Turn struct {
	Role    Role          `json:"role"`
	Content string        `json:"content"`
	Emotion emotion.Label `json:"emotion,omitempty"`
}

// Transcript is the in-memory history of one session. It lives for the
// process lifetime only; durable history is the interaction log's concern.
type Transcript struct {
	mu    sync.RWMutex
	turns []Turn
}

func NewTranscript() *Transcript {
	return &Transcript{}
}

func (t *Transcript) append(turns ...Turn) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.turns = append(t.turns, turns...)
}

// Turns returns a snapshot of the transcript.
func (t *Transcript) Turns() []Turn {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]Turn, len(t.turns))
	copy(out, t.turns)
	return out
}

func (t *Transcript) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.turns)
}

func (t *Transcript) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.turns = nil
}
