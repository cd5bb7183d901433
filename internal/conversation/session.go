package conversation

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/paulson-ai/backend/pkg/logger"
)

// Session pairs one orchestrator with its transcript. Sessions share the
// interaction store; the store serializes their appends.
type Session struct {
	ID           string
	Orchestrator *Orchestrator
}

// Manager is the session-isolation layer: one orchestrator and transcript
// per session ID.
type Manager struct {
	mu         sync.Mutex
	sessions   map[string]*Session
	classifier Classifier
	generator  Generator
	recorder   Recorder
}

func NewManager(classifier Classifier, gen Generator, recorder Recorder) *Manager {
	return &Manager{
		sessions:   make(map[string]*Session),
		classifier: classifier,
		generator:  gen,
		recorder:   recorder,
	}
}

// Get returns the session for the ID, creating it when the ID is empty or
// unknown. An empty ID always yields a fresh session.
func (m *Manager) Get(id string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	if id != "" {
		if s, ok := m.sessions[id]; ok {
			return s
		}
	}

	if id == "" {
		id = uuid.New().String()
	}

	s := &Session{
		ID:           id,
		Orchestrator: NewOrchestrator(m.classifier, m.generator, m.recorder),
	}
	m.sessions[id] = s

	logger.Info("Session created", zap.String("session_id", id))

	return s
}

// Lookup returns an existing session without creating one.
func (m *Manager) Lookup(id string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	return s, ok
}

// Remove drops a session and its transcript.
func (m *Manager) Remove(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[id]; !ok {
		return false
	}

	delete(m.sessions, id)
	logger.Info("Session removed", zap.String("session_id", id))
	return true
}
