package interview

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// memoryStore is a minimal Store for tests and offline development.
type memoryStore struct {
	mu          sync.RWMutex
	sessions    map[string]Session
	transcripts map[string][]Turn
}

func NewInMemoryStore() Store {
	return &memoryStore{
		sessions:    map[string]Session{},
		transcripts: map[string][]Turn{},
	}
}

func (m *memoryStore) CreateSession(_ context.Context, userID, questionID string) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess := Session{
		ID:           uuid.NewString(),
		UserID:       userID,
		QuestionID:   questionID,
		Status:       StatusInProgress,
		CurrentStage: StageExplanation,
		StartedAt:    time.Now().Unix(),
	}
	m.sessions[sess.ID] = sess
	return sess, nil
}

func (m *memoryStore) GetSession(_ context.Context, id, userID string) (Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sess, ok := m.sessions[id]
	if !ok || sess.UserID != userID {
		return Session{}, ErrSessionNotFound
	}
	return sess, nil
}

func (m *memoryStore) ListSessions(_ context.Context, userID string) ([]Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Session
	for _, sess := range m.sessions {
		if sess.UserID == userID {
			out = append(out, sess)
		}
	}
	return out, nil
}

func (m *memoryStore) AppendTurn(_ context.Context, sessionID, speaker, message string) (Turn, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[sessionID]; !ok {
		return Turn{}, ErrSessionNotFound
	}
	t := Turn{Speaker: speaker, Message: message, Position: len(m.transcripts[sessionID])}
	m.transcripts[sessionID] = append(m.transcripts[sessionID], t)
	return t, nil
}

func (m *memoryStore) Transcript(_ context.Context, sessionID string) ([]Turn, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	turns := m.transcripts[sessionID]
	out := make([]Turn, len(turns))
	copy(out, turns)
	return out, nil
}

func (m *memoryStore) AdvanceStage(_ context.Context, sessionID string, next Stage) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[sessionID]
	if !ok {
		return Session{}, ErrSessionNotFound
	}
	if next == sess.CurrentStage {
		sess.StageTurns++
	} else {
		sess.StageTurns = 0
	}
	sess.CurrentStage = next
	if next == StageComplete && sess.Status != StatusCompleted {
		sess.Status = StatusCompleted
		sess.CompletedAt = time.Now().Unix()
	}
	m.sessions[sessionID] = sess
	return sess, nil
}

func (m *memoryStore) SaveCode(_ context.Context, sessionID, code, language string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[sessionID]
	if !ok {
		return ErrSessionNotFound
	}
	sess.CodeSolution = code
	sess.Language = language
	m.sessions[sessionID] = sess
	return nil
}

func (m *memoryStore) SaveTestResults(_ context.Context, sessionID string, res TestResultSummary) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[sessionID]
	if !ok {
		return ErrSessionNotFound
	}
	sess.TestResults = &res
	m.sessions[sessionID] = sess
	return nil
}

func (m *memoryStore) MergeStageTimes(_ context.Context, sessionID string, times map[string]int) (map[string]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	merged := map[string]int{}
	for stage, secs := range sess.StageStats {
		merged[stage] = secs
	}
	for stage, secs := range times {
		merged[stage] += secs
	}
	sess.StageStats = merged
	m.sessions[sessionID] = sess
	return merged, nil
}

func (m *memoryStore) SaveFeedbackOnce(_ context.Context, sessionID, feedback string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[sessionID]
	if !ok {
		return "", ErrSessionNotFound
	}
	if sess.Feedback != "" {
		return sess.Feedback, nil
	}
	sess.Feedback = feedback
	m.sessions[sessionID] = sess
	return feedback, nil
}
