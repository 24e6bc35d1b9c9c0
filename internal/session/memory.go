package session

import (
	"context"
	"sync"
)

// MemoryStore keeps sessions for the lifetime of the process. Each entry is
// independent per user; the mutex only guards the map and the entries it
// hands out as copies.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[int64]*Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[int64]*Session),
	}
}

func (s *MemoryStore) Get(_ context.Context, userID int64) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.getOrCreate(userID)
	copied := *sess
	return &copied, nil
}

func (s *MemoryStore) SetWeek(_ context.Context, userID int64, week int) error {
	if week < MinWeek || week > MaxWeek {
		return ErrWeekOutOfRange
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.getOrCreate(userID)
	sess.CurrentWeek = week
	sess.PendingPrompt = PromptNone
	return nil
}

func (s *MemoryStore) SetDay(_ context.Context, userID int64, day int) error {
	if day < MinDay || day > MaxDay {
		return ErrDayOutOfRange
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.getOrCreate(userID)
	sess.CurrentDay = day
	sess.PendingPrompt = PromptNone
	return nil
}

func (s *MemoryStore) AdvanceWeek(_ context.Context, userID int64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.getOrCreate(userID)
	sess.CurrentWeek = nextWeek(sess.CurrentWeek)
	return sess.CurrentWeek, nil
}

func (s *MemoryStore) SetPendingPrompt(_ context.Context, userID int64, prompt Prompt) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.getOrCreate(userID)
	sess.PendingPrompt = prompt
	return nil
}

func (s *MemoryStore) getOrCreate(userID int64) *Session {
	sess, ok := s.sessions[userID]
	if !ok {
		sess = &Session{UserID: userID, CurrentWeek: MinWeek}
		s.sessions[userID] = sess
	}
	return sess
}
