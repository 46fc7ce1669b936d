package session

import (
	"context"
	"sort"
	"sync"

	"github.com/luthfiadilal/pos/internal/domain"
)

// MemoryStore keeps table sessions in process memory. Used when the terminal
// runs without postgres, and in tests.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]domain.ActiveTableSession
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]domain.ActiveTableSession),
	}
}

func (s *MemoryStore) LoadSessions(_ context.Context) ([]domain.ActiveTableSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := make([]domain.ActiveTableSession, 0, len(s.sessions))
	for _, sess := range s.sessions {
		sessions = append(sessions, sess)
	}
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].StartedAt.Before(sessions[j].StartedAt)
	})
	return sessions, nil
}

func (s *MemoryStore) SaveSession(_ context.Context, sess domain.ActiveTableSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.sessions[sess.Table.TableCode]; exists {
		return ErrDuplicateTableSession
	}
	s.sessions[sess.Table.TableCode] = sess
	return nil
}

func (s *MemoryStore) DeleteSession(_ context.Context, tableCode string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.sessions[tableCode]; !exists {
		return ErrSessionNotFound
	}
	delete(s.sessions, tableCode)
	return nil
}

func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions = make(map[string]domain.ActiveTableSession)
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}
