package history

import (
	"context"
	"sync"

	"github.com/Protocol-Lattice/spacex-agent/src/models"
)

// Store persists conversation transcripts keyed by session id. Persistence
// is an observer of the conversation log: the agent mirrors its state after
// each turn, and a failed save never fails the turn.
type Store interface {
	Save(ctx context.Context, sessionID string, messages []models.Message) error
	Load(ctx context.Context, sessionID string) ([]models.Message, error)
	Close(ctx context.Context) error
}

// MemoryStore is the in-process Store used by default and in tests.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string][]models.Message
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string][]models.Message)}
}

func (s *MemoryStore) Save(_ context.Context, sessionID string, messages []models.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sessionID] = append([]models.Message(nil), messages...)
	return nil
}

func (s *MemoryStore) Load(_ context.Context, sessionID string) ([]models.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stored, ok := s.sessions[sessionID]
	if !ok {
		return nil, nil
	}
	return append([]models.Message(nil), stored...), nil
}

func (s *MemoryStore) Close(context.Context) error {
	return nil
}

var _ Store = (*MemoryStore)(nil)
