package conversation

import (
	"context"
	"sync"

	"github.com/handystore/storefront-bot/internal/entity"
)

// Store is the session registry, keyed by user id. Load returns nil for
// a user with no session; the engine creates one on first interaction.
type Store interface {
	Load(ctx context.Context, userID string) (*entity.Session, error)
	Save(ctx context.Context, ses *entity.Session) error
	Delete(ctx context.Context, userID string) error
}

type memoryStore struct {
	mu       sync.RWMutex
	sessions map[string]entity.Session
}

// NewMemoryStore creates an in-process session registry.
func NewMemoryStore() Store {
	return &memoryStore{sessions: make(map[string]entity.Session)}
}

// cloneSession deep-copies the pointer fields so stored snapshots and
// callers never alias the same draft, matching the Redis store's
// serialize-on-save semantics.
func cloneSession(ses entity.Session) entity.Session {
	if ses.Draft != nil {
		draft := *ses.Draft
		ses.Draft = &draft
	}
	if ses.Tracking != nil {
		tracking := *ses.Tracking
		ses.Tracking = &tracking
	}
	return ses
}

func (s *memoryStore) Load(ctx context.Context, userID string) (*entity.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ses, ok := s.sessions[userID]
	if !ok {
		return nil, nil
	}
	copied := cloneSession(ses)
	return &copied, nil
}

func (s *memoryStore) Save(ctx context.Context, ses *entity.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[ses.UserID] = cloneSession(*ses)
	return nil
}

func (s *memoryStore) Delete(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
	return nil
}
