package session

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/spec-kit/dashboard-gateway/internal/domain"
)

// Store is the session of one browser context. It is hydrated once from
// storage and torn down as a whole.
type Store struct {
	storage Storage
	logger  *zap.Logger

	mu       sync.RWMutex
	hydrated bool
	present  bool
	current  domain.Session
}

// NewStore binds a store to the storage area of a browser context.
func NewStore(storage Storage, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{storage: storage, logger: logger}
}

// Hydrate loads the persisted session. Only the first successful call reads
// storage. On error the store stays unhydrated.
//
// A partially stored session is treated as absent and every session key is
// removed so no field is left behind.
func (s *Store) Hydrate(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.hydrated {
		return nil
	}

	values, err := s.storage.Load(ctx, domain.SessionKeys()...)
	if err != nil {
		return fmt.Errorf("hydrate session: %w", err)
	}

	sess, ok := domain.SessionFromValues(values)
	if !ok {
		sess = domain.Session{}
		if hasAny(values) {
			s.logger.Warn("partial session found; clearing")
			if err := s.storage.Remove(ctx, domain.SessionKeys()...); err != nil {
				s.logger.Warn("failed to clear partial session", zap.Error(err))
			}
		}
	}

	s.current = sess
	s.present = ok
	s.hydrated = true
	return nil
}

// Hydrated reports whether persisted state has finished loading.
func (s *Store) Hydrated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hydrated
}

// Session returns the current session and whether one is present.
func (s *Store) Session() (domain.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current, s.present
}

// AccessToken returns the stored access token.
func (s *Store) AccessToken() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.present {
		return "", false
	}
	return s.current.AccessToken, true
}

// Role returns the stored role.
func (s *Store) Role() (domain.Role, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.present {
		return "", false
	}
	return s.current.Role, true
}

// Save persists a complete session, replacing any previous one.
func (s *Store) Save(ctx context.Context, sess domain.Session) error {
	if !sess.Complete() {
		return ErrIncompleteSession
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.storage.Save(ctx, sess.Values()); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	s.current = sess
	s.present = true
	s.hydrated = true
	return nil
}

// Clear removes all four session keys in one storage operation. The in-memory
// session is dropped even when storage fails.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = domain.Session{}
	s.present = false
	if err := s.storage.Remove(ctx, domain.SessionKeys()...); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func hasAny(values map[string]string) bool {
	for _, v := range values {
		if v != "" {
			return true
		}
	}
	return false
}
