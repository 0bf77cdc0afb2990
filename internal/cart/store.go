package cart

import "sync"

// Store keeps one cart per session id, in memory only. Carts live for the
// process lifetime and are never persisted; a confirmed checkout is the only
// caller of Clear.
type Store struct {
	mu    sync.Mutex
	carts map[string]*Cart
}

func NewStore() *Store {
	return &Store{carts: make(map[string]*Cart)}
}

// Do runs fn with the session's cart under the store lock, creating an empty
// cart on first use.
func (s *Store) Do(sessionID string, fn func(*Cart) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.carts[sessionID]
	if !ok {
		c = &Cart{}
		s.carts[sessionID] = c
	}
	return fn(c)
}

// Drop discards a session's cart entirely (e.g. on logout).
func (s *Store) Drop(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, sessionID)
}
