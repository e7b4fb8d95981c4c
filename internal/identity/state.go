package identity

import "sync"

// StateStore is the application-scoped session cell. It has exactly one
// writer, the identity Client, and any number of subscribed readers.
//
// Subscribe registers the handler once and returns an explicit teardown
// function; handlers are never re-registered implicitly, so a reader cannot
// accumulate duplicate registrations across its lifetime.
type StateStore struct {
	mu      sync.Mutex
	current Session
	subs    map[int]func(Session)
	nextID  int
}

// NewStateStore returns a store holding the signed-out session.
func NewStateStore() *StateStore {
	return &StateStore{
		current: Session{State: SignedOut},
		subs:    make(map[int]func(Session)),
	}
}

// Current returns the session as of the last transition.
func (s *StateStore) Current() Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Subscribe registers a handler that is invoked immediately with the current
// session and again on every transition. The returned function removes the
// registration.
func (s *StateStore) Subscribe(handler func(Session)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = handler
	current := s.current
	s.mu.Unlock()

	handler(current)

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// set publishes a transition. Only the identity Client calls it.
func (s *StateStore) set(next Session) {
	s.mu.Lock()
	s.current = next
	handlers := make([]func(Session), 0, len(s.subs))
	for _, handler := range s.subs {
		handlers = append(handlers, handler)
	}
	s.mu.Unlock()

	for _, handler := range handlers {
		handler(next)
	}
}
