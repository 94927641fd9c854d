package session

import "sync"

// Browser events raised through the HX-Trigger response header.
const (
	EventScrollLock   = "scroll-lock"
	EventScrollUnlock = "scroll-unlock"
)

// ScrollLock is the server-side record of whether a visitor's page should suppress background
// scrolling. Transitions are queued as browser events until drained into a response.
type ScrollLock struct {
	mu      sync.Mutex
	locked  bool
	pending []string
}

func (s *ScrollLock) Lock() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.locked {
		return
	}
	s.locked = true
	s.pending = append(s.pending, EventScrollLock)
}

func (s *ScrollLock) Unlock() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.locked {
		return
	}
	s.locked = false
	s.pending = append(s.pending, EventScrollUnlock)
}

func (s *ScrollLock) Locked() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.locked
}

// Drain returns the queued events, oldest first, and clears them.
func (s *ScrollLock) Drain() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.pending
	s.pending = nil
	return out
}
