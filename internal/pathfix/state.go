package pathfix

import "sync"

// State records whether a PATH repair was attempted and whether it worked.
// A Fixer normally owns one; share a State to coordinate several Fixers.
type State struct {
	mu        sync.Mutex
	attempted bool
	succeeded bool
}

// Attempted reports whether a repair is in progress or has been made.
func (s *State) Attempted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.attempted
}

// Succeeded reports whether a repair has made a retried command succeed.
func (s *State) Succeeded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.succeeded
}

// Reset forgets every previous attempt.
func (s *State) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.attempted = false
	s.succeeded = false
}

// begin claims the single repair slot. It returns false when a repair was
// already attempted or has already succeeded.
func (s *State) begin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.attempted || s.succeeded {
		return false
	}

	s.attempted = true

	return true
}

func (s *State) finish(ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ok {
		s.succeeded = true

		return
	}

	s.attempted = false
}
