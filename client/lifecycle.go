package client

import (
	"sync"
)

// releaseStack holds scoped cleanup actions. Actions are pushed in
// acquisition order and run in strict reverse order, exactly once, no matter
// how many triggers invoke release (explicit close, fatal error, failed
// handshake).
type releaseStack struct {
	mu       sync.Mutex
	funcs    []func() error
	released bool
}

// push registers a cleanup action for a successfully acquired resource.
// Pushing after release runs the action immediately: a late acquisition
// still gets exactly one release.
func (s *releaseStack) push(f func() error) {
	s.mu.Lock()
	if s.released {
		s.mu.Unlock()
		_ = f()
		return
	}
	s.funcs = append(s.funcs, f)
	s.mu.Unlock()
}

// release runs the registered actions in reverse order. It reports whether
// this call performed the release (false means another trigger already did)
// and the first error encountered. Every action runs even when an earlier
// one fails.
func (s *releaseStack) release() (bool, error) {
	s.mu.Lock()
	if s.released {
		s.mu.Unlock()
		return false, nil
	}
	s.released = true
	funcs := s.funcs
	s.funcs = nil
	s.mu.Unlock()

	var firstErr error
	for i := len(funcs) - 1; i >= 0; i-- {
		if err := funcs[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return true, firstErr
}
