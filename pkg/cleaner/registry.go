// pkg/cleaner/registry.go
package cleaner

import (
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// ErrSessionNotFound is returned for an unknown session ID
var ErrSessionNotFound = errors.New("session not found")

// Registry keeps independent sessions keyed by ID. Each session carries its
// own lock, so actions against one session are serialized while different
// sessions never share tables or state.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*entry
	logger   *zap.Logger
	opts     []Option
}

type entry struct {
	mu      sync.Mutex
	session *Session
}

// NewRegistry creates an empty registry. opts are applied to every session
// the registry creates.
func NewRegistry(logger *zap.Logger, opts ...Option) (*Registry, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	return &Registry{
		sessions: make(map[string]*entry),
		logger:   logger.Named("registry"),
		opts:     opts,
	}, nil
}

// Create starts a new empty session and returns its ID
func (r *Registry) Create() (string, error) {
	s, err := NewSession(r.logger, r.opts...)
	if err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}

	r.mu.Lock()
	r.sessions[s.ID()] = &entry{session: s}
	count := len(r.sessions)
	r.mu.Unlock()

	r.logger.Info("Created session", zap.String("session", s.ID()), zap.Int("active", count))
	return s.ID(), nil
}

// With runs fn while holding the lock of the identified session
func (r *Registry) With(id string, fn func(*Session) error) error {
	r.mu.Lock()
	e, ok := r.sessions[id]
	r.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e.session)
}

// Delete discards the identified session
func (r *Registry) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[id]; !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	delete(r.sessions, id)
	r.logger.Info("Deleted session", zap.String("session", id), zap.Int("active", len(r.sessions)))
	return nil
}

// Len returns the number of live sessions
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
