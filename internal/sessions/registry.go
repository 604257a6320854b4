package sessions

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/dverney/taskdeck/internal/todo"
)

// ErrNotFound is returned when a session id is unknown to the registry.
var ErrNotFound = errors.New("session not found")

type entry struct {
	meta    Session
	records []todo.Record
}

// Registry keeps every live session's snapshot in process memory. Snapshots
// die with the process; nothing here survives a restart. The registry itself
// is shared between HTTP requests and therefore locked, but each session is
// only ever touched by one request at a time.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*entry
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*entry)}
}

// Open returns the session with the given id, creating a fresh one when id is
// empty or unknown. The returned bool reports whether a session was created.
func (r *Registry) Open(id string) (Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if ValidID(id) {
		if e, ok := r.sessions[id]; ok {
			return e.meta, false
		}
	}

	now := time.Now()
	e := &entry{meta: Session{ID: generateSessionID(), CreatedAt: now, UpdatedAt: now}}
	r.sessions[e.meta.ID] = e
	return e.meta, true
}

// Get returns session metadata by id.
func (r *Registry) Get(id string) (Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.sessions[id]
	if !ok {
		return Session{}, ErrNotFound
	}
	return e.meta, nil
}

// List returns all sessions sorted by UpdatedAt descending.
func (r *Registry) List() []Session {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Session, 0, len(r.sessions))
	for _, e := range r.sessions {
		out = append(out, e.meta)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out
}

// Purge removes a session and its snapshot.
func (r *Registry) Purge(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[id]; !ok {
		return ErrNotFound
	}
	delete(r.sessions, id)
	return nil
}

// Snapshot returns the todo.Store bound to the given session. The store's
// Load/Save operate on that session's records only.
func (r *Registry) Snapshot(id string) todo.Store {
	return &snapshotStore{registry: r, sessionID: id}
}

// snapshotStore adapts one registry entry to the manager's store protocol.
type snapshotStore struct {
	registry  *Registry
	sessionID string
}

func (s *snapshotStore) Load() ([]todo.Record, error) {
	s.registry.mu.RLock()
	defer s.registry.mu.RUnlock()

	e, ok := s.registry.sessions[s.sessionID]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]todo.Record, len(e.records))
	copy(out, e.records)
	return out, nil
}

func (s *snapshotStore) Save(records []todo.Record) error {
	s.registry.mu.Lock()
	defer s.registry.mu.Unlock()

	e, ok := s.registry.sessions[s.sessionID]
	if !ok {
		return ErrNotFound
	}
	e.records = make([]todo.Record, len(records))
	copy(e.records, records)
	e.meta.TaskCount = len(records)
	e.meta.UpdatedAt = time.Now()
	return nil
}
