package todo

import (
	"fmt"
	"time"
)

// Manager is the single source of truth for one session's task collection.
// It is not safe for concurrent use; callers serialize access per session,
// which matches the one-interaction-at-a-time execution model it serves.
type Manager struct {
	store Store
	tasks []Task
}

// NewManager loads the store's snapshot into a fresh manager. A missing or
// empty snapshot yields an empty collection.
func NewManager(store Store) (*Manager, error) {
	m := &Manager{store: store}
	records, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	for _, r := range records {
		t, err := TaskFromRecord(r)
		if err != nil {
			return nil, fmt.Errorf("load snapshot: %w", err)
		}
		m.tasks = append(m.tasks, t)
	}
	return m, nil
}

// Add creates a task with the given title and description and persists the
// snapshot. The id is the collection size plus one, which reproduces the
// historical behavior of this system: after a delete, a later add can reissue
// an id that was used before.
func (m *Manager) Add(title, description string) (Task, error) {
	if title == "" {
		return Task{}, ErrEmptyTitle
	}
	now := time.Now()
	t := Task{
		ID:          len(m.tasks) + 1,
		Title:       title,
		Description: description,
		Status:      StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	m.tasks = append(m.tasks, t)
	if err := m.save(); err != nil {
		return Task{}, err
	}
	return t, nil
}

// Get returns the first task with the given id, or ErrNotFound.
func (m *Manager) Get(id int) (Task, error) {
	for _, t := range m.tasks {
		if t.ID == id {
			return t, nil
		}
	}
	return Task{}, ErrNotFound
}

// Apply overwrites the fields set in u on the task with the given id,
// refreshes UpdatedAt, and persists the snapshot. There are no transition
// guards; status moves freely between its two values.
func (m *Manager) Apply(id int, u Update) (Task, error) {
	for i := range m.tasks {
		if m.tasks[i].ID != id {
			continue
		}
		if u.Title != nil {
			m.tasks[i].Title = *u.Title
		}
		if u.Description != nil {
			m.tasks[i].Description = *u.Description
		}
		if u.Status != nil {
			m.tasks[i].Status = *u.Status
		}
		m.tasks[i].UpdatedAt = time.Now()
		if err := m.save(); err != nil {
			return Task{}, err
		}
		return m.tasks[i], nil
	}
	return Task{}, ErrNotFound
}

// Delete removes the first task with the given id and persists the snapshot.
func (m *Manager) Delete(id int) error {
	for i, t := range m.tasks {
		if t.ID == id {
			m.tasks = append(m.tasks[:i], m.tasks[i+1:]...)
			return m.save()
		}
	}
	return ErrNotFound
}

// List returns the tasks in insertion order. A non-nil filter restricts the
// result to that status. The returned slice is a copy.
func (m *Manager) List(filter *Status) []Task {
	out := make([]Task, 0, len(m.tasks))
	for _, t := range m.tasks {
		if filter != nil && t.Status != *filter {
			continue
		}
		out = append(out, t)
	}
	return out
}

// Stats computes aggregate counts fresh from the current collection.
func (m *Manager) Stats() Stats {
	s := Stats{Total: len(m.tasks)}
	for _, t := range m.tasks {
		switch t.Status {
		case StatusCompleted:
			s.Completed++
		default:
			s.Pending++
		}
	}
	if s.Total > 0 {
		s.CompletionRate = float64(s.Completed) / float64(s.Total) * 100
	}
	return s
}

// Records returns the snapshot form of the full collection in insertion order.
func (m *Manager) Records() []Record {
	records := make([]Record, len(m.tasks))
	for i, t := range m.tasks {
		records[i] = t.Record()
	}
	return records
}

func (m *Manager) save() error {
	if err := m.store.Save(m.Records()); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

// Stats is the aggregate view over one collection. CompletionRate is a
// percentage, 0 on an empty collection.
type Stats struct {
	Total          int     `json:"total"`
	Pending        int     `json:"pending"`
	Completed      int     `json:"completed"`
	CompletionRate float64 `json:"completion_rate"`
}
