// Package todo provides the task model and its session-scoped manager.
package todo

import (
	"fmt"
	"strconv"
	"time"
)

// Status represents the lifecycle state of a task.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
)

// ParseStatus validates a raw status value.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusCompleted:
		return Status(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrBadStatus, s)
}

// Toggle returns the opposite status.
func (s Status) Toggle() Status {
	if s == StatusCompleted {
		return StatusPending
	}
	return StatusCompleted
}

// Task is a single to-do item. IDs are assigned by the Manager at creation
// and are unique among live tasks only; see Manager.Add.
type Task struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Update is a partial update applied through Manager.Apply. Nil fields are
// left unchanged; these three are the only mutable attributes.
type Update struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Status      *Status `json:"status,omitempty"`
}

// Record is the flat string form a Task takes in a session snapshot.
// Timestamps are RFC3339Nano so a load/save cycle reproduces them exactly.
type Record struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

// Fields returns the record's columns in export order.
func (r Record) Fields() []string {
	return []string{r.ID, r.Title, r.Description, r.Status, r.CreatedAt, r.UpdatedAt}
}

// RecordHeader lists the snapshot/export column names in order.
func RecordHeader() []string {
	return []string{"id", "title", "description", "status", "created_at", "updated_at"}
}

// Record converts the task to its snapshot form.
func (t Task) Record() Record {
	return Record{
		ID:          strconv.Itoa(t.ID),
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		CreatedAt:   t.CreatedAt.Format(time.RFC3339Nano),
		UpdatedAt:   t.UpdatedAt.Format(time.RFC3339Nano),
	}
}

// TaskFromRecord reconstructs a task from its snapshot form, keeping the
// original id and timestamps.
func TaskFromRecord(r Record) (Task, error) {
	id, err := strconv.Atoi(r.ID)
	if err != nil {
		return Task{}, fmt.Errorf("record id %q: %w", r.ID, err)
	}
	status, err := ParseStatus(r.Status)
	if err != nil {
		return Task{}, fmt.Errorf("record %s: %w", r.ID, err)
	}
	created, err := time.Parse(time.RFC3339Nano, r.CreatedAt)
	if err != nil {
		return Task{}, fmt.Errorf("record %s created_at: %w", r.ID, err)
	}
	updated, err := time.Parse(time.RFC3339Nano, r.UpdatedAt)
	if err != nil {
		return Task{}, fmt.Errorf("record %s updated_at: %w", r.ID, err)
	}
	return Task{
		ID:          id,
		Title:       r.Title,
		Description: r.Description,
		Status:      status,
		CreatedAt:   created,
		UpdatedAt:   updated,
	}, nil
}

// Equal reports field-for-field equality, comparing timestamps by instant.
func (t Task) Equal(o Task) bool {
	return t.ID == o.ID &&
		t.Title == o.Title &&
		t.Description == o.Description &&
		t.Status == o.Status &&
		t.CreatedAt.Equal(o.CreatedAt) &&
		t.UpdatedAt.Equal(o.UpdatedAt)
}
