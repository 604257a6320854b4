package todo

import "errors"

var (
	// ErrNotFound is returned when no live task carries the requested id.
	ErrNotFound = errors.New("task not found")
	// ErrEmptyTitle rejects task creation before anything is constructed.
	ErrEmptyTitle = errors.New("task title cannot be empty")
	// ErrBadStatus rejects status values outside pending/completed.
	ErrBadStatus = errors.New("invalid task status")
)
