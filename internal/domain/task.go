package domain

import (
	"fmt"
	"time"
)

type Task struct {
	ID        string
	ProjectID string
	Title     string
	Notes     string
	Category  TaskCategory
	Status    TaskStatus
	Priority  TaskPriority
	DueDate   *time.Time
	// ReturnID links a task created by the overdue-returns sweep back to its return.
	ReturnID    *string
	CompletedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (t *Task) IsCompleted() bool { return t.Status == TaskCompleted }

// MarkInProgress moves a pending task to in_progress. It is a no-op when the
// task is already in progress.
func (t *Task) MarkInProgress(now time.Time) error {
	switch t.Status {
	case TaskInProgress:
		return nil
	case TaskPending:
		t.Status = TaskInProgress
		t.UpdatedAt = now
		return nil
	default:
		return fmt.Errorf("%w: cannot start a %s task (reopen it first)", ErrInvalidTransition, t.Status)
	}
}

// MarkCompleted completes a pending or in-progress task. CompletedAt is kept
// when the task is already completed.
func (t *Task) MarkCompleted(now time.Time) error {
	if t.Status == TaskCompleted {
		return nil
	}
	if t.Status != TaskPending && t.Status != TaskInProgress {
		return fmt.Errorf("%w: cannot complete a task in status %q", ErrInvalidTransition, t.Status)
	}
	t.Status = TaskCompleted
	t.CompletedAt = &now
	t.UpdatedAt = now
	return nil
}

// Reopen returns a task to pending and clears CompletedAt.
func (t *Task) Reopen(now time.Time) error {
	if t.Status == TaskPending {
		return nil
	}
	t.Status = TaskPending
	t.CompletedAt = nil
	t.UpdatedAt = now
	return nil
}

// TransitionTo applies a forward status change: pending → in_progress →
// completed, or pending → completed directly.
func (t *Task) TransitionTo(status TaskStatus, now time.Time) error {
	switch status {
	case TaskInProgress:
		return t.MarkInProgress(now)
	case TaskCompleted:
		return t.MarkCompleted(now)
	case TaskPending:
		if t.Status == TaskPending {
			return nil
		}
		return fmt.Errorf("%w: %s → pending requires reopen", ErrInvalidTransition, t.Status)
	default:
		return fmt.Errorf("%w: %q", ErrInvalidTaskStatus, status)
	}
}
