package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/atelier/internal/db"
	"github.com/alexanderramin/atelier/internal/domain"
	"github.com/alexanderramin/atelier/internal/repository"
	"github.com/google/uuid"
)

type taskService struct {
	tasks    repository.TaskRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewTaskService(tasks repository.TaskRepo, uow db.UnitOfWork, observers ...UseCaseObserver) TaskService {
	return &taskService{
		tasks:    tasks,
		uow:      uow,
		observer: useCaseObserverOrNoop(observers),
	}
}

func validateTask(t *domain.Task) error {
	if strings.TrimSpace(t.Title) == "" {
		return fmt.Errorf("task title is required")
	}
	if !t.Category.Valid() {
		return fmt.Errorf("%w: %q", domain.ErrInvalidCategory, t.Category)
	}
	if _, err := domain.ParseTaskPriority(string(t.Priority)); err != nil {
		return err
	}
	return nil
}

func (s *taskService) Create(ctx context.Context, t *domain.Task) (err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"project_id": t.ProjectID, "category": string(t.Category)}
	var warnings []string
	defer func() { observe(ctx, s.observer, "create-task", startedAt, fields, &warnings, &err) }()

	if t.Status == "" {
		t.Status = domain.TaskPending
	}
	if err = validateTask(t); err != nil {
		return err
	}
	if _, err = domain.ParseTaskStatus(string(t.Status)); err != nil {
		return err
	}
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now
	if t.Status == domain.TaskCompleted && t.CompletedAt == nil {
		t.CompletedAt = &now
	}

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txProjects := repository.NewSQLiteProjectRepo(tx)
		txTasks := repository.NewSQLiteTaskRepo(tx)

		p, err := txProjects.GetByID(ctx, t.ProjectID)
		if err != nil {
			return err
		}
		if err := txTasks.Create(ctx, t); err != nil {
			return err
		}
		w, err := recomputeProgress(ctx, txProjects, txTasks, p, p.Status)
		warnings = appendWarning(warnings, w)
		fields["progress"] = p.Progress
		return err
	})
}

func (s *taskService) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	return s.tasks.GetByID(ctx, id)
}

func (s *taskService) ListByProject(ctx context.Context, projectID string) ([]*domain.Task, error) {
	return s.tasks.ListByProject(ctx, projectID)
}

// Update writes the descriptive fields of t. Status is left as stored; use
// UpdateStatus or Reopen to move it.
func (s *taskService) Update(ctx context.Context, t *domain.Task) error {
	if err := validateTask(t); err != nil {
		return err
	}
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txProjects := repository.NewSQLiteProjectRepo(tx)
		txTasks := repository.NewSQLiteTaskRepo(tx)

		existing, err := txTasks.GetByID(ctx, t.ID)
		if err != nil {
			return err
		}
		existing.Title = t.Title
		existing.Notes = t.Notes
		existing.Category = t.Category
		existing.Priority = t.Priority
		existing.DueDate = t.DueDate
		existing.UpdatedAt = time.Now().UTC()
		if err := txTasks.Update(ctx, existing); err != nil {
			return err
		}
		*t = *existing

		p, err := txProjects.GetByID(ctx, existing.ProjectID)
		if err != nil {
			return err
		}
		_, err = recomputeProgress(ctx, txProjects, txTasks, p, p.Status)
		return err
	})
}

func (s *taskService) UpdateStatus(ctx context.Context, id string, status domain.TaskStatus) (*domain.Task, error) {
	return s.mutateStatus(ctx, id, status, func(t *domain.Task, now time.Time) error {
		return t.TransitionTo(status, now)
	})
}

func (s *taskService) Reopen(ctx context.Context, id string) (*domain.Task, error) {
	return s.mutateStatus(ctx, id, domain.TaskPending, func(t *domain.Task, now time.Time) error {
		return t.Reopen(now)
	})
}

// mutateStatus applies a status change and the resulting progress update in
// one transaction.
func (s *taskService) mutateStatus(
	ctx context.Context,
	id string,
	to domain.TaskStatus,
	apply func(t *domain.Task, now time.Time) error,
) (task *domain.Task, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"task_id": id, "to": string(to)}
	var warnings []string
	defer func() { observe(ctx, s.observer, "update-task-status", startedAt, fields, &warnings, &err) }()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txProjects := repository.NewSQLiteProjectRepo(tx)
		txTasks := repository.NewSQLiteTaskRepo(tx)

		t, err := txTasks.GetByID(ctx, id)
		if err != nil {
			return err
		}
		fields["from"] = string(t.Status)
		if err := apply(t, time.Now().UTC()); err != nil {
			return err
		}
		if err := txTasks.Update(ctx, t); err != nil {
			return err
		}

		p, err := txProjects.GetByID(ctx, t.ProjectID)
		if err != nil {
			return err
		}
		w, err := recomputeProgress(ctx, txProjects, txTasks, p, p.Status)
		warnings = appendWarning(warnings, w)
		fields["progress"] = p.Progress
		task = t
		return err
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

func (s *taskService) Delete(ctx context.Context, id string) (err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"task_id": id}
	var warnings []string
	defer func() { observe(ctx, s.observer, "delete-task", startedAt, fields, &warnings, &err) }()

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txProjects := repository.NewSQLiteProjectRepo(tx)
		txTasks := repository.NewSQLiteTaskRepo(tx)

		t, err := txTasks.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := txTasks.Delete(ctx, id); err != nil {
			return err
		}
		p, err := txProjects.GetByID(ctx, t.ProjectID)
		if err != nil {
			return err
		}
		w, err := recomputeProgress(ctx, txProjects, txTasks, p, p.Status)
		warnings = appendWarning(warnings, w)
		fields["progress"] = p.Progress
		return err
	})
}
