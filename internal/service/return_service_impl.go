package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/atelier/internal/app"
	"github.com/alexanderramin/atelier/internal/db"
	"github.com/alexanderramin/atelier/internal/domain"
	"github.com/alexanderramin/atelier/internal/overdue"
	"github.com/alexanderramin/atelier/internal/repository"
	"github.com/google/uuid"
)

// SweepPolicy controls how overdue returns become tasks.
type SweepPolicy struct {
	Thresholds   overdue.Thresholds
	TaskCategory domain.TaskCategory
}

func DefaultSweepPolicy() SweepPolicy {
	return SweepPolicy{
		Thresholds:   overdue.DefaultThresholds(),
		TaskCategory: domain.CategoryOrdering,
	}
}

type returnService struct {
	returns  repository.ReturnRepo
	uow      db.UnitOfWork
	policy   SweepPolicy
	observer UseCaseObserver
}

func NewReturnService(
	returns repository.ReturnRepo,
	uow db.UnitOfWork,
	policy SweepPolicy,
	observers ...UseCaseObserver,
) ReturnService {
	if policy.TaskCategory == "" {
		policy.TaskCategory = domain.CategoryOrdering
	}
	return &returnService{
		returns:  returns,
		uow:      uow,
		policy:   policy,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *returnService) Create(ctx context.Context, r *domain.Return) error {
	if strings.TrimSpace(r.Item) == "" {
		return fmt.Errorf("return item is required")
	}
	if r.AmountCents < 0 {
		return fmt.Errorf("return amount must not be negative")
	}
	if r.DueDate.IsZero() {
		return fmt.Errorf("return due date is required")
	}
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	if r.Status == "" {
		r.Status = domain.ReturnOpen
	}
	now := time.Now().UTC()
	r.CreatedAt = now
	r.UpdatedAt = now
	return s.returns.Create(ctx, r)
}

func (s *returnService) GetByID(ctx context.Context, id string) (*domain.Return, error) {
	return s.returns.GetByID(ctx, id)
}

func (s *returnService) List(ctx context.Context, openOnly bool) ([]*domain.Return, error) {
	return s.returns.List(ctx, openOnly)
}

// Resolve closes a return. A linked chase task that is still open is
// completed in the same transaction, which moves the project's progress.
func (s *returnService) Resolve(ctx context.Context, id string, status domain.ReturnStatus) (*domain.Return, error) {
	if status == domain.ReturnOpen {
		return nil, fmt.Errorf("resolve needs a closing status (shipped, refunded or cancelled)")
	}
	if _, err := domain.ParseReturnStatus(string(status)); err != nil {
		return nil, err
	}

	var ret *domain.Return
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txProjects := repository.NewSQLiteProjectRepo(tx)
		txTasks := repository.NewSQLiteTaskRepo(tx)
		txReturns := repository.NewSQLiteReturnRepo(tx)

		r, err := txReturns.GetByID(ctx, id)
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		r.Status = status
		r.UpdatedAt = now
		if err := txReturns.Update(ctx, r); err != nil {
			return err
		}
		ret = r

		if r.TaskID == nil {
			return nil
		}
		t, err := txTasks.GetByID(ctx, *r.TaskID)
		if err != nil {
			return err
		}
		if t.IsCompleted() {
			return nil
		}
		if err := t.MarkCompleted(now); err != nil {
			return err
		}
		if err := txTasks.Update(ctx, t); err != nil {
			return err
		}
		p, err := txProjects.GetByID(ctx, t.ProjectID)
		if err != nil {
			return err
		}
		_, err = recomputeProgress(ctx, txProjects, txTasks, p, p.Status)
		return err
	})
	if err != nil {
		return nil, err
	}
	return ret, nil
}

func (s *returnService) Delete(ctx context.Context, id string) error {
	return s.returns.Delete(ctx, id)
}

// Sweep promotes every open, unlinked return due before req.AsOf into a
// chase task. Archived projects are skipped. Each return is handled in its own transaction so one failure
// does not undo the others; the first error stops the sweep.
func (s *returnService) Sweep(ctx context.Context, req app.SweepRequest) (result *app.SweepResult, err error) {
	startedAt := time.Now().UTC()
	asOf := req.AsOf
	if asOf.IsZero() {
		asOf = startedAt
	}
	asOf = asOf.UTC()
	fields := map[string]any{"as_of": asOf.Format("2006-01-02"), "dry_run": req.DryRun}
	result = &app.SweepResult{AsOf: asOf, DryRun: req.DryRun}
	defer func() {
		fields["promoted"] = len(result.Promoted)
		observe(ctx, s.observer, "sweep-returns", startedAt, fields, &result.Warnings, &err)
	}()

	candidates, err := s.returns.ListOverdue(ctx, asOf)
	if err != nil {
		return result, fmt.Errorf("listing overdue returns: %w", err)
	}

	for _, candidate := range candidates {
		days := overdue.DaysOverdue(candidate.DueDate, asOf)
		promoted := app.PromotedReturn{
			ReturnID:    candidate.ID,
			ProjectID:   candidate.ProjectID,
			Item:        candidate.Item,
			Vendor:      candidate.Vendor,
			DaysOverdue: days,
			Priority:    overdue.Classify(days, s.policy.Thresholds),
		}
		if req.DryRun {
			result.Promoted = append(result.Promoted, promoted)
			continue
		}

		var taskID string
		taskID, err = s.promote(ctx, candidate.ID, promoted.Priority, asOf, &result.Warnings)
		if err != nil {
			return result, fmt.Errorf("promoting return %q: %w", candidate.Item, err)
		}
		if taskID == "" {
			continue
		}
		promoted.TaskID = taskID
		result.Promoted = append(result.Promoted, promoted)
	}
	return result, nil
}

// promote creates and links the chase task for one return. It re-checks the
// return inside the transaction and returns "" if it no longer qualifies.
func (s *returnService) promote(
	ctx context.Context,
	returnID string,
	priority domain.TaskPriority,
	asOf time.Time,
	warnings *[]string,
) (string, error) {
	var taskID string
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txProjects := repository.NewSQLiteProjectRepo(tx)
		txTasks := repository.NewSQLiteTaskRepo(tx)
		txReturns := repository.NewSQLiteReturnRepo(tx)

		r, err := txReturns.GetByID(ctx, returnID)
		if err != nil {
			return err
		}
		if !r.NeedsPromotion(asOf) {
			return nil
		}
		p, err := txProjects.GetByID(ctx, r.ProjectID)
		if err != nil {
			return err
		}
		if p.IsArchived() {
			return nil
		}

		now := time.Now().UTC()
		due := asOf
		t := &domain.Task{
			ID:        uuid.New().String(),
			ProjectID: r.ProjectID,
			Title:     chaseTitle(r),
			Category:  s.policy.TaskCategory,
			Status:    domain.TaskPending,
			Priority:  priority,
			DueDate:   &due,
			ReturnID:  &r.ID,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := txTasks.Create(ctx, t); err != nil {
			return err
		}
		r.TaskID = &t.ID
		r.UpdatedAt = now
		if err := txReturns.Update(ctx, r); err != nil {
			return err
		}

		w, err := recomputeProgress(ctx, txProjects, txTasks, p, p.Status)
		if err != nil {
			return err
		}
		*warnings = appendWarning(*warnings, w)
		taskID = t.ID
		return nil
	})
	if err != nil {
		return "", err
	}
	return taskID, nil
}

func chaseTitle(r *domain.Return) string {
	if r.Vendor == "" {
		return "Chase return: " + r.Item
	}
	return fmt.Sprintf("Chase return: %s (%s)", r.Item, r.Vendor)
}
