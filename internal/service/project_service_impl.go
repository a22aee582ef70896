package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/atelier/internal/app"
	"github.com/alexanderramin/atelier/internal/db"
	"github.com/alexanderramin/atelier/internal/domain"
	"github.com/alexanderramin/atelier/internal/progress"
	"github.com/alexanderramin/atelier/internal/repository"
	"github.com/google/uuid"
)

type projectService struct {
	projects repository.ProjectRepo
	tasks    repository.TaskRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewProjectService(
	projects repository.ProjectRepo,
	tasks repository.TaskRepo,
	uow db.UnitOfWork,
	observers ...UseCaseObserver,
) ProjectService {
	return &projectService{
		projects: projects,
		tasks:    tasks,
		uow:      uow,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *projectService) Create(ctx context.Context, p *domain.Project) (err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"project": p.Name}
	defer func() { observe(ctx, s.observer, "create-project", startedAt, fields, nil, &err) }()

	p.ShortID = strings.ToUpper(strings.TrimSpace(p.ShortID))
	if err = p.ValidateShortID(); err != nil {
		return err
	}
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("project name is required")
	}
	if p.Status == "" {
		p.Status = domain.StageConsultation
	}
	if !p.Status.Valid() {
		return fmt.Errorf("%w: %q", domain.ErrInvalidStage, p.Status)
	}
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	p.ArchivedAt = nil

	// A new project has no tasks yet.
	p.Progress, err = progress.CalculateProjectProgress(p.Status, nil)
	if err != nil {
		return err
	}
	fields["short_id"] = p.ShortID
	fields["stage"] = string(p.Status)
	return s.projects.Create(ctx, p)
}

func (s *projectService) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	return s.projects.GetByID(ctx, id)
}

func (s *projectService) List(ctx context.Context, includeArchived bool) ([]*domain.Project, error) {
	return s.projects.List(ctx, includeArchived)
}

func (s *projectService) Update(ctx context.Context, p *domain.Project) error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("project name is required")
	}
	p.ShortID = strings.ToUpper(strings.TrimSpace(p.ShortID))
	if err := p.ValidateShortID(); err != nil {
		return err
	}
	p.UpdatedAt = time.Now().UTC()
	return s.projects.Update(ctx, p)
}

func (s *projectService) SetStage(ctx context.Context, id string, stage domain.PipelineStage) (p *domain.Project, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"project_id": id, "to": string(stage)}
	var warnings []string
	defer func() { observe(ctx, s.observer, "set-stage", startedAt, fields, &warnings, &err) }()

	if !stage.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidStage, stage)
	}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txProjects := repository.NewSQLiteProjectRepo(tx)
		txTasks := repository.NewSQLiteTaskRepo(tx)

		var txErr error
		p, txErr = txProjects.GetByID(ctx, id)
		if txErr != nil {
			return txErr
		}
		fields["from"] = string(p.Status)
		w, txErr := recomputeProgress(ctx, txProjects, txTasks, p, stage)
		warnings = appendWarning(warnings, w)
		return txErr
	})
	if err != nil {
		return nil, err
	}
	fields["progress"] = p.Progress
	return p, nil
}

func (s *projectService) AdvanceStage(ctx context.Context, id string) (p *domain.Project, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"project_id": id}
	var warnings []string
	defer func() { observe(ctx, s.observer, "advance-stage", startedAt, fields, &warnings, &err) }()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txProjects := repository.NewSQLiteProjectRepo(tx)
		txTasks := repository.NewSQLiteTaskRepo(tx)

		var txErr error
		p, txErr = txProjects.GetByID(ctx, id)
		if txErr != nil {
			return txErr
		}
		next, txErr := p.Status.Next()
		if txErr != nil {
			return txErr
		}
		fields["from"] = string(p.Status)
		fields["to"] = string(next)
		w, txErr := recomputeProgress(ctx, txProjects, txTasks, p, next)
		warnings = appendWarning(warnings, w)
		return txErr
	})
	if err != nil {
		return nil, err
	}
	fields["progress"] = p.Progress
	return p, nil
}

func (s *projectService) RecomputeProgress(ctx context.Context, id string) (p *domain.Project, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"project_id": id}
	var warnings []string
	defer func() { observe(ctx, s.observer, "recompute-progress", startedAt, fields, &warnings, &err) }()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txProjects := repository.NewSQLiteProjectRepo(tx)
		txTasks := repository.NewSQLiteTaskRepo(tx)

		var txErr error
		p, txErr = txProjects.GetByID(ctx, id)
		if txErr != nil {
			return txErr
		}
		fields["stored"] = p.Progress
		w, txErr := recomputeProgress(ctx, txProjects, txTasks, p, p.Status)
		warnings = appendWarning(warnings, w)
		return txErr
	})
	if err != nil {
		return nil, err
	}
	fields["progress"] = p.Progress
	return p, nil
}

// Timeline reads the project and its tasks and derives the per-stage view.
// Nothing is written.
func (s *projectService) Timeline(ctx context.Context, id string) (*app.ProjectTimeline, error) {
	p, err := s.projects.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	tasks, err := s.tasks.ListByProject(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading tasks: %w", err)
	}
	pct, err := progress.CalculateProjectProgress(p.Status, tasks)
	if err != nil && !errors.Is(err, progress.ErrUnknownStage) {
		return nil, err
	}
	return &app.ProjectTimeline{
		Project:  p,
		Progress: pct,
		Stages:   progress.AllStageProgress(p.Status, tasks),
		Tasks:    tasks,
	}, nil
}

func (s *projectService) Archive(ctx context.Context, id string) error {
	return s.projects.Archive(ctx, id)
}

func (s *projectService) Unarchive(ctx context.Context, id string) error {
	return s.projects.Unarchive(ctx, id)
}

func (s *projectService) Delete(ctx context.Context, id string, force bool) error {
	if !force {
		p, err := s.projects.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if !p.IsArchived() {
			return fmt.Errorf("project must be archived before deletion (use --force to override)")
		}
	}
	return s.projects.Delete(ctx, id)
}
