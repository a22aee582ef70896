package service

import (
	"context"

	"github.com/alexanderramin/atelier/internal/app"
	"github.com/alexanderramin/atelier/internal/domain"
	"github.com/alexanderramin/atelier/internal/importer"
)

type ProjectService interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	List(ctx context.Context, includeArchived bool) ([]*domain.Project, error)
	Update(ctx context.Context, p *domain.Project) error
	SetStage(ctx context.Context, id string, stage domain.PipelineStage) (*domain.Project, error)
	AdvanceStage(ctx context.Context, id string) (*domain.Project, error)
	RecomputeProgress(ctx context.Context, id string) (*domain.Project, error)
	Timeline(ctx context.Context, id string) (*app.ProjectTimeline, error)
	Archive(ctx context.Context, id string) error
	Unarchive(ctx context.Context, id string) error
	Delete(ctx context.Context, id string, force bool) error
}

type TaskService interface {
	Create(ctx context.Context, t *domain.Task) error
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.Task, error)
	Update(ctx context.Context, t *domain.Task) error
	UpdateStatus(ctx context.Context, id string, status domain.TaskStatus) (*domain.Task, error)
	Reopen(ctx context.Context, id string) (*domain.Task, error)
	Delete(ctx context.Context, id string) error
}

type ReturnService interface {
	Create(ctx context.Context, r *domain.Return) error
	GetByID(ctx context.Context, id string) (*domain.Return, error)
	List(ctx context.Context, openOnly bool) ([]*domain.Return, error)
	Resolve(ctx context.Context, id string, status domain.ReturnStatus) (*domain.Return, error)
	Delete(ctx context.Context, id string) error
	Sweep(ctx context.Context, req app.SweepRequest) (*app.SweepResult, error)
}

type StatusService interface {
	GetStatus(ctx context.Context, req app.StatusRequest) (*app.StatusResponse, error)
}

type ImportService interface {
	ImportFile(ctx context.Context, filePath string) (*app.ImportResult, error)
	Import(ctx context.Context, schema *importer.ImportSchema) (*app.ImportResult, error)
}
