package repository

import (
	"context"
	"errors"
	"time"

	"github.com/alexanderramin/atelier/internal/domain"
)

// ErrNotFound is wrapped by every repository lookup that matches no row,
// e.g. "project not found".
var ErrNotFound = errors.New("not found")

type ProjectRepo interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	GetByShortID(ctx context.Context, shortID string) (*domain.Project, error)
	List(ctx context.Context, includeArchived bool) ([]*domain.Project, error)
	Update(ctx context.Context, p *domain.Project) error
	// UpdateProgress writes the stage and its derived progress together.
	UpdateProgress(ctx context.Context, id string, stage domain.PipelineStage, progress int) error
	Archive(ctx context.Context, id string) error
	Unarchive(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

type TaskRepo interface {
	Create(ctx context.Context, t *domain.Task) error
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.Task, error)
	Update(ctx context.Context, t *domain.Task) error
	Delete(ctx context.Context, id string) error
}

type ReturnRepo interface {
	Create(ctx context.Context, r *domain.Return) error
	GetByID(ctx context.Context, id string) (*domain.Return, error)
	List(ctx context.Context, openOnly bool) ([]*domain.Return, error)
	// ListOverdue returns open, unpromoted returns due strictly before asOf's
	// UTC day. Returns on archived projects are left out.
	ListOverdue(ctx context.Context, asOf time.Time) ([]*domain.Return, error)
	Update(ctx context.Context, r *domain.Return) error
	Delete(ctx context.Context, id string) error
}
