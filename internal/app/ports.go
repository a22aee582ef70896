package app

import (
	"context"

	"github.com/alexanderramin/atelier/internal/domain"
	"github.com/alexanderramin/atelier/internal/importer"
)

type StatusUseCase interface {
	GetStatus(ctx context.Context, req StatusRequest) (*StatusResponse, error)
}

type SweepReturnsUseCase interface {
	Sweep(ctx context.Context, req SweepRequest) (*SweepResult, error)
}

type ImportResult struct {
	Projects    []*domain.Project
	TaskCount   int
	ReturnCount int
}

type ImportStudioUseCase interface {
	ImportFile(ctx context.Context, filePath string) (*ImportResult, error)
	Import(ctx context.Context, schema *importer.ImportSchema) (*ImportResult, error)
}
