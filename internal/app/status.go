package app

import (
	"time"

	"github.com/alexanderramin/atelier/internal/domain"
)

type StatusRequest struct {
	Now             *time.Time
	ProjectScope    []string
	IncludeArchived bool
}

func NewStatusRequest() StatusRequest {
	return StatusRequest{}
}

// ProjectStatusView is one project's row in the studio overview.
type ProjectStatusView struct {
	ProjectID        string
	ShortID          string
	ProjectName      string
	ClientName       string
	Stage            domain.PipelineStage
	StoredProgress   int
	ComputedProgress int
	// Drift is set when the persisted progress no longer matches the engine.
	Drift           bool
	StageTaskCount  int
	StageTaskDone   int
	OpenTaskCount   int
	OpenReturnCount int
	OverdueReturns  int
	Archived        bool
}

type StageSummary struct {
	Stage        domain.PipelineStage
	DisplayName  string
	ProjectCount int
}

type GlobalStatusSummary struct {
	GeneratedAt     time.Time
	CountsTotal     int
	CountsDrifted   int
	AverageProgress int
	ByStage         []StageSummary
}

type StatusResponse struct {
	Summary  GlobalStatusSummary
	Projects []ProjectStatusView
	Warnings []string
}

type StatusErrorCode string

const (
	StatusErrInvalidScope StatusErrorCode = "INVALID_SCOPE"
)

type StatusError struct {
	Code    StatusErrorCode
	Message string
}

func (e *StatusError) Error() string {
	return string(e.Code) + ": " + e.Message
}
