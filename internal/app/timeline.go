package app

import (
	"github.com/alexanderramin/atelier/internal/domain"
	"github.com/alexanderramin/atelier/internal/progress"
)

// ProjectTimeline is the vertical stage view for a single project.
type ProjectTimeline struct {
	Project  *domain.Project
	Progress int
	Stages   []progress.StageProgress
	Tasks    []*domain.Task
}
